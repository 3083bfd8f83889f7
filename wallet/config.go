// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/dashpay/dashwallet/chain"
)

var (
	// ErrNilConfig is returned when New is called with a nil config.
	ErrNilConfig = errors.New("nil config")

	// ErrMissingChainClient is returned when no sync client is
	// configured.
	ErrMissingChainClient = errors.New("config missing sync client")

	// ErrMissingStore is returned when no record store is configured.
	ErrMissingStore = errors.New("config missing record store")

	// ErrMissingParams is returned when no network parameters are
	// configured.
	ErrMissingParams = errors.New("config missing network params")
)

// Params holds the network-dependent constants used by the wallet. A
// Params value is constructed once and passed explicitly into each
// wallet; there is no process-wide network state.
type Params struct {
	// Name is the human-readable network name.
	Name string

	// PubKeyHashAddrID is the base58 version byte of P2PKH addresses.
	PubKeyHashAddrID byte

	// ScriptHashAddrID is the base58 version byte of P2SH addresses.
	ScriptHashAddrID byte

	// DustThreshold is the smallest output value, in duffs, that may be
	// emitted as a change output. Change at or below this value is
	// folded into the fee.
	DustThreshold btcutil.Amount

	// AssetLockMinimum is the smallest amount, in duffs, accepted for
	// an asset lock funding output.
	AssetLockMinimum btcutil.Amount
}

// MainNetParams defines the network parameters for the main Dash
// network.
var MainNetParams = Params{
	Name:             "mainnet",
	PubKeyHashAddrID: 0x4c, // addresses start with 'X'
	ScriptHashAddrID: 0x10, // addresses start with '7'
	DustThreshold:    546,
	AssetLockMinimum: 10_000,
}

// TestNet3Params defines the network parameters for the Dash test
// network.
var TestNet3Params = Params{
	Name:             "testnet3",
	PubKeyHashAddrID: 0x8c, // addresses start with 'y'
	ScriptHashAddrID: 0x13,
	DustThreshold:    546,
	AssetLockMinimum: 10_000,
}

const (
	// DefaultPollInterval is the default interval between confirmation
	// status checks while waiting for an instant lock.
	DefaultPollInterval = time.Second

	// DefaultLockTimeout is the default time to wait for an instant
	// lock or a confirmation before giving up the wait. This timeout
	// bounds a single per-transaction wait and is unrelated to any
	// background re-sync period the sync client may use.
	DefaultLockTimeout = 30 * time.Second

	// balanceCacheTTL is the freshness window of the aggregated balance
	// cache.
	balanceCacheTTL = 60 * time.Second
)

// Config bundles the collaborators and parameters required to construct
// a Wallet.
type Config struct {
	// Params are the network constants. Required.
	Params *Params

	// Chain is the external synchronization client. Required.
	Chain chain.SyncClient

	// Store is the record store backing the ledger facade. Required.
	Store Store

	// Signer finalizes built transactions. Optional; when nil,
	// SendPayment and FundAssetLock broadcast the built bytes as-is.
	Signer TxSigner
}

// validate checks that all required collaborators are present.
func (cfg *Config) validate() error {
	switch {
	case cfg.Params == nil:
		return ErrMissingParams
	case cfg.Chain == nil:
		return ErrMissingChainClient
	case cfg.Store == nil:
		return ErrMissingStore
	}

	return nil
}
