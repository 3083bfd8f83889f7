// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet implements the fund-management and
// transaction-construction engine of a Dash wallet: selecting spendable
// outputs to satisfy a payment, computing fees, building wire-format
// transactions including asset lock funding outputs, submitting them and
// tracking their confirmation and InstantSend status.
//
// Key derivation, signing and chain validation live behind external
// collaborators: the chain.SyncClient boundary and the TxSigner
// interface. The engine never mutates spend status itself; it consumes
// point-in-time UTXO snapshots served by the sync client.
package wallet

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/dashwallet/chain"
)

// TxSigner finalizes an unsigned transaction. Implementations own key
// material and derivation; the wallet hands over the structured
// transaction and the spent outputs and receives a fully signed
// transaction back.
type TxSigner interface {
	// SignTransaction signs every input of tx. The inputs slice
	// parallels tx.TxIn and carries the prevout scripts and values
	// needed to produce the signatures.
	SignTransaction(ctx context.Context, tx *wire.MsgTx,
		inputs []chain.UTXO) (*wire.MsgTx, error)
}

// Wallet is the engine's entry point. Each wallet holds its own
// configuration value; there is no process-wide state, and independent
// wallets never interact.
type Wallet struct {
	cfg *Config

	ledger       *ledger
	reservations *reservationManager
}

// New creates a Wallet from the given config.
func New(cfg *Config) (*Wallet, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	reservations := newReservationManager()

	w := &Wallet{
		cfg:          cfg,
		reservations: reservations,
		ledger:       newLedger(cfg, reservations),
	}

	log.Infof("Wallet created on %s", cfg.Params.Name)

	return w, nil
}

// WatchAddress registers an address with the sync client and persists it
// as watched. When change is true the address becomes the designated
// change destination.
func (w *Wallet) WatchAddress(ctx context.Context, address string,
	change bool) error {

	return w.ledger.watchAddress(ctx, address, change)
}

// UnwatchAddress removes an address from the watch set.
func (w *Wallet) UnwatchAddress(ctx context.Context, address string) error {
	return w.ledger.unwatchAddress(ctx, address)
}

// WatchedAddresses returns all watched addresses in watch order.
func (w *Wallet) WatchedAddresses() ([]AddressRecord, error) {
	return w.ledger.watchedAddresses()
}

// SpendableUTXOs returns a fresh snapshot of the outputs available for
// spending across all watched addresses. Outputs reserved by in-flight
// payment pipelines are excluded.
func (w *Wallet) SpendableUTXOs(ctx context.Context) ([]chain.UTXO, error) {
	return w.ledger.spendableUTXOs(ctx)
}

// Balance returns the aggregated spendable balance in duffs. The value
// is cached inside a bounded freshness window.
func (w *Wallet) Balance(ctx context.Context) (btcutil.Amount, error) {
	return w.ledger.spendableBalance(ctx)
}

// ListTransactions returns broadcasted transactions, newest first.
func (w *Wallet) ListTransactions(limit, offset int) ([]TxRecord, error) {
	return w.ledger.listTransactions(limit, offset)
}
