// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain defines the boundary to the external Dash
// synchronization client. The sync client owns peer-to-peer networking,
// chain validation and the observation of spends; this package only
// describes the operations the wallet consumes across that boundary.
package chain

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// UTXO is an unspent transaction output as reported by the sync client.
// A UTXO is immutable once observed: the sync client transitions it to
// spent when a confirmed spending transaction is seen, and the wallet
// only ever consumes point-in-time snapshots.
type UTXO struct {
	// OutPoint identifies the transaction output.
	OutPoint wire.OutPoint

	// Address is the encoded address the output pays to.
	Address string

	// PkScript is the output's pubkey script.
	PkScript []byte

	// Value is the output value in duffs.
	Value btcutil.Amount

	// Confirmations is the depth of the containing transaction. Zero
	// means the transaction is unconfirmed.
	Confirmations uint32

	// InstantLocked reports whether the containing transaction is
	// covered by an InstantSend lock.
	InstantLocked bool
}

// TxConfs describes the confirmation status of a transaction.
type TxConfs struct {
	// Confirmations is the number of confirmations. Zero means the
	// transaction is known but unconfirmed.
	Confirmations uint32

	// BlockHeight is the height of the block containing the
	// transaction, or zero while unconfirmed.
	BlockHeight uint32
}

// SyncClient is the set of operations the wallet consumes from the
// external synchronization client. Implementations are expected to honor
// context cancellation on every call.
type SyncClient interface {
	// Watch registers an address with the sync client so that its
	// outputs and spends are tracked.
	Watch(ctx context.Context, address string) error

	// Unwatch removes an address from the sync client's watch set.
	Unwatch(ctx context.Context, address string) error

	// SpendableUTXOs returns the unspent outputs currently known for
	// the given address. The returned slice is a snapshot owned by the
	// caller.
	SpendableUTXOs(ctx context.Context, address string) ([]UTXO, error)

	// Broadcast submits a serialized transaction to the network and
	// returns its txid. A rejection is reported as an error wrapping
	// ErrBroadcastRejected, unless the transaction is already known, in
	// which case ErrTxAlreadyKnown is returned.
	Broadcast(ctx context.Context, rawTx []byte) (string, error)

	// Confirmations returns the confirmation status of a transaction.
	// An unknown txid is reported as an error wrapping ErrTxNotFound.
	Confirmations(ctx context.Context, txid string) (TxConfs, error)

	// IsInstantLocked reports whether the transaction is covered by an
	// InstantSend lock.
	IsInstantLocked(ctx context.Context, txid string) (bool, error)
}
