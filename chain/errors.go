// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import "errors"

var (
	// ErrBroadcastRejected is returned when the network rejects a
	// broadcasted transaction.
	ErrBroadcastRejected = errors.New("transaction rejected by network")

	// ErrTxAlreadyKnown is returned by Broadcast when the transaction
	// is already present in the mempool or the chain. Callers may treat
	// this as a successful broadcast.
	ErrTxAlreadyKnown = errors.New("transaction already known")

	// ErrTxNotFound is returned by status queries for a txid the sync
	// client has never seen.
	ErrTxNotFound = errors.New("transaction not found")
)
