// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
)

var (
	// ErrNoCandidates is returned when coin selection is attempted with
	// an empty candidate set.
	ErrNoCandidates = errors.New("no spendable outputs available")

	// ErrDustOutput identifies an output below the network dust
	// threshold. The builder never enforces the threshold on the
	// destination amount, only on generated change; callers that want
	// to refuse dust destinations wrap this sentinel.
	ErrDustOutput = errors.New("output amount is dust")

	// ErrInstantLockTimeout is returned when an InstantSend lock was
	// not observed within the configured timeout. The transaction may
	// still confirm later through normal confirmation.
	ErrInstantLockTimeout = errors.New("instant lock not observed before timeout")

	// ErrOutputReserved is returned when a selected output is already
	// reserved by a concurrently running payment pipeline.
	ErrOutputReserved = errors.New("output reserved by another pipeline")

	// ErrRecordNotFound is returned by the record store when no record
	// exists under the requested key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoChangeAddress is returned when a change address is needed
	// but none has been configured or watched.
	ErrNoChangeAddress = errors.New("no change address available")
)

// InsufficientFundsError is returned when the spendable outputs cannot
// cover the requested amount plus the estimated fee.
type InsufficientFundsError struct {
	// Required is the amount the caller asked to send, in duffs.
	Required btcutil.Amount

	// Available is the total value of the spendable candidate outputs,
	// in duffs.
	Available btcutil.Amount
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %d duffs, "+
		"available %d duffs", e.Required, e.Available)
}

// InvalidAmountError is returned when a requested amount violates a
// validation rule, such as the asset lock minimum.
type InvalidAmountError struct {
	// Reason describes the violated rule.
	Reason string
}

// Error implements the error interface.
func (e *InvalidAmountError) Error() string {
	return "invalid amount: " + e.Reason
}

// InvalidAddressError is returned when a destination address cannot be
// decoded into an output script.
type InvalidAddressError struct {
	// Address is the offending address string.
	Address string

	// Reason describes why decoding failed.
	Reason string
}

// Error implements the error interface.
func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Address, e.Reason)
}

// BroadcastError is returned when the network rejects a transaction.
type BroadcastError struct {
	// TxID is the id of the rejected transaction.
	TxID string

	// Err is the underlying rejection reported by the sync client.
	Err error
}

// Error implements the error interface.
func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast of %s failed: %v", e.TxID, e.Err)
}

// Unwrap returns the underlying error.
func (e *BroadcastError) Unwrap() error {
	return e.Err
}

// TransactionNotFoundError is returned when a status query targets a
// transaction unknown to the sync client.
type TransactionNotFoundError struct {
	// TxID is the unknown transaction id.
	TxID string
}

// Error implements the error interface.
func (e *TransactionNotFoundError) Error() string {
	return "transaction not found: " + e.TxID
}
