// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/dashwallet/chain"
	"github.com/looplab/fsm"
)

// ConfirmationStatus names a state of the confirmation tracking state
// machine.
type ConfirmationStatus string

const (
	// StatusSubmitted is the initial state entered on a successful
	// broadcast.
	StatusSubmitted ConfirmationStatus = "submitted"

	// StatusInstantLocked is the terminal state entered when an
	// InstantSend lock is observed.
	StatusInstantLocked ConfirmationStatus = "instantlocked"

	// StatusConfirmed is the terminal state entered when the
	// transaction gains its first confirmation.
	StatusConfirmed ConfirmationStatus = "confirmed"

	// StatusTimedOut is the terminal state entered when neither a lock
	// nor a confirmation was observed within the wait timeout.
	StatusTimedOut ConfirmationStatus = "timedout"

	// StatusCancelled is the terminal state entered when the caller
	// cancels the wait.
	StatusCancelled ConfirmationStatus = "cancelled"

	// StatusFailed is the terminal state entered on broadcast rejection
	// or an unrecoverable status-check error.
	StatusFailed ConfirmationStatus = "failed"
)

// Tracker state machine events.
const (
	eventLock    = "lock"
	eventConfirm = "confirm"
	eventTimeout = "timeout"
	eventCancel  = "cancel"
	eventFail    = "fail"
)

// ConfirmationState is the outcome of tracking a broadcasted
// transaction. It is created in StatusSubmitted at broadcast time and
// mutated only by the tracker's polling loop; every other status is
// terminal.
type ConfirmationState struct {
	// TxID is the tracked transaction id.
	TxID string

	// Status is the current state.
	Status ConfirmationStatus

	// BlockHeight is the height of the confirming block. Only set in
	// StatusConfirmed.
	BlockHeight uint32

	// Err is the failure that moved the state machine to StatusFailed.
	Err error
}

// Terminal reports whether the state can no longer change.
func (s *ConfirmationState) Terminal() bool {
	return s.Status != StatusSubmitted
}

// newConfirmationFSM builds the tracker state machine. Every event is
// only valid from the submitted state, which makes all other states
// terminal by construction.
func newConfirmationFSM() *fsm.FSM {
	src := []string{string(StatusSubmitted)}

	return fsm.NewFSM(
		string(StatusSubmitted),
		fsm.Events{
			{Name: eventLock, Src: src, Dst: string(StatusInstantLocked)},
			{Name: eventConfirm, Src: src, Dst: string(StatusConfirmed)},
			{Name: eventTimeout, Src: src, Dst: string(StatusTimedOut)},
			{Name: eventCancel, Src: src, Dst: string(StatusCancelled)},
			{Name: eventFail, Src: src, Dst: string(StatusFailed)},
		},
		fsm.Callbacks{},
	)
}

// Broadcast serializes the given transaction and submits it through the
// sync client. On success the transaction is recorded in the ledger in
// the submitted state and its txid is returned. A transaction the
// network already knows is treated as successfully broadcasted. Any
// other rejection is returned as a BroadcastError.
func (w *Wallet) Broadcast(ctx context.Context, tx *wire.MsgTx,
	label string) (string, error) {

	var raw bytes.Buffer
	raw.Grow(tx.SerializeSize())
	if err := tx.Serialize(&raw); err != nil {
		return "", err
	}

	txid := tx.TxHash().String()

	reported, err := w.cfg.Chain.Broadcast(ctx, raw.Bytes())
	switch {
	case errors.Is(err, chain.ErrTxAlreadyKnown):
		log.Infof("Tx %v already broadcasted", txid)

	case err != nil:
		return "", &BroadcastError{TxID: txid, Err: err}

	default:
		if reported != "" {
			txid = reported
		}
	}

	if err := w.ledger.recordBroadcast(tx, txid, label); err != nil {
		log.Warnf("Unable to record broadcasted tx %v: %v", txid, err)
	}

	return txid, nil
}

// WaitForLock polls the sync client until the transaction is instant
// locked, confirmed, the timeout elapses or the context is cancelled,
// whichever happens first. Zero durations fall back to the configured
// defaults (1s poll interval, 30s timeout).
//
// The returned error is nil for the InstantLocked and Confirmed
// outcomes. A timeout returns the TimedOut state together with
// ErrInstantLockTimeout; callers should treat this as "submitted but not
// yet guaranteed" rather than a failure, since the transaction may still
// confirm later. Cancellation returns the Cancelled state with the
// context's error. A single unrecoverable status-check error is not
// retried: it moves the state to Failed immediately and is returned.
func (w *Wallet) WaitForLock(ctx context.Context, txid string,
	timeout, pollInterval time.Duration) (*ConfirmationState, error) {

	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	state := &ConfirmationState{
		TxID:   txid,
		Status: StatusSubmitted,
	}
	machine := newConfirmationFSM()

	// transition fires an event and mirrors the machine's new state
	// into the returned ConfirmationState.
	transition := func(event string) {
		// The machine carries no callbacks, so the transition must
		// complete even when the caller's context is already
		// cancelled.
		if err := machine.Event(context.Background(), event); err != nil {
			// Events are only fired from the submitted state, so
			// a transition can never be rejected here.
			log.Errorf("Confirmation fsm rejected %q for %v: %v",
				event, txid, err)
			return
		}

		state.Status = ConfirmationStatus(machine.Current())
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Check once immediately to avoid the initial ticker delay.
	done, err := w.checkTxStatus(ctx, txid, state, transition)
	if done {
		return state, err
	}

	for {
		// The cancellation signal is checked before each sleep and
		// again before each status query, so a cancelled caller never
		// waits out a full poll interval.
		select {
		case <-ctx.Done():
			transition(eventCancel)
			return state, ctx.Err()

		case <-deadline.C:
			transition(eventTimeout)
			log.Debugf("Tx %v not locked after %v", txid, timeout)
			return state, ErrInstantLockTimeout

		case <-ticker.C:
			if ctx.Err() != nil {
				transition(eventCancel)
				return state, ctx.Err()
			}

			done, err := w.checkTxStatus(
				ctx, txid, state, transition,
			)
			if done {
				return state, err
			}
		}
	}
}

// checkTxStatus performs one poll iteration: an instant lock query
// followed by a confirmation query. It reports done=true once the state
// machine has reached a terminal state. Individual failed status checks
// are not retried; the first hard error transitions to Failed.
func (w *Wallet) checkTxStatus(ctx context.Context, txid string,
	state *ConfirmationState, transition func(string)) (bool, error) {

	locked, err := w.cfg.Chain.IsInstantLocked(ctx, txid)
	if err != nil {
		return true, w.failTxStatus(txid, state, transition, err)
	}
	if locked {
		transition(eventLock)
		log.Infof("Tx %v instant locked", txid)
		return true, nil
	}

	confs, err := w.cfg.Chain.Confirmations(ctx, txid)
	if err != nil {
		return true, w.failTxStatus(txid, state, transition, err)
	}
	if confs.Confirmations > 0 {
		transition(eventConfirm)
		state.BlockHeight = confs.BlockHeight
		log.Infof("Tx %v confirmed at height %d", txid,
			confs.BlockHeight)
		return true, nil
	}

	return false, nil
}

// failTxStatus maps a hard status-check error into the Failed state.
func (w *Wallet) failTxStatus(txid string, state *ConfirmationState,
	transition func(string), err error) error {

	if errors.Is(err, chain.ErrTxNotFound) {
		err = &TransactionNotFoundError{TxID: txid}
	}

	transition(eventFail)
	state.Err = err

	log.Errorf("Tracking of tx %v failed: %v", txid, err)

	return err
}
