// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/dashwallet/pkg/dashunit"
)

// PaymentRequest describes a standard payment. The dust rule is not
// enforced on the destination amount; that is the caller's concern. Any
// generated change output is subject to the dust threshold.
type PaymentRequest struct {
	// Address is the base58check destination address.
	Address string

	// Amount is the payment amount in duffs.
	Amount btcutil.Amount

	// FeeRate is the fee rate to pay.
	FeeRate dashunit.DuffPerKB

	// Strategy selects the coin selection ordering. Nil falls back to
	// largest-first.
	Strategy CoinSelectionStrategy

	// Label is an optional memo stored with the transaction.
	Label string

	// LockTimeout bounds the wait for an InstantSend lock. Zero uses
	// the default of 30s.
	LockTimeout time.Duration

	// PollInterval is the confirmation polling interval. Zero uses the
	// default of 1s.
	PollInterval time.Duration
}

// AssetLockRequest describes an asset lock funding payment, used to fund
// an identity on the companion ledger system. Instead of a destination
// address it carries the 20-byte hash of the lock's redeem script.
type AssetLockRequest struct {
	// RedeemScriptHash is the HASH160 of the redeem script the P2SH
	// funding output pays to.
	RedeemScriptHash []byte

	// Amount is the lock amount in duffs. Must be at least the asset
	// lock minimum of 10,000 duffs.
	Amount btcutil.Amount

	// FeeRate is the fee rate to pay.
	FeeRate dashunit.DuffPerKB

	// Strategy selects the coin selection ordering. Nil falls back to
	// instant-locked-first, so the funding transaction itself is built
	// from fast funds.
	Strategy CoinSelectionStrategy

	// Label is an optional memo stored with the transaction.
	Label string

	// LockTimeout bounds the wait for an InstantSend lock. Zero uses
	// the default of 30s.
	LockTimeout time.Duration

	// PollInterval is the confirmation polling interval. Zero uses the
	// default of 1s.
	PollInterval time.Duration
}

// PaymentResult is the outcome of a completed payment pipeline.
type PaymentResult struct {
	// TxID is the broadcasted transaction id.
	TxID string

	// Tx is the built transaction before signing.
	Tx *BuiltTransaction

	// State is the terminal confirmation state observed by the
	// tracker. A TimedOut state is not a failure: the transaction has
	// been broadcasted and may still confirm.
	State *ConfirmationState
}

// SendPayment runs a full payment pipeline: select coins, estimate the
// fee, build the transaction, sign it through the external signer,
// broadcast it and wait for an InstantSend lock or a confirmation.
//
// Steps are strictly sequential. Selected outputs are reserved for the
// duration of the pipeline and released when the broadcast succeeds or
// the pipeline aborts, so concurrent pipelines never double-spend.
func (w *Wallet) SendPayment(ctx context.Context,
	req *PaymentRequest) (*PaymentResult, error) {

	script, err := PayToAddrScript(req.Address, w.cfg.Params)
	if err != nil {
		return nil, err
	}

	return w.runPipeline(ctx, &pipelineRequest{
		primaryScript: script,
		amount:        req.Amount,
		feeRate:       req.FeeRate,
		strategy:      req.Strategy,
		label:         req.Label,
		lockTimeout:   req.LockTimeout,
		pollInterval:  req.PollInterval,
	})
}

// FundAssetLock runs the payment pipeline for an asset lock funding
// transaction. The minimum amount rule is validated before any UTXO is
// touched; an undersized request never reaches fee estimation or coin
// selection.
func (w *Wallet) FundAssetLock(ctx context.Context,
	req *AssetLockRequest) (*PaymentResult, error) {

	if err := checkAssetLockAmount(req.Amount, w.cfg.Params); err != nil {
		return nil, err
	}

	strategy := req.Strategy
	if strategy == nil {
		strategy = CoinSelectionInstantLockedFirst
	}

	return w.runPipeline(ctx, &pipelineRequest{
		assetLockHash: req.RedeemScriptHash,
		amount:        req.Amount,
		feeRate:       req.FeeRate,
		strategy:      strategy,
		label:         req.Label,
		lockTimeout:   req.LockTimeout,
		pollInterval:  req.PollInterval,
	})
}

// pipelineRequest is the normalized input of runPipeline. Exactly one of
// primaryScript and assetLockHash is set.
type pipelineRequest struct {
	primaryScript []byte
	assetLockHash []byte

	amount       btcutil.Amount
	feeRate      dashunit.DuffPerKB
	strategy     CoinSelectionStrategy
	label        string
	lockTimeout  time.Duration
	pollInterval time.Duration
}

// runPipeline executes select -> build -> sign -> broadcast -> track.
func (w *Wallet) runPipeline(ctx context.Context,
	req *pipelineRequest) (*PaymentResult, error) {

	// The candidate snapshot excludes outputs reserved by other
	// pipelines, so two concurrent selections cannot overlap.
	candidates, err := w.ledger.spendableUTXOs(ctx)
	if err != nil {
		return nil, err
	}

	selection, err := SelectCoins(
		candidates, req.amount, req.feeRate, req.strategy,
	)
	if err != nil {
		return nil, err
	}

	outpoints := make([]wire.OutPoint, len(selection.Inputs))
	for i := range selection.Inputs {
		outpoints[i] = selection.Inputs[i].OutPoint
	}

	reservationID, err := w.reservations.reserve(outpoints)
	if err != nil {
		return nil, err
	}

	// The reservation is held until the broadcast succeeds; any
	// earlier exit releases it so the outputs return to the spendable
	// set.
	broadcasted := false
	defer func() {
		if !broadcasted {
			w.reservations.release(reservationID)
		}
	}()

	changeScript, err := w.ledger.changeAddress()
	if err != nil {
		return nil, err
	}

	var built *BuiltTransaction
	if req.assetLockHash != nil {
		built, err = BuildAssetLockTransaction(
			selection.Inputs, req.assetLockHash, req.amount,
			req.feeRate, changeScript, w.cfg.Params,
		)
	} else {
		built, err = BuildTransaction(
			selection.Inputs, req.primaryScript, req.amount,
			req.feeRate, changeScript, w.cfg.Params,
		)
	}
	if err != nil {
		return nil, err
	}

	signed := built.Tx
	if w.cfg.Signer != nil {
		signed, err = w.cfg.Signer.SignTransaction(
			ctx, built.Tx, built.Inputs,
		)
		if err != nil {
			return nil, err
		}
	}

	txid, err := w.Broadcast(ctx, signed, req.label)
	if err != nil {
		return nil, err
	}

	// The sync client now owns the spend status of the inputs; the
	// reservation has done its job.
	broadcasted = true
	w.reservations.release(reservationID)

	state, err := w.WaitForLock(
		ctx, txid, req.lockTimeout, req.pollInterval,
	)
	w.ledger.updateTxStatus(state)

	result := &PaymentResult{
		TxID:  txid,
		Tx:    built,
		State: state,
	}

	// A missing lock inside the timeout is "submitted but not yet
	// guaranteed", not a failure; the transaction may still confirm
	// through normal confirmation.
	switch state.Status {
	case StatusTimedOut:
		return result, nil

	case StatusFailed, StatusCancelled:
		return result, err

	default:
		return result, nil
	}
}
