// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/dashwallet/chain"
	"github.com/dashpay/dashwallet/pkg/dashunit"
	"github.com/davecgh/go-spew/spew"
)

const (
	// txVersion is the transaction version used for standard payments.
	txVersion = 1

	// assetLockTxVersion is the transaction version signaling
	// fast-finality eligibility for asset lock funding transactions.
	assetLockTxVersion = 3

	// builderOutputGuess is the output count assumed when estimating
	// the fee before it is known whether a change output will be
	// emitted.
	builderOutputGuess = 2
)

// BuiltTransaction is a fully formed, unsigned transaction together with
// the accounting that produced it. Input scripts are left empty; signing
// is delegated to an external signer which receives the raw bytes and
// the input list.
type BuiltTransaction struct {
	// Tx is the structured transaction.
	Tx *wire.MsgTx

	// RawBytes is the wire-serialized form of Tx.
	RawBytes []byte

	// Inputs are the outputs being spent, in input order.
	Inputs []chain.UTXO

	// TotalInput is the summed input value in duffs.
	TotalInput btcutil.Amount

	// Fee is the exact fee paid: TotalInput minus the sum of all
	// output values.
	Fee btcutil.Amount

	// ChangeIndex is the output index of the change output, or -1 when
	// the change was folded into the fee.
	ChangeIndex int
}

// TxID returns the hex-encoded transaction id.
func (b *BuiltTransaction) TxID() string {
	return b.Tx.TxHash().String()
}

// BuildTransaction assembles an unsigned transaction spending the given
// inputs to a primary output, with change returned to changeScript.
//
// The primary amount is not checked against the dust threshold; callers
// that want to refuse dust destinations do so themselves (ErrDustOutput
// is provided for that purpose). The threshold only governs whether a
// change output is emitted.
//
// The fee is estimated from the real input count and a two-output guess.
// When the remaining change does not exceed the dust threshold, no
// change output is emitted and the change is absorbed into the fee; the
// resulting fee is then slightly above the estimate, a known
// approximation of the per-KB model.
//
// The selector guarantees the inputs cover amount plus fee, but the
// builder re-checks and fails closed with an InsufficientFundsError
// rather than computing a change value that could wrap.
func BuildTransaction(inputs []chain.UTXO, primaryScript []byte,
	amount btcutil.Amount, feeRate dashunit.DuffPerKB,
	changeScript []byte, params *Params) (*BuiltTransaction, error) {

	return buildTransaction(
		txVersion, inputs, primaryScript, amount, feeRate,
		changeScript, params,
	)
}

// BuildAssetLockTransaction assembles an unsigned asset lock funding
// transaction. The primary output pays to a P2SH script over the given
// 20-byte redeem script hash, and the transaction version is set to 3 to
// signal fast-finality eligibility. Amounts below the asset lock minimum
// are rejected with an InvalidAmountError.
func BuildAssetLockTransaction(inputs []chain.UTXO,
	redeemScriptHash []byte, amount btcutil.Amount,
	feeRate dashunit.DuffPerKB, changeScript []byte,
	params *Params) (*BuiltTransaction, error) {

	if err := checkAssetLockAmount(amount, params); err != nil {
		return nil, err
	}

	if len(redeemScriptHash) != hash160Size {
		return nil, &InvalidAddressError{
			Address: fmt.Sprintf("%x", redeemScriptHash),
			Reason:  "redeem script hash is not 20 bytes",
		}
	}

	lockScript, err := payToScriptHashScript(redeemScriptHash)
	if err != nil {
		return nil, err
	}

	return buildTransaction(
		assetLockTxVersion, inputs, lockScript, amount, feeRate,
		changeScript, params,
	)
}

// checkAssetLockAmount validates the asset lock minimum. It runs before
// any fee estimation or coin selection so that an undersized request
// never touches the UTXO set.
func checkAssetLockAmount(amount btcutil.Amount, params *Params) error {
	if amount < params.AssetLockMinimum {
		return &InvalidAmountError{
			Reason: fmt.Sprintf("asset lock requires at least "+
				"%d duffs, got %d", params.AssetLockMinimum,
				amount),
		}
	}

	return nil
}

// buildTransaction is the shared assembly path for standard and asset
// lock transactions.
func buildTransaction(version int32, inputs []chain.UTXO,
	primaryScript []byte, amount btcutil.Amount,
	feeRate dashunit.DuffPerKB, changeScript []byte,
	params *Params) (*BuiltTransaction, error) {

	if len(inputs) == 0 {
		return nil, ErrNoCandidates
	}

	if amount <= 0 {
		return nil, &InvalidAmountError{
			Reason: "amount must be positive",
		}
	}

	totalInput := btcutil.Amount(0)
	for _, utxo := range inputs {
		totalInput += utxo.Value
	}

	fee := dashunit.EstimateFee(len(inputs), builderOutputGuess, feeRate)

	// Re-check sufficiency before any subtraction. The unsigned wire
	// values must never be produced from a wrapped difference.
	if totalInput < amount+fee {
		return nil, &InsufficientFundsError{
			Required:  amount + fee,
			Available: totalInput,
		}
	}

	msg := wire.NewMsgTx(version)

	for i := range inputs {
		outpoint := inputs[i].OutPoint
		msg.AddTxIn(wire.NewTxIn(&outpoint, nil, nil))
	}

	msg.AddTxOut(wire.NewTxOut(int64(amount), primaryScript))

	// Emit a change output only when the change exceeds the dust
	// threshold; otherwise it is absorbed into the fee and the
	// transaction carries a single output.
	change := totalInput - amount - fee
	changeIndex := -1
	if change > params.DustThreshold {
		msg.AddTxOut(wire.NewTxOut(int64(change), changeScript))
		changeIndex = 1
	}

	var raw bytes.Buffer
	raw.Grow(msg.SerializeSize())
	if err := msg.Serialize(&raw); err != nil {
		return nil, err
	}

	totalOutput := btcutil.Amount(0)
	for _, txOut := range msg.TxOut {
		totalOutput += btcutil.Amount(txOut.Value)
	}

	built := &BuiltTransaction{
		Tx:          msg,
		RawBytes:    raw.Bytes(),
		Inputs:      inputs,
		TotalInput:  totalInput,
		Fee:         totalInput - totalOutput,
		ChangeIndex: changeIndex,
	}

	log.Debugf("Built tx %v: inputs=%d outputs=%d fee=%d size=%d",
		built.TxID(), len(msg.TxIn), len(msg.TxOut), built.Fee,
		len(built.RawBytes))
	log.Tracef("Built tx: %v", newLogClosure(func() string {
		return spew.Sdump(msg)
	}))

	return built, nil
}
