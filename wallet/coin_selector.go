// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/dashpay/dashwallet/chain"
	"github.com/dashpay/dashwallet/pkg/dashunit"
)

// seedInputCount and seedOutputCount form the conservative transaction
// shape used to estimate the fee component of the selection target. The
// two-input, two-output assumption only decides the stopping threshold
// of the greedy accumulation; the transaction builder re-estimates the
// fee once the true input and output counts are known.
const (
	seedInputCount  = 2
	seedOutputCount = 2
)

// CoinSelectionStrategy is responsible for ordering a list of candidate
// outputs before they are greedily accumulated, and for deciding whether
// unconfirmed outputs may participate at all.
type CoinSelectionStrategy interface {
	// ArrangeCoins orders the eligible candidates. The slice passed in
	// is owned by the strategy and may be reordered in place.
	ArrangeCoins(eligible []chain.UTXO) []chain.UTXO

	// AcceptsUnconfirmed reports whether zero-confirmation outputs
	// carrying an InstantSend lock are eligible under this strategy.
	AcceptsUnconfirmed() bool
}

var (
	// CoinSelectionLargestFirst picks the largest candidates first,
	// minimizing the input count.
	CoinSelectionLargestFirst CoinSelectionStrategy = &largestFirstSelector{}

	// CoinSelectionSmallestFirst picks the smallest candidates first,
	// consolidating small outputs over time.
	CoinSelectionSmallestFirst CoinSelectionStrategy = &smallestFirstSelector{}

	// CoinSelectionOldestFirst picks the most deeply confirmed
	// candidates first.
	CoinSelectionOldestFirst CoinSelectionStrategy = &oldestFirstSelector{}

	// CoinSelectionInstantLockedFirst prefers instant-locked candidates,
	// including unconfirmed ones, so that resulting transactions are
	// themselves eligible for fast re-spending.
	CoinSelectionInstantLockedFirst CoinSelectionStrategy = &instantLockedFirstSelector{}
)

// SelectionResult is the outcome of a successful coin selection.
type SelectionResult struct {
	// Inputs are the selected outputs, in selection order.
	Inputs []chain.UTXO

	// TotalInput is the summed value of Inputs in duffs.
	TotalInput btcutil.Amount
}

// SelectCoins picks outputs from the candidate snapshot until their
// combined value covers target plus a conservatively estimated fee. The
// candidate slice is treated as a point-in-time snapshot: it is copied
// before ordering and never mutated.
//
// If the candidates cannot cover the target, an InsufficientFundsError
// is returned carrying the requested amount and the total spendable
// value; no partial result is ever returned.
func SelectCoins(candidates []chain.UTXO, target btcutil.Amount,
	feeRate dashunit.DuffPerKB, strategy CoinSelectionStrategy) (
	*SelectionResult, error) {

	if strategy == nil {
		strategy = CoinSelectionLargestFirst
	}

	// Filter the snapshot down to spendable candidates. An output is
	// spendable once confirmed, or immediately when instant-locked and
	// the strategy accepts unconfirmed funds.
	eligible := make([]chain.UTXO, 0, len(candidates))
	available := btcutil.Amount(0)
	for _, utxo := range candidates {
		spendable := utxo.Confirmations > 0 ||
			(utxo.InstantLocked && strategy.AcceptsUnconfirmed())
		if !spendable {
			continue
		}

		eligible = append(eligible, utxo)
		available += utxo.Value
	}

	// The accumulation threshold seeds the fee with the conservative
	// two-input, two-output shape.
	threshold := target + dashunit.EstimateFee(
		seedInputCount, seedOutputCount, feeRate,
	)

	arranged := strategy.ArrangeCoins(eligible)

	selected := make([]chain.UTXO, 0, len(arranged))
	total := btcutil.Amount(0)
	for _, utxo := range arranged {
		selected = append(selected, utxo)
		total += utxo.Value

		if total >= threshold {
			return &SelectionResult{
				Inputs:     selected,
				TotalInput: total,
			}, nil
		}
	}

	log.Debugf("Coin selection failed: target=%d threshold=%d "+
		"available=%d candidates=%d", target, threshold, available,
		len(candidates))

	return nil, &InsufficientFundsError{
		Required:  target,
		Available: available,
	}
}

// largestFirstSelector orders candidates by value, descending.
type largestFirstSelector struct{}

func (*largestFirstSelector) ArrangeCoins(eligible []chain.UTXO) []chain.UTXO {
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Value > eligible[j].Value
	})

	return eligible
}

func (*largestFirstSelector) AcceptsUnconfirmed() bool { return false }

// smallestFirstSelector orders candidates by value, ascending.
type smallestFirstSelector struct{}

func (*smallestFirstSelector) ArrangeCoins(eligible []chain.UTXO) []chain.UTXO {
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Value < eligible[j].Value
	})

	return eligible
}

func (*smallestFirstSelector) AcceptsUnconfirmed() bool { return false }

// oldestFirstSelector orders candidates by confirmation depth,
// descending, so the most deeply buried outputs are spent first.
type oldestFirstSelector struct{}

func (*oldestFirstSelector) ArrangeCoins(eligible []chain.UTXO) []chain.UTXO {
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Confirmations > eligible[j].Confirmations
	})

	return eligible
}

func (*oldestFirstSelector) AcceptsUnconfirmed() bool { return false }

// instantLockedFirstSelector sorts instant-locked candidates ahead of
// unlocked ones, breaking ties by value descending.
type instantLockedFirstSelector struct{}

func (*instantLockedFirstSelector) ArrangeCoins(
	eligible []chain.UTXO) []chain.UTXO {

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].InstantLocked != eligible[j].InstantLocked {
			return eligible[i].InstantLocked
		}

		return eligible[i].Value > eligible[j].Value
	})

	return eligible
}

func (*instantLockedFirstSelector) AcceptsUnconfirmed() bool { return true }
