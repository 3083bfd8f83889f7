// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dashunit provides types for dealing with Dash amounts, fee
// rates and transaction sizes. Amounts are expressed in duffs, the
// smallest Dash unit (1 DASH = 100,000,000 duffs).
package dashunit

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
)

// kilo is the byte count of one kilobyte, used to scale per-KB rates.
const kilo = 1000

// DuffPerKB expresses a fee rate in duffs per 1000 bytes of serialized
// transaction data.
type DuffPerKB btcutil.Amount

// ZeroDuffPerKB is a fee rate of 0 duff/kB.
const ZeroDuffPerKB DuffPerKB = 0

// NewDuffPerKB creates a new fee rate in duff/kB.
func NewDuffPerKB(rate uint64) DuffPerKB {
	return DuffPerKB(rate)
}

// String returns a human-readable string of the fee rate.
func (r DuffPerKB) String() string {
	return fmt.Sprintf("%d duff/kB", int64(r))
}

// FeeForSize calculates the fee resulting from this fee rate and the
// given serialized size in bytes. The result is truncated, matching the
// floor(size * rate / 1000) behavior used across the network.
func (r DuffPerKB) FeeForSize(sizeBytes int) btcutil.Amount {
	return btcutil.Amount(int64(sizeBytes) * int64(r) / kilo)
}

// EstimateFee returns the fee for a transaction with the given number of
// inputs and outputs at the given fee rate. The size model assumes
// signed P2PKH inputs, so the estimate is conservative for a transaction
// that has not been signed yet. Callers that need an exact fee must
// re-estimate once the final output count, including any change output,
// is known.
func EstimateFee(inputCount, outputCount int, rate DuffPerKB) btcutil.Amount {
	return rate.FeeForSize(EstimateSerializeSize(inputCount, outputCount))
}
