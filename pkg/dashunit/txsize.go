// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dashunit

// Serialized size constants for the transaction size model. Dash
// transactions carry no witness data, so sizes are plain serialized
// bytes.
const (
	// TxOverheadSize is the fixed per-transaction overhead: 4 bytes
	// version, 1 byte input count, 1 byte output count and 4 bytes
	// locktime. The single-byte varint counts hold for any transaction
	// with fewer than 253 inputs or outputs.
	TxOverheadSize = 10

	// P2PKHInputSize is the serialized size of a signed P2PKH input:
	// 32 bytes previous txid, 4 bytes output index, 1 byte script
	// length, 107 bytes signature script and 4 bytes sequence.
	P2PKHInputSize = 148

	// P2PKHOutputSize is the serialized size of a P2PKH output: 8 bytes
	// value, 1 byte script length and a 25 byte pkScript.
	P2PKHOutputSize = 34
)

// EstimateSerializeSize returns the estimated serialized size in bytes of
// a transaction with the given number of inputs and outputs. Inputs are
// modeled as signed P2PKH spends, so the estimate is an upper bound for a
// transaction that has not been signed yet.
func EstimateSerializeSize(inputCount, outputCount int) int {
	return TxOverheadSize +
		inputCount*P2PKHInputSize +
		outputCount*P2PKHOutputSize
}
