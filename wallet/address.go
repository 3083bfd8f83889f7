// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/txscript"
)

// hash160Size is the byte length of a RIPEMD160(SHA256) hash.
const hash160Size = 20

// PayToAddrScript decodes a base58check Dash address and returns the
// canonical output script paying to it. Both P2PKH and P2SH addresses
// are supported; any other version byte, a bad checksum or a malformed
// payload yields an InvalidAddressError.
func PayToAddrScript(address string, params *Params) ([]byte, error) {
	hash, version, err := base58.CheckDecode(address)
	if err != nil {
		return nil, &InvalidAddressError{
			Address: address,
			Reason:  err.Error(),
		}
	}

	if len(hash) != hash160Size {
		return nil, &InvalidAddressError{
			Address: address,
			Reason:  "decoded hash is not 20 bytes",
		}
	}

	switch version {
	case params.PubKeyHashAddrID:
		return payToPubKeyHashScript(hash)

	case params.ScriptHashAddrID:
		return payToScriptHashScript(hash)

	default:
		return nil, &InvalidAddressError{
			Address: address,
			Reason:  "unknown address version byte",
		}
	}
}

// payToPubKeyHashScript creates a new script to pay a transaction output
// to a 20-byte pubkey hash: OP_DUP OP_HASH160 <hash> OP_EQUALVERIFY
// OP_CHECKSIG.
func payToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(pubKeyHash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// payToScriptHashScript creates a new script to pay a transaction output
// to a 20-byte script hash: OP_HASH160 <hash> OP_EQUAL.
func payToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(scriptHash).
		AddOp(txscript.OP_EQUAL).
		Script()
}
