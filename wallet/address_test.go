package wallet

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

// TestPayToAddrScriptP2PKH verifies the canonical P2PKH script layout.
func TestPayToAddrScriptP2PKH(t *testing.T) {
	t.Parallel()

	hash := bytes.Repeat([]byte{0xab}, hash160Size)
	address := base58.CheckEncode(hash, MainNetParams.PubKeyHashAddrID)

	script, err := PayToAddrScript(address, &MainNetParams)
	require.NoError(t, err)

	// OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
	require.Len(t, script, 25)
	require.Equal(t, byte(txscript.OP_DUP), script[0])
	require.Equal(t, byte(txscript.OP_HASH160), script[1])
	require.Equal(t, byte(txscript.OP_DATA_20), script[2])
	require.Equal(t, hash, script[3:23])
	require.Equal(t, byte(txscript.OP_EQUALVERIFY), script[23])
	require.Equal(t, byte(txscript.OP_CHECKSIG), script[24])
}

// TestPayToAddrScriptP2SH verifies the canonical P2SH script layout.
func TestPayToAddrScriptP2SH(t *testing.T) {
	t.Parallel()

	hash := bytes.Repeat([]byte{0xcd}, hash160Size)
	address := base58.CheckEncode(hash, MainNetParams.ScriptHashAddrID)

	script, err := PayToAddrScript(address, &MainNetParams)
	require.NoError(t, err)

	// OP_HASH160 <20 bytes> OP_EQUAL.
	require.Len(t, script, 23)
	require.Equal(t, byte(txscript.OP_HASH160), script[0])
	require.Equal(t, byte(txscript.OP_DATA_20), script[1])
	require.Equal(t, hash, script[2:22])
	require.Equal(t, byte(txscript.OP_EQUAL), script[22])
}

// TestPayToAddrScriptInvalid verifies malformed and foreign addresses
// are rejected with an InvalidAddressError.
func TestPayToAddrScriptInvalid(t *testing.T) {
	t.Parallel()

	hash := bytes.Repeat([]byte{0x01}, hash160Size)

	tests := []struct {
		name    string
		address string
	}{
		{
			name:    "empty",
			address: "",
		},
		{
			name:    "bad checksum",
			address: "XnotAValidDashAddress1111111111111",
		},
		{
			name: "wrong network version",
			address: base58.CheckEncode(
				hash, TestNet3Params.PubKeyHashAddrID,
			),
		},
		{
			name: "truncated hash",
			address: base58.CheckEncode(
				hash[:10], MainNetParams.PubKeyHashAddrID,
			),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := PayToAddrScript(tc.address, &MainNetParams)

			var addrErr *InvalidAddressError
			require.ErrorAs(t, err, &addrErr)
		})
	}
}
