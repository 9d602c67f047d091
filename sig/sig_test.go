package sig

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	got := Format([]byte("Hello, Ethereum!"))
	want := "\x19Ethereum Signed Message:\n16Hello, Ethereum!"
	assert.Equal(t, want, string(got))
}

func TestFormatIsPureFunctionOfContentAndLength(t *testing.T) {
	a := Format([]byte("abc"))
	b := Format([]byte("abc"))
	assert.Equal(t, a, b)

	c := Format([]byte("abd"))
	assert.NotEqual(t, a, c)
}

func TestDeriveAddressFromCompressedPubkey(t *testing.T) {
	pubkey, err := hex.DecodeString("022f1f286c795eb63dc0c10f0c1c4dced7ebe603f83d89e66be491f605c8bd1a0d")
	require.NoError(t, err)

	addr, err := DeriveAddress(pubkey)
	require.NoError(t, err)

	want, err := hex.DecodeString("2f6c780b5623b98df5a551ed6324d89ab20b0f39")
	require.NoError(t, err)
	assert.Equal(t, want, addr[:])
}

func TestRecoverAddressFromSignature(t *testing.T) {
	signature, err := hex.DecodeString("7b1079455ef9a6f7df56eee8cc3f63cddc13172b0101494d341c043fec50aa986985b8bf97cda7329ef5230d7c05656bcda7744a106df54bc1d6beaeb790f2a400")
	require.NoError(t, err)

	addr, err := RecoverAddress(signature, []byte("hello world"))
	require.NoError(t, err)

	want, err := hex.DecodeString("63d90be9ac2859c0b94421281747cefe89b4223c")
	require.NoError(t, err)
	assert.Equal(t, want, addr[:])
}

func TestVerifySignerRejectsWrongAddress(t *testing.T) {
	signature, err := hex.DecodeString("7b1079455ef9a6f7df56eee8cc3f63cddc13172b0101494d341c043fec50aa986985b8bf97cda7329ef5230d7c05656bcda7744a106df54bc1d6beaeb790f2a400")
	require.NoError(t, err)

	var wrong [20]byte
	err = VerifySigner(signature, []byte("hello world"), wrong)
	assert.Error(t, err)
}

func TestRecoverAddressRejectsShortSignature(t *testing.T) {
	_, err := RecoverAddress([]byte{1, 2, 3}, []byte("hello world"))
	assert.Error(t, err)
}
