package test

import (
	"math/rand"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

// RandBool rolls a random boolean.
func RandBool() bool {
	return rand.Int()%2 == 0
}

func RandPrivKey(t testing.TB) *btcec.PrivateKey {
	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return privKey
}

// RandPubKey returns a random public key. Keys are round tripped through
// their x-only encoding half of the time, so callers see both odd and even
// keys.
func RandPubKey(t testing.TB) *btcec.PublicKey {
	pubKey := RandPrivKey(t).PubKey()
	if RandBool() {
		return pubKey
	}

	return SchnorrKey(t, pubKey)
}

func SchnorrKey(t testing.TB, pubKey *btcec.PublicKey) *btcec.PublicKey {
	key, err := schnorr.ParsePubKey(schnorr.SerializePubKey(pubKey))
	require.NoError(t, err)
	return key
}

func RandBytes(num int) []byte {
	randBytes := make([]byte, num)
	_, _ = rand.Read(randBytes)
	return randBytes
}

// RandHash returns 32 random bytes.
func RandHash() [32]byte {
	var h [32]byte
	copy(h[:], RandBytes(32))
	return h
}

// MultiSigScript returns a bare `m <keys...> n OP_CHECKMULTISIG` script over
// the given keys, all pushed in compressed form.
func MultiSigScript(t testing.TB, m int,
	keys ...*btcec.PublicKey) []byte {

	builder := txscript.NewScriptBuilder().AddInt64(int64(m))
	for _, key := range keys {
		builder.AddData(key.SerializeCompressed())
	}
	script, err := builder.
		AddInt64(int64(len(keys))).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
	require.NoError(t, err)

	return script
}
