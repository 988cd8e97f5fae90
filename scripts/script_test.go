package scripts

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lnpbp/lnpbp/internal/test"
	"github.com/stretchr/testify/require"
)

// TestWitnessTemplates compares the script templates against the scripts btcd
// derives from the corresponding addresses.
func TestWitnessTemplates(t *testing.T) {
	t.Parallel()

	params := &chaincfg.RegressionNetParams
	key := test.RandPubKey(t)

	keyHash := WitnessPubKeyHash(key.SerializeUncompressed())
	p2wpkh, err := PayToWitnessPubKeyHash(keyHash)
	require.NoError(t, err)

	addr, err := btcutil.NewAddressWitnessPubKeyHash(keyHash, params)
	require.NoError(t, err)
	expected, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)
	require.Equal(t, expected, []byte(p2wpkh))
	require.Equal(t, txscript.WitnessV0PubKeyHashTy, p2wpkh.Class())

	parsedAddr, err := p2wpkh.Address(params)
	require.NoError(t, err)
	require.Equal(t, addr.EncodeAddress(), parsedAddr.EncodeAddress())

	lockScript := LockScript(test.RandBytes(71))
	scriptHash := WitnessScriptHash(lockScript)
	p2wsh, err := PayToWitnessScriptHash(scriptHash)
	require.NoError(t, err)

	shAddr, err := btcutil.NewAddressWitnessScriptHash(scriptHash, params)
	require.NoError(t, err)
	expected, err = txscript.PayToAddrScript(shAddr)
	require.NoError(t, err)
	require.Equal(t, expected, []byte(p2wsh))

	_, err = PayToWitnessPubKeyHash(scriptHash)
	require.ErrorIs(t, err, ErrInvalidHashLen)
	_, err = PayToWitnessScriptHash(keyHash)
	require.ErrorIs(t, err, ErrInvalidHashLen)
}

// TestPayToPubKeyAndOpReturn checks the raw layout of the P2PK and OP_RETURN
// templates.
func TestPayToPubKeyAndOpReturn(t *testing.T) {
	t.Parallel()

	key := test.RandPubKey(t).SerializeUncompressed()
	p2pk, err := PayToPubKey(key)
	require.NoError(t, err)
	require.Len(t, p2pk, 67)
	require.Equal(t, byte(txscript.OP_DATA_65), p2pk[0])
	require.Equal(t, key, []byte(p2pk[1:66]))
	require.Equal(t, byte(txscript.OP_CHECKSIG), p2pk[66])
	require.Equal(t, txscript.PubKeyTy, p2pk.Class())

	data := test.RandBytes(20)
	opReturn, err := OpReturn(data)
	require.NoError(t, err)
	require.Equal(t, append(
		[]byte{txscript.OP_RETURN, txscript.OP_DATA_20}, data...,
	), []byte(opReturn))
	require.Equal(t, txscript.NullDataTy, opReturn.Class())
}

// TestExtractPubkeys tests key extraction from a lock script mixing
// compressed and uncompressed keys with other pushes.
func TestExtractPubkeys(t *testing.T) {
	t.Parallel()

	key1 := test.RandPubKey(t)
	key2 := test.RandPubKey(t)

	// A 33 byte push that isn't a valid key must be skipped.
	notAKey := bytes.Repeat([]byte{0x05}, 33)

	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_1).
		AddData(key1.SerializeCompressed()).
		AddData(notAKey).
		AddData(key2.SerializeUncompressed()).
		AddOp(txscript.OP_2).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
	require.NoError(t, err)

	keys, err := LockScript(script).ExtractPubkeys()
	require.NoError(t, err)
	require.Len(t, keys, 2)

	require.True(t, keys[0].Key.IsEqual(key1))
	require.True(t, keys[0].Compressed)
	require.Equal(t, 2, keys[0].Offset)
	require.Equal(t, key1.SerializeCompressed(),
		script[keys[0].Offset:keys[0].Offset+keys[0].Len()])

	require.True(t, keys[1].Key.IsEqual(key2))
	require.False(t, keys[1].Compressed)
	require.Equal(t, key2.SerializeUncompressed(),
		script[keys[1].Offset:keys[1].Offset+keys[1].Len()])
	require.Equal(t, key2.SerializeUncompressed(), keys[1].Serialize(key2))
}

// TestExtractPubkeysErrors tests the failure cases of key extraction.
func TestExtractPubkeysErrors(t *testing.T) {
	t.Parallel()

	noKeys, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(test.RandBytes(20)).
		AddOp(txscript.OP_EQUAL).
		Script()
	require.NoError(t, err)

	_, err = LockScript(noKeys).ExtractPubkeys()
	require.ErrorIs(t, err, ErrNoKeysFound)

	key := test.RandPubKey(t).SerializeCompressed()
	truncated := append([]byte{txscript.OP_DATA_33}, key[:10]...)
	_, err = LockScript(truncated).ExtractPubkeys()
	require.ErrorIs(t, err, ErrMalformedScript)
}

// hybridKey returns the 65 byte hybrid encoding of a random key.
func hybridKey(t *testing.T) []byte {
	key := test.RandPubKey(t).SerializeUncompressed()
	key[0] = 0x06 | key[64]&0x01

	return key
}

// TestExtractPubkeysHybrid makes sure hybrid encoded keys are not treated as
// commitment candidates.
func TestExtractPubkeysHybrid(t *testing.T) {
	t.Parallel()

	hybrid := hybridKey(t)

	onlyHybrid, err := txscript.NewScriptBuilder().
		AddData(hybrid).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	_, err = LockScript(onlyHybrid).ExtractPubkeys()
	require.ErrorIs(t, err, ErrNoKeysFound)

	key := test.RandPubKey(t)
	mixed, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_1).
		AddData(hybrid).
		AddData(key.SerializeCompressed()).
		AddOp(txscript.OP_2).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
	require.NoError(t, err)

	keys, err := LockScript(mixed).ExtractPubkeys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.True(t, keys[0].Key.IsEqual(key))
	require.True(t, keys[0].Compressed)
}

// TestScriptCopy makes sure copies don't share memory with the original.
func TestScriptCopy(t *testing.T) {
	t.Parallel()

	orig := LockScript{txscript.OP_TRUE}
	cp := orig.Copy()
	cp[0] = txscript.OP_FALSE
	require.Equal(t, byte(txscript.OP_TRUE), orig[0])

	require.Nil(t, PubkeyScript(nil).Copy())
}
