package dbc

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lnpbp/lnpbp/internal/test"
	"github.com/lnpbp/lnpbp/scripts"
	"github.com/stretchr/testify/require"
)

// TestCommitPubkeyMatchesPrivateKey tests that the tweaked public key is the
// public key of the original private key plus the tweak factor.
func TestCommitPubkeyMatchesPrivateKey(t *testing.T) {
	t.Parallel()

	privKey := test.RandPrivKey(t)
	msg := test.RandBytes(32)

	commitment, err := CommitPubkey(privKey.PubKey(), msg)
	require.NoError(t, err)

	factor := TweakFactor(privKey.PubKey(), PubkeyTag, msg)
	var tweak btcec.ModNScalar
	require.Zero(t, tweak.SetBytes(&factor))

	tweakedPriv := privKey.Key
	tweakedPriv.Add(&tweak)
	expected := btcec.PrivKeyFromScalar(&tweakedPriv).PubKey()

	require.True(t, expected.IsEqual(commitment.TweakedKey))
	require.True(t, commitment.Verify(msg))
	require.True(t, commitment.OriginalContainer().IsEqual(privKey.PubKey()))
}

// TestTweakFactorTags makes sure the tags separate the two key commitment
// procedures.
func TestTweakFactorTags(t *testing.T) {
	t.Parallel()

	key := test.RandPubKey(t)
	msg := test.RandBytes(32)

	require.Equal(
		t, TweakFactor(key, PubkeyTag, msg),
		TweakFactor(key, PubkeyTag, msg),
	)
	require.NotEqual(
		t, TweakFactor(key, PubkeyTag, msg),
		TweakFactor(key, LockscriptTag, msg),
	)
	require.NotEqual(
		t, TweakFactor(key, PubkeyTag, msg),
		TweakFactor(test.RandPubKey(t), PubkeyTag, msg),
	)
}

// TestCommitLockscript tests that only the pushes of the key with the
// smallest compressed encoding are replaced, in their original form.
func TestCommitLockscript(t *testing.T) {
	t.Parallel()

	keys := []*btcec.PublicKey{
		test.RandPubKey(t), test.RandPubKey(t), test.RandPubKey(t),
	}

	target := keys[0]
	for _, key := range keys[1:] {
		if bytes.Compare(
			key.SerializeCompressed(), target.SerializeCompressed(),
		) < 0 {

			target = key
		}
	}

	// The target is pushed twice, once in each form.
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_2).
		AddData(keys[0].SerializeCompressed()).
		AddData(keys[1].SerializeCompressed()).
		AddData(keys[2].SerializeCompressed()).
		AddOp(txscript.OP_3).
		AddOp(txscript.OP_CHECKMULTISIGVERIFY).
		AddData(target.SerializeUncompressed()).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	msg := test.RandBytes(32)
	commitment, err := CommitLockscript(script, msg)
	require.NoError(t, err)
	require.True(t, commitment.OriginalKey.IsEqual(target))
	require.True(t, commitment.Verify(msg))
	require.Equal(t, scripts.LockScript(script), commitment.OriginalScript)

	expected := bytes.ReplaceAll(
		script, target.SerializeCompressed(),
		commitment.TweakedKey.SerializeCompressed(),
	)
	expected = bytes.ReplaceAll(
		expected, target.SerializeUncompressed(),
		commitment.TweakedKey.SerializeUncompressed(),
	)
	require.Equal(t, scripts.LockScript(expected), commitment.TweakedScript)

	pushes, err := commitment.TweakedScript.ExtractPubkeys()
	require.NoError(t, err)
	require.Len(t, pushes, 4)
	for _, push := range pushes {
		require.False(t, push.Key.IsEqual(target))
	}

	// The factor is keyed with the sum of all distinct keys, so the
	// duplicated target push doesn't change it.
	keySum, err := sumPubKeys(keys)
	require.NoError(t, err)
	tweaked, err := TweakPubKey(
		target, TweakFactor(keySum, LockscriptTag, msg),
	)
	require.NoError(t, err)
	require.True(t, tweaked.IsEqual(commitment.TweakedKey))
}

// TestCommitLockscriptHybridKey makes sure hybrid encoded key pushes are
// left untouched by the commitment.
func TestCommitLockscriptHybridKey(t *testing.T) {
	t.Parallel()

	hybrid := test.RandPubKey(t).SerializeUncompressed()
	hybrid[0] = 0x06 | hybrid[64]&0x01

	onlyHybrid, err := txscript.NewScriptBuilder().
		AddData(hybrid).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	_, err = CommitLockscript(onlyHybrid, test.RandBytes(32))
	require.ErrorIs(t, err, scripts.ErrNoKeysFound)

	key := test.RandPubKey(t)
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_1).
		AddData(hybrid).
		AddData(key.SerializeCompressed()).
		AddOp(txscript.OP_2).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
	require.NoError(t, err)

	msg := test.RandBytes(32)
	commitment, err := CommitLockscript(script, msg)
	require.NoError(t, err)
	require.True(t, commitment.OriginalKey.IsEqual(key))
	require.True(t, commitment.Verify(msg))

	// The hybrid push keeps its original prefix and bytes.
	require.Equal(t, script[:2+len(hybrid)],
		[]byte(commitment.TweakedScript[:2+len(hybrid)]))
}

// TestCommitLockscriptTampered makes sure a commitment with a modified
// script doesn't verify.
func TestCommitLockscriptTampered(t *testing.T) {
	t.Parallel()

	script := test.MultiSigScript(t, 1, test.RandPubKey(t))
	msg := test.RandBytes(32)

	commitment, err := CommitLockscript(script, msg)
	require.NoError(t, err)

	commitment.TweakedScript = commitment.TweakedScript.Copy()
	commitment.TweakedScript[0] = txscript.OP_2
	require.False(t, commitment.Verify(msg))
}

// TestCommitTaproot tests the taproot output key derivation for key only and
// script tree outputs.
func TestCommitTaproot(t *testing.T) {
	t.Parallel()

	key := test.RandPubKey(t)
	msg := test.RandBytes(32)

	keyCommitment, err := CommitPubkey(key, msg)
	require.NoError(t, err)

	keyOnly, err := CommitTaproot(TaprootContainer{InternalKey: key}, msg)
	require.NoError(t, err)
	require.True(t, keyOnly.Verify(msg))
	require.True(t, keyOnly.TweakedInternalKey.IsEqual(
		keyCommitment.TweakedKey,
	))
	require.True(t, keyOnly.OutputKey.IsEqual(
		txscript.ComputeTaprootKeyNoScript(keyCommitment.TweakedKey),
	))

	root := test.RandHash()
	withRoot, err := CommitTaproot(TaprootContainer{
		InternalKey: key,
		ScriptRoot:  root[:],
	}, msg)
	require.NoError(t, err)
	require.True(t, withRoot.Verify(msg))
	require.True(t, withRoot.OutputKey.IsEqual(
		txscript.ComputeTaprootOutputKey(
			keyCommitment.TweakedKey, root[:],
		),
	))
	require.False(t, withRoot.OutputKey.IsEqual(keyOnly.OutputKey))

	_, err = CommitTaproot(TaprootContainer{
		InternalKey: key,
		ScriptRoot:  root[:16],
	}, msg)
	require.ErrorIs(t, err, ErrInvalidScriptRoot)
}
