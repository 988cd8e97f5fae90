package dbc

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lnpbp/lnpbp/scripts"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// LockscriptCommitment is a lock script in which one public key was tweaked
// to commit to a message.
type LockscriptCommitment struct {
	// OriginalScript is the lock script before the commitment.
	OriginalScript scripts.LockScript

	// TweakedScript is OriginalScript with every push of OriginalKey
	// replaced by TweakedKey.
	TweakedScript scripts.LockScript

	// OriginalKey is the key of the script that carries the commitment.
	// It is the one with the lexicographically smallest compressed
	// serialization.
	OriginalKey *btcec.PublicKey

	// TweakedKey is OriginalKey tweaked with the commitment factor.
	TweakedKey *btcec.PublicKey
}

// CommitLockscript embeds a commitment to the message into the lock script.
//
// All distinct public keys pushed by the script are summed up and the sum
// keys the HMAC producing the tweak factor, so the factor depends on the
// complete key set. Only the target key is tweaked; every occurrence of it is
// replaced, keeping the compressed or uncompressed form of each push.
func CommitLockscript(script scripts.LockScript,
	msg []byte) (*LockscriptCommitment, error) {

	pushes, err := script.ExtractPubkeys()
	if err != nil {
		return nil, err
	}

	distinct := make(map[[33]byte]*btcec.PublicKey, len(pushes))
	for _, push := range pushes {
		var id [33]byte
		copy(id[:], push.Key.SerializeCompressed())
		distinct[id] = push.Key
	}

	ids := maps.Keys(distinct)
	slices.SortFunc(ids, func(a, b [33]byte) bool {
		return bytes.Compare(a[:], b[:]) < 0
	})

	keys := make([]*btcec.PublicKey, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, distinct[id])
	}

	keySum, err := sumPubKeys(keys)
	if err != nil {
		return nil, err
	}

	target := keys[0]
	factor := TweakFactor(keySum, LockscriptTag, msg)
	tweaked, err := TweakPubKey(target, factor)
	if err != nil {
		return nil, err
	}

	tweakedScript := script.Copy()
	for _, push := range pushes {
		if !push.Key.IsEqual(target) {
			continue
		}

		copy(
			tweakedScript[push.Offset:push.Offset+push.Len()],
			push.Serialize(tweaked),
		)
	}

	return &LockscriptCommitment{
		OriginalScript: script.Copy(),
		TweakedScript:  tweakedScript,
		OriginalKey:    target,
		TweakedKey:     tweaked,
	}, nil
}

// Verify returns true if the commitment commits to the given message.
func (c *LockscriptCommitment) Verify(msg []byte) bool {
	if c == nil || len(c.OriginalScript) == 0 {
		return false
	}

	expected, err := CommitLockscript(c.OriginalScript, msg)
	if err != nil {
		return false
	}

	if c.TweakedKey == nil || !expected.TweakedKey.IsEqual(c.TweakedKey) {
		return false
	}

	return bytes.Equal(expected.TweakedScript, c.TweakedScript)
}

// OriginalContainer returns the lock script the commitment was created from.
func (c *LockscriptCommitment) OriginalContainer() scripts.LockScript {
	return c.OriginalScript.Copy()
}
