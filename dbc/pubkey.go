package dbc

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// PubkeyTag is the tag of the tagged hash the message is digested
	// with before tweaking a single public key.
	PubkeyTag = []byte("LNPBP1")

	// LockscriptTag is the tag of the tagged hash the message is digested
	// with before tweaking a key inside a lock script.
	LockscriptTag = []byte("LNPBP2")
)

// PubkeyCommitment is a public key that was tweaked to commit to a message.
type PubkeyCommitment struct {
	// OriginalKey is the key before the commitment was applied.
	OriginalKey *btcec.PublicKey

	// TweakedKey is the key that commits to the message:
	// TweakedKey = OriginalKey + HMAC(OriginalKey, H_tag(msg))*G.
	TweakedKey *btcec.PublicKey
}

// CommitPubkey tweaks the given public key so it commits to the message.
func CommitPubkey(key *btcec.PublicKey, msg []byte) (*PubkeyCommitment,
	error) {

	if key == nil {
		return nil, ErrMissingValue
	}

	factor := TweakFactor(key, PubkeyTag, msg)
	tweaked, err := TweakPubKey(key, factor)
	if err != nil {
		return nil, err
	}

	return &PubkeyCommitment{
		OriginalKey: key,
		TweakedKey:  tweaked,
	}, nil
}

// Verify returns true if the commitment commits to the given message.
func (c *PubkeyCommitment) Verify(msg []byte) bool {
	if c == nil || c.OriginalKey == nil || c.TweakedKey == nil {
		return false
	}

	expected, err := CommitPubkey(c.OriginalKey, msg)
	if err != nil {
		return false
	}

	return expected.TweakedKey.IsEqual(c.TweakedKey)
}

// OriginalContainer returns the key the commitment was created from.
func (c *PubkeyCommitment) OriginalContainer() *btcec.PublicKey {
	return c.OriginalKey
}

// TweakFactor computes the tweak for a message: the HMAC-SHA256 keyed with the
// compressed serialization of hmacKey over the tagged hash of the message.
func TweakFactor(hmacKey *btcec.PublicKey, tag, msg []byte) [32]byte {
	digest := chainhash.TaggedHash(tag, msg)

	mac := hmac.New(sha256.New, hmacKey.SerializeCompressed())
	_, _ = mac.Write(digest[:])

	var factor [32]byte
	copy(factor[:], mac.Sum(nil))

	return factor
}

// TweakPubKey returns key + factor*G.
func TweakPubKey(key *btcec.PublicKey, factor [32]byte) (*btcec.PublicKey,
	error) {

	if !key.IsOnCurve() {
		return nil, ErrInvalidPubKey
	}

	var tweak btcec.ModNScalar
	if overflow := tweak.SetBytes(&factor); overflow != 0 {
		return nil, ErrInvalidTweak
	}

	var keyPoint, tweakPoint, result btcec.JacobianPoint
	key.AsJacobian(&keyPoint)
	btcec.ScalarBaseMultNonConst(&tweak, &tweakPoint)
	btcec.AddNonConst(&keyPoint, &tweakPoint, &result)

	if (result.X.IsZero() && result.Y.IsZero()) || result.Z.IsZero() {
		return nil, ErrInvalidTweak
	}

	result.ToAffine()

	return btcec.NewPublicKey(&result.X, &result.Y), nil
}

// sumPubKeys adds all given keys together.
func sumPubKeys(keys []*btcec.PublicKey) (*btcec.PublicKey, error) {
	var sum btcec.JacobianPoint
	for i, key := range keys {
		if !key.IsOnCurve() {
			return nil, ErrInvalidPubKey
		}

		var point btcec.JacobianPoint
		key.AsJacobian(&point)
		if i == 0 {
			sum = point
			continue
		}

		var next btcec.JacobianPoint
		btcec.AddNonConst(&sum, &point, &next)
		sum = next
	}

	if (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero() {
		return nil, ErrInvalidTweak
	}

	sum.ToAffine()

	return btcec.NewPublicKey(&sum.X, &sum.Y), nil
}
