package dbc

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

// TaprootContainer describes a taproot output a commitment is embedded into.
type TaprootContainer struct {
	// InternalKey is the BIP-341 internal key.
	InternalKey *btcec.PublicKey

	// ScriptRoot is the optional 32 byte tapscript merkle root. It is
	// empty for key spend only outputs.
	ScriptRoot []byte
}

// IsEqual returns true if both containers describe the same output.
func (c *TaprootContainer) IsEqual(o *TaprootContainer) bool {
	if c == nil || o == nil {
		return c == o
	}

	return keysEqual(c.InternalKey, o.InternalKey) &&
		bytes.Equal(c.ScriptRoot, o.ScriptRoot)
}

// TaprootCommitment is a taproot output whose internal key was tweaked to
// commit to a message before the BIP-341 tap tweak was applied.
type TaprootCommitment struct {
	// Container is the taproot output description before the commitment.
	Container TaprootContainer

	// TweakedInternalKey is the internal key with the commitment applied.
	TweakedInternalKey *btcec.PublicKey

	// OutputKey is the taproot output key for TweakedInternalKey and the
	// script root of the container.
	OutputKey *btcec.PublicKey
}

// CommitTaproot embeds a commitment to the message into a taproot output.
func CommitTaproot(container TaprootContainer,
	msg []byte) (*TaprootCommitment, error) {

	if container.InternalKey == nil {
		return nil, ErrMissingValue
	}
	if len(container.ScriptRoot) != 0 &&
		len(container.ScriptRoot) != chainhash.HashSize {

		return nil, ErrInvalidScriptRoot
	}

	keyCommitment, err := CommitPubkey(container.InternalKey, msg)
	if err != nil {
		return nil, err
	}

	tweakedKey := keyCommitment.TweakedKey
	var outputKey *btcec.PublicKey
	if len(container.ScriptRoot) == 0 {
		outputKey = txscript.ComputeTaprootKeyNoScript(tweakedKey)
	} else {
		outputKey = txscript.ComputeTaprootOutputKey(
			tweakedKey, container.ScriptRoot,
		)
	}

	return &TaprootCommitment{
		Container: TaprootContainer{
			InternalKey: container.InternalKey,
			ScriptRoot:  copyBytes(container.ScriptRoot),
		},
		TweakedInternalKey: tweakedKey,
		OutputKey:          outputKey,
	}, nil
}

// Verify returns true if the commitment commits to the given message.
func (c *TaprootCommitment) Verify(msg []byte) bool {
	if c == nil || c.TweakedInternalKey == nil || c.OutputKey == nil {
		return false
	}

	expected, err := CommitTaproot(c.Container, msg)
	if err != nil {
		return false
	}

	return expected.TweakedInternalKey.IsEqual(c.TweakedInternalKey) &&
		expected.OutputKey.IsEqual(c.OutputKey)
}

// OriginalContainer returns the container the commitment was created from.
func (c *TaprootCommitment) OriginalContainer() TaprootContainer {
	return TaprootContainer{
		InternalKey: c.Container.InternalKey,
		ScriptRoot:  copyBytes(c.Container.ScriptRoot),
	}
}

func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}

	return append([]byte{}, b...)
}

func keysEqual(a, b *btcec.PublicKey) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.IsEqual(b)
}
