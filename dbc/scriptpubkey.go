package dbc

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lnpbp/lnpbp/scripts"
)

// ContainerType denotes the kind of output script a commitment is embedded
// into.
type ContainerType uint8

const (
	// ContainerPublicKey commits into a bare pay-to-pubkey output.
	ContainerPublicKey ContainerType = 0

	// ContainerPubkeyHash commits into the key of a P2WPKH output.
	ContainerPubkeyHash ContainerType = 1

	// ContainerScriptHash commits into the witness script of a P2WSH
	// output.
	ContainerScriptHash ContainerType = 2

	// ContainerTapRoot commits into a taproot output.
	ContainerTapRoot ContainerType = 3

	// ContainerOpReturn commits into a key whose hash is carried by an
	// OP_RETURN output.
	ContainerOpReturn ContainerType = 4

	// ContainerOtherScript commits into an arbitrary output script which
	// is used as is.
	ContainerOtherScript ContainerType = 5
)

// String returns a human-readable string for the ContainerType.
func (t ContainerType) String() string {
	switch t {
	case ContainerPublicKey:
		return "PublicKey"

	case ContainerPubkeyHash:
		return "PubkeyHash"

	case ContainerScriptHash:
		return "ScriptHash"

	case ContainerTapRoot:
		return "TapRoot"

	case ContainerOpReturn:
		return "OpReturn"

	case ContainerOtherScript:
		return "OtherScript"

	default:
		return fmt.Sprintf("UnknownContainer(%d)", t)
	}
}

// ScriptPubkeyContainer describes the key or script a commitment will be
// embedded into. Only the field matching Type is set.
type ScriptPubkeyContainer struct {
	// Type is the kind of the container.
	Type ContainerType

	// PubKey is set for ContainerPublicKey, ContainerPubkeyHash and
	// ContainerOpReturn.
	PubKey *btcec.PublicKey

	// LockScript is set for ContainerScriptHash.
	LockScript scripts.LockScript

	// PubkeyScript is set for ContainerOtherScript.
	PubkeyScript scripts.PubkeyScript

	// TapRoot is set for ContainerTapRoot.
	TapRoot *TaprootContainer
}

// NewPublicKeyContainer creates a pay-to-pubkey container.
func NewPublicKeyContainer(key *btcec.PublicKey) ScriptPubkeyContainer {
	return ScriptPubkeyContainer{Type: ContainerPublicKey, PubKey: key}
}

// NewPubkeyHashContainer creates a P2WPKH container.
func NewPubkeyHashContainer(key *btcec.PublicKey) ScriptPubkeyContainer {
	return ScriptPubkeyContainer{Type: ContainerPubkeyHash, PubKey: key}
}

// NewScriptHashContainer creates a P2WSH container.
func NewScriptHashContainer(script scripts.LockScript) ScriptPubkeyContainer {
	return ScriptPubkeyContainer{
		Type:       ContainerScriptHash,
		LockScript: script.Copy(),
	}
}

// NewTapRootContainer creates a taproot container.
func NewTapRootContainer(c TaprootContainer) ScriptPubkeyContainer {
	return ScriptPubkeyContainer{
		Type: ContainerTapRoot,
		TapRoot: &TaprootContainer{
			InternalKey: c.InternalKey,
			ScriptRoot:  copyBytes(c.ScriptRoot),
		},
	}
}

// NewOpReturnContainer creates an OP_RETURN container.
func NewOpReturnContainer(key *btcec.PublicKey) ScriptPubkeyContainer {
	return ScriptPubkeyContainer{Type: ContainerOpReturn, PubKey: key}
}

// NewOtherScriptContainer creates a container for an arbitrary output script.
func NewOtherScriptContainer(
	script scripts.PubkeyScript) ScriptPubkeyContainer {

	return ScriptPubkeyContainer{
		Type:         ContainerOtherScript,
		PubkeyScript: script.Copy(),
	}
}

// IsEqual returns true if both containers are of the same kind and hold the
// same value.
func (c ScriptPubkeyContainer) IsEqual(o ScriptPubkeyContainer) bool {
	if c.Type != o.Type {
		return false
	}

	switch c.Type {
	case ContainerPublicKey, ContainerPubkeyHash, ContainerOpReturn:
		return keysEqual(c.PubKey, o.PubKey)

	case ContainerScriptHash:
		return bytes.Equal(c.LockScript, o.LockScript)

	case ContainerOtherScript:
		return bytes.Equal(c.PubkeyScript, o.PubkeyScript)

	case ContainerTapRoot:
		return c.TapRoot.IsEqual(o.TapRoot)

	default:
		return false
	}
}

// Synthesize returns the output script for the container. Keys are always
// serialized uncompressed, regardless of how they were parsed, since the
// resulting script bytes are part of what a commitment is verified against.
func Synthesize(c ScriptPubkeyContainer) (scripts.PubkeyScript, error) {
	switch c.Type {
	case ContainerOtherScript:
		return c.PubkeyScript.Copy(), nil

	case ContainerPublicKey:
		if c.PubKey == nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingValue, c.Type)
		}

		return scripts.PayToPubKey(scripts.UncompressedKey(c.PubKey))

	case ContainerPubkeyHash:
		if c.PubKey == nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingValue, c.Type)
		}

		keyHash := scripts.WitnessPubKeyHash(
			scripts.UncompressedKey(c.PubKey),
		)
		return scripts.PayToWitnessPubKeyHash(keyHash)

	case ContainerScriptHash:
		return scripts.PayToWitnessScriptHash(
			scripts.WitnessScriptHash(c.LockScript),
		)

	case ContainerOpReturn:
		if c.PubKey == nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingValue, c.Type)
		}

		// The data carrier holds the key hash, not the key itself.
		keyHash := scripts.WitnessPubKeyHash(
			scripts.UncompressedKey(c.PubKey),
		)
		return scripts.OpReturn(keyHash)

	// TODO(synthesis): define the taproot output script once the
	// taproot commitment format is settled.
	case ContainerTapRoot:
		return nil, ErrTaprootScriptUnsupported

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownContainerType, c.Type)
	}
}

// CommitmentType denotes the kind of commitment held by a
// ScriptPubkeyCommitment.
type CommitmentType uint8

const (
	// CommitmentPublicKey is produced by ContainerPublicKey,
	// ContainerPubkeyHash and ContainerOpReturn.
	CommitmentPublicKey CommitmentType = 0

	// CommitmentLockScript is produced by ContainerScriptHash and
	// ContainerOtherScript.
	CommitmentLockScript CommitmentType = 1

	// CommitmentTapRoot is produced by ContainerTapRoot.
	CommitmentTapRoot CommitmentType = 2
)

// String returns a human-readable string for the CommitmentType.
func (t CommitmentType) String() string {
	switch t {
	case CommitmentPublicKey:
		return "PublicKey"

	case CommitmentLockScript:
		return "LockScript"

	case CommitmentTapRoot:
		return "TapRoot"

	default:
		return fmt.Sprintf("UnknownCommitment(%d)", t)
	}
}

// ScriptPubkeyCommitment is the result of embedding a commitment into a
// ScriptPubkeyContainer. Only the field matching Type is set.
//
// NOTE: The container kinds PublicKey, PubkeyHash and OpReturn all produce a
// CommitmentPublicKey, and ScriptHash and OtherScript both produce a
// CommitmentLockScript. Which of them was used can only be told from the
// finished output script.
type ScriptPubkeyCommitment struct {
	// Type is the kind of the commitment.
	Type CommitmentType

	// PubKey is set for CommitmentPublicKey.
	PubKey *PubkeyCommitment

	// LockScript is set for CommitmentLockScript.
	LockScript *LockscriptCommitment

	// TapRoot is set for CommitmentTapRoot.
	TapRoot *TaprootCommitment
}

// CommitTo embeds a commitment to msg into the container. Either a complete
// commitment or an error is returned; errors coming from one of the
// primitives are wrapped in a *CommitError.
func CommitTo(c ScriptPubkeyContainer,
	msg []byte) (*ScriptPubkeyCommitment, error) {

	var (
		commitment *ScriptPubkeyCommitment
		err        error
	)
	switch c.Type {
	case ContainerPublicKey, ContainerPubkeyHash, ContainerOpReturn:
		var keyCommitment *PubkeyCommitment
		keyCommitment, err = CommitPubkey(c.PubKey, msg)
		if err != nil {
			return nil, newCommitError(PrimitivePubkey, err)
		}

		commitment = &ScriptPubkeyCommitment{
			Type:   CommitmentPublicKey,
			PubKey: keyCommitment,
		}

	case ContainerScriptHash:
		commitment, err = commitLockscript(c.LockScript, msg)
		if err != nil {
			return nil, err
		}

	case ContainerTapRoot:
		if c.TapRoot == nil {
			return nil, newCommitError(
				PrimitiveTaproot, ErrMissingValue,
			)
		}

		var tapCommitment *TaprootCommitment
		tapCommitment, err = CommitTaproot(*c.TapRoot, msg)
		if err != nil {
			return nil, newCommitError(PrimitiveTaproot, err)
		}

		commitment = &ScriptPubkeyCommitment{
			Type:    CommitmentTapRoot,
			TapRoot: tapCommitment,
		}

	// The output script is committed to as if it was a lock script. The
	// distinction only exists on the container level.
	case ContainerOtherScript:
		commitment, err = commitLockscript(
			scripts.LockScript(c.PubkeyScript), msg,
		)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownContainerType, c.Type)
	}

	log.Debugf("Committed to message of %d bytes using %v container",
		len(msg), c.Type)
	log.Tracef("Resulting commitment: %v", newLogClosure(func() string {
		return limitSpewer.Sdump(commitment)
	}))

	return commitment, nil
}

func commitLockscript(script scripts.LockScript,
	msg []byte) (*ScriptPubkeyCommitment, error) {

	scriptCommitment, err := CommitLockscript(script, msg)
	if err != nil {
		return nil, newCommitError(PrimitiveLockscript, err)
	}

	return &ScriptPubkeyCommitment{
		Type:       CommitmentLockScript,
		LockScript: scriptCommitment,
	}, nil
}

// RevealVerify returns true if the commitment commits to msg. It never fails;
// an inconsistent commitment simply doesn't verify.
func (c *ScriptPubkeyCommitment) RevealVerify(msg []byte) bool {
	if c == nil {
		return false
	}

	switch c.Type {
	case CommitmentPublicKey:
		return c.PubKey.Verify(msg)

	case CommitmentLockScript:
		return c.LockScript.Verify(msg)

	case CommitmentTapRoot:
		return c.TapRoot.Verify(msg)

	default:
		return false
	}
}

// OriginalContainer reconstructs the container the commitment was created
// from.
//
// NOTE: This projection is lossy. Public key commitments are always
// reconstructed as ContainerPubkeyHash and lock script commitments as
// ContainerScriptHash, since the commitment doesn't record which of the
// container kinds sharing its type was used.
func (c *ScriptPubkeyCommitment) OriginalContainer() (ScriptPubkeyContainer,
	error) {

	if c == nil {
		return ScriptPubkeyContainer{}, ErrMissingValue
	}

	switch c.Type {
	case CommitmentPublicKey:
		if c.PubKey == nil {
			return ScriptPubkeyContainer{}, ErrMissingValue
		}

		return NewPubkeyHashContainer(
			c.PubKey.OriginalContainer(),
		), nil

	case CommitmentLockScript:
		if c.LockScript == nil {
			return ScriptPubkeyContainer{}, ErrMissingValue
		}

		return NewScriptHashContainer(
			c.LockScript.OriginalContainer(),
		), nil

	case CommitmentTapRoot:
		if c.TapRoot == nil {
			return ScriptPubkeyContainer{}, ErrMissingValue
		}

		return NewTapRootContainer(c.TapRoot.OriginalContainer()), nil

	default:
		return ScriptPubkeyContainer{}, fmt.Errorf("%w: %v",
			ErrUnknownCommitmentType, c.Type)
	}
}

// CommittedContainer returns a container of the given kind that holds the
// committed key or script instead of the original one. The kind has to be
// supplied by the caller as it is not recorded in the commitment.
func (c *ScriptPubkeyCommitment) CommittedContainer(
	kind ContainerType) (ScriptPubkeyContainer, error) {

	if c == nil {
		return ScriptPubkeyContainer{}, ErrMissingValue
	}

	switch {
	case c.Type == CommitmentPublicKey && c.PubKey == nil,
		c.Type == CommitmentLockScript && c.LockScript == nil,
		c.Type == CommitmentTapRoot && c.TapRoot == nil:

		return ScriptPubkeyContainer{}, ErrMissingValue
	}

	switch {
	case c.Type == CommitmentPublicKey && (kind == ContainerPublicKey ||
		kind == ContainerPubkeyHash || kind == ContainerOpReturn):

		return ScriptPubkeyContainer{
			Type:   kind,
			PubKey: c.PubKey.TweakedKey,
		}, nil

	case c.Type == CommitmentLockScript && kind == ContainerScriptHash:
		return NewScriptHashContainer(c.LockScript.TweakedScript), nil

	case c.Type == CommitmentLockScript && kind == ContainerOtherScript:
		return NewOtherScriptContainer(
			scripts.PubkeyScript(c.LockScript.TweakedScript),
		), nil

	case c.Type == CommitmentTapRoot && kind == ContainerTapRoot:
		return NewTapRootContainer(TaprootContainer{
			InternalKey: c.TapRoot.TweakedInternalKey,
			ScriptRoot:  c.TapRoot.Container.ScriptRoot,
		}), nil

	default:
		return ScriptPubkeyContainer{}, fmt.Errorf("%w: %v commitment "+
			"for %v container", ErrContainerMismatch, c.Type, kind)
	}
}

// PubkeyScript returns the output script that carries the commitment for the
// given container kind.
func (c *ScriptPubkeyCommitment) PubkeyScript(
	kind ContainerType) (scripts.PubkeyScript, error) {

	committed, err := c.CommittedContainer(kind)
	if err != nil {
		return nil, err
	}

	return Synthesize(committed)
}

// CommitScript commits to msg and returns the output script to be placed
// on-chain along with the commitment.
func CommitScript(c ScriptPubkeyContainer,
	msg []byte) (scripts.PubkeyScript, *ScriptPubkeyCommitment, error) {

	commitment, err := CommitTo(c, msg)
	if err != nil {
		return nil, nil, err
	}

	script, err := commitment.PubkeyScript(c.Type)
	if err != nil {
		return nil, nil, err
	}

	return script, commitment, nil
}

// VerifyPubkeyScript returns true if the observed output script is the one
// obtained by committing to msg in the given container.
func VerifyPubkeyScript(script scripts.PubkeyScript, c ScriptPubkeyContainer,
	msg []byte) bool {

	expected, _, err := CommitScript(c, msg)
	if err != nil {
		log.Debugf("Unable to recompute %v commitment: %v", c.Type, err)
		return false
	}

	return bytes.Equal(expected, script)
}
