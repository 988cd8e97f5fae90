package dbc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTweak is returned when a tweak factor is not a valid
	// scalar or when tweaking would produce the point at infinity.
	ErrInvalidTweak = errors.New("invalid commitment tweak")

	// ErrInvalidPubKey is returned for a public key that is not a point on
	// the curve.
	ErrInvalidPubKey = errors.New("public key is not on the curve")

	// ErrInvalidScriptRoot is returned for a tapscript root that is
	// neither empty nor 32 bytes long.
	ErrInvalidScriptRoot = errors.New("invalid tapscript root length")

	// ErrContainerMismatch is returned when a commitment is asked for a
	// script of a container kind it can not have been created from.
	ErrContainerMismatch = errors.New("container type does not match " +
		"commitment type")

	// ErrTaprootScriptUnsupported is returned when an output script is
	// requested for a taproot container. The construction of taproot
	// output scripts is not defined yet.
	ErrTaprootScriptUnsupported = errors.New("taproot output script " +
		"synthesis is not supported")

	// ErrUnknownContainerType is returned for a container with a type tag
	// that is not known to this version.
	ErrUnknownContainerType = errors.New("unknown script pubkey " +
		"container type")

	// ErrUnknownCommitmentType is returned for a commitment with a type
	// tag that is not known to this version.
	ErrUnknownCommitmentType = errors.New("unknown script pubkey " +
		"commitment type")

	// ErrMissingValue is returned when the value of the active variant of
	// a container or commitment is nil.
	ErrMissingValue = errors.New("missing value for variant")
)

// Primitive identifies one of the underlying commitment procedures.
type Primitive uint8

const (
	// PrimitivePubkey is the public key tweaking procedure.
	PrimitivePubkey Primitive = 0

	// PrimitiveLockscript is the lock script tweaking procedure.
	PrimitiveLockscript Primitive = 1

	// PrimitiveTaproot is the taproot key tweaking procedure.
	PrimitiveTaproot Primitive = 2
)

// String returns a human-readable name of the primitive.
func (p Primitive) String() string {
	switch p {
	case PrimitivePubkey:
		return "pubkey"

	case PrimitiveLockscript:
		return "lockscript"

	case PrimitiveTaproot:
		return "taproot"

	default:
		return fmt.Sprintf("UnknownPrimitive(%d)", p)
	}
}

// CommitError is returned by CommitTo and carries the primitive the
// underlying error originates from.
type CommitError struct {
	// Primitive is the commitment procedure that failed.
	Primitive Primitive

	// Err is the error returned by the primitive.
	Err error
}

// Error returns the error message.
func (e *CommitError) Error() string {
	return fmt.Sprintf("%v commitment failed: %v", e.Primitive, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommitError) Unwrap() error {
	return e.Err
}

func newCommitError(p Primitive, err error) *CommitError {
	return &CommitError{Primitive: p, Err: err}
}
