package dbc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lightningnetwork/lnd/tlv"
	"github.com/lnpbp/lnpbp/scripts"
)

// maxScriptSize is the largest lock script accepted when decoding a
// commitment.
const maxScriptSize = txscript.MaxScriptSize

// CommitmentTlvType represents the different TLV types of a serialized
// ScriptPubkeyCommitment.
type CommitmentTlvType = tlv.Type

const (
	CommitmentTypeRecord       CommitmentTlvType = 0
	CommitmentOriginalKey      CommitmentTlvType = 2
	CommitmentTweakedKey       CommitmentTlvType = 4
	CommitmentOriginalScript   CommitmentTlvType = 6
	CommitmentTweakedScript    CommitmentTlvType = 8
	CommitmentTapscriptRoot    CommitmentTlvType = 10
	CommitmentTaprootOutputKey CommitmentTlvType = 12
)

var (
	// ErrMissingRecord is returned when a serialized commitment lacks a
	// record required by its type.
	ErrMissingRecord = errors.New("commitment record missing")

	// ErrUnknownRecord is returned when a serialized commitment contains
	// a record type unknown to this version.
	ErrUnknownRecord = errors.New("unknown commitment record")
)

func NewCommitmentTypeRecord(t *CommitmentType) tlv.Record {
	return tlv.MakeStaticRecord(
		CommitmentTypeRecord, t, 1, CommitmentTypeEncoder,
		CommitmentTypeDecoder,
	)
}

func NewOriginalKeyRecord(key **btcec.PublicKey) tlv.Record {
	return tlv.MakePrimitiveRecord(CommitmentOriginalKey, key)
}

func NewTweakedKeyRecord(key **btcec.PublicKey) tlv.Record {
	return tlv.MakePrimitiveRecord(CommitmentTweakedKey, key)
}

func newScriptRecord(typ CommitmentTlvType,
	script *scripts.LockScript) tlv.Record {

	recordSize := func() uint64 {
		return uint64(len(*script))
	}
	return tlv.MakeDynamicRecord(
		typ, script, recordSize, LockScriptEncoder, LockScriptDecoder,
	)
}

func NewOriginalScriptRecord(script *scripts.LockScript) tlv.Record {
	return newScriptRecord(CommitmentOriginalScript, script)
}

func NewTweakedScriptRecord(script *scripts.LockScript) tlv.Record {
	return newScriptRecord(CommitmentTweakedScript, script)
}

func NewTapscriptRootRecord(root *[32]byte) tlv.Record {
	return tlv.MakePrimitiveRecord(CommitmentTapscriptRoot, root)
}

func NewTaprootOutputKeyRecord(key **btcec.PublicKey) tlv.Record {
	return tlv.MakePrimitiveRecord(CommitmentTaprootOutputKey, key)
}

// EncodeRecords returns the TLV records of the commitment, in ascending type
// order.
func (c *ScriptPubkeyCommitment) EncodeRecords() ([]tlv.Record, error) {
	records := []tlv.Record{NewCommitmentTypeRecord(&c.Type)}

	switch c.Type {
	case CommitmentPublicKey:
		if c.PubKey == nil || !haveKeys(
			c.PubKey.OriginalKey, c.PubKey.TweakedKey,
		) {

			return nil, ErrMissingValue
		}

		records = append(
			records,
			NewOriginalKeyRecord(&c.PubKey.OriginalKey),
			NewTweakedKeyRecord(&c.PubKey.TweakedKey),
		)

	case CommitmentLockScript:
		if c.LockScript == nil || !haveKeys(
			c.LockScript.OriginalKey, c.LockScript.TweakedKey,
		) {

			return nil, ErrMissingValue
		}

		records = append(
			records,
			NewOriginalKeyRecord(&c.LockScript.OriginalKey),
			NewTweakedKeyRecord(&c.LockScript.TweakedKey),
			NewOriginalScriptRecord(&c.LockScript.OriginalScript),
			NewTweakedScriptRecord(&c.LockScript.TweakedScript),
		)

	case CommitmentTapRoot:
		if c.TapRoot == nil || !haveKeys(
			c.TapRoot.Container.InternalKey,
			c.TapRoot.TweakedInternalKey, c.TapRoot.OutputKey,
		) {

			return nil, ErrMissingValue
		}

		records = append(
			records,
			NewOriginalKeyRecord(&c.TapRoot.Container.InternalKey),
			NewTweakedKeyRecord(&c.TapRoot.TweakedInternalKey),
		)

		if len(c.TapRoot.Container.ScriptRoot) != 0 {
			var root [32]byte
			copy(root[:], c.TapRoot.Container.ScriptRoot)
			records = append(records, NewTapscriptRootRecord(&root))
		}

		records = append(
			records,
			NewTaprootOutputKeyRecord(&c.TapRoot.OutputKey),
		)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCommitmentType,
			c.Type)
	}

	return records, nil
}

// Encode encodes the commitment into the passed io.Writer.
func (c *ScriptPubkeyCommitment) Encode(w io.Writer) error {
	records, err := c.EncodeRecords()
	if err != nil {
		return err
	}

	stream, err := tlv.NewStream(records...)
	if err != nil {
		return err
	}
	return stream.Encode(w)
}

// Bytes returns the serialized commitment.
func (c *ScriptPubkeyCommitment) Bytes() ([]byte, error) {
	var b bytes.Buffer
	if err := c.Encode(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Decode decodes the commitment from the passed io.Reader. Every record the
// commitment type requires has to be present and no other record may be.
func (c *ScriptPubkeyCommitment) Decode(r io.Reader) error {
	var (
		cmtType        CommitmentType
		originalKey    *btcec.PublicKey
		tweakedKey     *btcec.PublicKey
		originalScript scripts.LockScript
		tweakedScript  scripts.LockScript
		scriptRoot     [32]byte
		outputKey      *btcec.PublicKey
	)

	stream, err := tlv.NewStream(
		NewCommitmentTypeRecord(&cmtType),
		NewOriginalKeyRecord(&originalKey),
		NewTweakedKeyRecord(&tweakedKey),
		NewOriginalScriptRecord(&originalScript),
		NewTweakedScriptRecord(&tweakedScript),
		NewTapscriptRootRecord(&scriptRoot),
		NewTaprootOutputKeyRecord(&outputKey),
	)
	if err != nil {
		return err
	}

	parsedTypes, err := stream.DecodeWithParsedTypes(r)
	if err != nil {
		return err
	}

	var required, optional []CommitmentTlvType
	switch cmtType {
	case CommitmentPublicKey:
		required = []CommitmentTlvType{
			CommitmentTypeRecord, CommitmentOriginalKey,
			CommitmentTweakedKey,
		}

	case CommitmentLockScript:
		required = []CommitmentTlvType{
			CommitmentTypeRecord, CommitmentOriginalKey,
			CommitmentTweakedKey, CommitmentOriginalScript,
			CommitmentTweakedScript,
		}

	case CommitmentTapRoot:
		required = []CommitmentTlvType{
			CommitmentTypeRecord, CommitmentOriginalKey,
			CommitmentTweakedKey, CommitmentTaprootOutputKey,
		}
		optional = []CommitmentTlvType{CommitmentTapscriptRoot}

	default:
		return fmt.Errorf("%w: %v", ErrUnknownCommitmentType, cmtType)
	}

	if err := checkRecords(parsedTypes, required, optional); err != nil {
		return err
	}

	*c = ScriptPubkeyCommitment{Type: cmtType}
	switch cmtType {
	case CommitmentPublicKey:
		c.PubKey = &PubkeyCommitment{
			OriginalKey: originalKey,
			TweakedKey:  tweakedKey,
		}

	case CommitmentLockScript:
		c.LockScript = &LockscriptCommitment{
			OriginalScript: originalScript,
			TweakedScript:  tweakedScript,
			OriginalKey:    originalKey,
			TweakedKey:     tweakedKey,
		}

	case CommitmentTapRoot:
		c.TapRoot = &TaprootCommitment{
			Container: TaprootContainer{
				InternalKey: originalKey,
			},
			TweakedInternalKey: tweakedKey,
			OutputKey:          outputKey,
		}
		if _, ok := parsedTypes[CommitmentTapscriptRoot]; ok {
			c.TapRoot.Container.ScriptRoot = scriptRoot[:]
		}
	}

	return nil
}

// checkRecords makes sure every required record was parsed and nothing but
// the required and optional records is present.
func checkRecords(parsedTypes tlv.TypeMap, required,
	optional []CommitmentTlvType) error {

	known := make(map[CommitmentTlvType]bool, len(required)+len(optional))
	for _, typ := range required {
		if _, ok := parsedTypes[typ]; !ok {
			return fmt.Errorf("%w: type %d", ErrMissingRecord, typ)
		}
		known[typ] = true
	}
	for _, typ := range optional {
		known[typ] = true
	}

	for typ := range parsedTypes {
		if !known[typ] {
			return fmt.Errorf("%w: type %d", ErrUnknownRecord, typ)
		}
	}

	return nil
}

func haveKeys(keys ...*btcec.PublicKey) bool {
	for _, key := range keys {
		if key == nil {
			return false
		}
	}

	return true
}

// DecodeCommitment decodes a commitment from its serialized form.
func DecodeCommitment(b []byte) (*ScriptPubkeyCommitment, error) {
	var c ScriptPubkeyCommitment
	if err := c.Decode(bytes.NewReader(b)); err != nil {
		return nil, err
	}

	return &c, nil
}
