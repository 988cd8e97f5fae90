package schema

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/lnpbp/lnpbp/strictenc"
)

// scriptingUnsupported is the note carried by the error returned for a
// schema that uses the reserved script field.
const scriptingUnsupported = "Scripting information is not yet supported"

// FieldType identifies a metadata field.
type FieldType uint16

// AssignmentsType identifies a seal type.
type AssignmentsType uint16

// MetadataStructure maps every permitted metadata field to the number of
// times it may occur.
type MetadataStructure map[FieldType]Occurrences

// Encode writes the structure as an ordered map.
func (m MetadataStructure) Encode(w io.Writer) error {
	return strictenc.EncodeMap(
		w, m, strictenc.EncodeUint16Key[FieldType], encodeOccurrences,
	)
}

// Decode reads a structure written by Encode.
func (m *MetadataStructure) Decode(r io.Reader) error {
	decoded, err := strictenc.DecodeMap(
		r, strictenc.DecodeUint16Key[FieldType], decodeOccurrences,
	)
	if err != nil {
		return err
	}

	*m = decoded
	return nil
}

// SealsStructure maps every permitted seal type to the number of times it
// may occur.
type SealsStructure map[AssignmentsType]Occurrences

// Encode writes the structure as an ordered map.
func (s SealsStructure) Encode(w io.Writer) error {
	return strictenc.EncodeMap(
		w, s, strictenc.EncodeUint16Key[AssignmentsType],
		encodeOccurrences,
	)
}

// Decode reads a structure written by Encode.
func (s *SealsStructure) Decode(r io.Reader) error {
	decoded, err := strictenc.DecodeMap(
		r, strictenc.DecodeUint16Key[AssignmentsType],
		decodeOccurrences,
	)
	if err != nil {
		return err
	}

	*s = decoded
	return nil
}

// GenesisSchema describes the metadata and seals a genesis node may carry.
type GenesisSchema struct {
	// Metadata lists the permitted metadata fields.
	Metadata MetadataStructure `json:"metadata"`

	// Defines lists the seal types the genesis may define.
	Defines SealsStructure `json:"defines"`

	// Abi binds genesis actions to procedures.
	Abi GenesisAbi `json:"abi"`
}

// Encode writes the strict encoding of the schema. The reserved script field
// is always written empty.
func (g *GenesisSchema) Encode(w io.Writer) error {
	return encodeAll(
		w, g.Metadata, g.Defines, g.Abi, reservedScript{},
	)
}

// Decode reads a schema written by Encode. A schema carrying script data is
// rejected with an *strictenc.UnsupportedDataStructureError. The decoded maps
// are never nil, so a schema encoded with nil maps decodes with empty ones.
func (g *GenesisSchema) Decode(r io.Reader) error {
	var decoded GenesisSchema
	err := decodeAll(
		r, &decoded.Metadata, &decoded.Defines, &decoded.Abi,
		&reservedScript{},
	)
	if err != nil {
		return err
	}

	log.Tracef("Decoded genesis schema: %v", newLogClosure(
		func() string {
			return spew.Sdump(decoded)
		},
	))

	*g = decoded
	return nil
}

// TransitionSchema describes the metadata and seals a state transition may
// carry.
type TransitionSchema struct {
	// Metadata lists the permitted metadata fields.
	Metadata MetadataStructure `json:"metadata"`

	// Closes lists the seal types the transition may close.
	Closes SealsStructure `json:"closes"`

	// Defines lists the seal types the transition may define.
	Defines SealsStructure `json:"defines"`

	// Abi binds transition actions to procedures.
	Abi TransitionAbi `json:"abi"`
}

// Encode writes the strict encoding of the schema. The reserved script field
// is always written empty.
func (t *TransitionSchema) Encode(w io.Writer) error {
	return encodeAll(
		w, t.Metadata, t.Closes, t.Defines, t.Abi, reservedScript{},
	)
}

// Decode reads a schema written by Encode. A schema carrying script data is
// rejected with an *strictenc.UnsupportedDataStructureError. The decoded maps
// are never nil, so a schema encoded with nil maps decodes with empty ones.
func (t *TransitionSchema) Decode(r io.Reader) error {
	var decoded TransitionSchema
	err := decodeAll(
		r, &decoded.Metadata, &decoded.Closes, &decoded.Defines,
		&decoded.Abi, &reservedScript{},
	)
	if err != nil {
		return err
	}

	log.Tracef("Decoded transition schema: %v", newLogClosure(
		func() string {
			return spew.Sdump(decoded)
		},
	))

	*t = decoded
	return nil
}

// reservedScript is the byte vector kept in the encoding of both schema
// kinds for embedded validation scripts. It must be empty.
type reservedScript struct{}

// Encode writes an empty byte vector.
func (reservedScript) Encode(w io.Writer) error {
	return strictenc.WriteBytes(w, nil)
}

// Decode reads the byte vector and fails if it is not empty.
func (*reservedScript) Decode(r io.Reader) error {
	script, err := strictenc.ReadBytes(r)
	if err != nil {
		return err
	}

	if len(script) != 0 {
		log.Debugf("Rejecting schema with %d bytes of script data",
			len(script))

		return strictenc.NewUnsupportedDataStructureError(
			scriptingUnsupported,
		)
	}

	return nil
}

func encodeAll(w io.Writer, fields ...strictenc.Encoder) error {
	for _, f := range fields {
		if err := f.Encode(w); err != nil {
			return err
		}
	}

	return nil
}

func decodeAll(r io.Reader, fields ...strictenc.Decoder) error {
	for _, f := range fields {
		if err := f.Decode(r); err != nil {
			return err
		}
	}

	return nil
}
