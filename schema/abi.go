package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lnpbp/lnpbp/strictenc"
)

// GenesisAction is an operation that can be bound to a procedure in the ABI
// of a genesis schema.
type GenesisAction uint8

const (
	// GenesisValidate validates a genesis node.
	GenesisValidate GenesisAction = 0
)

// String returns a human-readable string for the GenesisAction.
func (a GenesisAction) String() string {
	switch a {
	case GenesisValidate:
		return "validate"

	default:
		return fmt.Sprintf("UnknownGenesisAction(%d)", a)
	}
}

// MarshalText implements encoding.TextMarshaler so the action can be used
// as a JSON object key.
func (a GenesisAction) MarshalText() ([]byte, error) {
	if _, err := checkGenesisAction(a); err != nil {
		return nil, err
	}

	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *GenesisAction) UnmarshalText(text []byte) error {
	switch string(text) {
	case GenesisValidate.String():
		*a = GenesisValidate

	default:
		return fmt.Errorf("unknown genesis action %q", text)
	}

	return nil
}

func checkGenesisAction(a GenesisAction) (GenesisAction, error) {
	if a != GenesisValidate {
		return 0, &strictenc.EnumValueNotKnownError{
			Enum:  "GenesisAction",
			Value: uint8(a),
		}
	}

	return a, nil
}

// TransitionAction is an operation that can be bound to a procedure in the
// ABI of a transition schema.
type TransitionAction uint8

const (
	// TransitionValidate validates a state transition.
	TransitionValidate TransitionAction = 0

	// TransitionGenerateBlank generates a blank state transition.
	TransitionGenerateBlank TransitionAction = 1
)

// String returns a human-readable string for the TransitionAction.
func (a TransitionAction) String() string {
	switch a {
	case TransitionValidate:
		return "validate"

	case TransitionGenerateBlank:
		return "generate_blank"

	default:
		return fmt.Sprintf("UnknownTransitionAction(%d)", a)
	}
}

// MarshalText implements encoding.TextMarshaler so the action can be used
// as a JSON object key.
func (a TransitionAction) MarshalText() ([]byte, error) {
	if _, err := checkTransitionAction(a); err != nil {
		return nil, err
	}

	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *TransitionAction) UnmarshalText(text []byte) error {
	switch string(text) {
	case TransitionValidate.String():
		*a = TransitionValidate

	case TransitionGenerateBlank.String():
		*a = TransitionGenerateBlank

	default:
		return fmt.Errorf("unknown transition action %q", text)
	}

	return nil
}

func checkTransitionAction(a TransitionAction) (TransitionAction, error) {
	switch a {
	case TransitionValidate, TransitionGenerateBlank:
		return a, nil

	default:
		return 0, &strictenc.EnumValueNotKnownError{
			Enum:  "TransitionAction",
			Value: uint8(a),
		}
	}
}

// StandardProcedure identifies one of the validation procedures that are
// built into every validator.
type StandardProcedure uint8

const (
	// ProcConfidentialAmount checks that confidential amounts balance.
	ProcConfidentialAmount StandardProcedure = 1

	// ProcIssueControl checks secondary issuance rights.
	ProcIssueControl StandardProcedure = 2

	// ProcPruning checks pruning of asset history.
	ProcPruning StandardProcedure = 3
)

// String returns a human-readable string for the StandardProcedure.
func (p StandardProcedure) String() string {
	switch p {
	case ProcConfidentialAmount:
		return "confidential_amount"

	case ProcIssueControl:
		return "issue_control"

	case ProcPruning:
		return "pruning"

	default:
		return fmt.Sprintf("UnknownStandardProcedure(%d)", p)
	}
}

func parseStandardProcedure(s string) (StandardProcedure, error) {
	for _, p := range []StandardProcedure{
		ProcConfidentialAmount, ProcIssueControl, ProcPruning,
	} {
		if p.String() == s {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unknown standard procedure %q", s)
}

func checkStandardProcedure(p StandardProcedure) error {
	switch p {
	case ProcConfidentialAmount, ProcIssueControl, ProcPruning:
		return nil

	default:
		return &strictenc.EnumValueNotKnownError{
			Enum:  "StandardProcedure",
			Value: uint8(p),
		}
	}
}

// ProcedureType is the strict encoding tag of a Procedure.
type ProcedureType uint8

const (
	// ProcedureSimplicity refers to a Simplicity script.
	ProcedureSimplicity ProcedureType = 0x00

	// ProcedureStandard refers to a StandardProcedure.
	ProcedureStandard ProcedureType = 0xFF
)

// Procedure is the implementation an ABI action is bound to. Only the field
// matching Type is used.
type Procedure struct {
	// Type is the kind of the procedure.
	Type ProcedureType

	// Standard is the built-in procedure for ProcedureStandard.
	Standard StandardProcedure

	// Offset is the offset of the Simplicity code for
	// ProcedureSimplicity.
	Offset uint32
}

// NewStandardProcedure returns a procedure bound to a built-in validation.
func NewStandardProcedure(p StandardProcedure) Procedure {
	return Procedure{Type: ProcedureStandard, Standard: p}
}

// NewSimplicityProcedure returns a procedure bound to Simplicity code at the
// given offset.
func NewSimplicityProcedure(offset uint32) Procedure {
	return Procedure{Type: ProcedureSimplicity, Offset: offset}
}

// String returns a human-readable form of the procedure.
func (p Procedure) String() string {
	switch p.Type {
	case ProcedureStandard:
		return fmt.Sprintf("standard(%v)", p.Standard)

	case ProcedureSimplicity:
		return fmt.Sprintf("simplicity(%d)", p.Offset)

	default:
		return fmt.Sprintf("UnknownProcedure(%d)", p.Type)
	}
}

// Encode writes the procedure tag followed by its value.
func (p Procedure) Encode(w io.Writer) error {
	switch p.Type {
	case ProcedureStandard:
		if err := checkStandardProcedure(p.Standard); err != nil {
			return err
		}
		if err := strictenc.WriteUint8(w, uint8(p.Type)); err != nil {
			return err
		}
		return strictenc.WriteUint8(w, uint8(p.Standard))

	case ProcedureSimplicity:
		if err := strictenc.WriteUint8(w, uint8(p.Type)); err != nil {
			return err
		}
		return strictenc.WriteUint32(w, p.Offset)

	default:
		return &strictenc.EnumValueNotKnownError{
			Enum:  "Procedure",
			Value: uint8(p.Type),
		}
	}
}

// Decode reads a procedure written by Encode.
func (p *Procedure) Decode(r io.Reader) error {
	tag, err := strictenc.ReadUint8(r)
	if err != nil {
		return err
	}

	switch ProcedureType(tag) {
	case ProcedureStandard:
		v, err := strictenc.ReadUint8(r)
		if err != nil {
			return err
		}
		if err := checkStandardProcedure(StandardProcedure(v)); err != nil {
			return err
		}
		*p = NewStandardProcedure(StandardProcedure(v))

	case ProcedureSimplicity:
		offset, err := strictenc.ReadUint32(r)
		if err != nil {
			return err
		}
		*p = NewSimplicityProcedure(offset)

	default:
		return &strictenc.EnumValueNotKnownError{
			Enum:  "Procedure",
			Value: tag,
		}
	}

	return nil
}

type procedureJSON struct {
	Standard   string  `json:"standard,omitempty"`
	Simplicity *uint32 `json:"simplicity,omitempty"`
}

// MarshalJSON encodes the procedure as {"standard": name} or
// {"simplicity": offset}.
func (p Procedure) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case ProcedureStandard:
		if err := checkStandardProcedure(p.Standard); err != nil {
			return nil, err
		}
		return json.Marshal(procedureJSON{Standard: p.Standard.String()})

	case ProcedureSimplicity:
		offset := p.Offset
		return json.Marshal(procedureJSON{Simplicity: &offset})

	default:
		return nil, fmt.Errorf("unknown procedure type %d", p.Type)
	}
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (p *Procedure) UnmarshalJSON(b []byte) error {
	var j procedureJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	switch {
	case j.Standard != "" && j.Simplicity == nil:
		std, err := parseStandardProcedure(j.Standard)
		if err != nil {
			return err
		}
		*p = NewStandardProcedure(std)

	case j.Standard == "" && j.Simplicity != nil:
		*p = NewSimplicityProcedure(*j.Simplicity)

	default:
		return fmt.Errorf("procedure needs exactly one of standard or " +
			"simplicity")
	}

	return nil
}

// GenesisAbi binds genesis actions to their procedures.
type GenesisAbi map[GenesisAction]Procedure

// Encode writes the ABI as an ordered map.
func (a GenesisAbi) Encode(w io.Writer) error {
	for action := range a {
		if _, err := checkGenesisAction(action); err != nil {
			return err
		}
	}

	return strictenc.EncodeMap(
		w, a, strictenc.EncodeUint8Key[GenesisAction], encodeProcedure,
	)
}

// Decode reads an ABI written by Encode.
func (a *GenesisAbi) Decode(r io.Reader) error {
	m, err := strictenc.DecodeMap(r, decodeGenesisAction, decodeProcedure)
	if err != nil {
		return err
	}

	*a = m
	return nil
}

// TransitionAbi binds transition actions to their procedures.
type TransitionAbi map[TransitionAction]Procedure

// Encode writes the ABI as an ordered map.
func (a TransitionAbi) Encode(w io.Writer) error {
	for action := range a {
		if _, err := checkTransitionAction(action); err != nil {
			return err
		}
	}

	return strictenc.EncodeMap(
		w, a, strictenc.EncodeUint8Key[TransitionAction],
		encodeProcedure,
	)
}

// Decode reads an ABI written by Encode.
func (a *TransitionAbi) Decode(r io.Reader) error {
	m, err := strictenc.DecodeMap(
		r, decodeTransitionAction, decodeProcedure,
	)
	if err != nil {
		return err
	}

	*a = m
	return nil
}

func decodeGenesisAction(r io.Reader) (GenesisAction, error) {
	v, err := strictenc.DecodeUint8Key[GenesisAction](r)
	if err != nil {
		return 0, err
	}

	return checkGenesisAction(v)
}

func decodeTransitionAction(r io.Reader) (TransitionAction, error) {
	v, err := strictenc.DecodeUint8Key[TransitionAction](r)
	if err != nil {
		return 0, err
	}

	return checkTransitionAction(v)
}

func encodeProcedure(w io.Writer, p Procedure) error {
	return p.Encode(w)
}

func decodeProcedure(r io.Reader) (Procedure, error) {
	var p Procedure
	err := p.Decode(r)
	return p, err
}
