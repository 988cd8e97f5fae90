package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/lnpbp/lnpbp/strictenc"
)

// Unbounded is the maximum of an occurrence constraint that has no upper
// limit.
const Unbounded = math.MaxUint16

// OccurrencesKind is the strict encoding tag of an occurrence constraint.
type OccurrencesKind uint8

const (
	// OccursNoneOrOnce permits zero or one occurrence.
	OccursNoneOrOnce OccurrencesKind = 0x00

	// OccursOnce requires exactly one occurrence.
	OccursOnce OccurrencesKind = 0x01

	// OccursNoneOrUpTo permits zero up to the maximum occurrences.
	OccursNoneOrUpTo OccurrencesKind = 0xFE

	// OccursOnceOrUpTo requires at least one and at most the maximum
	// occurrences.
	OccursOnceOrUpTo OccurrencesKind = 0xFF
)

// String returns a human-readable string for the OccurrencesKind.
func (k OccurrencesKind) String() string {
	switch k {
	case OccursNoneOrOnce:
		return "NoneOrOnce"

	case OccursOnce:
		return "Once"

	case OccursNoneOrUpTo:
		return "NoneOrUpTo"

	case OccursOnceOrUpTo:
		return "OnceOrUpTo"

	default:
		return fmt.Sprintf("UnknownOccurrences(%d)", k)
	}
}

// parseOccurrencesKind is the inverse of OccurrencesKind.String.
func parseOccurrencesKind(s string) (OccurrencesKind, error) {
	for _, k := range []OccurrencesKind{
		OccursNoneOrOnce, OccursOnce, OccursNoneOrUpTo,
		OccursOnceOrUpTo,
	} {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unknown occurrences kind %q", s)
}

// Occurrences constrains how many times a metadata field or a seal type may
// appear.
type Occurrences struct {
	// Kind is the kind of constraint.
	Kind OccurrencesKind

	// UpTo is the maximum for the OccursNoneOrUpTo and OccursOnceOrUpTo
	// kinds. Unbounded means there is no limit.
	UpTo uint16
}

// NoneOrOnce returns a constraint permitting zero or one occurrence.
func NoneOrOnce() Occurrences {
	return Occurrences{Kind: OccursNoneOrOnce}
}

// Once returns a constraint requiring exactly one occurrence.
func Once() Occurrences {
	return Occurrences{Kind: OccursOnce}
}

// NoneOrUpTo returns a constraint permitting up to max occurrences.
func NoneOrUpTo(max uint16) Occurrences {
	return Occurrences{Kind: OccursNoneOrUpTo, UpTo: max}
}

// OnceOrUpTo returns a constraint requiring between one and max occurrences.
func OnceOrUpTo(max uint16) Occurrences {
	return Occurrences{Kind: OccursOnceOrUpTo, UpTo: max}
}

// Min returns the minimum number of occurrences.
func (o Occurrences) Min() uint16 {
	switch o.Kind {
	case OccursOnce, OccursOnceOrUpTo:
		return 1

	default:
		return 0
	}
}

// Max returns the maximum number of occurrences. Unbounded is returned for
// constraints without an upper limit.
func (o Occurrences) Max() uint16 {
	switch o.Kind {
	case OccursNoneOrOnce, OccursOnce:
		return 1

	default:
		return o.UpTo
	}
}

// IsUnbounded returns true if the constraint has no upper limit.
func (o Occurrences) IsUnbounded() bool {
	return o.Max() == Unbounded
}

// String returns a human-readable form of the constraint.
func (o Occurrences) String() string {
	switch o.Kind {
	case OccursNoneOrUpTo, OccursOnceOrUpTo:
		if o.IsUnbounded() {
			return fmt.Sprintf("%v(*)", o.Kind)
		}
		return fmt.Sprintf("%v(%d)", o.Kind, o.UpTo)

	default:
		return o.Kind.String()
	}
}

// validate makes sure the constraint can be satisfied at all.
func (o Occurrences) validate() error {
	switch o.Kind {
	case OccursNoneOrOnce, OccursOnce, OccursNoneOrUpTo:
		return nil

	case OccursOnceOrUpTo:
		if o.UpTo == 0 {
			return fmt.Errorf("%w: %v requires a maximum of at "+
				"least one", strictenc.ErrValueOutOfRange, o.Kind)
		}
		return nil

	default:
		return &strictenc.EnumValueNotKnownError{
			Enum:  "Occurrences",
			Value: uint8(o.Kind),
		}
	}
}

// Encode writes the strict encoding of the constraint: the kind tag,
// followed by the u16 maximum for the bounded kinds.
func (o Occurrences) Encode(w io.Writer) error {
	if err := o.validate(); err != nil {
		return err
	}

	if err := strictenc.WriteUint8(w, uint8(o.Kind)); err != nil {
		return err
	}

	switch o.Kind {
	case OccursNoneOrUpTo, OccursOnceOrUpTo:
		return strictenc.WriteUint16(w, o.UpTo)

	default:
		return nil
	}
}

// Decode reads a constraint written by Encode.
func (o *Occurrences) Decode(r io.Reader) error {
	tag, err := strictenc.ReadUint8(r)
	if err != nil {
		return err
	}

	decoded := Occurrences{Kind: OccurrencesKind(tag)}
	switch decoded.Kind {
	case OccursNoneOrUpTo, OccursOnceOrUpTo:
		decoded.UpTo, err = strictenc.ReadUint16(r)
		if err != nil {
			return err
		}
	}

	if err := decoded.validate(); err != nil {
		return err
	}

	*o = decoded
	return nil
}

// encodeOccurrences and decodeOccurrences adapt the methods to the map codec.
func encodeOccurrences(w io.Writer, o Occurrences) error {
	return o.Encode(w)
}

func decodeOccurrences(r io.Reader) (Occurrences, error) {
	var o Occurrences
	err := o.Decode(r)
	return o, err
}

type occurrencesJSON struct {
	Kind string  `json:"kind"`
	Max  *uint16 `json:"max,omitempty"`
}

// MarshalJSON encodes the constraint as {"kind": ..., "max": ...}. The max
// is omitted for unbounded and fixed constraints.
func (o Occurrences) MarshalJSON() ([]byte, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	j := occurrencesJSON{Kind: o.Kind.String()}
	if (o.Kind == OccursNoneOrUpTo || o.Kind == OccursOnceOrUpTo) &&
		!o.IsUnbounded() {

		upTo := o.UpTo
		j.Max = &upTo
	}

	return json.Marshal(j)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (o *Occurrences) UnmarshalJSON(b []byte) error {
	var j occurrencesJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	kind, err := parseOccurrencesKind(j.Kind)
	if err != nil {
		return err
	}

	decoded := Occurrences{Kind: kind}
	switch kind {
	case OccursNoneOrUpTo, OccursOnceOrUpTo:
		decoded.UpTo = Unbounded
		if j.Max != nil {
			decoded.UpTo = *j.Max
		}

	default:
		if j.Max != nil {
			return fmt.Errorf("%v takes no maximum", kind)
		}
	}

	if err := decoded.validate(); err != nil {
		return err
	}

	*o = decoded
	return nil
}
