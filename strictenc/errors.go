package strictenc

import (
	"errors"
	"fmt"
)

var (
	// ErrExceedMaxItems is returned when a collection holds more items
	// than can be represented by the u16 length prefix.
	ErrExceedMaxItems = errors.New("strict encoding: collection exceeds " +
		"maximum number of items")

	// ErrDataNotEntirelyConsumed is returned when a byte slice was
	// decoded successfully but bytes are left over.
	ErrDataNotEntirelyConsumed = errors.New("strict encoding: data were " +
		"not entirely consumed")

	// ErrDataIntegrity is returned when decoded data violate one of the
	// canonical encoding rules, for example map keys that are repeated or
	// not in ascending order.
	ErrDataIntegrity = errors.New("strict encoding: data integrity error")

	// ErrValueOutOfRange is returned when a decoded value is outside of
	// the range permitted for its type.
	ErrValueOutOfRange = errors.New("strict encoding: value out of range")
)

// UnsupportedDataStructureError is returned when the decoder encounters data
// that belong to a format version it can not interpret yet.
type UnsupportedDataStructureError struct {
	// Details is a human readable note on what is not supported.
	Details string
}

// NewUnsupportedDataStructureError creates a new error with the given note.
func NewUnsupportedDataStructureError(
	details string) *UnsupportedDataStructureError {

	return &UnsupportedDataStructureError{Details: details}
}

// Error returns the error message.
func (e *UnsupportedDataStructureError) Error() string {
	return fmt.Sprintf("strict encoding: unsupported data structure: %s",
		e.Details)
}

// EnumValueNotKnownError is returned when an enum tag read from the stream
// does not map to any known variant.
type EnumValueNotKnownError struct {
	// Enum is the name of the enum type being decoded.
	Enum string

	// Value is the unknown tag.
	Value uint8
}

// Error returns the error message.
func (e *EnumValueNotKnownError) Error() string {
	return fmt.Sprintf("strict encoding: unknown value %#02x for enum %s",
		e.Value, e.Enum)
}
