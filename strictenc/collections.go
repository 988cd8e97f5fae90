package strictenc

import (
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EncodeMap writes the map as a u16 count followed by each entry, key first,
// in ascending key order. The iteration order of the map has no influence on
// the result.
func EncodeMap[K constraints.Ordered, V any](w io.Writer, m map[K]V,
	encKey func(io.Writer, K) error,
	encVal func(io.Writer, V) error) error {

	if err := WriteLen(w, len(m)); err != nil {
		return err
	}

	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		if err := encKey(w, k); err != nil {
			return err
		}
		if err := encVal(w, m[k]); err != nil {
			return err
		}
	}

	return nil
}

// DecodeMap reads a map written by EncodeMap. Keys must appear in strictly
// ascending order, otherwise the encoding is not canonical and ErrDataIntegrity
// is returned.
func DecodeMap[K constraints.Ordered, V any](r io.Reader,
	decKey func(io.Reader) (K, error),
	decVal func(io.Reader) (V, error)) (map[K]V, error) {

	count, err := ReadLen(r)
	if err != nil {
		return nil, err
	}

	m := make(map[K]V, count)
	var prev K
	for i := 0; i < count; i++ {
		k, err := decKey(r)
		if err != nil {
			return nil, err
		}
		if i > 0 && k <= prev {
			return nil, fmt.Errorf("%w: map key %v follows %v",
				ErrDataIntegrity, k, prev)
		}

		v, err := decVal(r)
		if err != nil {
			return nil, err
		}

		m[k] = v
		prev = k
	}

	return m, nil
}

// EncodeUint8Key writes any byte sized key type.
func EncodeUint8Key[T ~uint8](w io.Writer, v T) error {
	return WriteUint8(w, uint8(v))
}

// DecodeUint8Key reads any byte sized key type.
func DecodeUint8Key[T ~uint8](r io.Reader) (T, error) {
	v, err := ReadUint8(r)
	return T(v), err
}

// EncodeUint16Key writes any u16 key type.
func EncodeUint16Key[T ~uint16](w io.Writer, v T) error {
	return WriteUint16(w, uint16(v))
}

// DecodeUint16Key reads any u16 key type.
func DecodeUint16Key[T ~uint16](r io.Reader) (T, error) {
	v, err := ReadUint16(r)
	return T(v), err
}
