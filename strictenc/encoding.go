package strictenc

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// MaxItems is the largest number of items a length prefixed collection may
// hold.
const MaxItems = math.MaxUint16

// Encoder is implemented by every type that has a strict binary encoding.
type Encoder interface {
	Encode(w io.Writer) error
}

// Decoder is implemented by every type that can be read back from its strict
// binary encoding.
type Decoder interface {
	Decode(r io.Reader) error
}

// Serialize returns the strict encoding of the given value.
func Serialize(e Encoder) ([]byte, error) {
	var b bytes.Buffer
	if err := e.Encode(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Deserialize decodes the value from the given bytes, making sure every byte
// is consumed.
func Deserialize(data []byte, d Decoder) error {
	r := bytes.NewReader(data)
	if err := d.Decode(r); err != nil {
		return err
	}

	if r.Len() != 0 {
		return ErrDataNotEntirelyConsumed
	}

	return nil
}

// WriteUint8 writes a single byte.
func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadUint8 reads a single byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

// WriteUint16 writes a little endian u16.
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadUint16 reads a little endian u16.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b[:]), nil
}

// WriteUint32 writes a little endian u32.
func WriteUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadUint32 reads a little endian u32.
func ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b[:]), nil
}

// WriteLen writes a collection length as u16, failing if it doesn't fit.
func WriteLen(w io.Writer, l int) error {
	if l > MaxItems {
		return ErrExceedMaxItems
	}

	return WriteUint16(w, uint16(l))
}

// ReadLen reads a u16 collection length.
func ReadLen(r io.Reader) (int, error) {
	l, err := ReadUint16(r)
	if err != nil {
		return 0, err
	}

	return int(l), nil
}

// WriteBytes writes a byte vector prefixed with its u16 length.
func WriteBytes(w io.Writer, b []byte) error {
	if err := WriteLen(w, len(b)); err != nil {
		return err
	}

	_, err := w.Write(b)
	return err
}

// ReadBytes reads a u16 length prefixed byte vector. An empty vector is
// returned as nil.
func ReadBytes(r io.Reader) ([]byte, error) {
	l, err := ReadLen(r)
	if err != nil {
		return nil, err
	}
	if l == 0 {
		return nil, nil
	}

	b := make([]byte, l)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}

	return b, nil
}
