package strictenc

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type fieldID uint16

func encodeByte(w io.Writer, v uint8) error {
	return WriteUint8(w, v)
}

func decodeByte(r io.Reader) (uint8, error) {
	return ReadUint8(r)
}

// TestEncodeMapOrdering makes sure map entries are always written in
// ascending key order.
func TestEncodeMapOrdering(t *testing.T) {
	t.Parallel()

	m := map[fieldID]uint8{3: 0x33, 1: 0x11, 2: 0x22}

	var b bytes.Buffer
	err := EncodeMap(
		&b, m, EncodeUint16Key[fieldID], encodeByte,
	)
	require.NoError(t, err)

	expected := []byte{
		0x03, 0x00,
		0x01, 0x00, 0x11,
		0x02, 0x00, 0x22,
		0x03, 0x00, 0x33,
	}
	require.Equal(t, expected, b.Bytes())

	decoded, err := DecodeMap(
		bytes.NewReader(b.Bytes()), DecodeUint16Key[fieldID],
		decodeByte,
	)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

// TestDecodeMapNonCanonical tests that repeated or unordered map keys are
// rejected.
func TestDecodeMapNonCanonical(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data []byte
	}{{
		name: "descending keys",
		data: []byte{
			0x02, 0x00,
			0x02, 0x00, 0xaa,
			0x01, 0x00, 0xbb,
		},
	}, {
		name: "repeated key",
		data: []byte{
			0x02, 0x00,
			0x01, 0x00, 0xaa,
			0x01, 0x00, 0xbb,
		},
	}}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeMap(
				bytes.NewReader(tc.data),
				DecodeUint16Key[fieldID], decodeByte,
			)
			require.ErrorIs(t, err, ErrDataIntegrity)
		})
	}
}

// TestDecodeMapTruncated tests that a stream ending in the middle of a map is
// reported as an unexpected EOF.
func TestDecodeMapTruncated(t *testing.T) {
	t.Parallel()

	data := []byte{0x02, 0x00, 0x01, 0x00, 0xaa, 0x02}
	_, err := DecodeMap(
		bytes.NewReader(data), DecodeUint16Key[fieldID], decodeByte,
	)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

// TestBytes tests the length prefixed byte vector encoding.
func TestBytes(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	require.NoError(t, WriteBytes(&b, nil))
	require.Equal(t, []byte{0x00, 0x00}, b.Bytes())

	b.Reset()
	require.NoError(t, WriteBytes(&b, []byte{0xde, 0xad}))
	require.Equal(t, []byte{0x02, 0x00, 0xde, 0xad}, b.Bytes())

	read, err := ReadBytes(&b)
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad}, read)

	tooLarge := make([]byte, MaxItems+1)
	require.ErrorIs(t, WriteBytes(&b, tooLarge), ErrExceedMaxItems)
}

type twoBytes struct {
	a, b uint8
}

func (t *twoBytes) Encode(w io.Writer) error {
	if err := WriteUint8(w, t.a); err != nil {
		return err
	}
	return WriteUint8(w, t.b)
}

func (t *twoBytes) Decode(r io.Reader) error {
	var err error
	if t.a, err = ReadUint8(r); err != nil {
		return err
	}
	t.b, err = ReadUint8(r)
	return err
}

// TestDeserializeTrailingData makes sure left over bytes are an error.
func TestDeserializeTrailingData(t *testing.T) {
	t.Parallel()

	v := &twoBytes{a: 1, b: 2}
	data, err := Serialize(v)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, data)

	var decoded twoBytes
	require.NoError(t, Deserialize(data, &decoded))
	require.Equal(t, *v, decoded)

	err = Deserialize(append(data, 0x00), &decoded)
	require.ErrorIs(t, err, ErrDataNotEntirelyConsumed)
}

// TestIntegersLittleEndian checks the byte order of the integer primitives.
func TestIntegersLittleEndian(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	require.NoError(t, WriteUint16(&b, 0x0102))
	require.NoError(t, WriteUint32(&b, 0x03040506))
	require.Equal(t, []byte{0x02, 0x01, 0x06, 0x05, 0x04, 0x03}, b.Bytes())

	v16, err := ReadUint16(&b)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), v16)

	v32, err := ReadUint32(&b)
	require.NoError(t, err)
	require.Equal(t, uint32(0x03040506), v32)
}
