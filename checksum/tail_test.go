package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zpool/endian"
)

func TestTailRoundTrip(t *testing.T) {
	for _, e := range []endian.Endian{endian.Big, endian.Little} {
		tail := Tail{
			Endian: e,
			Value: Value{Words: [4]uint64{
				0x1111111111111111,
				0x2222222222222222,
				0x3333333333333333,
				0x4444444444444444,
			}},
		}

		data := make([]byte, TailLength)
		require.NoError(t, tail.ToBytes(data))

		decoded, err := TailFromBytes(data)
		require.NoError(t, err)
		require.Equal(t, e, decoded.Endian)
		require.Equal(t, tail.Value, decoded.Value)
	}
}

func TestTailSelfDescribingEndian(t *testing.T) {
	// A tail written big-endian must not decode as a little-endian magic.
	tail := Tail{Endian: endian.Big}
	data := make([]byte, TailLength)
	require.NoError(t, tail.ToBytes(data))

	d := endian.NewDecoder(data, endian.Little)
	magic, err := d.Uint64()
	require.NoError(t, err)
	require.NotEqual(t, TailMagic, magic)

	decoded, err := TailFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, endian.Big, decoded.Endian)
}

func TestTailMagicBytes(t *testing.T) {
	tail := Tail{Endian: endian.Big}
	data := make([]byte, TailLength)
	require.NoError(t, tail.ToBytes(data))
	require.Equal(t, []byte{0x02, 0x10, 0xda, 0x7a, 0xb1, 0x0c, 0x7a, 0x11}, data[:8])

	tail.Endian = endian.Little
	require.NoError(t, tail.ToBytes(data))
	require.Equal(t, []byte{0x11, 0x7a, 0x0c, 0xb1, 0x7a, 0xda, 0x10, 0x02}, data[:8])
}

func TestTailInvalidMagic(t *testing.T) {
	data := make([]byte, TailLength)
	data[0] = 0xde
	data[1] = 0xad

	_, err := TailFromBytes(data)
	var magicErr *endian.InvalidMagicError
	require.ErrorAs(t, err, &magicErr)
}
