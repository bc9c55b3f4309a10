package phys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zpool/endian"
)

func TestDvaDecode(t *testing.T) {
	data := []byte{
		0x00, 0x12, 0x34, 0x56, 0x07, 0x00, 0x00, 0x08,
		0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
	}

	d := endian.NewDecoder(data, endian.Big)
	dva, err := DvaFromDecoder(d)
	require.NoError(t, err)
	require.Equal(t, Dva{
		Vdev:   0x123456,
		Grid:   7,
		Asize:  8,
		Offset: 0x10,
		IsGang: true,
	}, dva)

	// Re-encoding yields the same bytes.
	out := make([]byte, DvaLength)
	e := endian.NewEncoder(out, endian.Big)
	require.NoError(t, dva.ToEncoder(e))
	require.Equal(t, data, out)
}

func TestDvaEmpty(t *testing.T) {
	data := make([]byte, DvaLength)

	d := endian.NewDecoder(data, endian.Little)
	dva, err := DvaFromDecoder(d)
	require.NoError(t, err)
	require.True(t, dva.IsEmpty())
}

func TestDvaNonZeroPadding(t *testing.T) {
	data := make([]byte, DvaLength)
	data[0] = 0x01

	d := endian.NewDecoder(data, endian.Big)
	_, err := DvaFromDecoder(d)
	var padding *DvaNonZeroPaddingError
	require.ErrorAs(t, err, &padding)
}

func TestDvaEndianRoundTrip(t *testing.T) {
	dva := Dva{
		Vdev:   0xabcdef,
		Grid:   0x12,
		Asize:  0x654321,
		Offset: 0x123456789abcdef,
		IsGang: false,
	}

	for _, e := range []endian.Endian{endian.Big, endian.Little} {
		data := make([]byte, DvaLength)
		enc := endian.NewEncoder(data, e)
		require.NoError(t, dva.ToEncoder(enc))

		dec := endian.NewDecoder(data, e)
		decoded, err := DvaFromDecoder(dec)
		require.NoError(t, err)
		require.Equal(t, dva, decoded)
	}
}

func TestDvaEncodeValidation(t *testing.T) {
	e := endian.NewEncoder(make([]byte, DvaLength), endian.Big)

	err := Dva{Vdev: 1 << 24}.ToEncoder(e)
	var vdevErr *InvalidVdevError
	require.ErrorAs(t, err, &vdevErr)

	err = Dva{Asize: 1 << 24}.ToEncoder(e)
	var asizeErr *InvalidAsizeError
	require.ErrorAs(t, err, &asizeErr)

	err = Dva{Offset: 1 << 63}.ToEncoder(e)
	var offsetErr *InvalidOffsetError
	require.ErrorAs(t, err, &offsetErr)
}
