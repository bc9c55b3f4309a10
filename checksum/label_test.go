package checksum

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zpool/endian"
)

func TestLabelChecksumRoundTrip(t *testing.T) {
	data := make([]byte, 8192)
	const offset = 0x20000

	require.NoError(t, LabelChecksum(data, offset, endian.Big))

	// The magic lands just before the four checksum words.
	require.Equal(t,
		[]byte{0x02, 0x10, 0xda, 0x7a, 0xb1, 0x0c, 0x7a, 0x11},
		data[8192-TailLength:8192-ValueLength])

	require.NoError(t, LabelVerify(data, offset))
}

func TestLabelChecksumLittleEndian(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data[:900] {
		data[i] = byte(i)
	}

	require.NoError(t, LabelChecksum(data, 0x4000, endian.Little))
	require.NoError(t, LabelVerify(data, 0x4000))
}

func TestLabelVerifyOffsetSalt(t *testing.T) {
	data := make([]byte, 8192)
	require.NoError(t, LabelChecksum(data, 0x20000, endian.Big))

	// A different offset must not verify.
	err := LabelVerify(data, 0x20001)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestLabelVerifyCorruption(t *testing.T) {
	data := make([]byte, 8192)
	require.NoError(t, LabelChecksum(data, 0x20000, endian.Big))

	data[100] ^= 0x01
	err := LabelVerify(data, 0x20000)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestLabelVerifyEmptyMagic(t *testing.T) {
	// A never-written region is distinguishable from corruption.
	data := make([]byte, 1024)
	err := LabelVerify(data, 0)
	var empty *EmptyMagicError
	require.ErrorAs(t, err, &empty)
}

func TestLabelVerifyGarbageMagic(t *testing.T) {
	data := make([]byte, 1024)
	data[1024-TailLength] = 0xde
	err := LabelVerify(data, 0)

	var empty *EmptyMagicError
	require.False(t, errors.As(err, &empty))

	var magicErr *endian.InvalidMagicError
	require.ErrorAs(t, err, &magicErr)
}

func TestLabelChecksumTooShort(t *testing.T) {
	data := make([]byte, TailLength-1)

	err := LabelChecksum(data, 0, endian.Big)
	var invalid *LabelInvalidLengthError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, TailLength-1, invalid.Length)

	err = LabelVerify(data, 0)
	require.ErrorAs(t, err, &invalid)
}
