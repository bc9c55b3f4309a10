package phys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zpool/endian"
)

func TestLabelLengths(t *testing.T) {
	require.Equal(t, 256*1024, LabelLength)
	require.Equal(t, 4*1024*1024, DvaBaseOffset)
}

func TestLabelOffsets(t *testing.T) {
	const size = 64 * 1024 * 1024

	offsets, err := LabelOffsets(size)
	require.NoError(t, err)
	require.Equal(t, [LabelCount]uint64{
		LabelLength,
		2 * LabelLength,
		size - 2*LabelLength,
		size - LabelLength,
	}, offsets)
}

func TestLabelOffsetsTooSmall(t *testing.T) {
	_, err := LabelOffsets(4*LabelLength - 1)
	var sizeErr *LabelInvalidSizeError
	require.ErrorAs(t, err, &sizeErr)
	require.Equal(t, uint64(4*LabelLength-1), sizeErr.Size)
}

func TestLabelDecodeEmpty(t *testing.T) {
	// An all-zero label: the blank decodes, the protected regions and
	// every uber block slot report empty magics independently.
	data := make([]byte, LabelLength)

	ld, err := LabelDecodeFromBytes(data, LabelLength)
	require.NoError(t, err)

	require.NoError(t, ld.BlankErr)
	require.Len(t, ld.Blank.Payload, BlankPayloadLength)
	require.Error(t, ld.BootHeaderErr)
	require.Error(t, ld.NvPairsErr)

	for _, slot := range ld.UberBlocks {
		require.Error(t, slot.Err)
		var empty *UberBlockEmptyLabelError
		require.ErrorAs(t, slot.Err, &empty)
	}
}

func TestLabelDecodeRegions(t *testing.T) {
	const offset = LabelLength // label 1

	data := make([]byte, LabelLength)

	// Seal the boot header and nv pairs regions.
	bootHeader := BootHeader{Payload: make([]byte, BootHeaderPayloadLength)}
	bootHeader.Payload[0] = 0x42
	require.NoError(t, bootHeader.ToBytes(
		data[BootHeaderOffset:BootHeaderOffset+BootHeaderLength],
		offset+BootHeaderOffset, endian.Big))

	nvPairs := NvPairs{Payload: make([]byte, NvPairsPayloadLength)}
	nvPairs.Payload[1] = 0x43
	require.NoError(t, nvPairs.ToBytes(
		data[NvPairsOffset:NvPairsOffset+NvPairsLength],
		offset+NvPairsOffset, endian.Big))

	// Write uber blocks into slots 0 and 127.
	ub := testUberBlock(endian.Big)
	for _, slot := range []int{0, 127} {
		start := BlankLength + BootHeaderLength + NvPairsLength + slot*UberBlockLength
		require.NoError(t, ub.ToBytes(
			data[start:start+UberBlockLength],
			offset+uint64(start)))
	}

	ld, err := LabelDecodeFromBytes(data, offset)
	require.NoError(t, err)

	require.NoError(t, ld.BlankErr)
	require.NoError(t, ld.BootHeaderErr)
	require.Equal(t, byte(0x42), ld.BootHeader.Payload[0])
	require.NoError(t, ld.NvPairsErr)
	require.Equal(t, byte(0x43), ld.NvPairs.Payload[1])

	require.NoError(t, ld.UberBlocks[0].Err)
	require.Equal(t, ub, ld.UberBlocks[0].UberBlock)
	require.NoError(t, ld.UberBlocks[127].Err)

	// The untouched slots stay independently empty.
	for i := 1; i < 127; i++ {
		require.Error(t, ld.UberBlocks[i].Err)
	}
}

func TestLabelDecodeWrongLength(t *testing.T) {
	_, err := LabelDecodeFromBytes(make([]byte, LabelLength-1), 0)
	require.Error(t, err)
}

func TestBootBlock(t *testing.T) {
	data := make([]byte, BootBlockLength)
	bb, err := BootBlockFromBytes(data)
	require.NoError(t, err)
	require.Len(t, bb.Payload, BootBlockLength)

	_, err = BootBlockFromBytes(data[:10])
	require.Error(t, err)
}

func TestBootHeaderRoundTrip(t *testing.T) {
	payload := make([]byte, BootHeaderPayloadLength)
	for i := range payload {
		payload[i] = byte(i)
	}

	data := make([]byte, BootHeaderLength)
	require.NoError(t, BootHeader{Payload: payload}.ToBytes(data, 0x2000, endian.Little))

	decoded, err := BootHeaderFromBytes(data, 0x2000)
	require.NoError(t, err)
	require.Equal(t, payload, decoded.Payload)

	// The wrong offset fails verification.
	_, err = BootHeaderFromBytes(data, 0x4000)
	require.Error(t, err)
}
