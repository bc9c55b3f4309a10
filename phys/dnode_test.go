package phys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zpool/checksum"
	"github.com/scigolib/zpool/endian"
)

func testDnode(tail DnodeTail, bonusLen uint16) *Dnode {
	return &Dnode{
		Dmu:                  DmuDirectoryContents,
		IndirectBlockShift:   14,
		Levels:               1,
		BonusType:            DmuZnode,
		Checksum:             checksum.Fletcher4,
		Compression:          CompressionLz4,
		UsedIsBytes:          true,
		DataBlockSizeSectors: 1,
		BonusLen:             bonusLen,
		MaxBlockID:           9,
		Used:                 512,
		Tail:                 tail,
	}
}

func encodeDnode(t *testing.T, dn *Dnode, e endian.Endian) []byte {
	t.Helper()
	data := make([]byte, DnodeLength)
	enc := endian.NewEncoder(data, e)
	require.NoError(t, dn.ToEncoder(enc))
	require.Equal(t, DnodeLength, enc.Len())
	return data
}

func decodeDnode(t *testing.T, data []byte, e endian.Endian) *Dnode {
	t.Helper()
	d := endian.NewDecoder(data, e)
	dn, err := DnodeFromDecoder(d)
	require.NoError(t, err)
	require.Equal(t, 0, d.Len())
	return dn
}

func TestDnodeTailVariantsRoundTrip(t *testing.T) {
	zeroPtr := func() BlockPointer {
		return &BlockPointerRegular{Endian: endian.Big}
	}
	bonus := func(n int) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i + 1)
		}
		return b
	}

	tests := []struct {
		name string
		tail DnodeTail
	}{
		{"zero", &DnodeTailZero{Bonus: bonus(448)}},
		{"one", &DnodeTailOne{Ptrs: [1]BlockPointer{zeroPtr()}, Bonus: bonus(320)}},
		{"two", &DnodeTailTwo{Ptrs: [2]BlockPointer{zeroPtr(), zeroPtr()}, Bonus: bonus(192)}},
		{"three", &DnodeTailThree{Ptrs: [3]BlockPointer{zeroPtr(), zeroPtr(), zeroPtr()}, Bonus: bonus(64)}},
		{"spill", &DnodeTailSpill{Ptrs: [1]BlockPointer{zeroPtr()}, Bonus: bonus(192), Spill: zeroPtr()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dn := testDnode(tt.tail, 16)
			data := encodeDnode(t, dn, endian.Big)
			decoded := decodeDnode(t, data, endian.Big)
			require.Equal(t, dn, decoded)

			// encode(decode(b)) == b.
			require.Equal(t, data, encodeDnode(t, decoded, endian.Big))
		})
	}
}

func TestDnodeSpillRequiresOnePointer(t *testing.T) {
	dn := testDnode(&DnodeTailZero{Bonus: make([]byte, 448)}, 0)
	data := encodeDnode(t, dn, endian.Big)

	// Force the spill flag with a pointer count of zero.
	data[7] |= dnodeFlagSpillBlockPointer

	d := endian.NewDecoder(data, endian.Big)
	_, err := DnodeFromDecoder(d)
	var spillErr *InvalidSpillBlockPointerCountError
	require.ErrorAs(t, err, &spillErr)
	require.Equal(t, uint8(0), spillErr.Count)
}

func TestDnodeSpillFlagRoundTrip(t *testing.T) {
	zeroPtr := &BlockPointerRegular{Endian: endian.Big}
	dn := testDnode(&DnodeTailSpill{
		Ptrs:  [1]BlockPointer{zeroPtr},
		Bonus: make([]byte, 192),
		Spill: &BlockPointerRegular{Endian: endian.Big},
	}, 0)

	data := encodeDnode(t, dn, endian.Big)
	require.Equal(t, uint8(1), data[3])
	require.NotZero(t, data[7]&dnodeFlagSpillBlockPointer)
}

func TestDnodeUnknownFlags(t *testing.T) {
	dn := testDnode(&DnodeTailZero{Bonus: make([]byte, 448)}, 0)
	data := encodeDnode(t, dn, endian.Big)
	data[7] |= 0x10

	d := endian.NewDecoder(data, endian.Big)
	_, err := DnodeFromDecoder(d)
	var flagsErr *DnodeInvalidFlagsError
	require.ErrorAs(t, err, &flagsErr)
}

func TestDnodeInvalidPointerCount(t *testing.T) {
	dn := testDnode(&DnodeTailZero{Bonus: make([]byte, 448)}, 0)
	data := encodeDnode(t, dn, endian.Big)
	data[3] = 4

	d := endian.NewDecoder(data, endian.Big)
	_, err := DnodeFromDecoder(d)
	var countErr *InvalidBlockPointerCountError
	require.ErrorAs(t, err, &countErr)
	require.Equal(t, uint8(4), countErr.Count)
}

func TestDnodeBonusLength(t *testing.T) {
	// 65 bytes of bonus cannot fit in the three-pointer tail.
	zeroPtr := func() BlockPointer { return &BlockPointerRegular{Endian: endian.Big} }
	dn := testDnode(&DnodeTailThree{
		Ptrs:  [3]BlockPointer{zeroPtr(), zeroPtr(), zeroPtr()},
		Bonus: make([]byte, 64),
	}, 64)
	data := encodeDnode(t, dn, endian.Big)

	decoded := decodeDnode(t, data, endian.Big)
	require.Len(t, decoded.Bonus(), 64)

	dn.BonusLen = 65
	e := endian.NewEncoder(make([]byte, DnodeLength), endian.Big)
	err := dn.ToEncoder(e)
	var bonusErr *InvalidBonusLengthError
	require.ErrorAs(t, err, &bonusErr)

	// The same over-long length on disk is rejected on decode.
	bad := make([]byte, DnodeLength)
	copy(bad, data)
	enc := endian.NewEncoder(bad[10:12], endian.Big)
	require.NoError(t, enc.PutUint16(65))
	d := endian.NewDecoder(bad, endian.Big)
	_, err = DnodeFromDecoder(d)
	require.ErrorAs(t, err, &bonusErr)
}

func TestDnodeAccessors(t *testing.T) {
	ptr := &BlockPointerRegular{Endian: endian.Little}
	dn := testDnode(&DnodeTailOne{Ptrs: [1]BlockPointer{ptr}, Bonus: make([]byte, 320)}, 8)

	require.Len(t, dn.Pointers(), 1)
	require.Len(t, dn.Bonus(), 8)

	empty := EmptyDnode()
	require.Empty(t, empty.Pointers())
	require.Empty(t, empty.Bonus())
}

func TestDnodeNonZeroHeaderPadding(t *testing.T) {
	dn := testDnode(&DnodeTailZero{Bonus: make([]byte, 448)}, 0)
	data := encodeDnode(t, dn, endian.Big)
	data[13] = 0xff // inside the 3-byte header padding

	d := endian.NewDecoder(data, endian.Big)
	_, err := DnodeFromDecoder(d)
	var padding *endian.NonZeroPaddingError
	require.ErrorAs(t, err, &padding)
}
