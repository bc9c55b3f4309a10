package phys

import (
	"fmt"

	"github.com/scigolib/zpool/checksum"
	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
)

// Label region byte lengths and offsets. Four labels live on each vdev:
// labels 0 and 1 at the head of the device, labels 2 and 3 at the tail.
// The boot block sits between labels 1 and 2.
const (
	BlankLength      = 8 * 1024
	BootHeaderLength = 8 * 1024
	NvPairsLength    = 112 * 1024

	// LabelLength is the byte length of one label (256 KiB).
	LabelLength = BlankLength + BootHeaderLength + NvPairsLength +
		LabelUberCount*UberBlockLength

	// LabelCount is the number of labels on a vdev.
	LabelCount = 4

	// LabelUberCount is the number of uber block slots in a label.
	LabelUberCount = 128

	BlankOffset      = 0
	BootHeaderOffset = BlankLength
	NvPairsOffset    = BootHeaderOffset + BootHeaderLength
	uberBlocksOffset = NvPairsOffset + NvPairsLength

	// BootBlockLength is the byte length of the boot block (3.5 MiB).
	BootBlockLength = 3584 * 1024

	// BootBlockOffset is the byte offset of the boot block on a vdev.
	BootBlockOffset = 2 * LabelLength

	// DvaBaseOffset is the byte offset of the start of a vdev's
	// allocatable area, to which DVA offsets are relative: two labels
	// plus the boot block.
	DvaBaseOffset = 2*LabelLength + BootBlockLength
)

// Blank is the unprotected first region of a label.
type Blank struct {
	Payload []byte
}

// BlankPayloadLength is the byte length of the Blank payload.
const BlankPayloadLength = BlankLength - checksum.TailLength

// BlankFromBytes decodes a Blank. The payload aliases data.
func BlankFromBytes(data []byte) (Blank, error) {
	if len(data) != BlankLength {
		return Blank{}, &endian.EndOfInputError{Offset: 0, Length: len(data), Count: BlankLength}
	}
	return Blank{Payload: data[:BlankPayloadLength]}, nil
}

// BootHeader is the checksum-tail protected boot header region of a label.
type BootHeader struct {
	Payload []byte
}

// BootHeaderPayloadLength is the byte length of the BootHeader payload.
const BootHeaderPayloadLength = BootHeaderLength - checksum.TailLength

// BootHeaderFromBytes decodes a BootHeader, verifying its label checksum
// against the region's byte offset within the vdev. The payload aliases
// data.
func BootHeaderFromBytes(data []byte, offset uint64) (BootHeader, error) {
	if len(data) != BootHeaderLength {
		return BootHeader{}, &endian.EndOfInputError{Offset: 0, Length: len(data), Count: BootHeaderLength}
	}
	if err := checksum.LabelVerify(data, offset); err != nil {
		return BootHeader{}, utils.WrapError("boot header label verify failed", err)
	}
	return BootHeader{Payload: data[:BootHeaderPayloadLength]}, nil
}

// ToBytes encodes the BootHeader and seals it with a label checksum.
func (b BootHeader) ToBytes(data []byte, offset uint64, e endian.Endian) error {
	if len(data) != BootHeaderLength {
		return &endian.EndOfOutputError{Offset: 0, Length: len(data), Count: BootHeaderLength}
	}
	if len(b.Payload) != BootHeaderPayloadLength {
		return &endian.EndOfOutputError{Offset: 0, Length: len(b.Payload), Count: BootHeaderPayloadLength}
	}
	copy(data, b.Payload)
	return checksum.LabelChecksum(data, offset, e)
}

// NvPairs is the checksum-tail protected name/value region of a label,
// holding the pool configuration.
type NvPairs struct {
	Payload []byte
}

// NvPairsPayloadLength is the byte length of the NvPairs payload.
const NvPairsPayloadLength = NvPairsLength - checksum.TailLength

// NvPairsFromBytes decodes an NvPairs region, verifying its label checksum
// against the region's byte offset within the vdev. The payload aliases
// data.
func NvPairsFromBytes(data []byte, offset uint64) (NvPairs, error) {
	if len(data) != NvPairsLength {
		return NvPairs{}, &endian.EndOfInputError{Offset: 0, Length: len(data), Count: NvPairsLength}
	}
	if err := checksum.LabelVerify(data, offset); err != nil {
		return NvPairs{}, utils.WrapError("nv pairs label verify failed", err)
	}
	return NvPairs{Payload: data[:NvPairsPayloadLength]}, nil
}

// ToBytes encodes the NvPairs region and seals it with a label checksum.
func (n NvPairs) ToBytes(data []byte, offset uint64, e endian.Endian) error {
	if len(data) != NvPairsLength {
		return &endian.EndOfOutputError{Offset: 0, Length: len(data), Count: NvPairsLength}
	}
	if len(n.Payload) != NvPairsPayloadLength {
		return &endian.EndOfOutputError{Offset: 0, Length: len(n.Payload), Count: NvPairsPayloadLength}
	}
	copy(data, n.Payload)
	return checksum.LabelChecksum(data, offset, e)
}

// BootBlock is the opaque 3.5 MiB region between labels 1 and 2.
type BootBlock struct {
	Payload []byte
}

// BootBlockFromBytes decodes a BootBlock. The payload aliases data.
func BootBlockFromBytes(data []byte) (BootBlock, error) {
	if len(data) != BootBlockLength {
		return BootBlock{}, &endian.EndOfInputError{Offset: 0, Length: len(data), Count: BootBlockLength}
	}
	return BootBlock{Payload: data}, nil
}

// LabelOffsets returns four label offset values for a vdev of the given
// size: {LabelLength, 2*LabelLength, vdevSize-2*LabelLength,
// vdevSize-LabelLength}. The last two are the start offsets of labels 2 and
// 3; the first two are the end offsets of labels 0 and 1, which start at 0
// and LabelLength.
func LabelOffsets(vdevSize uint64) ([LabelCount]uint64, error) {
	if vdevSize < LabelCount*LabelLength {
		return [LabelCount]uint64{}, &LabelInvalidSizeError{Size: vdevSize}
	}
	return [LabelCount]uint64{
		LabelLength,
		2 * LabelLength,
		vdevSize - 2*LabelLength,
		vdevSize - LabelLength,
	}, nil
}

// UberBlockSlot is the decode result of one of the 128 uber block slots of a
// label. Losing some slots is a normal steady state, so each slot carries
// its own error.
type UberBlockSlot struct {
	UberBlock *UberBlock
	Err       error
}

// LabelDecode holds the decoded regions of one label. Region failures are
// captured per region rather than failing the label as a whole.
type LabelDecode struct {
	Blank         Blank
	BlankErr      error
	BootHeader    BootHeader
	BootHeaderErr error
	NvPairs       NvPairs
	NvPairsErr    error
	UberBlocks    [LabelUberCount]UberBlockSlot
}

// LabelDecodeFromBytes splits a 256 KiB label and decodes each sub-region.
// The offset is the byte offset within the vdev at which the label starts.
func LabelDecodeFromBytes(data []byte, offset uint64) (*LabelDecode, error) {
	if len(data) != LabelLength {
		return nil, &endian.EndOfInputError{Offset: 0, Length: len(data), Count: LabelLength}
	}

	var ld LabelDecode

	ld.Blank, ld.BlankErr = BlankFromBytes(data[BlankOffset : BlankOffset+BlankLength])
	ld.BootHeader, ld.BootHeaderErr = BootHeaderFromBytes(
		data[BootHeaderOffset:BootHeaderOffset+BootHeaderLength],
		offset+BootHeaderOffset,
	)
	ld.NvPairs, ld.NvPairsErr = NvPairsFromBytes(
		data[NvPairsOffset:NvPairsOffset+NvPairsLength],
		offset+NvPairsOffset,
	)

	for i := range ld.UberBlocks {
		start := uberBlocksOffset + i*UberBlockLength
		ub, err := UberBlockFromBytes(
			data[start:start+UberBlockLength],
			offset+uint64(start),
		)
		ld.UberBlocks[i] = UberBlockSlot{UberBlock: ub, Err: err}
	}

	return &ld, nil
}

// LabelInvalidSizeError reports a vdev too small to hold four labels.
type LabelInvalidSizeError struct {
	Size uint64
}

// Error implements the error interface.
func (e *LabelInvalidSizeError) Error() string {
	return fmt.Sprintf("phys: vdev size %d is too small for four labels", e.Size)
}
