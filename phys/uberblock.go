package phys

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/scigolib/zpool/checksum"
	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
)

const (
	// UberBlockLength is the byte length of an encoded UberBlock (1024).
	UberBlockLength = 1024

	// UberBlockMagic is the magic value of an encoded UberBlock. Its byte
	// order self-identifies the endian of the block.
	UberBlockMagic uint64 = 0x0000000000bab10c

	// UberBlockMmpMagic is the magic value of an active MMP record.
	UberBlockMmpMagic uint64 = 0x00000000a11cea11

	uberBlockPaddingLength = 776
)

// UberBlockMmp is the multi-modifier protection triple of an UberBlock.
// A nil UberBlockMmp on the block means MMP is disabled (all three words
// zero on disk).
type UberBlockMmp struct {
	Delay  uint64
	Config uint64
}

// UberBlock is the pool entry point: the root block pointer plus transaction
// metadata, sealed by a label checksum tail.
//
// C reference: struct uberblock.
type UberBlock struct {
	Endian          endian.Endian
	Version         uint64
	Txg             uint64
	GuidSum         uint64
	Timestamp       uint64
	Ptr             BlockPointer
	SoftwareVersion uint64
	Mmp             *UberBlockMmp
	CheckpointTxg   uint64
}

// UberBlockFromBytes decodes an UberBlock from a 1024-byte slot, first
// verifying its label checksum against the slot's byte offset within the
// vdev. A never-written slot yields UberBlockEmptyLabelError.
func UberBlockFromBytes(data []byte, offset uint64) (*UberBlock, error) {
	if len(data) != UberBlockLength {
		return nil, &endian.EndOfInputError{Offset: 0, Length: len(data), Count: UberBlockLength}
	}

	if err := checksum.LabelVerify(data, offset); err != nil {
		var empty *checksum.EmptyMagicError
		if errors.As(err, &empty) {
			return nil, &UberBlockEmptyLabelError{}
		}
		return nil, utils.WrapError("uber block label verify failed", err)
	}

	d, err := endian.NewDecoderFromMagic(data, UberBlockMagic)
	if err != nil {
		var magicErr *endian.InvalidMagicError
		if errors.As(err, &magicErr) {
			if binary.NativeEndian.Uint64(magicErr.Actual[:]) == 0 {
				return nil, &UberBlockEmptyMagicError{}
			}
		}
		return nil, utils.WrapError("uber block magic decode failed", err)
	}

	ub := UberBlock{Endian: d.Endian()}

	if ub.Version, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ub.Txg, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ub.GuidSum, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ub.Timestamp, err = d.Uint64(); err != nil {
		return nil, err
	}

	if ub.Ptr, err = BlockPointerFromDecoder(d); err != nil {
		return nil, utils.WrapError("uber block pointer decode failed", err)
	}

	if ub.SoftwareVersion, err = d.Uint64(); err != nil {
		return nil, err
	}

	mmpMagic, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	mmpDelay, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	mmpConfig, err := d.Uint64()
	if err != nil {
		return nil, err
	}

	switch mmpMagic {
	case 0:
		if mmpDelay != 0 || mmpConfig != 0 {
			return nil, &NonZeroMmpValuesError{Delay: mmpDelay, Config: mmpConfig}
		}
	case UberBlockMmpMagic:
		ub.Mmp = &UberBlockMmp{Delay: mmpDelay, Config: mmpConfig}
	default:
		return nil, &InvalidMmpMagicError{Magic: mmpMagic}
	}

	if ub.CheckpointTxg, err = d.Uint64(); err != nil {
		return nil, err
	}

	// The rest of the slot up to the checksum tail is all zeroes.
	if err := d.SkipZeroPadding(uberBlockPaddingLength); err != nil {
		return nil, err
	}

	return &ub, nil
}

// ToBytes encodes the UberBlock into a 1024-byte slot in its own byte order
// and seals it with a label checksum computed against the slot's byte offset
// within the vdev.
func (ub *UberBlock) ToBytes(data []byte, offset uint64) error {
	if len(data) != UberBlockLength {
		return &endian.EndOfOutputError{Offset: 0, Length: len(data), Count: UberBlockLength}
	}

	e := endian.NewEncoder(data, ub.Endian)

	if err := e.PutUint64(UberBlockMagic); err != nil {
		return err
	}
	for _, v := range []uint64{ub.Version, ub.Txg, ub.GuidSum, ub.Timestamp} {
		if err := e.PutUint64(v); err != nil {
			return err
		}
	}

	if err := BlockPointerToEncoder(ub.Ptr, e); err != nil {
		return err
	}

	if err := e.PutUint64(ub.SoftwareVersion); err != nil {
		return err
	}

	var mmpMagic, mmpDelay, mmpConfig uint64
	if ub.Mmp != nil {
		mmpMagic = UberBlockMmpMagic
		mmpDelay = ub.Mmp.Delay
		mmpConfig = ub.Mmp.Config
	}
	for _, v := range []uint64{mmpMagic, mmpDelay, mmpConfig, ub.CheckpointTxg} {
		if err := e.PutUint64(v); err != nil {
			return err
		}
	}

	if err := e.PutZeroPadding(uberBlockPaddingLength); err != nil {
		return err
	}

	return checksum.LabelChecksum(data, offset, ub.Endian)
}

// UberBlockEmptyLabelError reports an uber block slot whose label checksum
// tail was never written.
type UberBlockEmptyLabelError struct{}

// Error implements the error interface.
func (e *UberBlockEmptyLabelError) Error() string {
	return "phys: uber block label magic is empty"
}

// UberBlockEmptyMagicError reports an uber block whose own magic is zero.
type UberBlockEmptyMagicError struct{}

// Error implements the error interface.
func (e *UberBlockEmptyMagicError) Error() string {
	return "phys: uber block magic is empty"
}

// InvalidMmpMagicError reports an MMP magic that is neither zero nor the
// MMP magic value.
type InvalidMmpMagicError struct {
	Magic uint64
}

// Error implements the error interface.
func (e *InvalidMmpMagicError) Error() string {
	return fmt.Sprintf("phys: invalid mmp magic 0x%016x", e.Magic)
}

// NonZeroMmpValuesError reports non-zero MMP values with a zero MMP magic.
type NonZeroMmpValuesError struct {
	Delay  uint64
	Config uint64
}

// Error implements the error interface.
func (e *NonZeroMmpValuesError) Error() string {
	return fmt.Sprintf("phys: non-zero mmp values delay 0x%016x config 0x%016x for mmp magic 0",
		e.Delay, e.Config)
}
