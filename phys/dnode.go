package phys

import (
	"fmt"

	"github.com/scigolib/zpool/checksum"
	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
)

// DnodeLength is the byte length of an encoded Dnode (512).
const DnodeLength = 512

// Dnode flag bits. The semantics of the two accounting bits are not
// documented upstream; they are round-tripped and never interpreted here.
const (
	dnodeFlagUsedBytes               = 1 << 0
	dnodeFlagUserUsedAccounted       = 1 << 1
	dnodeFlagSpillBlockPointer       = 1 << 2
	dnodeFlagUserObjectUsedAccounted = 1 << 3

	dnodeFlagAll = dnodeFlagUsedBytes |
		dnodeFlagUserUsedAccounted |
		dnodeFlagSpillBlockPointer |
		dnodeFlagUserObjectUsedAccounted
)

// Dnode is the 512-byte descriptor of a DMU object: a fixed 64-byte header
// followed by a 448-byte tail whose shape is chosen by the header's block
// pointer count and spill flag.
//
// C reference: typedef struct dnode_phys dnode_phys_t.
type Dnode struct {
	Dmu                     DmuType
	IndirectBlockShift      uint8
	Levels                  uint8
	BonusType               DmuType
	Checksum                checksum.Type
	Compression             CompressionType
	UsedIsBytes             bool
	UserUsedAccounted       bool
	UserObjectUsedAccounted bool
	DataBlockSizeSectors    uint16
	BonusLen                uint16
	ExtraSlots              uint8
	MaxBlockID              uint64
	Used                    uint64
	Tail                    DnodeTail
}

// DnodeTail is one of the five tail shapes of a Dnode. Bonus slices hold the
// full bonus slot; the meaningful prefix is BonusLen bytes.
type DnodeTail interface {
	isDnodeTail()

	// bonusCapacity returns the byte capacity of the tail's bonus slot.
	bonusCapacity() int
}

// DnodeTailZero is a tail with no block pointers and a 448-byte bonus slot.
type DnodeTailZero struct {
	Bonus []byte
}

// DnodeTailOne is a tail with one block pointer and a 320-byte bonus slot.
type DnodeTailOne struct {
	Ptrs  [1]BlockPointer
	Bonus []byte
}

// DnodeTailTwo is a tail with two block pointers and a 192-byte bonus slot.
type DnodeTailTwo struct {
	Ptrs  [2]BlockPointer
	Bonus []byte
}

// DnodeTailThree is a tail with three block pointers and a 64-byte bonus
// slot.
type DnodeTailThree struct {
	Ptrs  [3]BlockPointer
	Bonus []byte
}

// DnodeTailSpill is a tail with one block pointer, a 192-byte bonus slot,
// and a spill block pointer.
type DnodeTailSpill struct {
	Ptrs  [1]BlockPointer
	Bonus []byte
	Spill BlockPointer
}

func (*DnodeTailZero) isDnodeTail()  {}
func (*DnodeTailOne) isDnodeTail()   {}
func (*DnodeTailTwo) isDnodeTail()   {}
func (*DnodeTailThree) isDnodeTail() {}
func (*DnodeTailSpill) isDnodeTail() {}

func (*DnodeTailZero) bonusCapacity() int  { return 448 }
func (*DnodeTailOne) bonusCapacity() int   { return 320 }
func (*DnodeTailTwo) bonusCapacity() int   { return 192 }
func (*DnodeTailThree) bonusCapacity() int { return 64 }
func (*DnodeTailSpill) bonusCapacity() int { return 192 }

// DnodeFromDecoder decodes a Dnode.
func DnodeFromDecoder(d *endian.Decoder) (*Dnode, error) {
	var dn Dnode

	dmu, err := d.Uint8()
	if err != nil {
		return nil, err
	}
	if dn.Dmu, err = DmuTypeFromValue(dmu); err != nil {
		return nil, err
	}

	if dn.IndirectBlockShift, err = d.Uint8(); err != nil {
		return nil, err
	}
	if dn.Levels, err = d.Uint8(); err != nil {
		return nil, err
	}

	pointerCount, err := d.Uint8()
	if err != nil {
		return nil, err
	}

	bonusType, err := d.Uint8()
	if err != nil {
		return nil, err
	}
	if dn.BonusType, err = DmuTypeFromValue(bonusType); err != nil {
		return nil, err
	}

	checksumType, err := d.Uint8()
	if err != nil {
		return nil, err
	}
	if dn.Checksum, err = checksum.TypeFromValue(checksumType); err != nil {
		return nil, err
	}

	compressionType, err := d.Uint8()
	if err != nil {
		return nil, err
	}
	if dn.Compression, err = CompressionTypeFromValue(compressionType); err != nil {
		return nil, err
	}

	flags, err := d.Uint8()
	if err != nil {
		return nil, err
	}
	if flags&^dnodeFlagAll != 0 {
		return nil, &DnodeInvalidFlagsError{Flags: flags}
	}
	dn.UsedIsBytes = flags&dnodeFlagUsedBytes != 0
	dn.UserUsedAccounted = flags&dnodeFlagUserUsedAccounted != 0
	dn.UserObjectUsedAccounted = flags&dnodeFlagUserObjectUsedAccounted != 0

	spill := flags&dnodeFlagSpillBlockPointer != 0
	if spill && pointerCount != 1 {
		return nil, &InvalidSpillBlockPointerCountError{Count: pointerCount}
	}

	if dn.DataBlockSizeSectors, err = d.Uint16(); err != nil {
		return nil, err
	}
	if dn.BonusLen, err = d.Uint16(); err != nil {
		return nil, err
	}
	if dn.ExtraSlots, err = d.Uint8(); err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(3); err != nil {
		return nil, err
	}

	if dn.MaxBlockID, err = d.Uint64(); err != nil {
		return nil, err
	}
	if dn.Used, err = d.Uint64(); err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(32); err != nil {
		return nil, err
	}

	if dn.Tail, err = dnodeTailFromDecoder(d, pointerCount, spill); err != nil {
		return nil, err
	}

	if int(dn.BonusLen) > dn.Tail.bonusCapacity() {
		return nil, &InvalidBonusLengthError{Length: dn.BonusLen}
	}

	return &dn, nil
}

func dnodeTailFromDecoder(d *endian.Decoder, pointerCount uint8, spill bool) (DnodeTail, error) {
	ptrs := func(n int) ([]BlockPointer, error) {
		out := make([]BlockPointer, n)
		for i := range out {
			ptr, err := BlockPointerFromDecoder(d)
			if err != nil {
				return nil, utils.WrapError("dnode block pointer decode failed", err)
			}
			out[i] = ptr
		}
		return out, nil
	}

	if spill {
		p, err := ptrs(1)
		if err != nil {
			return nil, err
		}
		bonus, err := d.Bytes(192)
		if err != nil {
			return nil, err
		}
		spillPtr, err := BlockPointerFromDecoder(d)
		if err != nil {
			return nil, utils.WrapError("dnode spill block pointer decode failed", err)
		}
		return &DnodeTailSpill{Ptrs: [1]BlockPointer{p[0]}, Bonus: bonus, Spill: spillPtr}, nil
	}

	switch pointerCount {
	case 0:
		bonus, err := d.Bytes(448)
		if err != nil {
			return nil, err
		}
		return &DnodeTailZero{Bonus: bonus}, nil
	case 1:
		p, err := ptrs(1)
		if err != nil {
			return nil, err
		}
		bonus, err := d.Bytes(320)
		if err != nil {
			return nil, err
		}
		return &DnodeTailOne{Ptrs: [1]BlockPointer{p[0]}, Bonus: bonus}, nil
	case 2:
		p, err := ptrs(2)
		if err != nil {
			return nil, err
		}
		bonus, err := d.Bytes(192)
		if err != nil {
			return nil, err
		}
		return &DnodeTailTwo{Ptrs: [2]BlockPointer{p[0], p[1]}, Bonus: bonus}, nil
	case 3:
		p, err := ptrs(3)
		if err != nil {
			return nil, err
		}
		bonus, err := d.Bytes(64)
		if err != nil {
			return nil, err
		}
		return &DnodeTailThree{Ptrs: [3]BlockPointer{p[0], p[1], p[2]}, Bonus: bonus}, nil
	default:
		return nil, &InvalidBlockPointerCountError{Count: pointerCount}
	}
}

// ToEncoder encodes the Dnode. The pointer count and spill flag are derived
// from the tail variant.
func (dn *Dnode) ToEncoder(e *endian.Encoder) error {
	if dn.Tail == nil {
		return &InvalidBlockPointerCountError{Count: 0}
	}
	if int(dn.BonusLen) > dn.Tail.bonusCapacity() {
		return &InvalidBonusLengthError{Length: dn.BonusLen}
	}

	var pointerCount uint8
	var spill bool
	switch dn.Tail.(type) {
	case *DnodeTailZero:
		pointerCount = 0
	case *DnodeTailOne:
		pointerCount = 1
	case *DnodeTailTwo:
		pointerCount = 2
	case *DnodeTailThree:
		pointerCount = 3
	case *DnodeTailSpill:
		pointerCount = 1
		spill = true
	}

	var flags uint8
	if dn.UsedIsBytes {
		flags |= dnodeFlagUsedBytes
	}
	if dn.UserUsedAccounted {
		flags |= dnodeFlagUserUsedAccounted
	}
	if dn.UserObjectUsedAccounted {
		flags |= dnodeFlagUserObjectUsedAccounted
	}
	if spill {
		flags |= dnodeFlagSpillBlockPointer
	}

	for _, v := range []uint8{
		uint8(dn.Dmu), dn.IndirectBlockShift, dn.Levels, pointerCount,
		uint8(dn.BonusType), uint8(dn.Checksum), uint8(dn.Compression), flags,
	} {
		if err := e.PutUint8(v); err != nil {
			return err
		}
	}

	if err := e.PutUint16(dn.DataBlockSizeSectors); err != nil {
		return err
	}
	if err := e.PutUint16(dn.BonusLen); err != nil {
		return err
	}
	if err := e.PutUint8(dn.ExtraSlots); err != nil {
		return err
	}
	if err := e.PutZeroPadding(3); err != nil {
		return err
	}
	if err := e.PutUint64(dn.MaxBlockID); err != nil {
		return err
	}
	if err := e.PutUint64(dn.Used); err != nil {
		return err
	}
	if err := e.PutZeroPadding(32); err != nil {
		return err
	}

	return dnodeTailToEncoder(dn.Tail, e)
}

func dnodeTailToEncoder(tail DnodeTail, e *endian.Encoder) error {
	putPtrs := func(ptrs []BlockPointer) error {
		for _, ptr := range ptrs {
			if err := BlockPointerToEncoder(ptr, e); err != nil {
				return err
			}
		}
		return nil
	}

	putBonus := func(bonus []byte, capacity int) error {
		if len(bonus) != capacity {
			return &InvalidBonusLengthError{Length: uint16(len(bonus))}
		}
		return e.PutBytes(bonus)
	}

	switch t := tail.(type) {
	case *DnodeTailZero:
		return putBonus(t.Bonus, 448)
	case *DnodeTailOne:
		if err := putPtrs(t.Ptrs[:]); err != nil {
			return err
		}
		return putBonus(t.Bonus, 320)
	case *DnodeTailTwo:
		if err := putPtrs(t.Ptrs[:]); err != nil {
			return err
		}
		return putBonus(t.Bonus, 192)
	case *DnodeTailThree:
		if err := putPtrs(t.Ptrs[:]); err != nil {
			return err
		}
		return putBonus(t.Bonus, 64)
	case *DnodeTailSpill:
		if err := putPtrs(t.Ptrs[:]); err != nil {
			return err
		}
		if err := putBonus(t.Bonus, 192); err != nil {
			return err
		}
		return BlockPointerToEncoder(t.Spill, e)
	default:
		return fmt.Errorf("phys: unknown dnode tail variant %T", tail)
	}
}

// EmptyDnode returns a Dnode with every field zeroed and an all-bonus tail.
func EmptyDnode() *Dnode {
	return &Dnode{
		Tail: &DnodeTailZero{Bonus: make([]byte, 448)},
	}
}

// Bonus returns the meaningful prefix of the tail's bonus slot.
func (dn *Dnode) Bonus() []byte {
	n := int(dn.BonusLen)
	switch t := dn.Tail.(type) {
	case *DnodeTailZero:
		return t.Bonus[:n]
	case *DnodeTailOne:
		return t.Bonus[:n]
	case *DnodeTailTwo:
		return t.Bonus[:n]
	case *DnodeTailThree:
		return t.Bonus[:n]
	case *DnodeTailSpill:
		return t.Bonus[:n]
	}
	return nil
}

// Pointers returns the tail's block pointers.
func (dn *Dnode) Pointers() []BlockPointer {
	switch t := dn.Tail.(type) {
	case *DnodeTailZero:
		return nil
	case *DnodeTailOne:
		return t.Ptrs[:]
	case *DnodeTailTwo:
		return t.Ptrs[:]
	case *DnodeTailThree:
		return t.Ptrs[:]
	case *DnodeTailSpill:
		return t.Ptrs[:]
	}
	return nil
}

// DnodeInvalidFlagsError reports unknown dnode flag bits.
type DnodeInvalidFlagsError struct {
	Flags uint8
}

// Error implements the error interface.
func (e *DnodeInvalidFlagsError) Error() string {
	return fmt.Sprintf("phys: invalid dnode flags 0x%02x", e.Flags)
}

// InvalidBlockPointerCountError reports a block pointer count outside 0..3.
type InvalidBlockPointerCountError struct {
	Count uint8
}

// Error implements the error interface.
func (e *InvalidBlockPointerCountError) Error() string {
	return fmt.Sprintf("phys: invalid dnode block pointer count %d", e.Count)
}

// InvalidSpillBlockPointerCountError reports a spill flag set with a block
// pointer count other than one.
type InvalidSpillBlockPointerCountError struct {
	Count uint8
}

// Error implements the error interface.
func (e *InvalidSpillBlockPointerCountError) Error() string {
	return fmt.Sprintf("phys: spill requires one block pointer, count is %d", e.Count)
}

// InvalidBonusLengthError reports a bonus length beyond the bonus slot
// capacity.
type InvalidBonusLengthError struct {
	Length uint16
}

// Error implements the error interface.
func (e *InvalidBonusLengthError) Error() string {
	return fmt.Sprintf("phys: bonus length %d exceeds slot capacity", e.Length)
}
