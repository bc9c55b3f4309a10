package phys

import (
	"fmt"

	"github.com/scigolib/zpool/checksum"
	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
)

// BlockPointerLength is the byte length of an encoded block pointer (128).
const BlockPointerLength = 3*DvaLength + 48 + checksum.ValueLength

// Block pointer flags word bit layout, shared by all three variants. Sizes
// below bit 32 are laid out per variant.
const (
	bpFlagEmbedded      = uint64(1) << 39
	bpFlagEncrypted     = uint64(1) << 61
	bpFlagDedup         = uint64(1) << 62
	bpFlagLittle        = uint64(1) << 63
	bpLevelShift        = 56
	bpLevelMask         = 0x1f
	bpDmuShift          = 48
	bpChecksumShift     = 40
	bpCompShift         = 32
	bpCompMask          = 0x7f
	bpMaxLevel          = 0x1f
	bpEmbeddedLsizeMask = 0x1ffffff
)

// BlockPointer is one of the three block pointer variants: Regular,
// Encrypted, or Embedded. The variant is selected by the embedded and
// encrypted flag bits.
//
// C reference: typedef struct blkptr blkptr_t.
type BlockPointer interface {
	isBlockPointer()
}

// BlockPointerFromDecoder decodes a BlockPointer, selecting the variant from
// the flags word without committing the cursor.
func BlockPointerFromDecoder(d *endian.Decoder) (BlockPointer, error) {
	// Peek the flags word past the three DVA slots.
	if err := d.Skip(3 * DvaLength); err != nil {
		return nil, err
	}
	flags, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	if err := d.Rewind(3*DvaLength + 8); err != nil {
		return nil, err
	}

	embedded := flags&bpFlagEmbedded != 0
	encrypted := flags&bpFlagEncrypted != 0

	switch {
	case !embedded && !encrypted:
		return blockPointerRegularFromDecoder(d)
	case !embedded && encrypted:
		return blockPointerEncryptedFromDecoder(d)
	case embedded && !encrypted:
		return blockPointerEmbeddedFromDecoder(d)
	default:
		return nil, &InvalidBlockPointerTypeError{Embedded: embedded, Encrypted: encrypted}
	}
}

// BlockPointerToEncoder encodes a BlockPointer of any variant.
func BlockPointerToEncoder(ptr BlockPointer, e *endian.Encoder) error {
	switch p := ptr.(type) {
	case *BlockPointerRegular:
		return p.ToEncoder(e)
	case *BlockPointerEncrypted:
		return p.ToEncoder(e)
	case *BlockPointerEmbedded:
		return p.ToEncoder(e)
	default:
		return fmt.Errorf("phys: unknown block pointer variant %T", ptr)
	}
}

// bpFlagFields are the flag word bits common to every variant.
type bpFlagFields struct {
	embedded  bool
	encrypted bool
	dedup     bool
	endian    endian.Endian
	level     uint8
	dmu       uint8
	checksum  uint8
	comp      uint8
}

func splitBlockPointerFlags(flags uint64) bpFlagFields {
	e := endian.Big
	if flags&bpFlagLittle != 0 {
		e = endian.Little
	}
	return bpFlagFields{
		embedded:  flags&bpFlagEmbedded != 0,
		encrypted: flags&bpFlagEncrypted != 0,
		dedup:     flags&bpFlagDedup != 0,
		endian:    e,
		level:     uint8((flags >> bpLevelShift) & bpLevelMask),
		dmu:       uint8(flags >> bpDmuShift),
		checksum:  uint8(flags >> bpChecksumShift),
		comp:      uint8((flags >> bpCompShift) & bpCompMask),
	}
}

func joinBlockPointerFlags(f bpFlagFields) uint64 {
	var flags uint64
	if f.embedded {
		flags |= bpFlagEmbedded
	}
	if f.encrypted {
		flags |= bpFlagEncrypted
	}
	if f.dedup {
		flags |= bpFlagDedup
	}
	if f.endian == endian.Little {
		flags |= bpFlagLittle
	}
	flags |= uint64(f.level&bpLevelMask) << bpLevelShift
	flags |= uint64(f.dmu) << bpDmuShift
	flags |= uint64(f.checksum) << bpChecksumShift
	flags |= uint64(f.comp&bpCompMask) << bpCompShift
	return flags
}

// BlockPointerRegular is a block pointer addressing up to three on-disk
// copies through DVAs, with a full 32-byte checksum. Logical and physical
// sizes are in (sectors - 1).
type BlockPointerRegular struct {
	Dvas             [3]Dva
	Endian           endian.Endian
	Dedup            bool
	Level            uint8
	Dmu              DmuType
	ChecksumType     checksum.Type
	Compression      CompressionType
	LogicalSize      uint16
	PhysicalSize     uint16
	PhysicalBirthTxg uint64
	LogicalBirthTxg  uint64
	FillCount        uint64
	ChecksumValue    checksum.Value
}

func (*BlockPointerRegular) isBlockPointer() {}

func blockPointerRegularFromDecoder(d *endian.Decoder) (*BlockPointerRegular, error) {
	var ptr BlockPointerRegular

	for i := range ptr.Dvas {
		dva, err := DvaFromDecoder(d)
		if err != nil {
			return nil, utils.WrapError("block pointer dva decode failed", err)
		}
		ptr.Dvas[i] = dva
	}

	flags, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	f := splitBlockPointerFlags(flags)
	if f.embedded || f.encrypted {
		return nil, &InvalidBlockPointerTypeError{Embedded: f.embedded, Encrypted: f.encrypted}
	}

	ptr.Endian = f.endian
	ptr.Dedup = f.dedup
	ptr.Level = f.level

	if ptr.Dmu, err = DmuTypeFromValue(f.dmu); err != nil {
		return nil, err
	}
	if ptr.ChecksumType, err = checksum.TypeFromValue(f.checksum); err != nil {
		return nil, err
	}
	if ptr.Compression, err = CompressionTypeFromValue(f.comp); err != nil {
		return nil, err
	}

	ptr.LogicalSize = uint16(flags)
	ptr.PhysicalSize = uint16(flags >> 16)

	if err := d.SkipZeroPadding(16); err != nil {
		return nil, err
	}

	if ptr.PhysicalBirthTxg, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ptr.LogicalBirthTxg, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ptr.FillCount, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ptr.ChecksumValue, err = checksum.ValueFromDecoder(d); err != nil {
		return nil, err
	}

	return &ptr, nil
}

// ToEncoder encodes the block pointer, validating the level width.
func (p *BlockPointerRegular) ToEncoder(e *endian.Encoder) error {
	if p.Level > bpMaxLevel {
		return &InvalidLevelError{Level: p.Level}
	}

	for _, dva := range p.Dvas {
		if err := dva.ToEncoder(e); err != nil {
			return err
		}
	}

	flags := joinBlockPointerFlags(bpFlagFields{
		dedup:    p.Dedup,
		endian:   p.Endian,
		level:    p.Level,
		dmu:      uint8(p.Dmu),
		checksum: uint8(p.ChecksumType),
		comp:     uint8(p.Compression),
	})
	flags |= uint64(p.LogicalSize) | uint64(p.PhysicalSize)<<16

	if err := e.PutUint64(flags); err != nil {
		return err
	}
	if err := e.PutZeroPadding(16); err != nil {
		return err
	}
	if err := e.PutUint64(p.PhysicalBirthTxg); err != nil {
		return err
	}
	if err := e.PutUint64(p.LogicalBirthTxg); err != nil {
		return err
	}
	if err := e.PutUint64(p.FillCount); err != nil {
		return err
	}
	return p.ChecksumValue.ToEncoder(e)
}

// BlockPointerEncrypted is a block pointer to an encrypted block: two DVAs,
// salt and IV material, a truncated two-word checksum and a two-word MAC.
// Logical and physical sizes are in (sectors - 1).
type BlockPointerEncrypted struct {
	Dvas             [2]Dva
	Salt             uint64
	Iv1              uint64
	Iv2              uint32
	Endian           endian.Endian
	Dedup            bool
	Level            uint8
	Dmu              DmuType
	ChecksumType     checksum.Type
	Compression      CompressionType
	LogicalSize      uint16
	PhysicalSize     uint16
	PhysicalBirthTxg uint64
	LogicalBirthTxg  uint64
	FillCount        uint32
	ChecksumValue    [2]uint64
	Mac              [2]uint64
}

func (*BlockPointerEncrypted) isBlockPointer() {}

func blockPointerEncryptedFromDecoder(d *endian.Decoder) (*BlockPointerEncrypted, error) {
	var ptr BlockPointerEncrypted

	for i := range ptr.Dvas {
		dva, err := DvaFromDecoder(d)
		if err != nil {
			return nil, utils.WrapError("block pointer dva decode failed", err)
		}
		ptr.Dvas[i] = dva
	}

	var err error
	if ptr.Salt, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ptr.Iv1, err = d.Uint64(); err != nil {
		return nil, err
	}

	flags, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	f := splitBlockPointerFlags(flags)
	if f.embedded || !f.encrypted {
		return nil, &InvalidBlockPointerTypeError{Embedded: f.embedded, Encrypted: f.encrypted}
	}

	ptr.Endian = f.endian
	ptr.Dedup = f.dedup
	ptr.Level = f.level

	if ptr.Dmu, err = DmuTypeFromValue(f.dmu); err != nil {
		return nil, err
	}
	if ptr.ChecksumType, err = checksum.TypeFromValue(f.checksum); err != nil {
		return nil, err
	}
	if ptr.Compression, err = CompressionTypeFromValue(f.comp); err != nil {
		return nil, err
	}

	ptr.LogicalSize = uint16(flags)
	ptr.PhysicalSize = uint16(flags >> 16)

	if err := d.SkipZeroPadding(16); err != nil {
		return nil, err
	}

	if ptr.PhysicalBirthTxg, err = d.Uint64(); err != nil {
		return nil, err
	}
	if ptr.LogicalBirthTxg, err = d.Uint64(); err != nil {
		return nil, err
	}

	ivFill, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	ptr.Iv2 = uint32(ivFill >> 32)
	ptr.FillCount = uint32(ivFill)

	for i := range ptr.ChecksumValue {
		if ptr.ChecksumValue[i], err = d.Uint64(); err != nil {
			return nil, err
		}
	}
	for i := range ptr.Mac {
		if ptr.Mac[i], err = d.Uint64(); err != nil {
			return nil, err
		}
	}

	return &ptr, nil
}

// ToEncoder encodes the block pointer, validating the level width.
func (p *BlockPointerEncrypted) ToEncoder(e *endian.Encoder) error {
	if p.Level > bpMaxLevel {
		return &InvalidLevelError{Level: p.Level}
	}

	for _, dva := range p.Dvas {
		if err := dva.ToEncoder(e); err != nil {
			return err
		}
	}

	if err := e.PutUint64(p.Salt); err != nil {
		return err
	}
	if err := e.PutUint64(p.Iv1); err != nil {
		return err
	}

	flags := joinBlockPointerFlags(bpFlagFields{
		encrypted: true,
		dedup:     p.Dedup,
		endian:    p.Endian,
		level:     p.Level,
		dmu:       uint8(p.Dmu),
		checksum:  uint8(p.ChecksumType),
		comp:      uint8(p.Compression),
	})
	flags |= uint64(p.LogicalSize) | uint64(p.PhysicalSize)<<16

	if err := e.PutUint64(flags); err != nil {
		return err
	}
	if err := e.PutZeroPadding(16); err != nil {
		return err
	}
	if err := e.PutUint64(p.PhysicalBirthTxg); err != nil {
		return err
	}
	if err := e.PutUint64(p.LogicalBirthTxg); err != nil {
		return err
	}
	if err := e.PutUint64(uint64(p.Iv2)<<32 | uint64(p.FillCount)); err != nil {
		return err
	}
	for _, w := range p.ChecksumValue {
		if err := e.PutUint64(w); err != nil {
			return err
		}
	}
	for _, w := range p.Mac {
		if err := e.PutUint64(w); err != nil {
			return err
		}
	}
	return nil
}

// BlockPointerEmbeddedMaxPayload is the payload capacity of an embedded
// block pointer (48 + 24 + 40 bytes).
const BlockPointerEmbeddedMaxPayload = 112

// BlockPointerEmbeddedType identifies the kind of data held inside an
// embedded block pointer.
//
// C reference: enum bp_embedded_type.
type BlockPointerEmbeddedType uint8

// Embedded block pointer type values as stored on disk.
const (
	EmbeddedData BlockPointerEmbeddedType = iota
	EmbeddedReserved
	EmbeddedRedacted
)

// BlockPointerEmbeddedTypeFromValue converts a raw numeric embedded type,
// rejecting unknown values.
func BlockPointerEmbeddedTypeFromValue(v uint8) (BlockPointerEmbeddedType, error) {
	if v > uint8(EmbeddedRedacted) {
		return 0, &InvalidEmbeddedTypeError{Value: v}
	}
	return BlockPointerEmbeddedType(v), nil
}

// String implements fmt.Stringer.
func (t BlockPointerEmbeddedType) String() string {
	switch t {
	case EmbeddedData:
		return "Data"
	case EmbeddedReserved:
		return "Reserved"
	case EmbeddedRedacted:
		return "Redacted"
	}
	return fmt.Sprintf("BlockPointerEmbeddedType(%d)", uint8(t))
}

// BlockPointerEmbedded is a block pointer whose data lives inside the
// pointer itself: three payload runs (48, 24 and 40 bytes) wrapped around
// the flags word and the logical birth TXG. The logical size is in bytes
// (25 bits); the physical size is the payload byte count.
type BlockPointerEmbedded struct {
	Endian          endian.Endian
	Level           uint8
	Dmu             DmuType
	EmbeddedType    BlockPointerEmbeddedType
	Compression     CompressionType
	LogicalSize     uint32
	PhysicalSize    uint8
	LogicalBirthTxg uint64
	Payload         [BlockPointerEmbeddedMaxPayload]byte
}

func (*BlockPointerEmbedded) isBlockPointer() {}

func blockPointerEmbeddedFromDecoder(d *endian.Decoder) (*BlockPointerEmbedded, error) {
	var ptr BlockPointerEmbedded

	b, err := d.Bytes(48)
	if err != nil {
		return nil, err
	}
	copy(ptr.Payload[0:48], b)

	flags, err := d.Uint64()
	if err != nil {
		return nil, err
	}

	if b, err = d.Bytes(24); err != nil {
		return nil, err
	}
	copy(ptr.Payload[48:72], b)

	if ptr.LogicalBirthTxg, err = d.Uint64(); err != nil {
		return nil, err
	}

	if b, err = d.Bytes(40); err != nil {
		return nil, err
	}
	copy(ptr.Payload[72:112], b)

	f := splitBlockPointerFlags(flags)
	if !f.embedded || f.encrypted {
		return nil, &InvalidBlockPointerTypeError{Embedded: f.embedded, Encrypted: f.encrypted}
	}
	if f.dedup {
		return nil, &InvalidDedupValueError{Dedup: f.dedup}
	}

	ptr.Endian = f.endian
	ptr.Level = f.level

	if ptr.Dmu, err = DmuTypeFromValue(f.dmu); err != nil {
		return nil, err
	}
	if ptr.EmbeddedType, err = BlockPointerEmbeddedTypeFromValue(f.checksum); err != nil {
		return nil, err
	}
	if ptr.Compression, err = CompressionTypeFromValue(f.comp); err != nil {
		return nil, err
	}

	ptr.LogicalSize = uint32(flags & bpEmbeddedLsizeMask)
	ptr.PhysicalSize = uint8((flags >> 25) & 0x7f)

	if int(ptr.PhysicalSize) > len(ptr.Payload) {
		return nil, &InvalidEmbeddedLengthError{Length: ptr.PhysicalSize}
	}

	return &ptr, nil
}

// ToEncoder encodes the block pointer, validating the level and size widths.
func (p *BlockPointerEmbedded) ToEncoder(e *endian.Encoder) error {
	if p.Level > bpMaxLevel {
		return &InvalidLevelError{Level: p.Level}
	}
	if p.LogicalSize > bpEmbeddedLsizeMask {
		return &InvalidLogicalSizeError{LogicalSize: p.LogicalSize}
	}
	if int(p.PhysicalSize) > len(p.Payload) {
		return &InvalidEmbeddedLengthError{Length: p.PhysicalSize}
	}

	flags := joinBlockPointerFlags(bpFlagFields{
		embedded: true,
		endian:   p.Endian,
		level:    p.Level,
		dmu:      uint8(p.Dmu),
		checksum: uint8(p.EmbeddedType),
		comp:     uint8(p.Compression),
	})
	flags |= uint64(p.LogicalSize) | uint64(p.PhysicalSize&0x7f)<<25

	if err := e.PutBytes(p.Payload[0:48]); err != nil {
		return err
	}
	if err := e.PutUint64(flags); err != nil {
		return err
	}
	if err := e.PutBytes(p.Payload[48:72]); err != nil {
		return err
	}
	if err := e.PutUint64(p.LogicalBirthTxg); err != nil {
		return err
	}
	return e.PutBytes(p.Payload[72:112])
}

// InvalidBlockPointerTypeError reports contradictory variant tag bits.
type InvalidBlockPointerTypeError struct {
	Embedded  bool
	Encrypted bool
}

// Error implements the error interface.
func (e *InvalidBlockPointerTypeError) Error() string {
	return fmt.Sprintf("phys: invalid block pointer type: embedded %t encrypted %t",
		e.Embedded, e.Encrypted)
}

// InvalidDedupValueError reports a dedup bit set on a variant that forbids
// it.
type InvalidDedupValueError struct {
	Dedup bool
}

// Error implements the error interface.
func (e *InvalidDedupValueError) Error() string {
	return fmt.Sprintf("phys: invalid dedup value %t", e.Dedup)
}

// InvalidLevelError reports an indirection level wider than 5 bits.
type InvalidLevelError struct {
	Level uint8
}

// Error implements the error interface.
func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("phys: level %d does not fit in 5 bits", e.Level)
}

// InvalidLogicalSizeError reports an embedded logical size wider than 25
// bits.
type InvalidLogicalSizeError struct {
	LogicalSize uint32
}

// Error implements the error interface.
func (e *InvalidLogicalSizeError) Error() string {
	return fmt.Sprintf("phys: embedded logical size %d does not fit in 25 bits", e.LogicalSize)
}

// InvalidEmbeddedLengthError reports an embedded physical size beyond the
// payload capacity.
type InvalidEmbeddedLengthError struct {
	Length uint8
}

// Error implements the error interface.
func (e *InvalidEmbeddedLengthError) Error() string {
	return fmt.Sprintf("phys: embedded length %d exceeds payload capacity", e.Length)
}

// InvalidEmbeddedTypeError reports an unknown embedded type value.
type InvalidEmbeddedTypeError struct {
	Value uint8
}

// Error implements the error interface.
func (e *InvalidEmbeddedTypeError) Error() string {
	return fmt.Sprintf("phys: invalid embedded type value %d", e.Value)
}
