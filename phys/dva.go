package phys

import (
	"fmt"

	"github.com/scigolib/zpool/endian"
)

// DvaLength is the byte length of an encoded Dva (16).
const DvaLength = 16

const (
	dvaPaddingMask = 0xff00000000000000
	dvaVdevMask    = 0x00ffffff00000000
	dvaVdevShift   = 32
	dvaGridMask    = 0x00000000ff000000
	dvaGridShift   = 24
	dvaAsizeMask   = 0x0000000000ffffff

	dvaGangMask   = 0x8000000000000000
	dvaOffsetMask = 0x7fffffffffffffff
)

// Dva is a Data Virtual Address: a physical block pointer naming a vdev and
// an offset into its allocatable area (which begins after two labels and the
// boot block). Asize and Offset are in 512-byte sectors. An all-zero Dva is
// legal and means "absent".
//
// C reference: typedef struct dva dva_t.
type Dva struct {
	Vdev   uint32
	Grid   uint8
	Asize  uint32
	Offset uint64
	IsGang bool
}

// DvaFromDecoder decodes a Dva, requiring the leading padding bits to be
// zero.
func DvaFromDecoder(d *endian.Decoder) (Dva, error) {
	a, err := d.Uint64()
	if err != nil {
		return Dva{}, err
	}
	b, err := d.Uint64()
	if err != nil {
		return Dva{}, err
	}

	if a&dvaPaddingMask != 0 {
		return Dva{}, &DvaNonZeroPaddingError{Padding: a & dvaPaddingMask}
	}

	return Dva{
		Vdev:   uint32((a & dvaVdevMask) >> dvaVdevShift),
		Grid:   uint8((a & dvaGridMask) >> dvaGridShift),
		Asize:  uint32(a & dvaAsizeMask),
		Offset: b & dvaOffsetMask,
		IsGang: b&dvaGangMask != 0,
	}, nil
}

// ToEncoder encodes the Dva, validating field widths.
func (v Dva) ToEncoder(e *endian.Encoder) error {
	if v.Vdev > dvaVdevMask>>dvaVdevShift {
		return &InvalidVdevError{Vdev: v.Vdev}
	}
	if v.Asize > dvaAsizeMask {
		return &InvalidAsizeError{Asize: v.Asize}
	}
	if v.Offset > dvaOffsetMask {
		return &InvalidOffsetError{Offset: v.Offset}
	}

	a := uint64(v.Vdev)<<dvaVdevShift | uint64(v.Grid)<<dvaGridShift | uint64(v.Asize)
	b := v.Offset
	if v.IsGang {
		b |= dvaGangMask
	}

	if err := e.PutUint64(a); err != nil {
		return err
	}
	return e.PutUint64(b)
}

// IsEmpty reports whether the Dva is all zero, meaning "absent".
func (v Dva) IsEmpty() bool {
	return v == Dva{}
}

// DvaNonZeroPaddingError reports non-zero leading padding bits.
type DvaNonZeroPaddingError struct {
	Padding uint64
}

// Error implements the error interface.
func (e *DvaNonZeroPaddingError) Error() string {
	return fmt.Sprintf("phys: dva non-zero padding 0x%016x", e.Padding)
}

// InvalidVdevError reports a vdev id wider than 24 bits.
type InvalidVdevError struct {
	Vdev uint32
}

// Error implements the error interface.
func (e *InvalidVdevError) Error() string {
	return fmt.Sprintf("phys: dva vdev %d does not fit in 24 bits", e.Vdev)
}

// InvalidAsizeError reports an allocated size wider than 24 bits.
type InvalidAsizeError struct {
	Asize uint32
}

// Error implements the error interface.
func (e *InvalidAsizeError) Error() string {
	return fmt.Sprintf("phys: dva asize %d does not fit in 24 bits", e.Asize)
}

// InvalidOffsetError reports an offset wider than 63 bits.
type InvalidOffsetError struct {
	Offset uint64
}

// Error implements the error interface.
func (e *InvalidOffsetError) Error() string {
	return fmt.Sprintf("phys: dva offset %d does not fit in 63 bits", e.Offset)
}
