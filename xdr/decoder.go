// Package xdr implements the RFC 4506 External Data Representation subset
// used by ZFS name/value lists. All integers are big-endian on the wire and
// every element is padded to a 4-byte boundary.
package xdr

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Decoder reads XDR-encoded values from a borrowed buffer. Returned byte
// slices alias the source buffer.
type Decoder struct {
	data   []byte
	offset int
}

// NewDecoder initializes a Decoder over data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// checkNeed returns an error if fewer than count bytes remain.
func (d *Decoder) checkNeed(count int) error {
	if d.Len() < count {
		return &EndOfInputError{Offset: d.offset, Length: len(d.data), Count: count}
	}
	return nil
}

// checkAligned returns an error if the cursor is not 4-byte aligned.
func (d *Decoder) checkAligned() error {
	if d.offset%4 != 0 {
		return &NotAlignedError{Offset: d.offset}
	}
	return nil
}

// Capacity returns the source data length. Unchanged by decoding.
func (d *Decoder) Capacity() int {
	return len(d.data)
}

// Len returns the number of bytes remaining to be decoded.
func (d *Decoder) Len() int {
	if d.offset > len(d.data) {
		return 0
	}
	return len(d.data) - d.offset
}

// IsEmpty reports whether there are no more bytes to decode.
func (d *Decoder) IsEmpty() bool {
	return d.Len() == 0
}

// Reset moves the decoder back to the start of the data.
func (d *Decoder) Reset() {
	d.offset = 0
}

// Seek moves the cursor to offset, which must be 4-byte aligned.
func (d *Decoder) Seek(offset int) error {
	if offset < 0 || offset > len(d.data) {
		return &EndOfInputError{Offset: offset, Length: len(d.data), Count: 0}
	}
	d.offset = offset
	return d.checkAligned()
}

// Skip advances past the next count bytes, re-asserting alignment.
func (d *Decoder) Skip(count int) error {
	if err := d.checkNeed(count); err != nil {
		return err
	}
	d.offset += count
	return d.checkAligned()
}

// Rewind moves the decoder back count bytes, re-asserting alignment.
func (d *Decoder) Rewind(count int) error {
	if count > d.offset {
		return &EndOfInputError{Offset: d.offset, Length: len(d.data), Count: count}
	}
	d.offset -= count
	return d.checkAligned()
}

// RawBytes returns the next length bytes without a length prefix. The caller
// is responsible for length being XDR-aligned; the cursor alignment is
// re-asserted. The result aliases the source buffer.
func (d *Decoder) RawBytes(length int) ([]byte, error) {
	if err := d.checkNeed(length); err != nil {
		return nil, err
	}
	v := d.data[d.offset : d.offset+length]
	d.offset += length
	if err := d.checkAligned(); err != nil {
		return nil, err
	}
	return v, nil
}

// Bool decodes an XDR boolean.
func (d *Decoder) Bool() (bool, error) {
	off := d.offset
	v, err := d.Uint32()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &InvalidBooleanError{Offset: off, Value: v}
	}
}

// Float32 decodes a big-endian IEEE-754 float32.
func (d *Decoder) Float32() (float32, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Float64 decodes a big-endian IEEE-754 float64.
func (d *Decoder) Float64() (float64, error) {
	v, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Int8 decodes an int8 carried in an XDR int.
func (d *Decoder) Int8() (int8, error) {
	v, err := d.Int32()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, &I8ConversionError{Value: v}
	}
	return int8(v), nil
}

// Int16 decodes an int16 carried in an XDR int.
func (d *Decoder) Int16() (int16, error) {
	v, err := d.Int32()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, &I16ConversionError{Value: v}
	}
	return int16(v), nil
}

// Int32 decodes an XDR int.
func (d *Decoder) Int32() (int32, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// Int64 decodes an XDR hyper.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// Uint8 decodes a uint8 carried in an XDR unsigned int.
func (d *Decoder) Uint8() (uint8, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint8 {
		return 0, &U8ConversionError{Value: v}
	}
	return uint8(v), nil
}

// Uint16 decodes a uint16 carried in an XDR unsigned int.
func (d *Decoder) Uint16() (uint16, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint16 {
		return 0, &U16ConversionError{Value: v}
	}
	return uint16(v), nil
}

// Uint32 decodes an XDR unsigned int.
func (d *Decoder) Uint32() (uint32, error) {
	if err := d.checkNeed(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.data[d.offset:])
	d.offset += 4
	return v, nil
}

// Uint64 decodes an XDR unsigned hyper.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.checkNeed(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.data[d.offset:])
	d.offset += 8
	return v, nil
}

// Bytes decodes an XDR opaque: a uint32 length, that many bytes, and padding
// up to the next 4-byte boundary. The result aliases the source buffer.
func (d *Decoder) Bytes() ([]byte, error) {
	length, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	n := int(length)
	if err := d.checkNeed(n); err != nil {
		return nil, err
	}
	v := d.data[d.offset : d.offset+n]
	d.offset += n
	if err := d.Skip(padding(n)); err != nil {
		return nil, err
	}
	return v, nil
}

// String decodes an XDR string, additionally validating UTF-8.
func (d *Decoder) String() (string, error) {
	off := d.offset
	v, err := d.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(v) {
		return "", &InvalidStrError{Offset: off}
	}
	return string(v), nil
}

// padding returns the number of bytes needed to reach the next 4-byte
// boundary after n.
func padding(n int) int {
	return (4 - n%4) % 4
}
