package xdr

import (
	"encoding/binary"
	"math"
)

// Encoder writes XDR-encoded values into a caller-supplied buffer.
type Encoder struct {
	data   []byte
	offset int
}

// NewEncoder initializes an Encoder over data.
func NewEncoder(data []byte) *Encoder {
	return &Encoder{data: data}
}

// checkNeed returns an error if fewer than count bytes are available.
func (e *Encoder) checkNeed(count int) error {
	if e.Available() < count {
		return &EndOfOutputError{Offset: e.offset, Length: len(e.data), Count: count}
	}
	return nil
}

// Available returns the number of bytes still available for encoding.
func (e *Encoder) Available() int {
	if e.offset > len(e.data) {
		return 0
	}
	return len(e.data) - e.offset
}

// Capacity returns the destination data length. Unchanged by encoding.
func (e *Encoder) Capacity() int {
	return len(e.data)
}

// Len returns the length of the encoded values.
func (e *Encoder) Len() int {
	return e.offset
}

// PutBool encodes an XDR boolean.
func (e *Encoder) PutBool(v bool) error {
	if v {
		return e.PutUint32(1)
	}
	return e.PutUint32(0)
}

// PutFloat32 encodes a big-endian IEEE-754 float32.
func (e *Encoder) PutFloat32(v float32) error {
	return e.PutUint32(math.Float32bits(v))
}

// PutFloat64 encodes a big-endian IEEE-754 float64.
func (e *Encoder) PutFloat64(v float64) error {
	return e.PutUint64(math.Float64bits(v))
}

// PutInt8 encodes an int8 as an XDR int.
func (e *Encoder) PutInt8(v int8) error {
	return e.PutInt32(int32(v))
}

// PutInt16 encodes an int16 as an XDR int.
func (e *Encoder) PutInt16(v int16) error {
	return e.PutInt32(int32(v))
}

// PutInt32 encodes an XDR int.
func (e *Encoder) PutInt32(v int32) error {
	return e.PutUint32(uint32(v))
}

// PutInt64 encodes an XDR hyper.
func (e *Encoder) PutInt64(v int64) error {
	return e.PutUint64(uint64(v))
}

// PutUint8 encodes a uint8 as an XDR unsigned int.
func (e *Encoder) PutUint8(v uint8) error {
	return e.PutUint32(uint32(v))
}

// PutUint16 encodes a uint16 as an XDR unsigned int.
func (e *Encoder) PutUint16(v uint16) error {
	return e.PutUint32(uint32(v))
}

// PutUint32 encodes an XDR unsigned int.
func (e *Encoder) PutUint32(v uint32) error {
	if err := e.checkNeed(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(e.data[e.offset:], v)
	e.offset += 4
	return nil
}

// PutUint64 encodes an XDR unsigned hyper.
func (e *Encoder) PutUint64(v uint64) error {
	if err := e.checkNeed(8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(e.data[e.offset:], v)
	e.offset += 8
	return nil
}

// PutBytes encodes an XDR opaque: a uint32 length, the bytes, and zero
// padding up to the next 4-byte boundary.
func (e *Encoder) PutBytes(v []byte) error {
	if err := e.checkNeed(4 + len(v) + padding(len(v))); err != nil {
		return err
	}
	if err := e.PutUint32(uint32(len(v))); err != nil {
		return err
	}
	copy(e.data[e.offset:], v)
	e.offset += len(v)
	for i := 0; i < padding(len(v)); i++ {
		e.data[e.offset] = 0
		e.offset++
	}
	return nil
}

// PutString encodes an XDR string.
func (e *Encoder) PutString(v string) error {
	return e.PutBytes([]byte(v))
}
