package endian

import "encoding/binary"

// Encoder writes scalars and byte runs into a caller-supplied buffer,
// advancing an internal offset.
type Encoder struct {
	data   []byte
	offset int
	endian Endian
	order  binary.ByteOrder
}

// NewEncoder initializes an Encoder over data with the given byte order.
func NewEncoder(data []byte, e Endian) *Encoder {
	return &Encoder{
		data:   data,
		endian: e,
		order:  e.order(),
	}
}

// checkNeed returns an error if fewer than count bytes are available.
func (e *Encoder) checkNeed(count int) error {
	if e.Available() < count {
		return &EndOfOutputError{Offset: e.offset, Length: len(e.data), Count: count}
	}
	return nil
}

// Endian returns the byte order of the encoder.
func (e *Encoder) Endian() Endian {
	return e.endian
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

// IsFull reports whether there is no more space for values to be encoded.
func (e *Encoder) IsFull() bool {
	return e.Available() == 0
}

// Len returns the length of the encoded values.
func (e *Encoder) Len() int {
	return e.offset
}

// PutBytes encodes a byte run.
func (e *Encoder) PutBytes(data []byte) error {
	if err := e.checkNeed(len(data)); err != nil {
		return err
	}
	copy(e.data[e.offset:], data)
	e.offset += len(data)
	return nil
}

// PutUint8 encodes a uint8.
func (e *Encoder) PutUint8(v uint8) error {
	if err := e.checkNeed(1); err != nil {
		return err
	}
	e.data[e.offset] = v
	e.offset++
	return nil
}

// PutUint16 encodes a uint16.
func (e *Encoder) PutUint16(v uint16) error {
	if err := e.checkNeed(2); err != nil {
		return err
	}
	e.order.PutUint16(e.data[e.offset:], v)
	e.offset += 2
	return nil
}

// PutUint32 encodes a uint32.
func (e *Encoder) PutUint32(v uint32) error {
	if err := e.checkNeed(4); err != nil {
		return err
	}
	e.order.PutUint32(e.data[e.offset:], v)
	e.offset += 4
	return nil
}

// PutUint64 encodes a uint64.
func (e *Encoder) PutUint64(v uint64) error {
	if err := e.checkNeed(8); err != nil {
		return err
	}
	e.order.PutUint64(e.data[e.offset:], v)
	e.offset += 8
	return nil
}

// PutZeroPadding encodes length zero bytes.
func (e *Encoder) PutZeroPadding(length int) error {
	if err := e.checkNeed(length); err != nil {
		return err
	}
	for i := e.offset; i < e.offset+length; i++ {
		e.data[i] = 0
	}
	e.offset += length
	return nil
}
