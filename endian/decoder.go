package endian

import "encoding/binary"

// Decoder reads scalars and byte runs from a borrowed buffer, advancing an
// internal offset. Returned byte slices alias the source buffer.
type Decoder struct {
	data   []byte
	offset int
	endian Endian
	order  binary.ByteOrder
}

// NewDecoder initializes a Decoder over data with the given byte order.
func NewDecoder(data []byte, e Endian) *Decoder {
	return &Decoder{
		data:   data,
		endian: e,
		order:  e.order(),
	}
}

// NewDecoderFromMagic initializes a Decoder whose byte order is inferred from
// the first eight bytes of data. The bytes are read as a little-endian uint64
// and compared against magic; on mismatch they are byte-swapped and compared
// again. This is the only place byte order is inferred from data. The decoder
// is positioned just past the magic.
func NewDecoderFromMagic(data []byte, magic uint64) (*Decoder, error) {
	d := NewDecoder(data, Little)

	actual, err := d.Uint64()
	if err != nil {
		return nil, err
	}

	if actual != magic {
		swapped := swapBytes(actual)
		if swapped != magic {
			e := &InvalidMagicError{Expected: magic}
			copy(e.Actual[:], data[:8])
			return nil, e
		}
		d.endian = Big
		d.order = binary.BigEndian
	}

	return d, nil
}

func swapBytes(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return binary.BigEndian.Uint64(b[:])
}

// checkNeed returns an error if fewer than count bytes remain.
func (d *Decoder) checkNeed(count int) error {
	if d.Len() < count {
		return &EndOfInputError{Offset: d.offset, Length: len(d.data), Count: count}
	}
	return nil
}

// Endian returns the byte order of the decoder.
func (d *Decoder) Endian() Endian {
	return d.endian
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

// Skip advances past the next count bytes.
func (d *Decoder) Skip(count int) error {
	if err := d.checkNeed(count); err != nil {
		return err
	}
	d.offset += count
	return nil
}

// SkipZeroPadding advances past the next count bytes, requiring all of them
// to be zero.
func (d *Decoder) SkipZeroPadding(count int) error {
	if err := d.checkNeed(count); err != nil {
		return err
	}

	var x byte
	for _, b := range d.data[d.offset : d.offset+count] {
		x |= b
	}
	if x != 0 {
		return &NonZeroPaddingError{}
	}

	d.offset += count
	return nil
}

// Rewind moves the decoder back count bytes.
func (d *Decoder) Rewind(count int) error {
	if count > d.offset {
		return &RewindPastStartError{Offset: d.offset, Count: count}
	}
	d.offset -= count
	return nil
}

// Bytes returns the next length bytes. The result aliases the source buffer.
func (d *Decoder) Bytes(length int) ([]byte, error) {
	if err := d.checkNeed(length); err != nil {
		return nil, err
	}
	v := d.data[d.offset : d.offset+length]
	d.offset += length
	return v, nil
}

// Uint8 decodes a uint8.
func (d *Decoder) Uint8() (uint8, error) {
	if err := d.checkNeed(1); err != nil {
		return 0, err
	}
	v := d.data[d.offset]
	d.offset++
	return v, nil
}

// Uint16 decodes a uint16.
func (d *Decoder) Uint16() (uint16, error) {
	if err := d.checkNeed(2); err != nil {
		return 0, err
	}
	v := d.order.Uint16(d.data[d.offset:])
	d.offset += 2
	return v, nil
}

// Uint32 decodes a uint32.
func (d *Decoder) Uint32() (uint32, error) {
	if err := d.checkNeed(4); err != nil {
		return 0, err
	}
	v := d.order.Uint32(d.data[d.offset:])
	d.offset += 4
	return v, nil
}

// Uint64 decodes a uint64.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.checkNeed(8); err != nil {
		return 0, err
	}
	v := d.order.Uint64(d.data[d.offset:])
	d.offset += 8
	return v, nil
}
