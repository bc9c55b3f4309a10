package checksum

import "github.com/scigolib/zpool/endian"

// ValueLength is the byte length of an encoded Value.
const ValueLength = 32

// Value is a checksum as stored on disk: four 64-bit words in native order.
// Every ZFS checksum algorithm projects into this shape.
//
// C reference: typedef struct zio_cksum zio_cksum_t.
type Value struct {
	Words [4]uint64
}

// ValueFromDecoder decodes a Value.
func ValueFromDecoder(d *endian.Decoder) (Value, error) {
	var v Value
	for i := range v.Words {
		w, err := d.Uint64()
		if err != nil {
			return Value{}, err
		}
		v.Words[i] = w
	}
	return v, nil
}

// ToEncoder encodes the Value.
func (v Value) ToEncoder(e *endian.Encoder) error {
	for _, w := range v.Words {
		if err := e.PutUint64(w); err != nil {
			return err
		}
	}
	return nil
}
