package checksum

import "github.com/scigolib/zpool/endian"

const (
	// TailLength is the byte length of an encoded Tail (40).
	TailLength = 8 + ValueLength

	// TailMagic is the magic value of an encoded Tail. Its byte order
	// self-identifies the endian of the four checksum words that follow.
	TailMagic uint64 = 0x210da7ab10c7a11
)

// Tail is the 40-byte checksum trailer embedded at the end of every
// label-protected region: a magic followed by a Value. An all-zero magic
// means the region has never been written.
//
// C reference: typedef struct zio_block_tail zio_block_tail_t.
type Tail struct {
	Endian endian.Endian
	Value  Value
}

// TailFromBytes decodes a Tail, deriving the byte order from the magic.
func TailFromBytes(data []byte) (Tail, error) {
	d, err := endian.NewDecoderFromMagic(data, TailMagic)
	if err != nil {
		return Tail{}, err
	}

	value, err := ValueFromDecoder(d)
	if err != nil {
		return Tail{}, err
	}

	return Tail{Endian: d.Endian(), Value: value}, nil
}

// ToBytes encodes the Tail in its own byte order.
func (t Tail) ToBytes(data []byte) error {
	e := endian.NewEncoder(data, t.Endian)

	if err := e.PutUint64(TailMagic); err != nil {
		return err
	}
	return t.Value.ToEncoder(e)
}
