package checksum

import (
	"fmt"

	"github.com/scigolib/zpool/endian"
)

// BlockChecksum computes the checksum of an opaque data block using the given
// algorithm and byte order.
func BlockChecksum(data []byte, e endian.Endian, t Type) (Value, error) {
	words, err := blockWords(data, e, t)
	if err != nil {
		return Value{}, err
	}
	return Value{Words: words}, nil
}

// BlockVerify recomputes the checksum of an opaque data block and compares it
// word for word against expected.
func BlockVerify(data []byte, e endian.Endian, t Type, expected Value) error {
	words, err := blockWords(data, e, t)
	if err != nil {
		return err
	}
	if words != expected.Words {
		return &MismatchError{}
	}
	return nil
}

func blockWords(data []byte, e endian.Endian, t Type) ([4]uint64, error) {
	switch t {
	case Fletcher2:
		if e == endian.Little {
			return Fletcher2LE(data), nil
		}
		return Fletcher2BE(data), nil
	case Fletcher4:
		if e == endian.Little {
			return Fletcher4LE(data), nil
		}
		return Fletcher4BE(data), nil
	case Sha256:
		return Sha256Digest(data), nil
	case Sha512_256:
		return Sha512_256Digest(data), nil
	default:
		// Inherit, On, Off and friends are property values, not
		// algorithms; nothing can be computed for them.
		return [4]uint64{}, &UnsupportedTypeError{Type: t}
	}
}

// MismatchError reports a checksum that does not match the data.
type MismatchError struct{}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return "checksum: mismatch"
}

// UnsupportedTypeError reports a checksum type that is not computable.
type UnsupportedTypeError struct {
	Type Type
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("checksum: type %s is not computable", e.Type)
}
