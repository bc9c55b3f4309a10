package checksum

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
)

// LabelChecksum computes the embedded tail checksum of a label region and
// writes it into the last 40 bytes of data.
//
// The region's absolute byte offset within the vdev is mixed into the digest
// as a salt: the tail is pre-filled with (magic, offset, 0, 0, 0), SHA-256 is
// taken over the entire region, and the resulting four words then overwrite
// the tail's words.
func LabelChecksum(data []byte, offset uint64, e endian.Endian) error {
	length := len(data)
	if length < TailLength {
		return &LabelInvalidLengthError{Length: length}
	}

	tail := Tail{
		Endian: e,
		Value:  Value{Words: [4]uint64{offset, 0, 0, 0}},
	}
	if err := tail.ToBytes(data[length-TailLength:]); err != nil {
		return utils.WrapError("label checksum tail encode failed", err)
	}

	tail.Value = Value{Words: Sha256Digest(data)}
	if err := tail.ToBytes(data[length-TailLength:]); err != nil {
		return utils.WrapError("label checksum tail encode failed", err)
	}

	return nil
}

// LabelVerify checks the embedded tail checksum of a label region against the
// given vdev byte offset. The byte order is taken from the tail's magic.
//
// Returns EmptyMagicError for a never-written region (all-zero magic), which
// is distinguishable from corruption.
func LabelVerify(data []byte, offset uint64) error {
	length := len(data)
	if length < TailLength {
		return &LabelInvalidLengthError{Length: length}
	}

	tail, err := TailFromBytes(data[length-TailLength:])
	if err != nil {
		var magicErr *endian.InvalidMagicError
		if errors.As(err, &magicErr) {
			if binary.NativeEndian.Uint64(magicErr.Actual[:]) == 0 {
				return &EmptyMagicError{}
			}
		}
		return utils.WrapError("label verify tail decode failed", err)
	}

	// Rebuild the synthetic 32-byte offset block the writer hashed over.
	offsetBlock := utils.GetBuffer(ValueLength)
	defer utils.ReleaseBuffer(offsetBlock)

	enc := endian.NewEncoder(offsetBlock, tail.Endian)
	for _, w := range [4]uint64{offset, 0, 0, 0} {
		if err := enc.PutUint64(w); err != nil {
			return utils.WrapError("label verify offset encode failed", err)
		}
	}

	computed := Sha256DigestSlices(data[:length-ValueLength], offsetBlock)
	if computed != tail.Value.Words {
		return &MismatchError{}
	}

	return nil
}

// LabelInvalidLengthError reports a label region shorter than the checksum
// tail.
type LabelInvalidLengthError struct {
	Length int
}

// Error implements the error interface.
func (e *LabelInvalidLengthError) Error() string {
	return fmt.Sprintf("checksum: label region length %d is shorter than the tail", e.Length)
}

// EmptyMagicError reports a label region whose tail magic is zero, meaning
// the region was never written.
type EmptyMagicError struct{}

// Error implements the error interface.
func (e *EmptyMagicError) Error() string {
	return "checksum: empty label magic"
}
