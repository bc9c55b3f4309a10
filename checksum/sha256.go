package checksum

import (
	"encoding/binary"

	sha256 "github.com/minio/sha256-simd"
)

// sha256ToWords repacks a SHA-256 digest into the native four-word format:
// the eight big-endian 32-bit output words are paired into four 64-bit words.
func sha256ToWords(digest [32]byte) [4]uint64 {
	var w [4]uint64
	for i := range w {
		hi := binary.BigEndian.Uint32(digest[i*8:])
		lo := binary.BigEndian.Uint32(digest[i*8+4:])
		w[i] = uint64(hi)<<32 | uint64(lo)
	}
	return w
}

// Sha256Digest computes the SHA-256 checksum of data in the native four-word
// format.
func Sha256Digest(data []byte) [4]uint64 {
	return sha256ToWords(sha256.Sum256(data))
}

// Sha256DigestSlices computes the SHA-256 checksum of the logical
// concatenation of slices, without copying.
func Sha256DigestSlices(slices ...[]byte) [4]uint64 {
	h := sha256.New()
	for _, s := range slices {
		h.Write(s)
	}

	var digest [32]byte
	h.Sum(digest[:0])

	return sha256ToWords(digest)
}
