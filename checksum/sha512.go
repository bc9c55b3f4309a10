package checksum

import (
	"crypto/sha512"
	"encoding/binary"
)

// sha512ToWords reads a SHA-512/256 digest as four big-endian 64-bit words.
func sha512ToWords(digest [32]byte) [4]uint64 {
	var w [4]uint64
	for i := range w {
		w[i] = binary.BigEndian.Uint64(digest[i*8:])
	}
	return w
}

// Sha512_256Digest computes the SHA-512/256 checksum of data in the native
// four-word format.
func Sha512_256Digest(data []byte) [4]uint64 {
	return sha512ToWords(sha512.Sum512_256(data))
}

// Sha512_256DigestSlices computes the SHA-512/256 checksum of the logical
// concatenation of slices, without copying.
func Sha512_256DigestSlices(slices ...[]byte) [4]uint64 {
	h := sha512.New512_256()
	for _, s := range slices {
		h.Write(s)
	}

	var digest [32]byte
	h.Sum(digest[:0])

	return sha512ToWords(digest)
}
