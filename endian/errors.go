package endian

import "fmt"

// EndOfInputError reports a read past the end of the decoder's data.
type EndOfInputError struct {
	Offset int
	Length int
	Count  int
}

// Error implements the error interface.
func (e *EndOfInputError) Error() string {
	return fmt.Sprintf("endian: end of input at offset %d, need %d bytes, total length %d",
		e.Offset, e.Count, e.Length)
}

// EndOfOutputError reports a write past the end of the encoder's data.
type EndOfOutputError struct {
	Offset int
	Length int
	Count  int
}

// Error implements the error interface.
func (e *EndOfOutputError) Error() string {
	return fmt.Sprintf("endian: end of output at offset %d, need %d bytes, total length %d",
		e.Offset, e.Count, e.Length)
}

// InvalidMagicError reports a magic value that matches neither byte order.
type InvalidMagicError struct {
	Expected uint64
	Actual   [8]byte
}

// Error implements the error interface.
func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("endian: invalid magic, expected 0x%016x actual % x",
		e.Expected, e.Actual)
}

// NonZeroPaddingError reports padding bytes that were expected to be zero.
type NonZeroPaddingError struct{}

// Error implements the error interface.
func (e *NonZeroPaddingError) Error() string {
	return "endian: non-zero padding"
}

// RewindPastStartError reports a rewind beyond the start of the data.
type RewindPastStartError struct {
	Offset int
	Count  int
}

// Error implements the error interface.
func (e *RewindPastStartError) Error() string {
	return fmt.Sprintf("endian: rewind at offset %d, need %d bytes", e.Offset, e.Count)
}
