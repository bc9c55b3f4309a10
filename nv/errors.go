package nv

import "fmt"

// EndOfArrayError reports a read past the last element of an array decoder.
type EndOfArrayError struct{}

// Error implements the error interface.
func (e *EndOfArrayError) Error() string {
	return "nv: end of array"
}

// EndOfInputError reports truncated list data.
type EndOfInputError struct {
	Offset int
	Length int
	Count  int
	Detail string
}

// Error implements the error interface.
func (e *EndOfInputError) Error() string {
	return fmt.Sprintf("nv: end of input at offset %d, need %d bytes, total length %d: %s",
		e.Offset, e.Count, e.Length, e.Detail)
}

// InvalidCountError reports an element count that is illegal for the data
// type.
type InvalidCountError struct {
	Type  DataType
	Count int
}

// Error implements the error interface.
func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("nv: invalid count %d for data type %s", e.Count, e.Type)
}

// InvalidDataTypeError reports an unknown data type value.
type InvalidDataTypeError struct {
	Value uint32
}

// Error implements the error interface.
func (e *InvalidDataTypeError) Error() string {
	return fmt.Sprintf("nv: invalid data type %d", e.Value)
}

// InvalidEncodedSizeError reports a pair whose payload did not consume
// exactly its declared encoded size.
type InvalidEncodedSizeError struct {
	EncodedSize int
	Used        int
}

// Error implements the error interface.
func (e *InvalidEncodedSizeError) Error() string {
	return fmt.Sprintf("nv: invalid encoded size %d, used %d", e.EncodedSize, e.Used)
}

// InvalidEncodingError reports an unknown encoding value in the list header.
type InvalidEncodingError struct {
	Encoding uint8
}

// Error implements the error interface.
func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("nv: invalid encoding %d", e.Encoding)
}

// UnsupportedEncodingError reports a recognised encoding whose payload
// format this decoder does not handle.
type UnsupportedEncodingError struct {
	Encoding Encoding
}

// Error implements the error interface.
func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("nv: unsupported encoding %s", e.Encoding)
}

// InvalidEndianError reports an unknown endian value in the list header.
type InvalidEndianError struct {
	Endian uint8
}

// Error implements the error interface.
func (e *InvalidEndianError) Error() string {
	return fmt.Sprintf("nv: invalid endian %d", e.Endian)
}

// InvalidFlagsError reports unknown list flag bits.
type InvalidFlagsError struct {
	Flags uint32
}

// Error implements the error interface.
func (e *InvalidFlagsError) Error() string {
	return fmt.Sprintf("nv: invalid flags 0x%08x", e.Flags)
}

// InvalidReservedBytesError reports non-zero reserved header bytes.
type InvalidReservedBytesError struct {
	Reserved [2]byte
}

// Error implements the error interface.
func (e *InvalidReservedBytesError) Error() string {
	return fmt.Sprintf("nv: invalid reserved bytes 0x%02x 0x%02x", e.Reserved[0], e.Reserved[1])
}

// InvalidVersionError reports a list version other than zero.
type InvalidVersionError struct {
	Version uint32
}

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("nv: invalid version %d", e.Version)
}
