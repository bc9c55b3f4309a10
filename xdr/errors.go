package xdr

import "fmt"

// EndOfInputError reports a read past the end of the decoder's data.
type EndOfInputError struct {
	Offset int
	Length int
	Count  int
}

// Error implements the error interface.
func (e *EndOfInputError) Error() string {
	return fmt.Sprintf("xdr: end of input at offset %d, need %d bytes, total length %d",
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
	return fmt.Sprintf("xdr: end of output at offset %d, need %d bytes, total length %d",
		e.Offset, e.Count, e.Length)
}

// NotAlignedError reports a cursor position that is not 4-byte aligned.
type NotAlignedError struct {
	Offset int
}

// Error implements the error interface.
func (e *NotAlignedError) Error() string {
	return fmt.Sprintf("xdr: offset %d is not a multiple of 4", e.Offset)
}

// InvalidBooleanError reports a boolean encoding other than 0 or 1.
type InvalidBooleanError struct {
	Offset int
	Value  uint32
}

// Error implements the error interface.
func (e *InvalidBooleanError) Error() string {
	return fmt.Sprintf("xdr: invalid boolean %d at offset %d", e.Value, e.Offset)
}

// InvalidStrError reports string bytes that are not valid UTF-8.
type InvalidStrError struct {
	Offset int
}

// Error implements the error interface.
func (e *InvalidStrError) Error() string {
	return fmt.Sprintf("xdr: invalid UTF-8 string at offset %d", e.Offset)
}

// I8ConversionError reports an i32 that does not fit in an int8.
type I8ConversionError struct {
	Value int32
}

// Error implements the error interface.
func (e *I8ConversionError) Error() string {
	return fmt.Sprintf("xdr: value %d does not fit in int8", e.Value)
}

// I16ConversionError reports an i32 that does not fit in an int16.
type I16ConversionError struct {
	Value int32
}

// Error implements the error interface.
func (e *I16ConversionError) Error() string {
	return fmt.Sprintf("xdr: value %d does not fit in int16", e.Value)
}

// U8ConversionError reports a u32 that does not fit in a uint8.
type U8ConversionError struct {
	Value uint32
}

// Error implements the error interface.
func (e *U8ConversionError) Error() string {
	return fmt.Sprintf("xdr: value %d does not fit in uint8", e.Value)
}

// U16ConversionError reports a u32 that does not fit in a uint16.
type U16ConversionError struct {
	Value uint32
}

// Error implements the error interface.
func (e *U16ConversionError) Error() string {
	return fmt.Sprintf("xdr: value %d does not fit in uint16", e.Value)
}
