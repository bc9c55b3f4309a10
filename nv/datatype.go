// Package nv implements the decoder for ZFS name/value lists: the
// self-describing sequence of typed (name, value) pairs stored in the label
// NvPairs region. Payloads are read through the XDR codec.
package nv

import "fmt"

// DataType identifies the payload shape of a name/value pair. Values match
// the historical on-disk encoding.
type DataType uint32

// Data type values as stored on disk.
const (
	Boolean DataType = iota + 1
	Byte
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	String
	ByteArray
	Int16Array
	Uint16Array
	Int32Array
	Uint32Array
	Int64Array
	Uint64Array
	StringArray
	HrTime
	NvList
	NvListArray
	BooleanValue
	Int8
	Uint8
	BooleanArray
	Int8Array
	Uint8Array
	Double
)

var dataTypeNames = [...]string{
	"Boolean", "Byte", "Int16", "Uint16", "Int32", "Uint32", "Int64",
	"Uint64", "String", "ByteArray", "Int16Array", "Uint16Array",
	"Int32Array", "Uint32Array", "Int64Array", "Uint64Array", "StringArray",
	"HrTime", "NvList", "NvListArray", "BooleanValue", "Int8", "Uint8",
	"BooleanArray", "Int8Array", "Uint8Array", "Double",
}

// DataTypeFromValue converts a raw numeric data type, rejecting unknown
// values.
func DataTypeFromValue(v uint32) (DataType, error) {
	if v < 1 || v > uint32(len(dataTypeNames)) {
		return 0, &InvalidDataTypeError{Value: v}
	}
	return DataType(v), nil
}

// String implements fmt.Stringer.
func (t DataType) String() string {
	if t >= 1 && int(t) <= len(dataTypeNames) {
		return dataTypeNames[t-1]
	}
	return fmt.Sprintf("DataType(%d)", uint32(t))
}

// checkCount validates the element count against the data type: booleans
// carry none, scalars exactly one, arrays any number.
func checkCount(t DataType, count int) error {
	switch t {
	case Boolean:
		if count != 0 {
			return &InvalidCountError{Type: t, Count: count}
		}
	case Byte, Int16, Uint16, Int32, Uint32, Int64, Uint64, String,
		HrTime, NvList, BooleanValue, Int8, Uint8, Double:
		if count != 1 {
			return &InvalidCountError{Type: t, Count: count}
		}
	case ByteArray, Int16Array, Uint16Array, Int32Array, Uint32Array,
		Int64Array, Uint64Array, StringArray, NvListArray, BooleanArray,
		Int8Array, Uint8Array:
		// Arrays have from 0 to N values.
	}
	return nil
}

// Encoding identifies how a list's payloads are encoded.
type Encoding uint8

// Encoding values as stored on disk.
const (
	EncodingNative Encoding = iota
	EncodingXdr
)

// String implements fmt.Stringer.
func (e Encoding) String() string {
	switch e {
	case EncodingNative:
		return "Native"
	case EncodingXdr:
		return "Xdr"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// Unique identifies a list's pair uniqueness policy.
type Unique uint32

// Uniqueness policy values as stored on disk.
const (
	UniqueNone Unique = iota
	UniqueName
	UniqueNameType
)

// String implements fmt.Stringer.
func (u Unique) String() string {
	switch u {
	case UniqueNone:
		return "None"
	case UniqueName:
		return "Name"
	case UniqueNameType:
		return "NameType"
	}
	return fmt.Sprintf("Unique(%d)", uint32(u))
}
