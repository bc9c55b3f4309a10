package nv

import (
	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
	"github.com/scigolib/zpool/xdr"
)

// Pair is one decoded name/value pair. Value holds the concrete payload:
// a scalar, a string, a byte slice, an *ArrayDecoder, or a *Decoder for a
// nested list; it is nil for the Boolean flag type. DecodedSize is carried
// verbatim and never interpreted.
type Pair struct {
	Name        string
	Type        DataType
	EncodedSize uint32
	DecodedSize uint32
	Value       interface{}
}

// Decoder streams the pairs of a name/value list. For the XDR encoding every
// integer is big-endian on the wire regardless of the header's endian byte,
// which governs the Native encoding only.
type Decoder struct {
	x        *xdr.Decoder
	encoding Encoding
	endian   endian.Endian
	unique   Unique
}

// NewDecoder initializes a Decoder from the start of a name/value list,
// including its four-byte header.
func NewDecoder(data []byte) (*Decoder, error) {
	if len(data) < 4 {
		return nil, &EndOfInputError{
			Offset: 0,
			Length: len(data),
			Count:  4,
			Detail: "list header is truncated",
		}
	}

	if data[0] > uint8(EncodingXdr) {
		return nil, &InvalidEncodingError{Encoding: data[0]}
	}
	encoding := Encoding(data[0])

	var e endian.Endian
	switch data[1] {
	case 0:
		e = endian.Big
	case 1:
		e = endian.Little
	default:
		return nil, &InvalidEndianError{Endian: data[1]}
	}

	if data[2] != 0 || data[3] != 0 {
		return nil, &InvalidReservedBytesError{Reserved: [2]byte{data[2], data[3]}}
	}

	return newPartialDecoder(encoding, e, data[4:])
}

// newPartialDecoder initializes a Decoder for a nested list region, which
// inherits encoding and endian from the parent and starts at the version
// word.
func newPartialDecoder(encoding Encoding, e endian.Endian, data []byte) (*Decoder, error) {
	if encoding != EncodingXdr {
		return nil, &UnsupportedEncodingError{Encoding: encoding}
	}

	x := xdr.NewDecoder(data)

	version, err := x.Uint32()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, &InvalidVersionError{Version: version}
	}

	flags, err := x.Uint32()
	if err != nil {
		return nil, err
	}
	uniqueFlags := flags & 0x3
	if uniqueFlags != flags || uniqueFlags > uint32(UniqueNameType) {
		return nil, &InvalidFlagsError{Flags: flags}
	}

	return &Decoder{
		x:        x,
		encoding: encoding,
		endian:   e,
		unique:   Unique(uniqueFlags),
	}, nil
}

// Encoding returns the list's payload encoding.
func (d *Decoder) Encoding() Encoding {
	return d.encoding
}

// Endian returns the endian recorded in the list header.
func (d *Decoder) Endian() endian.Endian {
	return d.endian
}

// Unique returns the list's pair uniqueness policy.
func (d *Decoder) Unique() Unique {
	return d.unique
}

// Reset moves the decoder back to the first pair.
func (d *Decoder) Reset() {
	d.x.Reset()
	// Skip version and flags; they were validated at construction.
	_ = d.x.Skip(8)
}

// NextPair returns the next pair, or nil at the end of the list (two
// consecutive zero sizes).
func (d *Decoder) NextPair() (*Pair, error) {
	startLen := d.x.Len()

	encodedSize, err := d.x.Uint32()
	if err != nil {
		return nil, err
	}
	decodedSize, err := d.x.Uint32()
	if err != nil {
		return nil, err
	}

	if encodedSize == 0 && decodedSize == 0 {
		return nil, nil
	}

	name, err := d.x.String()
	if err != nil {
		return nil, err
	}

	dataTypeRaw, err := d.x.Uint32()
	if err != nil {
		return nil, err
	}
	dataType, err := DataTypeFromValue(dataTypeRaw)
	if err != nil {
		return nil, err
	}

	countRaw, err := d.x.Uint32()
	if err != nil {
		return nil, err
	}
	count := int(countRaw)

	used := startLen - d.x.Len()
	if int(encodedSize) < used {
		return nil, &InvalidEncodedSizeError{EncodedSize: int(encodedSize), Used: used}
	}
	bytesRem := int(encodedSize) - used

	if err := checkCount(dataType, count); err != nil {
		return nil, err
	}

	value, err := d.decodeValue(dataType, count, bytesRem)
	if err != nil {
		return nil, err
	}

	used = startLen - d.x.Len()
	if used != int(encodedSize) {
		return nil, &InvalidEncodedSizeError{EncodedSize: int(encodedSize), Used: used}
	}

	return &Pair{
		Name:        name,
		Type:        dataType,
		EncodedSize: encodedSize,
		DecodedSize: decodedSize,
		Value:       value,
	}, nil
}

// carve slices off exactly count elements of elementSize bytes each.
func (d *Decoder) carve(dataType DataType, count, elementSize int) ([]byte, error) {
	n, err := utils.SafeMultiply(uint64(count), uint64(elementSize))
	if err != nil {
		return nil, &InvalidCountError{Type: dataType, Count: count}
	}
	return d.x.RawBytes(int(n))
}

//nolint:maintidx // The data type dispatch is a single flat switch by design.
func (d *Decoder) decodeValue(dataType DataType, count, bytesRem int) (interface{}, error) {
	switch dataType {
	case Boolean:
		return nil, nil

	case Byte:
		return d.x.Uint8()
	case Int16:
		return d.x.Int16()
	case Uint16:
		return d.x.Uint16()
	case Int32:
		return d.x.Int32()
	case Uint32:
		return d.x.Uint32()
	case Int64:
		return d.x.Int64()
	case Uint64:
		return d.x.Uint64()
	case String:
		return d.x.String()

	case ByteArray:
		return d.x.Bytes()
	case Int16Array:
		data, err := d.carve(dataType, count, 4)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Int16), nil
	case Uint16Array:
		data, err := d.carve(dataType, count, 4)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Uint16), nil
	case Int32Array:
		data, err := d.carve(dataType, count, 4)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Int32), nil
	case Uint32Array:
		data, err := d.carve(dataType, count, 4)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Uint32), nil
	case Int64Array:
		data, err := d.carve(dataType, count, 8)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Int64), nil
	case Uint64Array:
		data, err := d.carve(dataType, count, 8)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Uint64), nil
	case StringArray:
		data, err := d.x.RawBytes(bytesRem)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).String), nil

	case HrTime:
		return d.x.Int64()

	case NvList:
		data, err := d.x.RawBytes(bytesRem)
		if err != nil {
			return nil, err
		}
		return newPartialDecoder(d.encoding, d.endian, data)
	case NvListArray:
		data, err := d.x.RawBytes(bytesRem)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, listElement(d.encoding, d.endian)), nil

	case BooleanValue:
		return d.x.Bool()

	case Int8:
		return d.x.Int8()
	case Uint8:
		return d.x.Uint8()

	case BooleanArray:
		data, err := d.carve(dataType, count, 4)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Bool), nil
	case Int8Array:
		data, err := d.carve(dataType, count, 4)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Int8), nil
	case Uint8Array:
		data, err := d.carve(dataType, count, 4)
		if err != nil {
			return nil, err
		}
		return newArrayDecoder(data, count, (*xdr.Decoder).Uint8), nil

	case Double:
		return d.x.Float64()
	}

	return nil, &InvalidDataTypeError{Value: uint32(dataType)}
}

// listElement materialises one element of a list array. The element length
// is not stored, so it is measured with a probe decoder drained to its end
// of list, then the exact region is carved into a fresh decoder owned by
// the element.
func listElement(encoding Encoding, e endian.Endian) func(*xdr.Decoder) (*Decoder, error) {
	return func(x *xdr.Decoder) (*Decoder, error) {
		start := x.Len()

		rest, err := x.RawBytes(start)
		if err != nil {
			return nil, err
		}

		probe, err := newPartialDecoder(encoding, e, rest)
		if err != nil {
			return nil, err
		}
		for {
			pair, err := probe.NextPair()
			if err != nil {
				return nil, err
			}
			if pair == nil {
				break
			}
		}
		used := len(rest) - probe.x.Len()

		if err := x.Rewind(start); err != nil {
			return nil, err
		}
		element, err := x.RawBytes(used)
		if err != nil {
			return nil, err
		}

		return newPartialDecoder(encoding, e, element)
	}
}

// Find returns the first pair with the given name, or nil if the list does
// not contain it. The decoder is reset before scanning.
func (d *Decoder) Find(name string) (*Pair, error) {
	d.Reset()
	for {
		pair, err := d.NextPair()
		if err != nil {
			return nil, err
		}
		if pair == nil {
			return nil, nil
		}
		if pair.Name == name {
			return pair, nil
		}
	}
}
