// Package endian implements the bounded, endian-parameterised binary cursor
// used by every physical ZFS structure codec. A Decoder reads fixed-width
// integers and byte runs from a borrowed buffer; an Encoder is its symmetric
// dual writing into a caller-supplied buffer.
package endian

import "encoding/binary"

// Endian selects the byte order for every scalar read or write.
type Endian uint8

const (
	// Big is big-endian byte order.
	Big Endian = iota
	// Little is little-endian byte order.
	Little
)

// Native is the byte order of the host.
var Native = func() Endian {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return Little
	}
	return Big
}()

// Swap is the opposite of Native.
var Swap = func() Endian {
	if Native == Little {
		return Big
	}
	return Little
}()

// String implements fmt.Stringer.
func (e Endian) String() string {
	if e == Big {
		return "Big"
	}
	return "Little"
}

// order returns the encoding/binary byte order for e.
func (e Endian) order() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
