package checksum

import "encoding/binary"

// Fletcher2BE computes the fletcher2 checksum of big-endian data.
//
// Consumes data 16 bytes at a time; remainder bytes are not included.
func Fletcher2BE(data []byte) [4]uint64 {
	var c [4]uint64

	for len(data) >= 16 {
		x := binary.BigEndian.Uint64(data)
		y := binary.BigEndian.Uint64(data[8:])
		data = data[16:]

		c[0] += x
		c[1] += y
		c[2] += c[0]
		c[3] += c[1]
	}

	return c
}

// Fletcher2LE computes the fletcher2 checksum of little-endian data.
//
// Consumes data 16 bytes at a time; remainder bytes are not included.
func Fletcher2LE(data []byte) [4]uint64 {
	var c [4]uint64

	for len(data) >= 16 {
		x := binary.LittleEndian.Uint64(data)
		y := binary.LittleEndian.Uint64(data[8:])
		data = data[16:]

		c[0] += x
		c[1] += y
		c[2] += c[0]
		c[3] += c[1]
	}

	return c
}

// Fletcher4BE computes the fletcher4 checksum of big-endian data.
//
// Consumes data 4 bytes at a time; remainder bytes are not included.
func Fletcher4BE(data []byte) [4]uint64 {
	var c [4]uint64

	for len(data) >= 4 {
		v := uint64(binary.BigEndian.Uint32(data))
		data = data[4:]

		c[0] += v
		c[1] += c[0]
		c[2] += c[1]
		c[3] += c[2]
	}

	return c
}

// Fletcher4LE computes the fletcher4 checksum of little-endian data.
//
// Consumes data 4 bytes at a time; remainder bytes are not included.
func Fletcher4LE(data []byte) [4]uint64 {
	var c [4]uint64

	for len(data) >= 4 {
		v := uint64(binary.LittleEndian.Uint32(data))
		data = data[4:]

		c[0] += v
		c[1] += c[0]
		c[2] += c[1]
		c[3] += c[2]
	}

	return c
}
