package phys

import "fmt"

// CompressionType identifies the compression transform recorded for a block.
// The transforms themselves are applied outside this library.
//
// C reference: enum zio_compress.
type CompressionType uint8

// Compression type values as stored on disk.
const (
	CompressionInherit CompressionType = iota
	CompressionOn
	CompressionOff
	CompressionLzjb
	CompressionEmpty
	CompressionGzip1
	CompressionGzip2
	CompressionGzip3
	CompressionGzip4
	CompressionGzip5
	CompressionGzip6
	CompressionGzip7
	CompressionGzip8
	CompressionGzip9
	CompressionZle
	CompressionLz4
	CompressionZstd
)

var compressionTypeNames = [...]string{
	"Inherit", "On", "Off", "Lzjb", "Empty",
	"Gzip1", "Gzip2", "Gzip3", "Gzip4", "Gzip5",
	"Gzip6", "Gzip7", "Gzip8", "Gzip9",
	"Zle", "Lz4", "Zstd",
}

// CompressionTypeFromValue converts a raw numeric compression type, rejecting
// unknown values.
func CompressionTypeFromValue(v uint8) (CompressionType, error) {
	if int(v) >= len(compressionTypeNames) {
		return 0, &InvalidCompressionTypeError{Value: v}
	}
	return CompressionType(v), nil
}

// String implements fmt.Stringer.
func (t CompressionType) String() string {
	if int(t) < len(compressionTypeNames) {
		return compressionTypeNames[t]
	}
	return fmt.Sprintf("CompressionType(%d)", uint8(t))
}

// InvalidCompressionTypeError reports an unknown compression type value.
type InvalidCompressionTypeError struct {
	Value uint8
}

// Error implements the error interface.
func (e *InvalidCompressionTypeError) Error() string {
	return fmt.Sprintf("phys: invalid compression type value %d", e.Value)
}
