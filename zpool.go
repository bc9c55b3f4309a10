// Package zpool provides a typed projection of the ZFS pool configuration
// stored in the label NvPairs region: pool identity, pool features, and the
// virtual device tree. The underlying byte-exact codecs live in the endian,
// xdr, checksum, phys and nv packages.
package zpool

import (
	"github.com/scigolib/zpool/internal/utils"
	"github.com/scigolib/zpool/nv"
)

// DecodePoolConfig decodes a pool configuration from the payload of a label
// NvPairs region.
func DecodePoolConfig(payload []byte) (*Pool, error) {
	decoder, err := nv.NewDecoder(payload)
	if err != nil {
		return nil, utils.WrapError("pool config list decode failed", err)
	}
	return PoolFromDecoder(decoder)
}
