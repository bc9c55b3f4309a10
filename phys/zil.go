package phys

import (
	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
)

// ZilHeaderLength is the byte length of an encoded ZilHeader (192).
const ZilHeaderLength = BlockPointerLength + 64

// ZilHeader is the intent log header embedded in an object set.
//
// C reference: typedef struct zil_header zil_header_t.
type ZilHeader struct {
	ClaimTxg    uint64
	ReplaySeq   uint64
	Log         BlockPointer
	ClaimBlkSeq uint64
	Flags       uint64
	ClaimLrSeq  uint64
}

// ZilHeaderFromDecoder decodes a ZilHeader.
func ZilHeaderFromDecoder(d *endian.Decoder) (*ZilHeader, error) {
	var zh ZilHeader
	var err error

	if zh.ClaimTxg, err = d.Uint64(); err != nil {
		return nil, err
	}
	if zh.ReplaySeq, err = d.Uint64(); err != nil {
		return nil, err
	}
	if zh.Log, err = BlockPointerFromDecoder(d); err != nil {
		return nil, utils.WrapError("zil header block pointer decode failed", err)
	}
	if zh.ClaimBlkSeq, err = d.Uint64(); err != nil {
		return nil, err
	}
	if zh.Flags, err = d.Uint64(); err != nil {
		return nil, err
	}
	if zh.ClaimLrSeq, err = d.Uint64(); err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(24); err != nil {
		return nil, err
	}

	return &zh, nil
}

// ToEncoder encodes the ZilHeader.
func (zh *ZilHeader) ToEncoder(e *endian.Encoder) error {
	if err := e.PutUint64(zh.ClaimTxg); err != nil {
		return err
	}
	if err := e.PutUint64(zh.ReplaySeq); err != nil {
		return err
	}
	if err := BlockPointerToEncoder(zh.Log, e); err != nil {
		return err
	}
	if err := e.PutUint64(zh.ClaimBlkSeq); err != nil {
		return err
	}
	if err := e.PutUint64(zh.Flags); err != nil {
		return err
	}
	if err := e.PutUint64(zh.ClaimLrSeq); err != nil {
		return err
	}
	return e.PutZeroPadding(24)
}
