package phys

import (
	"fmt"

	"github.com/scigolib/zpool/endian"
	"github.com/scigolib/zpool/internal/utils"
)

// Object set byte lengths for the three on-disk variants. The variant is
// selected by the remaining input length.
const (
	ObjectSetMacLength = 32

	ObjectSetLengthV1 = DnodeLength + ZilHeaderLength + 16 + 2*ObjectSetMacLength + 240
	ObjectSetLengthV2 = ObjectSetLengthV1 + 2*DnodeLength
	ObjectSetLengthV3 = ObjectSetLengthV2 + DnodeLength + 1536
)

// Object set flag bits.
const (
	objectSetFlagUserAccountingComplete       = uint64(1) << 0
	objectSetFlagUserObjectAccountingComplete = uint64(1) << 1
	objectSetFlagProjectQuotaComplete         = uint64(1) << 2

	objectSetFlagAll = objectSetFlagUserAccountingComplete |
		objectSetFlagUserObjectAccountingComplete |
		objectSetFlagProjectQuotaComplete
)

// ObjectSetType identifies the kind of dataset an object set describes.
//
// C reference: typedef enum dmu_objset_type dmu_objset_type_t.
type ObjectSetType uint64

// Object set type values as stored on disk.
const (
	ObjectSetNone ObjectSetType = iota
	ObjectSetMeta
	ObjectSetZfs
	ObjectSetZvol
	ObjectSetOther
	ObjectSetAny
	ObjectSetNumTypes
)

var objectSetTypeNames = [...]string{
	"None", "Meta", "ZFS", "ZVol", "Other", "Any", "NumTypes",
}

// ObjectSetTypeFromValue converts a raw numeric object set type, rejecting
// unknown values.
func ObjectSetTypeFromValue(v uint64) (ObjectSetType, error) {
	if v >= uint64(len(objectSetTypeNames)) {
		return 0, &InvalidObjectSetTypeError{Value: v}
	}
	return ObjectSetType(v), nil
}

// String implements fmt.Stringer.
func (t ObjectSetType) String() string {
	if int(t) < len(objectSetTypeNames) {
		return objectSetTypeNames[t]
	}
	return fmt.Sprintf("ObjectSetType(%d)", uint64(t))
}

// ObjectSet is the container describing the dnodes of a dataset: a meta
// dnode, the intent log header, the dataset type and accounting flags, and
// two 32-byte MACs. V2 adds user and group accounting dnodes; V3 adds a
// project accounting dnode.
//
// C reference: typedef struct objset_phys objset_phys_t.
type ObjectSet struct {
	MetaDnode                    Dnode
	ZilHeader                    ZilHeader
	Type                         ObjectSetType
	UserAccountingComplete       bool
	UserObjectAccountingComplete bool
	ProjectQuotaComplete         bool
	PortableMac                  [ObjectSetMacLength]byte
	LocalMac                     [ObjectSetMacLength]byte
	Extension                    ObjectSetExtension
}

// ObjectSetExtension is the optional object set tail: nil for V1,
// ObjectSetExtensionTwo for V2, ObjectSetExtensionThree for V3.
type ObjectSetExtension interface {
	isObjectSetExtension()
}

// ObjectSetExtensionTwo holds the V2 accounting dnodes.
type ObjectSetExtensionTwo struct {
	UserUsed  Dnode
	GroupUsed Dnode
}

// ObjectSetExtensionThree holds the V3 accounting dnodes.
type ObjectSetExtensionThree struct {
	UserUsed    Dnode
	GroupUsed   Dnode
	ProjectUsed Dnode
}

func (*ObjectSetExtensionTwo) isObjectSetExtension()   {}
func (*ObjectSetExtensionThree) isObjectSetExtension() {}

// ObjectSetFromDecoder decodes an ObjectSet, selecting the length variant
// from the remaining input.
func ObjectSetFromDecoder(d *endian.Decoder) (*ObjectSet, error) {
	var os ObjectSet

	metaDnode, err := DnodeFromDecoder(d)
	if err != nil {
		return nil, utils.WrapError("object set meta dnode decode failed", err)
	}
	os.MetaDnode = *metaDnode

	zilHeader, err := ZilHeaderFromDecoder(d)
	if err != nil {
		return nil, utils.WrapError("object set zil header decode failed", err)
	}
	os.ZilHeader = *zilHeader

	osType, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	if os.Type, err = ObjectSetTypeFromValue(osType); err != nil {
		return nil, err
	}

	flags, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	if flags&^objectSetFlagAll != 0 {
		return nil, &ObjectSetInvalidFlagsError{Flags: flags}
	}
	os.UserAccountingComplete = flags&objectSetFlagUserAccountingComplete != 0
	os.UserObjectAccountingComplete = flags&objectSetFlagUserObjectAccountingComplete != 0
	os.ProjectQuotaComplete = flags&objectSetFlagProjectQuotaComplete != 0

	mac, err := d.Bytes(ObjectSetMacLength)
	if err != nil {
		return nil, err
	}
	copy(os.PortableMac[:], mac)

	if mac, err = d.Bytes(ObjectSetMacLength); err != nil {
		return nil, err
	}
	copy(os.LocalMac[:], mac)

	if err := d.SkipZeroPadding(240); err != nil {
		return nil, err
	}

	// Remaining length selects the extension variant.
	if d.IsEmpty() {
		return &os, nil
	}

	userUsed, err := DnodeFromDecoder(d)
	if err != nil {
		return nil, utils.WrapError("object set user used dnode decode failed", err)
	}
	groupUsed, err := DnodeFromDecoder(d)
	if err != nil {
		return nil, utils.WrapError("object set group used dnode decode failed", err)
	}

	if d.IsEmpty() {
		os.Extension = &ObjectSetExtensionTwo{
			UserUsed:  *userUsed,
			GroupUsed: *groupUsed,
		}
		return &os, nil
	}

	projectUsed, err := DnodeFromDecoder(d)
	if err != nil {
		return nil, utils.WrapError("object set project used dnode decode failed", err)
	}

	if err := d.SkipZeroPadding(1536); err != nil {
		return nil, err
	}

	os.Extension = &ObjectSetExtensionThree{
		UserUsed:    *userUsed,
		GroupUsed:   *groupUsed,
		ProjectUsed: *projectUsed,
	}
	return &os, nil
}

// ToEncoder encodes the ObjectSet. The length written is selected by the
// extension variant.
func (os *ObjectSet) ToEncoder(e *endian.Encoder) error {
	if err := os.MetaDnode.ToEncoder(e); err != nil {
		return err
	}
	if err := os.ZilHeader.ToEncoder(e); err != nil {
		return err
	}
	if err := e.PutUint64(uint64(os.Type)); err != nil {
		return err
	}

	var flags uint64
	if os.UserAccountingComplete {
		flags |= objectSetFlagUserAccountingComplete
	}
	if os.UserObjectAccountingComplete {
		flags |= objectSetFlagUserObjectAccountingComplete
	}
	if os.ProjectQuotaComplete {
		flags |= objectSetFlagProjectQuotaComplete
	}
	if err := e.PutUint64(flags); err != nil {
		return err
	}

	if err := e.PutBytes(os.PortableMac[:]); err != nil {
		return err
	}
	if err := e.PutBytes(os.LocalMac[:]); err != nil {
		return err
	}
	if err := e.PutZeroPadding(240); err != nil {
		return err
	}

	switch ext := os.Extension.(type) {
	case nil:
		return nil
	case *ObjectSetExtensionTwo:
		if err := ext.UserUsed.ToEncoder(e); err != nil {
			return err
		}
		return ext.GroupUsed.ToEncoder(e)
	case *ObjectSetExtensionThree:
		if err := ext.UserUsed.ToEncoder(e); err != nil {
			return err
		}
		if err := ext.GroupUsed.ToEncoder(e); err != nil {
			return err
		}
		if err := ext.ProjectUsed.ToEncoder(e); err != nil {
			return err
		}
		return e.PutZeroPadding(1536)
	default:
		return fmt.Errorf("phys: unknown object set extension variant %T", os.Extension)
	}
}

// InvalidObjectSetTypeError reports an unknown object set type value.
type InvalidObjectSetTypeError struct {
	Value uint64
}

// Error implements the error interface.
func (e *InvalidObjectSetTypeError) Error() string {
	return fmt.Sprintf("phys: invalid object set type value %d", e.Value)
}

// ObjectSetInvalidFlagsError reports unknown object set flag bits.
type ObjectSetInvalidFlagsError struct {
	Flags uint64
}

// Error implements the error interface.
func (e *ObjectSetInvalidFlagsError) Error() string {
	return fmt.Sprintf("phys: invalid object set flags 0x%016x", e.Flags)
}
