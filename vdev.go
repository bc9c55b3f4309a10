package zpool

import (
	"github.com/scigolib/zpool/internal/utils"
	"github.com/scigolib/zpool/nv"
)

// Vdev type strings as stored in a vdev configuration.
const (
	vdevTypeDisk      = "disk"
	vdevTypeFile      = "file"
	vdevTypeMirror    = "mirror"
	vdevTypeMissing   = "missing"
	vdevTypeRaidz     = "raidz"
	vdevTypeReplacing = "replacing"
	vdevTypeRoot      = "root"
)

// Vdev configuration keys, by the version that introduced them.
const (
	// V1.
	vdevConfigAshift        = "ashift"
	vdevConfigAsize         = "asize"
	vdevConfigChildren      = "children"
	vdevConfigCreateTxg     = "create_txg"
	vdevConfigDtl           = "DTL"
	vdevConfigDevID         = "devid"
	vdevConfigGuid          = "guid"
	vdevConfigID            = "id"
	vdevConfigMetaSlabArray = "metaslab_array"
	vdevConfigMetaSlabShift = "metaslab_shift"
	vdevConfigNparity       = "nparity"
	vdevConfigPath          = "path"
	vdevConfigType          = "type"
	vdevConfigWholeDisk     = "whole_disk"

	// V6.
	vdevConfigPhysPath = "phys_path"

	// V7.
	vdevConfigIsLog = "is_log"
)

// vdevCommonNames are the keys every vdev configuration may carry.
var vdevCommonNames = []string{
	vdevConfigID,
	vdevConfigType,
	vdevConfigGuid,
}

// VdevAlignmentMetaSlab is the allocation geometry of a top-level vdev. If
// ashift is present, the other three fields must be too.
type VdevAlignmentMetaSlab struct {
	Ashift        uint64
	Asize         uint64
	MetaSlabArray uint64
	MetaSlabShift uint64
}

func vdevAlignmentMetaSlabFromDecoder(d *nv.Decoder) (*VdevAlignmentMetaSlab, error) {
	ashift, ok, err := findOptionUint64(d, vdevConfigAshift)
	if err != nil {
		return nil, err
	}

	if !ok {
		for _, name := range []string{
			vdevConfigAsize, vdevConfigMetaSlabArray, vdevConfigMetaSlabShift,
		} {
			if _, present, err := findOptionUint64(d, name); err != nil {
				return nil, err
			} else if present {
				return nil, &InvalidConfigurationError{
					Reason: "'ashift' is missing, but 'asize', 'metaslab_array', or 'metaslab_shift' is set",
				}
			}
		}
		return nil, nil
	}

	ams := VdevAlignmentMetaSlab{Ashift: ashift}
	if ams.Asize, err = findUint64(d, vdevConfigAsize); err != nil {
		return nil, err
	}
	if ams.MetaSlabArray, err = findUint64(d, vdevConfigMetaSlabArray); err != nil {
		return nil, err
	}
	if ams.MetaSlabShift, err = findUint64(d, vdevConfigMetaSlabShift); err != nil {
		return nil, err
	}
	return &ams, nil
}

// Vdev is one of the virtual device variants. The variant is selected by the
// configuration's type string.
type Vdev interface {
	isVdev()
}

// VdevDisk is a leaf disk device.
type VdevDisk struct {
	Path      string
	WholeDisk bool

	AlignmentMetaSlab *VdevAlignmentMetaSlab
	CreateTxg         *uint64
	Dtl               *uint64
	DevID             *string
	IsLog             *bool
	PhysPath          *string
}

// VdevFile is a leaf file-backed device.
type VdevFile struct {
	Path string

	AlignmentMetaSlab *VdevAlignmentMetaSlab
	CreateTxg         *uint64
	Dtl               *uint64
	IsLog             *bool
}

// VdevMirror is an n-way mirror over child vdevs.
type VdevMirror struct {
	Children []VdevTree

	AlignmentMetaSlab *VdevAlignmentMetaSlab
	CreateTxg         *uint64
	Dtl               *uint64
	IsLog             *bool
}

// VdevRaidz is a RAID-Z stripe over child vdevs.
type VdevRaidz struct {
	Parity   uint64
	Children []VdevTree

	AlignmentMetaSlab *VdevAlignmentMetaSlab
	CreateTxg         *uint64
	Dtl               *uint64
	IsLog             *bool
}

// VdevReplacing is a temporary mirror formed while a child is replaced.
type VdevReplacing struct {
	Children []VdevTree

	AlignmentMetaSlab *VdevAlignmentMetaSlab
	CreateTxg         *uint64
	Dtl               *uint64
	IsLog             *bool
}

// VdevRoot is the aggregate root over the pool's top-level vdevs.
type VdevRoot struct {
	Children []VdevTree
}

// VdevMissing is a device that could not be opened at import.
type VdevMissing struct{}

func (*VdevDisk) isVdev()      {}
func (*VdevFile) isVdev()      {}
func (*VdevMirror) isVdev()    {}
func (*VdevRaidz) isVdev()     {}
func (*VdevReplacing) isVdev() {}
func (*VdevRoot) isVdev()      {}
func (*VdevMissing) isVdev()   {}

// VdevTree is one node of the virtual device tree: the common identity plus
// the type-selected variant.
type VdevTree struct {
	ID   uint64
	Guid uint64
	Vdev Vdev
}

// VdevTreeFromDecoder projects the vdev_tree entry of a pool configuration.
func VdevTreeFromDecoder(d *nv.Decoder) (*VdevTree, error) {
	tree, err := findList(d, poolConfigVdevTree)
	if err != nil {
		return nil, err
	}
	return vdevTreeFromList(tree)
}

// vdevTreeFromList projects one vdev configuration, recursing through
// children.
func vdevTreeFromList(d *nv.Decoder) (*VdevTree, error) {
	vdevType, err := findString(d, vdevConfigType)
	if err != nil {
		return nil, err
	}

	var vdev Vdev
	switch vdevType {
	case vdevTypeDisk:
		vdev, err = vdevDiskFromList(d)
	case vdevTypeFile:
		vdev, err = vdevFileFromList(d)
	case vdevTypeMirror:
		vdev, err = vdevMirrorFromList(d)
	case vdevTypeMissing:
		vdev, err = vdevMissingFromList(d)
	case vdevTypeRaidz:
		vdev, err = vdevRaidzFromList(d)
	case vdevTypeReplacing:
		vdev, err = vdevReplacingFromList(d)
	case vdevTypeRoot:
		vdev, err = vdevRootFromList(d)
	default:
		return nil, &UnknownTypeError{Type: vdevType, FullLength: len(vdevType)}
	}
	if err != nil {
		return nil, err
	}

	tree := VdevTree{Vdev: vdev}
	if tree.ID, err = findUint64(d, vdevConfigID); err != nil {
		return nil, err
	}
	if tree.Guid, err = findUint64(d, vdevConfigGuid); err != nil {
		return nil, err
	}
	return &tree, nil
}

// vdevChildren materialises the required children array of an aggregate
// vdev, recursing into each element.
func vdevChildren(d *nv.Decoder) ([]VdevTree, error) {
	array, ok, err := findListArray(d, vdevConfigChildren)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingValueError{Name: vdevConfigChildren}
	}

	children := make([]VdevTree, 0, array.Capacity())
	for array.Len() > 0 {
		element, err := array.Get()
		if err != nil {
			return nil, utils.WrapError("vdev child decode failed", err)
		}
		child, err := vdevTreeFromList(element)
		if err != nil {
			return nil, err
		}
		children = append(children, *child)
	}
	return children, nil
}

// vdevOptionals projects the optional keys shared by most vdev variants.
func vdevOptionals(d *nv.Decoder) (ams *VdevAlignmentMetaSlab, createTxg, dtl *uint64, isLog *bool, err error) {
	if ams, err = vdevAlignmentMetaSlabFromDecoder(d); err != nil {
		return nil, nil, nil, nil, err
	}
	if txg, ok, err := findOptionUint64(d, vdevConfigCreateTxg); err != nil {
		return nil, nil, nil, nil, err
	} else if ok {
		createTxg = &txg
	}
	if v, ok, err := findOptionUint64(d, vdevConfigDtl); err != nil {
		return nil, nil, nil, nil, err
	} else if ok {
		dtl = &v
	}
	if isLog, err = findOptionUint64Bool(d, vdevConfigIsLog); err != nil {
		return nil, nil, nil, nil, err
	}
	return ams, createTxg, dtl, isLog, nil
}

func vdevDiskFromList(d *nv.Decoder) (*VdevDisk, error) {
	known := append([]string{
		vdevConfigAshift,
		vdevConfigAsize,
		vdevConfigCreateTxg,
		vdevConfigDtl,
		vdevConfigDevID,
		vdevConfigIsLog,
		vdevConfigMetaSlabArray,
		vdevConfigMetaSlabShift,
		vdevConfigPath,
		vdevConfigPhysPath,
		vdevConfigWholeDisk,
	}, vdevCommonNames...)
	if err := checkKnownNames(d, known); err != nil {
		return nil, err
	}

	var disk VdevDisk
	var err error

	if disk.Path, err = findString(d, vdevConfigPath); err != nil {
		return nil, err
	}
	if disk.WholeDisk, err = findUint64Bool(d, vdevConfigWholeDisk); err != nil {
		return nil, err
	}

	if disk.AlignmentMetaSlab, disk.CreateTxg, disk.Dtl, disk.IsLog, err = vdevOptionals(d); err != nil {
		return nil, err
	}

	if devID, ok, err := findOptionString(d, vdevConfigDevID); err != nil {
		return nil, err
	} else if ok {
		disk.DevID = &devID
	}
	if physPath, ok, err := findOptionString(d, vdevConfigPhysPath); err != nil {
		return nil, err
	} else if ok {
		disk.PhysPath = &physPath
	}

	return &disk, nil
}

func vdevFileFromList(d *nv.Decoder) (*VdevFile, error) {
	known := append([]string{
		vdevConfigAshift,
		vdevConfigAsize,
		vdevConfigCreateTxg,
		vdevConfigDtl,
		vdevConfigIsLog,
		vdevConfigMetaSlabArray,
		vdevConfigMetaSlabShift,
		vdevConfigPath,
	}, vdevCommonNames...)
	if err := checkKnownNames(d, known); err != nil {
		return nil, err
	}

	var file VdevFile
	var err error

	if file.Path, err = findString(d, vdevConfigPath); err != nil {
		return nil, err
	}
	if file.AlignmentMetaSlab, file.CreateTxg, file.Dtl, file.IsLog, err = vdevOptionals(d); err != nil {
		return nil, err
	}

	return &file, nil
}

func vdevMirrorFromList(d *nv.Decoder) (*VdevMirror, error) {
	known := append([]string{
		vdevConfigAshift,
		vdevConfigAsize,
		vdevConfigChildren,
		vdevConfigCreateTxg,
		vdevConfigDtl,
		vdevConfigIsLog,
		vdevConfigMetaSlabArray,
		vdevConfigMetaSlabShift,
	}, vdevCommonNames...)
	if err := checkKnownNames(d, known); err != nil {
		return nil, err
	}

	var mirror VdevMirror
	var err error

	if mirror.Children, err = vdevChildren(d); err != nil {
		return nil, err
	}
	if mirror.AlignmentMetaSlab, mirror.CreateTxg, mirror.Dtl, mirror.IsLog, err = vdevOptionals(d); err != nil {
		return nil, err
	}

	return &mirror, nil
}

func vdevMissingFromList(d *nv.Decoder) (*VdevMissing, error) {
	if err := checkKnownNames(d, vdevCommonNames); err != nil {
		return nil, err
	}
	return &VdevMissing{}, nil
}

func vdevRaidzFromList(d *nv.Decoder) (*VdevRaidz, error) {
	known := append([]string{
		vdevConfigAshift,
		vdevConfigAsize,
		vdevConfigChildren,
		vdevConfigCreateTxg,
		vdevConfigDtl,
		vdevConfigIsLog,
		vdevConfigMetaSlabArray,
		vdevConfigMetaSlabShift,
		vdevConfigNparity,
	}, vdevCommonNames...)
	if err := checkKnownNames(d, known); err != nil {
		return nil, err
	}

	var raidz VdevRaidz
	var err error

	if raidz.Parity, err = findUint64(d, vdevConfigNparity); err != nil {
		return nil, err
	}
	if raidz.Children, err = vdevChildren(d); err != nil {
		return nil, err
	}
	if raidz.AlignmentMetaSlab, raidz.CreateTxg, raidz.Dtl, raidz.IsLog, err = vdevOptionals(d); err != nil {
		return nil, err
	}

	return &raidz, nil
}

func vdevReplacingFromList(d *nv.Decoder) (*VdevReplacing, error) {
	known := append([]string{
		vdevConfigAshift,
		vdevConfigAsize,
		vdevConfigChildren,
		vdevConfigCreateTxg,
		vdevConfigDtl,
		vdevConfigIsLog,
		vdevConfigMetaSlabArray,
		vdevConfigMetaSlabShift,
	}, vdevCommonNames...)
	if err := checkKnownNames(d, known); err != nil {
		return nil, err
	}

	var replacing VdevReplacing
	var err error

	if replacing.Children, err = vdevChildren(d); err != nil {
		return nil, err
	}
	if replacing.AlignmentMetaSlab, replacing.CreateTxg, replacing.Dtl, replacing.IsLog, err = vdevOptionals(d); err != nil {
		return nil, err
	}

	return &replacing, nil
}

func vdevRootFromList(d *nv.Decoder) (*VdevRoot, error) {
	known := append([]string{vdevConfigChildren}, vdevCommonNames...)
	if err := checkKnownNames(d, known); err != nil {
		return nil, err
	}

	var root VdevRoot
	var err error

	if root.Children, err = vdevChildren(d); err != nil {
		return nil, err
	}

	return &root, nil
}
