package phys

import "fmt"

// DmuType identifies the kind of DMU object a dnode or block pointer
// describes.
//
// C reference: enum dmu_object_type.
type DmuType uint8

// DMU object type values as stored on disk.
const (
	DmuNone DmuType = iota
	DmuObjectDirectory
	DmuObjectArray
	DmuPackedNvList
	DmuPackedNvListSize
	DmuBpObject
	DmuBpObjectHeader
	DmuSpaceMapHeader
	DmuSpaceMap
	DmuIntentLog
	DmuDnode
	DmuObjectSet
	DmuDslDirectory
	DmuDslDirectoryChildMap
	DmuDslDsSnapshotMap
	DmuDslProperties
	DmuDslDataSet
	DmuZnode
	DmuOldAcl
	DmuPlainFileContents
	DmuDirectoryContents
	DmuMasterNode
	DmuUnlinkedSet
	DmuZvol
	DmuZvolProperty
	DmuPlainOther
	DmuUint64Other
	DmuZapOther
	DmuErrorLog
	DmuSpaHistory
	DmuSpaHistoryOffsets
	DmuPoolProperties
	DmuDslPermissions
	DmuAcl
	DmuSysAcl
	DmuFuid
	DmuFuidSize
	DmuNextClones
	DmuScanQueue
	DmuUserGroupUsed
	DmuUserGroupQuota
	DmuUserRefs
	DmuDdtZap
	DmuDdtStats
	DmuSysAttr
	DmuSysAttrMasterNode
	DmuSysAttrRegistration
	DmuSysAttrLayouts
	DmuScanXlate
	DmuDedup
	DmuDeadList
	DmuDeadListHeader
	DmuClones
	DmuBpObjectSubObject
)

var dmuTypeNames = [...]string{
	"None", "ObjectDirectory", "ObjectArray", "PackedNvList", "PackedNvListSize",
	"BpObject", "BpObjectHeader", "SpaceMapHeader", "SpaceMap", "IntentLog",
	"Dnode", "ObjectSet", "DslDirectory", "DslDirectoryChildMap",
	"DslDsSnapshotMap", "DslProperties", "DslDataSet", "Znode", "OldAcl",
	"PlainFileContents", "DirectoryContents", "MasterNode", "UnlinkedSet",
	"Zvol", "ZvolProperty", "PlainOther", "Uint64Other", "ZapOther",
	"ErrorLog", "SpaHistory", "SpaHistoryOffsets", "PoolProperties",
	"DslPermissions", "Acl", "SysAcl", "Fuid", "FuidSize", "NextClones",
	"ScanQueue", "UserGroupUsed", "UserGroupQuota", "UserRefs", "DdtZap",
	"DdtStats", "SysAttr", "SysAttrMasterNode", "SysAttrRegistration",
	"SysAttrLayouts", "ScanXlate", "Dedup", "DeadList", "DeadListHeader",
	"Clones", "BpObjectSubObject",
}

// DmuTypeFromValue converts a raw numeric DMU type, rejecting unknown values.
func DmuTypeFromValue(v uint8) (DmuType, error) {
	if int(v) >= len(dmuTypeNames) {
		return 0, &InvalidDmuTypeError{Value: v}
	}
	return DmuType(v), nil
}

// String implements fmt.Stringer.
func (t DmuType) String() string {
	if int(t) < len(dmuTypeNames) {
		return dmuTypeNames[t]
	}
	return fmt.Sprintf("DmuType(%d)", uint8(t))
}

// InvalidDmuTypeError reports an unknown DMU type value.
type InvalidDmuTypeError struct {
	Value uint8
}

// Error implements the error interface.
func (e *InvalidDmuTypeError) Error() string {
	return fmt.Sprintf("phys: invalid dmu type value %d", e.Value)
}
