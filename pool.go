package zpool

import (
	"fmt"

	"github.com/scigolib/zpool/nv"
)

// PoolVersion is the on-disk pool format version.
//
// Historically it was incremented when the format of data on disk changed;
// since V5000, changes are indicated through PoolFeaturesForRead instead.
//
// C reference: SPA_VERSION.
type PoolVersion uint64

// Pool version values as stored on disk.
const (
	PoolVersion1    PoolVersion = 1
	PoolVersion2    PoolVersion = 2
	PoolVersion3    PoolVersion = 3
	PoolVersion4    PoolVersion = 4
	PoolVersion5    PoolVersion = 5
	PoolVersion6    PoolVersion = 6
	PoolVersion7    PoolVersion = 7
	PoolVersion8    PoolVersion = 8
	PoolVersion9    PoolVersion = 9
	PoolVersion10   PoolVersion = 10
	PoolVersion11   PoolVersion = 11
	PoolVersion12   PoolVersion = 12
	PoolVersion13   PoolVersion = 13
	PoolVersion14   PoolVersion = 14
	PoolVersion15   PoolVersion = 15
	PoolVersion16   PoolVersion = 16
	PoolVersion17   PoolVersion = 17
	PoolVersion18   PoolVersion = 18
	PoolVersion19   PoolVersion = 19
	PoolVersion20   PoolVersion = 20
	PoolVersion21   PoolVersion = 21
	PoolVersion22   PoolVersion = 22
	PoolVersion23   PoolVersion = 23
	PoolVersion24   PoolVersion = 24
	PoolVersion25   PoolVersion = 25
	PoolVersion26   PoolVersion = 26
	PoolVersion27   PoolVersion = 27
	PoolVersion28   PoolVersion = 28
	PoolVersion5000 PoolVersion = 5000
)

// PoolVersionFromValue converts a raw numeric pool version, rejecting
// unknown values.
func PoolVersionFromValue(v uint64) (PoolVersion, error) {
	if (v >= 1 && v <= 28) || v == 5000 {
		return PoolVersion(v), nil
	}
	return 0, &UnsupportedVersionError{Version: v}
}

// PoolState is the import state of a pool.
//
// C reference: enum pool_state pool_state_t.
type PoolState uint64

// Pool state values as stored on disk.
const (
	PoolStateActive PoolState = iota
	PoolStateExported
	PoolStateDestroyed
	PoolStateSpare
	PoolStateL2Cache
)

var poolStateNames = [...]string{
	"Active", "Exported", "Destroyed", "Spare", "L2Cache",
}

// PoolStateFromValue converts a raw numeric pool state, rejecting unknown
// values.
func PoolStateFromValue(v uint64) (PoolState, error) {
	if v >= uint64(len(poolStateNames)) {
		return 0, &InvalidStateError{State: v}
	}
	return PoolState(v), nil
}

// String implements fmt.Stringer.
func (s PoolState) String() string {
	if int(s) < len(poolStateNames) {
		return poolStateNames[s]
	}
	return fmt.Sprintf("PoolState(%d)", uint64(s))
}

// PoolHealth is the health string recorded by pool versions before V3.
type PoolHealth uint8

// Pool health values.
const (
	PoolHealthDegraded PoolHealth = iota
	PoolHealthFaulted
	PoolHealthOnline
)

const (
	poolHealthDegradedName = "DEGRADED"
	poolHealthFaultedName  = "FAULTED"
	poolHealthOnlineName   = "ONLINE"
)

// PoolHealthFromString converts a health string, rejecting unknown values.
func PoolHealthFromString(s string) (PoolHealth, error) {
	switch s {
	case poolHealthDegradedName:
		return PoolHealthDegraded, nil
	case poolHealthFaultedName:
		return PoolHealthFaulted, nil
	case poolHealthOnlineName:
		return PoolHealthOnline, nil
	default:
		return 0, &InvalidPoolHealthError{Health: s, FullLength: len(s)}
	}
}

// String implements fmt.Stringer.
func (h PoolHealth) String() string {
	switch h {
	case PoolHealthDegraded:
		return poolHealthDegradedName
	case PoolHealthFaulted:
		return poolHealthFaultedName
	case PoolHealthOnline:
		return poolHealthOnlineName
	}
	return fmt.Sprintf("PoolHealth(%d)", uint8(h))
}

// The closed catalogue of known features_for_read names.
const (
	featureAllocationClasses       = "org.zfsonlinux:allocation_classes"
	featureAsyncDestroy            = "com.delphix:async_destroy"
	featureBlake3                  = "org.openzfs:blake3"
	featureBlockCloning            = "com.fudosecurity:block_cloning"
	featureBookmarkV2              = "com.datto:bookmark_v2"
	featureBookmarkWritten         = "com.delphix:bookmark_written"
	featureBookmarks               = "com.delphix:bookmarks"
	featureDeviceRebuild           = "org.openzfs:device_rebuild"
	featureDeviceRemoval           = "com.delphix:device_removal"
	featureDraid                   = "org.openzfs:draid"
	featureEdonR                   = "org.illumos:edonr"
	featureEmbeddedData            = "com.delphix:embedded_data"
	featureEmptyBlockPointerObject = "com.delphix:empty_bpobj"
	featureEnabledTxg              = "com.delphix:enabled_txg"
	featureEncryption              = "com.datto:encryption"
	featureExtensibleDataset       = "com.delphix:extensible_dataset"
	featureFilesystemLimits        = "com.joyent:filesystem_limits"
	featureHeadErrorLog            = "com.delphix:head_errlog"
	featureHoleBirth               = "com.delphix:hole_birth"
	featureLargeBlocks             = "org.open-zfs:large_blocks"
	featureLargeDnode              = "org.zfsonlinux:large_dnode"
	featureLiveList                = "com.delphix:livelist"
	featureLogSpaceMap             = "com.delphix:log_spacemap"
	featureLz4Compress             = "org.illumos:lz4_compress"
	featureMultiVdevCrashDump      = "com.joyent:multi_vdev_crash_dump"
	featureObsoleteCounts          = "com.delphix:obsolete_counts"
	featureProjectQuota            = "org.zfsonlinux:project_quota"
	featureRedactedDatasets        = "com.delphix:redacted_datasets"
	featureRedactionBookmarks      = "com.delphix:redaction_bookmarks"
	featureResilverDefer           = "com.datto:resilver_defer"
	featureSha512                  = "org.illumos:sha512"
	featureSkein                   = "org.illumos:skein"
	featureSpacemapHistogram       = "com.delphix:spacemap_histogram"
	featureSpacemapV2              = "com.delphix:spacemap_v2"
	featureUserObjectAccounting    = "org.zfsonlinux:userobj_accounting"
	featureZilSaXattr              = "org.openzfs:zilsaxattr"
	featureZpoolCheckpoint         = "com.delphix:zpool_checkpoint"
	featureZstdCompress            = "org.freebsd:zstd_compress"
)

var knownFeatures = []string{
	featureAllocationClasses,
	featureAsyncDestroy,
	featureBlake3,
	featureBlockCloning,
	featureBookmarkV2,
	featureBookmarkWritten,
	featureBookmarks,
	featureDeviceRebuild,
	featureDeviceRemoval,
	featureDraid,
	featureEdonR,
	featureEmbeddedData,
	featureEmptyBlockPointerObject,
	featureEnabledTxg,
	featureEncryption,
	featureExtensibleDataset,
	featureFilesystemLimits,
	featureHeadErrorLog,
	featureHoleBirth,
	featureLargeBlocks,
	featureLargeDnode,
	featureLiveList,
	featureLogSpaceMap,
	featureLz4Compress,
	featureMultiVdevCrashDump,
	featureObsoleteCounts,
	featureProjectQuota,
	featureRedactedDatasets,
	featureRedactionBookmarks,
	featureResilverDefer,
	featureSha512,
	featureSkein,
	featureSpacemapHistogram,
	featureSpacemapV2,
	featureUserObjectAccounting,
	featureZilSaXattr,
	featureZpoolCheckpoint,
	featureZstdCompress,
}

// PoolFeaturesForRead is the set of features a reader must understand to
// open the pool, projected from the features_for_read nested list.
type PoolFeaturesForRead struct {
	AllocationClasses       bool
	AsyncDestroy            bool
	Blake3                  bool
	BlockCloning            bool
	BookmarkV2              bool
	BookmarkWritten         bool
	Bookmarks               bool
	DeviceRebuild           bool
	DeviceRemoval           bool
	Draid                   bool
	EdonR                   bool
	EmbeddedData            bool
	EmptyBlockPointerObject bool
	EnabledTxg              bool
	Encryption              bool
	ExtensibleDataset       bool
	FilesystemLimits        bool
	HeadErrorLog            bool
	HoleBirth               bool
	LargeBlocks             bool
	LargeDnode              bool
	LiveList                bool
	LogSpaceMap             bool
	Lz4Compress             bool
	MultiVdevCrashDump      bool
	ObsoleteCounts          bool
	ProjectQuota            bool
	RedactedDatasets        bool
	RedactionBookmarks      bool
	ResilverDefer           bool
	Sha512                  bool
	Skein                   bool
	SpacemapHistogram       bool
	SpacemapV2              bool
	UserObjectAccounting    bool
	ZilSaXattr              bool
	ZpoolCheckpoint         bool
	ZstdCompress            bool
}

// poolFeaturesFromDecoder projects the optional features_for_read list. An
// unknown feature name is an error: the reader cannot safely open the pool.
func poolFeaturesFromDecoder(d *nv.Decoder) (*PoolFeaturesForRead, error) {
	features, ok, err := findOptionList(d, poolConfigFeaturesForRead)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	features.Reset()
	for {
		pair, err := features.NextPair()
		if err != nil {
			return nil, err
		}
		if pair == nil {
			break
		}

		known := false
		for _, name := range knownFeatures {
			if pair.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, &UnknownFeatureError{Feature: pair.Name, FullLength: len(pair.Name)}
		}
	}

	var f PoolFeaturesForRead
	for _, entry := range []struct {
		name string
		dest *bool
	}{
		{featureAllocationClasses, &f.AllocationClasses},
		{featureAsyncDestroy, &f.AsyncDestroy},
		{featureBlake3, &f.Blake3},
		{featureBlockCloning, &f.BlockCloning},
		{featureBookmarkV2, &f.BookmarkV2},
		{featureBookmarkWritten, &f.BookmarkWritten},
		{featureBookmarks, &f.Bookmarks},
		{featureDeviceRebuild, &f.DeviceRebuild},
		{featureDeviceRemoval, &f.DeviceRemoval},
		{featureDraid, &f.Draid},
		{featureEdonR, &f.EdonR},
		{featureEmbeddedData, &f.EmbeddedData},
		{featureEmptyBlockPointerObject, &f.EmptyBlockPointerObject},
		{featureEnabledTxg, &f.EnabledTxg},
		{featureEncryption, &f.Encryption},
		{featureExtensibleDataset, &f.ExtensibleDataset},
		{featureFilesystemLimits, &f.FilesystemLimits},
		{featureHeadErrorLog, &f.HeadErrorLog},
		{featureHoleBirth, &f.HoleBirth},
		{featureLargeBlocks, &f.LargeBlocks},
		{featureLargeDnode, &f.LargeDnode},
		{featureLiveList, &f.LiveList},
		{featureLogSpaceMap, &f.LogSpaceMap},
		{featureLz4Compress, &f.Lz4Compress},
		{featureMultiVdevCrashDump, &f.MultiVdevCrashDump},
		{featureObsoleteCounts, &f.ObsoleteCounts},
		{featureProjectQuota, &f.ProjectQuota},
		{featureRedactedDatasets, &f.RedactedDatasets},
		{featureRedactionBookmarks, &f.RedactionBookmarks},
		{featureResilverDefer, &f.ResilverDefer},
		{featureSha512, &f.Sha512},
		{featureSkein, &f.Skein},
		{featureSpacemapHistogram, &f.SpacemapHistogram},
		{featureSpacemapV2, &f.SpacemapV2},
		{featureUserObjectAccounting, &f.UserObjectAccounting},
		{featureZilSaXattr, &f.ZilSaXattr},
		{featureZpoolCheckpoint, &f.ZpoolCheckpoint},
		{featureZstdCompress, &f.ZstdCompress},
	} {
		if *entry.dest, err = findFeature(features, entry.name); err != nil {
			return nil, err
		}
	}

	return &f, nil
}

// PoolHost is the hostid/hostname pair recorded since pool version V6.
type PoolHost struct {
	ID   uint64
	Name string
}

// poolHostFromDecoder projects the optional host identity. A hostname
// without a hostid is an invalid configuration.
func poolHostFromDecoder(d *nv.Decoder) (*PoolHost, error) {
	id, ok, err := findOptionUint64(d, poolConfigHostID)
	if err != nil {
		return nil, err
	}

	if !ok {
		_, nameOk, err := findOptionString(d, poolConfigHostName)
		if err != nil {
			return nil, err
		}
		if nameOk {
			return nil, &InvalidConfigurationError{
				Reason: "'hostname' is set, but 'hostid' is not",
			}
		}
		return nil, nil
	}

	name, err := findString(d, poolConfigHostName)
	if err != nil {
		return nil, err
	}
	return &PoolHost{ID: id, Name: name}, nil
}

// Pool configuration keys, by the version that introduced them.
const (
	// V1.
	poolConfigGuid     = "guid"
	poolConfigName     = "name"
	poolConfigPoolGuid = "pool_guid"
	poolConfigState    = "state"
	poolConfigTopGuid  = "top_guid"
	poolConfigTxg      = "txg"
	poolConfigVdevTree = "vdev_tree"
	poolConfigVersion  = "version"

	// V1, deprecated in V3.
	poolConfigPoolHealth = "pool_health"

	// V6.
	poolConfigHostID   = "hostid"
	poolConfigHostName = "hostname"

	// V19.
	poolConfigVdevChildren = "vdev_children"

	// V5000.
	poolConfigErrata          = "errata"
	poolConfigFeaturesForRead = "features_for_read"
)

var poolConfigKnownNames = []string{
	poolConfigGuid,
	poolConfigName,
	poolConfigPoolGuid,
	poolConfigState,
	poolConfigTopGuid,
	poolConfigTxg,
	poolConfigVdevTree,
	poolConfigVersion,
	poolConfigPoolHealth,
	poolConfigHostID,
	poolConfigHostName,
	poolConfigVdevChildren,
	poolConfigErrata,
	poolConfigFeaturesForRead,
}

// Pool is the pool configuration extracted from the label name/value list.
// Optional fields are nil when the pool version predates them.
type Pool struct {
	// V1.
	Guid     uint64
	Name     string
	PoolGuid uint64
	State    PoolState
	TopGuid  uint64
	Txg      uint64
	Version  PoolVersion
	VdevTree VdevTree

	// V1, deprecated in V3.
	PoolHealth *PoolHealth

	// V6.
	Host *PoolHost

	// V19.
	VdevChildren *uint64

	// V5000.
	Errata          *uint64
	FeaturesForRead *PoolFeaturesForRead
}

// PoolFromDecoder projects a pool configuration from a name/value list
// decoder. Unknown top-level names are rejected.
func PoolFromDecoder(d *nv.Decoder) (*Pool, error) {
	if err := checkKnownNames(d, poolConfigKnownNames); err != nil {
		return nil, err
	}

	var p Pool
	var err error

	if p.Guid, err = findUint64(d, poolConfigGuid); err != nil {
		return nil, err
	}
	if p.Name, err = findString(d, poolConfigName); err != nil {
		return nil, err
	}
	if p.PoolGuid, err = findUint64(d, poolConfigPoolGuid); err != nil {
		return nil, err
	}

	state, err := findUint64(d, poolConfigState)
	if err != nil {
		return nil, err
	}
	if p.State, err = PoolStateFromValue(state); err != nil {
		return nil, err
	}

	if p.TopGuid, err = findUint64(d, poolConfigTopGuid); err != nil {
		return nil, err
	}
	if p.Txg, err = findUint64(d, poolConfigTxg); err != nil {
		return nil, err
	}

	version, err := findUint64(d, poolConfigVersion)
	if err != nil {
		return nil, err
	}
	if p.Version, err = PoolVersionFromValue(version); err != nil {
		return nil, err
	}

	vdevTree, err := VdevTreeFromDecoder(d)
	if err != nil {
		return nil, err
	}
	p.VdevTree = *vdevTree

	health, ok, err := findOptionString(d, poolConfigPoolHealth)
	if err != nil {
		return nil, err
	}
	if ok {
		h, err := PoolHealthFromString(health)
		if err != nil {
			return nil, err
		}
		p.PoolHealth = &h
	}

	if p.Host, err = poolHostFromDecoder(d); err != nil {
		return nil, err
	}

	if children, ok, err := findOptionUint64(d, poolConfigVdevChildren); err != nil {
		return nil, err
	} else if ok {
		p.VdevChildren = &children
	}

	if errata, ok, err := findOptionUint64(d, poolConfigErrata); err != nil {
		return nil, err
	} else if ok {
		p.Errata = &errata
	}

	if p.FeaturesForRead, err = poolFeaturesFromDecoder(d); err != nil {
		return nil, err
	}

	return &p, nil
}
