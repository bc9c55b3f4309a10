package zpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/zpool/nv"
)

func decodeVdevTree(t *testing.T, treeBody []byte) (*VdevTree, error) {
	t.Helper()
	data := buildList(listPair(poolConfigVdevTree, treeBody))
	decoder, err := nv.NewDecoder(data)
	require.NoError(t, err)
	return VdevTreeFromDecoder(decoder)
}

func childListPayload(children ...[]byte) []byte {
	return buildPair(vdevConfigChildren, nv.NvListArray, uint32(len(children)), concat(children...))
}

func TestVdevDiskFull(t *testing.T) {
	tree, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "disk"),
		uint64Pair(vdevConfigID, 1),
		uint64Pair(vdevConfigGuid, 0xaa),
		stringPair(vdevConfigPath, "/dev/sdb1"),
		uint64Pair(vdevConfigWholeDisk, 1),
		uint64Pair(vdevConfigAshift, 12),
		uint64Pair(vdevConfigAsize, 1<<30),
		uint64Pair(vdevConfigMetaSlabArray, 64),
		uint64Pair(vdevConfigMetaSlabShift, 24),
		uint64Pair(vdevConfigCreateTxg, 4),
		uint64Pair(vdevConfigDtl, 37),
		uint64Pair(vdevConfigIsLog, 0),
		stringPair(vdevConfigDevID, "ata-DISK123-part1"),
		stringPair(vdevConfigPhysPath, "pci-0000:00:1f.2-ata-1"),
	))
	require.NoError(t, err)

	require.Equal(t, uint64(1), tree.ID)
	require.Equal(t, uint64(0xaa), tree.Guid)

	disk, ok := tree.Vdev.(*VdevDisk)
	require.True(t, ok)
	require.Equal(t, "/dev/sdb1", disk.Path)
	require.True(t, disk.WholeDisk)

	require.NotNil(t, disk.AlignmentMetaSlab)
	assert.Equal(t, uint64(12), disk.AlignmentMetaSlab.Ashift)
	assert.Equal(t, uint64(1<<30), disk.AlignmentMetaSlab.Asize)
	assert.Equal(t, uint64(64), disk.AlignmentMetaSlab.MetaSlabArray)
	assert.Equal(t, uint64(24), disk.AlignmentMetaSlab.MetaSlabShift)

	require.NotNil(t, disk.CreateTxg)
	assert.Equal(t, uint64(4), *disk.CreateTxg)
	require.NotNil(t, disk.Dtl)
	assert.Equal(t, uint64(37), *disk.Dtl)
	require.NotNil(t, disk.IsLog)
	assert.False(t, *disk.IsLog)
	require.NotNil(t, disk.DevID)
	assert.Equal(t, "ata-DISK123-part1", *disk.DevID)
	require.NotNil(t, disk.PhysPath)
	assert.Equal(t, "pci-0000:00:1f.2-ata-1", *disk.PhysPath)
}

func TestVdevUnknownType(t *testing.T) {
	_, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "draid"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 1),
	))
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "draid", unknown.Type)
}

func TestVdevUnknownNestedName(t *testing.T) {
	_, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "disk"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 1),
		stringPair(vdevConfigPath, "/dev/sda1"),
		uint64Pair(vdevConfigWholeDisk, 0),
		uint64Pair("sectors", 9),
	))
	var unknown *UnknownNameError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "sectors", unknown.Name)
}

func TestVdevInvalidWholeDisk(t *testing.T) {
	_, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "disk"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 1),
		stringPair(vdevConfigPath, "/dev/sda1"),
		uint64Pair(vdevConfigWholeDisk, 2),
	))
	var boolErr *InvalidU64BoolError
	require.ErrorAs(t, err, &boolErr)
	assert.Equal(t, vdevConfigWholeDisk, boolErr.Name)
	assert.Equal(t, uint64(2), boolErr.Value)
}

func TestVdevAshiftGroupIncomplete(t *testing.T) {
	// asize without ashift contradicts the allocation geometry group.
	_, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "disk"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 1),
		stringPair(vdevConfigPath, "/dev/sda1"),
		uint64Pair(vdevConfigWholeDisk, 0),
		uint64Pair(vdevConfigAsize, 1<<30),
	))
	var invalid *InvalidConfigurationError
	require.ErrorAs(t, err, &invalid)

	// ashift alone requires the rest of the group.
	_, err = decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "disk"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 1),
		stringPair(vdevConfigPath, "/dev/sda1"),
		uint64Pair(vdevConfigWholeDisk, 0),
		uint64Pair(vdevConfigAshift, 12),
	))
	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
}

func TestVdevFile(t *testing.T) {
	tree, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "file"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 2),
		stringPair(vdevConfigPath, "/tank/backing.img"),
	))
	require.NoError(t, err)

	file, ok := tree.Vdev.(*VdevFile)
	require.True(t, ok)
	require.Equal(t, "/tank/backing.img", file.Path)
}

func TestVdevMissing(t *testing.T) {
	tree, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "missing"),
		uint64Pair(vdevConfigID, 3),
		uint64Pair(vdevConfigGuid, 4),
	))
	require.NoError(t, err)
	require.IsType(t, &VdevMissing{}, tree.Vdev)
}

func diskChild(id, guid uint64, path string) []byte {
	return buildListBody(
		stringPair(vdevConfigType, "disk"),
		uint64Pair(vdevConfigID, id),
		uint64Pair(vdevConfigGuid, guid),
		stringPair(vdevConfigPath, path),
		uint64Pair(vdevConfigWholeDisk, 1),
	)
}

func TestVdevMirror(t *testing.T) {
	tree, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "mirror"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 10),
		childListPayload(
			diskChild(0, 11, "/dev/sda1"),
			diskChild(1, 12, "/dev/sdb1"),
		),
	))
	require.NoError(t, err)

	mirror, ok := tree.Vdev.(*VdevMirror)
	require.True(t, ok)
	require.Len(t, mirror.Children, 2)

	first, ok := mirror.Children[0].Vdev.(*VdevDisk)
	require.True(t, ok)
	assert.Equal(t, "/dev/sda1", first.Path)
	assert.Equal(t, uint64(11), mirror.Children[0].Guid)

	second, ok := mirror.Children[1].Vdev.(*VdevDisk)
	require.True(t, ok)
	assert.Equal(t, "/dev/sdb1", second.Path)
}

func TestVdevRaidz(t *testing.T) {
	tree, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "raidz"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 20),
		uint64Pair(vdevConfigNparity, 2),
		childListPayload(
			diskChild(0, 21, "/dev/sda1"),
			diskChild(1, 22, "/dev/sdb1"),
			diskChild(2, 23, "/dev/sdc1"),
		),
	))
	require.NoError(t, err)

	raidz, ok := tree.Vdev.(*VdevRaidz)
	require.True(t, ok)
	require.Equal(t, uint64(2), raidz.Parity)
	require.Len(t, raidz.Children, 3)
}

func TestVdevRootNested(t *testing.T) {
	mirrorBody := buildListBody(
		stringPair(vdevConfigType, "mirror"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 30),
		childListPayload(
			diskChild(0, 31, "/dev/sda1"),
			diskChild(1, 32, "/dev/sdb1"),
		),
	)

	tree, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "root"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 40),
		childListPayload(mirrorBody),
	))
	require.NoError(t, err)

	root, ok := tree.Vdev.(*VdevRoot)
	require.True(t, ok)
	require.Len(t, root.Children, 1)

	mirror, ok := root.Children[0].Vdev.(*VdevMirror)
	require.True(t, ok)
	require.Len(t, mirror.Children, 2)
}

func TestVdevReplacing(t *testing.T) {
	tree, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "replacing"),
		uint64Pair(vdevConfigID, 1),
		uint64Pair(vdevConfigGuid, 50),
		childListPayload(
			diskChild(0, 51, "/dev/sda1"),
			diskChild(1, 52, "/dev/sdd1"),
		),
	))
	require.NoError(t, err)

	replacing, ok := tree.Vdev.(*VdevReplacing)
	require.True(t, ok)
	require.Len(t, replacing.Children, 2)
}

func TestVdevMirrorMissingChildren(t *testing.T) {
	_, err := decodeVdevTree(t, buildListBody(
		stringPair(vdevConfigType, "mirror"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 10),
	))
	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, vdevConfigChildren, missing.Name)
}
