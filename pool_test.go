package zpool

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/zpool/nv"
	"github.com/scigolib/zpool/xdr"
)

// Test fixture builders for XDR name/value lists.

func xdrString(s string) []byte {
	buf := make([]byte, 4+len(s)+8)
	e := xdr.NewEncoder(buf)
	if err := e.PutString(s); err != nil {
		panic(err)
	}
	return buf[:e.Len()]
}

func xdrUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func xdrUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func buildPair(name string, dataType nv.DataType, count uint32, payload []byte) []byte {
	body := concat(xdrString(name), xdrUint32(uint32(dataType)), xdrUint32(count), payload)
	return concat(xdrUint32(uint32(8+len(body))), xdrUint32(0x40), body)
}

func uint64Pair(name string, v uint64) []byte {
	return buildPair(name, nv.Uint64, 1, xdrUint64(v))
}

func stringPair(name, v string) []byte {
	return buildPair(name, nv.String, 1, xdrString(v))
}

func listPair(name string, body []byte) []byte {
	return buildPair(name, nv.NvList, 1, body)
}

func buildListBody(pairs ...[]byte) []byte {
	return concat(xdrUint64(0), concat(pairs...), make([]byte, 8))
}

func buildList(pairs ...[]byte) []byte {
	return concat([]byte{0x01, 0x01, 0x00, 0x00}, buildListBody(pairs...))
}

// diskVdevBody is a minimal single-disk vdev tree.
func diskVdevBody() []byte {
	return buildListBody(
		stringPair(vdevConfigType, "disk"),
		uint64Pair(vdevConfigID, 0),
		uint64Pair(vdevConfigGuid, 0xd15c),
		stringPair(vdevConfigPath, "/dev/sda1"),
		uint64Pair(vdevConfigWholeDisk, 1),
	)
}

// basePoolPairs are the required V1 pool keys over a single-disk vdev tree.
func basePoolPairs(extra ...[]byte) [][]byte {
	pairs := [][]byte{
		uint64Pair(poolConfigGuid, 0xd15c),
		stringPair(poolConfigName, "tank"),
		uint64Pair(poolConfigPoolGuid, 0x9001),
		uint64Pair(poolConfigState, 0),
		uint64Pair(poolConfigTopGuid, 0xd15c),
		uint64Pair(poolConfigTxg, 4),
		uint64Pair(poolConfigVersion, 5000),
		listPair(poolConfigVdevTree, diskVdevBody()),
	}
	return append(pairs, extra...)
}

func decodePool(t *testing.T, pairs [][]byte) (*Pool, error) {
	t.Helper()
	return DecodePoolConfig(buildList(pairs...))
}

func TestPoolDecode(t *testing.T) {
	pool, err := decodePool(t, basePoolPairs())
	require.NoError(t, err)

	require.Equal(t, uint64(0xd15c), pool.Guid)
	require.Equal(t, "tank", pool.Name)
	require.Equal(t, uint64(0x9001), pool.PoolGuid)
	require.Equal(t, PoolStateActive, pool.State)
	require.Equal(t, uint64(0xd15c), pool.TopGuid)
	require.Equal(t, uint64(4), pool.Txg)
	require.Equal(t, PoolVersion5000, pool.Version)

	require.Equal(t, uint64(0), pool.VdevTree.ID)
	require.Equal(t, uint64(0xd15c), pool.VdevTree.Guid)
	disk, ok := pool.VdevTree.Vdev.(*VdevDisk)
	require.True(t, ok)
	require.Equal(t, "/dev/sda1", disk.Path)
	require.True(t, disk.WholeDisk)

	require.Nil(t, pool.PoolHealth)
	require.Nil(t, pool.Host)
	require.Nil(t, pool.VdevChildren)
	require.Nil(t, pool.Errata)
	require.Nil(t, pool.FeaturesForRead)
}

func TestPoolMissingRequiredKey(t *testing.T) {
	pairs := [][]byte{
		uint64Pair(poolConfigGuid, 1),
		stringPair(poolConfigName, "tank"),
	}

	_, err := decodePool(t, pairs)
	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
}

func TestPoolUnknownName(t *testing.T) {
	_, err := decodePool(t, basePoolPairs(uint64Pair("mystery", 1)))
	var unknown *UnknownNameError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "mystery", unknown.Name)
}

func TestPoolValueTypeMismatch(t *testing.T) {
	pairs := [][]byte{
		stringPair(poolConfigGuid, "not-a-number"),
		stringPair(poolConfigName, "tank"),
		uint64Pair(poolConfigPoolGuid, 0x9001),
		uint64Pair(poolConfigState, 0),
		uint64Pair(poolConfigTopGuid, 0xd15c),
		uint64Pair(poolConfigTxg, 4),
		uint64Pair(poolConfigVersion, 5000),
		listPair(poolConfigVdevTree, diskVdevBody()),
	}

	_, err := decodePool(t, pairs)
	var mismatch *ValueTypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, poolConfigGuid, mismatch.Name)
	assert.Equal(t, nv.String, mismatch.DataType)
}

func TestPoolInvalidState(t *testing.T) {
	pairs := basePoolPairs()
	pairs[3] = uint64Pair(poolConfigState, 9)

	_, err := decodePool(t, pairs)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, uint64(9), stateErr.State)
}

func TestPoolUnsupportedVersion(t *testing.T) {
	pairs := basePoolPairs()
	pairs[6] = uint64Pair(poolConfigVersion, 29)

	_, err := decodePool(t, pairs)
	var versionErr *UnsupportedVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, uint64(29), versionErr.Version)
}

func TestPoolHealthValues(t *testing.T) {
	for _, tt := range []struct {
		health string
		want   PoolHealth
	}{
		{"ONLINE", PoolHealthOnline},
		{"DEGRADED", PoolHealthDegraded},
		{"FAULTED", PoolHealthFaulted},
	} {
		pool, err := decodePool(t, basePoolPairs(stringPair(poolConfigPoolHealth, tt.health)))
		require.NoError(t, err)
		require.NotNil(t, pool.PoolHealth)
		require.Equal(t, tt.want, *pool.PoolHealth)
	}

	_, err := decodePool(t, basePoolPairs(stringPair(poolConfigPoolHealth, "UNAVAIL")))
	var healthErr *InvalidPoolHealthError
	require.ErrorAs(t, err, &healthErr)
}

func TestPoolHostRule(t *testing.T) {
	// Both present decodes to a PoolHost.
	pool, err := decodePool(t, basePoolPairs(
		uint64Pair(poolConfigHostID, 0xbeef),
		stringPair(poolConfigHostName, "storage01"),
	))
	require.NoError(t, err)
	require.NotNil(t, pool.Host)
	require.Equal(t, uint64(0xbeef), pool.Host.ID)
	require.Equal(t, "storage01", pool.Host.Name)

	// Neither present decodes to no host.
	pool, err = decodePool(t, basePoolPairs())
	require.NoError(t, err)
	require.Nil(t, pool.Host)

	// A hostname without a hostid is invalid.
	_, err = decodePool(t, basePoolPairs(stringPair(poolConfigHostName, "storage01")))
	var invalid *InvalidConfigurationError
	require.ErrorAs(t, err, &invalid)

	// A hostid without a hostname is missing a required key.
	_, err = decodePool(t, basePoolPairs(uint64Pair(poolConfigHostID, 0xbeef)))
	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
}

func TestPoolOptionalScalars(t *testing.T) {
	pool, err := decodePool(t, basePoolPairs(
		uint64Pair(poolConfigVdevChildren, 2),
		uint64Pair(poolConfigErrata, 3),
	))
	require.NoError(t, err)
	require.NotNil(t, pool.VdevChildren)
	require.Equal(t, uint64(2), *pool.VdevChildren)
	require.NotNil(t, pool.Errata)
	require.Equal(t, uint64(3), *pool.Errata)
}

func TestPoolFeaturesForRead(t *testing.T) {
	features := buildListBody(
		buildPair(featureHoleBirth, nv.Boolean, 0, nil),
		buildPair(featureEmbeddedData, nv.Boolean, 0, nil),
	)

	pool, err := decodePool(t, basePoolPairs(listPair(poolConfigFeaturesForRead, features)))
	require.NoError(t, err)
	require.NotNil(t, pool.FeaturesForRead)
	assert.True(t, pool.FeaturesForRead.HoleBirth)
	assert.True(t, pool.FeaturesForRead.EmbeddedData)
	assert.False(t, pool.FeaturesForRead.Encryption)
	assert.False(t, pool.FeaturesForRead.Blake3)
}

func TestPoolUnknownFeature(t *testing.T) {
	features := buildListBody(
		buildPair("com.example:time_travel", nv.Boolean, 0, nil),
	)

	_, err := decodePool(t, basePoolPairs(listPair(poolConfigFeaturesForRead, features)))
	var unknown *UnknownFeatureError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "com.example:time_travel", unknown.Feature)
}

func TestPoolVersionFromValue(t *testing.T) {
	for _, v := range []uint64{1, 15, 28, 5000} {
		version, err := PoolVersionFromValue(v)
		require.NoError(t, err)
		require.Equal(t, PoolVersion(v), version)
	}

	for _, v := range []uint64{0, 29, 4999, 5001} {
		_, err := PoolVersionFromValue(v)
		require.Error(t, err)
	}
}

func TestPoolStateFromValue(t *testing.T) {
	state, err := PoolStateFromValue(4)
	require.NoError(t, err)
	require.Equal(t, PoolStateL2Cache, state)
	require.Equal(t, "L2Cache", state.String())

	_, err = PoolStateFromValue(5)
	require.Error(t, err)
}
