//go:build linux

package shm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRegionExposesFd(t *testing.T) {
	region, err := createRegion(4096)
	require.NoError(t, err)
	defer func() { _ = region.Close() }()

	assert.True(t, region.Fd() >= 0)

	var stat unix.Stat_t
	require.NoError(t, unix.Fstat(region.Fd(), &stat))
	assert.Equal(t, int64(4096), stat.Size)
}

func TestRegionWritesVisibleThroughFd(t *testing.T) {
	region, err := createRegion(16)
	require.NoError(t, err)
	defer func() { _ = region.Close() }()

	copy(region.Data(), []byte("vitrine"))

	out := make([]byte, 7)
	n, err := unix.Pread(region.Fd(), out, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "vitrine", string(out))
}

func TestRegionCloseIdempotent(t *testing.T) {
	region, err := createRegion(16)
	require.NoError(t, err)
	assert.NoError(t, region.Close())
	assert.NoError(t, region.Close())
}
