package util

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSamples(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	samples := []*Sample{
		{Ts: now, V: 10},
		{Ts: now.Add(time.Second), V: 20},
	}
	require.NoError(t, WriteSamples("allocations", dir, samples))

	data, err := os.ReadFile(filepath.Join(dir, "allocations.csv"))
	require.NoError(t, err)
	expected := fmt.Sprintf("%d,10\n%d,20\n", samples[0].Ts.UnixNano(), samples[1].Ts.UnixNano())
	assert.Equal(t, expected, string(data))
}

func TestMetricsIdRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteMetricsId("vitrine.1", dir, map[string]string{"surface": "w0"}))

	metricsId, err := ReadMetricsId(filepath.Join(dir, "metrics.id"))
	require.NoError(t, err)
	assert.Equal(t, "vitrine.1", metricsId.Id)
	assert.Equal(t, "w0", metricsId.Values["surface"])
}

func TestDiscoverMetrics(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "w0")
	b := filepath.Join(root, "nested", "w1")
	require.NoError(t, os.MkdirAll(a, os.ModePerm))
	require.NoError(t, os.MkdirAll(b, os.ModePerm))
	require.NoError(t, WriteMetricsId("vitrine.1", a, nil))
	require.NoError(t, WriteMetricsId("vitrine.1", b, nil))

	metricsMap, err := DiscoverMetrics(root)
	require.NoError(t, err)
	assert.Equal(t, 2, len(metricsMap))
	assert.NotNil(t, metricsMap[a])
	assert.NotNil(t, metricsMap[b])
}
