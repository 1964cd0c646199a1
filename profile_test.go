package vitrine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileLoad(t *testing.T) {
	p := NewBaselineProfile()
	err := p.Load(map[string]interface{}{
		"profile_version": 1,
		"pool_size_limit": 5,
		"pixel_format":    "xrgb8888",
		"allocator":       "heap",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, p.PoolSizeLimit)
	assert.Equal(t, "xrgb8888", p.PixelFormat)
	assert.Equal(t, "heap", p.Allocator)
}

func TestProfileLoadPartial(t *testing.T) {
	p := NewBaselineProfile()
	err := p.Load(map[string]interface{}{
		"profile_version": 1,
		"pool_size_limit": 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, p.PoolSizeLimit)
	assert.Equal(t, "argb8888", p.PixelFormat)
}

func TestProfileVersionGuard(t *testing.T) {
	p := NewBaselineProfile()
	assert.Error(t, p.Load(map[string]interface{}{"profile_version": 2}))
	assert.Error(t, p.Load(map[string]interface{}{"profile_version": "1"}))
	assert.Error(t, p.Load(map[string]interface{}{"pool_size_limit": 5}))
}

func TestProfileLoadInstrument(t *testing.T) {
	p := NewBaselineProfile()
	err := p.Load(map[string]interface{}{
		"profile_version": 1,
		"instrument": map[string]interface{}{
			"name": "trace",
			"config": map[string]interface{}{
				"pool":  true,
				"frame": false,
			},
		},
	})
	require.NoError(t, err)
	i, ok := p.Instrument().(*traceInstrument)
	require.True(t, ok)
	assert.True(t, i.config.Pool)
	assert.False(t, i.config.Frame)
}

func TestProfileLoadUnknownInstrument(t *testing.T) {
	p := NewBaselineProfile()
	err := p.Load(map[string]interface{}{
		"profile_version": 1,
		"instrument":      map[string]interface{}{"name": "bogus"},
	})
	assert.Error(t, err)
}

func TestProfileDefaultInstrument(t *testing.T) {
	p := NewBaselineProfile()
	assert.NotNil(t, p.Instrument())
	assert.NotNil(t, p.Instrument().NewInstance("test"))
}

func TestProfileRegistry(t *testing.T) {
	p, found := GetProfile("baseline")
	require.True(t, found)
	assert.Equal(t, 3, p.PoolSizeLimit)

	assert.NoError(t, AddProfile("registry_test", NewBaselineProfile()))
	assert.Error(t, AddProfile("registry_test", NewBaselineProfile()))
}
