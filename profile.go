package vitrine

import (
	"github.com/openziti-incubator/cf"
	"github.com/pkg/errors"
)

const profileVersion = 1

// Profile tunes surface and pool behavior. Flat fields bind from YAML maps
// with cf; the instrument is constructed from a nested 'instrument' section.
type Profile struct {
	PoolSizeLimit int    `cf:"pool_size_limit"`
	PixelFormat   string `cf:"pixel_format"`
	Allocator     string `cf:"allocator"`
	i             Instrument
}

func NewBaselineProfile() *Profile {
	return &Profile{
		PoolSizeLimit: 3,
		PixelFormat:   "argb8888",
		Allocator:     "shm",
	}
}

func (self *Profile) Load(data map[string]interface{}) error {
	if v, found := data["profile_version"]; found {
		if i, ok := v.(int); ok {
			if i != profileVersion {
				return errors.Errorf("invalid profile version [%d != %d]", i, profileVersion)
			}
		} else {
			return errors.New("invalid 'profile_version' value")
		}
	} else {
		return errors.New("missing 'profile_version'")
	}

	if err := cf.Bind(self, data, cf.DefaultOptions()); err != nil {
		return errors.Wrap(err, "bind profile")
	}

	if v, found := data["instrument"]; found {
		submap, ok := v.(map[string]interface{})
		if !ok {
			return errors.New("invalid 'instrument' value")
		}
		name, ok := submap["name"].(string)
		if !ok {
			return errors.New("missing 'instrument.name'")
		}
		config, _ := submap["config"].(map[string]interface{})
		i, err := NewInstrument(name, config)
		if err != nil {
			return errors.Wrapf(err, "unable to create instrument '%s'", name)
		}
		self.i = i
	}
	return nil
}

func (self *Profile) Dump() string {
	return cf.Dump(self, cf.DefaultOptions())
}

func (self *Profile) SetInstrument(i Instrument) {
	self.i = i
}

func (self *Profile) Instrument() Instrument {
	if self.i == nil {
		return NewNilInstrument()
	}
	return self.i
}
