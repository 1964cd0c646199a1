package vitrine

import (
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pkg/errors"
)

var profiles = cmap.New[*Profile]()

func init() {
	_ = AddProfile("baseline", NewBaselineProfile())
}

// AddProfile registers a named profile for lookup by embedding applications
// and the CLI. Names are registered once.
func AddProfile(name string, p *Profile) error {
	if !profiles.SetIfAbsent(name, p) {
		return errors.Errorf("profile '%s' already registered", name)
	}
	return nil
}

func GetProfile(name string) (*Profile, bool) {
	return profiles.Get(name)
}
