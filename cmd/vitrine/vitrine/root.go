package vitrine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/openpane/vitrine"
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().BoolVar(&doCpuProfile, "cpu", false, "Enable CPU profiling")
	RootCmd.PersistentFlags().BoolVar(&doMemoryProfile, "memory", false, "Enable memory profiling")
	RootCmd.PersistentFlags().BoolVar(&doMutexProfile, "mutex", false, "Enable mutex profiling")
	RootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "Profile config file path")
	RootCmd.PersistentFlags().BoolVarP(&configDump, "dump", "d", false, "Dump the processed profile")
}

var RootCmd = &cobra.Command{
	Use:   strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0])),
	Short: "Vitrine Presentation Scaffolding",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if doCpuProfile {
			cpuProfile = profile.Start(profile.CPUProfile)
		}
		if doMemoryProfile {
			memoryProfile = profile.Start(profile.MemProfile)
		}
		if doMutexProfile {
			mutexProfile = profile.Start(profile.MutexProfile)
		}
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if cpuProfile != nil {
			cpuProfile.Stop()
		}
		if memoryProfile != nil {
			memoryProfile.Stop()
		}
		if mutexProfile != nil {
			mutexProfile.Stop()
		}
	},
}
var verbose bool
var doCpuProfile bool
var cpuProfile interface{ Stop() }
var doMemoryProfile bool
var memoryProfile interface{ Stop() }
var doMutexProfile bool
var mutexProfile interface{ Stop() }
var ConfigPath string
var configDump bool

// LoadProfile builds the active profile: baseline, overlaid with the YAML
// config file when one was given.
func LoadProfile() (*vitrine.Profile, error) {
	p := vitrine.NewBaselineProfile()
	if ConfigPath != "" {
		data, err := os.ReadFile(ConfigPath)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file [%s]", ConfigPath)
		}
		dataMap := make(map[interface{}]interface{})
		if err = yaml.Unmarshal(data, dataMap); err != nil {
			return nil, errors.Wrapf(err, "unable to unmarshal config data [%s]", ConfigPath)
		}
		if err = p.Load(mapIToMapS(dataMap)); err != nil {
			return nil, errors.Wrapf(err, "unable to load profile [%s]", ConfigPath)
		}
	}
	if configDump {
		logrus.Infof(p.Dump())
	}
	return p, nil
}

func mapIToMapS(in map[interface{}]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range in {
		key, ok := k.(string)
		if !ok {
			continue
		}
		if submap, ok := v.(map[interface{}]interface{}); ok {
			result[key] = mapIToMapS(submap)
		} else {
			result[key] = v
		}
	}
	return result
}
