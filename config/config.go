// Package config loads the simulation's tunable constants (spec.md §6)
// from YAML, grounded on the teacher's reinforcement.TrainingConfig/FromYaml
// (viper reads the file, yaml.v3 unmarshals the typed payload).
package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Tunables holds every fixed-at-build constant from spec.md §6. They are
// "fixed at build" in the sense that the simulation core treats them as
// read-only for the duration of a run, but unlike the original they are
// loadable from YAML so a demo or test can exercise alternate values
// without recompiling. The yaml tags are lower case because viper lowercases
// every key it reads before FromYAML re-decodes the payload with yaml.v3.
type Tunables struct {
	// Throttle is the traffic-logic phase period in ticks.
	Throttle uint64 `yaml:"throttle"`
	// ConnectionTolerance is the endpoint-match radius used by Connect.
	ConnectionTolerance float64 `yaml:"connectiontolerance"`
	// BandWidth is the half-width used for overlap detection.
	BandWidth float64 `yaml:"bandwidth"`
	// Politeness is the transfer-lane following weight.
	Politeness float64 `yaml:"politeness"`
	// LateralADefault is the initial transfer_acceleration on Add::Car.
	LateralADefault float64 `yaml:"lateraladefault"`
	// LateralEvasion is the emergency transfer_acceleration.
	LateralEvasion float64 `yaml:"lateralevasion"`
	// LateralSpeedCapDivisor is the ratio of velocity to lateral speed
	// limit.
	LateralSpeedCapDivisor float64 `yaml:"lateralspeedcapdivisor"`
	// InConstructionRate is units of length animated per second.
	InConstructionRate float64 `yaml:"inconstructionrate"`
	// TickInterval is the demo harness's wall-clock period between ticks;
	// the core itself only cares about dt and current_tick (spec.md §5).
	TickInterval time.Duration `yaml:"-"`
}

// Defaults returns the tunables exactly as tabulated in spec.md §6.
func Defaults() Tunables {
	return Tunables{
		Throttle:               60,
		ConnectionTolerance:    0.1,
		BandWidth:              5.0,
		Politeness:             0.3,
		LateralADefault:        0.1,
		LateralEvasion:         0.3,
		LateralSpeedCapDivisor: 12,
		InConstructionRate:     400.0,
		TickInterval:           100 * time.Millisecond,
	}
}

// outerConfig mirrors the teacher's OuterConfig{Kind, Def} envelope, which
// lets a single YAML file carry a "kind" discriminator around an
// algorithm-specific payload; here the payload is always Tunables, but the
// envelope is kept so a future second "kind" of simulation config can share
// the file format.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// FromYAML loads Tunables from a YAML file. Decoding starts from Defaults,
// so any field the file omits keeps its default value rather than Go's zero
// value, and a partial file still yields a usable Tunables.
func FromYAML(path string) (Tunables, error) {
	tun := Defaults()

	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return tun, err
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return tun, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return tun, err
	}

	if err := yaml.Unmarshal(spec, &tun); err != nil {
		return tun, err
	}
	return tun, nil
}
