package hostsim

import (
	"io"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/gamebind/errors"
)

// Config tunes the reference host.
type Config struct {
	// Workers bounds the goroutines used by the parallel iteration callback.
	Workers int `yaml:"workers"`
	// Frames is the number of frames Run drives when asked for zero.
	Frames    int           `yaml:"frames"`
	DeltaTime time.Duration `yaml:"delta_time"`
	Width     float32       `yaml:"width"`
	Height    float32       `yaml:"height"`
}

func DefaultConfig() Config {
	return Config{
		Workers:   runtime.GOMAXPROCS(0),
		Frames:    60,
		DeltaTime: 16 * time.Millisecond,
		Width:     1280,
		Height:    720,
	}
}

// LoadConfig reads a YAML host config from path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "open host config")
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig decodes a YAML host config on top of DefaultConfig.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode host config")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return errors.InvalidInput(errors.PhaseConfig, "workers must be at least 1")
	case c.Frames < 0:
		return errors.InvalidInput(errors.PhaseConfig, "frames must not be negative")
	case c.DeltaTime <= 0:
		return errors.InvalidInput(errors.PhaseConfig, "delta_time must be positive")
	case c.Width < 0 || c.Height < 0:
		return errors.InvalidInput(errors.PhaseConfig, "window size must not be negative")
	}
	return nil
}
