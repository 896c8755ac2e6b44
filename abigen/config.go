package abigen

import (
	"bytes"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/gamebind/errors"
)

// Config controls code generation. It is usually read from gamebind.yaml
// next to the generator entry point.
type Config struct {
	// Package is the package clause of the generated Go file. c-shared
	// modules must use main.
	Package    string   `yaml:"package"`
	GoFile     string   `yaml:"go_file"`
	CFile      string   `yaml:"c_file"`
	HeaderFile string   `yaml:"header_file"`
	BuildTags  []string `yaml:"build_tags,omitempty"`
	// ExtraNames are host type identities accepted by set_component_id in
	// addition to the builtin ones.
	ExtraNames []string `yaml:"extra_builtin_names,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Package:    "main",
		GoFile:     "gamebind_exports.go",
		CFile:      "gamebind_exports.c",
		HeaderFile: "gamebind.h",
		BuildTags:  []string{"cgo"},
	}
}

// LoadConfig reads a YAML config from path. Missing fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "open generator config")
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig decodes a YAML config. Unknown keys are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode generator config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the output names are usable.
func (c Config) Validate() error {
	if !token.IsIdentifier(c.Package) {
		return errors.InvalidInput(errors.PhaseConfig, "package must be a Go identifier, got "+quote(c.Package))
	}
	files := []struct{ key, name string }{
		{"go_file", c.GoFile},
		{"c_file", c.CFile},
		{"header_file", c.HeaderFile},
	}
	for _, f := range files {
		if f.name == "" || filepath.Base(f.name) != f.name {
			return errors.InvalidInput(errors.PhaseConfig, f.key+" must be a plain file name, got "+quote(f.name))
		}
	}
	if !strings.HasSuffix(c.GoFile, ".go") || !strings.HasSuffix(c.CFile, ".c") || !strings.HasSuffix(c.HeaderFile, ".h") {
		return errors.InvalidInput(errors.PhaseConfig, "output files need .go, .c and .h extensions")
	}
	for _, tag := range c.BuildTags {
		if !token.IsIdentifier(tag) && !strings.ContainsAny(tag, "&|!()") {
			return errors.InvalidInput(errors.PhaseConfig, "invalid build tag "+quote(tag))
		}
	}
	return nil
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildConstraint joins the tags into a //go:build expression.
func (c Config) buildConstraint() string {
	if len(c.BuildTags) == 0 {
		return ""
	}
	if len(c.BuildTags) == 1 {
		return c.BuildTags[0]
	}
	parts := make([]string, len(c.BuildTags))
	for i, t := range c.BuildTags {
		if token.IsIdentifier(t) {
			parts[i] = t
		} else {
			parts[i] = "(" + t + ")"
		}
	}
	return strings.Join(parts, " && ")
}
