package abigen

import (
	"os"
	"path/filepath"

	"github.com/wippyai/gamebind/errors"
	"github.com/wippyai/gamebind/schema"
)

// WriteFiles writes out into dir under the names from cfg.
func WriteFiles(dir string, out *Output, cfg Config) error {
	files := []struct {
		name string
		data []byte
	}{
		{cfg.GoFile, out.Go},
		{cfg.CFile, out.C},
		{cfg.HeaderFile, out.Header},
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "create output directory")
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o644); err != nil {
			return errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "write "+f.name)
		}
	}
	return nil
}

// Run builds the model from b, generates the boundary and writes it to dir.
// It is the body of a module's generator entry point.
func Run(b *schema.Builder, cfg Config, dir string) (*schema.Model, error) {
	model, err := b.Build()
	if err != nil {
		return nil, err
	}
	out, err := Generate(model, cfg)
	if err != nil {
		return nil, err
	}
	return model, WriteFiles(dir, out, cfg)
}
