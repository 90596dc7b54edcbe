package convert

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Preset is a named, reusable conversion configuration. Presets let callers
// ship quality/scale profiles as data instead of hardcoding request fields.
type Preset struct {
	// Format is the target output container.
	Format TargetFormat `yaml:"format" json:"format"`
	// Quality is the lossy-encoder quality factor in [0, 1].
	Quality float64 `yaml:"quality" json:"quality"`
	// Scale is the uniform scale factor. Defaults to 1.0 when omitted.
	Scale float64 `yaml:"scale" json:"scale"`
}

// LoadPresets parses a YAML document mapping preset names to conversion
// settings, e.g.:
//
//	thumbnail:
//	  format: image/jpeg
//	  quality: 0.7
//	  scale: 0.25
//
// Every preset is validated before the map is returned.
func LoadPresets(r io.Reader) (map[string]Preset, error) {
	var presets map[string]Preset
	if err := yaml.NewDecoder(r).Decode(&presets); err != nil {
		return nil, errors.Wrap(err, "parse presets")
	}

	for name, p := range presets {
		if p.Scale == 0 {
			p.Scale = 1.0
			presets[name] = p
		}
		if _, ok := targetFormats[p.Format]; !ok {
			return nil, errors.Errorf("preset %q: unsupported target format %q", name, string(p.Format))
		}
		if p.Quality < 0 || p.Quality > 1 {
			return nil, errors.Errorf("preset %q: quality out of range [0, 1]: %g", name, p.Quality)
		}
		if p.Scale <= 0 {
			return nil, errors.Errorf("preset %q: scale must be positive: %g", name, p.Scale)
		}
	}

	return presets, nil
}

// Request builds a conversion request for the given source bytes using the
// preset's settings.
func (p Preset) Request(data []byte) Request {
	scale := p.Scale
	if scale == 0 {
		scale = 1.0
	}
	return Request{
		Data:    data,
		Format:  p.Format,
		Quality: p.Quality,
		Scale:   scale,
	}
}
