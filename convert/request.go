package convert

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Request describes one conversion call. A Request is constructed per call
// and never mutated by the pipeline.
type Request struct {
	// Data is the encoded source image.
	Data []byte `json:"data" yaml:"data"`
	// Format is the target output container.
	Format TargetFormat `json:"format" yaml:"format"`
	// Quality is the lossy-encoder quality factor in [0, 1]. Ignored by
	// lossless and bitmap targets.
	Quality float64 `json:"quality" yaml:"quality"`
	// Scale is the uniform scale factor applied to both axes. Must be
	// positive; UI-range clamping (e.g. [0.2, 2.0]) is caller policy.
	Scale float64 `json:"scale" yaml:"scale"`
}

// Result is the output payload of a conversion, tagged with its media type.
// Ownership transfers to the caller.
type Result struct {
	// Data is the encoded output payload.
	Data []byte `json:"data" yaml:"data"`
	// MIMEType declares the payload's media type.
	MIMEType string `json:"mimeType" yaml:"mimeType"`
}

// Validate checks the request fields before any decoding work happens.
func (r Request) Validate() error {
	if len(r.Data) == 0 {
		return errors.New("empty source data")
	}
	if _, ok := targetFormats[r.Format]; !ok {
		return errors.Errorf("unsupported target format: %q", string(r.Format))
	}
	if r.Quality < 0 || r.Quality > 1 {
		return errors.Errorf("quality out of range [0, 1]: %g", r.Quality)
	}
	if r.Scale <= 0 {
		return errors.Errorf("scale must be positive: %g", r.Scale)
	}
	return nil
}

// OutputFilename derives a download filename for a result: the original
// filename with its extension replaced by the one implied by the MIME type.
func OutputFilename(original, mimeType string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	if base == "" {
		base = "image"
	}
	return base + "." + TargetFormat(mimeType).Extension()
}
