package convert

import "github.com/pkg/errors"

// TargetFormat identifies an output container by its MIME type.
type TargetFormat string

// Supported output formats.
const (
	// FormatPNG is lossless PNG output.
	FormatPNG TargetFormat = "image/png"
	// FormatJPEG is lossy JPEG output.
	FormatJPEG TargetFormat = "image/jpeg"
	// FormatWEBP is lossy WebP output.
	FormatWEBP TargetFormat = "image/webp"
	// FormatBMP is uncompressed 24-bit legacy bitmap output.
	FormatBMP TargetFormat = "image/bmp"
	// FormatSVG is a vector document wrapping the raster payload.
	FormatSVG TargetFormat = "image/svg+xml"
)

// targetFormats is the set of accepted output formats.
var targetFormats = map[TargetFormat]struct{}{
	FormatPNG:  {},
	FormatJPEG: {},
	FormatWEBP: {},
	FormatBMP:  {},
	FormatSVG:  {},
}

// ParseFormat validates a MIME-like format tag and returns the matching
// TargetFormat.
func ParseFormat(s string) (TargetFormat, error) {
	f := TargetFormat(s)
	if _, ok := targetFormats[f]; !ok {
		return "", errors.Errorf("unsupported target format: %q", s)
	}
	return f, nil
}

// Extension returns the filename extension implied by the format, without the
// leading dot. The vector wrapper maps to "svg"; raster formats use the MIME
// subtype.
func (f TargetFormat) Extension() string {
	if f == FormatSVG {
		return "svg"
	}
	for i := 0; i < len(f); i++ {
		if f[i] == '/' {
			return string(f[i+1:])
		}
	}
	return string(f)
}
