package images

import (
	"bytes"
	"image"
	"math"

	"github.com/pkg/errors"

	// Register stdlib decoders for auto-detection.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Register WebP decoding.
	_ "github.com/chai2010/webp"

	// Register BMP decoding.
	_ "golang.org/x/image/bmp"
)

// Decode decodes encoded image bytes into a pixel source using the registered
// codecs (PNG, JPEG, GIF, WebP, BMP).
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - image.Image: The decoded pixel source.
// - string: The detected format name (e.g. "png").
// - error: An error if the bytes are empty, corrupt, or use an unsupported codec.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image")
	}
	return img, format, nil
}

// DecodeConfig reads the natural dimensions and format of encoded image bytes
// without decoding the full pixel data.
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - int: The natural width in pixels.
// - int: The natural height in pixels.
// - string: The detected format name.
// - error: An error if the header cannot be parsed.
func DecodeConfig(data []byte) (int, int, string, error) {
	if len(data) == 0 {
		return 0, 0, "", errors.New("empty image data")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", errors.Wrap(err, "decode image config")
	}
	return cfg.Width, cfg.Height, format, nil
}

// Inspect probes encoded image bytes and returns an Image value carrying the
// original bytes together with the detected format and natural dimensions.
// Only the header is parsed; the pixel data is not decoded.
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - Image: The probed image metadata with the source bytes attached.
// - error: An error if the header cannot be parsed.
func Inspect(data []byte) (Image, error) {
	width, height, format, err := DecodeConfig(data)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Format: ImageFormat(format),
		Data:   data,
		Width:  width,
		Height: height,
	}, nil
}

// TargetSize computes the output dimensions for a uniform scale factor.
// Each axis is rounded to the nearest integer and floored at 1, so a tiny
// scale never produces a zero-sized or negative buffer.
//
// Arguments:
// - naturalWidth: The decoded image width in pixels.
// - naturalHeight: The decoded image height in pixels.
// - scale: The uniform scale factor applied to both axes.
//
// Returns:
// - int: The target width, always >= 1.
// - int: The target height, always >= 1.
func TargetSize(naturalWidth, naturalHeight int, scale float64) (int, int) {
	width := int(math.Round(float64(naturalWidth) * scale))
	height := int(math.Round(float64(naturalHeight) * scale))

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
