// Package images - decoding and resampling primitives for the conversion pipeline.
package images

// Image represents an encoded image with a format, data, width, and height.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The encoded bytes of the image.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image in pixels.
	Width int `json:"width" yaml:"width"`
	// The height of the image in pixels.
	Height int `json:"height" yaml:"height"`
}

// ImageFormat represents supported image formats.
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatGIF is the GIF image format.
	FormatGIF ImageFormat = "gif"
	// FormatBMP is the Windows bitmap image format.
	FormatBMP ImageFormat = "bmp"
)
