// Package convert implements the image format conversion pipeline: decode an
// encoded source image, resample it to target dimensions, and re-encode it
// into one of the supported output containers.
package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"

	"github.com/rasterlab/go-convert/bmp"
	"github.com/rasterlab/go-convert/dataurl"
	"github.com/rasterlab/go-convert/images"
	"github.com/rasterlab/go-convert/svg"
)

// Options defines pipeline configuration shared by every call on a Converter.
type Options struct {
	// Filter is the resampling filter used when rescaling.
	Filter images.ResampleFilter
	// Grayscale converts the frame to grayscale before encoding.
	Grayscale bool
}

// DefaultOptions returns the standard pipeline configuration: Lanczos
// resampling, no grayscale pass.
func DefaultOptions() Options {
	return Options{Filter: images.Lanczos}
}

// Converter runs conversion requests. Each call owns its working buffer
// exclusively; a Converter holds no per-call state and is safe for concurrent
// use.
type Converter struct {
	opts       Options
	bufferPool *sync.Pool
	debugMode  bool
}

// New creates a Converter with the given options.
func New(opts Options) *Converter {
	return &Converter{
		opts: opts,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// SetDebugMode enables or disables debug logging.
func (c *Converter) SetDebugMode(enabled bool) {
	c.debugMode = enabled
}

// Convert runs the full pipeline for one request.
//
// The source bytes are decoded into a pixel source, resampled to
// max(1, round(natural*scale)) per axis, and dispatched to the encoder for
// the requested format. Failures surface as *DecodeError, *EncodeError, or
// *MalformedDataError; no partial Result is ever returned.
//
// Arguments:
// - req: The conversion request.
//
// Returns:
// - *Result: The encoded payload and its MIME type.
// - error: An error if validation, decoding, or encoding fails.
func (c *Converter) Convert(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}

	src, format, err := images.Decode(req.Data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	naturalWidth := src.Bounds().Dx()
	naturalHeight := src.Bounds().Dy()

	if c.debugMode {
		fmt.Printf("[DEBUG] Decoded %s source: %dx%d\n", format, naturalWidth, naturalHeight)
	}

	width, height := images.TargetSize(naturalWidth, naturalHeight, req.Scale)
	frame := images.Resample(src, width, height, c.opts.Filter)
	if c.opts.Grayscale {
		frame = images.Grayscale(frame)
	}

	if c.debugMode {
		fmt.Printf("[DEBUG] Resampled to %dx%d, encoding as %s\n", width, height, req.Format)
	}

	switch req.Format {
	case FormatBMP:
		// Always uncompressed 24-bit; quality and the native encoder path
		// are irrelevant here.
		return &Result{Data: bmp.EncodeBytes(frame), MIMEType: string(FormatBMP)}, nil

	case FormatSVG:
		data, err := c.encodeSVG(frame, width, height)
		if err != nil {
			return nil, err
		}
		return &Result{Data: data, MIMEType: svg.MIMEType}, nil

	default:
		data, mimeType, err := c.encodeNative(frame, req.Format, req.Quality)
		if err != nil {
			return nil, err
		}
		return &Result{Data: data, MIMEType: mimeType}, nil
	}
}

// encodeNative encodes the frame with the built-in encoder for the requested
// format. On failure it falls back deterministically to the embedded-data
// path: render the frame as a data URL, then decode that string back into raw
// bytes. Only when both paths fail does it return an *EncodeError.
func (c *Converter) encodeNative(frame *image.RGBA, format TargetFormat, quality float64) ([]byte, string, error) {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		c.bufferPool.Put(buf)
	}()

	var err error
	switch format {
	case FormatPNG:
		// Lossless path: quality is accepted but has no effect.
		err = png.Encode(buf, frame)
	case FormatJPEG:
		err = jpeg.Encode(buf, frame, &jpeg.Options{Quality: jpegQuality(quality)})
	case FormatWEBP:
		err = webp.Encode(buf, frame, &webp.Options{Quality: webpQuality(quality)})
	default:
		err = errors.Errorf("no native encoder for %q", string(format))
	}

	if err == nil {
		out := make([]byte, buf.Len())
		copy(out, buf.Bytes())
		return out, string(format), nil
	}

	if c.debugMode {
		fmt.Printf("[DEBUG] Native %s encoder failed (%v), using data url fallback\n", format, err)
	}

	data, mimeType, ferr := c.encodeFallback(frame)
	if ferr != nil {
		return nil, "", &EncodeError{Format: format, Err: errors.Wrapf(ferr, "native encoder failed: %v", err)}
	}
	return data, mimeType, nil
}

// encodeFallback renders the frame as a self-describing embedded-data string
// and decodes it back into raw bytes tagged with the declared media type.
func (c *Converter) encodeFallback(frame *image.RGBA) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, "", errors.Wrap(err, "encode fallback frame")
	}

	s := dataurl.EncodeBytes("image/png", buf.Bytes())
	data, mimeType, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, "", &MalformedDataError{Err: err}
	}
	return data, mimeType, nil
}

// encodeSVG encodes the frame as PNG and wraps it in a vector document whose
// root and embedded image both declare the resampled dimensions.
func (c *Converter) encodeSVG(frame *image.RGBA, width, height int) ([]byte, error) {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		c.bufferPool.Put(buf)
	}()

	if err := png.Encode(buf, frame); err != nil {
		return nil, &EncodeError{Format: FormatSVG, Err: errors.Wrap(err, "encode embedded raster")}
	}
	return svg.Wrap(buf.Bytes(), width, height), nil
}

// jpegQuality maps a [0, 1] quality factor to the 1-100 range the stdlib
// JPEG encoder requires.
func jpegQuality(quality float64) int {
	q := int(quality*100 + 0.5)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

// webpQuality maps a [0, 1] quality factor to the 0-100 float range of the
// WebP encoder.
func webpQuality(quality float64) float32 {
	q := float32(quality * 100)
	if q < 0 {
		q = 0
	}
	if q > 100 {
		q = 100
	}
	return q
}
