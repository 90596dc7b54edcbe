package convert

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasterlab/go-convert/dataurl"
)

func getTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 64,
				A: 255,
			})
		}
	}
	return img
}

func getPNGBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, getTestImage(w, h)))
	return buf.Bytes()
}

func getJPEGBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, getTestImage(w, h), nil))
	return buf.Bytes()
}

func TestConvertTargets(t *testing.T) {
	c := New(DefaultOptions())
	src := getPNGBytes(t, 64, 48)

	tests := []struct {
		name       string
		format     TargetFormat
		scale      float64
		wantMIME   string
		wantWidth  int
		wantHeight int
	}{
		{name: "PNGIdentity", format: FormatPNG, scale: 1.0, wantMIME: "image/png", wantWidth: 64, wantHeight: 48},
		{name: "JPEGHalf", format: FormatJPEG, scale: 0.5, wantMIME: "image/jpeg", wantWidth: 32, wantHeight: 24},
		{name: "WEBPDouble", format: FormatWEBP, scale: 2.0, wantMIME: "image/webp", wantWidth: 128, wantHeight: 96},
		{name: "BMPIdentity", format: FormatBMP, scale: 1.0, wantMIME: "image/bmp", wantWidth: 64, wantHeight: 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Convert(Request{Data: src, Format: tt.format, Quality: 0.9, Scale: tt.scale})
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantMIME, result.MIMEType)

			decoded, _, err := image.Decode(bytes.NewReader(result.Data))
			require.NoError(t, err, "output should be decodable")
			assert.Equal(t, tt.wantWidth, decoded.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, decoded.Bounds().Dy())
		})
	}
}

func TestConvertPNGIdempotent(t *testing.T) {
	// Converting an already-converted PNG back to PNG at scale 1 keeps
	// dimensions and stays decodable.
	c := New(DefaultOptions())
	src := getPNGBytes(t, 40, 30)

	first, err := c.Convert(Request{Data: src, Format: FormatPNG, Quality: 1, Scale: 1})
	require.NoError(t, err)

	second, err := c.Convert(Request{Data: first.Data, Format: FormatPNG, Quality: 1, Scale: 1})
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(second.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestConvertLosslessIgnoresQuality(t *testing.T) {
	c := New(DefaultOptions())
	src := getPNGBytes(t, 32, 32)

	low, err := c.Convert(Request{Data: src, Format: FormatPNG, Quality: 0, Scale: 1})
	require.NoError(t, err)
	high, err := c.Convert(Request{Data: src, Format: FormatPNG, Quality: 1, Scale: 1})
	require.NoError(t, err)

	assert.Equal(t, low.Data, high.Data, "quality must have no effect on the lossless path")
}

func TestConvertJPEGQualityMatters(t *testing.T) {
	c := New(DefaultOptions())
	src := getPNGBytes(t, 128, 128)

	low, err := c.Convert(Request{Data: src, Format: FormatJPEG, Quality: 0.1, Scale: 1})
	require.NoError(t, err)
	high, err := c.Convert(Request{Data: src, Format: FormatJPEG, Quality: 0.95, Scale: 1})
	require.NoError(t, err)

	assert.Less(t, len(low.Data), len(high.Data), "lower quality should compress harder")
}

func TestConvertSVGWrapper(t *testing.T) {
	c := New(DefaultOptions())
	src := getJPEGBytes(t, 50, 40)

	result, err := c.Convert(Request{Data: src, Format: FormatSVG, Quality: 0.8, Scale: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", result.MIMEType)

	doc := string(result.Data)
	assert.Contains(t, doc, `width="25" height="20"`, "declared dimensions must equal the resampled dimensions")
	assert.Contains(t, doc, `data:image/png;base64,`, "embedded reference must carry a PNG type tag")

	// The embedded payload must itself be a decodable PNG at the same size.
	start := strings.Index(doc, "data:image/png;base64,")
	require.GreaterOrEqual(t, start, 0)
	end := strings.IndexByte(doc[start:], '"')
	require.Greater(t, end, 0)

	embedded, mimeType, err := dataurl.DecodeString(doc[start : start+end])
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	img, err := png.Decode(bytes.NewReader(embedded))
	require.NoError(t, err)
	assert.Equal(t, 25, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestConvertTinyScaleClampsToOnePixel(t *testing.T) {
	c := New(DefaultOptions())
	src := getPNGBytes(t, 3, 3)

	result, err := c.Convert(Request{Data: src, Format: FormatPNG, Quality: 1, Scale: 0.01})
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}

func TestConvertDecodeFailure(t *testing.T) {
	c := New(DefaultOptions())

	result, err := c.Convert(Request{
		Data:    []byte("these are not image bytes"),
		Format:  FormatPNG,
		Quality: 1,
		Scale:   1,
	})
	require.Error(t, err)
	assert.Nil(t, result, "no partial result on decode failure")

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr), "error should be a *DecodeError")
}

func TestConvertValidation(t *testing.T) {
	c := New(DefaultOptions())
	src := getPNGBytes(t, 8, 8)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "EmptyData", req: Request{Format: FormatPNG, Quality: 1, Scale: 1}},
		{name: "UnknownFormat", req: Request{Data: src, Format: "image/tiff", Quality: 1, Scale: 1}},
		{name: "QualityTooHigh", req: Request{Data: src, Format: FormatJPEG, Quality: 1.5, Scale: 1}},
		{name: "QualityNegative", req: Request{Data: src, Format: FormatJPEG, Quality: -0.1, Scale: 1}},
		{name: "ZeroScale", req: Request{Data: src, Format: FormatPNG, Quality: 1, Scale: 0}},
		{name: "NegativeScale", req: Request{Data: src, Format: FormatPNG, Quality: 1, Scale: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Convert(tt.req)
			assert.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestConvertGrayscaleOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Grayscale = true
	c := New(opts)

	result, err := c.Convert(Request{Data: getPNGBytes(t, 16, 16), Format: FormatPNG, Quality: 1, Scale: 1})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			require.Equal(t, r, g, "channels should match at (%d,%d)", x, y)
			require.Equal(t, g, b, "channels should match at (%d,%d)", x, y)
		}
	}
}

func TestConvertWEBPDecodable(t *testing.T) {
	c := New(DefaultOptions())

	result, err := c.Convert(Request{Data: getPNGBytes(t, 60, 60), Format: FormatWEBP, Quality: 0.75, Scale: 1})
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err, "output should be decodable WebP")
	assert.Equal(t, 60, img.Bounds().Dx())
}

func TestEncodeFallbackEquivalence(t *testing.T) {
	// The embedded-data fallback must yield the same payload as the direct
	// native PNG path.
	c := New(DefaultOptions())
	frame := getTestImage(20, 20)

	data, mimeType, err := c.encodeFallback(frame)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, frame))
	assert.Equal(t, buf.Bytes(), data)
}

func TestConvertBatch(t *testing.T) {
	c := New(DefaultOptions())
	src := getPNGBytes(t, 30, 30)

	reqs := []Request{
		{Data: src, Format: FormatPNG, Quality: 1, Scale: 1},
		{Data: src, Format: FormatJPEG, Quality: 0.8, Scale: 0.5},
		{Data: src, Format: FormatBMP, Quality: 1, Scale: 1},
		{Data: src, Format: FormatSVG, Quality: 1, Scale: 1},
	}

	results, err := c.ConvertBatch(reqs, 2)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	wantMIMEs := []string{"image/png", "image/jpeg", "image/bmp", "image/svg+xml"}
	for i, result := range results {
		require.NotNil(t, result, "result %d", i)
		assert.Equal(t, wantMIMEs[i], result.MIMEType)
		assert.NotEmpty(t, result.Data)
	}
}

func TestConvertBatchReturnsFirstError(t *testing.T) {
	c := New(DefaultOptions())

	reqs := []Request{
		{Data: getPNGBytes(t, 10, 10), Format: FormatPNG, Quality: 1, Scale: 1},
		{Data: []byte("broken"), Format: FormatPNG, Quality: 1, Scale: 1},
		{Data: []byte("also broken"), Format: FormatPNG, Quality: 1, Scale: 1},
	}

	results, err := c.ConvertBatch(reqs, 4)
	require.Error(t, err)
	assert.Nil(t, results, "no partial results when any request fails")
	assert.Contains(t, err.Error(), "request 1", "the lowest-indexed failure wins")
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		original string
		mimeType string
		want     string
	}{
		{original: "photo.jpg", mimeType: "image/png", want: "photo.png"},
		{original: "photo.png", mimeType: "image/jpeg", want: "photo.jpeg"},
		{original: "scan.tiff", mimeType: "image/bmp", want: "scan.bmp"},
		{original: "art.webp", mimeType: "image/svg+xml", want: "art.svg"},
		{original: "noextension", mimeType: "image/webp", want: "noextension.webp"},
		{original: "", mimeType: "image/png", want: "image.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputFilename(tt.original, tt.mimeType))
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("image/webp")
	require.NoError(t, err)
	assert.Equal(t, FormatWEBP, f)

	_, err = ParseFormat("image/tiff")
	assert.Error(t, err)
}

func BenchmarkConvertPNG(b *testing.B) {
	c := New(DefaultOptions())
	var buf bytes.Buffer
	if err := png.Encode(&buf, getTestImage(640, 480)); err != nil {
		b.Fatal(err)
	}
	req := Request{Data: buf.Bytes(), Format: FormatPNG, Quality: 1, Scale: 0.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Convert(req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConvertBMP(b *testing.B) {
	c := New(DefaultOptions())
	var buf bytes.Buffer
	if err := png.Encode(&buf, getTestImage(640, 480)); err != nil {
		b.Fatal(err)
	}
	req := Request{Data: buf.Bytes(), Format: FormatBMP, Quality: 1, Scale: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Convert(req); err != nil {
			b.Fatal(err)
		}
	}
}
