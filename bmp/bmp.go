// Package bmp writes uncompressed 24-bit Windows bitmap files with the legacy
// 54-byte header. The layout is reproduced byte-for-byte: little-endian
// fields, bottom-up row order, BGR channel order, and rows zero-padded to a
// 4-byte boundary. Alpha is dropped.
package bmp

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/pkg/errors"
)

const (
	// fileHeaderSize is the BITMAPFILEHEADER size in bytes.
	fileHeaderSize = 14
	// infoHeaderSize is the BITMAPINFOHEADER size in bytes.
	infoHeaderSize = 40
	// pixelDataOffset is where the pixel array starts.
	pixelDataOffset = fileHeaderSize + infoHeaderSize

	bitsPerPixel = 24
	// pelsPerMeter is 2835 pixels-per-meter on both axes, roughly 72 DPI.
	pelsPerMeter = 2835
)

// RowStride returns the padded byte length of one pixel row. Rows of 24-bit
// pixels are aligned up to the next 4-byte boundary.
func RowStride(width int) int {
	return ((bitsPerPixel*width + 31) / 32) * 4
}

// FileSize returns the total encoded file length for the given dimensions.
func FileSize(width, height int) int {
	return pixelDataOffset + RowStride(width)*height
}

// EncodeBytes encodes an RGBA buffer as a complete BMP file.
//
// The output is exactly FileSize(w, h) bytes: a 14-byte file header, a
// 40-byte info header with a positive height signalling bottom-up row order,
// and the pixel array written from the last source row to the first with BGR
// channel bytes and zero padding per row.
func EncodeBytes(img *image.RGBA) []byte {
	width := img.Rect.Dx()
	height := img.Rect.Dy()
	stride := RowStride(width)
	pixelArraySize := stride * height
	fileSize := pixelDataOffset + pixelArraySize

	b := make([]byte, fileSize)

	// File header.
	b[0] = 0x42 // 'B'
	b[1] = 0x4D // 'M'
	binary.LittleEndian.PutUint32(b[2:6], uint32(fileSize))
	// Bytes 6..10 are the two reserved uint16 fields, left zero.
	binary.LittleEndian.PutUint32(b[10:14], pixelDataOffset)

	// Info header.
	binary.LittleEndian.PutUint32(b[14:18], infoHeaderSize)
	binary.LittleEndian.PutUint32(b[18:22], uint32(int32(width)))
	binary.LittleEndian.PutUint32(b[22:26], uint32(int32(height)))
	binary.LittleEndian.PutUint16(b[26:28], 1)            // planes
	binary.LittleEndian.PutUint16(b[28:30], bitsPerPixel) // bpp
	binary.LittleEndian.PutUint32(b[30:34], 0)            // BI_RGB, no compression
	binary.LittleEndian.PutUint32(b[34:38], uint32(pixelArraySize))
	binary.LittleEndian.PutUint32(b[38:42], uint32(int32(pelsPerMeter)))
	binary.LittleEndian.PutUint32(b[42:46], uint32(int32(pelsPerMeter)))
	// Bytes 46..54 are colors-used and important-colors, left zero.

	// Pixel array, bottom-up. Padding bytes are already zero from make.
	off := pixelDataOffset
	for y := height - 1; y >= 0; y-- {
		srcIdx := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		rowIdx := off
		for x := 0; x < width; x++ {
			b[rowIdx+0] = img.Pix[srcIdx+2] // blue
			b[rowIdx+1] = img.Pix[srcIdx+1] // green
			b[rowIdx+2] = img.Pix[srcIdx+0] // red
			rowIdx += 3
			srcIdx += 4
		}
		off += stride
	}

	return b
}

// Encode writes an RGBA buffer to w as a complete BMP file.
func Encode(w io.Writer, img *image.RGBA) error {
	if _, err := w.Write(EncodeBytes(img)); err != nil {
		return errors.Wrap(err, "write bmp")
	}
	return nil
}
