// Package svg synthesizes minimal vector documents that wrap a single raster
// image. The wrapper gives raster output an SVG container without any actual
// vectorization: the payload is a PNG embedded as a data URL.
package svg

import (
	"bytes"
	"fmt"

	"github.com/rasterlab/go-convert/dataurl"
)

// MIMEType is the media type of the produced documents.
const MIMEType = "image/svg+xml"

// Wrap builds an SVG document of the given dimensions containing one embedded
// <image> element referencing the PNG payload as a base64 data URL. Both the
// root element and the image element declare the same width and height.
func Wrap(pngData []byte, width, height int) []byte {
	href := dataurl.EncodeBytes("image/png", pngData)

	var b bytes.Buffer
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		width, height)
	fmt.Fprintf(&b, `<image width="%d" height="%d" href="%s"/>`, width, height, href)
	b.WriteString(`</svg>`)
	return b.Bytes()
}
