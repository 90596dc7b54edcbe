// Package images - type definitions and constants for common export
// resolutions. Useful for callers that want to fit converted output to a
// well-known display size instead of picking a raw scale factor.
package images

import (
	"fmt"
	"math"
)

// AspectRatio represents a display aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Standard aspect ratios for export targets.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
)

// ResolutionType represents a common name for an export resolution.
type ResolutionType string

// Defines the unique type for each supported export resolution.
const (
	ResolutionTypeNHD      ResolutionType = "nHD"
	ResolutionTypeHD720p   ResolutionType = "HD 720p"
	ResolutionTypeFHD1080p ResolutionType = "Full HD 1080p"
	ResolutionTypeQHD1440p ResolutionType = "QHD 1440p"
	ResolutionType4KUHD    ResolutionType = "4K UHD"
	ResolutionType8KUHD    ResolutionType = "8K UHD"
)

// ResolutionPixels describes the exact dimensions of a resolution.
type ResolutionPixels struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Resolution describes the complete set of attributes for an export
// resolution standard.
type Resolution struct {
	Name        ResolutionType   `json:"name"`
	AspectRatio AspectRatio      `json:"aspectRatio"`
	Pixels      ResolutionPixels `json:"pixels"`
}

// Resolutions lists the supported export targets in ascending pixel count.
var Resolutions = []Resolution{
	{Name: ResolutionTypeNHD, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{Width: 640, Height: 360}},
	{Name: ResolutionTypeHD720p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{Width: 1280, Height: 720}},
	{Name: ResolutionTypeFHD1080p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{Width: 1920, Height: 1080}},
	{Name: ResolutionTypeQHD1440p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{Width: 2560, Height: 1440}},
	{Name: ResolutionType4KUHD, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{Width: 3840, Height: 2160}},
	{Name: ResolutionType8KUHD, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{Width: 7680, Height: 4320}},
}

// GetMegaPixels calculates the megapixel value based on the resolution's pixel
// dimensions, rounded to two decimal places (e.g., 2.07 for 1080p).
// O(1) complexity.
func (r Resolution) GetMegaPixels() float64 {
	if r.Pixels.Width <= 0 || r.Pixels.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %s)", r.Name, r.Pixels.Width, r.Pixels.Height, r.AspectRatio)
}

// ScaleToFit returns the largest uniform scale factor that fits an image of
// the given natural dimensions within the resolution, never upscaling past
// 1.0. The result feeds directly into a conversion request's scale field.
func (r Resolution) ScaleToFit(naturalWidth, naturalHeight int) float64 {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return 1.0
	}
	scale := math.Min(
		float64(r.Pixels.Width)/float64(naturalWidth),
		float64(r.Pixels.Height)/float64(naturalHeight),
	)
	if scale > 1.0 {
		return 1.0
	}
	return scale
}
