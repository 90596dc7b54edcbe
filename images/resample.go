package images

import (
	"image"
	"image/draw"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
)

// ResampleFilter defines the resampling algorithm used for image scaling.
type ResampleFilter int

const (
	// NearestNeighbor uses nearest-neighbor interpolation (fastest, lowest quality).
	NearestNeighbor ResampleFilter = iota
	// Bilinear uses bilinear interpolation (fast, good quality).
	Bilinear
	// CatmullRom uses the Catmull-Rom cubic filter (slower, better quality).
	CatmullRom
	// Lanczos uses Lanczos resampling with a=3 (slowest, best quality).
	Lanczos
	// MitchellNetravali uses the Mitchell-Netravali cubic filter (balanced).
	MitchellNetravali
)

// kernel represents a resampling kernel function.
type kernel struct {
	// support is the radius of the kernel in pixels.
	support float32
	// at evaluates the kernel weight at distance x from the sample center.
	at func(x float32) float32
}

// kernels maps each filter type to its kernel function.
var kernels = map[ResampleFilter]kernel{
	NearestNeighbor: {
		support: 0.5,
		at: func(x float32) float32 {
			if math32.Abs(x) < 0.5 {
				return 1.0
			}
			return 0.0
		},
	},
	Bilinear: {
		support: 1.0,
		at: func(x float32) float32 {
			// Triangle function: linear falloff with distance.
			x = math32.Abs(x)
			if x < 1.0 {
				return 1.0 - x
			}
			return 0.0
		},
	},
	CatmullRom: {
		support: 2.0,
		at: func(x float32) float32 {
			// Cubic with B=0, C=0.5 (Catmull-Rom): smooth with minimal ringing.
			x = math32.Abs(x)
			if x < 1.0 {
				return (1.5*x-2.5)*x*x + 1.0
			}
			if x < 2.0 {
				return ((-0.5*x+2.5)*x-4.0)*x + 2.0
			}
			return 0.0
		},
	},
	Lanczos: {
		support: 3.0,
		at: func(x float32) float32 {
			// sinc(x) * sinc(x/3); sharp but can ring near hard edges.
			if x == 0.0 {
				return 1.0
			}
			x = math32.Abs(x)
			if x >= 3.0 {
				return 0.0
			}
			pix := math32.Pi * x
			return (math32.Sin(pix) / pix) * (math32.Sin(pix/3.0) / (pix / 3.0))
		},
	},
	MitchellNetravali: {
		support: 2.0,
		at: func(x float32) float32 {
			// Mitchell-Netravali with B=1/3, C=1/3.
			x = math32.Abs(x)
			if x < 1.0 {
				return ((1.16666666666667*x-2.0)*x)*x + 0.888888888888889
			}
			if x < 2.0 {
				return ((-0.388888888888889*x+2.0)*x-3.333333333333333)*x + 1.777777777777778
			}
			return 0.0
		},
	},
}

// contribution represents a single source pixel's contribution to one output pixel.
type contribution struct {
	// pixel is the source pixel index along the resampled axis.
	pixel int
	// weight is the normalized contribution weight.
	weight float32
}

// buildContributions pre-computes the weighted source pixel ranges for each of
// dstN output positions along an axis of srcN source pixels. Weights are
// normalized to sum to 1.0 so brightness is preserved. When downsampling the
// kernel support is stretched by the scale ratio so every source pixel is
// covered.
func buildContributions(srcN, dstN int, k kernel) [][]contribution {
	scale := float32(srcN) / float32(dstN)
	filterScale := scale
	if filterScale < 1.0 {
		filterScale = 1.0
	}
	support := k.support * filterScale

	out := make([][]contribution, dstN)
	for i := 0; i < dstN; i++ {
		center := (float32(i) + 0.5) * scale

		left := int(math32.Floor(center - support))
		right := int(math32.Ceil(center + support))
		if left < 0 {
			left = 0
		}
		if right >= srcN {
			right = srcN - 1
		}

		var weights []contribution
		var sum float32
		for s := left; s <= right; s++ {
			distance := math32.Abs(float32(s) - center + 0.5)
			w := k.at(distance / filterScale)
			if w != 0 {
				weights = append(weights, contribution{pixel: s, weight: w})
				sum += w
			}
		}

		if sum != 0 {
			for j := range weights {
				weights[j].weight /= sum
			}
		}
		out[i] = weights
	}
	return out
}

// Resample scales an image to the given dimensions using the specified
// resampling filter. The implementation is separable: it resamples
// horizontally into an intermediate buffer, then vertically into the output.
// The result is deterministic for a fixed input, size, and filter.
//
// Arguments:
// - img: The source image to resample.
// - width: The target width in pixels.
// - height: The target height in pixels.
// - filter: The resampling filter to use for interpolation.
//
// Returns:
// - A newly allocated RGBA buffer at the target dimensions. The source is
//   never modified, and identity sizes still return a fresh copy.
func Resample(img image.Image, width, height int, filter ResampleFilter) *image.RGBA {
	if width <= 0 || height <= 0 {
		// Degenerate request: return a minimal buffer rather than panic.
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	src := toRGBA(img)
	srcWidth := src.Rect.Dx()
	srcHeight := src.Rect.Dy()

	// toRGBA already produced a fresh copy, so the identity case is done.
	if srcWidth == width && srcHeight == height {
		return src
	}

	if filter == NearestNeighbor {
		return resampleNearest(src, width, height)
	}

	k, ok := kernels[filter]
	if !ok {
		k = kernels[Lanczos]
	}

	// Horizontal pass into an intermediate buffer, then vertical pass.
	intermediate := image.NewRGBA(image.Rect(0, 0, width, srcHeight))
	resampleHorizontal(src, intermediate, k)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	resampleVertical(intermediate, dst, k)
	return dst
}

// resampleNearest performs fast nearest-neighbor resampling.
func resampleNearest(src *image.RGBA, width, height int) *image.RGBA {
	srcWidth := src.Rect.Dx()
	srcHeight := src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	xRatio := float64(srcWidth) / float64(width)
	yRatio := float64(srcHeight) / float64(height)

	parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			srcY := int(float64(y)*yRatio + 0.5)
			if srcY >= srcHeight {
				srcY = srcHeight - 1
			}

			for x := 0; x < width; x++ {
				srcX := int(float64(x)*xRatio + 0.5)
				if srcX >= srcWidth {
					srcX = srcWidth - 1
				}

				srcIdx := src.PixOffset(srcX, srcY)
				dstIdx := dst.PixOffset(x, y)
				copy(dst.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
			}
		}
	})

	return dst
}

// resampleHorizontal resamples src into dst along the X axis. dst must have
// the target width and the same height as src.
func resampleHorizontal(src, dst *image.RGBA, k kernel) {
	srcWidth := src.Rect.Dx()
	dstWidth := dst.Rect.Dx()
	height := src.Rect.Dy()

	contributions := buildContributions(srcWidth, dstWidth, k)

	parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			for x := 0; x < dstWidth; x++ {
				var r, g, b, a float32

				for _, c := range contributions[x] {
					srcIdx := src.PixOffset(c.pixel, y)
					w := c.weight
					r += float32(src.Pix[srcIdx+0]) * w
					g += float32(src.Pix[srcIdx+1]) * w
					b += float32(src.Pix[srcIdx+2]) * w
					a += float32(src.Pix[srcIdx+3]) * w
				}

				dstIdx := dst.PixOffset(x, y)
				dst.Pix[dstIdx+0] = uint8(clamp32(r, 0, 255) + 0.5)
				dst.Pix[dstIdx+1] = uint8(clamp32(g, 0, 255) + 0.5)
				dst.Pix[dstIdx+2] = uint8(clamp32(b, 0, 255) + 0.5)
				dst.Pix[dstIdx+3] = uint8(clamp32(a, 0, 255) + 0.5)
			}
		}
	})
}

// resampleVertical resamples src into dst along the Y axis. dst must have the
// target height and the same width as src.
func resampleVertical(src, dst *image.RGBA, k kernel) {
	srcHeight := src.Rect.Dy()
	dstHeight := dst.Rect.Dy()
	width := dst.Rect.Dx()

	contributions := buildContributions(srcHeight, dstHeight, k)

	parallel(width, func(partStart, partEnd int) {
		for x := partStart; x < partEnd; x++ {
			for y := 0; y < dstHeight; y++ {
				var r, g, b, a float32

				for _, c := range contributions[y] {
					srcIdx := src.PixOffset(x, c.pixel)
					w := c.weight
					r += float32(src.Pix[srcIdx+0]) * w
					g += float32(src.Pix[srcIdx+1]) * w
					b += float32(src.Pix[srcIdx+2]) * w
					a += float32(src.Pix[srcIdx+3]) * w
				}

				dstIdx := dst.PixOffset(x, y)
				dst.Pix[dstIdx+0] = uint8(clamp32(r, 0, 255) + 0.5)
				dst.Pix[dstIdx+1] = uint8(clamp32(g, 0, 255) + 0.5)
				dst.Pix[dstIdx+2] = uint8(clamp32(b, 0, 255) + 0.5)
				dst.Pix[dstIdx+3] = uint8(clamp32(a, 0, 255) + 0.5)
			}
		}
	})
}

// Grayscale converts an image to grayscale using ITU-R BT.709 luma
// coefficients, which reflect human eye sensitivity to each channel. The alpha
// channel is preserved.
//
// Arguments:
// - img: The source image to convert.
//
// Returns:
// - A new RGBA buffer with identical gray values in all color channels.
func Grayscale(img image.Image) *image.RGBA {
	src := toRGBA(img)
	width := src.Rect.Dx()
	height := src.Rect.Dy()

	const (
		redWeight   = 0.2126
		greenWeight = 0.7152
		blueWeight  = 0.0722
	)

	parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			for x := 0; x < width; x++ {
				idx := src.PixOffset(x, y)

				luma := redWeight*float32(src.Pix[idx+0]) +
					greenWeight*float32(src.Pix[idx+1]) +
					blueWeight*float32(src.Pix[idx+2])
				gray := uint8(clamp32(luma, 0, 255) + 0.5)

				src.Pix[idx+0] = gray
				src.Pix[idx+1] = gray
				src.Pix[idx+2] = gray
			}
		}
	})

	return src
}

// toRGBA copies an arbitrary image into a freshly allocated RGBA buffer with a
// zero-origin rectangle. Callers rely on the copy: pixel data is always owned
// by the new buffer.
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// clamp32 restricts a value to the range [min, max].
func clamp32(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// parallel partitions dataSize across one goroutine per CPU and invokes fn
// with each partition's [start, end) range. Small inputs run serially.
func parallel(dataSize int, fn func(partStart, partEnd int)) {
	numGoroutines := runtime.NumCPU()

	if dataSize < numGoroutines*2 {
		fn(0, dataSize)
		return
	}

	partSize := dataSize / numGoroutines

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		partStart := i * partSize
		partEnd := partStart + partSize
		if i == numGoroutines-1 {
			partEnd = dataSize
		}

		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(partStart, partEnd)
	}

	wg.Wait()
}
