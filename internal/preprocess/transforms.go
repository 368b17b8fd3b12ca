package preprocess

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// blurEpsilon is the sigma below which a gaussian blur is skipped in the
// fast preprocessing path; such small kernels barely change the image.
const blurEpsilon = 0.3

// Luma8 converts an image to a single-channel 8-bit luminance buffer.
// A *image.Gray input is returned as-is.
func Luma8(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// Apply runs the fast preprocessing recipe used inside the decode search:
// nearest-neighbor shrink, optional grayscale, a combined
// contrast/brightness pass, and finally an optional light blur.
func Apply(img image.Image, p Params) image.Image {
	result := img

	if p.Resize > 0 {
		b := result.Bounds()
		if max(b.Dx(), b.Dy()) > p.Resize {
			result = imaging.Fit(result, p.Resize, p.Resize, imaging.NearestNeighbor)
		}
	}

	if p.Grayscale {
		result = imaging.Grayscale(result)
	}

	if absDiff(p.Contrast, 1.0) > 0.01 || absDiff(p.Brightness, 1.0) > 0.01 {
		result = AdjustContrastBrightness(result, p.Contrast, p.Brightness)
	}

	if p.Blur > blurEpsilon {
		result = imaging.Blur(result, p.Blur)
	}

	return result
}

// Fit shrinks an image so its longest side is at most target pixels,
// preserving aspect ratio, using Lanczos resampling. Images already within
// the target are returned unchanged. This is the quality path; the search
// loop uses the nearest-neighbor path in Apply.
func Fit(img image.Image, target int) image.Image {
	if target <= 0 {
		return img
	}
	b := img.Bounds()
	if max(b.Dx(), b.Dy()) <= target {
		return img
	}
	return imaging.Fit(img, target, target, imaging.Lanczos)
}

// Downscale resizes an image by a factor using a triangle filter.
// The triangle filter is faster than Lanczos and good enough for stress
// variants. Dimensions are floored at 1 pixel.
func Downscale(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Linear)
}

// Blur applies a gaussian blur with the given sigma. Non-positive sigmas
// return a plain copy.
func Blur(img image.Image, sigma float64) image.Image {
	if sigma <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Blur(img, sigma)
}

// ReduceContrast lowers contrast by a factor (0.5 halves the contrast).
func ReduceContrast(img image.Image, factor float64) image.Image {
	return imaging.AdjustContrast(img, (1.0-factor)*-50.0)
}

// AdjustContrastBrightness applies, per channel,
// out = clamp(((in * brightness) - 128) * contrast + 128, 0, 255).
// The alpha channel is preserved.
func AdjustContrastBrightness(img image.Image, contrast, brightness float64) *image.NRGBA {
	src := imaging.Clone(img)
	b := src.Bounds()
	for y := range b.Dy() {
		row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			for c := range 3 {
				v := float64(row[x+c])*brightness - 128.0
				row[x+c] = clampUint8(v*contrast + 128.0)
			}
		}
	}
	return src
}

// Otsu binarizes an image to {0, 255} using Otsu's automatic threshold.
// Degenerate histograms (all pixels identical) return the grayscale image
// unchanged instead of dividing by zero.
func Otsu(img image.Image) *image.Gray {
	gray := Luma8(img)
	b := gray.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return gray
	}

	var histogram [256]int
	for y := range b.Dy() {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for _, v := range row {
			histogram[v]++
		}
	}

	var sum uint64
	for i, count := range histogram {
		sum += uint64(i) * uint64(count)
	}

	var sumB uint64
	var wB int
	maxVariance := 0.0
	threshold := -1

	for i, count := range histogram {
		wB += count
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += uint64(i) * uint64(count)

		mB := float64(sumB) / float64(wB)
		mF := float64(sum-sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = i
		}
	}

	// Uniform image: every pixel falls into one class, no threshold exists.
	if threshold < 0 {
		return gray
	}

	return binarize(gray, uint8(threshold))
}

// StretchContrast linearly remaps the observed [min, max] luminance range
// to [0, 255]. A degenerate range (min == max) returns the grayscale image
// unchanged.
func StretchContrast(img image.Image) *image.Gray {
	gray := Luma8(img)
	b := gray.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return gray
	}

	minV, maxV := uint8(255), uint8(0)
	for y := range b.Dy() {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for _, v := range row {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if minV == maxV {
		return gray
	}

	scale := 255.0 / float64(maxV-minV)
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x, v := range src {
			dst[x] = uint8(float64(v-minV) * scale)
		}
	}
	return out
}

// HighContrastThreshold stretches the histogram and then binarizes at a
// fixed midpoint of 127, a more aggressive variant than Otsu.
func HighContrastThreshold(img image.Image) *image.Gray {
	return binarize(StretchContrast(img), 127)
}

// Invert flips every pixel: out = 255 - in. Applying it twice restores
// the original image.
func Invert(gray *image.Gray) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x, v := range src {
			dst[x] = 255 - v
		}
	}
	return out
}

// ColorChannels extracts the red, green, blue, and saturation channels as
// independent grayscale images, in that order. Saturation here is the raw
// max(R,G,B) - min(R,G,B) spread, which separates colored QR modules that
// share luminance with their background.
func ColorChannels(img image.Image) []*image.Gray {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	red := image.NewGray(image.Rect(0, 0, w, h))
	green := image.NewGray(image.Rect(0, 0, w, h))
	blue := image.NewGray(image.Rect(0, 0, w, h))
	sat := image.NewGray(image.Rect(0, 0, w, h))

	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		off := y * w
		for x := range w {
			r, g, bl := row[x*4], row[x*4+1], row[x*4+2]
			red.Pix[off+x] = r
			green.Pix[off+x] = g
			blue.Pix[off+x] = bl
			sat.Pix[off+x] = max(r, g, bl) - min(r, g, bl)
		}
	}
	return []*image.Gray{red, green, blue, sat}
}

// HueChannel extracts the HSV hue channel via the six-case max-component
// formula, normalized from [0, 360) degrees to [0, 255].
func HueChannel(img image.Image) *image.Gray {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		off := y * w
		for x := range w {
			r := float64(row[x*4]) / 255.0
			g := float64(row[x*4+1]) / 255.0
			bl := float64(row[x*4+2]) / 255.0

			maxV := maxf(r, g, bl)
			minV := minf(r, g, bl)
			delta := maxV - minV

			var hue float64
			switch {
			case delta < 0.001:
				hue = 0
			case maxV == r:
				hue = 60.0 * fmod((g-bl)/delta, 6.0)
			case maxV == g:
				hue = 60.0 * ((bl-r)/delta + 2.0)
			default:
				hue = 60.0 * ((r-g)/delta + 4.0)
			}
			out.Pix[off+x] = uint8(hue / 360.0 * 255.0)
		}
	}
	return out
}

// ValueChannel extracts the HSV value channel: max(R, G, B).
func ValueChannel(img image.Image) *image.Gray {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		off := y * w
		for x := range w {
			out.Pix[off+x] = max(row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}

func binarize(gray *image.Gray, threshold uint8) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x, v := range src {
			if v > threshold {
				dst[x] = 255
			}
		}
	}
	return out
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func maxf(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func minf(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func fmod(a, b float64) float64 {
	for a >= b {
		a -= b
	}
	for a < 0 {
		a += b
	}
	return a
}
