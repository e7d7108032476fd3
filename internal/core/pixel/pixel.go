// Package pixel implements the perceptual image comparison behind
// snapshot verification
// Pipeline order
// 1 Convert both inputs to non-premultiplied RGBA buffers
// 2 Require equal dimensions anything else is a comparison error
// 3 Per pixel compute the YIQ color distance against the tolerance
// 4 Optionally exempt pixels that look like font anti-aliasing
// 5 Paint the diff image mismatches in the highlight color matches as
//   faded grayscale of the baseline
// Only the mismatch count feeds classification upstream
package pixel

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// DefaultThreshold is the per-pixel YIQ tolerance callers usually want.
// Zero is legal and means any perceptible difference counts
const DefaultThreshold = 0.1

// maxYIQDelta is the largest possible squared YIQ distance between two
// opaque colors, the unit the tolerance scales against
const maxYIQDelta = 35215

// Options tunes a comparison.
type Options struct {
	// Threshold is the per-pixel color distance tolerance in [0,1]
	Threshold float64
	// AntiAliasing exempts detected anti-aliased pixels from the count
	AntiAliasing bool
	// Alpha blends matched pixels toward white in the diff image
	Alpha float64
	// DiffColor highlights mismatched pixels
	DiffColor color.NRGBA
	// AAColor highlights exempted anti-aliased pixels
	AAColor color.NRGBA
}

func (o Options) withDefaults() Options {
	if o.Threshold < 0 {
		o.Threshold = 0
	}
	if o.Alpha <= 0 {
		o.Alpha = 0.1
	}
	if o.DiffColor == (color.NRGBA{}) {
		o.DiffColor = color.NRGBA{R: 255, B: 255, A: 255} // magenta
	}
	if o.AAColor == (color.NRGBA{}) {
		o.AAColor = color.NRGBA{R: 255, G: 255, A: 255} // yellow
	}
	return o
}

// Result is the outcome of one comparison.
type Result struct {
	DiffPixels  int
	TotalPixels int
	Diff        *image.NRGBA
}

// Ratio returns the mismatched share of pixels, zero for empty images
func (r *Result) Ratio() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DiffPixels) / float64(r.TotalPixels)
}

// DimensionsError reports inputs that cannot be compared pixelwise.
type DimensionsError struct {
	BaselineW, BaselineH int
	CurrentW, CurrentH   int
}

func (e *DimensionsError) Error() string {
	return fmt.Sprintf("dimensions mismatch: baseline %dx%d vs current %dx%d",
		e.BaselineW, e.BaselineH, e.CurrentW, e.CurrentH)
}

// Compare diffs current against baseline and paints the diff image.
// The diff image is produced even when every pixel matches
func Compare(baseline, current image.Image, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	a := toNRGBA(baseline)
	b := toNRGBA(current)

	aw, ah := a.Rect.Dx(), a.Rect.Dy()
	bw, bh := b.Rect.Dx(), b.Rect.Dy()
	if aw != bw || ah != bh {
		return nil, &DimensionsError{BaselineW: aw, BaselineH: ah, CurrentW: bw, CurrentH: bh}
	}

	w, h := aw, ah
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	maxDelta := maxYIQDelta * opts.Threshold * opts.Threshold
	diff := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := (y*w + x) * 4
			delta := colorDelta(a.Pix, b.Pix, pos, pos, false)
			switch {
			case math.Abs(delta) <= maxDelta:
				drawGrayPixel(a.Pix, pos, opts.Alpha, out.Pix)
			case opts.AntiAliasing &&
				(antialiased(a.Pix, x, y, w, h, b.Pix) || antialiased(b.Pix, x, y, w, h, a.Pix)):
				drawPixel(out.Pix, pos, opts.AAColor)
			default:
				drawPixel(out.Pix, pos, opts.DiffColor)
				diff++
			}
		}
	}

	return &Result{DiffPixels: diff, TotalPixels: w * h, Diff: out}, nil
}

// toNRGBA returns img as a zero-origin non-premultiplied buffer.
// Premultiplied buffers would skew the YIQ math for translucent pixels
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*4 {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func drawPixel(out []uint8, pos int, c color.NRGBA) {
	out[pos] = c.R
	out[pos+1] = c.G
	out[pos+2] = c.B
	out[pos+3] = c.A
}

// drawGrayPixel writes the baseline pixel as brightness faded toward white
func drawGrayPixel(src []uint8, pos int, alpha float64, out []uint8) {
	y := rgb2y(float64(src[pos]), float64(src[pos+1]), float64(src[pos+2]))
	v := uint8(math.Round(blend(y, alpha*float64(src[pos+3])/255)))
	out[pos] = v
	out[pos+1] = v
	out[pos+2] = v
	out[pos+3] = 255
}
