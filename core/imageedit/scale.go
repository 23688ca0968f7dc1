package imageedit

import (
	"image"

	"golang.org/x/image/draw"
)

// PreviewMaxSide - the quick look image shown before any tiles are decoded is at most this big
const PreviewMaxSide = 1000

// ScaleImage - resizes to newWidth across, preserving the aspect ratio
func ScaleImage(img image.Image, newWidth int) *image.RGBA {
	bounds := img.Bounds()

	w := newWidth
	h := int(float64(bounds.Dy())/float64(bounds.Dx())*float64(w) + 0.5)
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, img, bounds, draw.Src, nil)
	return dst
}

// MakePreview - shrinks so the longest side is at most maxSide. Returns the scale factor applied
// (preview pixels per image pixel), images already small enough are copied at scale 1.
func MakePreview(img image.Image, maxSide int) (*image.RGBA, float64) {
	bounds := img.Bounds()
	longest := max(bounds.Dx(), bounds.Dy())

	if longest <= maxSide {
		dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
		return dst, 1
	}

	scale := float64(maxSide) / float64(longest)
	w := max(1, int(float64(bounds.Dx())*scale+0.5))
	h := max(1, int(float64(bounds.Dy())*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, img, bounds, draw.Src, nil)
	return dst, scale
}
