package imageedit

import (
	"image"
	"image/color"

	"github.com/euniverse/core/core/wcs"
	"golang.org/x/image/draw"
)

// MarkLocations - copy of img with a small cross at each location. Locations are in image pixels and
// get multiplied by scale, eg to mark targets on a preview.
func MarkLocations(img image.Image, locations []wcs.PixelCoord, markColour color.Color, scale float64) *image.RGBA {
	bounds := img.Bounds()

	outImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(outImage, outImage.Bounds(), img, bounds.Min, draw.Src)

	for _, loc := range locations {
		i := int(loc.X*scale + 0.5)
		j := int(loc.Y*scale + 0.5)

		for d := -2; d <= 2; d++ {
			outImage.Set(i+d, j, markColour)
			outImage.Set(i, j+d, markColour)
		}
	}

	return outImage
}
