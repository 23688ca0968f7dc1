package imageedit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/euniverse/core/core/wcs"
)

func Example_makePreview() {
	img := image.NewGray(image.Rect(0, 0, 3000, 1200))

	preview, scale := MakePreview(img, PreviewMaxSide)
	fmt.Println(preview.Bounds(), scale)

	small := image.NewGray(image.Rect(10, 10, 50, 30))
	preview, scale = MakePreview(small, PreviewMaxSide)
	fmt.Println(preview.Bounds(), scale)

	fmt.Println(ScaleImage(img, 300).Bounds())

	// Output:
	// (0,0)-(1000,400) 0.3333333333333333
	// (0,0)-(40,20) 1
	// (0,0)-(300,120)
}

func Example_markLocations() {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	white := color.RGBA{255, 255, 255, 255}

	out := MarkLocations(img, []wcs.PixelCoord{{X: 20, Y: 10}, {X: 100, Y: 100}}, white, 0.5)
	fmt.Println(out.RGBAAt(10, 5), out.RGBAAt(12, 5), out.RGBAAt(10, 7), out.RGBAAt(11, 6))

	// Output:
	// {255 255 255 255} {255 255 255 255} {255 255 255 255} {0 0 0 0}
}

func Example_getImageBytes() {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.SetRGBA(1, 1, color.RGBA{1, 2, 3, 255})

	b, err := GetImageBytes(img, "png")
	fmt.Println(err)

	decoded, err := png.Decode(bytes.NewReader(b))
	fmt.Println(err, decoded.Bounds(), decoded.At(1, 1))

	b, err = GetImageBytes(img, FormatJPEG)
	_, err2 := jpeg.Decode(bytes.NewReader(b))
	fmt.Println(err, err2)

	_, err = GetImageBytes(img, "bmp")
	fmt.Println(err)

	// Output:
	// <nil>
	// <nil> (0,0)-(4,2) {1 2 3 255}
	// <nil> <nil>
	// unexpected image format: bmp
}
