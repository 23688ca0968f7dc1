package imageedit

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// GetImageBytes - encodes as png or jpeg
func GetImageBytes(img image.Image, imgFormat Format) ([]byte, error) {
	var b bytes.Buffer
	var err error

	switch imgFormat {
	case FormatPNG:
		err = pngEncoder.Encode(&b, img)
	case FormatJPEG:
		err = jpeg.Encode(&b, img, &jpeg.Options{Quality: 90})
	default:
		err = fmt.Errorf("unexpected image format: %v", imgFormat)
	}

	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
