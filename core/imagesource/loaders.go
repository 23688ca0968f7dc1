// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package imagesource

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image/png"
	"strings"

	"github.com/euniverse/core/core/fileaccess"
	"github.com/euniverse/core/core/wcs"
	"golang.org/x/image/tiff"
)

const tiffTagImageDescription = 270
const tiffTypeASCII = 2

// LoadTIFF - reads a mosaic TIFF whose ImageDescription tag holds the astrometric header as
// JSON. The header counts rows bottom-up (FITS style), our rows go top-down, so the
// solution is built flipped.
func LoadTIFF(fs fileaccess.FileAccess, bucket string, path string, tileSize int) (*Source, error) {
	data, err := fs.ReadObject(bucket, path)
	if err != nil {
		return nil, err
	}

	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode TIFF %v: %v", path, err)
	}

	desc, err := ReadTIFFDescription(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read TIFF %v metadata: %v", path, err)
	}

	var hdr wcs.Header
	if err := json.Unmarshal([]byte(desc), &hdr); err != nil {
		return nil, fmt.Errorf("TIFF %v image description is not a JSON header: %v", path, err)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	solution, err := wcs.FromHeader(hdr, h)
	if err != nil {
		return nil, err
	}

	return New(path, MakeImageReader(img), w, h, solution, tileSize)
}

// LoadPNG - reads a PNG with its astrometric header in a .json file next to it
func LoadPNG(fs fileaccess.FileAccess, bucket string, path string, tileSize int) (*Source, error) {
	data, err := fs.ReadObject(bucket, path)
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG %v: %v", path, err)
	}

	hdr := wcs.Header{}
	sidecar := strings.TrimSuffix(path, ".png") + ".json"
	if err := fs.ReadJSON(bucket, sidecar, &hdr, false); err != nil {
		return nil, fmt.Errorf("failed to read astrometry for %v: %v", path, err)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	solution, err := wcs.FromHeader(hdr, h)
	if err != nil {
		return nil, err
	}

	return New(path, MakeImageReader(img), w, h, solution, tileSize)
}

// ReadTIFFDescription - walks the first IFD looking for the ImageDescription tag. The tiff
// decoder doesn't expose tags, so we read the header ourselves.
func ReadTIFFDescription(data []byte) (string, error) {
	if len(data) < 8 {
		return "", fmt.Errorf("not a valid TIFF file")
	}

	var byteOrder binary.ByteOrder
	if data[0] == 'I' && data[1] == 'I' {
		byteOrder = binary.LittleEndian
	} else if data[0] == 'M' && data[1] == 'M' {
		byteOrder = binary.BigEndian
	} else {
		return "", fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := int(byteOrder.Uint32(data[4:8]))
	if ifdOffset+2 > len(data) {
		return "", fmt.Errorf("TIFF IFD offset out of range")
	}

	numEntries := int(byteOrder.Uint16(data[ifdOffset : ifdOffset+2]))
	for i := 0; i < numEntries; i++ {
		start := ifdOffset + 2 + i*12
		if start+12 > len(data) {
			return "", fmt.Errorf("TIFF IFD truncated")
		}
		entry := data[start : start+12]

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		count := int(byteOrder.Uint32(entry[4:8]))
		if tag != tiffTagImageDescription || fieldType != tiffTypeASCII {
			continue
		}

		// Values of 4 bytes or less are stored in the entry itself
		var raw []byte
		if count <= 4 {
			raw = entry[8 : 8+count]
		} else {
			offset := int(byteOrder.Uint32(entry[8:12]))
			if offset+count > len(data) {
				return "", fmt.Errorf("TIFF ImageDescription out of range")
			}
			raw = data[offset : offset+count]
		}
		return strings.TrimRight(string(raw), "\x00"), nil
	}

	return "", fmt.Errorf("TIFF has no ImageDescription")
}
