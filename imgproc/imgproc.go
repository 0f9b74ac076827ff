// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package imgproc

import (
	"bytes"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when a quality of 0 is requested.
const DefaultJPEGQuality = 85

// DefaultBinarizeThreshold separates ink from paper on typical captures.
const DefaultBinarizeThreshold = 128

func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrDecodeFailed
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, ErrEncodeFailed
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, ErrEncodeFailed
	}
	return buf.Bytes(), nil
}

// toGray renders any image into 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// ResizeToFit scales the image down to fit within maxWidth x maxHeight,
// preserving aspect ratio, and re-encodes it as JPEG. Images already
// inside the box are re-encoded at their original size.
func ResizeToFit(data []byte, maxWidth, maxHeight, quality int) ([]byte, error) {
	if maxWidth < 1 || maxHeight < 1 {
		return nil, ErrInvalidDimensions
	}
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodeJPEG(imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos), quality)
}

// Grayscale converts the image to grayscale, encoded as PNG.
func Grayscale(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodePNG(toGray(img))
}

// Binarize converts the image to pure black and white. Pixels at or
// above the threshold become white, the rest black. A threshold of 0
// uses DefaultBinarizeThreshold.
func Binarize(data []byte, threshold uint8) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodePNG(binarizeGray(toGray(img), effectiveThreshold(threshold)))
}

// Denoise removes speckle noise from a binarized capture by applying a
// morphological close (dilate then erode with a 3x3 window). The input
// is binarized first; a threshold of 0 uses DefaultBinarizeThreshold.
func Denoise(data []byte, threshold uint8) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	bin := binarizeGray(toGray(img), effectiveThreshold(threshold))
	return encodePNG(erode3x3(dilate3x3(bin)))
}

// StretchContrast adjusts contrast by the given percentage, in the
// range [-100, 100], encoded as PNG.
func StretchContrast(data []byte, percentage float64) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodePNG(imaging.AdjustContrast(img, percentage))
}

// Sharpen applies an unsharp mask with the given sigma, encoded as PNG.
func Sharpen(data []byte, sigma float64) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodePNG(imaging.Sharpen(img, sigma))
}

// EncodeJPEG transcodes the image to JPEG at the given quality.
// A quality of 0 uses DefaultJPEGQuality.
func EncodeJPEG(data []byte, quality int) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img, quality)
}

// EncodePNG transcodes the image to PNG.
func EncodePNG(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// Preprocess runs the full OCR preparation pipeline: grayscale,
// binarize, a morphological close to drop speckle noise, then a final
// contrast stretch. The result is encoded as PNG.
func Preprocess(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	bin := binarizeGray(toGray(img), DefaultBinarizeThreshold)
	closed := erode3x3(dilate3x3(bin))
	return encodePNG(imaging.AdjustContrast(closed, 50))
}

func effectiveThreshold(threshold uint8) uint8 {
	if threshold == 0 {
		return DefaultBinarizeThreshold
	}
	return threshold
}

func binarizeGray(g *image.Gray, threshold uint8) *image.Gray {
	out := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		if v >= threshold {
			out.Pix[i] = 255
		}
	}
	return out
}
