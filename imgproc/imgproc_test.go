package imgproc

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPNG renders a width x height image filled with fill and returns
// it PNG-encoded. marks paints individual pixels over the fill.
func testPNG(t *testing.T, width, height int, fill color.Color, marks map[image.Point]color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	for pt, c := range marks {
		img.Set(pt.X, pt.Y, c)
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func decodeForTest(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestResizeToFit(t *testing.T) {
	src := testPNG(t, 100, 50, color.White, nil)

	out, err := ResizeToFit(src, 40, 40, 0)
	require.NoError(t, err)

	bounds := decodeForTest(t, out).Bounds()
	assert.Equal(t, 40, bounds.Dx())
	assert.Equal(t, 20, bounds.Dy())
}

func TestResizeToFit_NoUpscale(t *testing.T) {
	src := testPNG(t, 30, 20, color.White, nil)

	out, err := ResizeToFit(src, 400, 400, 0)
	require.NoError(t, err)

	bounds := decodeForTest(t, out).Bounds()
	assert.Equal(t, 30, bounds.Dx())
	assert.Equal(t, 20, bounds.Dy())
}

func TestResizeToFit_InvalidDimensions(t *testing.T) {
	src := testPNG(t, 10, 10, color.White, nil)

	_, err := ResizeToFit(src, 0, 40, 0)
	assert.Equal(t, ErrInvalidDimensions, err)
}

func TestGrayscale(t *testing.T) {
	src := testPNG(t, 8, 8, color.RGBA{R: 200, G: 30, B: 30, A: 255}, nil)

	out, err := Grayscale(src)
	require.NoError(t, err)

	img := decodeForTest(t, out)
	r, g, b, _ := img.At(4, 4).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestBinarize(t *testing.T) {
	src := testPNG(t, 4, 4, color.Gray{Y: 200}, map[image.Point]color.Color{
		{X: 1, Y: 1}: color.Gray{Y: 40},
	})

	out, err := Binarize(src, 0)
	require.NoError(t, err)

	img := decodeForTest(t, out)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v, _, _, _ := img.At(x, y).RGBA()
			want := uint32(0xffff)
			if x == 1 && y == 1 {
				want = 0
			}
			assert.Equal(t, want, v, "pixel (%d,%d)", x, y)
		}
	}
}

func TestDenoise_RemovesBlackSpeck(t *testing.T) {
	src := testPNG(t, 9, 9, color.White, map[image.Point]color.Color{
		{X: 4, Y: 4}: color.Black,
	})

	out, err := Denoise(src, 0)
	require.NoError(t, err)

	// The close fills the isolated dark pixel back in.
	img := decodeForTest(t, out)
	v, _, _, _ := img.At(4, 4).RGBA()
	assert.Equal(t, uint32(0xffff), v)
}

func TestPreprocess(t *testing.T) {
	src := testPNG(t, 16, 16, color.Gray{Y: 220}, map[image.Point]color.Color{
		{X: 8, Y: 8}: color.Gray{Y: 10},
	})

	out, err := Preprocess(src)
	require.NoError(t, err)

	// Output must be strictly black and white.
	img := decodeForTest(t, out)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v, _, _, _ := img.At(x, y).RGBA()
			assert.True(t, v == 0 || v == 0xffff, "pixel (%d,%d) = %d", x, y, v)
		}
	}
}

func TestStretchContrast(t *testing.T) {
	src := testPNG(t, 8, 8, color.Gray{Y: 96}, nil)

	out, err := StretchContrast(src, 50)
	require.NoError(t, err)

	img := decodeForTest(t, out)
	v, _, _, _ := img.At(4, 4).RGBA()
	// Below-midpoint values get pushed darker.
	assert.Less(t, v, uint32(96*257))
}

func TestSharpen(t *testing.T) {
	src := testPNG(t, 8, 8, color.White, map[image.Point]color.Color{
		{X: 4, Y: 4}: color.Black,
	})

	out, err := Sharpen(src, 1.5)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	decodeForTest(t, out)
}

func TestEncodeRoundTrips(t *testing.T) {
	src := testPNG(t, 12, 12, color.RGBA{R: 10, G: 120, B: 240, A: 255}, nil)

	jpg, err := EncodeJPEG(src, 90)
	require.NoError(t, err)
	assert.Equal(t, 12, decodeForTest(t, jpg).Bounds().Dx())

	png, err := EncodePNG(jpg)
	require.NoError(t, err)
	assert.Equal(t, 12, decodeForTest(t, png).Bounds().Dx())
}

func TestDecodeFailed(t *testing.T) {
	for _, fn := range []func([]byte) ([]byte, error){
		Grayscale,
		Preprocess,
		EncodePNG,
	} {
		_, err := fn([]byte("not an image"))
		assert.Equal(t, ErrDecodeFailed, err)
	}
}
