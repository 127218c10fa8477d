package receipt

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessImage_SmallImagePassesUnder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	data := encodeTestPNG(t, img)

	out, converted := PreprocessImage(data)
	assert.True(t, converted)
	assert.LessOrEqual(t, len(out), maxEncodedSize)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, decoded.Bounds().Dx())
}

func TestPreprocessImage_LargeImageHalvedUnderCeiling(t *testing.T) {
	// Random noise defeats PNG compression so the first encode exceeds the
	// ceiling and forces the halving loop to run.
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, 900, 900))
	for y := 0; y < 900; y++ {
		for x := 0; x < 900; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	data := encodeTestPNG(t, img)
	require.Greater(t, len(data), maxEncodedSize)

	out, converted := PreprocessImage(data)
	assert.True(t, converted)
	assert.LessOrEqual(t, len(out), maxEncodedSize)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Less(t, decoded.Bounds().Dx(), 900)
	assert.GreaterOrEqual(t, decoded.Bounds().Dx(), minDimension)
}

func TestPreprocessImage_TinyImageStopsAtDimensionFloor(t *testing.T) {
	// A 60px image cannot be halved without crossing the floor; the loop must
	// terminate and keep the dimensions.
	rng := rand.New(rand.NewSource(2))
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{R: uint8(rng.Intn(256)), A: 255})
		}
	}
	out, converted := PreprocessImage(encodeTestPNG(t, img))
	assert.True(t, converted)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 60, decoded.Bounds().Dx())
}

func TestPreprocessImage_ConvertsJPEGToPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	out, converted := PreprocessImage(buf.Bytes())
	assert.True(t, converted)
	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestPreprocessImage_UndecodableInputReturnedUnchanged(t *testing.T) {
	data := []byte("definitely not an image")
	out, converted := PreprocessImage(data)
	assert.False(t, converted)
	assert.Equal(t, data, out)
}
