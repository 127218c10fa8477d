package receipt

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"
)

const (
	// maxEncodedSize is the byte-size ceiling for images sent to the
	// extraction service.
	maxEncodedSize = 400 * 1024
	// minDimension stops the halving loop before the image becomes useless.
	minDimension = 50
)

// PreprocessImage re-encodes a receipt image as PNG, halving its dimensions
// until the encoded size fits under the ceiling or a dimension would drop
// below the floor. Preprocessing is best-effort: any decode or encode failure
// returns the input unchanged with converted false, so the caller knows the
// bytes kept their original format.
func PreprocessImage(data []byte) (processed []byte, converted bool) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, false
	}

	img := flatten(src)
	encoded, err := encodePNG(img)
	if err != nil {
		return data, false
	}

	for len(encoded) > maxEncodedSize {
		b := img.Bounds()
		if b.Dx()/2 < minDimension || b.Dy()/2 < minDimension {
			break
		}
		img = halve(img)
		encoded, err = encodePNG(img)
		if err != nil {
			return data, false
		}
	}

	return encoded, true
}

// flatten composites the image onto a white background, dropping alpha and
// palette color modes.
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

func halve(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx()/2, b.Dy()/2
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, y, src.At(b.Min.X+x*2, b.Min.Y+y*2))
		}
	}
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
