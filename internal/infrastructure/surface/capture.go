package surface

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

// EncodeFrame scales img to fill rect and encodes it as PNG. An empty rect
// keeps the source size.
func EncodeFrame(img image.Image, rect entity.Rect) ([]byte, error) {
	if !rect.Empty() {
		b := img.Bounds()
		if b.Dx() != rect.W || b.Dy() != rect.H {
			img = imaging.Fill(img, rect.W, rect.H, imaging.Center, imaging.Linear)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeFrame decodes a frame produced by EncodeFrame.
func DecodeFrame(frame []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(frame))
}
