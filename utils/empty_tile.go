package utils

import (
	"bytes"
	"image"
	"image/png"
)

// TransparentTile encodes a fully transparent PNG for tiles that no
// asset covers, so map clients render an empty area instead of an error.
func TransparentTile(width, height int) ([]byte, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))

	buf := new(bytes.Buffer)
	err := png.Encode(buf, canvas)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
