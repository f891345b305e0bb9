package pipeline

import (
	"bytes"
	"image"
	"image/png"
)

// EncodePNG encodes a pipeline output into a PNG with an alpha channel.
// Masked pixels are written fully transparent. Scalar output without a
// colour table cannot be encoded; the transport is expected to colorize
// first or request the raw values through another path.
func EncodePNG(out *Output) ([]byte, error) {
	if out.RGB == nil {
		return nil, configErrorf("cannot encode a scalar buffer as PNG without colorization")
	}
	return encodeRGB(out.RGB)
}

func encodeRGB(rgb *RGBBuffer) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, rgb.Width, rgb.Height))
	for i := 0; i < rgb.Width*rgb.Height; i++ {
		if rgb.Mask[i] {
			continue
		}
		p := i * 4
		img.Pix[p] = rgb.Pix[0][i]
		img.Pix[p+1] = rgb.Pix[1][i]
		img.Pix[p+2] = rgb.Pix[2][i]
		img.Pix[p+3] = 0xff
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
