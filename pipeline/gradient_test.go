package pipeline

import (
	"math"
	"testing"
)

func TestGradientFlatFieldIsZero(t *testing.T) {
	for _, method := range []string{GradientSobel, GradientCentral} {
		buf := NewMaskedBuffer(1, 8, 8)
		for i := range buf.Bands[0] {
			buf.Bands[0][i] = 17.25
		}

		tr := &GradientMagnitude{Method: method}
		out, err := tr.Apply(buf)
		if err != nil {
			t.Fatalf("%s gradient failed: %v", method, err)
		}
		for i, v := range out.Bands[0] {
			if math.Abs(float64(v)) > 1e-6 {
				t.Errorf("%s: flat field magnitude at %d is %v, expecting 0", method, i, v)
			}
		}
	}
}

func TestGradientDirectionNegativeX(t *testing.T) {
	for _, method := range []string{GradientSobel, GradientCentral} {
		// Field decreasing along +x: the gradient points in -x.
		buf := NewMaskedBuffer(1, 8, 8)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				buf.Bands[0][y*8+x] = float32(-x)
			}
		}

		tr := &GradientMagnitude{Method: method, OutputDirection: true}
		out, err := tr.Apply(buf)
		if err != nil {
			t.Fatalf("%s gradient failed: %v", method, err)
		}
		if len(out.Bands) != 2 {
			t.Fatalf("%s: expecting 2 output bands, got %d", method, len(out.Bands))
		}
		for i, deg := range out.Bands[1] {
			if deg < 0 || deg >= 360 {
				t.Errorf("%s: direction %v at %d outside [0, 360)", method, deg, i)
			}
			if math.Abs(float64(deg)-180) > 1e-4 {
				t.Errorf("%s: direction at %d is %v, expecting 180", method, i, deg)
			}
		}
	}
}

func TestGradientCentralMagnitude(t *testing.T) {
	// f(x, y) = 3x: interior |grad| is exactly 3 with central differences.
	buf := NewMaskedBuffer(1, 5, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			buf.Bands[0][y*5+x] = float32(3 * x)
		}
	}

	tr := &GradientMagnitude{Method: GradientCentral}
	out, err := tr.Apply(buf)
	if err != nil {
		t.Fatalf("gradient failed: %v", err)
	}
	for i, v := range out.Bands[0] {
		if math.Abs(float64(v)-3) > 1e-6 {
			t.Errorf("magnitude at %d is %v, expecting 3", i, v)
		}
	}
}

func TestGradientMaskRestored(t *testing.T) {
	buf := NewMaskedBuffer(1, 4, 4)
	for i := range buf.Bands[0] {
		buf.Bands[0][i] = float32(i)
	}
	buf.Mask[5] = true
	buf.Mask[10] = true

	tr := &GradientMagnitude{Method: GradientSobel, OutputDirection: true}
	out, err := tr.Apply(buf)
	if err != nil {
		t.Fatalf("gradient failed: %v", err)
	}
	for i := range buf.Mask {
		if out.Mask[i] != buf.Mask[i] {
			t.Errorf("mask bit %d: expecting %v, actual %v", i, buf.Mask[i], out.Mask[i])
		}
	}
}

func TestGradientUnknownMethod(t *testing.T) {
	tr := &GradientMagnitude{Method: "bilinear"}
	if err := tr.Validate(); err == nil {
		t.Fatalf("expected configuration error for unknown method")
	}
}
