package pipeline

import (
	"image/color"
	"math"
	"testing"
)

func TestDiscreteRangeColorBoundaries(t *testing.T) {
	tr := &DiscreteRangeColor{
		Breakpoints: []float64{0.0, 0.05, 0.10},
		Colors:      []color.RGBA{red, green},
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	values := []float32{0.0, 0.049999, 0.05, 0.07, 0.10, 5.0}
	buf := newTestBuffer(values, nil, 6, 1)
	out, err := tr.ApplyRGB(buf)
	if err != nil {
		t.Fatalf("discrete_range_color failed: %v", err)
	}

	// Lower-inclusive intervals: a value exactly on a breakpoint belongs
	// to the interval starting there.
	expR := []uint8{255, 255, 0, 0, 0, 0}
	expG := []uint8{0, 0, 255, 255, 255, 255}
	for i := range values {
		if out.Pix[0][i] != expR[i] || out.Pix[1][i] != expG[i] {
			t.Errorf("pixel %d (%v): expecting rgb(%d,%d,0), actual rgb(%d,%d,%d)",
				i, values[i], expR[i], expG[i], out.Pix[0][i], out.Pix[1][i], out.Pix[2][i])
		}
	}
}

func TestDiscreteRangeColorMaskPolicy(t *testing.T) {
	tr := &DiscreteRangeColor{
		Breakpoints: []float64{0, 1},
		Colors:      []color.RGBA{red},
	}
	values := []float32{0.5, 0.5}
	mask := []bool{false, true}
	buf := newTestBuffer(values, mask, 2, 1)
	out, err := tr.ApplyRGB(buf)
	if err != nil {
		t.Fatalf("discrete_range_color failed: %v", err)
	}
	if !out.Mask[1] {
		t.Errorf("masked pixel lost its mask bit")
	}
	if out.Pix[0][1] != 0 || out.Pix[1][1] != 0 || out.Pix[2][1] != 0 {
		t.Errorf("masked pixel must keep zeroed channels, got rgb(%d,%d,%d)",
			out.Pix[0][1], out.Pix[1][1], out.Pix[2][1])
	}
}

func TestSmoothRangeColor(t *testing.T) {
	tr := &SmoothRangeColor{
		Points: []float64{0, 10},
		Colors: []color.RGBA{black, white},
	}
	values := []float32{-5, 0, 5, 10, 20}
	buf := newTestBuffer(values, nil, 5, 1)
	out, err := tr.ApplyRGB(buf)
	if err != nil {
		t.Fatalf("smooth_range_color failed: %v", err)
	}
	expR := []uint8{0, 0, 128, 255, 255}
	for i := range expR {
		if d := int(out.Pix[0][i]) - int(expR[i]); d < -1 || d > 1 {
			t.Errorf("pixel %d (%v): expecting R ~%d, actual %d", i, values[i], expR[i], out.Pix[0][i])
		}
	}
}

func TestLogSpaceColorRGBBoundaries(t *testing.T) {
	tr := &LogSpaceColorRGB{
		Min:   0.01,
		Max:   8.0,
		Stops: []ColorStop{{0.01, black}, {8.0, white}},
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	mid := float32(math.Sqrt(0.01 * 8.0))
	values := []float32{0.01, 8.0, mid}
	buf := newTestBuffer(values, nil, 3, 1)
	out, err := tr.ApplyRGB(buf)
	if err != nil {
		t.Fatalf("log_space_color failed: %v", err)
	}

	if out.Pix[0][0] != 0 || out.Pix[1][0] != 0 || out.Pix[2][0] != 0 {
		t.Errorf("value at min: expecting rgb(0,0,0), actual rgb(%d,%d,%d)",
			out.Pix[0][0], out.Pix[1][0], out.Pix[2][0])
	}
	if out.Pix[0][1] != 255 || out.Pix[1][1] != 255 || out.Pix[2][1] != 255 {
		t.Errorf("value at max: expecting rgb(255,255,255), actual rgb(%d,%d,%d)",
			out.Pix[0][1], out.Pix[1][1], out.Pix[2][1])
	}
	for ch := 0; ch < 3; ch++ {
		if d := int(out.Pix[ch][2]) - 128; d < -1 || d > 1 {
			t.Errorf("log midpoint channel %d: expecting ~128, actual %d", ch, out.Pix[ch][2])
		}
	}
}

func TestLogSpaceColorRGBRangeMasking(t *testing.T) {
	tr := &LogSpaceColorRGB{
		Min:   0.1,
		Max:   1.0,
		Stops: []ColorStop{{0.1, blue}, {1.0, red}},
	}
	values := []float32{0.01, 0.5, 2.0}
	buf := newTestBuffer(values, nil, 3, 1)
	out, err := tr.ApplyRGB(buf)
	if err != nil {
		t.Fatalf("log_space_color failed: %v", err)
	}
	if !out.Mask[0] || !out.Mask[2] {
		t.Errorf("out-of-range values must be masked: %v", out.Mask)
	}
	if out.Mask[1] {
		t.Errorf("in-range value must stay valid")
	}
}

func TestRGBConfigErrors(t *testing.T) {
	bad := []Transform{
		&DiscreteRangeColor{},
		&DiscreteRangeColor{Breakpoints: []float64{0, 1, 2}, Colors: []color.RGBA{red}},
		&DiscreteRangeColor{Breakpoints: []float64{1, 0}, Colors: []color.RGBA{red}},
		&SmoothRangeColor{},
		&SmoothRangeColor{Points: []float64{0, 0}, Colors: []color.RGBA{red, green}},
		&LogSpaceColorRGB{Min: 0, Max: 1, Stops: []ColorStop{{0.1, red}, {1, green}}},
		&LogSpaceColorRGB{Min: 1, Max: 1, Stops: []ColorStop{{0.1, red}, {1, green}}},
		&LogSpaceColorRGB{Min: 0.1, Max: 1},
	}
	for i, tr := range bad {
		if err := tr.Validate(); err == nil {
			t.Errorf("case %d (%T): expected configuration error", i, tr)
		}
	}
}
