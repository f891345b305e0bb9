package pipeline

import (
	"image/color"
	"testing"
)

// Full chlorophyll-style scenario: clamped log transform, then a colour
// table lookup over the log10 domain of the clamp range.
func TestRenderEndToEnd(t *testing.T) {
	values := []float32{
		0.02, 0.05, 1, 2,
		0.02, 0.05, 1, 2,
		0.02, 0.05, 1, 2,
		0.02, 0.05, 1, 2,
	}
	in := newTestBuffer(values, nil, 4, 4)
	in.Metadata = Metadata{CRS: "EPSG:3857", BandNames: []string{"chlor_a"}}

	table, err := BuildLinearTable([]color.RGBA{blue, red}, 256)
	if err != nil {
		t.Fatalf("table build failed: %v", err)
	}

	p := &Pipeline{
		Transform: &ClampedLog10{Eps: 0.0001, Max: 2.0},
		Table:     table,
		ScaleMin:  -4,
		ScaleMax:  0.30103,
	}
	out, err := p.Render(in)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out.RGB == nil {
		t.Fatalf("expecting RGB output")
	}
	if out.RGB.Width != 4 || out.RGB.Height != 4 {
		t.Fatalf("expecting 4x4 output, actual %dx%d", out.RGB.Width, out.RGB.Height)
	}
	for i, m := range out.RGB.Mask {
		if m {
			t.Errorf("pixel %d unexpectedly transparent", i)
		}
	}
	// Warmer (more red) as input increases.
	for row := 0; row < 4; row++ {
		for col := 1; col < 4; col++ {
			i := row*4 + col
			if out.RGB.Pix[0][i] <= out.RGB.Pix[0][i-1] {
				t.Errorf("row %d: R channel not increasing at col %d: %d <= %d",
					row, col, out.RGB.Pix[0][i], out.RGB.Pix[0][i-1])
			}
		}
	}
	if out.RGB.Metadata.CRS != "EPSG:3857" || len(out.RGB.Metadata.BandNames) != 1 {
		t.Errorf("metadata not round-tripped: %+v", out.RGB.Metadata)
	}
}

func TestRenderRGBTransformSkipsTable(t *testing.T) {
	in := newTestBuffer([]float32{0.5, 1.5}, nil, 2, 1)
	// The table would paint everything red; the RGB transform must win.
	table, _ := BuildLinearTable([]color.RGBA{red, red}, 16)
	p := &Pipeline{
		Transform: &DiscreteRangeColor{
			Breakpoints: []float64{0, 1},
			Colors:      []color.RGBA{blue},
		},
		Table:    table,
		ScaleMin: 0,
		ScaleMax: 2,
	}
	out, err := p.Render(in)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out.RGB.Pix[2][0] != 255 || out.RGB.Pix[0][0] != 0 {
		t.Errorf("expecting synthesized blue, actual rgb(%d,%d,%d)",
			out.RGB.Pix[0][0], out.RGB.Pix[1][0], out.RGB.Pix[2][0])
	}
}

func TestRenderNoColorization(t *testing.T) {
	in := newTestBuffer([]float32{1, 10}, nil, 2, 1)
	p := &Pipeline{Transform: &Log10{Eps: 1e-6}}
	out, err := p.Render(in)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out.Scalar == nil || out.RGB != nil {
		t.Fatalf("expecting scalar output")
	}
	if out.Scalar.Bands[0][1] != 1 {
		t.Errorf("expecting log10(10)=1, actual %v", out.Scalar.Bands[0][1])
	}
}

func TestRenderBandCountMismatch(t *testing.T) {
	in := NewMaskedBuffer(3, 2, 2)
	p := &Pipeline{Transform: &Log10{Eps: 1e-6}}
	_, err := p.Render(in)
	if err == nil {
		t.Fatalf("expected shape error")
	}
	if _, ok := err.(*ShapeError); !ok {
		t.Errorf("expected *ShapeError, got %T: %v", err, err)
	}
}

func TestApplyColorTable(t *testing.T) {
	in := newTestBuffer([]float32{0, 5, 10, 20}, []bool{false, false, false, true}, 4, 1)
	table, _ := BuildLinearTable([]color.RGBA{black, white}, 256)

	out, err := ApplyColorTable(in, table, 0, 10)
	if err != nil {
		t.Fatalf("colorize failed: %v", err)
	}
	if out.Pix[0][0] != 0 {
		t.Errorf("domain min: expecting 0, actual %d", out.Pix[0][0])
	}
	if out.Pix[0][2] != 255 {
		t.Errorf("domain max: expecting 255, actual %d", out.Pix[0][2])
	}
	if d := int(out.Pix[0][1]) - 128; d < -1 || d > 1 {
		t.Errorf("domain midpoint: expecting ~128, actual %d", out.Pix[0][1])
	}
	if !out.Mask[3] {
		t.Errorf("masked pixel must stay masked")
	}
	if out.Pix[0][3] != 0 {
		t.Errorf("masked pixel was looked up: %d", out.Pix[0][3])
	}

	if _, err := ApplyColorTable(in, table, 10, 10); err == nil {
		t.Errorf("expected configuration error for degenerate scale range")
	}
}
