package pipeline

import (
	"math"
)

// Pipeline binds the zero-or-one value transform and the colorization
// parameters of a single tile request. It is stateless apart from the
// shared read-only colour table, so one value may serve any number of
// concurrent renders.
type Pipeline struct {
	Transform Transform   // optional; nil leaves the input band untouched
	Table     *ColorTable // colour table applied to a scalar result; nil skips colorization
	ScaleMin  float64     // domain value mapped to table index 0
	ScaleMax  float64     // domain value mapped to the last table index
}

// Output is the rendered tile handed back to the encoding layer. Exactly
// one of RGB or Scalar is set: RGB when the request colorized the data or
// the transform synthesized colours itself, Scalar otherwise.
type Output struct {
	RGB    *RGBBuffer
	Scalar *MaskedBuffer
}

// Render runs the request pipeline over one tile: validate the input
// shape against the transform, apply the transform into a fresh buffer,
// then colorize scalar output through the table. The input buffer is
// never mutated and its metadata is carried through untouched.
func (p *Pipeline) Render(in *MaskedBuffer) (*Output, error) {
	if p.Transform == nil {
		if err := in.CheckShape(len(in.Bands)); err != nil {
			return nil, err
		}
		return p.colorize(in)
	}

	if err := p.Transform.Validate(); err != nil {
		return nil, err
	}
	if err := in.CheckShape(p.Transform.InBands()); err != nil {
		return nil, err
	}

	switch tr := p.Transform.(type) {
	case RGBTransform:
		rgb, err := tr.ApplyRGB(in)
		if err != nil {
			return nil, err
		}
		return &Output{RGB: rgb}, nil
	case ScalarTransform:
		scalar, err := tr.Apply(in)
		if err != nil {
			return nil, err
		}
		return p.colorize(scalar)
	}
	return nil, configErrorf("transform %T implements neither scalar nor RGB application", p.Transform)
}

// colorize looks the first band up against the colour table, or passes
// the scalar buffer through when no colorization was requested. For
// multi-band scalar results such as gradient magnitude plus direction,
// the first band is the displayed quantity.
func (p *Pipeline) colorize(buf *MaskedBuffer) (*Output, error) {
	if p.Table == nil {
		return &Output{Scalar: buf}, nil
	}
	rgb, err := ApplyColorTable(buf, p.Table, p.ScaleMin, p.ScaleMax)
	if err != nil {
		return nil, err
	}
	return &Output{RGB: rgb}, nil
}

// ApplyColorTable rescales every valid sample of the first band from
// [min, max] onto the table index space, rounding to the nearest entry
// and clamping at the table bounds. Masked pixels are never looked up and
// stay fully transparent.
func ApplyColorTable(in *MaskedBuffer, table *ColorTable, min, max float64) (*RGBBuffer, error) {
	if len(in.Bands) == 0 {
		return nil, shapeErrorf("no bands to colorize")
	}
	if table == nil || len(table.Entries) == 0 {
		return nil, configErrorf("empty colour table")
	}
	if max <= min {
		return nil, configErrorf("degenerate scale range [%v, %v]", min, max)
	}

	scale := float64(len(table.Entries)-1) / (max - min)
	out := NewRGBBuffer(in)
	for i, v := range in.Bands[0] {
		if in.Mask[i] {
			continue
		}
		idx := int(math.Round((float64(v) - min) * scale))
		c := table.Lookup(idx)
		out.Pix[0][i] = c.R
		out.Pix[1][i] = c.G
		out.Pix[2][i] = c.B
	}
	return out, nil
}
