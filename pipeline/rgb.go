package pipeline

import (
	"image/color"
	"math"
	"sort"
)

// DiscreteRangeColor paints every valid pixel with the flat colour of the
// interval its value falls in. N breakpoints define N-1 lower-inclusive
// intervals, the last of which extends to +inf and reuses the final
// colour; values below the first breakpoint are clamped onto it. Masked
// pixels
// keep zeroed channels with the mask forced true, the same policy as
// every RGB-synthesizing transform here.
type DiscreteRangeColor struct {
	Breakpoints []float64
	Colors      []color.RGBA
}

func (t *DiscreteRangeColor) InBands() int  { return 1 }
func (t *DiscreteRangeColor) OutBands() int { return 3 }

func (t *DiscreteRangeColor) Validate() error {
	if len(t.Breakpoints) < 2 {
		return configErrorf("discrete_range_color needs at least 2 breakpoints, got %d", len(t.Breakpoints))
	}
	if len(t.Colors) != len(t.Breakpoints)-1 {
		return configErrorf("discrete_range_color needs %d colours for %d breakpoints, got %d",
			len(t.Breakpoints)-1, len(t.Breakpoints), len(t.Colors))
	}
	if !sort.Float64sAreSorted(t.Breakpoints) {
		return configErrorf("discrete_range_color breakpoints must be ascending: %v", t.Breakpoints)
	}
	for i := 1; i < len(t.Breakpoints); i++ {
		if t.Breakpoints[i] == t.Breakpoints[i-1] {
			return configErrorf("duplicate breakpoint %v", t.Breakpoints[i])
		}
	}
	return nil
}

func (t *DiscreteRangeColor) ApplyRGB(in *MaskedBuffer) (*RGBBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := NewRGBBuffer(in)
	for i, v := range in.Bands[0] {
		if in.Mask[i] {
			continue
		}
		c := t.Colors[t.interval(float64(v))]
		out.Pix[0][i] = c.R
		out.Pix[1][i] = c.G
		out.Pix[2][i] = c.B
	}
	return out, nil
}

// interval returns the colour index for v using lower-inclusive
// semantics: a value exactly on a breakpoint belongs to the interval
// starting there.
func (t *DiscreteRangeColor) interval(v float64) int {
	// sort.SearchFloat64s finds the first breakpoint > v when offset by
	// one, which is exactly the half-open bracket we want.
	k := sort.SearchFloat64s(t.Breakpoints, v)
	if k < len(t.Breakpoints) && t.Breakpoints[k] == v {
		k++
	}
	k--
	if k < 0 {
		k = 0
	}
	if k >= len(t.Colors) {
		k = len(t.Colors) - 1
	}
	return k
}

// SmoothRangeColor interpolates per pixel between the two (point, colour)
// pairs bracketing the pixel value, the same channel maths as the colour
// table builder applied per pixel instead of pre-tabulated. Values at or
// below the first point take the first colour; at or above the last, the
// last.
type SmoothRangeColor struct {
	Points []float64
	Colors []color.RGBA
}

func (t *SmoothRangeColor) InBands() int  { return 1 }
func (t *SmoothRangeColor) OutBands() int { return 3 }

func (t *SmoothRangeColor) Validate() error {
	if len(t.Points) < 2 {
		return configErrorf("smooth_range_color needs at least 2 points, got %d", len(t.Points))
	}
	if len(t.Colors) != len(t.Points) {
		return configErrorf("smooth_range_color needs one colour per point: %d points, %d colours",
			len(t.Points), len(t.Colors))
	}
	for i := 1; i < len(t.Points); i++ {
		if t.Points[i] <= t.Points[i-1] {
			return configErrorf("smooth_range_color points must be strictly ascending: %v", t.Points)
		}
	}
	return nil
}

func (t *SmoothRangeColor) ApplyRGB(in *MaskedBuffer) (*RGBBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := NewRGBBuffer(in)
	last := len(t.Points) - 1
	for i, raw := range in.Bands[0] {
		if in.Mask[i] {
			continue
		}
		v := float64(raw)

		var c color.RGBA
		switch {
		case v <= t.Points[0]:
			c = t.Colors[0]
		case v >= t.Points[last]:
			c = t.Colors[last]
		default:
			k := sort.SearchFloat64s(t.Points, v) - 1
			tt := (v - t.Points[k]) / (t.Points[k+1] - t.Points[k])
			c = InterpolateColor(t.Colors[k], t.Colors[k+1], tt)
		}

		out.Pix[0][i] = c.R
		out.Pix[1][i] = c.G
		out.Pix[2][i] = c.B
	}
	return out, nil
}

// LogSpaceColorRGB interpolates stop colours against log10-projected
// positions so colour transitions align with the same log scaling applied
// to the data. Pixels outside [min, max] are masked out, remaining values
// clamped into the range, and each value's position computed as
// (log10(x) - log10(min)) / (log10(max) - log10(min)). Stops outside the
// range are replaced by synthetic boundary stops reusing the nearest real
// stop's colour, so the interpolation always spans the full range.
type LogSpaceColorRGB struct {
	Min   float64
	Max   float64
	Stops []ColorStop
}

func (t *LogSpaceColorRGB) InBands() int  { return 1 }
func (t *LogSpaceColorRGB) OutBands() int { return 3 }

func (t *LogSpaceColorRGB) Validate() error {
	if t.Min <= 0 || t.Max <= 0 {
		return configErrorf("log_space_color range must be positive, got [%v, %v]", t.Min, t.Max)
	}
	if t.Max <= t.Min {
		return configErrorf("degenerate log_space_color range [%v, %v]", t.Min, t.Max)
	}
	return checkStops(t.Stops)
}

func (t *LogSpaceColorRGB) ApplyRGB(in *MaskedBuffer) (*RGBBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}

	bounded, err := boundStops(t.Stops, t.Min, t.Max)
	if err != nil {
		return nil, err
	}

	logMin := math.Log10(t.Min)
	logSpan := math.Log10(t.Max) - logMin

	// Stop positions projected once for the whole tile.
	pos := make([]float64, len(bounded))
	for i, s := range bounded {
		pos[i] = (math.Log10(s.Position) - logMin) / logSpan
	}

	out := NewRGBBuffer(in)
	min, max := float32(t.Min), float32(t.Max)
	last := len(pos) - 1
	for i, raw := range in.Bands[0] {
		if in.Mask[i] {
			continue
		}
		if raw < min || raw > max {
			out.Mask[i] = true
			continue
		}

		p := (math.Log10(float64(raw)) - logMin) / logSpan

		var c color.RGBA
		switch {
		case p <= pos[0]:
			c = bounded[0].Color
		case p >= pos[last]:
			c = bounded[last].Color
		default:
			k := sort.SearchFloat64s(pos, p) - 1
			tt := (p - pos[k]) / (pos[k+1] - pos[k])
			c = InterpolateColor(bounded[k].Color, bounded[k+1].Color, tt)
		}

		out.Pix[0][i] = c.R
		out.Pix[1][i] = c.G
		out.Pix[2][i] = c.B
	}
	return out, nil
}
