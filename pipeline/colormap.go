package pipeline

import (
	"image/color"
	"math"
)

// ColorStop anchors a colour at a position along the table domain. The
// position is either a raw domain value (log-domain tables, RGB synthesis)
// or a normalized coordinate, depending on the builder.
type ColorStop struct {
	Position float64
	Color    color.RGBA
}

// ColorTable is a fixed-length ordered ramp of RGBA entries built once
// from a stop list and shared read-only across requests.
type ColorTable struct {
	Entries []color.RGBA
}

// Lookup returns the entry at index i, clamped into the table bounds.
func (t *ColorTable) Lookup(i int) color.RGBA {
	if i < 0 {
		i = 0
	} else if i >= len(t.Entries) {
		i = len(t.Entries) - 1
	}
	return t.Entries[i]
}

// InterpolateChannel interpolates one 8-bit channel between 'a' and 'b'
// at position t in [0, 1], rounding to the nearest value.
func InterpolateChannel(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a)*(1-t) + float64(b)*t))
}

// InterpolateColor returns an RGBA colour where the R, G and B components
// have been interpolated between the 'a' and 'b' colours at position t.
func InterpolateColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		InterpolateChannel(a.R, b.R, t),
		InterpolateChannel(a.G, b.G, t),
		InterpolateChannel(a.B, b.B, t),
		255,
	}
}

func checkTableSize(n int) error {
	if n <= 1 {
		return configErrorf("colour table length must be > 1, got %d", n)
	}
	return nil
}

func checkColours(colours []color.RGBA) error {
	if len(colours) < 2 {
		return configErrorf("at least 2 colours required to interpolate, got %d", len(colours))
	}
	return nil
}

func checkStops(stops []ColorStop) error {
	if len(stops) < 2 {
		return configErrorf("at least 2 colour stops required, got %d", len(stops))
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Position <= stops[i-1].Position {
			return configErrorf("colour stops must be in strictly ascending position order: stop %d (%v) <= stop %d (%v)",
				i, stops[i].Position, i-1, stops[i-1].Position)
		}
	}
	return nil
}

// BuildLinearTable builds an n-entry ramp from evenly spaced colours.
// The table is split into len(colours)-1 segments of n/(len(colours)-1)
// entries each, with the integer remainder distributed to the earliest
// segments so the table always has exactly n entries. Within a segment
// each channel is interpolated independently.
func BuildLinearTable(colours []color.RGBA, n int) (*ColorTable, error) {
	if err := checkTableSize(n); err != nil {
		return nil, err
	}
	if err := checkColours(colours); err != nil {
		return nil, err
	}

	ramp := make([]color.RGBA, n)

	bins := len(colours) - 1
	sectionLength := n / bins
	bonus := n - sectionLength*bins
	bonusArr := make([]int, bins)
	for i := 0; i < bonus; i++ {
		bonusArr[i] = 1
	}

	index := 0
	for section, upper := range colours[1:] {
		length := sectionLength + bonusArr[section]
		for i := 0; i < length; i++ {
			t := 0.0
			if length > 1 {
				t = float64(i) / float64(length-1)
			}
			ramp[index] = InterpolateColor(colours[section], upper, t)
			index++
		}
	}

	return &ColorTable{Entries: ramp}, nil
}

// BuildPositionedTable builds an n-entry ramp from stops carrying explicit
// positions. Positions are normalized onto [0, n-1] by projecting the
// first stop to index 0 and the last to index n-1; every index between two
// projected stops is filled by channel interpolation against the
// bracketing pair.
func BuildPositionedTable(stops []ColorStop, n int) (*ColorTable, error) {
	if err := checkTableSize(n); err != nil {
		return nil, err
	}
	if err := checkStops(stops); err != nil {
		return nil, err
	}

	span := stops[len(stops)-1].Position - stops[0].Position
	projected := make([]float64, len(stops))
	for i, s := range stops {
		projected[i] = (s.Position - stops[0].Position) / span * float64(n-1)
	}

	return &ColorTable{Entries: fillProjected(projected, stops, n)}, nil
}

// BuildLogTable builds an n-entry ramp where each stop carries a raw
// domain value projected by log10 onto [log10(min), log10(max)] and then
// onto [0, n-1]. Colour transitions in the table therefore align with the
// same log10 scaling applied to the underlying data, independent of how
// the stops are spaced. Stops outside [min, max] are replaced by synthetic
// boundary stops at min/max reusing the nearest real stop's colour, so the
// table always spans the full requested range.
func BuildLogTable(stops []ColorStop, min, max float64, n int) (*ColorTable, error) {
	if err := checkTableSize(n); err != nil {
		return nil, err
	}
	if err := checkStops(stops); err != nil {
		return nil, err
	}
	if min <= 0 || max <= 0 {
		return nil, configErrorf("log-domain colour table bounds must be positive, got [%v, %v]", min, max)
	}
	if max <= min {
		return nil, configErrorf("degenerate colour table range [%v, %v]", min, max)
	}

	bounded, err := boundStops(stops, min, max)
	if err != nil {
		return nil, err
	}

	logMin := math.Log10(min)
	logSpan := math.Log10(max) - logMin
	projected := make([]float64, len(bounded))
	for i, s := range bounded {
		projected[i] = (math.Log10(s.Position) - logMin) / logSpan * float64(n-1)
	}

	return &ColorTable{Entries: fillProjected(projected, bounded, n)}, nil
}

// BuildGammaTable builds an n-entry ramp from evenly spaced colours where
// index i samples the ramp at position t = (i/(n-1))**gamma. A gamma below
// 1 compresses high indices, giving more visual resolution to low values
// without true logarithms.
func BuildGammaTable(colours []color.RGBA, gamma float64, n int) (*ColorTable, error) {
	if err := checkTableSize(n); err != nil {
		return nil, err
	}
	if err := checkColours(colours); err != nil {
		return nil, err
	}
	if gamma <= 0 {
		return nil, configErrorf("gamma must be positive, got %v", gamma)
	}

	ramp := make([]color.RGBA, n)
	segments := float64(len(colours) - 1)
	for i := 0; i < n; i++ {
		t := math.Pow(float64(i)/float64(n-1), gamma) * segments
		k := int(t)
		if k >= len(colours)-1 {
			k = len(colours) - 2
		}
		ramp[i] = InterpolateColor(colours[k], colours[k+1], t-float64(k))
	}

	return &ColorTable{Entries: ramp}, nil
}

// boundStops clips a stop list to the closed range [min, max]. Stops
// outside the range are dropped and synthetic stops inserted exactly at
// the bounds, coloured after the nearest real stop.
func boundStops(stops []ColorStop, min, max float64) ([]ColorStop, error) {
	lower := ColorStop{Position: min, Color: stops[0].Color}
	upper := ColorStop{Position: max, Color: stops[len(stops)-1].Color}

	var inner []ColorStop
	for _, s := range stops {
		if s.Position <= min {
			lower.Color = s.Color
			continue
		}
		if s.Position >= max {
			upper.Color = s.Color
			break
		}
		inner = append(inner, s)
	}

	bounded := make([]ColorStop, 0, len(inner)+2)
	bounded = append(bounded, lower)
	bounded = append(bounded, inner...)
	bounded = append(bounded, upper)

	if len(bounded) < 2 {
		return nil, configErrorf("no colour stops left inside range [%v, %v]", min, max)
	}
	return bounded, nil
}

// fillProjected fills an n-entry ramp given stop colours and their
// projected table indices. Indices before the first stop take the first
// colour and indices past the last stop take the last colour.
func fillProjected(projected []float64, stops []ColorStop, n int) []color.RGBA {
	ramp := make([]color.RGBA, n)
	seg := 0
	for i := 0; i < n; i++ {
		pos := float64(i)
		for seg < len(projected)-2 && pos > projected[seg+1] {
			seg++
		}
		lo, hi := projected[seg], projected[seg+1]
		var t float64
		switch {
		case pos <= lo:
			t = 0
		case pos >= hi:
			t = 1
		default:
			t = (pos - lo) / (hi - lo)
		}
		ramp[i] = InterpolateColor(stops[seg].Color, stops[seg+1].Color, t)
	}
	return ramp
}
