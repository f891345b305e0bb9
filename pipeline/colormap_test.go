package pipeline

import (
	"image/color"
	"math"
	"testing"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func TestBuildLinearTable(t *testing.T) {
	table, err := BuildLinearTable([]color.RGBA{black, white}, 256)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(table.Entries) != 256 {
		t.Fatalf("expecting 256 entries, actual %d", len(table.Entries))
	}
	if table.Entries[0] != black {
		t.Errorf("first entry: expecting %v, actual %v", black, table.Entries[0])
	}
	if table.Entries[255] != white {
		t.Errorf("last entry: expecting %v, actual %v", white, table.Entries[255])
	}
	for i := 1; i < 256; i++ {
		if table.Entries[i].R < table.Entries[i-1].R {
			t.Errorf("ramp not monotonic at %d: %v < %v", i, table.Entries[i].R, table.Entries[i-1].R)
		}
	}
}

func TestBuildLinearTableRemainder(t *testing.T) {
	// 256 entries over 3 segments leaves a remainder of 1, which goes to
	// the earliest segment. The table must still be exactly 256 long.
	colours := []color.RGBA{black, red, green, white}
	table, err := BuildLinearTable(colours, 256)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(table.Entries) != 256 {
		t.Fatalf("expecting 256 entries, actual %d", len(table.Entries))
	}
	if table.Entries[255] != white {
		t.Errorf("last entry: expecting %v, actual %v", white, table.Entries[255])
	}
}

func TestColorTableDeterminism(t *testing.T) {
	colours := []color.RGBA{blue, green, red}
	a, err := BuildLinearTable(colours, 256)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	b, err := BuildLinearTable(colours, 256)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for i := range a.Entries {
		if a.Entries[i] != b.Entries[i] {
			t.Fatalf("entry %d differs between identical builds: %v != %v", i, a.Entries[i], b.Entries[i])
		}
	}
}

func TestBuildLogTableBoundaries(t *testing.T) {
	stops := []ColorStop{{0.01, black}, {8.0, white}}
	table, err := BuildLogTable(stops, 0.01, 8.0, 256)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if table.Entries[0] != black {
		t.Errorf("entry 0: expecting %v, actual %v", black, table.Entries[0])
	}
	if table.Entries[255] != white {
		t.Errorf("entry 255: expecting %v, actual %v", white, table.Entries[255])
	}
	// The log midpoint of the range lands mid-table.
	mid := table.Entries[127]
	if mid.R < 126 || mid.R > 129 {
		t.Errorf("mid entry not grey: %v", mid)
	}
}

func TestBuildLogTableAlignsWithData(t *testing.T) {
	// A stop positioned at the log midpoint of the range must land in the
	// middle of the table even though it is nowhere near the linear
	// midpoint.
	min, max := 0.01, 8.0
	midVal := math.Sqrt(min * max)
	stops := []ColorStop{{min, black}, {midVal, red}, {max, white}}
	table, err := BuildLogTable(stops, min, max, 255)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if table.Entries[127] != red {
		t.Errorf("entry 127: expecting %v, actual %v", red, table.Entries[127])
	}
}

func TestBuildLogTableSyntheticBoundaryStops(t *testing.T) {
	// Stops outside the configured range collapse onto synthetic boundary
	// stops reusing the nearest colour.
	stops := []ColorStop{{0.001, blue}, {0.5, red}, {100, green}}
	table, err := BuildLogTable(stops, 0.01, 8.0, 64)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if table.Entries[0] != blue {
		t.Errorf("entry 0: expecting %v, actual %v", blue, table.Entries[0])
	}
	if table.Entries[63] != green {
		t.Errorf("entry 63: expecting %v, actual %v", green, table.Entries[63])
	}
}

func TestBuildGammaTable(t *testing.T) {
	table, err := BuildGammaTable([]color.RGBA{black, white}, 0.5, 256)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if table.Entries[0] != black || table.Entries[255] != white {
		t.Errorf("endpoints wrong: %v .. %v", table.Entries[0], table.Entries[255])
	}
	// gamma < 1 lifts the low end: the quarter-table entry must be
	// brighter than a linear ramp would put it.
	if table.Entries[64].R <= 64 {
		t.Errorf("gamma bias missing: entry 64 is %v", table.Entries[64].R)
	}
}

func TestBuildPositionedTable(t *testing.T) {
	stops := []ColorStop{{0, black}, {0.25, red}, {1, white}}
	table, err := BuildPositionedTable(stops, 101)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if table.Entries[25] != red {
		t.Errorf("entry 25: expecting %v, actual %v", red, table.Entries[25])
	}
}

func TestColorTableErrors(t *testing.T) {
	if _, err := BuildLinearTable([]color.RGBA{black}, 256); err == nil {
		t.Errorf("expected error for single colour")
	}
	if _, err := BuildLinearTable([]color.RGBA{black, white}, 1); err == nil {
		t.Errorf("expected error for table length 1")
	}
	if _, err := BuildLogTable([]ColorStop{{2, black}, {1, white}}, 0.1, 10, 256); err == nil {
		t.Errorf("expected error for out-of-order stops")
	}
	if _, err := BuildLogTable([]ColorStop{{1, black}, {1, white}}, 0.1, 10, 256); err == nil {
		t.Errorf("expected error for duplicate stop positions")
	}
	if _, err := BuildLogTable([]ColorStop{{1, black}, {2, white}}, -1, 10, 256); err == nil {
		t.Errorf("expected error for non-positive log bound")
	}
	if _, err := BuildGammaTable([]color.RGBA{black, white}, 0, 256); err == nil {
		t.Errorf("expected error for non-positive gamma")
	}
}

func TestLookupClamps(t *testing.T) {
	table, err := BuildLinearTable([]color.RGBA{black, white}, 16)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if table.Lookup(-5) != table.Entries[0] {
		t.Errorf("negative index must clamp to first entry")
	}
	if table.Lookup(99) != table.Entries[15] {
		t.Errorf("overflow index must clamp to last entry")
	}
}
