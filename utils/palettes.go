package utils

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
)

// Palette is a named list of colour ramp anchors. The dense 256-entry
// lookup table is built from it by the pipeline's colour map builder and
// cached per request key.
type Palette struct {
	Name    string
	Colours []color.RGBA
}

// High contrast SST scale, evenly spaced and visually uniform.
var sstHighContrastColours = []string{
	"#081d58", "#16306e", "#21449b", "#2c5fcf", "#3883f6",
	"#34d1db", "#0effc5", "#7ff000", "#ebf600",
	"#fec44f", "#fca23f", "#fb9137", "#fa802f", "#f96f27",
	"#f85e1f", "#f74d17", "#e6420e", "#d53e0d",
	"#c43a0c", "#b3360b", "#a2320a", "#912e09", "#802a08",
	"#6f2607", "#5e2206",
}

// Ocean-inspired SST gradient from deep blues through teals and yellows
// into intense reds.
var sstSaltyVibesColours = []string{
	"#0d1554", "#0f1960", "#121e6c", "#142378", "#172884",
	"#192d90", "#1c329c", "#1e37a8", "#213db4", "#2342c0",
	"#2647cc", "#264fd8", "#3057e4", "#415fe4", "#5267e4",
	"#6370e4", "#747ae4", "#8585e4", "#968fe4", "#a799e4",
	"#68c9bf", "#5ecfb9", "#55d5b2", "#4ddcac", "#44e2a5",
	"#3ce99f", "#33ef98", "#2bf691", "#22fc8b", "#1aff85",
	"#c7e8b4", "#d3eaa6", "#e0ec97", "#ecee89", "#f9f07b",
	"#fff267", "#ffe854", "#ffdf41", "#ffd52e", "#ffcc1a",
	"#ffbe17", "#ffb114", "#ffa412", "#ff970f", "#ff8a0d",
	"#ff7d0a", "#ff7008", "#fd6307", "#f95505", "#f64804",
	"#f33b02", "#eb2e01", "#e32100", "#dd1500", "#d60800",
	"#cf0003", "#be000a", "#ad0011", "#9c0018", "#8b001f",
}

// Chlorophyll scale for the 0-2 mg/m3 range: ultra-clear Gulf Stream
// purples through blues, cyans and greens into productive yellows.
var chlorophyllColours = []string{
	"#4B1390", "#2D1B69", "#1a1a4b", "#0f2a6b", "#0B3D91",
	"#0d5bb8", "#1464F4", "#1a71e1", "#1e7ee8", "#2b8bc7",
	"#00B3B3", "#26c4b8", "#3fd1c7", "#5ac9c0", "#7dd8c5",
	"#9de6c9", "#b8e0b8", "#c8e8a8", "#d4f0a8", "#e0ec80",
	"#e8f080", "#F1C40F", "#e6b800", "#D35400",
}

// Same palette redistributed with extra stops in the 0.01-0.1 mg/m3 range
// so low concentrations pop when the data is log10 expanded.
var chlorophyllLog10Colours = []string{
	"#4B1390", "#4B1390", "#2D1B69", "#2D1B69", "#1a1a4b",
	"#1a1a4b", "#0f2a6b", "#0f2a6b", "#0B3D91", "#0B3D91",
	"#0d5bb8", "#1464F4", "#1a71e1", "#1e7ee8", "#2b8bc7",
	"#00B3B3", "#26c4b8", "#3fd1c7", "#5ac9c0", "#7dd8c5",
	"#9de6c9", "#b8e0b8", "#c8e8a8", "#d4f0a8", "#e0ec80",
	"#e8f080", "#F1C40F", "#e6b800", "#D35400",
}

// Smooth flowing transition from cool indigo to warm yellow, used for
// salinity.
var flowColours = []string{
	"#0a0d3a", "#0d1f6d", "#12328f", "#1746b1",
	"#1f7bbf", "#22a6c5", "#27c8b8", "#3fdf9b",
	"#87f27a", "#c9f560", "#f7f060",
}

// Water clarity: deep blue to bright green.
var waterClarityColours = []string{
	"#00204c", "#002b66", "#003780", "#00439a", "#004fb4",
	"#005bce", "#0067e8", "#0073ff", "#198eff", "#32a9ff",
	"#4bc4ff", "#64dfff", "#7dffff", "#7dffef", "#7dffdf",
	"#7dffcf", "#7dffbf", "#7dffaf", "#7dff9f", "#7dff8f",
	"#66ff66", "#4fff4f", "#38ff38", "#21ff21", "#0aff0a",
}

// Bright cool-to-warm gradient used for mixed layer depth.
var cascadeColours = []string{
	"#2d2d6b", "#1e4db8", "#2196f3", "#03a9f4", "#00bcd4",
	"#009688", "#4caf50", "#8bc34a", "#cddc39", "#ffc107",
	"#ff9800", "#f44336",
}

// Sea surface height: deep blue through near-white to red.
var sshColours = []string{
	"#053061", "#0a3666", "#0f3d6c",
	"#B2E5F4", "#bae7f3", "#c1e9f2",
	"#c6dbef", "#cdddf0", "#d3dff1",
	"#d9e6f2", "#e0e9f3", "#e7ecf4",
	"#e5eef4", "#edf1f6", "#f0f5f7",
	"#f2f2f1", "#f3efeb", "#f5ebe6",
	"#f4e7df", "#f3e3d9", "#f3e0d4",
	"#f2d9c8", "#f1d1bc", "#f0c5ac",
	"#ecb399", "#e8a086", "#e48d73",
	"#dd7960", "#d66552", "#d15043",
	"#cb3e36", "#c52828", "#bf1f1f",
	"#b81717", "#b01010", "#a80808",
}

// Ocean currents: pale blue under sail, fire red past five knots.
var currentsColours = []string{
	"#e6f3ff", "#cce7ff", "#b3dbff",
	"#99cfff", "#80c3ff", "#66b7ff",
	"#4dabff", "#339fff", "#1a93ff",
	"#00ced1", "#20b2aa", "#32cd32",
	"#9acd32", "#ffd700", "#ffa500",
	"#ff6347", "#ff4500", "#dc143c", "#b22222",
}

// Bathymetry: deep indigo for the abyss brightening into pale shallows.
var bathymetryColours = []string{
	"#0a1a3a", "#0f1f3f", "#142444", "#1a2a4a", "#1f2f4f",
	"#243454", "#2a3a5a", "#2f3f5f", "#344464", "#394969",
	"#3e4e6e", "#445373", "#4a5878", "#505d7d", "#566282",
	"#5c6787", "#626c8c", "#687191", "#6e7696", "#747b9b",
	"#7a81a0", "#8087a5", "#868daa", "#8c93af", "#9299b4",
	"#989fb9", "#9ea5be", "#a4abc3", "#aab1c8", "#b0b7cd",
	"#b6bdd2", "#bcc3d7", "#c2c9dc", "#c8cfe1", "#ced5e6",
	"#d4dbeb", "#dae1f0", "#e0e7f5", "#e6edfa", "#ecf3ff",
	"#f2f8ff", "#f8feff", "#ffffff", "#f0f8ff", "#e6f5ff",
	"#dcf2ff", "#d2efff", "#c8ecff", "#bee9ff", "#b4e6ff",
	"#aae3ff", "#a0e0ff", "#96ddff", "#8cdaff", "#82d7ff",
	"#78d4ff", "#6ed1ff", "#64ceff", "#5acbff", "#50c8ff",
}

// Threshold-focused ramp with sharp fire-like shifts at boundaries.
var boundaryFireColours = []string{
	"#8b008b", "#b22222", "#ff4500", "#ff8c00", "#ffd700",
	"#adff2f", "#00bfff", "#00008b", "#191970",
}

// paletteRamps maps colormap_name request values to hex ramps. The
// deprecated dataset names remain registered as aliases of their generic
// replacements.
var paletteRamps = map[string][]string{
	"sst_high_contrast": sstHighContrastColours,
	"sst_salty_vibes":   sstSaltyVibesColours,
	"chlorophyll":       chlorophyllColours,
	"chlorophyll_log10": chlorophyllLog10Colours,
	"flow":              flowColours,
	"salinity":          flowColours,
	"water_clarity":     waterClarityColours,
	"cascade":           cascadeColours,
	"mld_default":       cascadeColours,
	"ssh":               sshColours,
	"currents":          currentsColours,
	"bathymetry":        bathymetryColours,
	"boundary_fire":     boundaryFireColours,
}

// HexToRGBA parses a #rrggbb colour string.
func HexToRGBA(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %v", hex, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

// GetPalette resolves a colormap name to its ramp.
func GetPalette(name string) (*Palette, error) {
	ramp, ok := paletteRamps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q, supported: %v", name, PaletteNames())
	}
	colours := make([]color.RGBA, len(ramp))
	for i, hex := range ramp {
		c, err := HexToRGBA(hex)
		if err != nil {
			return nil, err
		}
		colours[i] = c
	}
	return &Palette{Name: name, Colours: colours}, nil
}

// PaletteNames lists the registered colormap names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(paletteRamps))
	for name := range paletteRamps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
