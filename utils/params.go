package utils

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"
)

// PaletteStop pairs a raw domain value with a colour, parsed from an
// inline value:#rrggbb stop list.
type PaletteStop struct {
	Value  float64
	Colour color.RGBA
}

// TileParams contains the serialised version of the parameters contained
// in a tile request. Pointer fields distinguish absent parameters from
// zero values.
type TileParams struct {
	Dataset         string
	ScaleMin        *float64
	ScaleMax        *float64
	ColormapName    *string
	ColormapBins    int
	ColormapMode    string
	ColormapGamma   float64
	Transform       *string
	Eps             *float64
	MinValue        *float64
	MaxValue        *float64
	Gamma           *float64
	Method          string
	OutputDirection bool
	Expression      *string
	Breakpoints     []float64
	Points          []float64
	Colours         []color.RGBA
	Stops           []PaletteStop
}

// TileRegexpMap maps tile request parameters to regular expressions for
// doing validation when parsing.
// --- These regexp do not avoid every case of
// --- invalid code but filter most of the malformed cases.
var TileRegexpMap = map[string]string{
	"dataset":          `^[A-Za-z0-9_\-\./:]+$`,
	"rescale":          `^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?,[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`,
	"colormap_name":    `^[a-z0-9_]+$`,
	"colormap_bins":    `^[0-9]+$`,
	"colormap_mode":    `^(linear|log|gamma)$`,
	"transform":        `^[a-z0-9_]+$`,
	"float":            `^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`,
	"float_list":       `^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?(,[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?)*$`,
	"colour_list":      `^#[0-9a-fA-F]{6}(,#[0-9a-fA-F]{6})*$`,
	"stop_list":        `^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?:#[0-9a-fA-F]{6}(,[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?:#[0-9a-fA-F]{6})*$`,
	"method":           `^(sobel|central|numpy)$`,
	"output_direction": `^(true|false)$`,
}

// CompileTileRegexMap compiles the validation regexps once at startup.
func CompileTileRegexMap() map[string]*regexp.Regexp {
	reMap := make(map[string]*regexp.Regexp)
	for key, re := range TileRegexpMap {
		reMap[key] = regexp.MustCompile(re)
	}
	return reMap
}

// TileParamsChecker checks and marshals the content of the query
// parameters of a tile request into a TileParams struct. Malformed
// parameters are rejected rather than silently corrected.
func TileParamsChecker(params map[string][]string, reMap map[string]*regexp.Regexp) (TileParams, error) {
	// empty string fields mean "not supplied"; the layer defaults win
	tp := TileParams{ColormapBins: 256, ColormapGamma: 1.0}

	if dataset, ok := first(params, "dataset"); ok {
		if !reMap["dataset"].MatchString(dataset) {
			return tp, fmt.Errorf("malformed dataset parameter: %q", dataset)
		}
		tp.Dataset = dataset
	}

	if rescale, ok := first(params, "rescale"); ok {
		if !reMap["rescale"].MatchString(rescale) {
			return tp, fmt.Errorf("rescale parameter must be in format 'min,max', got %q", rescale)
		}
		parts := strings.Split(rescale, ",")
		min, _ := strconv.ParseFloat(parts[0], 64)
		max, _ := strconv.ParseFloat(parts[1], 64)
		if max <= min {
			return tp, fmt.Errorf("degenerate rescale range [%v, %v]", min, max)
		}
		tp.ScaleMin, tp.ScaleMax = &min, &max
	}

	if name, ok := first(params, "colormap_name"); ok {
		if !reMap["colormap_name"].MatchString(name) {
			return tp, fmt.Errorf("malformed colormap_name parameter: %q", name)
		}
		tp.ColormapName = &name
	}

	if bins, ok := first(params, "colormap_bins"); ok {
		if !reMap["colormap_bins"].MatchString(bins) {
			return tp, fmt.Errorf("malformed colormap_bins parameter: %q", bins)
		}
		n, _ := strconv.Atoi(bins)
		if n <= 1 {
			return tp, fmt.Errorf("colormap_bins must be greater than 1, got %d", n)
		}
		tp.ColormapBins = n
	}

	if mode, ok := first(params, "colormap_mode"); ok {
		if !reMap["colormap_mode"].MatchString(mode) {
			return tp, fmt.Errorf("colormap_mode must be one of linear, log, gamma; got %q", mode)
		}
		tp.ColormapMode = mode
	}

	if g, ok := first(params, "colormap_gamma"); ok {
		v, err := parseFloat(reMap, "colormap_gamma", g)
		if err != nil {
			return tp, err
		}
		tp.ColormapGamma = v
	}

	if tr, ok := first(params, "transform"); ok {
		if !reMap["transform"].MatchString(tr) {
			return tp, fmt.Errorf("malformed transform parameter: %q", tr)
		}
		tp.Transform = &tr
	}

	for _, spec := range []struct {
		key  string
		dest **float64
	}{
		{"eps", &tp.Eps},
		{"min_value", &tp.MinValue},
		{"max_value", &tp.MaxValue},
		{"gamma", &tp.Gamma},
	} {
		if raw, ok := first(params, spec.key); ok {
			v, err := parseFloat(reMap, spec.key, raw)
			if err != nil {
				return tp, err
			}
			*spec.dest = &v
		}
	}

	if method, ok := first(params, "method"); ok {
		if !reMap["method"].MatchString(method) {
			return tp, fmt.Errorf("method must be one of sobel, central, numpy; got %q", method)
		}
		// numpy is the upstream name for plain central differences.
		if method == "numpy" {
			method = "central"
		}
		tp.Method = method
	}

	if dir, ok := first(params, "output_direction"); ok {
		if !reMap["output_direction"].MatchString(dir) {
			return tp, fmt.Errorf("output_direction must be true or false, got %q", dir)
		}
		tp.OutputDirection = dir == "true"
	}

	if expr, ok := first(params, "expression"); ok {
		if len(strings.TrimSpace(expr)) == 0 {
			return tp, fmt.Errorf("empty expression parameter")
		}
		tp.Expression = &expr
	}

	if raw, ok := first(params, "breakpoints"); ok {
		vals, err := parseFloatList(reMap, "breakpoints", raw)
		if err != nil {
			return tp, err
		}
		tp.Breakpoints = vals
	}

	if raw, ok := first(params, "points"); ok {
		vals, err := parseFloatList(reMap, "points", raw)
		if err != nil {
			return tp, err
		}
		tp.Points = vals
	}

	if raw, ok := first(params, "colors"); ok {
		if !reMap["colour_list"].MatchString(raw) {
			return tp, fmt.Errorf("malformed colors parameter: %q", raw)
		}
		for _, hex := range strings.Split(raw, ",") {
			c, err := HexToRGBA(hex)
			if err != nil {
				return tp, err
			}
			tp.Colours = append(tp.Colours, c)
		}
	}

	if raw, ok := first(params, "stops"); ok {
		if !reMap["stop_list"].MatchString(raw) {
			return tp, fmt.Errorf("malformed stops parameter: %q", raw)
		}
		for _, pair := range strings.Split(raw, ",") {
			kv := strings.SplitN(pair, ":", 2)
			v, err := strconv.ParseFloat(kv[0], 64)
			if err != nil {
				return tp, fmt.Errorf("malformed stop value %q: %v", kv[0], err)
			}
			c, err := HexToRGBA(kv[1])
			if err != nil {
				return tp, err
			}
			tp.Stops = append(tp.Stops, PaletteStop{Value: v, Colour: c})
		}
	}

	return tp, nil
}

func first(params map[string][]string, key string) (string, bool) {
	vals, ok := params[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func parseFloat(reMap map[string]*regexp.Regexp, key, raw string) (float64, error) {
	if !reMap["float"].MatchString(raw) {
		return 0, fmt.Errorf("malformed %s parameter: %q", key, raw)
	}
	return strconv.ParseFloat(raw, 64)
}

func parseFloatList(reMap map[string]*regexp.Regexp, key, raw string) ([]float64, error) {
	if !reMap["float_list"].MatchString(raw) {
		return nil, fmt.Errorf("malformed %s parameter: %q", key, raw)
	}
	parts := strings.Split(raw, ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed %s parameter: %v", key, err)
		}
		vals[i] = v
	}
	return vals, nil
}
