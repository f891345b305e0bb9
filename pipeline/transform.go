package pipeline

import (
	"image/color"
	"sort"
)

// Transform is an elementwise operation mapping a MaskedBuffer to a new
// buffer of possibly different band count. Transforms are pure: they
// never mutate their input and never evaluate masked pixels. Each
// transform declares its band counts so the pipeline can validate the
// input before any pixel is touched.
type Transform interface {
	InBands() int
	OutBands() int
	Validate() error
}

// ScalarTransform produces scalar float32 band(s) for later colorization.
type ScalarTransform interface {
	Transform
	Apply(in *MaskedBuffer) (*MaskedBuffer, error)
}

// RGBTransform synthesizes the final 8-bit colours directly; its output
// bypasses the colour table lookup.
type RGBTransform interface {
	Transform
	ApplyRGB(in *MaskedBuffer) (*RGBBuffer, error)
}

// TransformArgs carries the numeric parameters bound to a transform by
// one tile request. Which fields are consulted depends on the transform
// name; a constructor rejects the combination it cannot use.
type TransformArgs struct {
	Eps             float64
	Min             float64
	Max             float64
	Gamma           float64
	Method          string
	OutputDirection bool
	Breakpoints     []float64
	Points          []float64
	Colors          []color.RGBA
	Stops           []ColorStop
	Expression      string
}

type transformCtor func(args *TransformArgs) (Transform, error)

// transformRegistry maps request-provided transform names to variant
// constructors. The mapping is fixed at compile time; unknown names are a
// configuration error.
var transformRegistry = map[string]transformCtor{
	"log10": func(a *TransformArgs) (Transform, error) {
		return &Log10{Eps: a.Eps}, nil
	},
	"clamped_log10": func(a *TransformArgs) (Transform, error) {
		return &ClampedLog10{Eps: a.Eps, Max: a.Max}, nil
	},
	"sqrt": func(a *TransformArgs) (Transform, error) {
		return &Sqrt{Max: a.Max}, nil
	},
	"gamma": func(a *TransformArgs) (Transform, error) {
		return &GammaPower{Max: a.Max, Gamma: a.Gamma}, nil
	},
	"linear_clamp": func(a *TransformArgs) (Transform, error) {
		return &LinearClamp{Max: a.Max}, nil
	},
	"range_mask": func(a *TransformArgs) (Transform, error) {
		return &RangeMask{Min: a.Min, Max: a.Max}, nil
	},
	"gradient": func(a *TransformArgs) (Transform, error) {
		return &GradientMagnitude{Method: a.Method, OutputDirection: a.OutputDirection}, nil
	},
	"discrete_range_color": func(a *TransformArgs) (Transform, error) {
		return &DiscreteRangeColor{Breakpoints: a.Breakpoints, Colors: a.Colors}, nil
	},
	"smooth_range_color": func(a *TransformArgs) (Transform, error) {
		return &SmoothRangeColor{Points: a.Points, Colors: a.Colors}, nil
	},
	"log_space_color": func(a *TransformArgs) (Transform, error) {
		return &LogSpaceColorRGB{Min: a.Min, Max: a.Max, Stops: a.Stops}, nil
	},
	"expression": func(a *TransformArgs) (Transform, error) {
		return NewBandExpression(a.Expression)
	},
}

// NewTransform resolves a request-provided transform name and binds its
// parameters. The returned transform has already been validated.
func NewTransform(name string, args *TransformArgs) (Transform, error) {
	ctor, ok := transformRegistry[name]
	if !ok {
		return nil, configErrorf("unknown transform %q, supported: %v", name, TransformNames())
	}
	tr, err := ctor(args)
	if err != nil {
		return nil, err
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return tr, nil
}

// TransformNames lists the registered transform names in sorted order.
func TransformNames() []string {
	names := make([]string, 0, len(transformRegistry))
	for name := range transformRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
