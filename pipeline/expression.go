package pipeline

import (
	"fmt"
	"math"
	"strings"

	goeval "github.com/edisonguo/govaluate"
)

// expressionFunctions are the maths helpers available inside a band
// expression, mirroring the functions clients already use against the
// upstream tiler, e.g. expression=log10(b1+1e-6).
var expressionFunctions = map[string]goeval.ExpressionFunction{
	"log10": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("log10 takes exactly one argument")
		}
		return math.Log10(args[0].(float64)), nil
	},
	"log": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("log takes exactly one argument")
		}
		return math.Log(args[0].(float64)), nil
	},
	"sqrt": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("sqrt takes exactly one argument")
		}
		return math.Sqrt(args[0].(float64)), nil
	},
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow takes exactly two arguments")
		}
		return math.Pow(args[0].(float64), args[1].(float64)), nil
	},
	"abs": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs takes exactly one argument")
		}
		return math.Abs(args[0].(float64)), nil
	},
}

// BandExpression evaluates a client-provided arithmetic expression over
// the single input band, referenced as b1, at every valid pixel. Masked
// pixels are never evaluated.
type BandExpression struct {
	expr *goeval.EvaluableExpression
	raw  string
}

// NewBandExpression parses the expression and checks that it references
// only the b1 variable and known functions.
func NewBandExpression(raw string) (Transform, error) {
	if len(strings.TrimSpace(raw)) == 0 {
		return nil, configErrorf("empty band expression")
	}
	expr, err := goeval.NewEvaluableExpressionWithFunctions(raw, expressionFunctions)
	if err != nil {
		return nil, configErrorf("invalid band expression %q: %v", raw, err)
	}
	for _, v := range expr.Vars() {
		if v != "b1" {
			return nil, configErrorf("band expression %q references unknown variable %q, only b1 is available", raw, v)
		}
	}
	return &BandExpression{expr: expr, raw: raw}, nil
}

func (t *BandExpression) InBands() int  { return 1 }
func (t *BandExpression) OutBands() int { return 1 }

func (t *BandExpression) Validate() error {
	if t.expr == nil {
		return configErrorf("band expression not parsed")
	}
	return nil
}

func (t *BandExpression) Apply(in *MaskedBuffer) (*MaskedBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := in.NewLike(1)
	src, dst := in.Bands[0], out.Bands[0]
	params := make(map[string]interface{}, 1)
	for i, v := range src {
		if in.Mask[i] {
			continue
		}
		params["b1"] = float64(v)
		res, err := t.expr.Evaluate(params)
		if err != nil {
			return nil, configErrorf("band expression %q failed: %v", t.raw, err)
		}
		f, ok := res.(float64)
		if !ok {
			return nil, configErrorf("band expression %q is not numeric", t.raw)
		}
		dst[i] = float32(f)
	}
	return out, nil
}
