package pipeline

import (
	"math"
	"testing"
)

func TestBandExpression(t *testing.T) {
	tr, err := NewTransform("expression", &TransformArgs{Expression: "log10(b1 + 0.000001)"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	values := []float32{0, 0.01, 1, 100}
	mask := []bool{false, false, true, false}
	buf := newTestBuffer(values, mask, 4, 1)

	out, err := tr.(ScalarTransform).Apply(buf)
	if err != nil {
		t.Fatalf("expression failed: %v", err)
	}
	for i, v := range values {
		if mask[i] {
			if out.Bands[0][i] != 0 {
				t.Errorf("masked position %d was evaluated: %v", i, out.Bands[0][i])
			}
			continue
		}
		exp := float32(math.Log10(float64(v) + 1e-6))
		if math.Abs(float64(out.Bands[0][i]-exp)) > 1e-6 {
			t.Errorf("pixel %d: expecting %v, actual %v", i, exp, out.Bands[0][i])
		}
	}
}

func TestBandExpressionErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"log10(b2)",
		"b1 +* 2",
	}
	for _, raw := range cases {
		if _, err := NewBandExpression(raw); err == nil {
			t.Errorf("expected error for expression %q", raw)
		}
	}
}

func TestNewTransformUnknownName(t *testing.T) {
	_, err := NewTransform("sharpen", &TransformArgs{})
	if err == nil {
		t.Fatalf("expected configuration error for unknown transform name")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("expected *ConfigError, got %T", err)
	}
}

func TestNewTransformValidates(t *testing.T) {
	if _, err := NewTransform("log10", &TransformArgs{Eps: 0}); err == nil {
		t.Errorf("expected configuration error for non-positive eps")
	}
	tr, err := NewTransform("log10", &TransformArgs{Eps: 1e-6})
	if err != nil {
		t.Fatalf("valid transform rejected: %v", err)
	}
	if tr.InBands() != 1 || tr.OutBands() != 1 {
		t.Errorf("unexpected band counts: %d -> %d", tr.InBands(), tr.OutBands())
	}
}
