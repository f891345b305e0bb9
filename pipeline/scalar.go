package pipeline

import (
	"math"
)

// Log10 maps every valid sample to log10(clamp(x, eps, +inf)). Clamping
// happens before the log so values at or below zero never produce -Inf or
// NaN; eps is a small positive constant chosen per dataset so zero and
// denormal inputs land just off-scale rather than inside the visible
// range.
type Log10 struct {
	Eps float64
}

func (t *Log10) InBands() int  { return 1 }
func (t *Log10) OutBands() int { return 1 }

func (t *Log10) Validate() error {
	if t.Eps <= 0 {
		return configErrorf("log10 eps must be positive, got %v", t.Eps)
	}
	return nil
}

func (t *Log10) Apply(in *MaskedBuffer) (*MaskedBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := in.NewLike(1)
	eps := float32(t.Eps)
	src, dst := in.Bands[0], out.Bands[0]
	for i, v := range src {
		if in.Mask[i] {
			continue
		}
		if v < eps {
			v = eps
		}
		dst[i] = float32(math.Log10(float64(v)))
	}
	return out, nil
}

// ClampedLog10 clamps samples into [eps, max] before taking log10. Used
// when a physically bounded quantity, e.g. chlorophyll at 0-2 mg/m3, must
// not let outliers dominate the colour scale.
type ClampedLog10 struct {
	Eps float64
	Max float64
}

func (t *ClampedLog10) InBands() int  { return 1 }
func (t *ClampedLog10) OutBands() int { return 1 }

func (t *ClampedLog10) Validate() error {
	if t.Eps <= 0 {
		return configErrorf("clamped_log10 eps must be positive, got %v", t.Eps)
	}
	if t.Max <= t.Eps {
		return configErrorf("clamped_log10 max (%v) must be greater than eps (%v)", t.Max, t.Eps)
	}
	return nil
}

func (t *ClampedLog10) Apply(in *MaskedBuffer) (*MaskedBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := in.NewLike(1)
	eps, max := float32(t.Eps), float32(t.Max)
	src, dst := in.Bands[0], out.Bands[0]
	for i, v := range src {
		if in.Mask[i] {
			continue
		}
		if v < eps {
			v = eps
		} else if v > max {
			v = max
		}
		dst[i] = float32(math.Log10(float64(v)))
	}
	return out, nil
}

// Sqrt maps every valid sample to sqrt(clamp(x, 0, max)).
type Sqrt struct {
	Max float64
}

func (t *Sqrt) InBands() int  { return 1 }
func (t *Sqrt) OutBands() int { return 1 }

func (t *Sqrt) Validate() error {
	if t.Max <= 0 {
		return configErrorf("sqrt max must be positive, got %v", t.Max)
	}
	return nil
}

func (t *Sqrt) Apply(in *MaskedBuffer) (*MaskedBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := in.NewLike(1)
	max := float32(t.Max)
	src, dst := in.Bands[0], out.Bands[0]
	for i, v := range src {
		if in.Mask[i] {
			continue
		}
		if v < 0 {
			v = 0
		} else if v > max {
			v = max
		}
		dst[i] = float32(math.Sqrt(float64(v)))
	}
	return out, nil
}

// GammaPower maps every valid sample to clamp(x, 0, max) ** gamma. A
// gamma below 1 compresses the upper range and expands contrast near
// zero.
type GammaPower struct {
	Max   float64
	Gamma float64
}

func (t *GammaPower) InBands() int  { return 1 }
func (t *GammaPower) OutBands() int { return 1 }

func (t *GammaPower) Validate() error {
	if t.Max <= 0 {
		return configErrorf("gamma max must be positive, got %v", t.Max)
	}
	if t.Gamma <= 0 {
		return configErrorf("gamma exponent must be positive, got %v", t.Gamma)
	}
	return nil
}

func (t *GammaPower) Apply(in *MaskedBuffer) (*MaskedBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := in.NewLike(1)
	max := float32(t.Max)
	src, dst := in.Bands[0], out.Bands[0]
	for i, v := range src {
		if in.Mask[i] {
			continue
		}
		if v < 0 {
			v = 0
		} else if v > max {
			v = max
		}
		dst[i] = float32(math.Pow(float64(v), t.Gamma))
	}
	return out, nil
}

// LinearClamp maps every valid sample to clamp(x, 0, max). Identity
// transform used purely to bound the domain before colorizing; applying
// it twice yields the same result as applying it once.
type LinearClamp struct {
	Max float64
}

func (t *LinearClamp) InBands() int  { return 1 }
func (t *LinearClamp) OutBands() int { return 1 }

func (t *LinearClamp) Validate() error {
	if t.Max <= 0 {
		return configErrorf("linear_clamp max must be positive, got %v", t.Max)
	}
	return nil
}

func (t *LinearClamp) Apply(in *MaskedBuffer) (*MaskedBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := in.NewLike(1)
	max := float32(t.Max)
	src, dst := in.Bands[0], out.Bands[0]
	for i, v := range src {
		if in.Mask[i] {
			continue
		}
		if v < 0 {
			v = 0
		} else if v > max {
			v = max
		}
		dst[i] = v
	}
	return out, nil
}

// RangeMask leaves every sample untouched and only adds mask bits where
// x < min or x > max, preserving the original values for any downstream
// numeric use. The output mask is old_mask OR out_of_range; existing mask
// bits are never cleared.
type RangeMask struct {
	Min float64
	Max float64
}

func (t *RangeMask) InBands() int  { return 1 }
func (t *RangeMask) OutBands() int { return 1 }

func (t *RangeMask) Validate() error {
	if t.Max <= t.Min {
		return configErrorf("degenerate range mask [%v, %v]", t.Min, t.Max)
	}
	return nil
}

func (t *RangeMask) Apply(in *MaskedBuffer) (*MaskedBuffer, error) {
	if err := in.CheckShape(1); err != nil {
		return nil, err
	}
	out := in.NewLike(1)
	min, max := float32(t.Min), float32(t.Max)
	src, dst := in.Bands[0], out.Bands[0]
	copy(dst, src)
	for i, v := range src {
		if v < min || v > max {
			out.Mask[i] = true
		}
	}
	return out, nil
}
