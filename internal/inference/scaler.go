package inference

import "fmt"

// Scaler maps between raw and scaled feature space.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
	InverseTransform(x []float64) ([]float64, error)
	Width() int
}

// NewScaler builds a scaler from its artifact.
func NewScaler(a ScalerArtifact) (Scaler, error) {
	switch a.Kind {
	case KindStandard:
		return newStandardScaler(a.Mean, a.Scale)
	case KindMinMax:
		return newMinMaxScaler(a.Min, a.Scale)
	default:
		return nil, fmt.Errorf("%w: unknown scaler kind %q", ErrInvalidArtifact, a.Kind)
	}
}

// standardScaler computes (x-mean)/scale. Either side may be absent when the
// scaler was fitted without centering or without scaling.
type standardScaler struct {
	mean  []float64
	scale []float64
}

func newStandardScaler(mean, scale []float64) (*standardScaler, error) {
	width := len(mean)
	if width == 0 {
		width = len(scale)
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: standard scaler has neither mean nor scale", ErrInvalidArtifact)
	}
	if mean == nil {
		mean = make([]float64, width)
	}
	if scale == nil {
		scale = ones(width)
	}
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("%w: standard scaler mean has %d values, scale has %d", ErrInvalidArtifact, len(mean), len(scale))
	}
	return &standardScaler{mean: mean, scale: nonZero(scale)}, nil
}

func (s *standardScaler) Width() int { return len(s.mean) }

func (s *standardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(x, s.Width()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (x[i] - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

func (s *standardScaler) InverseTransform(x []float64) ([]float64, error) {
	if err := checkWidth(x, s.Width()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i]*s.scale[i] + s.mean[i]
	}
	return out, nil
}

// minMaxScaler computes x*scale+min.
type minMaxScaler struct {
	min   []float64
	scale []float64
}

func newMinMaxScaler(min, scale []float64) (*minMaxScaler, error) {
	if len(min) == 0 || len(min) != len(scale) {
		return nil, fmt.Errorf("%w: minmax scaler needs min and scale of equal width", ErrInvalidArtifact)
	}
	return &minMaxScaler{min: min, scale: nonZero(scale)}, nil
}

func (s *minMaxScaler) Width() int { return len(s.min) }

func (s *minMaxScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(x, s.Width()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i]*s.scale[i] + s.min[i]
	}
	return out, nil
}

func (s *minMaxScaler) InverseTransform(x []float64) ([]float64, error) {
	if err := checkWidth(x, s.Width()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (x[i] - s.min[i]) / s.scale[i]
	}
	return out, nil
}

func checkWidth(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("%w: expected %d features, got %d", ErrPrediction, want, len(x))
	}
	return nil
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// nonZero replaces zero scales with 1, the convention for constant features.
func nonZero(scale []float64) []float64 {
	out := make([]float64, len(scale))
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		out[i] = v
	}
	return out
}
