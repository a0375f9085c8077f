package inference

import (
	"fmt"
	"math"
)

// Regressor evaluates a fitted model on a scaled feature vector.
type Regressor interface {
	Predict(x []float64) ([]float64, error)
	InputWidth() int
	OutputWidth() int
}

// NewRegressor builds a regressor from its artifact.
func NewRegressor(a RegressorArtifact) (Regressor, error) {
	switch a.Kind {
	case KindLinear:
		return newLinear(a)
	case KindSVR:
		return newSVR(a)
	default:
		return nil, fmt.Errorf("%w: unknown regressor kind %q", ErrInvalidArtifact, a.Kind)
	}
}

type linear struct {
	coef      [][]float64
	intercept []float64
}

func newLinear(a RegressorArtifact) (*linear, error) {
	if len(a.Coef) == 0 || len(a.Coef[0]) == 0 {
		return nil, fmt.Errorf("%w: linear model has no coefficients", ErrInvalidArtifact)
	}
	width := len(a.Coef[0])
	for i, row := range a.Coef {
		if len(row) != width {
			return nil, fmt.Errorf("%w: linear coef row %d has %d values, want %d", ErrInvalidArtifact, i, len(row), width)
		}
	}

	intercept := a.Intercept
	if intercept == nil {
		intercept = make([]float64, len(a.Coef))
	}
	if len(intercept) != len(a.Coef) {
		return nil, fmt.Errorf("%w: linear model has %d outputs but %d intercepts", ErrInvalidArtifact, len(a.Coef), len(intercept))
	}

	return &linear{coef: a.Coef, intercept: intercept}, nil
}

func (m *linear) InputWidth() int  { return len(m.coef[0]) }
func (m *linear) OutputWidth() int { return len(m.coef) }

func (m *linear) Predict(x []float64) ([]float64, error) {
	if err := checkWidth(x, m.InputWidth()); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.coef))
	for j, row := range m.coef {
		out[j] = dot(row, x) + m.intercept[j]
	}
	return out, nil
}

type kernelFunc func(a, b []float64) float64

// svr is an epsilon-SVR decision function: sum(dual_i * K(sv_i, x)) + intercept.
type svr struct {
	kernel         kernelFunc
	supportVectors [][]float64
	dualCoef       []float64
	intercept      float64
}

func newSVR(a RegressorArtifact) (*svr, error) {
	if len(a.SupportVectors) == 0 || len(a.SupportVectors[0]) == 0 {
		return nil, fmt.Errorf("%w: svr has no support vectors", ErrInvalidArtifact)
	}
	width := len(a.SupportVectors[0])
	for i, sv := range a.SupportVectors {
		if len(sv) != width {
			return nil, fmt.Errorf("%w: support vector %d has %d values, want %d", ErrInvalidArtifact, i, len(sv), width)
		}
	}
	if len(a.DualCoef) != 1 || len(a.DualCoef[0]) != len(a.SupportVectors) {
		return nil, fmt.Errorf("%w: svr dual_coef must be one row of %d values", ErrInvalidArtifact, len(a.SupportVectors))
	}
	if len(a.Intercept) != 1 {
		return nil, fmt.Errorf("%w: svr needs exactly one intercept", ErrInvalidArtifact)
	}

	kernel, err := newKernel(a.Kernel, a.Gamma, a.Coef0, a.Degree)
	if err != nil {
		return nil, err
	}

	return &svr{
		kernel:         kernel,
		supportVectors: a.SupportVectors,
		dualCoef:       a.DualCoef[0],
		intercept:      a.Intercept[0],
	}, nil
}

func (m *svr) InputWidth() int  { return len(m.supportVectors[0]) }
func (m *svr) OutputWidth() int { return 1 }

func (m *svr) Predict(x []float64) ([]float64, error) {
	if err := checkWidth(x, m.InputWidth()); err != nil {
		return nil, err
	}
	sum := m.intercept
	for i, sv := range m.supportVectors {
		sum += m.dualCoef[i] * m.kernel(sv, x)
	}
	return []float64{sum}, nil
}

func newKernel(name string, gamma, coef0 float64, degree int) (kernelFunc, error) {
	if name == "" {
		name = "rbf"
	}
	if name != "linear" && gamma <= 0 {
		return nil, fmt.Errorf("%w: kernel %q needs a positive gamma", ErrInvalidArtifact, name)
	}

	switch name {
	case "linear":
		return dot, nil
	case "rbf":
		return func(a, b []float64) float64 {
			var dist float64
			for i := range a {
				d := a[i] - b[i]
				dist += d * d
			}
			return math.Exp(-gamma * dist)
		}, nil
	case "poly":
		if degree <= 0 {
			degree = 3
		}
		return func(a, b []float64) float64 {
			return math.Pow(gamma*dot(a, b)+coef0, float64(degree))
		}, nil
	case "sigmoid":
		return func(a, b []float64) float64 {
			return math.Tanh(gamma*dot(a, b) + coef0)
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported kernel %q", ErrInvalidArtifact, name)
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
