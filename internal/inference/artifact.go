package inference

import "errors"

var (
	// ErrInvalidArtifact reports a missing, unreadable or inconsistent model artifact.
	ErrInvalidArtifact = errors.New("invalid_model_artifact")
	// ErrPrediction reports a prediction that could not produce a finite price.
	ErrPrediction = errors.New("prediction_failed")
)

const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
	KindLinear   = "linear"
	KindSVR      = "svr"
)

// ScalerArtifact is the exported form of a fitted feature or target scaler.
type ScalerArtifact struct {
	Kind  string    `mapstructure:"kind"`
	Mean  []float64 `mapstructure:"mean"`
	Min   []float64 `mapstructure:"min"`
	Scale []float64 `mapstructure:"scale"`
}

// RegressorArtifact is the exported form of a fitted regression model.
type RegressorArtifact struct {
	Kind string `mapstructure:"kind"`

	// linear
	Coef      [][]float64 `mapstructure:"coef"`
	Intercept []float64   `mapstructure:"intercept"`

	// svr
	Kernel         string      `mapstructure:"kernel"`
	Gamma          float64     `mapstructure:"gamma"`
	Coef0          float64     `mapstructure:"coef0"`
	Degree         int         `mapstructure:"degree"`
	SupportVectors [][]float64 `mapstructure:"support_vectors"`
	DualCoef       [][]float64 `mapstructure:"dual_coef"`
}
