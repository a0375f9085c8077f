package inference

import (
	"fmt"
	"math"
)

// priceUnit converts the model's target (thousands) into the stored price.
const priceUnit = 1000

// Predictor chains the feature scaler, the regressor and the inverse target
// scaler for a single loaded artifact set. It is immutable once built.
type Predictor struct {
	scalerX Scaler
	model   Regressor
	scalerY Scaler
}

// NewPredictor checks that the three artifacts agree on their dimensions.
func NewPredictor(scalerX Scaler, model Regressor, scalerY Scaler) (*Predictor, error) {
	if scalerX.Width() != 1 {
		return nil, fmt.Errorf("%w: feature scaler expects %d features, want 1 (rooms)", ErrInvalidArtifact, scalerX.Width())
	}
	if model.InputWidth() != scalerX.Width() {
		return nil, fmt.Errorf("%w: model expects %d features, feature scaler yields %d", ErrInvalidArtifact, model.InputWidth(), scalerX.Width())
	}
	if model.OutputWidth() != scalerY.Width() {
		return nil, fmt.Errorf("%w: model yields %d targets, target scaler expects %d", ErrInvalidArtifact, model.OutputWidth(), scalerY.Width())
	}
	return &Predictor{scalerX: scalerX, model: model, scalerY: scalerY}, nil
}

// Predict returns the price for the given number of rooms, in currency units
// rounded to two decimals.
func (p *Predictor) Predict(rooms int) (float64, error) {
	scaled, err := p.scalerX.Transform([]float64{float64(rooms)})
	if err != nil {
		return 0, err
	}
	prediction, err := p.model.Predict(scaled)
	if err != nil {
		return 0, err
	}
	target, err := p.scalerY.InverseTransform(prediction)
	if err != nil {
		return 0, err
	}

	price := target[0] * priceUnit
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: non-finite price for rooms=%d", ErrPrediction, rooms)
	}
	return round2(price), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
