package inference

import (
	"fmt"

	"github.com/smallbiznis/housing/internal/config"
	"github.com/spf13/viper"
)

// Files locates the three artifacts of a model set.
type Files struct {
	ScalerX   string
	Regressor string
	ScalerY   string
}

func FilesFrom(m config.ModelConfig) Files {
	scalerX, regressor, scalerY := m.Paths()
	return Files{ScalerX: scalerX, Regressor: regressor, ScalerY: scalerY}
}

func (f Files) all() []string {
	return []string{f.ScalerX, f.Regressor, f.ScalerY}
}

// LoadPredictor reads and validates the artifact set. JSON and YAML documents
// are both accepted; the format follows the file extension.
func LoadPredictor(files Files) (*Predictor, error) {
	var (
		xDoc ScalerArtifact
		mDoc RegressorArtifact
		yDoc ScalerArtifact
	)
	if err := readArtifact(files.ScalerX, &xDoc); err != nil {
		return nil, err
	}
	if err := readArtifact(files.Regressor, &mDoc); err != nil {
		return nil, err
	}
	if err := readArtifact(files.ScalerY, &yDoc); err != nil {
		return nil, err
	}

	scalerX, err := NewScaler(xDoc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", files.ScalerX, err)
	}
	model, err := NewRegressor(mDoc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", files.Regressor, err)
	}
	scalerY, err := NewScaler(yDoc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", files.ScalerY, err)
	}

	return NewPredictor(scalerX, model, scalerY)
}

func readArtifact(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrInvalidArtifact, path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidArtifact, path, err)
	}
	return nil
}
