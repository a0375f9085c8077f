package inference

import (
	"context"

	"github.com/smallbiznis/housing/internal/config"
	obsmetrics "github.com/smallbiznis/housing/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("inference",
	fx.Provide(NewFromConfig),
	fx.Invoke(registerWatch),
)

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewFromConfig(p Params) (*Holder, error) {
	log := p.Log.Named("inference")
	files := FilesFrom(p.Config.Model)

	var recorder Recorder
	if p.Metrics != nil {
		recorder = p.Metrics
	}

	h, err := NewHolder(files, recorder, log)
	if err != nil {
		return nil, err
	}
	log.Info("model artifacts loaded",
		zap.String("scaler_x", files.ScalerX),
		zap.String("regressor", files.Regressor),
		zap.String("scaler_y", files.ScalerY),
	)
	return h, nil
}

func registerWatch(lc fx.Lifecycle, cfg config.Config, h *Holder) {
	if !cfg.Model.Watch {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			h.Watch()
			return nil
		},
	})
}
