package inference

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var tracer = otel.Tracer("github.com/smallbiznis/housing/internal/inference")

// Recorder receives prediction and reload measurements.
type Recorder interface {
	ObservePrediction(outcome string, duration time.Duration)
	RecordModelReload(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObservePrediction(string, time.Duration) {}
func (nopRecorder) RecordModelReload(string)                {}

// Holder serves predictions from the currently loaded artifact set and swaps
// in a new set when the files change on disk.
type Holder struct {
	files    Files
	log      *zap.Logger
	recorder Recorder

	current atomic.Pointer[Predictor]
	reload  sync.Mutex
	watch   sync.Once
}

// NewHolder loads the artifact set. A load failure is returned to the caller
// so the process refuses to start without a model.
func NewHolder(files Files, recorder Recorder, log *zap.Logger) (*Holder, error) {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	predictor, err := LoadPredictor(files)
	if err != nil {
		return nil, err
	}

	h := &Holder{files: files, log: log, recorder: recorder}
	h.current.Store(predictor)
	return h, nil
}

// PredictPrice returns the price for rooms using the current artifact set.
func (h *Holder) PredictPrice(ctx context.Context, rooms int) (float64, error) {
	_, span := tracer.Start(ctx, "inference.PredictPrice")
	defer span.End()
	span.SetAttributes(attribute.Int("housing.rooms", rooms))

	start := time.Now()
	price, err := h.current.Load().Predict(rooms)
	if err != nil {
		h.recorder.ObservePrediction(outcomeError, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	h.recorder.ObservePrediction(outcomeSuccess, time.Since(start))
	span.SetAttributes(attribute.Float64("housing.price", price))
	return price, nil
}

// Reload re-reads every artifact. The current set is kept when the new one
// fails to load.
func (h *Holder) Reload() error {
	h.reload.Lock()
	defer h.reload.Unlock()

	predictor, err := LoadPredictor(h.files)
	if err != nil {
		h.recorder.RecordModelReload(outcomeError)
		return err
	}

	h.current.Store(predictor)
	h.recorder.RecordModelReload(outcomeSuccess)
	return nil
}

// Watch reloads the set whenever one of its files is written.
func (h *Holder) Watch() {
	h.watch.Do(func() {
		for _, path := range h.files.all() {
			v := viper.New()
			v.SetConfigFile(path)
			v.OnConfigChange(func(e fsnotify.Event) {
				if err := h.Reload(); err != nil {
					h.log.Warn("model reload failed, keeping current artifacts",
						zap.String("file", e.Name),
						zap.Error(err),
					)
					return
				}
				h.log.Info("model artifacts reloaded", zap.String("file", e.Name))
			})
			v.WatchConfig()
		}
		h.log.Info("watching model artifacts", zap.Strings("files", h.files.all()))
	})
}
