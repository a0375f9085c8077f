package service

import (
	"context"
	"errors"

	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
	obsmetrics "github.com/smallbiznis/housing/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      housingdomain.Repository
	Predictor housingdomain.PricePredictor
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      housingdomain.Repository
	predictor housingdomain.PricePredictor
	metrics   *obsmetrics.Metrics
}

func New(p Params) housingdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("housing.service"),
		repo:      p.Repo,
		predictor: p.Predictor,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req housingdomain.CreateRequest) (resp *housingdomain.HousingResponse, err error) {
	defer func() { s.record("create", err) }()

	if err := housingdomain.ValidateRooms(req.Rooms); err != nil {
		return nil, err
	}

	price, err := s.predictor.PredictPrice(ctx, req.Rooms)
	if err != nil {
		return nil, err
	}
	s.log.Debug("price computed", zap.Int("rooms", req.Rooms), zap.Float64("price", price))

	item := &housingdomain.Housing{Rooms: req.Rooms, Price: &price}
	if err := s.repo.Insert(ctx, s.db, item); err != nil {
		return nil, err
	}

	out := housingdomain.ToResponse(*item)
	return &out, nil
}

func (s *Service) List(ctx context.Context) ([]housingdomain.HousingResponse, error) {
	items, err := s.repo.List(ctx, s.db)
	s.record("list", err)
	if err != nil {
		return nil, err
	}
	return housingdomain.ToResponses(items), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (resp *housingdomain.HousingResponse, err error) {
	defer func() { s.record("get", err) }()

	housingID, err := housingdomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, housingID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, housingdomain.ErrNotFound
	}

	out := housingdomain.ToResponse(*item)
	return &out, nil
}

// Update recomputes the price for the new rooms value. The lookup and the
// write share one transaction; an absent id writes nothing.
func (s *Service) Update(ctx context.Context, req housingdomain.UpdateRequest) (resp *housingdomain.HousingResponse, err error) {
	defer func() { s.record("update", err) }()

	housingID, err := housingdomain.ParseID(req.ID)
	if err != nil {
		return nil, err
	}
	if err := housingdomain.ValidateRooms(req.Rooms); err != nil {
		return nil, err
	}

	var updated housingdomain.Housing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, housingID)
		if err != nil {
			return err
		}
		if item == nil {
			return housingdomain.ErrNotFound
		}

		price, err := s.predictor.PredictPrice(ctx, req.Rooms)
		if err != nil {
			return err
		}
		s.log.Debug("price computed",
			zap.Int64("id", housingID),
			zap.Int("rooms", req.Rooms),
			zap.Float64("price", price),
		)

		item.Rooms = req.Rooms
		item.Price = &price
		ok, err := s.repo.Update(ctx, tx, item)
		if err != nil {
			return err
		}
		if !ok {
			return housingdomain.ErrNotFound
		}

		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := housingdomain.ToResponse(updated)
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.record("delete", err) }()

	housingID, err := housingdomain.ParseID(id)
	if err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, s.db, housingID)
	if err != nil {
		return err
	}
	if !ok {
		return housingdomain.ErrNotFound
	}
	return nil
}

func (s *Service) record(operation string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, housingdomain.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, housingdomain.ErrInvalidID), errors.Is(err, housingdomain.ErrInvalidRooms):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	s.metrics.RecordOperation(operation, outcome)
}
