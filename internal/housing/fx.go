package housing

import (
	"github.com/smallbiznis/housing/internal/housing/domain"
	"github.com/smallbiznis/housing/internal/housing/repository"
	"github.com/smallbiznis/housing/internal/housing/service"
	"github.com/smallbiznis/housing/internal/inference"
	"go.uber.org/fx"
)

var Module = fx.Module("housing.service",
	fx.Provide(repository.Provide),
	fx.Provide(providePricePredictor),
	fx.Provide(service.New),
)

func providePricePredictor(h *inference.Holder) domain.PricePredictor {
	return h
}
