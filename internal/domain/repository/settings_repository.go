package repository

import (
	"context"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// SettingsRepository lee la configuración de precios; nil si no hay fila.
type SettingsRepository interface {
	GetPricingConfig(ctx context.Context) (*entity.PricingConfig, error)
}
