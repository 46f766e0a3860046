package postgres

import (
	"context"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración persistida (fila única id = 1).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetPricingConfig devuelve nil si la fila no existe.
func (r *SettingsRepo) GetPricingConfig(ctx context.Context) (*entity.PricingConfig, error) {
	var cfg entity.PricingConfig
	err := r.q.QueryRow(ctx, `SELECT max_discount_pct, currency_epsilon FROM settings WHERE id = 1`).
		Scan(&cfg.MaxDiscountPct, &cfg.CurrencyEpsilon)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get settings", err)
	}
	return &cfg, nil
}

// EnsureDefaults crea la fila de configuración con los valores por defecto si no existe.
func (r *SettingsRepo) EnsureDefaults(ctx context.Context, cfg entity.PricingConfig) error {
	query := `
		INSERT INTO settings (id, max_discount_pct, currency_epsilon)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, cfg.MaxDiscountPct, cfg.CurrencyEpsilon); err != nil {
		return wrapErr("ensure settings", err)
	}
	return nil
}
