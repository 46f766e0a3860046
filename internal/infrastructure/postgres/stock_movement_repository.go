package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de stock sobre PostgreSQL. Solo inserta y lee.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const stockMovementColumns = `id, product_id, actor_id, kind, quantity, quantity_before, quantity_after,
	reason, COALESCE(reference_id, ''), COALESCE(reference_type, ''), COALESCE(reversal_of::text, ''), created_at`

func scanStockMovement(s pgxScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := s.Scan(&m.ID, &m.ProductID, &m.ActorID, &m.Kind, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
		&m.Reason, &m.ReferenceID, &m.ReferenceType, &m.ReversalOf, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta el movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, actor_id, kind, quantity, quantity_before, quantity_after,
			reason, reference_id, reference_type, reversal_of, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, '')::uuid, $12)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.ActorID, m.Kind, m.Quantity, m.QuantityBefore, m.QuantityAfter,
		m.Reason, m.ReferenceID, m.ReferenceType, m.ReversalOf, m.CreatedAt)
	if err != nil {
		return wrapErr("insert stock movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanStockMovement(r.q.QueryRow(ctx, `SELECT `+stockMovementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get stock movement", err)
	}
	return m, nil
}

// ListByProduct ficha de stock en orden cronológico, con rango opcional [from, to).
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at, seq
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, productID, from, to, limit, offset)
	if err != nil {
		return nil, wrapErr("list stock movements", err)
	}
	defer rows.Close()
	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanStockMovement(rows)
		if err != nil {
			return nil, wrapErr("scan stock movement", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
