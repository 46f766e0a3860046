package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var _ repository.AccountMovementRepository = (*AccountMovementRepo)(nil)

// AccountMovementRepo libro de cuenta corriente sobre PostgreSQL. Solo inserta y lee.
type AccountMovementRepo struct {
	q Querier
}

// NewAccountMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountMovementRepository(q Querier) *AccountMovementRepo {
	return &AccountMovementRepo{q: q}
}

const accountMovementColumns = `id, customer_id, actor_id, direction, concept, amount, balance_before, balance_after,
	COALESCE(reference_document_id::text, ''), COALESCE(reference_type, ''), COALESCE(reversal_of::text, ''), created_at`

func scanAccountMovement(s pgxScanner) (*entity.AccountMovement, error) {
	var m entity.AccountMovement
	err := s.Scan(&m.ID, &m.CustomerID, &m.ActorID, &m.Direction, &m.Concept, &m.Amount, &m.BalanceBefore, &m.BalanceAfter,
		&m.ReferenceDocumentID, &m.ReferenceType, &m.ReversalOf, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta el asiento.
func (r *AccountMovementRepo) Create(ctx context.Context, m *entity.AccountMovement) error {
	query := `
		INSERT INTO account_movements (id, customer_id, actor_id, direction, concept, amount, balance_before, balance_after,
			reference_document_id, reference_type, reversal_of, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, NULLIF($10, ''), NULLIF($11, '')::uuid, $12)`
	_, err := r.q.Exec(ctx, query, m.ID, m.CustomerID, m.ActorID, m.Direction, m.Concept, m.Amount, m.BalanceBefore, m.BalanceAfter,
		m.ReferenceDocumentID, m.ReferenceType, m.ReversalOf, m.CreatedAt)
	if err != nil {
		return wrapErr("insert account movement", err)
	}
	return nil
}

// GetByID obtiene un asiento.
func (r *AccountMovementRepo) GetByID(ctx context.Context, id string) (*entity.AccountMovement, error) {
	return r.getOne(ctx, "get account movement", `SELECT `+accountMovementColumns+` FROM account_movements WHERE id = $1`, id)
}

// FindReversalOf devuelve el asiento que compensa a id, o nil.
func (r *AccountMovementRepo) FindReversalOf(ctx context.Context, id string) (*entity.AccountMovement, error) {
	return r.getOne(ctx, "find reversal", `SELECT `+accountMovementColumns+` FROM account_movements WHERE reversal_of = $1 LIMIT 1`, id)
}

func (r *AccountMovementRepo) getOne(ctx context.Context, op, query, id string) (*entity.AccountMovement, error) {
	m, err := scanAccountMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return m, nil
}

// ListByCustomer extracto en orden cronológico, con rango opcional [from, to).
func (r *AccountMovementRepo) ListByCustomer(ctx context.Context, customerID string, from, to *time.Time, limit, offset int) ([]*entity.AccountMovement, error) {
	query := `
		SELECT ` + accountMovementColumns + `
		FROM account_movements
		WHERE customer_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at, seq
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, customerID, from, to, limit, offset)
	if err != nil {
		return nil, wrapErr("list account movements", err)
	}
	defer rows.Close()
	var out []*entity.AccountMovement
	for rows.Next() {
		m, err := scanAccountMovement(rows)
		if err != nil {
			return nil, wrapErr("scan account movement", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
