package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var (
	_ repository.CashClosingRepository = (*CashClosingRepo)(nil)
	_ repository.CashReportRepository  = (*CashReportRepo)(nil)
)

// CashClosingRepo arqueos sobre PostgreSQL.
type CashClosingRepo struct {
	q Querier
}

// NewCashClosingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashClosingRepository(q Querier) *CashClosingRepo {
	return &CashClosingRepo{q: q}
}

// LockScope toma un advisory lock de transacción por caja: dos arqueos de la misma caja se serializan
// aunque todavía no exista ninguna fila que bloquear.
func (r *CashClosingRepo) LockScope(ctx context.Context, register string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('cash_closing:' || $1))`, register); err != nil {
		return wrapErr("lock cash register", err)
	}
	return nil
}

// HasOverlap informa si otro arqueo de la caja intersecta [start, end).
func (r *CashClosingRepo) HasOverlap(ctx context.Context, register string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM cash_closings
			WHERE register = $1 AND window_start < $3 AND $2 < window_end
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, register, start, end).Scan(&exists); err != nil {
		return false, wrapErr("check closing overlap", err)
	}
	return exists, nil
}

// Create persiste el arqueo con su foto en JSONB.
func (r *CashClosingRepo) Create(ctx context.Context, c *entity.CashClosing) error {
	snapshot, err := json.Marshal(c.Snapshot)
	if err != nil {
		return wrapErr("marshal closing snapshot", err)
	}
	query := `
		INSERT INTO cash_closings (id, register, actor_id, window_start, window_end, opening_balance,
			expected_cash, counted_amount, discrepancy, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query, c.ID, c.Register, c.ActorID, c.WindowStart, c.WindowEnd, c.OpeningBalance,
		c.ExpectedCash, c.CountedAmount, c.Discrepancy, snapshot, c.CreatedAt)
	if err != nil {
		return wrapErr("insert cash closing", err)
	}
	return nil
}

// List arqueos de la caja (todas si register es vacío), el más reciente primero.
func (r *CashClosingRepo) List(ctx context.Context, register string, limit, offset int) ([]*entity.CashClosing, error) {
	query := `
		SELECT id, register, actor_id, window_start, window_end, opening_balance, expected_cash,
			counted_amount, discrepancy, snapshot, created_at
		FROM cash_closings
		WHERE ($1 = '' OR register = $1)
		ORDER BY window_start DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, register, limit, offset)
	if err != nil {
		return nil, wrapErr("list cash closings", err)
	}
	defer rows.Close()
	var out []*entity.CashClosing
	for rows.Next() {
		var c entity.CashClosing
		var snapshot []byte
		if err := rows.Scan(&c.ID, &c.Register, &c.ActorID, &c.WindowStart, &c.WindowEnd, &c.OpeningBalance, &c.ExpectedCash,
			&c.CountedAmount, &c.Discrepancy, &snapshot, &c.CreatedAt); err != nil {
			return nil, wrapErr("scan cash closing", err)
		}
		if err := json.Unmarshal(snapshot, &c.Snapshot); err != nil {
			return nil, wrapErr("unmarshal closing snapshot", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CashReportRepo lecturas de agregación del arqueo. Usa el pool: cada consulta toma su propia conexión
// y pueden correr en paralelo.
type CashReportRepo struct {
	q Querier
}

// NewCashReportRepository construye el adaptador sobre el pool.
func NewCashReportRepository(q Querier) *CashReportRepo {
	return &CashReportRepo{q: q}
}

// PaymentTotals pagos no anulados de documentos no cancelados en [start, end), por tipo y medio.
func (r *CashReportRepo) PaymentTotals(ctx context.Context, start, end time.Time) ([]entity.PaymentTotal, error) {
	query := `
		SELECT d.type, p.method, COALESCE(SUM(p.amount), 0), COUNT(*)
		FROM payment_lines p
		JOIN documents d ON d.id = p.document_id
		WHERE NOT p.voided
		  AND d.status <> 'cancelled'
		  AND p.created_at >= $1 AND p.created_at < $2
		GROUP BY d.type, p.method
		ORDER BY d.type, p.method`
	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, wrapErr("payment totals", err)
	}
	defer rows.Close()
	var out []entity.PaymentTotal
	for rows.Next() {
		var t entity.PaymentTotal
		if err := rows.Scan(&t.DocumentType, &t.Method, &t.Amount, &t.Count); err != nil {
			return nil, wrapErr("scan payment total", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AccountTotals débitos y créditos de cuenta corriente en [start, end).
func (r *CashReportRepo) AccountTotals(ctx context.Context, start, end time.Time) (repository.AccountTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'debit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'credit'), 0)
		FROM account_movements
		WHERE created_at >= $1 AND created_at < $2`
	var t repository.AccountTotals
	if err := r.q.QueryRow(ctx, query, start, end).Scan(&t.Debits, &t.Credits); err != nil {
		return repository.AccountTotals{}, wrapErr("account totals", err)
	}
	return t, nil
}
