package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos, renglones y pagos sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, type, number, status, COALESCE(customer_id::text, ''), COALESCE(supplier_id::text, ''), actor_id,
	delivery_policy, subtotal, discount, surcharge, total, notes, created_at, updated_at`

// Create inserta la cabecera.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	query := `
		INSERT INTO documents (id, type, number, status, customer_id, supplier_id, actor_id, delivery_policy,
			subtotal, discount, surcharge, total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, NULLIF($6, '')::uuid, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query, d.ID, d.Type, d.Number, d.Status, d.CustomerID, d.SupplierID, d.ActorID, d.DeliveryPolicy,
		d.Subtotal, d.Discount, d.Surcharge, d.Total, d.Notes, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert document", err)
	}
	return nil
}

// CreateLine inserta un renglón.
func (r *DocumentRepo) CreateLine(ctx context.Context, l *entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (id, document_id, product_id, description, quantity, delivered, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.DocumentID, l.ProductID, l.Description, l.Quantity, l.Delivered, l.UnitPrice, l.Subtotal)
	if err != nil {
		return wrapErr("insert document line", err)
	}
	return nil
}

// CreatePayment inserta un pago.
func (r *DocumentRepo) CreatePayment(ctx context.Context, p *entity.PaymentLine) error {
	query := `
		INSERT INTO payment_lines (id, document_id, method, amount, account_movement_id, voided, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, false, $6)`
	_, err := r.q.Exec(ctx, query, p.ID, p.DocumentID, p.Method, p.Amount, p.AccountMovementID, p.CreatedAt)
	if err != nil {
		return wrapErr("insert payment line", err)
	}
	return nil
}

// GetByID devuelve el documento con renglones y pagos.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.load(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID con la cabecera bloqueada (SELECT FOR UPDATE).
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.load(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) load(ctx context.Context, query, id string) (*entity.Document, error) {
	var d entity.Document
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Type, &d.Number, &d.Status, &d.CustomerID, &d.SupplierID, &d.ActorID,
		&d.DeliveryPolicy, &d.Subtotal, &d.Discount, &d.Surcharge, &d.Total, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get document", err)
	}
	if d.Lines, err = r.lines(ctx, id); err != nil {
		return nil, err
	}
	if d.Payments, err = r.payments(ctx, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepo) lines(ctx context.Context, documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, product_id, description, quantity, delivered, unit_price, subtotal
		FROM document_lines WHERE document_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, documentID)
	if err != nil {
		return nil, wrapErr("list document lines", err)
	}
	defer rows.Close()
	var out []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &l.Description, &l.Quantity, &l.Delivered, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, wrapErr("scan document line", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *DocumentRepo) payments(ctx context.Context, documentID string) ([]*entity.PaymentLine, error) {
	query := `
		SELECT id, document_id, method, amount, COALESCE(account_movement_id::text, ''), voided, voided_at, created_at
		FROM payment_lines WHERE document_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, documentID)
	if err != nil {
		return nil, wrapErr("list payment lines", err)
	}
	defer rows.Close()
	var out []*entity.PaymentLine
	for rows.Next() {
		var p entity.PaymentLine
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Method, &p.Amount, &p.AccountMovementID, &p.Voided, &p.VoidedAt, &p.CreatedAt); err != nil {
			return nil, wrapErr("scan payment line", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado y agrega note a notes separada por salto de línea.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id, status, note string) error {
	query := `
		UPDATE documents
		SET status = $2,
		    notes = CASE
		        WHEN $3 = '' THEN notes
		        WHEN notes = '' THEN $3
		        ELSE notes || E'\n' || $3
		    END,
		    updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, note)
	if err != nil {
		return wrapErr("update document status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLineDelivered fija la cantidad entregada del renglón.
func (r *DocumentRepo) UpdateLineDelivered(ctx context.Context, lineID string, delivered decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE document_lines SET delivered = $2 WHERE id = $1`, lineID, delivered)
	if err != nil {
		return wrapErr("update line delivered", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// VoidPayment marca el pago como anulado; no hace nada si ya lo estaba.
func (r *DocumentRepo) VoidPayment(ctx context.Context, paymentID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE payment_lines SET voided = true, voided_at = $2 WHERE id = $1 AND NOT voided`, paymentID, at)
	if err != nil {
		return wrapErr("void payment", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyCancelled
	}
	return nil
}
