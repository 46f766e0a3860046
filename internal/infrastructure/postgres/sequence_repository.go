package postgres

import (
	"context"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores de numeración sobre PostgreSQL.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// GetForUpdate bloquea la fila del contador hasta el fin de la transacción.
func (r *SequenceRepo) GetForUpdate(ctx context.Context, documentType string) (*entity.Sequence, error) {
	query := `SELECT document_type, next_number, prefix FROM sequences WHERE document_type = $1 FOR UPDATE`
	var s entity.Sequence
	if err := r.q.QueryRow(ctx, query, documentType).Scan(&s.DocumentType, &s.NextNumber, &s.Prefix); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("lock sequence", err)
	}
	return &s, nil
}

// Advance fija el próximo número. La restricción de la tabla impide retroceder.
func (r *SequenceRepo) Advance(ctx context.Context, documentType string, nextNumber int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE sequences SET next_number = $2 WHERE document_type = $1 AND next_number < $2`, documentType, nextNumber)
	if err != nil {
		return wrapErr("advance sequence", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Ensure crea el contador si no existe.
func (r *SequenceRepo) Ensure(ctx context.Context, s *entity.Sequence) error {
	query := `
		INSERT INTO sequences (document_type, next_number, prefix)
		VALUES ($1, $2, $3)
		ON CONFLICT (document_type) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, s.DocumentType, s.NextNumber, s.Prefix); err != nil {
		return wrapErr("ensure sequence", err)
	}
	return nil
}
