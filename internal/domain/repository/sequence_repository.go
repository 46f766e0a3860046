package repository

import (
	"context"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// SequenceRepository define el puerto de los contadores de numeración.
type SequenceRepository interface {
	// GetForUpdate bloquea el contador del tipo de documento; nil si no está configurado.
	GetForUpdate(ctx context.Context, documentType string) (*entity.Sequence, error)
	Advance(ctx context.Context, documentType string, nextNumber int64) error
	// Ensure crea el contador si no existe (no modifica uno existente).
	Ensure(ctx context.Context, seq *entity.Sequence) error
}
