// Package sequence emite la numeración correlativa de los documentos.
package sequence

import (
	"context"
	"fmt"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// numberWidth dígitos del número, rellenado con ceros.
const numberWidth = 6

// Generator entrega el siguiente número de un tipo de documento dentro de la transacción del caller.
// El contador queda bloqueado (SELECT FOR UPDATE) hasta el commit o rollback; un rollback puede
// dejar huecos pero un número nunca se reutiliza.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next bloquea el contador, lo incrementa y devuelve prefijo + número anterior.
func (g *Generator) Next(ctx context.Context, repos repository.Repos, documentType string) (string, error) {
	seq, err := repos.Sequences.GetForUpdate(ctx, documentType)
	if err != nil {
		return "", err
	}
	if seq == nil {
		return "", fmt.Errorf("secuencia %q: %w", documentType, domain.ErrConfigurationMissing)
	}
	if err := repos.Sequences.Advance(ctx, documentType, seq.NextNumber+1); err != nil {
		return "", err
	}
	return Format(seq.Prefix, seq.NextNumber), nil
}

// Format arma el número visible del documento (ej. V-000042).
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, numberWidth, n)
}
