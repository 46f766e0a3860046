package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// catalogRow fila del catálogo: sku;nombre;precio;costo;stock
type catalogRow struct {
	SKU   string
	Name  string
	Price decimal.Decimal
	Cost  decimal.Decimal
	Stock decimal.Decimal
}

// parseCatalog decodifica el CSV Latin-1 del sistema anterior. La primera fila es encabezado.
// Los importes usan coma decimal (1234,50).
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	var rows []catalogRow
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 3 columnas", line)
		}
		row := catalogRow{SKU: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])}
		if row.SKU == "" || row.Name == "" {
			return nil, fmt.Errorf("línea %d: sku y nombre son obligatorios", line)
		}
		fields := []*decimal.Decimal{&row.Price, &row.Cost, &row.Stock}
		for j, dst := range fields {
			col := j + 2
			if col >= len(rec) || strings.TrimSpace(rec[col]) == "" {
				continue
			}
			v, err := parseAmount(rec[col])
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %d: %w", line, col+1, err)
			}
			if v.IsNegative() {
				return nil, fmt.Errorf("línea %d, columna %d: valor negativo", line, col+1)
			}
			*dst = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseAmount acepta "1.234,50" y "1234,50".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// importCatalog crea los productos que no existen (por SKU). El stock inicial entra por el libro
// de stock como ingreso, nunca escribiendo products.stock directamente.
func importCatalog(ctx context.Context, tx repository.TxRunner, ledger *inventory.StockLedger, rows []catalogRow) (created, skipped int, err error) {
	for _, row := range rows {
		err := tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
			existing, err := repos.Products.GetBySKU(ctx, row.SKU)
			if err != nil {
				return err
			}
			if existing != nil {
				skipped++
				return nil
			}
			now := time.Now()
			p := &entity.Product{
				ID:        uuid.New().String(),
				SKU:       row.SKU,
				Name:      row.Name,
				Price:     row.Price,
				Cost:      row.Cost,
				Stock:     decimal.Zero,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repos.Products.Create(ctx, p); err != nil {
				return err
			}
			if row.Stock.IsPositive() {
				cost := row.Cost
				if _, err := ledger.Post(ctx, repos, inventory.StockPostInput{
					ProductID:     p.ID,
					ActorID:       seedActor,
					Kind:          entity.StockKindIn,
					Quantity:      row.Stock,
					Reason:        "stock inicial importado",
					ReferenceType: entity.ReferenceAdjustment,
					UnitCost:      &cost,
				}); err != nil {
					return err
				}
			}
			created++
			return nil
		})
		if err != nil {
			return created, skipped, fmt.Errorf("producto %s: %w", row.SKU, err)
		}
	}
	return created, skipped, nil
}
