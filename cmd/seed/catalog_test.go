package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/infrastructure/memory"
)

// latin1 "Ñandú" codificado en ISO-8859-1 (Ñ = 0xD1, ú = 0xFA).
var catalogCSV = []byte("sku;nombre;precio;costo;stock\n" +
	"YER-1;Yerba 1kg;1.234,50;800;10\n" +
	"NAN-1;\xd1and\xfa;99,90;;\n")

func TestParseCatalog_Latin1(t *testing.T) {
	rows, err := parseCatalog(bytes.NewReader(catalogCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "YER-1", rows[0].SKU)
	assert.True(t, decimal.RequireFromString("1234.50").Equal(rows[0].Price))
	assert.True(t, decimal.NewFromInt(10).Equal(rows[0].Stock))
	assert.Equal(t, "Ñandú", rows[1].Name)
	assert.True(t, rows[1].Stock.IsZero())
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog(bytes.NewReader([]byte("sku;nombre;precio\n;sin sku;1\n")))
	assert.Error(t, err)

	_, err = parseCatalog(bytes.NewReader([]byte("sku;nombre;precio\nA;B;abc\n")))
	assert.Error(t, err)

	_, err = parseCatalog(bytes.NewReader([]byte("sku;nombre;precio\nA;B;-5\n")))
	assert.Error(t, err)
}

func TestImportCatalog_StockPorLibro(t *testing.T) {
	rows, err := parseCatalog(bytes.NewReader(catalogCSV))
	require.NoError(t, err)

	store := memory.NewStore()
	ledger := inventory.NewStockLedger(zerolog.Nop())
	created, skipped, err := importCatalog(context.Background(), store, ledger, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, skipped)

	created, skipped, err = importCatalog(context.Background(), store, ledger, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, skipped)
}

func TestDefaultSequences(t *testing.T) {
	prefixes := map[string]string{}
	for _, s := range defaultSequences {
		prefixes[s.DocumentType] = s.Prefix
	}
	assert.Equal(t, "V-", prefixes[entity.DocumentSale])
	assert.Equal(t, "C-", prefixes[entity.DocumentPurchase])
	assert.Equal(t, "P-", prefixes[entity.DocumentBudget])
	assert.Equal(t, "Q-", prefixes[entity.DocumentQuote])
}
