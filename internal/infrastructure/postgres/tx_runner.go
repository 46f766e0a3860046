package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con todos los repos atados a la tx
// y hace Commit o Rollback. Los bloqueos de fila (FOR UPDATE) serializan el acceso a stock,
// saldos y numeradores.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, ReposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// ReposFor arma el juego de repositorios sobre q (pool o tx).
func ReposFor(q Querier) repository.Repos {
	return repository.Repos{
		Sequences:        NewSequenceRepository(q),
		Products:         NewProductRepository(q),
		StockMovements:   NewStockMovementRepository(q),
		Customers:        NewCustomerRepository(q),
		Suppliers:        NewSupplierRepository(q),
		AccountMovements: NewAccountMovementRepository(q),
		Documents:        NewDocumentRepository(q),
		CashClosings:     NewCashClosingRepository(q),
		Settings:         NewSettingsRepository(q),
	}
}
