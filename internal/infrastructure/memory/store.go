// Package memory implementa los puertos de persistencia en memoria.
// Cada Run trabaja sobre una copia del estado y la publica solo si fn no devuelve error,
// lo que reproduce el commit/rollback de la base.
//
// Las transacciones se serializan con un único mutex, así que las pruebas concurrentes no
// detectan por sí solas un GetForUpdate que deje de bloquear en PostgreSQL. Para cubrir eso
// cada transacción lleva el registro de filas bloqueadas y las escrituras sobre secuencias,
// productos, clientes y documentos fallan con ErrRowNotLocked si la fila no pasó antes por
// GetForUpdate (o no fue creada en la misma transacción).
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var (
	_ repository.TxRunner             = (*Store)(nil)
	_ repository.CashReportRepository = (*Store)(nil)
)

type state struct {
	sequences        map[string]entity.Sequence
	products         map[string]entity.Product
	customers        map[string]entity.Customer
	suppliers        map[string]entity.Supplier
	users            map[string]entity.User
	documents        map[string]entity.Document
	stockMovements   []entity.StockMovement
	accountMovements []entity.AccountMovement
	lines            []entity.DocumentLine
	payments         []entity.PaymentLine
	closings         []entity.CashClosing
	pricing          *entity.PricingConfig
	locks            map[string]struct{} // filas bloqueadas por la transacción en curso
}

// ErrRowNotLocked escritura sobre una fila que la transacción no bloqueó.
var ErrRowNotLocked = errors.New("memory: fila modificada sin bloqueo previo")

func (s *state) lock(table, id string) {
	s.locks[table+":"+id] = struct{}{}
}

func (s *state) mustHold(table, id string) error {
	if _, ok := s.locks[table+":"+id]; !ok {
		return fmt.Errorf("%w: %s %s", ErrRowNotLocked, table, id)
	}
	return nil
}

func newState() *state {
	return &state{
		sequences: map[string]entity.Sequence{},
		products:  map[string]entity.Product{},
		customers: map[string]entity.Customer{},
		suppliers: map[string]entity.Supplier{},
		users:     map[string]entity.User{},
		documents: map[string]entity.Document{},
		locks:     map[string]struct{}{},
	}
}

func (s *state) clone() *state {
	c := &state{
		sequences:        make(map[string]entity.Sequence, len(s.sequences)),
		products:         make(map[string]entity.Product, len(s.products)),
		customers:        make(map[string]entity.Customer, len(s.customers)),
		suppliers:        make(map[string]entity.Supplier, len(s.suppliers)),
		users:            make(map[string]entity.User, len(s.users)),
		documents:        make(map[string]entity.Document, len(s.documents)),
		stockMovements:   append([]entity.StockMovement(nil), s.stockMovements...),
		accountMovements: append([]entity.AccountMovement(nil), s.accountMovements...),
		lines:            append([]entity.DocumentLine(nil), s.lines...),
		payments:         append([]entity.PaymentLine(nil), s.payments...),
		closings:         append([]entity.CashClosing(nil), s.closings...),
		pricing:          s.pricing,
		locks:            map[string]struct{}{},
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.documents {
		c.documents[k] = v
	}
	return c
}

// Store base de datos en memoria para pruebas de casos de uso.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios sobre una copia del estado; la copia reemplaza al estado solo si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, reposFor(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

func reposFor(st *state) repository.Repos {
	return repository.Repos{
		Sequences:        &sequenceRepo{st: st},
		Products:         &productRepo{st: st},
		StockMovements:   &stockMovementRepo{st: st},
		Customers:        &customerRepo{st: st},
		Suppliers:        &supplierRepo{st: st},
		AccountMovements: &accountMovementRepo{st: st},
		Documents:        &documentRepo{st: st},
		CashClosings:     &cashClosingRepo{st: st},
		Settings:         &settingsRepo{st: st},
	}
}

// Users devuelve un UserRepository sobre el estado confirmado.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{s: s}
}

// --- carga de datos para pruebas ---

// PutProduct inserta o reemplaza un producto.
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// PutCustomer inserta o reemplaza un cliente.
func (s *Store) PutCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
}

// PutSupplier inserta o reemplaza un proveedor.
func (s *Store) PutSupplier(sp entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.suppliers[sp.ID] = sp
}

// PutSequence configura el contador de un tipo de documento.
func (s *Store) PutSequence(seq entity.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sequences[seq.DocumentType] = seq
}

// PutPricing guarda la configuración de precios.
func (s *Store) PutPricing(cfg entity.PricingConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.pricing = &cfg
}

// --- lecturas sobre el estado confirmado ---

// Product devuelve una copia del producto confirmado.
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.products[id]
	return p, ok
}

// Customer devuelve una copia del cliente confirmado.
func (s *Store) Customer(id string) (entity.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.customers[id]
	return c, ok
}

// Sequence devuelve el contador confirmado.
func (s *Store) Sequence(docType string) (entity.Sequence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.st.sequences[docType]
	return seq, ok
}

// StockMovements devuelve los movimientos confirmados de un producto en orden de inserción.
func (s *Store) StockMovements(productID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.st.stockMovements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// AccountMovements devuelve los asientos confirmados de un cliente en orden de inserción.
func (s *Store) AccountMovements(customerID string) []entity.AccountMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.AccountMovement
	for _, m := range s.st.accountMovements {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	return out
}

// DocumentCount cantidad de documentos confirmados.
func (s *Store) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.documents)
}

// ClosingCount cantidad de arqueos confirmados.
func (s *Store) ClosingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.closings)
}

// PaymentTotals implementa repository.CashReportRepository sobre el estado confirmado.
func (s *Store) PaymentTotals(ctx context.Context, start, end time.Time) ([]entity.PaymentTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	type key struct{ docType, method string }
	acc := map[key]*entity.PaymentTotal{}
	for _, p := range s.st.payments {
		if p.Voided || !inWindow(p.CreatedAt, start, end) {
			continue
		}
		doc, ok := s.st.documents[p.DocumentID]
		if !ok || doc.Status == entity.StatusCancelled {
			continue
		}
		k := key{doc.Type, p.Method}
		t, ok := acc[k]
		if !ok {
			t = &entity.PaymentTotal{DocumentType: doc.Type, Method: p.Method, Amount: decimal.Zero}
			acc[k] = t
		}
		t.Amount = t.Amount.Add(p.Amount)
		t.Count++
	}
	out := make([]entity.PaymentTotal, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentType != out[j].DocumentType {
			return out[i].DocumentType < out[j].DocumentType
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}

// AccountTotals implementa repository.CashReportRepository sobre el estado confirmado.
func (s *Store) AccountTotals(ctx context.Context, start, end time.Time) (repository.AccountTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := repository.AccountTotals{Debits: decimal.Zero, Credits: decimal.Zero}
	for _, m := range s.st.accountMovements {
		if !inWindow(m.CreatedAt, start, end) {
			continue
		}
		if m.Direction == entity.DirectionDebit {
			totals.Debits = totals.Debits.Add(m.Amount)
		} else {
			totals.Credits = totals.Credits.Add(m.Amount)
		}
	}
	return totals, nil
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
