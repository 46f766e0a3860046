package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

var (
	_ repository.SequenceRepository        = (*sequenceRepo)(nil)
	_ repository.ProductRepository         = (*productRepo)(nil)
	_ repository.StockMovementRepository   = (*stockMovementRepo)(nil)
	_ repository.CustomerRepository        = (*customerRepo)(nil)
	_ repository.SupplierRepository        = (*supplierRepo)(nil)
	_ repository.AccountMovementRepository = (*accountMovementRepo)(nil)
	_ repository.DocumentRepository        = (*documentRepo)(nil)
	_ repository.CashClosingRepository     = (*cashClosingRepo)(nil)
	_ repository.SettingsRepository        = (*settingsRepo)(nil)
	_ repository.UserRepository            = (*userRepo)(nil)
)

type sequenceRepo struct{ st *state }

func (r *sequenceRepo) GetForUpdate(_ context.Context, documentType string) (*entity.Sequence, error) {
	seq, ok := r.st.sequences[documentType]
	if !ok {
		return nil, nil
	}
	r.st.lock("sequences", documentType)
	return &seq, nil
}

func (r *sequenceRepo) Advance(_ context.Context, documentType string, nextNumber int64) error {
	if err := r.st.mustHold("sequences", documentType); err != nil {
		return err
	}
	seq, ok := r.st.sequences[documentType]
	if !ok {
		return domain.ErrNotFound
	}
	seq.NextNumber = nextNumber
	r.st.sequences[documentType] = seq
	return nil
}

func (r *sequenceRepo) Ensure(_ context.Context, seq *entity.Sequence) error {
	if _, ok := r.st.sequences[seq.DocumentType]; !ok {
		r.st.sequences[seq.DocumentType] = *seq
	}
	return nil
}

type productRepo struct{ st *state }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.st.products {
		if other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.st.products[p.ID] = *p
	r.st.lock("products", p.ID)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.st.products {
		if p.SKU == sku {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.GetByID(ctx, id)
	if p != nil {
		r.st.lock("products", id)
	}
	return p, err
}

func (r *productRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	if err := r.st.mustHold("products", id); err != nil {
		return err
	}
	p, ok := r.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	r.st.products[id] = p
	return nil
}

func (r *productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	if err := r.st.mustHold("products", id); err != nil {
		return err
	}
	p, ok := r.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	p.UpdatedAt = time.Now()
	r.st.products[id] = p
	return nil
}

type stockMovementRepo struct{ st *state }

func (r *stockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.st.stockMovements = append(r.st.stockMovements, *m)
	return nil
}

func (r *stockMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.st.stockMovements {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *stockMovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.st.stockMovements {
		if m.ProductID == productID && inRange(m.CreatedAt, from, to) {
			found := m
			out = append(out, &found)
		}
	}
	return page(out, limit, offset), nil
}

type customerRepo struct{ st *state }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	if _, ok := r.st.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.customers[c.ID] = *c
	r.st.lock("customers", c.ID)
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := r.GetByID(ctx, id)
	if c != nil {
		r.st.lock("customers", id)
	}
	return c, err
}

func (r *customerRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	if err := r.st.mustHold("customers", id); err != nil {
		return err
	}
	c, ok := r.st.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Balance = balance
	c.UpdatedAt = time.Now()
	r.st.customers[id] = c
	return nil
}

type supplierRepo struct{ st *state }

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	if _, ok := r.st.suppliers[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.suppliers[s.ID] = *s
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type accountMovementRepo struct{ st *state }

func (r *accountMovementRepo) Create(_ context.Context, m *entity.AccountMovement) error {
	r.st.accountMovements = append(r.st.accountMovements, *m)
	return nil
}

func (r *accountMovementRepo) GetByID(_ context.Context, id string) (*entity.AccountMovement, error) {
	for _, m := range r.st.accountMovements {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *accountMovementRepo) FindReversalOf(_ context.Context, id string) (*entity.AccountMovement, error) {
	for _, m := range r.st.accountMovements {
		if m.ReversalOf == id {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *accountMovementRepo) ListByCustomer(_ context.Context, customerID string, from, to *time.Time, limit, offset int) ([]*entity.AccountMovement, error) {
	var out []*entity.AccountMovement
	for _, m := range r.st.accountMovements {
		if m.CustomerID == customerID && inRange(m.CreatedAt, from, to) {
			found := m
			out = append(out, &found)
		}
	}
	return page(out, limit, offset), nil
}

type documentRepo struct{ st *state }

func (r *documentRepo) Create(_ context.Context, doc *entity.Document) error {
	if _, ok := r.st.documents[doc.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.st.documents {
		if other.Type == doc.Type && other.Number == doc.Number {
			return domain.ErrDuplicate
		}
	}
	header := *doc
	header.Lines, header.Payments = nil, nil
	r.st.documents[doc.ID] = header
	r.st.lock("documents", doc.ID)
	return nil
}

func (r *documentRepo) CreateLine(_ context.Context, line *entity.DocumentLine) error {
	r.st.lines = append(r.st.lines, *line)
	return nil
}

func (r *documentRepo) CreatePayment(_ context.Context, p *entity.PaymentLine) error {
	r.st.payments = append(r.st.payments, *p)
	return nil
}

func (r *documentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	header, ok := r.st.documents[id]
	if !ok {
		return nil, nil
	}
	doc := header
	for _, l := range r.st.lines {
		if l.DocumentID == id {
			line := l
			doc.Lines = append(doc.Lines, &line)
		}
	}
	for _, p := range r.st.payments {
		if p.DocumentID == id {
			pay := p
			doc.Payments = append(doc.Payments, &pay)
		}
	}
	return &doc, nil
}

func (r *documentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := r.GetByID(ctx, id)
	if doc != nil {
		r.st.lock("documents", id)
	}
	return doc, err
}

func (r *documentRepo) UpdateStatus(_ context.Context, id, status, note string) error {
	if err := r.st.mustHold("documents", id); err != nil {
		return err
	}
	doc, ok := r.st.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	if note != "" {
		if doc.Notes != "" {
			doc.Notes += "\n"
		}
		doc.Notes += note
	}
	doc.UpdatedAt = time.Now()
	r.st.documents[id] = doc
	return nil
}

func (r *documentRepo) UpdateLineDelivered(_ context.Context, lineID string, delivered decimal.Decimal) error {
	for i := range r.st.lines {
		if r.st.lines[i].ID == lineID {
			if err := r.st.mustHold("documents", r.st.lines[i].DocumentID); err != nil {
				return err
			}
			r.st.lines[i].Delivered = delivered
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *documentRepo) VoidPayment(_ context.Context, paymentID string, at time.Time) error {
	for i := range r.st.payments {
		if r.st.payments[i].ID == paymentID {
			if err := r.st.mustHold("documents", r.st.payments[i].DocumentID); err != nil {
				return err
			}
			voidedAt := at
			r.st.payments[i].Voided = true
			r.st.payments[i].VoidedAt = &voidedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

type cashClosingRepo struct{ st *state }

// LockScope no hace nada: Store.Run ya serializa las transacciones.
func (r *cashClosingRepo) LockScope(context.Context, string) error { return nil }

func (r *cashClosingRepo) HasOverlap(_ context.Context, register string, start, end time.Time) (bool, error) {
	for _, c := range r.st.closings {
		if c.Register == register && c.WindowStart.Before(end) && start.Before(c.WindowEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (r *cashClosingRepo) Create(_ context.Context, c *entity.CashClosing) error {
	r.st.closings = append(r.st.closings, *c)
	return nil
}

func (r *cashClosingRepo) List(_ context.Context, register string, limit, offset int) ([]*entity.CashClosing, error) {
	var out []*entity.CashClosing
	for _, c := range r.st.closings {
		if register == "" || c.Register == register {
			found := c
			out = append(out, &found)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WindowStart.After(out[j].WindowStart) })
	return page(out, limit, offset), nil
}

type settingsRepo struct{ st *state }

func (r *settingsRepo) GetPricingConfig(context.Context) (*entity.PricingConfig, error) {
	if r.st.pricing == nil {
		return nil, nil
	}
	cfg := *r.st.pricing
	return &cfg, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}
