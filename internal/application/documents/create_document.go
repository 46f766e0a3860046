package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/pricing"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// CreateDocument valida, calcula totales, concilia pagos, mueve stock, debita la cuenta corriente,
// numera y persiste el documento en una sola transacción.
func (uc *UseCase) CreateDocument(ctx context.Context, actor entity.Actor, in CreateDocumentInput) (*DocumentResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	docID := uuid.New().String() // se usa como referencia en los movimientos antes de insertar la cabecera
	var result *DocumentResult

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		cfg, err := loadPricing(ctx, repos)
		if err != nil {
			return err
		}

		// 1) Contraparte y productos
		customerID, supplierID, err := resolveCounterpart(ctx, repos, in)
		if err != nil {
			return err
		}
		now := time.Now()
		lines := make([]*entity.DocumentLine, 0, len(in.Lines))
		subtotals := make([]decimal.Decimal, 0, len(in.Lines))
		for _, li := range in.Lines {
			product, err := repos.Products.GetByID(ctx, li.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.Active {
				return fmt.Errorf("producto %s: %w", li.ProductID, domain.ErrNotFound)
			}
			unitPrice := product.Price
			if in.Type == entity.DocumentPurchase {
				unitPrice = product.Cost
			}
			if li.UnitPrice != nil {
				unitPrice = *li.UnitPrice
			}
			desc := li.Description
			if desc == "" {
				desc = product.Name
			}
			// 2) Subtotal por renglón
			sub := pricing.LineSubtotal(li.Quantity, unitPrice)
			subtotals = append(subtotals, sub)
			lines = append(lines, &entity.DocumentLine{
				ID:          uuid.New().String(),
				DocumentID:  docID,
				ProductID:   product.ID,
				Description: desc,
				Quantity:    li.Quantity,
				Delivered:   decimal.Zero,
				UnitPrice:   unitPrice,
				Subtotal:    sub,
			})
		}

		// 3) Totales
		totals, err := pricing.ComputeTotals(subtotals, in.Discount, in.Surcharge, cfg)
		if err != nil {
			return err
		}

		// 4) Conciliación de pagos (las cotizaciones no llevan pagos)
		if in.Type != entity.DocumentQuote {
			amounts := make([]decimal.Decimal, len(in.Payments))
			for i, p := range in.Payments {
				amounts[i] = p.Amount
			}
			if err := pricing.Reconcile(totals.Total, amounts, cfg); err != nil {
				return err
			}
		}

		// 5) Stock según la política de entrega
		if err := uc.deliverOnCreate(ctx, repos, actor, in, docID, lines); err != nil {
			return err
		}

		// 6) Pagos a cuenta corriente
		payments := make([]*entity.PaymentLine, 0, len(in.Payments))
		for _, p := range in.Payments {
			pl := &entity.PaymentLine{
				ID:         uuid.New().String(),
				DocumentID: docID,
				Method:     p.Method,
				Amount:     pricing.RoundCurrency(p.Amount),
				CreatedAt:  now,
			}
			if p.Method == entity.PaymentAccountCredit {
				mov, err := uc.accounts.Post(ctx, repos, account.PostInput{
					CustomerID:          customerID,
					ActorID:             actor.ID,
					Direction:           entity.DirectionDebit,
					Amount:              p.Amount,
					Concept:             "Compra a cuenta corriente",
					ReferenceDocumentID: docID,
					ReferenceType:       entity.ReferenceDocument,
				})
				if err != nil {
					return err
				}
				pl.AccountMovementID = mov.ID
			}
			payments = append(payments, pl)
		}

		// 7) Numeración: último paso antes de persistir para no consumir números en rechazos de negocio
		number, err := uc.sequences.Next(ctx, repos, in.Type)
		if err != nil {
			return err
		}

		// 8) Persistencia
		status := entity.StatusPending
		if _, moves := entity.MovesStock(in.Type); moves {
			status = entity.DeliveryStatus(lines)
		}
		doc := &entity.Document{
			ID:             docID,
			Type:           in.Type,
			Number:         number,
			Status:         status,
			CustomerID:     customerID,
			SupplierID:     supplierID,
			ActorID:        actor.ID,
			DeliveryPolicy: in.DeliveryPolicy,
			Subtotal:       totals.Subtotal,
			Discount:       totals.Discount,
			Surcharge:      totals.Surcharge,
			Total:          totals.Total,
			Notes:          in.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Documents.Create(ctx, doc); err != nil {
			return err
		}
		for _, l := range lines {
			if err := repos.Documents.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		for _, p := range payments {
			if err := repos.Documents.CreatePayment(ctx, p); err != nil {
				return err
			}
		}
		result = &DocumentResult{ID: doc.ID, Number: doc.Number, Total: doc.Total, Status: doc.Status}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("type", in.Type).Str("actor_id", actor.ID).Msg("alta de documento rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("document_id", result.ID).
		Str("number", result.Number).
		Str("type", in.Type).
		Str("total", result.Total.StringFixed(2)).
		Str("status", result.Status).
		Str("actor_id", actor.ID).
		Msg("documento emitido")
	return result, nil
}

// validateCreate chequeos de forma que no requieren la base; normaliza la política de entrega.
func validateCreate(in *CreateDocumentInput) error {
	if !entity.ValidDocumentType(in.Type) || len(in.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	if in.DeliveryPolicy == "" {
		in.DeliveryPolicy = entity.DeliveryImmediate
		if in.Type == entity.DocumentQuote {
			in.DeliveryPolicy = entity.DeliveryDeferred
		}
	}
	if !entity.AllowsDelivery(in.Type, in.DeliveryPolicy) {
		return domain.ErrInvalidInput
	}
	if !pricing.ValidAmount(in.Discount) || !pricing.ValidAmount(in.Surcharge) {
		return domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() || !pricing.ValidQuantity(l.Quantity) {
			return domain.ErrInvalidInput
		}
		if l.UnitPrice != nil && (l.UnitPrice.IsNegative() || !pricing.ValidAmount(*l.UnitPrice)) {
			return domain.ErrInvalidInput
		}
	}
	if in.Type == entity.DocumentQuote && len(in.Payments) > 0 {
		return domain.ErrInvalidInput
	}
	for _, p := range in.Payments {
		if !entity.ValidPaymentMethod(p.Method) || !p.Amount.IsPositive() || !pricing.ValidAmount(p.Amount) {
			return domain.ErrInvalidInput
		}
		if p.Method == entity.PaymentAccountCredit && in.Type == entity.DocumentPurchase {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func loadPricing(ctx context.Context, repos repository.Repos) (entity.PricingConfig, error) {
	cfg, err := repos.Settings.GetPricingConfig(ctx)
	if err != nil {
		return entity.PricingConfig{}, err
	}
	if cfg == nil {
		return entity.DefaultPricingConfig(), nil
	}
	return *cfg, nil
}

// resolveCounterpart valida cliente o proveedor. La venta de mostrador puede no tener cliente,
// salvo que use cuenta corriente.
func resolveCounterpart(ctx context.Context, repos repository.Repos, in CreateDocumentInput) (customerID, supplierID string, err error) {
	if in.Type == entity.DocumentPurchase {
		if in.CounterpartID == "" {
			return "", "", domain.ErrInvalidInput
		}
		s, err := repos.Suppliers.GetByID(ctx, in.CounterpartID)
		if err != nil {
			return "", "", err
		}
		if s == nil || !s.Active {
			return "", "", fmt.Errorf("proveedor %s: %w", in.CounterpartID, domain.ErrNotFound)
		}
		return "", s.ID, nil
	}

	if in.CounterpartID == "" {
		if in.Type != entity.DocumentSale {
			return "", "", domain.ErrInvalidInput
		}
		for _, p := range in.Payments {
			if p.Method == entity.PaymentAccountCredit {
				return "", "", domain.ErrInvalidInput
			}
		}
		return "", "", nil
	}
	c, err := repos.Customers.GetByID(ctx, in.CounterpartID)
	if err != nil {
		return "", "", err
	}
	if c == nil || !c.Active {
		return "", "", fmt.Errorf("cliente %s: %w", in.CounterpartID, domain.ErrNotFound)
	}
	return c.ID, "", nil
}

// deliverOnCreate mueve el stock del alta y deja en Delivered lo entregado por renglón.
//
//	immediate: todo o nada (una falta de stock aborta el documento)
//	partial:   lo que permita el stock actual, el resto queda pendiente
//	deferred:  nada
func (uc *UseCase) deliverOnCreate(ctx context.Context, repos repository.Repos, actor entity.Actor, in CreateDocumentInput, docID string, lines []*entity.DocumentLine) error {
	kind, moves := entity.MovesStock(in.Type)
	if !moves || in.DeliveryPolicy == entity.DeliveryDeferred {
		return nil
	}
	for _, l := range lines {
		qty := l.Quantity
		if in.DeliveryPolicy == entity.DeliveryPartial {
			product, err := repos.Products.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if product.Stock.LessThan(qty) {
				qty = product.Stock
			}
			if !qty.IsPositive() {
				continue
			}
		}
		post := inventory.StockPostInput{
			ProductID:     l.ProductID,
			ActorID:       actor.ID,
			Kind:          kind,
			Quantity:      qty,
			Reason:        reasonFor(in.Type),
			ReferenceID:   docID,
			ReferenceType: entity.ReferenceDocument,
		}
		if kind == entity.StockKindIn {
			unitCost := l.UnitPrice
			post.UnitCost = &unitCost
		}
		if _, err := uc.stock.Post(ctx, repos, post); err != nil {
			return err
		}
		l.Delivered = l.Delivered.Add(qty)
	}
	return nil
}

func reasonFor(docType string) string {
	switch docType {
	case entity.DocumentSale:
		return "Venta"
	case entity.DocumentPurchase:
		return "Compra"
	case entity.DocumentBudget:
		return "Entrega de presupuesto"
	}
	return docType
}
