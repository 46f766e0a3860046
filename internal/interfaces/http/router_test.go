package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/application/auth"
	"github.com/jhoicas/comercial-api/internal/application/cash"
	"github.com/jhoicas/comercial-api/internal/application/documents"
	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/application/sequence"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/infrastructure/memory"
	"github.com/jhoicas/comercial-api/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/comercial-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/comercial-api/pkg/jwt"
)

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

// newTestAPI arma la API completa sobre el store en memoria. withRedis activa la idempotencia con miniredis.
func newTestAPI(t *testing.T, withRedis bool) *testAPI {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	stock := inventory.NewStockLedger(log)
	ledger := account.NewLedger(log)

	store.PutSequence(entity.Sequence{DocumentType: entity.DocumentSale, NextNumber: 1, Prefix: "V-"})
	store.PutProduct(entity.Product{ID: "p1", SKU: "YER-1", Name: "Yerba 1kg", Price: decimal.NewFromInt(100), Stock: decimal.NewFromInt(10), Active: true})
	limit := decimal.NewFromInt(50)
	store.PutCustomer(entity.Customer{ID: "c1", Name: "Almacén Don Pepe", Active: true, HasCreditAccount: true, CreditLimit: &limit})

	deps := apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		Documents: documents.NewUseCase(store, stock, ledger, sequence.NewGenerator(), log),
		Accounts:  account.NewUseCase(store, ledger, log),
		Inventory: inventory.NewRegisterMovementUseCase(store, stock, log),
		Cash:      cash.NewUseCase(store, store, "principal", log),
		JWTSecret: testJWTSecret,
		Log:       log,
	}
	if withRedis {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		deps.Idempotency = redis.NewIdempotencyStore(client, time.Minute)
	}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, deps)
	return &testAPI{app: app, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, role string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, out
}

func saleBody(qty int, cash string) map[string]any {
	return map[string]any{
		"type":  "sale",
		"lines": []map[string]any{{"product_id": "p1", "quantity": qty}},
		"payments": []map[string]any{
			{"method": "cash", "amount": cash},
		},
	}
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

func TestRouter_CrearVentaYConsultar(t *testing.T) {
	api := newTestAPI(t, false)

	resp, body := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(2, "200"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created dto.DocumentCreatedResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "V-000001", created.Number)
	assert.Equal(t, entity.StatusCompleted, created.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(created.Total))

	p, _ := api.store.Product("p1")
	assert.True(t, decimal.NewFromInt(8).Equal(p.Stock))

	resp, body = api.do(t, http.MethodGet, "/api/documents/"+created.ID, "bodeguero", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc dto.DocumentResponse
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Len(t, doc.Lines, 1)
	assert.Len(t, doc.Payments, 1)
}

func TestRouter_ErroresDeNegocio(t *testing.T) {
	api := newTestAPI(t, false)

	t.Run("stock insuficiente", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(11, "1100"), nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))
	})
	t.Run("pagos no cuadran", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(1, "90"), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "PAYMENT_MISMATCH", errorCode(t, body))
	})
	t.Run("sin renglones", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/api/documents", "vendedor", map[string]any{"type": "sale"}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION", errorCode(t, body))
	})
	t.Run("límite de crédito", func(t *testing.T) {
		in := map[string]any{
			"type":           "sale",
			"counterpart_id": "c1",
			"lines":          []map[string]any{{"product_id": "p1", "quantity": 1}},
			"payments":       []map[string]any{{"method": "account_credit", "amount": "100"}},
		}
		resp, body := api.do(t, http.MethodPost, "/api/documents", "vendedor", in, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", errorCode(t, body))
	})
	t.Run("documento inexistente", func(t *testing.T) {
		resp, body := api.do(t, http.MethodGet, "/api/documents/no-existe", "admin", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", errorCode(t, body))
	})

	// Ningún rechazo consumió número ni movió stock.
	seq, _ := api.store.Sequence(entity.DocumentSale)
	assert.Equal(t, int64(1), seq.NextNumber)
	assert.Equal(t, 0, api.store.DocumentCount())
}

func TestRouter_AnularDocumento(t *testing.T) {
	api := newTestAPI(t, false)
	resp, body := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(3, "300"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.DocumentCreatedResponse
	require.NoError(t, json.Unmarshal(body, &created))

	cancel := map[string]any{"reason": "error de carga"}
	resp, _ = api.do(t, http.MethodPost, "/api/documents/"+created.ID+"/cancel", "vendedor", cancel, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/documents/"+created.ID+"/cancel", "admin", cancel, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var st dto.StatusResponse
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, entity.StatusCancelled, st.Status)

	p, _ := api.store.Product("p1")
	assert.True(t, decimal.NewFromInt(10).Equal(p.Stock))

	resp, body = api.do(t, http.MethodPost, "/api/documents/"+created.ID+"/cancel", "admin", cancel, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_CANCELLED", errorCode(t, body))
}

func TestRouter_IdempotencyKeyRepiteRespuesta(t *testing.T) {
	api := newTestAPI(t, true)
	headers := map[string]string{apphttp.HeaderIdempotencyKey: "venta-123"}

	resp1, body1 := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(1, "100"), headers)
	require.Equal(t, http.StatusCreated, resp1.StatusCode, string(body1))

	resp2, body2 := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(1, "100"), headers)
	assert.Equal(t, http.StatusCreated, resp2.StatusCode)
	assert.Equal(t, "true", resp2.Header.Get("Idempotent-Replayed"))
	assert.JSONEq(t, string(body1), string(body2))
	assert.Equal(t, 1, api.store.DocumentCount())

	// Un rechazo no queda guardado: el reintento con la misma clave vuelve a ejecutarse.
	bad := map[string]string{apphttp.HeaderIdempotencyKey: "venta-mala"}
	resp, _ := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(1, "1"), bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(1, "100"), bad)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, api.store.DocumentCount())
}

func TestRouter_CuentaCorrienteYStock(t *testing.T) {
	api := newTestAPI(t, false)

	adj := map[string]any{"direction": "debit", "amount": "30", "concept": "saldo inicial"}
	resp, _ := api.do(t, http.MethodPost, "/api/accounts/c1/adjustments", "vendedor", adj, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := api.do(t, http.MethodPost, "/api/accounts/c1/adjustments", "admin", adj, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var res dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, decimal.NewFromInt(30).Equal(res.NewBalance))

	resp, body = api.do(t, http.MethodGet, "/api/accounts/c1/movements", "vendedor", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stmt dto.StatementResponse
	require.NoError(t, json.Unmarshal(body, &stmt))
	assert.Len(t, stmt.Items, 1)

	mov := map[string]any{"product_id": "p1", "kind": "adjust", "quantity": "7", "reason": "recuento"}
	resp, _ = api.do(t, http.MethodPost, "/api/inventory/movements", "vendedor", mov, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, body = api.do(t, http.MethodPost, "/api/inventory/movements", "bodeguero", mov, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodGet, "/api/inventory/products/p1/movements", "vendedor", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card dto.StockCardResponse
	require.NoError(t, json.Unmarshal(body, &card))
	require.Len(t, card.Items, 1)
	assert.True(t, decimal.NewFromInt(7).Equal(card.Items[0].QuantityAfter))
}

func TestRouter_CierreDeCaja(t *testing.T) {
	api := newTestAPI(t, false)
	start := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	resp, _ := api.do(t, http.MethodPost, "/api/documents", "vendedor", saleBody(2, "200"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	in := map[string]any{
		"register":        "principal",
		"window_start":    start.Format(time.RFC3339),
		"window_end":      start.Add(2 * time.Hour).Format(time.RFC3339),
		"opening_balance": "50",
		"counted_amount":  "245",
		"line_items":      []map[string]any{{"concept": "retiro", "amount": "-10"}},
	}
	resp, body := api.do(t, http.MethodPost, "/api/cash/closings", "bodeguero", in, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/cash/closings", "vendedor", in, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var res dto.CloseCashResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, decimal.NewFromInt(240).Equal(res.ExpectedCash), res.ExpectedCash.String())
	assert.True(t, decimal.NewFromInt(5).Equal(res.Discrepancy), res.Discrepancy.String())

	resp, body = api.do(t, http.MethodPost, "/api/cash/closings", "vendedor", in, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))

	resp, body = api.do(t, http.MethodGet, "/api/cash/closings?register=principal", "admin", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.CashClosingResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)
}

func TestRouter_Login(t *testing.T) {
	api := newTestAPI(t, false)
	uc := auth.NewAuthUseCase(api.store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	_, err := uc.RegisterUser(context.Background(), dto.CreateUserRequest{Email: "Caja@Example.com", Password: "secreto123", Role: entity.RoleVendedor})
	require.NoError(t, err)

	resp, body := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "caja@example.com", "password": "secreto123"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	_, role, err := pkgjwt.Parse(testJWTSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, role)

	resp, _ = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "caja@example.com", "password": "otra-clave"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nadie@example.com", "password": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "no-es-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestRouter_TokenSinRolNoOpera(t *testing.T) {
	api := newTestAPI(t, false)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	raw, _ := json.Marshal(saleBody(1, "100"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
