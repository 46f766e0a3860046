package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/application/auth"
	"github.com/jhoicas/comercial-api/internal/application/cash"
	"github.com/jhoicas/comercial-api/internal/application/documents"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Documents   *documents.UseCase
	Accounts    *account.UseCase
	Inventory   *inventory.RegisterMovementUseCase
	Cash        *cash.UseCase
	JWTSecret   string
	Idempotency idempotencyStore // nil = sin idempotencia
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	loginLimit := limiter.New(limiter.Config{Max: 10, Expiration: time.Minute})
	api.Post("/auth/login", loginLimit, authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	idem := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Idempotency != nil {
		idem = Idempotency(deps.Idempotency, deps.Log)
	}
	admin := RequireRole(entity.RoleAdmin)

	// Documentos
	docs := protected.Group("/documents")
	docHandler := NewDocumentHandler(deps.Documents, deps.Log)
	docs.Post("/", idem, docHandler.Create)
	docs.Get("/:id", docHandler.GetByID)
	docs.Post("/:id/cancel", admin, docHandler.Cancel)
	docs.Post("/:id/deliveries", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), docHandler.Deliver)
	docs.Post("/:id/payments/:paymentId/void", admin, docHandler.VoidPayment)

	// Cuenta corriente
	accounts := protected.Group("/accounts")
	accHandler := NewAccountHandler(deps.Accounts, deps.Log)
	accounts.Post("/movements/:id/reverse", admin, accHandler.Reverse)
	accounts.Post("/:customerId/adjustments", admin, idem, accHandler.PostAdjustment)
	accounts.Get("/:customerId/movements", accHandler.Statement)

	// Inventario
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Inventory, deps.Log)
	inv.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), idem, invHandler.RegisterMovement)
	inv.Get("/products/:id/movements", invHandler.StockCard)

	// Caja
	cashGroup := protected.Group("/cash")
	cashHandler := NewCashHandler(deps.Cash, deps.Log)
	cashGroup.Post("/closings", RequireRole(entity.RoleAdmin, entity.RoleVendedor), cashHandler.Close)
	cashGroup.Get("/closings", admin, cashHandler.List)
}
