package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/application/auth"
	"github.com/jhoicas/comercial-api/internal/application/cash"
	"github.com/jhoicas/comercial-api/internal/application/documents"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/application/sequence"
	"github.com/jhoicas/comercial-api/internal/infrastructure/postgres"
	"github.com/jhoicas/comercial-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/comercial-api/internal/interfaces/http"
	"github.com/jhoicas/comercial-api/pkg/config"
	"github.com/jhoicas/comercial-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	zl := log.Zerolog()

	if cfg.DB.AutoMigrate {
		if _, err := postgres.Migrate(cfg.DB.ConnectionString(), zl); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	stockLedger := inventory.NewStockLedger(zl)
	accountLedger := account.NewLedger(zl)

	documentsUC := documents.NewUseCase(txRunner, stockLedger, accountLedger, sequence.NewGenerator(), zl)
	accountsUC := account.NewUseCase(txRunner, accountLedger, zl)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, stockLedger, zl)
	cashUC := cash.NewUseCase(txRunner, postgres.NewCashReportRepository(pool), cfg.Cash.DefaultRegister, zl)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	deps := httpRouter.RouterDeps{
		AuthUC:    authUC,
		Documents: documentsUC,
		Accounts:  accountsUC,
		Inventory: registerMovementUC,
		Cash:      cashUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       zl,
	}

	// Idempotency-Key solo con Redis configurado.
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		deps.Idempotency = redis.NewIdempotencyStore(client, cfg.Redis.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia habilitada")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(zl))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Comercial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
