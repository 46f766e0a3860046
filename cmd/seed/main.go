// seed prepara una base nueva: aplica migraciones, crea los numeradores de documentos,
// la configuración de precios y el usuario administrador, y opcionalmente importa el
// catálogo de productos exportado por el sistema anterior (CSV ISO-8859-1, separado por ';').
//
// Uso: SEED_ADMIN_EMAIL=admin@local SEED_ADMIN_PASSWORD=secreto123 go run ./cmd/seed [productos.csv]
// El administrador se toma de la configuración (SEED_ADMIN_*, también desde .env); el catálogo
// puede venir como argumento o en SEED_CATALOG.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/comercial-api/internal/application/auth"
	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
	"github.com/jhoicas/comercial-api/internal/infrastructure/postgres"
	"github.com/jhoicas/comercial-api/pkg/config"
	"github.com/jhoicas/comercial-api/pkg/logger"
)

const seedActor = "seed"

// defaultSequences numeradores iniciales por tipo de documento.
var defaultSequences = []entity.Sequence{
	{DocumentType: entity.DocumentSale, NextNumber: 1, Prefix: "V-"},
	{DocumentType: entity.DocumentPurchase, NextNumber: 1, Prefix: "C-"},
	{DocumentType: entity.DocumentBudget, NextNumber: 1, Prefix: "P-"},
	{DocumentType: entity.DocumentQuote, NextNumber: 1, Prefix: "Q-"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	catalogPath := cfg.Seed.CatalogPath
	if len(os.Args) > 1 {
		catalogPath = os.Args[1]
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})
	zl := log.Zerolog()

	if _, err := postgres.Migrate(cfg.DB.ConnectionString(), zl); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.NewSettingsRepository(pool).EnsureDefaults(ctx, entity.DefaultPricingConfig()); err != nil {
		log.Fatal().Err(err).Msg("configuración de precios")
	}

	txRunner := postgres.NewTxRunner(pool)
	err = txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		for i := range defaultSequences {
			if err := repos.Sequences.Ensure(ctx, &defaultSequences[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("numeradores")
	}
	log.Info().Int("count", len(defaultSequences)).Msg("numeradores listos")

	if adminEmail := cfg.Seed.AdminEmail; adminEmail != "" {
		authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{})
		_, err := authUC.RegisterUser(ctx, dto.CreateUserRequest{
			Email:    adminEmail,
			Password: cfg.Seed.AdminPassword,
			Name:     cfg.Seed.AdminName,
			Role:     entity.RoleAdmin,
		})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			log.Info().Str("email", adminEmail).Msg("el administrador ya existe")
		case err != nil:
			log.Fatal().Err(err).Msg("alta del administrador")
		default:
			log.Info().Str("email", adminEmail).Msg("administrador creado")
		}
	}

	if catalogPath != "" {
		f, err := os.Open(catalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir catálogo")
		}
		defer f.Close()
		rows, err := parseCatalog(f)
		if err != nil {
			log.Fatal().Err(err).Msg("leer catálogo")
		}
		created, skipped, err := importCatalog(ctx, txRunner, inventory.NewStockLedger(zl), rows)
		if err != nil {
			log.Fatal().Err(err).Msg("importar catálogo")
		}
		log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo importado")
	}
}
