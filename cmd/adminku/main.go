package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bdajaya/adminku-core/internal/application/catalog"
	"github.com/bdajaya/adminku-core/internal/application/categories"
	"github.com/bdajaya/adminku-core/internal/application/stock"
	"github.com/bdajaya/adminku-core/internal/application/units"
	"github.com/bdajaya/adminku-core/internal/infrastructure/postgres"
	"github.com/bdajaya/adminku-core/pkg/config"
	"github.com/bdajaya/adminku-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando núcleo de inventario")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	unitRepo := postgres.NewUnitRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockTxRepo := postgres.NewStockTransactionRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	imageRepo := postgres.NewProductImageRepository(pool)
	configRepo := postgres.NewConfigRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	unitUC := units.NewUseCase(unitRepo, productRepo)
	categoryUC := categories.NewUseCase(
		txRunner, categoryRepo, productRepo, configRepo,
		cfg.Inventory.MaxCategoryDepth,
	)
	stockUC := stock.NewUseCase(txRunner, stockTxRepo, productRepo, unitRepo, log)
	catalogUC := catalog.NewUseCase(
		txRunner, productRepo, categoryRepo, unitRepo, brandRepo, imageRepo,
		stockUC, catalog.BarcodeConfig{
			Prefix: cfg.Inventory.BarcodePrefix,
			Digits: cfg.Inventory.BarcodeDigits,
		},
	)
	// Unidades base por defecto (pcs, gr) si el almacén está vacío.
	if err := unitUC.EnsureDefaults(); err != nil {
		log.Fatal().Err(err).Msg("sembrar unidades por defecto")
	}

	allUnits, err := unitUC.List()
	if err != nil {
		log.Fatal().Err(err).Msg("listar unidades")
	}
	roots, err := categoryUC.ListRoots()
	if err != nil {
		log.Fatal().Err(err).Msg("listar categorías raíz")
	}
	products, err := catalogUC.List(1, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("listar productos")
	}
	recent, err := stockUC.Recent(1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer movimientos recientes")
	}

	log.Info().
		Int("unidades", len(allUnits)).
		Int("categorias_raiz", len(roots)).
		Bool("hay_productos", len(products) > 0).
		Bool("hay_movimientos", len(recent) > 0).
		Msg("núcleo de inventario listo")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando...")
	log.Info().Msg("aplicación detenida")
}
