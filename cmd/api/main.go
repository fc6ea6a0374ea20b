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

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/lots"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/usecase"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/infrastructure/postgres"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/infrastructure/rediscache"
	httpRouter "github.com/liliasabbah32-svg/InventorySystem-sub005/internal/interfaces/http"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/worker"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/pkg/config"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewLotRepository(pool)
	ledgerRepo := postgres.NewLotTransactionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de disponibilidad: opcional, sin Redis el sistema sigue funcionando.
	var cache lots.AvailabilityCache
	if cfg.Redis.URL != "" {
		rdb, err := rediscache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, continuando sin cache")
		} else {
			defer rdb.Close()
			cache = rediscache.NewAvailabilityCache(rdb, cfg.Redis.TTL)
			log.Info().Dur("ttl", cfg.Redis.TTL).Msg("cache de disponibilidad habilitada")
		}
	}

	lotUC := lots.NewLotUseCase(txRunner, lotRepo, productRepo, ledgerRepo, cache)
	productUC := usecase.NewProductUseCase(productRepo)

	if cfg.Sweep.Enabled {
		worker.StartExpirySweeper(ctx, worker.SweeperConfig{
			LotUC:    lotUC,
			Interval: cfg.Sweep.Interval,
			Log:      log,
		})
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LotUC:     lotUC,
		ProductUC: productUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop() // detiene el sweeper

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
