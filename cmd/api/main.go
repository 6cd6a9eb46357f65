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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/catalog"
	"github.com/jhoicas/Suministros-api/internal/application/fulfillment"
	"github.com/jhoicas/Suministros-api/internal/application/transfer"
	infracache "github.com/jhoicas/Suministros-api/internal/infrastructure/cache"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Suministros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Suministros-api/internal/interfaces/http"
	"github.com/jhoicas/Suministros-api/pkg/config"
	"github.com/jhoicas/Suministros-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (las escrituras del ciclo de vida van por TxRunner)
	userRepo := postgres.NewUserRepository(pool)
	facilityRepo := postgres.NewFacilityRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de disponibilidad: Redis si hay REDIS_ADDR, si no variante apagada
	var stockCache fulfillment.StockLevelCache = infracache.NopStockCache{}
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, caché de stock deshabilitado")
		} else {
			stockCache = infracache.NewStockCache(redisClient, time.Duration(cfg.Redis.TTLSec)*time.Second, log)
			defer redisClient.Close()
		}
	}

	authorizer := auth.NewRoleAuthorizer()
	notifier := notify.NewLogNotifier(log)

	authUC := auth.NewAuthUseCase(userRepo, facilityRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	facilityUC := catalog.NewFacilityUseCase(facilityRepo)
	itemUC := catalog.NewItemUseCase(itemRepo)
	createRequestUC := fulfillment.NewCreateRequestUseCase(txRunner, itemRepo, facilityRepo)
	processor := fulfillment.NewProcessor(txRunner, requestRepo, userRepo, authorizer, notifier, stockCache, log)
	availabilityUC := fulfillment.NewAvailabilityUseCase(levelRepo, itemRepo, stockCache)
	ledgerUC := fulfillment.NewLedgerUseCase(txRunner, levelRepo, movementRepo, stockCache)
	dispatchNoteUC := fulfillment.NewDispatchNoteUseCase(requestRepo, itemRepo, facilityRepo, infrapdf.NewMarotoDispatchNoteGenerator())
	transferUC := transfer.NewUseCase(txRunner, transferRepo, facilityRepo)

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
		Title:    "Suministros API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		FacilityUC:    facilityUC,
		ItemUC:        itemUC,
		CreateRequest: createRequestUC,
		Processor:     processor,
		Availability:  availabilityUC,
		Ledger:        ledgerUC,
		DispatchNote:  dispatchNoteUC,
		TransferUC:    transferUC,
		JWTSecret:     cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
