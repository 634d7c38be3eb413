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

	"github.com/jhoicas/PosVenta-api/internal/application/auth"
	"github.com/jhoicas/PosVenta-api/internal/application/inventory"
	"github.com/jhoicas/PosVenta-api/internal/application/sale"
	"github.com/jhoicas/PosVenta-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/PosVenta-api/internal/infrastructure/pdf"
	"github.com/jhoicas/PosVenta-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/PosVenta-api/internal/interfaces/http"
	"github.com/jhoicas/PosVenta-api/pkg/config"
	"github.com/jhoicas/PosVenta-api/pkg/logger"
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

	storeRepo := postgres.NewStoreRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	offerRepo := postgres.NewAssemblyOfferRepository(pool)
	invRepo := postgres.NewInventoryRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	revenueRepo := postgres.NewDailyRevenueRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, storeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	storeUC := usecase.NewStoreUseCase(storeRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	offerUC := usecase.NewOfferUseCase(txRunner, offerRepo, productRepo, storeRepo)
	movementUC := inventory.NewMovementUseCase(txRunner, userRepo, productRepo, invRepo, movRepo, log)

	processSaleUC := sale.NewProcessSaleUseCase(
		txRunner, userRepo, storeRepo, productRepo, offerRepo, invRepo,
		revenueRepo,
		sale.Options{
			OrderPrefix:    cfg.POS.OrderPrefix,
			SequenceDigits: cfg.POS.SequenceDigits,
		},
		log,
	)

	// PDF: recibo de venta para imprimir o enviar al cliente
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := sale.NewReceiptUseCase(orderRepo, storeRepo, userRepo, receiptGenerator)
	revenueUC := sale.NewRevenueUseCase(revenueRepo, userRepo)

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
		Title:    "PosVenta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		StoreUC:     storeUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		OfferUC:     offerUC,
		MovementUC:  movementUC,
		ProcessSale: processSaleUC,
		ReceiptUC:   receiptUC,
		RevenueUC:   revenueUC,
		JWTSecret:   cfg.JWT.Secret,
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
