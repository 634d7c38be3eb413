package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PosVenta-api/internal/application/auth"
	"github.com/jhoicas/PosVenta-api/internal/application/inventory"
	"github.com/jhoicas/PosVenta-api/internal/application/sale"
	"github.com/jhoicas/PosVenta-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	StoreUC     *usecase.StoreUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	OfferUC     *usecase.OfferUseCase
	MovementUC  *inventory.MovementUseCase
	ProcessSale *sale.ProcessSaleUseCase
	ReceiptUC   *sale.ReceiptUseCase
	RevenueUC   *sale.RevenueUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stores (solo admin crea; cualquiera autenticado consulta)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", RequireRole("admin"), storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)

	// Products (catálogo lo administran admin y gerente)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole("admin", "gerente"), productHandler.Create)
	products.Put("/:id", RequireRole("admin", "gerente"), productHandler.Update)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Customers (el cajero también los registra durante la venta)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.Search)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Delete("/:id", RequireRole("admin", "gerente"), customerHandler.Deactivate)

	// Offers (combos armados; los define el gerente)
	offers := protected.Group("/offers")
	offerHandler := NewOfferHandler(deps.OfferUC)
	offers.Post("/", RequireRole("admin", "gerente"), offerHandler.Create)
	offers.Delete("/:id", RequireRole("admin", "gerente"), offerHandler.Deactivate)
	offers.Get("/", offerHandler.List)
	offers.Get("/:id", offerHandler.GetByID)

	// Inventory (recepciones, reposiciones y ajustes)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	invGroup.Post("/movements", RequireRole("admin", "gerente"), inventoryHandler.RegisterMovement)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/movements/:productId", inventoryHandler.ListMovements)

	// POS (ventas; cualquier rol autenticado con tienda asignada)
	pos := protected.Group("/pos")
	saleHandler := NewSaleHandler(deps.ProcessSale, deps.ReceiptUC, deps.RevenueUC)
	pos.Post("/sales", saleHandler.Create)
	pos.Get("/sales/:id", saleHandler.GetByID)
	pos.Get("/sales/:id/pdf", saleHandler.GetPDF)
	pos.Get("/revenue", RequireRole("admin", "gerente"), saleHandler.GetDailyRevenue)
}
