package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/lots"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LotUC     *lots.LotUseCase
	ProductUC *usecase.ProductUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas las rutas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Lots
	lotsGroup := api.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lotsGroup.Post("/", lotHandler.Receive)
	lotsGroup.Get("/", lotHandler.List)
	// Rutas fijas antes de /:id para que Fiber no las capture como parámetro
	lotsGroup.Post("/open", lotHandler.Open)
	lotsGroup.Post("/expiry-sweep", RequireRole("admin", "almacenista"), lotHandler.ExpirySweep)
	lotsGroup.Get("/:id", lotHandler.GetByID)
	lotsGroup.Get("/:id/transactions", lotHandler.ListTransactions)
	lotsGroup.Post("/:id/transactions", lotHandler.RecordTransaction)
	lotsGroup.Post("/:id/status", lotHandler.ChangeStatus)
	lotsGroup.Post("/:id/reserve", lotHandler.Reserve)
	lotsGroup.Post("/:id/unreserve", lotHandler.Unreserve)
	lotsGroup.Get("/:id/reconciliation", lotHandler.Reconciliation)

	// Allocation FIFO/FEFO
	allocation := api.Group("/allocation")
	allocation.Post("/plan", lotHandler.Plan)
	allocation.Post("/commit", lotHandler.Commit)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/availability", lotHandler.Availability)
}
