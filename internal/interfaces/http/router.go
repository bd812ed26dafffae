package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/auth"
	"github.com/jhoicas/insumos-api/internal/application/product"
	"github.com/jhoicas/insumos-api/internal/application/sales"
	"github.com/jhoicas/insumos-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	IngredientUC *stock.IngredientUseCase
	PurchaseUC   *stock.PurchaseUseCase
	WasteUC      *stock.WasteUseCase
	LedgerUC     *stock.LedgerUseCase
	ProductUC    *product.UseCase
	SalesUC      *sales.UseCase
	JWTSecret    string
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

	// Ingredients (protegido)
	ingredients := protected.Group("/ingredients")
	ingredientHandler := NewIngredientHandler(deps.IngredientUC)
	ingredients.Post("/", ingredientHandler.Create)
	ingredients.Get("/", ingredientHandler.List)
	ingredients.Get("/:id", ingredientHandler.GetByID)
	ingredients.Put("/:id", ingredientHandler.Update)
	ingredients.Delete("/:id", ingredientHandler.Delete)

	// Stock: compras, mermas y libro de lotes (protegido)
	stockHandler := NewStockHandler(deps.PurchaseUC, deps.WasteUC, deps.LedgerUC)
	ingredients.Get("/:id/batches", stockHandler.ListBatches)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/purchases", stockHandler.RegisterPurchase)
	stockGroup.Post("/waste", stockHandler.RecordWaste)
	stockGroup.Get("/waste", stockHandler.ListWaste)
	stockGroup.Get("/batches/:id/waste", stockHandler.ListBatchWaste)
	stockGroup.Get("/valuation", stockHandler.Valuation)
	stockGroup.Get("/low", stockHandler.LowStock)

	// Products y simulaciones (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Post("/simulations/price", productHandler.SimulatePrice)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/simulations/swap", productHandler.SimulateSwap)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Record)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Delete)
}
