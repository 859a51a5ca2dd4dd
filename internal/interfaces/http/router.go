package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/events"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC *usecase.CompanyUseCase
	ProductUC *usecase.ProductUseCase
	LedgerUC  *ledger.LedgerUseCase
	StockUC   *analytics.StockReportUseCase
	AuthUC    *auth.AuthUseCase
	Hub       *events.Hub // opcional: sin hub no se expone /ws
	JWTSecret string
}

// Router registra las rutas de la API.
//
// Catálogo: lectura para cualquier usuario autenticado, escritura solo admin.
// Movimientos, traslados y reportes: cualquier usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", adminOnly, companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", adminOnly, companyHandler.Update)
	companies.Delete("/:id", adminOnly, companyHandler.Delete)

	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	stockHandler := NewStockHandler(deps.StockUC)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	// antes de /:id para que "movements" no se tome como id
	products.Post("/movements/batch", ledgerHandler.MoveBatch)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/movements", ledgerHandler.Move)
	products.Post("/:id/transfers", ledgerHandler.Transfer)
	products.Get("/:id/average-cost", stockHandler.ProductAverageCost)
	products.Get("/:id/companies/:companyId/quantity", stockHandler.Quantity)

	stock := protected.Group("/stock")
	stock.Get("/total-value", stockHandler.TotalValue)
	stock.Get("/total-quantity", stockHandler.TotalQuantity)
	stock.Get("/average-cost", stockHandler.CatalogAverageCost)
	stock.Get("/movements", ledgerHandler.Movements)
	stock.Get("/report", stockHandler.Report)

	// Feed de cambios de stock en vivo
	if deps.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", QueryTokenMiddleware(deps.JWTSecret), websocket.New(deps.Hub.ServeConn))
	}
}
