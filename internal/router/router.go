package router

import (
	"time"

	"dukapos/internal/config"
	"dukapos/internal/handler"
	"dukapos/internal/middleware"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	POS      *handler.POSHandler
	Shifts   *handler.ShiftHandler
	Supplier *handler.SupplierHandler
	Expenses *handler.ExpenseHandler
	Reports  *handler.ReportHandler
	Settings *handler.SettingsHandler
	Users    *handler.UserHandler
}

// New assembles the gin engine: global middleware, the public surface, the
// authenticated /v1 surface and the admin-only subset.
func New(cfg *config.Config, authSvc *service.AuthService, h Handlers, log zerolog.Logger) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.CORS(),
	)

	r.GET("/health", h.Health.Check)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			loginLimit := middleware.NewRateLimiter(20, time.Minute)
			auth.POST("/login", loginLimit.Handler(), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authed := v1.Group("")
		authed.Use(middleware.Auth(authSvc))
		{
			authed.GET("/products", h.Products.List)
			authed.GET("/products/low-stock", h.Products.LowStock)
			authed.GET("/products/:id", h.Products.Get)
			authed.GET("/stock-movements", h.Products.Movements)

			authed.POST("/pos/checkout", h.POS.Checkout)
			authed.GET("/sales", h.POS.ListSales)
			authed.GET("/sales/:id", h.POS.GetSale)
			authed.GET("/sales/:id/receipt", h.POS.Receipt)

			authed.GET("/shifts", h.Shifts.List)
			authed.GET("/shifts/current", h.Shifts.Current)
			authed.POST("/shifts", h.Shifts.Open)
			authed.POST("/shifts/:id/close", h.Shifts.Close)
			authed.GET("/shifts/:id/summary", h.Shifts.Summary)
			authed.GET("/shifts/:id/expenses", h.Shifts.Expenses)

			authed.POST("/expenses", h.Expenses.Record)

			authed.GET("/settings", h.Settings.Get)

			admin := authed.Group("")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.POST("/products", h.Products.Create)
				admin.PATCH("/products/:id", h.Products.Update)
				admin.DELETE("/products/:id", h.Products.Delete)
				admin.POST("/products/:id/stock", h.Products.AdjustStock)

				admin.DELETE("/sales/:id", h.POS.VoidSale)
				admin.POST("/shifts/:id/recompute", h.Shifts.Recompute)
				admin.DELETE("/expenses/:id", h.Expenses.Delete)

				admin.POST("/suppliers", h.Supplier.Create)
				admin.GET("/suppliers", h.Supplier.List)
				admin.GET("/suppliers/:id", h.Supplier.Get)
				admin.PATCH("/suppliers/:id", h.Supplier.Update)
				admin.DELETE("/suppliers/:id", h.Supplier.Delete)
				admin.POST("/suppliers/:id/payments", h.Supplier.RecordPayment)
				admin.GET("/suppliers/:id/payments", h.Supplier.ListPayments)
				admin.GET("/suppliers/:id/balance", h.Supplier.Balance)

				admin.GET("/reports/sales", h.Reports.Sales)
				admin.GET("/reports/sales/export", h.Reports.SalesExport)
				admin.GET("/reports/expenses", h.Reports.Expenses)
				admin.GET("/reports/profit", h.Reports.Profit)
				admin.GET("/reports/valuation", h.Reports.Valuation)

				admin.PATCH("/settings", h.Settings.Update)

				admin.POST("/users", h.Users.Create)
				admin.GET("/users", h.Users.List)
				admin.PATCH("/users/:id", h.Users.Update)
				admin.DELETE("/users/:id", h.Users.Deactivate)
			}
		}
	}

	return r
}
