package api

import (
	"net/http"

	"yoladmin/client"
	"yoladmin/internal/metrics"
	"yoladmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

// LoginPath is where the auth guard sends unauthenticated operators.
const LoginPath = "/login"

type RouterConfig struct {
	Client       *client.Client
	Preferences  *client.Preferences
	Observer     metrics.Observer
	RateLimiter  *middleware.RateLimiter
	AllowOrigins []string
}

func RegisterRoutes(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	r.Use(
		middleware.CorsMiddleware(cfg.AllowOrigins),
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.GinZapRecovery(),
		middleware.HttpMiddleware(cfg.Observer),
		middleware.TraceMiddleware(),
	)
	_ = r.SetTrustedProxies(nil)

	guard := middleware.NewAuthGuard(cfg.Client, LoginPath)
	authHandler := NewAuthHandler(cfg.Client, cfg.Preferences, guard, cfg.Observer)
	userHandler := NewUserHandler(cfg.Client, guard)
	driverHandler := NewDriverHandler(cfg.Client, guard)
	orderHandler := NewOrderHandler(cfg.Client, guard)
	pointHandler := NewPointHandler(cfg.Client, guard)
	settingsHandler := NewSettingsHandler(cfg.Client, guard)
	catalogHandler := NewCatalogHandler(cfg.Client, guard)

	// Public Routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"backend":       cfg.Client.BaseURL(),
			"authenticated": cfg.Client.IsAuthenticated(),
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET(LoginPath, authHandler.LoginState)
	r.POST(LoginPath, cfg.RateLimiter.Middleware(), authHandler.Login)

	// Protected Routes
	protected := r.Group("")
	protected.Use(guard.Handler(), cfg.RateLimiter.Middleware())
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", authHandler.Me)
		protected.PUT("/preferences/sidebar", authHandler.SetSidebar)

		protected.GET("/users", userHandler.List)
		protected.POST("/users", userHandler.Create)
		protected.GET("/users/search", userHandler.Search)
		protected.GET("/users/:id", userHandler.Get)
		protected.DELETE("/users/:id", userHandler.Delete)

		protected.GET("/drivers", driverHandler.List)
		protected.POST("/drivers", driverHandler.Create)
		protected.GET("/drivers/:id", driverHandler.Get)
		protected.PATCH("/drivers/:id", driverHandler.Update)
		protected.DELETE("/drivers/:id", driverHandler.Delete)

		protected.GET("/orders", orderHandler.List)
		protected.GET("/orders/:id", orderHandler.Get)
		protected.PATCH("/orders/:id", orderHandler.Update)
		protected.DELETE("/orders/:id", orderHandler.Delete)

		protected.GET("/points", pointHandler.ListTransactions)
		protected.POST("/points", pointHandler.CreateTransaction)
		protected.GET("/points/:id", pointHandler.GetTransaction)
		protected.PATCH("/points/:id", pointHandler.UpdateTransaction)
		protected.DELETE("/points/:id", pointHandler.DeleteTransaction)

		protected.GET("/purchase-requests", pointHandler.ListPurchases)
		protected.GET("/purchase-requests/:id", pointHandler.GetPurchase)
		protected.PATCH("/purchase-requests/:id", pointHandler.UpdatePurchase)
		protected.POST("/purchase-requests/:id/approve", pointHandler.ApprovePurchase)
		protected.POST("/purchase-requests/:id/reject", pointHandler.RejectPurchase)
		protected.DELETE("/purchase-requests/:id", pointHandler.DeletePurchase)

		protected.GET("/bot-settings", settingsHandler.GetBotSettings)
		protected.PATCH("/bot-settings", settingsHandler.UpdateBotSettings)
		protected.GET("/settings", settingsHandler.Tab)
		protected.GET("/statistics", settingsHandler.Statistics)
		protected.POST("/invite-links", settingsHandler.CreateInviteLink)
		protected.POST("/invite-links/revoke", settingsHandler.RevokeInviteLink)

		catalogHandler.register(protected)
	}
	return r
}
