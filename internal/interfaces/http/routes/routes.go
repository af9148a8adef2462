// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/session"
	"gorm.io/gorm"
)

// SetupBookRoutes sets up catalog related routes
func SetupBookRoutes(rg *gin.RouterGroup, catalogService *catalog.Service) {
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	books := rg.Group("/books")
	{
		books.GET("", catalogHandler.GetBooks)
		books.GET("/:id", catalogHandler.GetBook)
	}
}

// SetupCartRoutes sets up cart related routes. Every cart route runs inside a browser session.
func SetupCartRoutes(rg *gin.RouterGroup, cartService *cart.Service, sessionMiddleware gin.HandlerFunc) {
	cartHandler := handlers.NewCartHandler(cartService)

	carts := rg.Group("/cart")
	carts.Use(sessionMiddleware)
	{
		carts.GET("", cartHandler.GetCart)
		carts.GET("/count", cartHandler.GetCartCount)
		carts.GET("/total", cartHandler.GetCartTotal)
		carts.DELETE("", cartHandler.ClearCart)

		carts.POST("/items", cartHandler.AddToCart)
		carts.POST("/items/:id/increase", cartHandler.IncreaseQuantity)
		carts.POST("/items/:id/decrease", cartHandler.DecreaseQuantity)
		carts.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(rg *gin.RouterGroup, orderService *order.Service, sessionMiddleware gin.HandlerFunc) {
	orderHandler := handlers.NewOrderHandler(orderService)

	orders := rg.Group("/orders")
	orders.Use(sessionMiddleware)
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("/:id", orderHandler.GetOrder)
	}
}

// SetupRoutes wires services to handlers and registers all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	catalogService := catalog.NewService(db)
	cartService := cart.NewService(db, catalogService, cfg, logger)
	orderService := order.NewService(db, cartService, logger)

	sessionStore := session.NewStore(redisClient, cfg.Session.TTL)
	sessionMiddleware := middleware.Session(cfg, sessionStore, logger)

	SetupBookRoutes(rg, catalogService)
	SetupCartRoutes(rg, cartService, sessionMiddleware)
	SetupOrderRoutes(rg, orderService, sessionMiddleware)
}
