package router

import (
	"context"
	"net/http"

	"fender-store/internal/handlers"
	"fender-store/internal/middleware"
	"fender-store/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Auth     service.AuthUseCase
	Catalog  handlers.CatalogUseCase
	Cart     handlers.CartUseCase
	Checkout handlers.CheckoutUseCase
	Admin    handlers.AdminUseCase
	Sessions middleware.SessionStore
	// Ping проверяет зависимости для /health; nil означает "всегда ok"
	Ping func(ctx context.Context) error
}

func Router(d Deps, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", "Location", middleware.HeaderRequestID},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			if err := d.Ping(c.Request.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	app := r.Group("", middleware.Session(d.Sessions), middleware.OptionalAuth(d.Auth, log))
	authed := middleware.RequireAuth()

	authHandler := handlers.NewAuthHandler(d.Auth, log)
	app.POST("/auth/register", authHandler.Register)
	app.POST("/auth/login", authHandler.Login)
	app.POST("/auth/logout", authed, authHandler.Logout)
	app.GET("/profile", authed, authHandler.Profile)

	catalog := handlers.NewCatalogHandler(d.Catalog, log)
	app.GET("/", catalog.Home)
	app.GET("/shop", catalog.Shop)
	app.GET("/categories", catalog.Categories)
	app.GET("/product/:slug", catalog.ProductDetail)
	app.GET("/search", catalog.Search)

	cart := handlers.NewCartHandler(d.Cart, d.Sessions, log)
	app.GET("/cart", cart.Detail)
	app.POST("/cart/add/:variant_id", cart.Add)
	app.POST("/cart/remove/:item_id", cart.Remove)
	app.POST("/cart/remove-one/:item_id", cart.RemoveOne)

	checkout := handlers.NewCheckoutHandler(d.Checkout, log)
	app.GET("/checkout", authed, checkout.Summary)
	app.POST("/checkout", authed, checkout.Place)
	app.GET("/order/:order_id/confirmation", authed, checkout.Confirmation)

	admin := handlers.NewAdminHandler(d.Admin, log)
	panel := app.Group("/admin-panel", middleware.RequireStaff())
	panel.GET("", admin.Dashboard)
	crud(panel.Group("/users"), admin.ListUsers, admin.CreateUser, admin.GetUser, admin.UpdateUser, admin.DeleteUser)
	crud(panel.Group("/categories"), admin.ListCategories, admin.CreateCategory, admin.GetCategory, admin.UpdateCategory, admin.DeleteCategory)
	crud(panel.Group("/products"), admin.ListProducts, admin.CreateProduct, admin.GetProduct, admin.UpdateProduct, admin.DeleteProduct)
	crud(panel.Group("/variants"), admin.ListVariants, admin.CreateVariant, admin.GetVariant, admin.UpdateVariant, admin.DeleteVariant)
	crud(panel.Group("/orders"), admin.ListOrders, admin.CreateOrder, admin.GetOrder, admin.UpdateOrder, admin.DeleteOrder)
	panel.POST("/media", admin.UploadMedia)

	return r
}

func crud(g *gin.RouterGroup, list, create, get, update, del gin.HandlerFunc) {
	g.GET("", list)
	g.POST("", create)
	g.GET("/:id", get)
	g.PUT("/:id", update)
	g.DELETE("/:id", del)
}
