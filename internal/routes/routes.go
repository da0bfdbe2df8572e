package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/config"
	"github.com/example/fitgear/internal/events"
	"github.com/example/fitgear/internal/handlers"
	"github.com/example/fitgear/internal/middleware"
	"github.com/example/fitgear/internal/search"
	"github.com/example/fitgear/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, producer *events.Producer, searchClient *search.Client) {
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	stripe := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeAPIBase)
	checkout := services.NewCheckoutService(db, cfg.ShippingFee, cfg.Currency, producer, telegram)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, searchClient)
	cartHandler := handlers.NewCartHandler(db)
	wishlistHandler := handlers.NewWishlistHandler(db)
	orderHandler := handlers.NewOrderHandler(db, checkout)
	paymentHandler := handlers.NewPaymentHandler(db, stripe)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db, producer)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public catalog
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/search", productHandler.SearchProducts)
	products.Get("/:id", productHandler.GetProduct)

	// Payment intent endpoint keeps serverless semantics: one path, all
	// methods, CORS handled inside.
	api.All("/create-payment-intent", paymentHandler.CreatePaymentIntent)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	cart := protected.Group("/cart")
	cart.Get("/", cartHandler.ListCart)
	cart.Post("/", cartHandler.AddToCart)
	cart.Put("/:id", cartHandler.UpdateCartItem)
	cart.Delete("/", cartHandler.ClearCart)
	cart.Delete("/items", cartHandler.RemoveCartItems)
	cart.Delete("/:id", cartHandler.RemoveFromCart)

	wishlist := protected.Group("/wishlist")
	wishlist.Get("/", wishlistHandler.ListWishlist)
	wishlist.Post("/", wishlistHandler.AddToWishlist)
	wishlist.Post("/:id/move-to-cart", wishlistHandler.MoveToCart)
	wishlist.Delete("/:id", wishlistHandler.RemoveFromWishlist)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/confirm-payment", orderHandler.ConfirmPayment)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	// Admin back-office
	admin := protected.Group("/admin", middleware.AdminOnly(db))
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Put("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Get("/transactions", paymentHandler.ListTransactions)
	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)
}
