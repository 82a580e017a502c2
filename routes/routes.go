package routes

import (
	"github.com/gofiber/fiber/v2"

	"billing-backend/controllers"
	"billing-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard so retried submissions cannot double-bill
	protected.Use(middlewares.Idempotency())

	// Catalog
	protected.Get("/products", controllers.GetProducts)

	// Working bill
	protected.Get("/cart", controllers.GetCart)
	protected.Post("/cart/items", controllers.AddCartItem)
	protected.Put("/cart/items/:lineId", controllers.UpdateCartItem)
	protected.Delete("/cart/items/:lineId", controllers.RemoveCartItem)
	protected.Delete("/cart", controllers.ClearCart)

	// Invoices
	protected.Post("/invoice", controllers.GenerateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)
	protected.Get("/invoice/:id/pdf", controllers.DownloadInvoicePDF)
}
