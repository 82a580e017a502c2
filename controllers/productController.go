package controllers

import (
	"billing-backend/billing"

	"github.com/gofiber/fiber/v2"
)

// Catalog is the retailer's fixed product list, wired in main at startup.
var Catalog *billing.Catalog

// GetProducts returns the catalog in its defined order.
func GetProducts(c *fiber.Ctx) error {
	return c.JSON(Catalog.Products())
}
