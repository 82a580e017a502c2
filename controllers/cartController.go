package controllers

import (
	"strconv"

	"billing-backend/billing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Carts is the per-user working-bill registry, wired in main at startup.
var Carts *billing.Store

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

func cartResponse(cart *billing.Cart) fiber.Map {
	totals := cart.Totals()
	return fiber.Map{
		"items":       cart.Lines(),
		"tax_rate":    cart.TaxRate(),
		"subtotal":    totals.Subtotal,
		"tax_amount":  totals.TaxAmount,
		"grand_total": totals.GrandTotal,
	}
}

// GetCart returns the caller's working bill with derived totals.
func GetCart(c *fiber.Ctx) error {
	return c.JSON(cartResponse(Carts.Get(currentUserID(c))))
}

type AddItemInput struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity"`
	Rate      *decimal.Decimal `json:"rate"` // optional custom rate for this line
}

// AddCartItem adds quantity of a product to the bill. A line with the same
// product and effective rate absorbs the quantity instead of duplicating.
func AddCartItem(c *fiber.Ctx) error {
	var input AddItemInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if input.ProductID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	cart := Carts.Get(currentUserID(c))
	line, err := cart.AddLine(input.ProductID, input.Quantity, input.Rate)
	if err != nil {
		return err
	}

	resp := cartResponse(cart)
	resp["line"] = line
	return c.Status(fiber.StatusCreated).JSON(resp)
}

type UpdateItemInput struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets a line's quantity. Non-positive values leave the line
// unchanged; lines are deleted via RemoveCartItem only.
func UpdateCartItem(c *fiber.Ctx) error {
	lineID, err := strconv.ParseInt(c.Params("lineId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid line id")
	}

	var input UpdateItemInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cart := Carts.Get(currentUserID(c))
	cart.SetQuantity(lineID, input.Quantity)
	return c.JSON(cartResponse(cart))
}

// RemoveCartItem deletes a line. An id that is already gone still answers
// 200 with the current bill.
func RemoveCartItem(c *fiber.Ctx) error {
	lineID, err := strconv.ParseInt(c.Params("lineId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid line id")
	}

	cart := Carts.Get(currentUserID(c))
	cart.RemoveLine(lineID)
	return c.JSON(cartResponse(cart))
}

// ClearCart discards the caller's working bill.
func ClearCart(c *fiber.Ctx) error {
	uid := currentUserID(c)
	Carts.Reset(uid)
	return c.JSON(cartResponse(Carts.Get(uid)))
}
