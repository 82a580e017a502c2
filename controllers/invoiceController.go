package controllers

import (
	"errors"
	"fmt"

	"billing-backend/billing"
	"billing-backend/middlewares"
	"billing-backend/pdf"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Invoices is the persistence/history gateway, wired in main at startup.
var Invoices billing.InvoiceGateway

type GenerateBillInput struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// GenerateInvoice finalizes the caller's working bill and saves it. A failed
// save keeps the bill editable and reports a retryable failure; the cart is
// reset only once the invoice is durable.
func GenerateInvoice(c *fiber.Ctx) error {
	var input GenerateBillInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	uid := currentUserID(c)
	cart := Carts.Get(uid)

	invoice, err := cart.Finalize(uid, input.CustomerName, input.CustomerPhone)
	if err != nil {
		return err
	}

	id, err := Invoices.Save(c.Context(), invoice)
	if err != nil {
		log.Warn().Err(err).Str("invoice", invoice.Number).Msg("invoice save failed, bill kept")
		c.Status(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"message": "could not save invoice, the bill was kept for retry",
			"error":   err.Error(),
		})
	}
	invoice.ID = id
	Carts.Reset(uid)

	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetInvoices lists the caller's stored invoices, newest first.
func GetInvoices(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	invoices, err := Invoices.ListInvoices(c.Context(), currentUserID(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(invoices)
}

// GetInvoice returns one stored invoice with its totals verbatim.
func GetInvoice(c *fiber.Ctx) error {
	invoice, err := Invoices.GetInvoice(c.Context(), currentUserID(c), c.Params("id"))
	if errors.Is(err, billing.ErrInvoiceNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

// DownloadInvoicePDF renders a stored invoice for printing. Only saved
// invoices are reachable here, so printing is always gated on a successful
// save.
func DownloadInvoicePDF(c *fiber.Ctx) error {
	invoice, err := Invoices.GetInvoice(c.Context(), currentUserID(c), c.Params("id"))
	if errors.Is(err, billing.ErrInvoiceNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	if err != nil {
		return err
	}

	doc, err := pdf.Render(invoice)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.pdf", invoice.Number))
	return c.Send(doc)
}
