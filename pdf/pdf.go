// Package pdf renders finalized invoices as printable A4 documents.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"billing-backend/billing"
	"billing-backend/utils"

	"github.com/jung-kurt/gofpdf"
)

const (
	shopName    = "Gujarati Shuddh Tel"
	shopTagline = "Groundnut Oil Billing System"
)

// Render produces the PDF document for a saved invoice.
func Render(inv *billing.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	// Header
	doc.SetFont("Arial", "B", 18)
	doc.Cell(120, 10, shopName)
	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.Cell(120, 6, shopTagline)
	doc.CellFormat(0, 6, "Invoice #: "+inv.Number, "", 1, "R", false, 0, "")
	doc.Cell(120, 6, "")
	doc.CellFormat(0, 6, "Date: "+inv.Date.Format("02/01/2006"), "", 1, "R", false, 0, "")
	doc.Ln(6)

	// Customer
	doc.SetFont("Arial", "B", 11)
	doc.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 11)
	doc.CellFormat(0, 6, inv.CustomerName, "", 1, "L", false, 0, "")
	if inv.CustomerPhone != "" {
		doc.CellFormat(0, 6, inv.CustomerPhone, "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	// Line items
	widths := []float64{15, 85, 20, 35, 35}
	headers := []string{"Sr.", "Item Description", "Qty", "Rate (Rs.)", "Amount (Rs.)"}
	aligns := []string{"C", "L", "C", "R", "R"}

	doc.SetFont("Arial", "B", 10)
	doc.SetFillColor(240, 230, 200)
	for i, h := range headers {
		doc.CellFormat(widths[i], 8, h, "1", 0, aligns[i], true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 10)
	for i, line := range inv.Lines {
		cells := []string{
			strconv.Itoa(i + 1),
			line.Name,
			strconv.Itoa(line.Quantity),
			utils.Money(line.UnitPrice),
			utils.Money(line.Amount()),
		}
		for j, v := range cells {
			doc.CellFormat(widths[j], 7, v, "1", 0, aligns[j], false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(4)

	// Totals
	taxLabel := fmt.Sprintf("GST (%s%%)", inv.TaxRate.Shift(2).String())
	totalRow(doc, "Subtotal", utils.Money(inv.Subtotal), false)
	totalRow(doc, taxLabel, utils.Money(inv.TaxAmount), false)
	totalRow(doc, "Grand Total", utils.Money(inv.GrandTotal), true)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}

func totalRow(doc *gofpdf.Fpdf, label, amount string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	doc.SetFont("Arial", style, 11)
	doc.CellFormat(120, 7, "", "", 0, "L", false, 0, "")
	doc.CellFormat(35, 7, label, "", 0, "L", false, 0, "")
	doc.CellFormat(35, 7, amount, "", 1, "R", false, 0, "")
}
