package billing

import (
	"strings"
	"time"

	"billing-backend/utils"

	"github.com/shopspring/decimal"
)

// LineItem is one product+quantity+effective-price entry of a working bill
// or a finalized invoice. The unit price may differ from the catalog price
// when the cashier billed a custom rate.
type LineItem struct {
	LineID    int64           `json:"line_id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Amount is the line total (unit price times quantity).
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Totals are the derived monetary sums of a cart or invoice.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Cart is the mutable in-progress bill. It is owned by a single interactive
// session; nothing here locks.
//
// Merge invariant: no two lines ever share both product id and effective
// unit price. Line ids are assigned in strict call order and never reused
// within the cart's lifetime, even after removal.
type Cart struct {
	catalog    *Catalog
	taxRate    decimal.Decimal
	lines      []LineItem
	nextLineID int64
}

func NewCart(catalog *Catalog, taxRate decimal.Decimal) *Cart {
	return &Cart{catalog: catalog, taxRate: taxRate}
}

// AddLine adds quantity of a catalog product at an optional overridden rate.
// An existing line with the same product and effective price absorbs the
// quantity; otherwise a new line is appended. An absent or non-positive
// override falls back to the catalog price.
func (c *Cart) AddLine(productID uint, quantity int, rate *decimal.Decimal) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, errValidation("quantity must be greater than zero")
	}
	product, ok := c.catalog.Find(productID)
	if !ok {
		return LineItem{}, errValidation("unknown product id %d", productID)
	}

	price := product.Price
	if rate != nil && rate.IsPositive() {
		price = utils.Round2(*rate)
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID && c.lines[i].UnitPrice.Equal(price) {
			c.lines[i].Quantity += quantity
			return c.lines[i], nil
		}
	}

	c.nextLineID++
	line := LineItem{
		LineID:    c.nextLineID,
		ProductID: productID,
		Name:      product.Name,
		UnitPrice: price,
		Quantity:  quantity,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// RemoveLine deletes the line with the given id. Removing an id that is no
// longer present is a no-op, not an error: the UI may race a stale reference.
func (c *Cart) RemoveLine(lineID int64) {
	for i := range c.lines {
		if c.lines[i].LineID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity updates a line's quantity in place. Non-positive values are
// ignored; callers delete lines with RemoveLine, never by zeroing them.
func (c *Cart) SetQuantity(lineID int64, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].LineID == lineID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Lines returns the cart's lines in insertion order.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Totals derives subtotal, tax and grand total from the current lines. The
// tax amount is rounded to two decimal places when computed; re-deriving
// from a finalized invoice's lines with the same rule reproduces the stored
// totals exactly.
func (c *Cart) Totals() Totals {
	return totalsOf(c.lines, c.taxRate)
}

func totalsOf(lines []LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Amount())
	}
	tax := utils.Round2(subtotal.Mul(taxRate))
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// Finalize snapshots the cart into an immutable Invoice owned by userID.
// The customer name must be non-empty after trimming and the cart must hold
// at least one line; failures leave the cart untouched. Finalize does not
// clear the cart either — the caller resets it only once the persistence
// gateway has accepted the invoice, so a failed save keeps the bill editable.
func (c *Cart) Finalize(userID, customerName, customerPhone string) (*Invoice, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, errValidation("customer name is required")
	}
	if c.Empty() {
		return nil, errValidation("bill has no items")
	}

	now := time.Now()
	totals := c.Totals()
	return &Invoice{
		Number:        nextInvoiceNumber(now),
		Date:          now,
		CustomerName:  customerName,
		CustomerPhone: strings.TrimSpace(customerPhone),
		Lines:         c.Lines(),
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		GrandTotal:    totals.GrandTotal,
		TaxRate:       c.taxRate,
		UserID:        userID,
	}, nil
}
