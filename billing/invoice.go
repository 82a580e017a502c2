package billing

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the immutable snapshot produced by finalizing a cart. It is
// never mutated after creation; the only transition is the persistence id
// being attached once the save gateway has stored it.
type Invoice struct {
	ID            string          `json:"id,omitempty"`
	Number        string          `json:"invoice_number"`
	Date          time.Time       `json:"date"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Lines         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	UserID        string          `json:"user_id"`
}

// Saved reports whether the invoice has been durably stored. Printing and
// history retrieval require a saved invoice.
func (inv *Invoice) Saved() bool {
	return inv.ID != ""
}

var invoiceSeq atomic.Int64

// nextInvoiceNumber combines the creation instant with a process-wide
// counter, so rapid sequential finalizations within the same millisecond
// cannot collide.
func nextInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("GST-%d-%d", now.UnixMilli(), invoiceSeq.Add(1))
}
