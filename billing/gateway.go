package billing

import "context"

// SaveGateway persists a finalized invoice and returns its opaque
// persistence identifier. A failed save is recoverable: the caller keeps the
// working cart as-is and may retry.
type SaveGateway interface {
	Save(ctx context.Context, inv *Invoice) (string, error)
}

// HistoryGateway serves stored invoices for one owner, newest first. Stored
// totals are authoritative and returned verbatim, never recomputed.
type HistoryGateway interface {
	ListInvoices(ctx context.Context, userID string, limit, offset int) ([]Invoice, error)
	GetInvoice(ctx context.Context, userID, id string) (*Invoice, error)
}

// InvoiceGateway is the full persistence contract the HTTP layer wires in.
type InvoiceGateway interface {
	SaveGateway
	HistoryGateway
}
