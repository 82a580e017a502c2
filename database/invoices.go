package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"billing-backend/billing"
	"billing-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceStore is the GORM/Postgres implementation of the billing gateway
// contracts (billing.SaveGateway + billing.HistoryGateway).
type InvoiceStore struct {
	db *gorm.DB
}

func NewInvoiceStore(db *gorm.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

// Save writes the finalized invoice (record + line rows + jsonb snapshot)
// in one transaction and returns the assigned persistence identifier.
func (s *InvoiceStore) Save(ctx context.Context, inv *billing.Invoice) (string, error) {
	snapshot, err := json.Marshal(inv.Lines)
	if err != nil {
		return "", fmt.Errorf("snapshot invoice lines: %w", err)
	}

	record := models.Invoice{
		InvoiceNumber: inv.Number,
		UserID:        inv.UserID,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		Subtotal:      inv.Subtotal,
		TaxTotal:      inv.TaxAmount,
		Total:         inv.GrandTotal,
		TaxRate:       inv.TaxRate,
		Snapshot:      datatypes.JSON(snapshot),
		IssuedAt:      inv.Date,
	}
	for i, line := range inv.Lines {
		record.Lines = append(record.Lines, models.InvoiceLine{
			Position:  i,
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Amount:    line.Amount(),
		})
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	}); err != nil {
		return "", fmt.Errorf("store invoice %s: %w", inv.Number, err)
	}
	return record.Id, nil
}

// ListInvoices returns the owner's stored invoices, newest first.
func (s *InvoiceStore) ListInvoices(ctx context.Context, userID string, limit, offset int) ([]billing.Invoice, error) {
	var records []models.Invoice
	q := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	out := make([]billing.Invoice, 0, len(records))
	for i := range records {
		out = append(out, fromRecord(&records[i]))
	}
	return out, nil
}

// GetInvoice loads one stored invoice, scoped to its owner.
func (s *InvoiceStore) GetInvoice(ctx context.Context, userID, id string) (*billing.Invoice, error) {
	var record models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", id, err)
	}
	inv := fromRecord(&record)
	return &inv, nil
}

// fromRecord maps a stored row back to the core type. Stored totals are
// copied verbatim; historical invoices are never recomputed.
func fromRecord(record *models.Invoice) billing.Invoice {
	lines := make([]billing.LineItem, 0, len(record.Lines))
	for _, l := range record.Lines {
		lines = append(lines, billing.LineItem{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	return billing.Invoice{
		ID:            record.Id,
		Number:        record.InvoiceNumber,
		Date:          record.IssuedAt,
		CustomerName:  record.CustomerName,
		CustomerPhone: record.CustomerPhone,
		Lines:         lines,
		Subtotal:      record.Subtotal,
		TaxAmount:     record.TaxTotal,
		GrandTotal:    record.Total,
		TaxRate:       record.TaxRate,
		UserID:        record.UserID,
	}
}
