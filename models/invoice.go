package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice is the durable record of a finalized bill. Rows are written once
// at save time and never updated; the stored totals stay authoritative for
// history display and reprints.
type Invoice struct {
	Id            string `json:"id" gorm:"primaryKey"`
	InvoiceNumber string `json:"invoice_number" gorm:"uniqueIndex;not null"`
	UserID        string `json:"user_id" gorm:"index:idx_invoices_user_created,priority:1;not null"`

	CustomerName  string `json:"customer_name" gorm:"not null"`
	CustomerPhone string `json:"customer_phone"`

	Lines []InvoiceLine `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	Subtotal decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`
	TaxTotal decimal.Decimal `json:"tax_total" gorm:"type:numeric(12,2)"`
	Total    decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	TaxRate  decimal.Decimal `json:"tax_rate" gorm:"type:numeric(6,4)"`

	// Raw finalized line list, kept alongside the rows for audit.
	Snapshot datatypes.JSON `json:"-" gorm:"type:jsonb"`

	IssuedAt  time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_invoices_user_created,priority:2"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	invoice.Id = uuid.NewString()
	return
}

type InvoiceLine struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	InvoiceID string `json:"-" gorm:"index;not null"`

	Position  int             `json:"position"` // insertion order of the finalized cart
	LineID    int64           `json:"line_id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
}
