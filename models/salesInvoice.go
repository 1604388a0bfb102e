package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/shopspring/decimal"
)

type SalesInvoice struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	BatchId       string              `gorm:"size:36;index" json:"batch_id"`
	InvoiceNumber string              `gorm:"size:100;not null;index" json:"invoice_no"`
	CustomerId    *int                `gorm:"index" json:"customer_id"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Items         []*SalesInvoiceItem `gorm:"foreignKey:InvoiceId" json:"items"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// Invariant: LineTotal = Qty * Rate.
type SalesInvoiceItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	InvoiceId int             `gorm:"not null;index" json:"invoice_id"`
	ProductId *int            `gorm:"index" json:"product_id"`
	Qty       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	Rate      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
	LineTotal decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`
}

// CreateSalesInvoice inserts the invoice row first, then its items, inside
// one transaction. Batch-level undo across invoices stays with the caller's
// compensator; this transaction only keeps a single invoice from being
// half-written.
func CreateSalesInvoice(ctx context.Context, invoice *SalesInvoice, items []*SalesInvoiceItem) error {
	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Omit("Items").Create(invoice).Error; err != nil {
		tx.Rollback()
		return utils.NewStoreError("sales_invoices.CreateSalesInvoice", err)
	}

	for _, item := range items {
		item.InvoiceId = invoice.ID
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			tx.Rollback()
			return utils.NewStoreError("sales_invoice_items.CreateSalesInvoice", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return utils.NewStoreError("sales_invoices.CreateSalesInvoice commit", err)
	}
	return nil
}

// DeleteSalesInvoicesByIds removes items first, then invoices, for the given
// id set. Safe to call twice with the same ids; deletes of absent rows are
// no-ops.
func DeleteSalesInvoicesByIds(ctx context.Context, invoiceIds []int) error {
	if len(invoiceIds) == 0 {
		return nil
	}
	db := config.GetDB()

	if err := db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIds).
		Delete(&SalesInvoiceItem{}).Error; err != nil {
		return utils.NewStoreError("sales_invoice_items.DeleteSalesInvoicesByIds", err)
	}
	if err := db.WithContext(ctx).
		Where("id IN ?", invoiceIds).
		Delete(&SalesInvoice{}).Error; err != nil {
		return utils.NewStoreError("sales_invoices.DeleteSalesInvoicesByIds", err)
	}
	return nil
}
