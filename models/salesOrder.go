package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesOrderStatus string

const (
	SalesOrderStatusOpen        SalesOrderStatus = "open"
	SalesOrderStatusPartialOpen SalesOrderStatus = "partial_open"
	SalesOrderStatusClosed      SalesOrderStatus = "closed"
)

// Status only moves forward: open/partial_open -> partial_open|closed.
type SalesOrder struct {
	ID              int               `gorm:"primary_key" json:"id"`
	CustomerId      int               `gorm:"not null;index" json:"customer_id"`
	CurrentStatus   SalesOrderStatus  `gorm:"type:enum('open','partial_open','closed');not null;default:'open'" json:"current_status"`
	LinkedInvoiceId *int              `gorm:"index" json:"linked_invoice_id"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Items           []*SalesOrderItem `gorm:"foreignKey:OrderId" json:"items"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type SalesOrderItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	OrderId     int             `gorm:"not null;index" json:"order_id"`
	ProductId   *int            `gorm:"index" json:"product_id"`
	ProductName string          `gorm:"size:100;not null" json:"product_name"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
}

// GetLatestOpenSalesOrder returns the customer's single most recent order
// still awaiting fulfillment, items preloaded, or nil when there is none.
// Older open orders are never considered.
func GetLatestOpenSalesOrder(ctx context.Context, customerId int) (*SalesOrder, error) {
	db := config.GetDB()
	var order SalesOrder
	err := db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND current_status IN ?", customerId,
			[]SalesOrderStatus{SalesOrderStatusOpen, SalesOrderStatusPartialOpen}).
		Order("created_at DESC, id DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewStoreError("sales_orders.GetLatestOpenSalesOrder", err)
	}
	return &order, nil
}

// LinkSalesOrderToInvoice records the invoice on the order and moves its
// status. Overwrites any previously linked invoice id.
func LinkSalesOrderToInvoice(ctx context.Context, orderId int, invoiceId int, status SalesOrderStatus) error {
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&SalesOrder{}).
		Where("id = ?", orderId).
		Updates(map[string]interface{}{
			"current_status":    status,
			"linked_invoice_id": invoiceId,
		}).Error
	if err != nil {
		return utils.NewStoreError("sales_orders.LinkSalesOrderToInvoice", err)
	}
	return nil
}

func CreateSalesOrder(ctx context.Context, order *SalesOrder) error {
	db := config.GetDB()
	tx := db.Begin()

	items := order.Items
	if err := tx.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		tx.Rollback()
		return utils.NewStoreError("sales_orders.CreateSalesOrder", err)
	}
	for _, item := range items {
		item.OrderId = order.ID
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			tx.Rollback()
			return utils.NewStoreError("sales_order_items.CreateSalesOrder", err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return utils.NewStoreError("sales_orders.CreateSalesOrder commit", err)
	}
	return nil
}
