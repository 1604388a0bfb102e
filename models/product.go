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

type Product struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:100;not null;index" json:"name" binding:"required" validate:"required,max=100"`
	Stock     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type ProductAlias struct {
	ID        int    `gorm:"primary_key" json:"id"`
	AliasName string `gorm:"size:100;not null;index" json:"alias_name" binding:"required" validate:"required,max=100"`
	ProductId int    `gorm:"not null;index" json:"product_id" binding:"required" validate:"required"`
}

// GetProductIdByName resolves a product by case-insensitive name equality,
// lowest id first. Returns utils.ErrorRecordNotFound when no row matches.
func GetProductIdByName(ctx context.Context, name string) (int, error) {
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id ASC").
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, utils.ErrorRecordNotFound
	}
	if err != nil {
		return 0, utils.NewStoreError("products.GetProductIdByName", err)
	}
	return product.ID, nil
}

// AdjustProductStock applies a signed delta to the product's stock column.
// The decrement runs as a single UPDATE; no optimistic-concurrency check,
// concurrent batches are serialized by the import lock instead.
func AdjustProductStock(ctx context.Context, productId int, delta decimal.Decimal) error {
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", productId).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
	if err != nil {
		return utils.NewStoreError("products.AdjustProductStock", err)
	}
	return nil
}

func CreateProduct(ctx context.Context, product *Product) error {
	if err := utils.ValidateStruct(product); err != nil {
		return err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(product).Error; err != nil {
		return utils.NewStoreError("products.CreateProduct", err)
	}
	return nil
}

func CreateProductAlias(ctx context.Context, alias *ProductAlias) error {
	if err := utils.ValidateStruct(alias); err != nil {
		return err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(alias).Error; err != nil {
		return utils.NewStoreError("product_aliases.CreateProductAlias", err)
	}
	return nil
}
