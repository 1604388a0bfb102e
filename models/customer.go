package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"gorm.io/gorm"
)

type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name" binding:"required" validate:"required,max=100"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CustomerAlias maps a known alternate spelling to one customer.
// Many aliases may point to the same customer; an alias never creates one.
type CustomerAlias struct {
	ID         int    `gorm:"primary_key" json:"id"`
	AliasName  string `gorm:"size:100;not null;index" json:"alias_name" binding:"required" validate:"required,max=100"`
	CustomerId int    `gorm:"not null;index" json:"customer_id" binding:"required" validate:"required"`
}

// GetCustomerIdByName resolves a customer by case-insensitive name equality.
// Ties on case-folded names are broken by lowest id so re-imports resolve to
// the same row. Returns utils.ErrorRecordNotFound when no row matches.
func GetCustomerIdByName(ctx context.Context, name string) (int, error) {
	db := config.GetDB()
	var customer Customer
	err := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id ASC").
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, utils.ErrorRecordNotFound
	}
	if err != nil {
		return 0, utils.NewStoreError("customers.GetCustomerIdByName", err)
	}
	return customer.ID, nil
}

func CreateCustomer(ctx context.Context, customer *Customer) error {
	if err := utils.ValidateStruct(customer); err != nil {
		return err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(customer).Error; err != nil {
		return utils.NewStoreError("customers.CreateCustomer", err)
	}
	return nil
}

func CreateCustomerAlias(ctx context.Context, alias *CustomerAlias) error {
	if err := utils.ValidateStruct(alias); err != nil {
		return err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(alias).Error; err != nil {
		return utils.NewStoreError("customer_aliases.CreateCustomerAlias", err)
	}
	return nil
}
