package models

import (
	"log"

	"bitbucket.org/mmdatafocus/recon_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Customer{}, &CustomerAlias{},
		&Product{}, &ProductAlias{},
		&SalesInvoice{}, &SalesInvoiceItem{},
		&SalesOrder{}, &SalesOrderItem{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
