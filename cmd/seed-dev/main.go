// seed-dev populates a development database with a small canonical data set:
// customers and products with aliases, plus one open sales order, so the
// reconcile/analyze/import endpoints have something to match against.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"github.com/shopspring/decimal"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	customers := []struct {
		name    string
		aliases []string
	}{
		{name: "Acme Traders", aliases: []string{"Acme Trading Co", "ACME"}},
		{name: "Sunrise Distributors", aliases: []string{"Sunrise Dist"}},
		{name: "Golden Valley Stores", aliases: nil},
	}
	products := []struct {
		name    string
		stock   int64
		aliases []string
	}{
		{name: "Premium Basmati Rice 5kg", stock: 120, aliases: []string{"Basmati Rice 5kg"}},
		{name: "Sunflower Oil 1L", stock: 300, aliases: []string{"Sun Oil 1L"}},
		{name: "Brown Sugar 1kg", stock: 80, aliases: nil},
	}

	customerIds := make(map[string]int)
	for _, cust := range customers {
		customer := &models.Customer{Name: cust.name}
		if err := models.CreateCustomer(ctx, customer); err != nil {
			fail("create customer %q: %v", cust.name, err)
		}
		customerIds[cust.name] = customer.ID
		for _, alias := range cust.aliases {
			if err := models.CreateCustomerAlias(ctx, &models.CustomerAlias{AliasName: alias, CustomerId: customer.ID}); err != nil {
				fail("create customer alias %q: %v", alias, err)
			}
		}
	}

	for _, prod := range products {
		product := &models.Product{Name: prod.name, Stock: decimal.NewFromInt(prod.stock)}
		if err := models.CreateProduct(ctx, product); err != nil {
			fail("create product %q: %v", prod.name, err)
		}
		for _, alias := range prod.aliases {
			if err := models.CreateProductAlias(ctx, &models.ProductAlias{AliasName: alias, ProductId: product.ID}); err != nil {
				fail("create product alias %q: %v", alias, err)
			}
		}
	}

	order := &models.SalesOrder{
		CustomerId:    customerIds["Acme Traders"],
		CurrentStatus: models.SalesOrderStatusOpen,
		TotalAmount:   decimal.NewFromInt(1300),
		Items: []*models.SalesOrderItem{
			{ProductName: "Premium Basmati Rice 5kg", Qty: decimal.NewFromInt(2), Price: decimal.NewFromInt(500)},
			{ProductName: "Sunflower Oil 1L", Qty: decimal.NewFromInt(3), Price: decimal.NewFromInt(100)},
		},
	}
	if err := models.CreateSalesOrder(ctx, order); err != nil {
		fail("create sales order: %v", err)
	}

	fmt.Println("seeded development data")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
