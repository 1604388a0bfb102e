package workflow

import (
	"context"
	"strings"

	"bitbucket.org/mmdatafocus/recon_backend/models"
	"github.com/shopspring/decimal"
)

type LinkOutcome string

const (
	LinkNone    LinkOutcome = "none"
	LinkClosed  LinkOutcome = "closed"
	LinkPartial LinkOutcome = "partial"
)

// InvoiceLine is the name/qty view of an invoice row used for order
// comparison.
type InvoiceLine struct {
	ProductName string
	Qty         decimal.Decimal
}

// LinkCustomerOrders checks the customer's single most recent open or
// partially open order against the imported invoice's rows. A full match,
// meaning every order item is covered by an invoice row with the same
// product name and quantity, closes the order; anything less marks it
// partial_open. Both outcomes record the invoice id on the order,
// overwriting a prior link.
// Having no qualifying order is a normal outcome, not an error; older open
// orders are never touched.
func LinkCustomerOrders(ctx context.Context, store ImportStore, customerId int, invoiceId int, lines []InvoiceLine) (LinkOutcome, error) {
	order, err := store.LatestOpenOrder(ctx, customerId)
	if err != nil {
		return LinkNone, err
	}
	if order == nil {
		return LinkNone, nil
	}

	fullySatisfied := true
	for _, orderItem := range order.Items {
		if !hasMatchingLine(lines, orderItem.ProductName, orderItem.Qty) {
			fullySatisfied = false
			break
		}
	}

	status := models.SalesOrderStatusPartialOpen
	outcome := LinkPartial
	if fullySatisfied {
		status = models.SalesOrderStatusClosed
		outcome = LinkClosed
	}
	if err := store.LinkOrder(ctx, order.ID, invoiceId, status); err != nil {
		return LinkNone, err
	}
	return outcome, nil
}

func hasMatchingLine(lines []InvoiceLine, productName string, qty decimal.Decimal) bool {
	for _, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line.ProductName), strings.TrimSpace(productName)) && line.Qty.Equal(qty) {
			return true
		}
	}
	return false
}
