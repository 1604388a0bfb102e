package workflow

import (
	"context"
	"errors"
	"strings"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ImportStore is the persistence surface the sales import pipeline needs.
// Lookup methods return utils.ErrorRecordNotFound when nothing matches.
type ImportStore interface {
	CustomerIdByName(ctx context.Context, name string) (int, error)
	ProductIdByName(ctx context.Context, name string) (int, error)
	CreateInvoice(ctx context.Context, invoice *models.SalesInvoice, items []*models.SalesInvoiceItem) error
	AdjustProductStock(ctx context.Context, productId int, delta decimal.Decimal) error
	LatestOpenOrder(ctx context.Context, customerId int) (*models.SalesOrder, error)
	LinkOrder(ctx context.Context, orderId int, invoiceId int, status models.SalesOrderStatus) error
	DeleteInvoices(ctx context.Context, invoiceIds []int) error
}

// DBImportStore is the MySQL-backed ImportStore.
type DBImportStore struct{}

func (DBImportStore) CustomerIdByName(ctx context.Context, name string) (int, error) {
	return models.GetCustomerIdByName(ctx, name)
}

func (DBImportStore) ProductIdByName(ctx context.Context, name string) (int, error) {
	return models.GetProductIdByName(ctx, name)
}

func (DBImportStore) CreateInvoice(ctx context.Context, invoice *models.SalesInvoice, items []*models.SalesInvoiceItem) error {
	return models.CreateSalesInvoice(ctx, invoice, items)
}

func (DBImportStore) AdjustProductStock(ctx context.Context, productId int, delta decimal.Decimal) error {
	return models.AdjustProductStock(ctx, productId, delta)
}

func (DBImportStore) LatestOpenOrder(ctx context.Context, customerId int) (*models.SalesOrder, error) {
	return models.GetLatestOpenSalesOrder(ctx, customerId)
}

func (DBImportStore) LinkOrder(ctx context.Context, orderId int, invoiceId int, status models.SalesOrderStatus) error {
	return models.LinkSalesOrderToInvoice(ctx, orderId, invoiceId, status)
}

func (DBImportStore) DeleteInvoices(ctx context.Context, invoiceIds []int) error {
	return models.DeleteSalesInvoicesByIds(ctx, invoiceIds)
}

type ImportSummary struct {
	CreatedInvoices    int `json:"created_invoices"`
	CreatedItems       int `json:"created_items"`
	OrdersLinked       int `json:"orders_linked"`
	PartialOrders      int `json:"partial_orders"`
	StandaloneInvoices int `json:"standalone_invoices"`
}

type InvoiceGroup struct {
	InvoiceNo string
	Rows      []ImportRow
}

// GroupRowsByInvoice partitions rows by invoice number in first-seen order.
// Rows without an invoice number are silently dropped; the key is the
// trimmed textual form so numeric and string cells group together.
func GroupRowsByInvoice(rows []ImportRow) []InvoiceGroup {
	index := make(map[string]int)
	groups := make([]InvoiceGroup, 0)
	for _, row := range rows {
		invoiceNo := strings.TrimSpace(string(row.InvoiceNo))
		if invoiceNo == "" {
			continue
		}
		i, ok := index[invoiceNo]
		if !ok {
			i = len(groups)
			index[invoiceNo] = i
			groups = append(groups, InvoiceGroup{InvoiceNo: invoiceNo})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

// importContext carries the per-batch caches and bookkeeping. Nothing here
// outlives one ImportBatch call.
type importContext struct {
	batchId           string
	customerIds       map[string]*int // lower(name) -> id; nil = known missing
	productIds        map[string]int
	createdInvoiceIds []int
	summary           ImportSummary
}

type SalesImporter struct {
	store  ImportStore
	logger *logrus.Logger
}

func NewSalesImporter(store ImportStore, logger *logrus.Logger) *SalesImporter {
	return &SalesImporter{store: store, logger: logger}
}

// ImportBatch persists every invoice group in rows, sequentially and in
// first-seen order. Later groups must not be committed once an earlier one
// fails, so there is no parallelism here. The first fatal error anywhere
// stops the batch, the rollback compensator removes every invoice created
// so far, and the original error is returned with zeroed counters.
func (imp *SalesImporter) ImportBatch(ctx context.Context, rows []ImportRow) (ImportSummary, error) {
	groups := GroupRowsByInvoice(rows)
	if len(groups) == 0 {
		return ImportSummary{}, nil
	}

	// Serialize import batches so two of them cannot double-decrement stock
	// or double-link the same order.
	release, err := utils.ObtainBatchLock(ctx, "sales_import", "salesImportWorkflow.go", "ImportBatch")
	if err != nil {
		return ImportSummary{}, err
	}
	defer release()

	ic := &importContext{
		batchId:     uuid.NewString(),
		customerIds: make(map[string]*int),
		productIds:  make(map[string]int),
	}

	imp.logger.WithFields(logrus.Fields{
		"module":   "salesImportWorkflow.go",
		"batch_id": ic.batchId,
		"groups":   len(groups),
		"rows":     len(rows),
	}).Info("starting sales import batch")

	for _, group := range groups {
		if err := imp.importGroup(ctx, ic, group); err != nil {
			imp.rollback(ctx, ic)
			return ImportSummary{}, err
		}
	}
	return ic.summary, nil
}

func (imp *SalesImporter) importGroup(ctx context.Context, ic *importContext, group InvoiceGroup) error {
	customerId, err := imp.resolveCustomer(ctx, ic, group)
	if err != nil {
		return err
	}

	items := make([]*models.SalesInvoiceItem, 0, len(group.Rows))
	lines := make([]InvoiceLine, 0, len(group.Rows))
	totalAmount := decimal.Zero

	for _, row := range group.Rows {
		qty, err := utils.ParseDecimalLoose(string(row.Qty))
		if err != nil || !qty.IsPositive() {
			return utils.NewValidationError("invalid qty for invoice %s", group.InvoiceNo)
		}
		rate, err := utils.ParseDecimalLoose(string(row.Rate))
		if err != nil || rate.IsNegative() {
			return utils.NewValidationError("invalid rate for invoice %s", group.InvoiceNo)
		}

		productName := strings.TrimSpace(string(row.ProductName))
		if productName == "" {
			return utils.NewValidationError("missing product_name for invoice %s", group.InvoiceNo)
		}
		productId, err := imp.resolveProduct(ctx, ic, productName)
		if err != nil {
			return err
		}

		lineTotal := qty.Mul(rate)
		totalAmount = totalAmount.Add(lineTotal)

		items = append(items, &models.SalesInvoiceItem{
			ProductId: utils.NewInt(productId),
			Qty:       qty,
			Rate:      rate,
			LineTotal: lineTotal,
		})
		lines = append(lines, InvoiceLine{ProductName: productName, Qty: qty})
	}

	invoice := &models.SalesInvoice{
		BatchId:       ic.batchId,
		InvoiceNumber: group.InvoiceNo,
		CustomerId:    customerId,
		TotalAmount:   totalAmount,
	}
	if err := imp.store.CreateInvoice(ctx, invoice, items); err != nil {
		return err
	}
	ic.createdInvoiceIds = append(ic.createdInvoiceIds, invoice.ID)
	ic.summary.CreatedInvoices++
	ic.summary.CreatedItems += len(items)

	for _, item := range items {
		if err := imp.store.AdjustProductStock(ctx, *item.ProductId, item.Qty.Neg()); err != nil {
			return err
		}
	}

	if customerId == nil {
		ic.summary.StandaloneInvoices++
		return nil
	}

	outcome, err := LinkCustomerOrders(ctx, imp.store, *customerId, invoice.ID, lines)
	if err != nil {
		return err
	}
	switch outcome {
	case LinkClosed:
		ic.summary.OrdersLinked++
	case LinkPartial:
		ic.summary.PartialOrders++
	}
	return nil
}

// resolveCustomer maps the group's customer name to an id. A missing
// customer is not fatal; the invoice proceeds without one.
func (imp *SalesImporter) resolveCustomer(ctx context.Context, ic *importContext, group InvoiceGroup) (*int, error) {
	customerName := strings.TrimSpace(string(group.Rows[0].CustomerName))
	if customerName == "" {
		return nil, nil
	}

	key := strings.ToLower(customerName)
	if id, ok := ic.customerIds[key]; ok {
		return id, nil
	}

	customerId, err := imp.store.CustomerIdByName(ctx, customerName)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		ic.customerIds[key] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := &customerId
	ic.customerIds[key] = id
	return id, nil
}

// resolveProduct maps a product name to an id. A missing product is fatal
// for the whole batch.
func (imp *SalesImporter) resolveProduct(ctx context.Context, ic *importContext, productName string) (int, error) {
	key := strings.ToLower(productName)
	if id, ok := ic.productIds[key]; ok {
		return id, nil
	}

	productId, err := imp.store.ProductIdByName(ctx, productName)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return 0, utils.NewNotFoundError("product", productName)
	}
	if err != nil {
		return 0, err
	}
	ic.productIds[key] = productId
	return productId, nil
}

// rollback deletes every invoice (and its items) this batch committed so
// far. Best-effort compensation, not a transaction: its own failures are
// logged and never mask the error that triggered it. Safe to run twice.
func (imp *SalesImporter) rollback(ctx context.Context, ic *importContext) {
	if len(ic.createdInvoiceIds) == 0 {
		return
	}
	if err := imp.store.DeleteInvoices(ctx, ic.createdInvoiceIds); err != nil {
		config.LogError(imp.logger, "salesImportWorkflow.go", "rollback", "DeleteInvoices", ic.createdInvoiceIds, err)
		return
	}
	imp.logger.WithFields(logrus.Fields{
		"module":      "salesImportWorkflow.go",
		"batch_id":    ic.batchId,
		"invoice_ids": ic.createdInvoiceIds,
	}).Warn("rolled back failed import batch")
}
