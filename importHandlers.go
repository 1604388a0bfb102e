package main

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/recon"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"bitbucket.org/mmdatafocus/recon_backend/workflow"
	"github.com/gin-gonic/gin"
)

// reconcileHandler classifies free-text customer/product names against the
// canonical tables. Absent arrays are treated as empty.
func reconcileHandler(reconciler *recon.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recon.Request
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		report, err := reconciler.Reconcile(c.Request.Context(), req)
		if err != nil {
			config.LogError(config.GetLogger(), "importHandlers.go", "reconcileHandler", "Reconcile", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

type analyzeResponse struct {
	TotalRows     int                 `json:"total_rows"`
	TotalInvoices int                 `json:"total_invoices"`
	Customers     []recon.MatchResult `json:"customers"`
	Products      []recon.MatchResult `json:"products"`
}

// analyzeSalesHandler parses an uploaded sales export and reconciles every
// distinct customer and product name it mentions, without writing anything.
func analyzeSalesHandler(reconciler *recon.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "analyzeSales")
		defer span.End()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		defer file.Close()
		buf, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read upload"})
			return
		}

		rows, err := workflow.ParseSalesSheet(buf)
		if err != nil {
			if utils.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			config.LogError(config.GetLogger(), "importHandlers.go", "analyzeSalesHandler", "ParseSalesSheet", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(rows) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empty file"})
			return
		}

		invoices := make(map[string]struct{})
		for _, row := range rows {
			if no := strings.TrimSpace(string(row.InvoiceNo)); no != "" {
				invoices[no] = struct{}{}
			}
		}

		report, err := reconciler.Reconcile(ctx, recon.Request{
			Customers: distinctNames(rows, func(r workflow.ImportRow) string { return string(r.CustomerName) }),
			Products:  distinctNames(rows, func(r workflow.ImportRow) string { return string(r.ProductName) }),
		})
		if err != nil {
			config.LogError(config.GetLogger(), "importHandlers.go", "analyzeSalesHandler", "Reconcile", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, analyzeResponse{
			TotalRows:     len(rows),
			TotalInvoices: len(invoices),
			Customers:     report.Customers,
			Products:      report.Products,
		})
	}
}

type importRequest struct {
	Rows []workflow.ImportRow `json:"rows"`
}

// importSalesHandler persists a batch of pre-parsed sales rows. A fatal
// failure anywhere in the batch rolls back everything the batch created and
// surfaces the triggering error.
func importSalesHandler(importer *workflow.SalesImporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "importSales")
		defer span.End()

		var req importRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Rows == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rows must be an array"})
			return
		}
		if len(req.Rows) == 0 {
			c.JSON(http.StatusOK, workflow.ImportSummary{})
			return
		}

		summary, err := importer.ImportBatch(ctx, req.Rows)
		if err != nil {
			if utils.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			config.LogError(config.GetLogger(), "importHandlers.go", "importSalesHandler", "ImportBatch", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// distinctNames returns the non-blank names picked from rows, first-seen
// order, case-insensitively deduplicated.
func distinctNames(rows []workflow.ImportRow, pick func(workflow.ImportRow) string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, row := range rows {
		name := strings.TrimSpace(pick(row))
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}
