package workflow_test

import (
	"bytes"
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"bitbucket.org/mmdatafocus/recon_backend/workflow"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseSalesSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Sale Report"},
		{"01/04/2026 to 30/04/2026"},
		{"Invoice No./Txn No.", "Party Name", "Item Name", "Quantity", "Price/Unit"},
		{"INV-100", "Acme Traders", "Basmati Rice", 2, 50},
		{101, "Sunrise Distributors", "Sunflower Oil", 3, 20.5},
	})

	rows, err := workflow.ParseSalesSheet(data)
	if err != nil {
		t.Fatalf("ParseSalesSheet returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	first := rows[0]
	if first.InvoiceNo != "INV-100" || first.CustomerName != "Acme Traders" ||
		first.ProductName != "Basmati Rice" || first.Qty != "2" || first.Rate != "50" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	// Numeric invoice cells come back as text so grouping stays stable.
	if rows[1].InvoiceNo != "101" {
		t.Fatalf("numeric invoice no = %q, want \"101\"", rows[1].InvoiceNo)
	}
	if rows[1].Rate != "20.5" {
		t.Fatalf("rate = %q, want \"20.5\"", rows[1].Rate)
	}
}

func TestParseSalesSheetAlternateHeaders(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Export"},
		{"-"},
		{"Invoice No", "Customer Name", "Product Name", "Qty", "Rate"},
		{"INV-1", "Acme", "Rice", "1", "10"},
	})

	rows, err := workflow.ParseSalesSheet(data)
	if err != nil {
		t.Fatalf("ParseSalesSheet returned error: %v", err)
	}
	if len(rows) != 1 || rows[0].InvoiceNo != "INV-1" || rows[0].CustomerName != "Acme" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestParseSalesSheetHeaderOnly(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Sale Report"},
		{"-"},
		{"Invoice No./Txn No.", "Party Name", "Item Name", "Quantity", "Price/Unit"},
	})

	rows, err := workflow.ParseSalesSheet(data)
	if err != nil {
		t.Fatalf("ParseSalesSheet returned error: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestParseSalesSheetUnrecognizedColumns(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Export"},
		{"-"},
		{"Foo", "Bar"},
		{"x", "y"},
	})

	rows, err := workflow.ParseSalesSheet(data)
	if err != nil {
		t.Fatalf("ParseSalesSheet returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].InvoiceNo != "" || rows[0].ProductName != "" {
		t.Fatalf("unmapped columns must stay empty: %+v", rows[0])
	}
}

func TestParseSalesSheetRejectsGarbage(t *testing.T) {
	_, err := workflow.ParseSalesSheet([]byte("not a workbook"))
	if !utils.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
