package workflow

import (
	"bytes"
	"strings"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet data starts after two leading header rows; the third row carries the
// column names.
const headerRowOffset = 2

// ParseSalesSheet reads the first worksheet of an uploaded .xlsx buffer into
// import rows. Columns are recognized by header name; unrecognized columns
// are ignored. Malformed workbooks surface as ValidationError.
func ParseSalesSheet(data []byte) ([]ImportRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, utils.NewValidationError("unable to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, utils.NewValidationError("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, utils.NewValidationError("unable to read sheet %s: %v", sheets[0], err)
	}
	if len(rows) <= headerRowOffset+1 {
		return nil, nil
	}

	columns := recognizeColumns(rows[headerRowOffset])
	importRows := make([]ImportRow, 0, len(rows)-headerRowOffset-1)
	for _, row := range rows[headerRowOffset+1:] {
		importRows = append(importRows, ImportRow{
			InvoiceNo:    FlexString(cellAt(row, columns.invoiceNo)),
			CustomerName: FlexString(cellAt(row, columns.customerName)),
			ProductName:  FlexString(cellAt(row, columns.productName)),
			Qty:          FlexString(cellAt(row, columns.qty)),
			Rate:         FlexString(cellAt(row, columns.rate)),
		})
	}
	return importRows, nil
}

type sheetColumns struct {
	invoiceNo    int
	customerName int
	productName  int
	qty          int
	rate         int
}

func recognizeColumns(header []string) sheetColumns {
	columns := sheetColumns{invoiceNo: -1, customerName: -1, productName: -1, qty: -1, rate: -1}
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "invoice no./txn no.", "invoice no", "invoice no.", "invoice number":
			columns.invoiceNo = i
		case "party name", "customer name":
			columns.customerName = i
		case "item name", "product name":
			columns.productName = i
		case "quantity", "qty":
			columns.qty = i
		case "price/unit", "rate":
			columns.rate = i
		}
	}
	return columns
}

func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
