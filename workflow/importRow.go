package workflow

import (
	"bytes"
	"encoding/json"
)

// FlexString accepts JSON strings or bare numbers. Spreadsheet exports and
// the clients that re-post their rows are inconsistent about which one a
// cell carries, and invoice numbers must group by textual form either way.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = FlexString(num.String())
	return nil
}

// ImportRow is one imported spreadsheet row. Ephemeral; never persisted
// as-is.
type ImportRow struct {
	InvoiceNo    FlexString `json:"invoice_no"`
	CustomerName FlexString `json:"customer_name"`
	ProductName  FlexString `json:"product_name"`
	Qty          FlexString `json:"qty"`
	Rate         FlexString `json:"rate"`
}
