package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func NewInt(i int) *int {
	return &i
}

func ParseDecimal(value string) (decimal.Decimal, error) {
	// Remove any whitespace and check for empty strings
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	// Convert string to decimal
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// ParseDecimalLoose tolerates thousands separators that spreadsheet exports
// leave in numeric cells, e.g. "1,250.00".
func ParseDecimalLoose(value string) (decimal.Decimal, error) {
	return ParseDecimal(strings.ReplaceAll(value, ",", ""))
}
