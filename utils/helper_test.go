package utils_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/shopspring/decimal"
)

func TestParseDecimalLoose(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2", want: "2"},
		{in: " 50.5 ", want: "50.5"},
		{in: "1,250.00", want: "1250"},
		{in: "-3", want: "-3"},
		{in: "", wantErr: true},
		{in: "two", wantErr: true},
	}
	for _, tc := range cases {
		got, err := utils.ParseDecimalLoose(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalLoose(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalLoose(%q) error: %v", tc.in, err)
			continue
		}
		want, _ := decimal.NewFromString(tc.want)
		if !got.Equal(want) {
			t.Errorf("ParseDecimalLoose(%q) = %s, want %s", tc.in, got, want)
		}
	}
}
