package recon_test

import (
	"reflect"
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/recon"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercases", raw: "ACME Traders", want: "acme traders"},
		{name: "strips punctuation", raw: "Acme-Traders & Co.", want: "acme traders co"},
		{name: "drops mrp fragments", raw: "Sunflower Oil MRP 120", want: "sunflower oil"},
		{name: "drops mrp fragments without space", raw: "Brown Sugar mrp45.50", want: "brown sugar"},
		{name: "drops bare numerals", raw: "Basmati Rice 5 kg 2024", want: "basmati rice kg"},
		{name: "keeps digits glued to letters as letters", raw: "7up 500", want: "up"},
		{name: "collapses whitespace", raw: "  Golden   Valley\tStores ", want: "golden valley stores"},
		{name: "blank", raw: "   ", want: ""},
		{name: "numeric only", raw: "12 34.5", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := recon.NormalizeName(tc.raw)
			if got != tc.want {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tc.raw, got, tc.want)
			}
			// Normalization must be idempotent.
			if again := recon.NormalizeName(got); again != got {
				t.Fatalf("NormalizeName not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := recon.Tokens("Premium Basmati Rice 5kg")
	want := []string{"premium", "basmati", "rice", "kg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokens = %v, want %v", got, want)
	}

	if tokens := recon.Tokens("  "); tokens != nil {
		t.Fatalf("expected nil tokens for blank input, got %v", tokens)
	}
}
