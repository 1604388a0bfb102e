package recon

import (
	"regexp"
	"strings"
)

var (
	mrpFragmentRe = regexp.MustCompile(`mrp\s*\d+(\.\d+)?`)
	bareNumberRe  = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	nonLetterRe   = regexp.MustCompile(`[^a-z ]+`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a raw imported name into lowercase alphabetic
// tokens joined by single spaces. Pricing noise ("MRP 120"), bare numerals
// and punctuation are dropped. Pure and idempotent.
func NormalizeName(raw string) string {
	s := strings.ToLower(raw)
	s = mrpFragmentRe.ReplaceAllString(s, " ")
	s = bareNumberRe.ReplaceAllString(s, " ")
	s = nonLetterRe.ReplaceAllString(s, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens returns the normalized token sequence of a name, in input order.
func Tokens(raw string) []string {
	normalized := NormalizeName(raw)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

func tokenSet(raw string) map[string]struct{} {
	tokens := Tokens(raw)
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
