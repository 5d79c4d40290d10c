// Package pricing converts supplier RMB quotations into client-facing
// prices and totals. Arithmetic runs on decimals; callers round only at the
// response or storage boundary so per-line drift cannot accumulate.
package pricing

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrExchangeRate reports a zero or negative exchange rate. Input
// validation rejects such offers before they are stored; the calculator
// refuses them anyway rather than divide by zero.
var ErrExchangeRate = errors.New("exchange rate must be positive")

// Offer is the calculator's view of a supplier quotation.
type Offer struct {
	UnitPriceRMB float64
	ExchangeRate float64 // RMB per one unit of the client currency
	Visible      bool
}

// Line pairs a request's quantity with its offers.
type Line struct {
	Quantity int
	Offers   []Offer
}

// UnitPrice converts the supplier unit price into the client currency.
func UnitPrice(o Offer) (decimal.Decimal, error) {
	if o.ExchangeRate <= 0 {
		return decimal.Zero, ErrExchangeRate
	}
	return decimal.NewFromFloat(o.UnitPriceRMB).
		Div(decimal.NewFromFloat(o.ExchangeRate)), nil
}

// LineTotal is the converted unit price times the request quantity.
func LineTotal(o Offer, quantity int) (decimal.Decimal, error) {
	unit, err := UnitPrice(o)
	if err != nil {
		return decimal.Zero, err
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// AggregateTotal sums the line totals of every client-visible offer across
// the given lines. Hidden offers never contribute to a client total.
func AggregateTotal(lines []Line) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		for _, o := range line.Offers {
			if !o.Visible {
				continue
			}
			lt, err := LineTotal(o, line.Quantity)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(lt)
		}
	}
	return total, nil
}

var (
	dimSeparator = regexp.MustCompile(`(?i)\s*[x*×]\s*`)
	dimDecimal   = regexp.MustCompile(`(\d)\.(\d)`)
	digit        = regexp.MustCompile(`\d`)
)

// dimension units recognized as a trailing suffix, longest first so "mm"
// and "cm" win over "m".
var dimUnits = []string{"mm", "cm", "m"}

// NormalizeDimensions canonicalizes a free-text dimension string:
// measures split on x/*/× separators, decimal points folded to commas, a
// trailing unit (default cm) re-attached with single spacing. The transform
// is idempotent; strings without digits pass through untouched.
//
//	"10x20x30"   -> "10 x 20 x 30 cm"
//	"5,5 * 3mm"  -> "5,5 x 3 mm"
func NormalizeDimensions(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !digit.MatchString(s) {
		return s
	}

	unit := "cm"
	lower := strings.ToLower(s)
	for _, u := range dimUnits {
		if strings.HasSuffix(lower, u) {
			unit = u
			s = strings.TrimSpace(s[:len(s)-len(u)])
			break
		}
	}

	parts := dimSeparator.Split(s, -1)
	measures := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		measures = append(measures, dimDecimal.ReplaceAllString(p, "$1,$2"))
	}
	if len(measures) == 0 {
		return s
	}
	return strings.Join(measures, " x ") + " " + unit
}
