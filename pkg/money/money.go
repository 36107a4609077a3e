package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary value to two decimal places (cent precision).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromString parses a monetary value from its decimal string form.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// FormatBRL renders a value in Brazilian currency notation, e.g.
// 1234.5 -> "R$ 1.234,50". Display-only; never feed the result back
// into arithmetic.
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + fracPart
	if neg {
		out = "R$ -" + b.String() + "," + fracPart
	}
	return out
}
