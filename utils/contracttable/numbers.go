package contracttable

import (
	"strconv"
	"strings"
)

var moneyReplacer = strings.NewReplacer(
	"$", "",
	",", "",
	"USD", "",
	" ", " ",
	"–", "-",
	"—", "-",
)

// ParseMoney parses a currency cell into a float. Thousands separators and
// currency symbols are stripped; parenthesized values are negative.
// Unparsable text yields nil, never zero: a missing rate is not the same
// fact as a zero rate.
func ParseMoney(s string) *float64 {
	cleaned := strings.TrimSpace(moneyReplacer.Replace(s))
	if cleaned == "" || cleaned == "-" || cleaned == "--" {
		return nil
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	if negative {
		v = -v
	}
	return &v
}

// ParseQuantity parses a quantity cell. Quantities may be fractional
// (e.g. "2.5" yards of concrete) and may carry thousands separators.
func ParseQuantity(s string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
