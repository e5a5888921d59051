package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

var (
	datePattern   = regexp.MustCompile(`^(\d{2})([/.-])(\d{2})([/.-])(\d{4})$`)
	amountPattern = regexp.MustCompile(`^[+-]?(\d{1,3}(,\d{3})+|\d+)\.\d{1,2}$`)
)

// ParseDate matches DD<sep>MM<sep>YYYY with one separator used twice and a
// real calendar day. It returns the date normalized to DD/MM/YYYY.
func ParseDate(text string) (string, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil || m[2] != m[4] {
		return "", false
	}
	normalized := m[1] + "/" + m[3] + "/" + m[5]
	if _, err := time.Parse(dateLayout, normalized); err != nil {
		return "", false
	}
	return normalized, true
}

// ParseAmount matches an optionally signed number with optional thousands
// separators and one or two fractional digits.
func ParseAmount(text string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(text)
	if !amountPattern.MatchString(s) {
		return decimal.Decimal{}, false
	}
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "+")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
