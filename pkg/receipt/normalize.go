package receipt

import (
	"strconv"
	"strings"
	"time"

	"github.com/nabil-devId/expensee-api/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownMerchant is the sentinel used when extraction produced no merchant.
const UnknownMerchant = "Unknown Merchant"

// dateFormats is tried in order; day-first formats come before month-first
// since the primary user locale writes day-first dates.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

var titleCaser = cases.Title(language.English)

type (
	NormalizedItem struct {
		Name       string
		Quantity   int
		UnitPrice  decimal.Decimal
		TotalPrice decimal.Decimal
	}

	NormalizedReceipt struct {
		MerchantName    string
		TotalAmount     decimal.Decimal
		TransactionDate time.Time
		PaymentMethod   string
		Items           []NormalizedItem
		Confidence      domain.RawConfidenceScores
	}
)

// NormalizeExtraction converts a raw extraction into canonical typed values.
// Every field normalizer is total: garbage in, best-effort canonical value
// out, never an error.
func NormalizeExtraction(raw domain.RawExtraction) NormalizedReceipt {
	return NormalizedReceipt{
		MerchantName:    NormalizeMerchant(raw.MerchantName.String()),
		TotalAmount:     NormalizeAmount(raw.TotalAmount.String()),
		TransactionDate: NormalizeDate(raw.TransactionDate.String()),
		PaymentMethod:   NormalizePaymentMethod(raw.PaymentMethod.String()),
		Items:           NormalizeItems(raw.Items),
		Confidence:      raw.Confidence,
	}
}

// NormalizeAmount parses an amount string that may carry locale-specific
// thousands and decimal separators. When both "," and "." appear, the one
// occurring later in the string is the decimal separator. When a single
// separator kind appears and its final group has at most 2 digits it is
// treated as decimal, otherwise all separators are thousands groupings.
// Negative, zero and unparseable inputs normalize to 0.
func NormalizeAmount(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// EU style: 1.234,56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			// US style: 1,234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = resolveSingleSeparator(cleaned, ",")
	case lastDot >= 0:
		cleaned = resolveSingleSeparator(cleaned, ".")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.Sign() <= 0 {
		return decimal.Zero
	}
	return amount
}

func resolveSingleSeparator(s, sep string) string {
	groups := strings.Split(s, sep)
	last := groups[len(groups)-1]
	if len(last) <= 2 {
		return strings.Join(groups[:len(groups)-1], "") + "." + last
	}
	return strings.Join(groups, "")
}

// NormalizeMerchant collapses internal whitespace and converts shouty
// all-caps names to title case.
func NormalizeMerchant(s string) string {
	name := strings.Join(strings.Fields(s), " ")
	if name == "" {
		return UnknownMerchant
	}
	if name == strings.ToUpper(name) && name != strings.ToLower(name) {
		name = titleCaser.String(strings.ToLower(name))
	}
	return name
}

// NormalizeDate tries the known receipt date formats in order; the first
// match wins. Unparseable input yields the current date.
func NormalizeDate(s string) time.Time {
	trimmed := strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, trimmed); err == nil {
			return t
		}
	}
	return time.Now()
}

var paymentKeywords = []struct {
	keywords []string
	label    string
}{
	{[]string{"visa", "mastercard", "master card", "amex", "american express", "credit", "kredit"}, "Credit Card"},
	{[]string{"debit"}, "Debit Card"},
	{[]string{"cash", "tunai"}, "Cash"},
	{[]string{"gopay"}, "GoPay"},
	{[]string{"ovo"}, "OVO"},
	{[]string{"dana"}, "DANA"},
	{[]string{"shopeepay", "shopee pay"}, "ShopeePay"},
	{[]string{"qris"}, "QRIS"},
}

// NormalizePaymentMethod maps free-form payment text to a canonical label.
// Unrecognized values pass through title-cased; missing becomes "Unknown".
func NormalizePaymentMethod(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "Unknown"
	}
	lowered := strings.ToLower(trimmed)
	for _, group := range paymentKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lowered, keyword) {
				return group.label
			}
		}
	}
	return titleCaser.String(lowered)
}

// NormalizeItems drops nameless items, clamps quantity to at least 1 and
// prices to at least 0, and recomputes a zero or missing total as
// price x quantity.
func NormalizeItems(items []domain.RawExtractionItem) []NormalizedItem {
	normalized := make([]NormalizedItem, 0, len(items))
	for _, item := range items {
		name := strings.Join(strings.Fields(item.Name.String()), " ")
		if name == "" {
			continue
		}

		quantity := normalizeQuantity(item.Quantity.String())
		price := NormalizeAmount(item.Price.String())
		total := NormalizeAmount(item.TotalPrice.String())
		if total.IsZero() {
			total = price.Mul(decimal.NewFromInt(int64(quantity)))
		}

		normalized = append(normalized, NormalizedItem{
			Name:       name,
			Quantity:   quantity,
			UnitPrice:  price,
			TotalPrice: total,
		})
	}
	return normalized
}

func normalizeQuantity(s string) int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 1
	}
	if q, err := strconv.Atoi(trimmed); err == nil {
		if q < 1 {
			return 1
		}
		return q
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if f >= 1 && f == float64(int(f)) {
			return int(f)
		}
	}
	return 1
}
