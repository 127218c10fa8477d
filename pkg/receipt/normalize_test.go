package receipt

import (
	"testing"
	"time"

	"github.com/nabil-devId/expensee-api/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "PlainInteger", input: "45000", want: "45000"},
		{name: "USStyle", input: "1,234.56", want: "1234.56"},
		{name: "EUStyle", input: "1.234,56", want: "1234.56"},
		{name: "DotThousandsGrouping", input: "45.000", want: "45000"},
		{name: "CommaThousandsGrouping", input: "45,000", want: "45000"},
		{name: "DotDecimal", input: "45.99", want: "45.99"},
		{name: "CommaDecimal", input: "45,99", want: "45.99"},
		{name: "MultipleDotGroups", input: "1.234.567", want: "1234567"},
		{name: "RepeatedSeparatorsShortFinalGroup", input: "12,34,56", want: "1234.56"},
		{name: "CurrencyPrefix", input: "Rp 45.000", want: "45000"},
		{name: "DollarPrefix", input: "$1,234.56", want: "1234.56"},
		{name: "Negative", input: "-45.99", want: "0"},
		{name: "Zero", input: "0", want: "0"},
		{name: "Empty", input: "", want: "0"},
		{name: "Garbage", input: "n/a", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, NormalizeAmount(tt.input).Equal(want),
				"NormalizeAmount(%q) = %s, want %s", tt.input, NormalizeAmount(tt.input), want)
		})
	}
}

func TestNormalizeAmount_SeparatorEquivalence(t *testing.T) {
	// The same value written in either locale convention must normalize
	// identically.
	assert.True(t, NormalizeAmount("1.234,56").Equal(NormalizeAmount("1,234.56")))
	assert.True(t, NormalizeAmount("45,000").Equal(NormalizeAmount("45.000")))
}

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "AllCapsTitleCased", input: "STARBUCKS COFFEE", want: "Starbucks Coffee"},
		{name: "MixedCasePreserved", input: "McDonald's", want: "McDonald's"},
		{name: "WhitespaceCollapsed", input: "  Indo   Maret  ", want: "Indo Maret"},
		{name: "EmptyBecomesUnknown", input: "", want: UnknownMerchant},
		{name: "NumericOnlyPreserved", input: "7-11", want: "7-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMerchant(tt.input))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "ISO", input: "2025-03-14", want: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{name: "ISOWithTime", input: "2025-03-14 10:30:00", want: time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)},
		{name: "DayFirstSlash", input: "14/03/2025", want: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{name: "DayFirstDash", input: "14-03-2025", want: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{name: "LongForm", input: "14 March 2025", want: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		// Ambiguous day/month resolves day-first.
		{name: "AmbiguousDayFirst", input: "03/04/2025", want: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NormalizeDate(tt.input)),
				"NormalizeDate(%q) = %s, want %s", tt.input, NormalizeDate(tt.input), tt.want)
		})
	}
}

func TestNormalizeDate_UnparseableFallsBackToNow(t *testing.T) {
	before := time.Now().Add(-time.Minute)
	got := NormalizeDate("not a date")
	after := time.Now().Add(time.Minute)
	assert.True(t, got.After(before) && got.Before(after))
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Visa", input: "VISA ****1234", want: "Credit Card"},
		{name: "Mastercard", input: "mastercard", want: "Credit Card"},
		{name: "Debit", input: "Debit BCA", want: "Debit Card"},
		{name: "CashIndonesian", input: "TUNAI", want: "Cash"},
		{name: "GoPay", input: "gopay", want: "GoPay"},
		{name: "QRIS", input: "Pembayaran QRIS", want: "QRIS"},
		{name: "UnknownPassthroughTitleCased", input: "bank transfer", want: "Bank Transfer"},
		{name: "Empty", input: "", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePaymentMethod(tt.input))
		})
	}
}

func TestNormalizeItems(t *testing.T) {
	raw := []domain.RawExtractionItem{
		{Name: "Americano", Quantity: "2", Price: "25.000", TotalPrice: "50.000"},
		{Name: "", Quantity: "1", Price: "10.000", TotalPrice: "10.000"},
		{Name: "Croissant", Quantity: "0", Price: "32.000", TotalPrice: ""},
		{Name: "  Sparkling   Water ", Quantity: "three", Price: "15.000", TotalPrice: "0"},
	}

	items := NormalizeItems(raw)
	require.Len(t, items, 3, "nameless items must be dropped")

	assert.Equal(t, "Americano", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].TotalPrice.Equal(decimal.NewFromInt(50000)))

	// Zero quantity clamps to 1 and missing total recomputes from price.
	assert.Equal(t, "Croissant", items[1].Name)
	assert.Equal(t, 1, items[1].Quantity)
	assert.True(t, items[1].TotalPrice.Equal(decimal.NewFromInt(32000)))

	assert.Equal(t, "Sparkling Water", items[2].Name)
	assert.Equal(t, 1, items[2].Quantity)
	assert.True(t, items[2].TotalPrice.Equal(decimal.NewFromInt(15000)))
}

func TestNormalizeExtraction(t *testing.T) {
	raw := domain.RawExtraction{
		MerchantName:    "STARBUCKS",
		TotalAmount:     "45.000",
		TransactionDate: "14/03/2025",
		PaymentMethod:   "gopay",
		Items: []domain.RawExtractionItem{
			{Name: "Caramel Macchiato", Quantity: "1", Price: "45.000", TotalPrice: "45.000"},
		},
		Confidence: domain.RawConfidenceScores{MerchantName: 0.95, TotalAmount: 0.9},
	}

	got := NormalizeExtraction(raw)

	assert.Equal(t, "Starbucks", got.MerchantName)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(45000)))
	assert.True(t, got.TransactionDate.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "GoPay", got.PaymentMethod)
	require.Len(t, got.Items, 1)
	assert.InDelta(t, 0.95, got.Confidence.MerchantName, 1e-9)
}
