package calc

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateInvoice(t *testing.T) {
	tests := []struct {
		name      string
		items     []LineItemDraft
		discount  string
		subtotal  string
		tax       string
		total     string
		lineTotal []string
	}{
		{
			name: "no tax",
			items: []LineItemDraft{
				{ProductID: "A", Quantity: dec("2"), UnitPrice: dec("85"), TaxRate: decPtr("0")},
				{ProductID: "B", Quantity: dec("1"), UnitPrice: dec("120"), TaxRate: decPtr("0")},
			},
			discount:  "0",
			subtotal:  "290",
			tax:       "0",
			total:     "290",
			lineTotal: []string{"170", "120"},
		},
		{
			name: "tax with discount",
			items: []LineItemDraft{
				{ProductID: "A", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: decPtr("18")},
			},
			discount:  "50",
			subtotal:  "200",
			tax:       "36",
			total:     "186",
			lineTotal: []string{"236"},
		},
		{
			name: "fractional tax rounds at the end",
			items: []LineItemDraft{
				{ProductID: "A", Quantity: dec("3"), UnitPrice: dec("0.33"), TaxRate: decPtr("5")},
				{ProductID: "B", Quantity: dec("3"), UnitPrice: dec("0.33"), TaxRate: decPtr("5")},
			},
			discount:  "0",
			subtotal:  "1.98",
			tax:       "0.10",
			total:     "2.08",
			lineTotal: []string{"1.04", "1.04"},
		},
		{
			name: "unset rate counts as zero",
			items: []LineItemDraft{
				{ProductID: "A", Quantity: dec("2"), UnitPrice: dec("100")},
				{ProductID: "B", Quantity: dec("1"), UnitPrice: dec("90")},
			},
			discount:  "0",
			subtotal:  "290",
			tax:       "0",
			total:     "290",
			lineTotal: []string{"200", "90"},
		},
		{
			name:      "empty list",
			items:     nil,
			discount:  "10",
			subtotal:  "0",
			tax:       "0",
			total:     "-10",
			lineTotal: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateInvoice(tt.items, dec(tt.discount))

			assert.True(t, got.Subtotal.Equal(dec(tt.subtotal)), "subtotal %s", got.Subtotal)
			assert.True(t, got.TaxAmount.Equal(dec(tt.tax)), "tax %s", got.TaxAmount)
			assert.True(t, got.DiscountAmount.Equal(dec(tt.discount)))
			assert.True(t, got.TotalAmount.Equal(dec(tt.total)), "total %s", got.TotalAmount)

			require.Len(t, got.LineItems, len(tt.lineTotal))
			for i, want := range tt.lineTotal {
				assert.True(t, got.LineItems[i].LineTotal.Equal(dec(want)), "line %d: %s", i, got.LineItems[i].LineTotal)
			}
		})
	}
}

func TestCalculateInvoice_TotalIdentity(t *testing.T) {
	items := []LineItemDraft{
		{ProductID: "A", Quantity: dec("4"), UnitPrice: dec("12.40"), TaxRate: decPtr("12")},
		{ProductID: "B", Quantity: dec("1.5"), UnitPrice: dec("80"), TaxRate: decPtr("28")},
		{ProductID: "C", Quantity: dec("7"), UnitPrice: dec("3")},
	}
	discount := dec("15")

	got := CalculateInvoice(items, discount)
	want := got.Subtotal.Add(got.TaxAmount).Sub(got.DiscountAmount)
	assert.True(t, got.TotalAmount.Equal(want))
}

func TestCalculateInvoice_Idempotent(t *testing.T) {
	items := []LineItemDraft{
		{ProductID: "A", Quantity: dec("2"), UnitPrice: dec("19.99"), TaxRate: decPtr("18")},
	}
	assert.Equal(t, CalculateInvoice(items, dec("1")), CalculateInvoice(items, dec("1")))
}

func TestValidateLineItems(t *testing.T) {
	items := []LineItemDraft{
		{ProductID: "", Quantity: dec("1"), UnitPrice: dec("10")},
		{ProductID: "B", Quantity: dec("0"), UnitPrice: dec("0")},
		{ProductID: "C", Quantity: dec("1"), UnitPrice: dec("5")},
	}

	t.Run("lenient", func(t *testing.T) {
		err := ValidateLineItems(items, ValidationOptions{})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, map[string]string{
			"items[0].product_id": "required",
			"items[1].quantity":   "must be greater than 0",
		}, verr.Fields())
	})

	t.Run("strict", func(t *testing.T) {
		err := ValidateLineItems(items, ValidationOptions{RequirePositivePrice: true})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Violations, 3)
		assert.Contains(t, verr.Fields(), "items[1].unit_price")
		assert.Contains(t, err.Error(), "items[1].unit_price: must be greater than 0")
	})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateLineItems(items[2:], ValidationOptions{RequirePositivePrice: true}))
	})
}

func TestValidateLineItems_DecimalPlaces(t *testing.T) {
	items := []LineItemDraft{
		{ProductID: "A", Quantity: dec("3"), UnitPrice: dec("0.335")},
		{ProductID: "B", Quantity: dec("1.2345"), UnitPrice: dec("10"), TaxRate: decPtr("5.125")},
		{ProductID: "C", Quantity: dec("0.125"), UnitPrice: dec("19.90"), TaxRate: decPtr("12.50")},
	}

	err := ValidateLineItems(items, ValidationOptions{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"items[0].unit_price": "must have at most 2 decimal places",
		"items[1].quantity":   "must have at most 3 decimal places",
		"items[1].tax_rate":   "must have at most 2 decimal places",
	}, verr.Fields())
}

func TestCalculateInvoice_StoredLinesAddUp(t *testing.T) {
	// Inputs at storage scale: the stored lines reproduce the stored subtotal.
	items := []LineItemDraft{
		{ProductID: "A", Quantity: dec("3"), UnitPrice: dec("0.34")},
		{ProductID: "B", Quantity: dec("0.125"), UnitPrice: dec("19.90")},
	}
	require.NoError(t, ValidateLineItems(items, ValidationOptions{}))

	got := CalculateInvoice(items, decimal.Zero)
	sum := decimal.Zero
	for _, line := range got.LineItems {
		sum = sum.Add(line.Quantity.Round(QuantityPlaces).Mul(line.UnitPrice.Round(MoneyPlaces)))
	}
	assert.True(t, got.Subtotal.Equal(RoundMoney(sum)), "subtotal %s, stored lines %s", got.Subtotal, sum)
}

func TestFitsPlaces(t *testing.T) {
	assert.True(t, FitsPlaces(dec("1.50"), 2))
	assert.True(t, FitsPlaces(dec("1.500000"), 2))
	assert.True(t, FitsPlaces(dec("12"), 0))
	assert.False(t, FitsPlaces(dec("0.335"), 2))
	assert.False(t, FitsPlaces(dec("-0.0001"), 3))
}

func TestPrepareInvoice_RejectsWithoutTotals(t *testing.T) {
	items := []LineItemDraft{{ProductID: "A", Quantity: dec("-1"), UnitPrice: dec("10")}}

	got, err := PrepareInvoice(items, decimal.Zero, ValidationOptions{})
	require.Error(t, err)
	assert.Equal(t, InvoiceTotals{}, got)
}
