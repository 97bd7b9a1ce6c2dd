package calc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Decimal places kept by storage. Inputs finer than this would be rounded on
// write and no longer add up to the stored totals.
const (
	MoneyPlaces    int32 = 2
	QuantityPlaces int32 = 3
	RatePlaces     int32 = 2
)

// FitsPlaces reports whether d has no significant digits beyond places.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// LineItemDraft is one invoice line as submitted, before totals exist.
// A nil TaxRate counts as 0%.
type LineItemDraft struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   *decimal.Decimal
}

// Rate returns the tax rate, 0 when unset.
func (d LineItemDraft) Rate() decimal.Decimal {
	if d.TaxRate == nil {
		return decimal.Zero
	}
	return *d.TaxRate
}

// LineItem is a draft with its computed, tax-inclusive line total.
type LineItem struct {
	LineItemDraft
	LineTotal decimal.Decimal
}

// InvoiceTotals is the calculator's output.
type InvoiceTotals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	LineItems      []LineItem
}

// ValidationOptions selects the rule set. The strict set also requires a
// positive unit price on every line.
type ValidationOptions struct {
	RequirePositivePrice bool
}

// Violation is one failed rule on one line (Index is -1 for invoice-level rules).
type Violation struct {
	Index int
	Field string
	Rule  string
}

// ValidationError lists every violated rule. No invoice is produced when it is returned.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Index < 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Rule))
			continue
		}
		parts = append(parts, fmt.Sprintf("items[%d].%s: %s", v.Index, v.Field, v.Rule))
	}
	return "invalid invoice: " + strings.Join(parts, "; ")
}

// Fields flattens the violations into a field → rule map for API responses.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		key := v.Field
		if v.Index >= 0 {
			key = fmt.Sprintf("items[%d].%s", v.Index, v.Field)
		}
		fields[key] = v.Rule
	}
	return fields
}

// ValidateLineItems checks the per-line preconditions. An empty list passes.
func ValidateLineItems(items []LineItemDraft, opts ValidationOptions) error {
	var violations []Violation
	for i, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			violations = append(violations, Violation{Index: i, Field: "product_id", Rule: "required"})
		}
		switch {
		case !item.Quantity.IsPositive():
			violations = append(violations, Violation{Index: i, Field: "quantity", Rule: "must be greater than 0"})
		case !FitsPlaces(item.Quantity, QuantityPlaces):
			violations = append(violations, Violation{Index: i, Field: "quantity", Rule: placesRule(QuantityPlaces)})
		}
		switch {
		case opts.RequirePositivePrice && !item.UnitPrice.IsPositive():
			violations = append(violations, Violation{Index: i, Field: "unit_price", Rule: "must be greater than 0"})
		case !FitsPlaces(item.UnitPrice, MoneyPlaces):
			violations = append(violations, Violation{Index: i, Field: "unit_price", Rule: placesRule(MoneyPlaces)})
		}
		if item.TaxRate != nil && !FitsPlaces(*item.TaxRate, RatePlaces) {
			violations = append(violations, Violation{Index: i, Field: "tax_rate", Rule: placesRule(RatePlaces)})
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func placesRule(places int32) string {
	return fmt.Sprintf("must have at most %d decimal places", places)
}

// CalculateInvoice computes line totals and the invoice aggregates.
//
// Subtotal and tax are two independent reductions over the raw lines, tax
// taken per line and then summed. Sums are exact; each stored amount is
// rounded to cents at the end.
func CalculateInvoice(items []LineItemDraft, discount decimal.Decimal) InvoiceTotals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	lines := make([]LineItem, 0, len(items))

	for _, item := range items {
		net := item.Quantity.Mul(item.UnitPrice)
		lineTax := net.Mul(item.Rate()).Div(hundred)

		subtotal = subtotal.Add(net)
		tax = tax.Add(lineTax)
		lines = append(lines, LineItem{
			LineItemDraft: item,
			LineTotal:     RoundMoney(net.Mul(decimal.NewFromInt(1).Add(item.Rate().Div(hundred)))),
		})
	}

	return InvoiceTotals{
		Subtotal:       RoundMoney(subtotal),
		TaxAmount:      RoundMoney(tax),
		DiscountAmount: RoundMoney(discount),
		TotalAmount:    RoundMoney(subtotal.Add(tax).Sub(discount)),
		LineItems:      lines,
	}
}

// PrepareInvoice validates and then calculates.
func PrepareInvoice(items []LineItemDraft, discount decimal.Decimal, opts ValidationOptions) (InvoiceTotals, error) {
	if err := ValidateLineItems(items, opts); err != nil {
		return InvoiceTotals{}, err
	}
	return CalculateInvoice(items, discount), nil
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
