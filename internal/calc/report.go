package calc

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine is one sold line used by the report roll-ups.
type SaleLine struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	LineTotal   decimal.Decimal
}

// SaleRecord is an invoice reduced to what the reports need.
type SaleRecord struct {
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
	Lines       []SaleLine
}

// DayRevenue is the revenue booked on one calendar day.
type DayRevenue struct {
	Day     time.Time
	Orders  int
	Revenue decimal.Decimal
}

// ProductSales is a product's sold units and revenue over a period.
type ProductSales struct {
	ProductID   string
	ProductName string
	Units       decimal.Decimal
	Revenue     decimal.Decimal
}

// TotalRevenue sums invoice totals.
func TotalRevenue(records []SaleRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.TotalAmount)
	}
	return sum
}

// RevenueOn counts the invoices created on day (in day's location) and sums their totals.
func RevenueOn(records []SaleRecord, day time.Time) (int, decimal.Decimal) {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)
	count := 0
	sum := decimal.Zero
	for _, r := range records {
		at := r.CreatedAt.In(day.Location())
		if at.Before(start) || !at.Before(end) {
			continue
		}
		count++
		sum = sum.Add(r.TotalAmount)
	}
	return count, sum
}

// DailyRevenue buckets records into consecutive days from `from` to `to`
// inclusive. Days without sales are present with zero revenue.
func DailyRevenue(records []SaleRecord, from, to time.Time) []DayRevenue {
	loc := from.Location()
	first := startOfDay(from)
	last := startOfDay(to.In(loc))
	if last.Before(first) {
		return nil
	}

	var days []DayRevenue
	index := make(map[string]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		index[d.Format(time.DateOnly)] = len(days)
		days = append(days, DayRevenue{Day: d, Revenue: decimal.Zero})
	}

	for _, r := range records {
		i, ok := index[r.CreatedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		days[i].Orders++
		days[i].Revenue = days[i].Revenue.Add(r.TotalAmount)
	}
	return days
}

// TopProducts ranks products by units sold, then revenue. limit <= 0 keeps all.
func TopProducts(records []SaleRecord, limit int) []ProductSales {
	index := make(map[string]int)
	var out []ProductSales
	for _, r := range records {
		for _, l := range r.Lines {
			i, ok := index[l.ProductID]
			if !ok {
				i = len(out)
				index[l.ProductID] = i
				out = append(out, ProductSales{
					ProductID:   l.ProductID,
					ProductName: l.ProductName,
					Units:       decimal.Zero,
					Revenue:     decimal.Zero,
				})
			}
			out[i].Units = out[i].Units.Add(l.Quantity)
			out[i].Revenue = out[i].Revenue.Add(l.LineTotal)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Units.Cmp(out[j].Units); c != 0 {
			return c > 0
		}
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
