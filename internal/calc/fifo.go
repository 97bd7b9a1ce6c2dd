package calc

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientStock is returned when the lots cannot cover a requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// Lot is a batch as seen by the FIFO allocator.
type Lot struct {
	BatchID     string
	PurchasedAt time.Time
	Remaining   decimal.Decimal
}

// Allocation is the quantity taken from one batch.
type Allocation struct {
	BatchID  string
	Quantity decimal.Decimal
}

// AllocateFIFO takes qty from the oldest lots first. Lots with nothing
// remaining are skipped. The input slice is not modified.
func AllocateFIFO(lots []Lot, qty decimal.Decimal) ([]Allocation, error) {
	if !qty.IsPositive() {
		return nil, nil
	}

	ordered := make([]Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PurchasedAt.Before(ordered[j].PurchasedAt)
	})

	var out []Allocation
	left := qty
	for _, lot := range ordered {
		if !left.IsPositive() {
			break
		}
		if !lot.Remaining.IsPositive() {
			continue
		}
		take := decimal.Min(lot.Remaining, left)
		out = append(out, Allocation{BatchID: lot.BatchID, Quantity: take})
		left = left.Sub(take)
	}

	if left.IsPositive() {
		return nil, ErrInsufficientStock
	}
	return out, nil
}
