// Package calc holds the pure computations behind inventory and invoicing:
// batch-to-stock aggregation, invoice totals, FIFO batch allocation and the
// report roll-ups. Nothing in here performs I/O.
package calc

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// StockStatus classifies a product's aggregated stock.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// BatchProduct carries the product attributes joined onto a batch row.
type BatchProduct struct {
	Name          string
	Unit          string
	MinStockLevel *decimal.Decimal
	SellingPrice  decimal.Decimal
}

// Batch is the aggregator's view of an inventory batch.
// Product is nil when the batch row has no joined product.
type Batch struct {
	ProductID         string
	RemainingQuantity decimal.Decimal
	Product           *BatchProduct
}

// StockSummary is the derived per-product stock level.
type StockSummary struct {
	ProductID     string
	ProductName   string
	Unit          string
	TotalStock    decimal.Decimal
	MinStockLevel *decimal.Decimal
	SellingPrice  decimal.Decimal
	Status        StockStatus
}

// SummarizeStock groups batches by product and sums their remaining quantity.
// Product attributes come from the first batch seen for each product; the
// result keeps group-discovery order.
func SummarizeStock(batches []Batch) []StockSummary {
	index := make(map[string]int, len(batches))
	out := make([]StockSummary, 0)

	for _, b := range batches {
		if b.Product == nil {
			continue
		}
		if i, ok := index[b.ProductID]; ok {
			out[i].TotalStock = out[i].TotalStock.Add(b.RemainingQuantity)
			continue
		}
		index[b.ProductID] = len(out)
		out = append(out, StockSummary{
			ProductID:     b.ProductID,
			ProductName:   b.Product.Name,
			Unit:          b.Product.Unit,
			TotalStock:    b.RemainingQuantity,
			MinStockLevel: b.Product.MinStockLevel,
			SellingPrice:  b.Product.SellingPrice,
		})
	}

	for i := range out {
		out[i].Status = ClassifyStock(out[i].TotalStock, out[i].MinStockLevel)
	}
	return out
}

// ClassifyStock derives the status for a final stock total.
// The low-stock threshold is inclusive.
func ClassifyStock(total decimal.Decimal, minStockLevel *decimal.Decimal) StockStatus {
	switch {
	case total.IsZero():
		return StatusOutOfStock
	case minStockLevel != nil && total.IsPositive() && total.LessThanOrEqual(*minStockLevel):
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// SortByProductName orders summaries by case-insensitive product name, then id.
func SortByProductName(summaries []StockSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := strings.ToLower(summaries[i].ProductName), strings.ToLower(summaries[j].ProductName)
		if a != b {
			return a < b
		}
		return summaries[i].ProductID < summaries[j].ProductID
	})
}

// FilterByStatus keeps the summaries whose status is one of statuses.
func FilterByStatus(summaries []StockSummary, statuses ...StockStatus) []StockSummary {
	if len(statuses) == 0 {
		return summaries
	}
	out := make([]StockSummary, 0, len(summaries))
	for _, s := range summaries {
		for _, want := range statuses {
			if s.Status == want {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
