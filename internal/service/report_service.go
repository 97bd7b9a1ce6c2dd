package service

import (
	"context"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/calc"
	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"

	"github.com/shopspring/decimal"
)

// periodDays is the length of each sales report period, today included.
var periodDays = map[string]int{
	"week":    7,
	"month":   30,
	"quarter": 90,
}

type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	SalesReport(ctx context.Context, q dto.SalesReportQuery) (*dto.SalesReportResponse, error)
}

type reportService struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	inventory InventoryService
	now       func() time.Time
}

func NewReportService(invoices repository.InvoiceRepository, customers repository.CustomerRepository, inventory InventoryService) ReportService {
	return &reportService{invoices: invoices, customers: customers, inventory: inventory, now: time.Now}
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now()
	start := startOfDay(now)

	invoices, err := s.invoices.ListCreatedBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	count, revenue := calc.RevenueOn(saleRecords(invoices), now)

	customers, err := s.customers.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	stock, err := s.inventory.StockSummary(ctx, dto.StockSummaryFilter{})
	if err != nil {
		return nil, err
	}
	inStock, alerts := 0, 0
	for _, st := range stock {
		if st.TotalStock.IsPositive() {
			inStock++
		}
		if st.Status != string(calc.StatusInStock) {
			alerts++
		}
	}

	return &dto.DashboardResponse{
		TodayInvoices:   count,
		TodayRevenue:    calc.RoundMoney(revenue),
		ActiveCustomers: customers,
		ProductsInStock: inStock,
		LowStockAlerts:  alerts,
	}, nil
}

func (s *reportService) SalesReport(ctx context.Context, q dto.SalesReportQuery) (*dto.SalesReportResponse, error) {
	days, ok := periodDays[q.Period]
	if !ok {
		return nil, newError(ErrInvalid, "period must be one of week, month, quarter")
	}

	now := s.now()
	from := startOfDay(now).AddDate(0, 0, -(days - 1))
	to := startOfDay(now).AddDate(0, 0, 1)

	invoices, err := s.invoices.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	records := saleRecords(invoices)

	revenue := calc.TotalRevenue(records)
	avg := decimal.Zero
	if len(records) > 0 {
		avg = revenue.Div(decimal.NewFromInt(int64(len(records))))
	}

	resp := &dto.SalesReportResponse{
		Period:       q.Period,
		From:         from.Format(dto.DateLayout),
		To:           now.Format(dto.DateLayout),
		Revenue:      calc.RoundMoney(revenue),
		Orders:       len(records),
		AverageOrder: calc.RoundMoney(avg),
	}
	for _, d := range calc.DailyRevenue(records, from, now) {
		resp.Daily = append(resp.Daily, dto.DailyRevenueResponse{
			Date:    d.Day.Format(dto.DateLayout),
			Orders:  d.Orders,
			Revenue: calc.RoundMoney(d.Revenue),
		})
	}
	resp.TopProducts = make([]dto.TopProductResponse, 0, q.Top)
	for _, p := range calc.TopProducts(records, q.Top) {
		resp.TopProducts = append(resp.TopProducts, dto.TopProductResponse{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Units:       p.Units,
			Revenue:     calc.RoundMoney(p.Revenue),
		})
	}
	return resp, nil
}

func saleRecords(invoices []model.Invoice) []calc.SaleRecord {
	out := make([]calc.SaleRecord, 0, len(invoices))
	for _, inv := range invoices {
		rec := calc.SaleRecord{CreatedAt: inv.CreatedAt, TotalAmount: inv.TotalAmount}
		for _, it := range inv.Items {
			line := calc.SaleLine{ProductID: it.ProductID.String(), Quantity: it.Quantity, LineTotal: it.LineTotal}
			if it.Product != nil {
				line.ProductName = it.Product.Name
			}
			rec.Lines = append(rec.Lines, line)
		}
		out = append(out, rec)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
