package dto

import "github.com/shopspring/decimal"

type SalesReportQuery struct {
	Period string `form:"period,default=week" validate:"oneof=week month quarter"`
	Top    int    `form:"top,default=5"       validate:"min=1,max=50"`
}

type DashboardResponse struct {
	TodayInvoices   int             `json:"today_invoices"`
	TodayRevenue    decimal.Decimal `json:"today_revenue"`
	ActiveCustomers int64           `json:"active_customers"`
	ProductsInStock int             `json:"products_in_stock"`
	LowStockAlerts  int             `json:"low_stock_alerts"`
}

type DailyRevenueResponse struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProductResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Units       decimal.Decimal `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type SalesReportResponse struct {
	Period       string                 `json:"period"`
	From         string                 `json:"from"`
	To           string                 `json:"to"`
	Revenue      decimal.Decimal        `json:"revenue"`
	Orders       int                    `json:"orders"`
	AverageOrder decimal.Decimal        `json:"average_order"`
	Daily        []DailyRevenueResponse `json:"daily"`
	TopProducts  []TopProductResponse   `json:"top_products"`
}
