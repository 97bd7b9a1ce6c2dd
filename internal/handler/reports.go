package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sales godoc
// @Summary Revenue, daily breakdown and best sellers for a period
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Produce text/csv
// @Param period query string false "week | month | quarter"
// @Param top query int false "Number of best sellers (default 5)"
// @Param format query string false "json | csv"
// @Success 200 {object} dto.SalesReportResponse
// @Router /v1/reports/sales [get]
func (h *ReportsHandler) Sales(c *gin.Context) {
	var q dto.SalesReportQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.SalesReport(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	if c.Query("format") == "csv" {
		writeSalesCSV(c, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeSalesCSV emits the daily rows followed by the best sellers, separated
// by a blank line.
func writeSalesCSV(c *gin.Context, r *dto.SalesReportResponse) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="sales_%s_%s.csv"`, r.Period, r.To))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"date", "orders", "revenue"})
	for _, d := range r.Daily {
		_ = w.Write([]string{d.Date, strconv.Itoa(d.Orders), d.Revenue.StringFixed(2)})
	}
	_ = w.Write(nil)
	_ = w.Write([]string{"product_id", "product_name", "units", "revenue"})
	for _, p := range r.TopProducts {
		_ = w.Write([]string{p.ProductID, p.ProductName, p.Units.String(), p.Revenue.StringFixed(2)})
	}
	w.Flush()
}
