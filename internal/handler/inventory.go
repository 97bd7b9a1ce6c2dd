package handler

import (
	"net/http"

	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) AddBatch(c *gin.Context) {
	var req dto.AddBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddBatch(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecordPurchase receives a vendor delivery; every line becomes its own batch.
func (h *InventoryHandler) RecordPurchase(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) ListBatches(c *gin.Context) {
	resp, err := h.svc.ListBatches(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockSummary godoc
// @Summary Per-product stock totals aggregated over all batches
// @Tags inventory
// @Security BearerAuth
// @Produce json
// @Param status query string false "in_stock | low_stock | out_of_stock"
// @Param sort query string false "name"
// @Success 200 {array} dto.StockSummaryResponse
// @Router /v1/inventory/stock [get]
func (h *InventoryHandler) StockSummary(c *gin.Context) {
	var filter dto.StockSummaryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.StockSummary(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
