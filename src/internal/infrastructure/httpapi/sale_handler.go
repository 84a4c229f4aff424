package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/jackyeh168/sales_engine/src/internal/application/sale"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// SaleHandlerDeps groups the use cases served over HTTP.
type SaleHandlerDeps struct {
	Create     *app.CreateSaleUseCase
	Update     *app.UpdateSaleUseCase
	Cancel     *app.CancelSaleUseCase
	CancelItem *app.CancelSaleItemUseCase
	Get        *app.GetSaleUseCase
	List       *app.ListSalesUseCase
}

// SaleHandler serves the /sales routes.
type SaleHandler struct {
	deps SaleHandlerDeps
	log  *logger.Logger
}

// NewSaleHandler builds a handler over deps.
func NewSaleHandler(deps SaleHandlerDeps, log *logger.Logger) *SaleHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &SaleHandler{deps: deps, log: log.With("component", "SaleHandler")}
}

// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, codeInvalidRequestBody, err)
		return
	}

	result, err := h.deps.Create.Execute(c.Request.Context(), app.CreateSaleCommand{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		BranchID:     req.BranchID,
		BranchName:   req.BranchName,
		Items:        toItemInputs(req.Items),
	})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, newSaleResponse(result))
}

// GET /api/v1/sales
func (h *SaleHandler) ListSales(c *gin.Context) {
	rows, err := h.deps.List.Execute(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"sales": newSaleSummaryResponses(rows)})
}

// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	result, err := h.deps.Get.Execute(c.Request.Context(), app.GetSaleCommand{SaleID: c.Param("id")})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, newSaleResponse(result))
}

// PUT /api/v1/sales/:id
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, codeInvalidRequestBody, err)
		return
	}

	result, err := h.deps.Update.Execute(c.Request.Context(), app.UpdateSaleCommand{
		SaleID: c.Param("id"),
		Items:  toItemInputs(req.Items),
	})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, newSaleResponse(result))
}

// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) CancelSale(c *gin.Context) {
	result, err := h.deps.Cancel.Execute(c.Request.Context(), app.CancelSaleCommand{SaleID: c.Param("id")})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, cancelSaleResponse{
		Success:    result.Success,
		SaleID:     result.SaleID,
		SaleNumber: result.SaleNumber,
	})
}

// POST /api/v1/sales/:id/items/:itemId/cancel
func (h *SaleHandler) CancelSaleItem(c *gin.Context) {
	result, err := h.deps.CancelItem.Execute(c.Request.Context(), app.CancelSaleItemCommand{
		SaleID: c.Param("id"),
		ItemID: c.Param("itemId"),
	})
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, cancelSaleItemResponse{
		Success:          result.Success,
		SaleID:           result.SaleID,
		ItemID:           result.ItemID,
		UpdatedSaleTotal: result.UpdatedSaleTotal,
	})
}

// HealthCheck answers GET /health.
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
