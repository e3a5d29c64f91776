package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartHandler struct {
	inventoryService service.InventoryService
}

func NewPartHandler(inventoryService service.InventoryService) *PartHandler {
	return &PartHandler{inventoryService: inventoryService}
}

func (h *PartHandler) RegisterRoutes(router *gin.RouterGroup) {
	parts := router.Group("/api/parts")
	{
		parts.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListParts)
		parts.GET("/low-stock", middleware.RequireRole("admin", "manager", "staff"), h.LowStock)
		parts.GET("/stock-report", middleware.RequireRole("admin", "manager", "staff"), h.StockReport)
		parts.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetPart)
		parts.POST("", middleware.RequireRole("admin", "manager"), h.CreatePart)
		parts.PATCH("/:id", middleware.RequireRole("admin", "manager"), h.UpdatePart)
		parts.POST("/:id/adjust-stock", middleware.RequireRole("admin", "manager"), h.AdjustStock)
		parts.DELETE("/:id", middleware.RequireRole("admin"), h.DeletePart)
	}
}

// ListParts returns the paginated inventory
// @Summary      List parts
// @Tags         parts
// @Security     BearerAuth
// @Produce      json
// @Param        page          query  int     false  "Page number (default 1)"
// @Param        limit         query  int     false  "Items per page (default 20)"
// @Param        part_type_id  query  string  false  "Filter by part type"
// @Param        search        query  string  false  "Search by code or notes"
// @Success      200  {object}  response.Response
// @Router       /api/parts [get]
func (h *PartHandler) ListParts(c *gin.Context) {
	params := pagination.Parse(c)
	partTypeID := c.Query("part_type_id")
	search := c.Query("search")

	parts, total, err := h.inventoryService.GetParts(c.Request.Context(), params.Page, params.Limit, partTypeID, search)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, parts, params.Page, params.Limit, total))
}

// LowStock returns parts at or below the availability threshold
// @Summary      Low stock parts
// @Tags         parts
// @Security     BearerAuth
// @Produce      json
// @Param        threshold  query  int  false  "Availability threshold (default 5)"
// @Success      200  {object}  response.Response
// @Router       /api/parts/low-stock [get]
func (h *PartHandler) LowStock(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "5"))
	if err != nil || threshold < 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "threshold must be a non-negative integer"))
		return
	}

	parts, err := h.inventoryService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, parts))
}

// StockReport returns aggregate stock counters
// @Summary      Stock report
// @Tags         parts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/parts/stock-report [get]
func (h *PartHandler) StockReport(c *gin.Context) {
	report, err := h.inventoryService.StockReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// GetPart returns a single part
// @Summary      Get part
// @Tags         parts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Part ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/parts/{id} [get]
func (h *PartHandler) GetPart(c *gin.Context) {
	part, err := h.inventoryService.GetPart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// CreatePart registers a new serialized part
// @Summary      Create part
// @Tags         parts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePartRequest  true  "Part payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/parts [post]
func (h *PartHandler) CreatePart(c *gin.Context) {
	var req service.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.inventoryService.CreatePart(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, part))
}

// UpdatePart updates part metadata
// @Summary      Update part
// @Tags         parts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Part ID"
// @Param        payload  body  service.UpdatePartRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/parts/{id} [patch]
func (h *PartHandler) UpdatePart(c *gin.Context) {
	var req service.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.inventoryService.UpdatePart(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// AdjustStock sets the total quantity and records the movement
// @Summary      Adjust stock
// @Tags         parts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Part ID"
// @Param        payload  body  service.AdjustStockRequest  true  "New total quantity"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/parts/{id}/adjust-stock [post]
func (h *PartHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.inventoryService.AdjustStock(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// DeletePart removes a part with no units on rent
// @Summary      Delete part
// @Tags         parts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Part ID"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/parts/{id} [delete]
func (h *PartHandler) DeletePart(c *gin.Context) {
	if err := h.inventoryService.DeletePart(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Part deleted successfully"}))
}
