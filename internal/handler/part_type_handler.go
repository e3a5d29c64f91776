package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartTypeHandler struct {
	catalogService service.CatalogService
}

func NewPartTypeHandler(catalogService service.CatalogService) *PartTypeHandler {
	return &PartTypeHandler{catalogService: catalogService}
}

func (h *PartTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	partTypes := router.Group("/api/part-types")
	{
		partTypes.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListPartTypes)
		partTypes.GET("/statistics", middleware.RequireRole("admin", "manager", "staff"), h.GetStatistics)
		partTypes.POST("", middleware.RequireRole("admin", "manager"), h.CreatePartType)
		partTypes.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdatePartType)
		partTypes.DELETE("/:id", middleware.RequireRole("admin"), h.DeletePartType)
	}
}

// ListPartTypes returns the paginated equipment catalog
// @Summary      List part types
// @Tags         part-types
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        search  query  string  false  "Search by name or description"
// @Success      200  {object}  response.Response
// @Router       /api/part-types [get]
func (h *PartTypeHandler) ListPartTypes(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	partTypes, total, err := h.catalogService.GetPartTypes(c.Request.Context(), params.Page, params.Limit, search)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, partTypes, params.Page, params.Limit, total))
}

// GetStatistics returns catalog totals and the most rented types
// @Summary      Part type statistics
// @Tags         part-types
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/part-types/statistics [get]
func (h *PartTypeHandler) GetStatistics(c *gin.Context) {
	stats, err := h.catalogService.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// CreatePartType creates a new catalog entry
// @Summary      Create part type
// @Tags         part-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePartTypeRequest  true  "Part type payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/part-types [post]
func (h *PartTypeHandler) CreatePartType(c *gin.Context) {
	var req service.CreatePartTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	partType, err := h.catalogService.CreatePartType(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, partType))
}

// UpdatePartType updates a catalog entry
// @Summary      Update part type
// @Tags         part-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Part type ID"
// @Param        payload  body  service.UpdatePartTypeRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/part-types/{id} [put]
func (h *PartTypeHandler) UpdatePartType(c *gin.Context) {
	var req service.UpdatePartTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	partType, err := h.catalogService.UpdatePartType(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, partType))
}

// DeletePartType removes a catalog entry and its parts
// @Summary      Delete part type
// @Tags         part-types
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Part type ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/part-types/{id} [delete]
func (h *PartTypeHandler) DeletePartType(c *gin.Context) {
	if err := h.catalogService.DeletePartType(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Part type deleted successfully"}))
}
