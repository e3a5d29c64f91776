package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MovementHandler struct {
	movementService service.MovementService
}

func NewMovementHandler(movementService service.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

func (h *MovementHandler) RegisterRoutes(router *gin.RouterGroup) {
	movements := router.Group("/api/stock-movements")
	{
		movements.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListMovements)
		movements.GET("/report", middleware.RequireRole("admin", "manager"), h.GetReport)
		movements.POST("", middleware.RequireRole("admin", "manager"), h.CreateMovement)
	}
}

// ListMovements returns the paginated stock ledger
// @Summary      List stock movements
// @Tags         stock-movements
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Items per page (default 20)"
// @Param        part_id    query  string  false  "Filter by part"
// @Param        rental_id  query  string  false  "Filter by rental"
// @Param        kind       query  string  false  "Filter by kind (inbound, outbound)"
// @Success      200  {object}  response.Response
// @Router       /api/stock-movements [get]
func (h *MovementHandler) ListMovements(c *gin.Context) {
	params := pagination.Parse(c)

	var filter repository.MovementFilter
	if raw := c.Query("part_id"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid part_id"))
			return
		}
		filter.PartID = raw
	}
	if raw := c.Query("rental_id"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid rental_id"))
			return
		}
		filter.RentalID = raw
	}
	filter.Kind = c.Query("kind")

	movements, total, err := h.movementService.GetMovements(c.Request.Context(), params.Page, params.Limit, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, movements, params.Page, params.Limit, total))
}

// GetReport returns inbound/outbound totals over a recent window
// @Summary      Stock movement report
// @Tags         stock-movements
// @Security     BearerAuth
// @Produce      json
// @Param        days  query  int  false  "Window size in days (default 30)"
// @Success      200  {object}  response.Response
// @Router       /api/stock-movements/report [get]
func (h *MovementHandler) GetReport(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "days must be a positive integer"))
		return
	}

	report, err := h.movementService.Report(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// CreateMovement records a manual inbound or outbound movement
// @Summary      Create stock movement
// @Tags         stock-movements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateMovementRequest  true  "Movement payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/stock-movements [post]
func (h *MovementHandler) CreateMovement(c *gin.Context) {
	var req service.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	movement, err := h.movementService.CreateMovement(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, movement))
}
