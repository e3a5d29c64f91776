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

type RentalHandler struct {
	rentalService service.RentalService
}

func NewRentalHandler(rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

func (h *RentalHandler) RegisterRoutes(router *gin.RouterGroup) {
	rentals := router.Group("/api/rentals")
	{
		rentals.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListRentals)
		rentals.GET("/active", middleware.RequireRole("admin", "manager", "staff"), h.GetActive)
		rentals.GET("/overdue", middleware.RequireRole("admin", "manager", "staff"), h.GetOverdue)
		rentals.GET("/financial-report", middleware.RequireRole("admin", "manager"), h.GetFinancialReport)
		rentals.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetRental)
		rentals.POST("", middleware.RequireRole("admin", "manager", "staff"), h.CreateRental)
		rentals.POST("/:id/finalize", middleware.RequireRole("admin", "manager", "staff"), h.FinalizeRental)
		rentals.POST("/:id/cancel", middleware.RequireRole("admin", "manager"), h.CancelRental)
	}

	// Read-only: items are written only through the rental lifecycle
	items := router.Group("/api/rental-items")
	{
		items.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListRentalItems)
	}
}

// ListRentalItems returns rental lines, optionally filtered by rental or part
// @Summary      List rental items
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Items per page (default 20)"
// @Param        rental_id  query  string  false  "Filter by rental"
// @Param        part_id    query  string  false  "Filter by part"
// @Success      200  {object}  response.Response
// @Router       /api/rental-items [get]
func (h *RentalHandler) ListRentalItems(c *gin.Context) {
	params := pagination.Parse(c)

	var filter repository.RentalItemFilter
	if raw := c.Query("rental_id"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid rental_id"))
			return
		}
		filter.RentalID = raw
	}
	if raw := c.Query("part_id"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid part_id"))
			return
		}
		filter.PartID = raw
	}

	items, total, err := h.rentalService.GetRentalItems(c.Request.Context(), params.Page, params.Limit, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, params.Page, params.Limit, total))
}

// ListRentals returns paginated rentals
// @Summary      List rentals
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        page         query  int     false  "Page number (default 1)"
// @Param        limit        query  int     false  "Items per page (default 20)"
// @Param        status       query  string  false  "Filter by status (pending, active, finished, cancelled)"
// @Param        customer_id  query  string  false  "Filter by customer"
// @Success      200  {object}  response.Response
// @Router       /api/rentals [get]
func (h *RentalHandler) ListRentals(c *gin.Context) {
	params := pagination.Parse(c)
	status := c.Query("status")
	customerID := c.Query("customer_id")

	rentals, total, err := h.rentalService.GetRentals(c.Request.Context(), params.Page, params.Limit, status, customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, rentals, params.Page, params.Limit, total))
}

// GetActive returns rentals currently out
// @Summary      Active rentals
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/rentals/active [get]
func (h *RentalHandler) GetActive(c *gin.Context) {
	rentals, err := h.rentalService.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rentals))
}

// GetOverdue returns active rentals past their due date
// @Summary      Overdue rentals
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/rentals/overdue [get]
func (h *RentalHandler) GetOverdue(c *gin.Context) {
	rentals, err := h.rentalService.GetOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rentals))
}

// GetFinancialReport returns revenue totals over a recent window
// @Summary      Financial report
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        days  query  int  false  "Window size in days (default 30)"
// @Success      200  {object}  response.Response
// @Router       /api/rentals/financial-report [get]
func (h *RentalHandler) GetFinancialReport(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "days must be a positive integer"))
		return
	}

	report, err := h.rentalService.FinancialReport(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// GetRental returns a single rental with its items
// @Summary      Get rental
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Rental ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/rentals/{id} [get]
func (h *RentalHandler) GetRental(c *gin.Context) {
	rental, err := h.rentalService.GetRental(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rental))
}

// CreateRental opens a rental and reserves stock for every item
// @Summary      Create rental
// @Tags         rentals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateRentalRequest  true  "Rental payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/rentals [post]
func (h *RentalHandler) CreateRental(c *gin.Context) {
	var req service.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rental, err := h.rentalService.CreateRental(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rental))
}

// FinalizeRental closes an active rental and returns its stock
// @Summary      Finalize rental
// @Tags         rentals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Rental ID"
// @Param        payload  body  service.FinalizeRentalRequest  true  "Return date (optional)"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/rentals/{id}/finalize [post]
func (h *RentalHandler) FinalizeRental(c *gin.Context) {
	var req service.FinalizeRentalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}

	rental, err := h.rentalService.FinalizeRental(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rental))
}

// CancelRental cancels a pending or active rental and releases its stock
// @Summary      Cancel rental
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Rental ID"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/rentals/{id}/cancel [post]
func (h *RentalHandler) CancelRental(c *gin.Context) {
	rental, err := h.rentalService.CancelRental(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rental))
}
