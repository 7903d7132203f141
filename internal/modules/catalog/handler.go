package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venuebook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes wires the read-only catalog surface.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/venues", h.ListVenues)
	rg.GET("/venues/:id", h.GetVenue)
	rg.GET("/venues/:id/pricing", h.GetPricing)
	rg.GET("/venues/:id/availability", h.GetAvailability)
}

// RegisterRoutes wires the owner-facing write surface.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/venues", h.CreateVenue)
	rg.PUT("/venues/:id/pricing", h.UpsertPricing)
	rg.POST("/venues/:id/discounts", h.AddDiscount)
	rg.GET("/venues/:id/discounts", h.ListDiscounts)
	rg.DELETE("/venues/:id/discounts/:discountId", h.DeleteDiscount)
}

func (h *Handler) CreateVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, err := h.service.CreateVenue(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"venue": v})
}

func (h *Handler) GetVenue(c *gin.Context) {
	v, err := h.service.GetVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"venue": v})
}

func (h *Handler) ListVenues(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.service.ListVenues(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"venues": rows})
}

func (h *Handler) UpsertPricing(c *gin.Context) {
	var req UpsertPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.UpsertPricing(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pricing": p})
}

func (h *Handler) GetPricing(c *gin.Context) {
	p, err := h.service.GetPricing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pricing": p})
}

func (h *Handler) AddDiscount(c *gin.Context) {
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.AddDiscount(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"discount": d})
}

func (h *Handler) ListDiscounts(c *gin.Context) {
	rows, err := h.service.ListDiscounts(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"discounts": rows})
}

func (h *Handler) DeleteDiscount(c *gin.Context) {
	err := h.service.DeleteDiscount(c.Request.Context(), c.Param("id"), c.Param("discountId"), c.GetString("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	a, err := h.service.GetAvailability(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Venue not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this venue")
	default:
		response.DomainError(c, err)
	}
}
