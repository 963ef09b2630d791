package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/core"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// PurchaseHandler handles purchase history API endpoints.
type PurchaseHandler struct {
	purchaseService core.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(ps core.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: ps}
}

// mapPurchaseErrorToStatus maps errors from core.PurchaseService to HTTP responses.
func mapPurchaseErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrFamilyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrFamilyNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	case errors.Is(err, core.ErrInvalidPurchase):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidPurchase.Error()})
	default:
		log.Printf("Internal Server Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// RegisterPurchase handles POST /families/:familyId/purchases.
func (h *PurchaseHandler) RegisterPurchase(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")

	var req models.RegisterPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	purchase, err := h.purchaseService.RegisterPurchase(c.Request.Context(), userID.(string), familyID, req)
	if err != nil {
		mapPurchaseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

// MonthlyPurchases handles GET /families/:familyId/purchases.
// ?year= and ?month= select the calendar month; defaults to the current one.
func (h *PurchaseHandler) MonthlyPurchases(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")

	now := time.Now()
	year := now.Year()
	month := now.Month()

	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year parameter"})
			return
		}
		year = parsed
	}
	if monthStr := c.Query("month"); monthStr != "" {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid month parameter"})
			return
		}
		month = time.Month(parsed)
	}

	purchases, err := h.purchaseService.MonthlyPurchases(c.Request.Context(), userID.(string), familyID, year, month)
	if err != nil {
		mapPurchaseErrorToStatus(c, err)
		return
	}

	total := 0.0
	for _, p := range purchases {
		total += p.TotalPrice
	}

	c.JSON(http.StatusOK, gin.H{
		"purchases":  purchases,
		"totalSpent": total,
		"year":       year,
		"month":      int(month),
	})
}
