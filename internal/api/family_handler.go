package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/core"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// FamilyHandler handles family and sharing API endpoints.
type FamilyHandler struct {
	familyService core.FamilyService
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(fs core.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: fs}
}

// mapFamilyErrorToStatus maps errors from core.FamilyService to HTTP responses.
func mapFamilyErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrFamilyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrFamilyNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	case errors.Is(err, core.ErrInvalidInviteCode):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidInviteCode.Error()})
	case errors.Is(err, core.ErrAlreadyMember):
		c.JSON(http.StatusConflict, ErrorResponse{Error: core.ErrAlreadyMember.Error()})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrUserNotFound.Error()})
	default:
		log.Printf("Internal Server Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateFamily handles POST /families.
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapFamilyErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, family)
}

// ListFamilies handles GET /families.
func (h *FamilyHandler) ListFamilies(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	families, err := h.familyService.ListFamilies(c.Request.Context(), userID.(string))
	if err != nil {
		mapFamilyErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, families)
}

// GetFamily handles GET /families/:familyId.
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")
	if familyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Family ID is required"})
		return
	}

	family, err := h.familyService.GetFamilyByID(c.Request.Context(), userID.(string), familyID)
	if err != nil {
		mapFamilyErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, family)
}

// JoinFamily handles POST /families/join.
func (h *FamilyHandler) JoinFamily(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.JoinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	family, err := h.familyService.JoinByCode(c.Request.Context(), userID.(string), req.InviteCode)
	if err != nil {
		mapFamilyErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Joined family successfully", Data: family})
}

// GetActivity handles GET /families/:familyId/activity.
func (h *FamilyHandler) GetActivity(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")
	if familyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Family ID is required"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.familyService.GetActivity(c.Request.Context(), userID.(string), familyID, limit)
	if err != nil {
		mapFamilyErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
