package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/core"
)

// AuthHandler handles authentication related API endpoints.
type AuthHandler struct {
	userService core.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// InitializeUserProfile handles POST /api/v1/users/initialize.
// Clients call it after a Firebase sign-in so a backend profile exists.
// The auth middleware has already validated the ID token and placed the
// identity claims in the context.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	email := c.GetString("userEmail")
	name := c.GetString("userName")
	photoURL := c.GetString("userPhotoURL")

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID.(string), email, name, photoURL)
	if err != nil {
		log.Printf("InitializeUserProfile: failed for user '%s': %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile"})
		return
	}

	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	c.JSON(statusCode, user)
}
