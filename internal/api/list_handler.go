package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/core"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// ListHandler handles shopping list API endpoints.
type ListHandler struct {
	listService core.ListService
}

// NewListHandler creates a new ListHandler.
func NewListHandler(ls core.ListService) *ListHandler {
	return &ListHandler{listService: ls}
}

// mapListErrorToStatus maps errors from core.ListService to HTTP responses.
func mapListErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrListNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrListNotFound.Error()})
	case errors.Is(err, core.ErrItemNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrItemNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	case errors.Is(err, core.ErrEmptyItemName):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrEmptyItemName.Error()})
	default:
		log.Printf("Internal Server Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateList handles POST /lists.
func (h *ListHandler) CreateList(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	list, err := h.listService.CreateList(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapListErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// ListLists handles GET /lists. Returns the caller's active lists:
// owned, shared with them, or belonging to one of their families.
func (h *ListHandler) ListLists(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	lists, err := h.listService.ListLists(c.Request.Context(), userID.(string))
	if err != nil {
		mapListErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// GetList handles GET /lists/:listId.
func (h *ListHandler) GetList(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	listID := c.Param("listId")
	if listID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "List ID is required"})
		return
	}

	list, err := h.listService.GetListByID(c.Request.Context(), userID.(string), listID)
	if err != nil {
		mapListErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteList handles DELETE /lists/:listId.
func (h *ListHandler) DeleteList(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	listID := c.Param("listId")
	if listID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "List ID is required"})
		return
	}

	if err := h.listService.DeleteList(c.Request.Context(), userID.(string), listID); err != nil {
		mapListErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItem handles POST /lists/:listId/items.
func (h *ListHandler) AddItem(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	listID := c.Param("listId")

	var req models.NewItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	list, err := h.listService.AddItem(c.Request.Context(), userID.(string), listID, req)
	if err != nil {
		mapListErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// ToggleItem handles POST /lists/:listId/items/:itemId/toggle.
func (h *ListHandler) ToggleItem(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	listID := c.Param("listId")
	itemID := c.Param("itemId")

	list, err := h.listService.ToggleItem(c.Request.Context(), userID.(string), listID, itemID)
	if err != nil {
		mapListErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveItem handles DELETE /lists/:listId/items/:itemId.
func (h *ListHandler) RemoveItem(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	listID := c.Param("listId")
	itemID := c.Param("itemId")

	list, err := h.listService.RemoveItem(c.Request.Context(), userID.(string), listID, itemID)
	if err != nil {
		mapListErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// WatchList handles GET /lists/:listId/watch. It streams list snapshots as
// server-sent events until the client disconnects, so every collaborator
// sees toggles and edits as they happen.
func (h *ListHandler) WatchList(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	listID := c.Param("listId")

	// Resolve access up front so authorization failures still get a
	// proper status code instead of a broken event stream.
	if _, err := h.listService.GetListByID(c.Request.Context(), userID.(string), listID); err != nil {
		mapListErrorToStatus(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	updates := make(chan *models.ShoppingList, 8)
	errc := make(chan error, 1)
	ctx := c.Request.Context()

	go func() {
		errc <- h.listService.WatchList(ctx, userID.(string), listID, func(list *models.ShoppingList) {
			select {
			case updates <- list:
			case <-ctx.Done():
			}
		})
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case list := <-updates:
			c.SSEvent("list", list)
			return true
		case err := <-errc:
			if err != nil {
				c.SSEvent("error", gin.H{"error": err.Error()})
			}
			return false
		case <-ctx.Done():
			return false
		}
	})
}
