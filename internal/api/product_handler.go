package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/core"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// ProductHandler handles pantry inventory API endpoints.
type ProductHandler struct {
	inventoryService core.InventoryService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(is core.InventoryService) *ProductHandler {
	return &ProductHandler{inventoryService: is}
}

// mapProductErrorToStatus maps errors from core.InventoryService to HTTP responses.
func mapProductErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrProductNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrProductNotFound.Error()})
	case errors.Is(err, core.ErrFamilyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrFamilyNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	case errors.Is(err, core.ErrInvalidCategory), errors.Is(err, core.ErrInvalidUnit):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("Internal Server Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateProduct handles POST /families/:familyId/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	product, err := h.inventoryService.AddProduct(c.Request.Context(), userID.(string), familyID, req)
	if err != nil {
		mapProductErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListProducts handles GET /families/:familyId/products.
// Supports ?search=, ?category= and ?sort=name|quantity|alert.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")

	filter := core.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		SortBy:   c.Query("sort"),
	}

	products, err := h.inventoryService.ListProducts(c.Request.Context(), userID.(string), familyID, filter)
	if err != nil {
		mapProductErrorToStatus(c, err)
		return
	}

	lowStock := 0
	for _, p := range products {
		if p.LowStock() {
			lowStock++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"summary":  InventorySummary{Total: len(products), LowStock: lowStock},
	})
}

// ListLowStock handles GET /families/:familyId/products/low-stock.
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")

	products, err := h.inventoryService.ListLowStock(c.Request.Context(), userID.(string), familyID)
	if err != nil {
		mapProductErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// UpdateProduct handles PUT /families/:familyId/products/:productId.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), userID.(string), familyID, productID, req)
	if err != nil {
		mapProductErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// AdjustQuantity handles PATCH /families/:familyId/products/:productId/quantity.
func (h *ProductHandler) AdjustQuantity(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	var req models.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	product, err := h.inventoryService.AdjustQuantity(c.Request.Context(), userID.(string), familyID, productID, req.Quantity)
	if err != nil {
		mapProductErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /families/:familyId/products/:productId.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	familyID := c.Param("familyId")
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	if err := h.inventoryService.DeleteProduct(c.Request.Context(), userID.(string), familyID, productID); err != nil {
		mapProductErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
