package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// InventorySummary decorates a product listing with the derived counts
// the inventory header shows.
type InventorySummary struct {
	Total    int `json:"total"`
	LowStock int `json:"lowStock"`
}
