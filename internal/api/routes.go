package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/config"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/core"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (Logging, Recovery, Metrics, CORS) is applied
// to the router before this function is called, in main.go.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	familyService core.FamilyService,
	inventoryService core.InventoryService,
	purchaseService core.PurchaseService,
	listService core.ListService,
) {
	// Auth middleware needs the Firebase Auth client; it must be available
	// after db.InitFirestore().
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirestore() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)

	authHandler := NewAuthHandler(userService)
	userHandler := NewUserHandler(userService)
	familyHandler := NewFamilyHandler(familyService)
	productHandler := NewProductHandler(inventoryService)
	purchaseHandler := NewPurchaseHandler(purchaseService)
	listHandler := NewListHandler(listService)

	apiV1 := router.Group("/api/v1")
	{
		// --- User and Authentication Endpoints ---
		userAuthGroup := apiV1.Group("/users")
		{
			// Called after client-side Firebase login/signup to ensure a
			// backend profile exists.
			userAuthGroup.POST("/initialize", authMW.VerifyToken(), authHandler.InitializeUserProfile)
			userAuthGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
		}

		// --- Family Endpoints ---
		familiesRouteGroup := apiV1.Group("/families", authMW.VerifyToken())
		{
			familiesRouteGroup.POST("", familyHandler.CreateFamily)
			familiesRouteGroup.GET("", familyHandler.ListFamilies)
			familiesRouteGroup.POST("/join", familyHandler.JoinFamily)
			familiesRouteGroup.GET("/:familyId", familyHandler.GetFamily)
			familiesRouteGroup.GET("/:familyId/activity", familyHandler.GetActivity)

			// Pantry inventory, nested under the owning family. Membership
			// is checked within the InventoryService methods.
			productsRouteGroup := familiesRouteGroup.Group("/:familyId/products")
			{
				productsRouteGroup.POST("", productHandler.CreateProduct)
				productsRouteGroup.GET("", productHandler.ListProducts)
				productsRouteGroup.GET("/low-stock", productHandler.ListLowStock)
				productsRouteGroup.PUT("/:productId", productHandler.UpdateProduct)
				productsRouteGroup.PATCH("/:productId/quantity", productHandler.AdjustQuantity)
				productsRouteGroup.DELETE("/:productId", productHandler.DeleteProduct)
			}

			// Purchase log, also family-scoped.
			purchasesRouteGroup := familiesRouteGroup.Group("/:familyId/purchases")
			{
				purchasesRouteGroup.POST("", purchaseHandler.RegisterPurchase)
				purchasesRouteGroup.GET("", purchaseHandler.MonthlyPurchases)
			}
		}

		// --- Shopping List Endpoints ---
		// Lists are owned per-user and optionally shared; access is checked
		// within the ListService methods.
		listsRouteGroup := apiV1.Group("/lists", authMW.VerifyToken())
		{
			listsRouteGroup.POST("", listHandler.CreateList)
			listsRouteGroup.GET("", listHandler.ListLists)
			listsRouteGroup.GET("/:listId", listHandler.GetList)
			listsRouteGroup.DELETE("/:listId", listHandler.DeleteList)
			listsRouteGroup.GET("/:listId/watch", listHandler.WatchList)

			itemsRouteGroup := listsRouteGroup.Group("/:listId/items")
			{
				itemsRouteGroup.POST("", listHandler.AddItem)
				itemsRouteGroup.POST("/:itemId/toggle", listHandler.ToggleItem)
				itemsRouteGroup.DELETE("/:itemId", listHandler.RemoveItem)
			}
		}
	}

	// --- Health Check and Metrics Endpoints ---
	// Public; not under the /api/v1 group.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "FamilyMarket backend is healthy."})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("API routes configured successfully under /api/v1, /health and /metrics.")
}
