package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/api"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/config"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/core"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/middleware"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	// NewDevelopment gives human-readable output; switch to zap.NewProduction()
	// for structured JSON in deployed environments.
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (includes Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	// --- 4. Retrieve initialized clients ---
	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()

	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firestore and Firebase Auth clients retrieved successfully.")

	// --- 5. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	familyRepo := db.NewFirestoreFamilyRepository(firestoreClient)
	productRepo := db.NewFirestoreProductRepository(firestoreClient)
	purchaseRepo := db.NewFirestorePurchaseRepository(firestoreClient)
	listRepo := db.NewFirestoreListRepository(firestoreClient)
	activityRepo := db.NewFirestoreActivityRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize Services ---
	activityService := core.NewActivityService(activityRepo)
	userService := core.NewUserService(userRepo)
	familyService := core.NewFamilyService(familyRepo, userRepo, activityService)
	inventoryService := core.NewInventoryService(productRepo, familyRepo, activityService)
	purchaseService := core.NewPurchaseService(purchaseRepo, productRepo, familyRepo, activityService)
	listService := core.NewListService(listRepo, familyRepo, userRepo, activityService)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	// gin.New() keeps control over the middleware stack instead of the
	// defaults gin.Default() would install.
	router := gin.New()
	zapLogger.Info("Gin engine created.")

	// --- 8. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.Metrics())

	// Apply CORS middleware only if ClientURL is configured.
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 9. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		userService,
		familyService,
		inventoryService,
		purchaseService,
		listService,
	)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Give active connections (including open SSE streams) time to finish.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
