package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clubhub-backend-go/internal/api"
	"clubhub-backend-go/internal/auth"
	"clubhub-backend-go/internal/config"
	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/crypto"
	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/jobs"
	"clubhub-backend-go/internal/middleware"
)

func main() {
	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded", zap.String("store", appConfig.StoreDriver))

	// --- 3. Open the document store and the identity provider ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()

	var (
		store    db.Store
		identity auth.IdentityProvider
	)
	switch appConfig.StoreDriver {
	case config.StoreFirestore:
		clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
		}
		fsStore, err := db.NewFirestoreStore(clients.Firestore)
		if err != nil {
			_ = clients.Close()
			zapLogger.Fatal("CRITICAL_ERROR: Failed to create Firestore store", zap.Error(err))
		}
		store = fsStore
		identity, err = auth.NewFirebaseIdentity(initCtx, clients.Auth, appConfig.FirebaseWebAPIKey, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize identity provider", zap.Error(err))
		}
	default:
		zapLogger.Warn("Using the in-memory store and local identity provider; data is lost on exit.")
		store = db.NewMemoryStore()
		identity = auth.NewLocalIdentity(zapLogger)
	}
	defer store.Close()

	key, err := crypto.KeyFromBase64(appConfig.EncryptionKey)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid ENCRYPTION_KEY", zap.Error(err))
	}
	cipher, err := crypto.NewFieldCipher(key)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to create field cipher", zap.Error(err))
	}

	// --- 4. Initialize Repositories ---
	index := db.NewUserClubIndex(store)
	clubRepo := db.NewClubRepository(store, index)
	memberRepo := db.NewMemberRepository(store)
	userRepo := db.NewUserRepository(store)
	auditRepo := db.NewAuditRepository(store)

	// --- 5. Initialize Services ---
	auditService := core.NewAuditService(auditRepo, clubRepo, memberRepo)
	defaults := core.ClubDefaults{Currency: appConfig.DefaultCurrency, Timezone: appConfig.DefaultTimezone}
	services := api.Services{
		Users:     core.NewUserService(userRepo, cipher, zapLogger),
		Clubs:     core.NewClubService(clubRepo, memberRepo, userRepo, auditService, defaults, zapLogger),
		Members:   core.NewMemberService(clubRepo, memberRepo, cipher, auditService, zapLogger),
		Payments:  core.NewPaymentService(clubRepo, memberRepo, db.NewPaymentRepository(store), auditService, zapLogger),
		Invoices:  core.NewInvoiceService(clubRepo, memberRepo, db.NewInvoiceRepository(store), auditService, zapLogger),
		Events:    core.NewEventService(clubRepo, memberRepo, db.NewEventRepository(store), db.NewAttendanceRepository(store), auditService, zapLogger),
		Documents: core.NewDocumentService(clubRepo, memberRepo, db.NewDocumentRepository(store), auditService, zapLogger),
		Audit:     auditService,
	}
	authManager := auth.NewManager(identity, userRepo, zapLogger)

	// --- 6. Background jobs ---
	jobRunner := jobs.NewJobRunner(clubRepo, memberRepo, index, auditRepo, zapLogger, 0)
	scheduler, err := jobs.NewScheduler(jobRunner, jobs.Schedules{
		ReconcileMemberCounts:  appConfig.ReconcileSchedule,
		RebuildMembershipIndex: appConfig.IndexRebuildSchedule,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to configure job scheduler", zap.Error(err))
	}
	scheduler.Start()

	// --- 7. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
	api.SetupRoutes(router, appConfig, zapLogger, authManager, services)

	// --- 8. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 9. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop()
	zapLogger.Info("Server exiting gracefully.")
}

func newLogger(appConfig *config.Config) (*zap.Logger, error) {
	if appConfig.IsRelease() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
