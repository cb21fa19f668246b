package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clubhub-backend-go/internal/auth"
	"clubhub-backend-go/internal/config"
	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/middleware"
)

// Services groups the services the HTTP API is built on.
type Services struct {
	Users     core.UserService
	Clubs     core.ClubService
	Members   core.MemberService
	Payments  core.PaymentService
	Invoices  core.InvoiceService
	Events    core.EventService
	Documents core.DocumentService
	Audit     core.AuditService
}

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) is expected to be
// installed on router already.
func SetupRoutes(router *gin.Engine, appConfig *config.Config, logger *zap.Logger, manager *auth.Manager, svc Services) {
	// 1. Authentication middleware, applied per group below.
	authMW := middleware.NewAuthMiddleware(manager, logger)
	requireAuth := authMW.VerifyToken()

	// 2. Handlers

	authHandler := NewAuthHandler(manager, appConfig.EnableGoogleSignIn)
	userHandler := NewUserHandler(svc.Users)
	clubHandler := NewClubHandler(svc.Clubs)
	memberHandler := NewMemberHandler(svc.Members)
	paymentHandler := NewPaymentHandler(svc.Payments, svc.Invoices)
	activityHandler := NewActivityHandler(svc.Events, svc.Documents, svc.Audit)

	// 3. Routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes are public except sign-out, which needs the session.
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.POST("/google", authHandler.SignInWithGoogle)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
			authGroup.POST("/signout", requireAuth, authHandler.SignOut)
		}

		usersGroup := apiV1.Group("/users", requireAuth)
		{
			usersGroup.GET("/me", userHandler.GetCurrentUserProfile)
			usersGroup.PATCH("/me", userHandler.UpdateCurrentUserProfile)
		}

		// Public club portal (no authentication)
		apiV1.GET("/portal/:slug", clubHandler.GetPortal)

		clubsGroup := apiV1.Group("/clubs", requireAuth)
		{
			clubsGroup.GET("", clubHandler.ListClubs)
			clubsGroup.POST("", clubHandler.CreateClub)

			// Club-scoped routes. Access (owner, admin, member) is checked by
			// the services, not here.
			club := clubsGroup.Group("/:clubId")
			club.GET("", clubHandler.GetClub)
			club.PATCH("", clubHandler.UpdateClub)
			club.DELETE("", clubHandler.DeleteClub)
			club.POST("/reconcile", clubHandler.ReconcileMemberCount)

			club.GET("/members", memberHandler.ListMembers)
			club.POST("/members", memberHandler.AddMember)
			club.GET("/members/:memberId", memberHandler.GetMember)
			club.PATCH("/members/:memberId", memberHandler.UpdateMember)
			club.DELETE("/members/:memberId", memberHandler.DeleteMember)

			club.GET("/payments", paymentHandler.ListPayments)
			club.POST("/payments", paymentHandler.CreatePayment)
			club.POST("/payments/bulk", paymentHandler.CreateBulkPayments)
			club.PATCH("/payments/:paymentId", paymentHandler.UpdatePayment)

			club.GET("/invoices", paymentHandler.ListInvoices)
			club.POST("/invoices", paymentHandler.CreateInvoice)

			club.GET("/events", activityHandler.ListEvents)
			club.POST("/events", activityHandler.CreateEvent)
			club.GET("/attendance", activityHandler.ListAttendance)
			club.POST("/attendance", activityHandler.RecordAttendance)
			club.GET("/documents", activityHandler.ListDocuments)
			club.POST("/documents", activityHandler.AddDocument)
			club.GET("/audit-logs", activityHandler.ListAuditLogs)
		}
	}

	// Health check endpoint (outside the versioned API)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
