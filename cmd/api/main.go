package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/communitydir/backend/internal/config"
	"github.com/communitydir/backend/internal/handlers"
	"github.com/communitydir/backend/internal/middleware"
	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/internal/services"
	"github.com/communitydir/backend/internal/verify"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, redisClient, cfg)
	userService := services.NewUserService(db)
	resourceService := services.NewResourceService(db)
	categoryService := services.NewCategoryService(db)
	verificationService := services.NewVerificationService(db, cfg)
	referralService := services.NewReferralService(cfg)
	adminService := services.NewAdminService(db, cfg)
	auditService := services.NewAuditService(db, emailService, cfg)
	// Attach email service so AuthService and AdminService can send emails
	authService.AttachEmailService(emailService)
	adminService.AttachEmailService(emailService)

	verifier := verify.NewStandardVerifier(cfg.VerifierHTTPTimeout)

	// Create admin user if not exists
	if err := adminService.CreateDefaultAdmin(); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Daily overdue verification digest for operators
	scheduler := cron.New()
	if cfg.OverdueDigestEnabled && cfg.AdminAlertEmail != "" {
		_, err := scheduler.AddFunc(cfg.OverdueDigestCron, func() {
			neverVerified, overdue, next, err := verificationService.DueSummary(time.Now().UTC())
			if err != nil {
				log.Printf("Overdue digest error: %v", err)
				return
			}
			if neverVerified == 0 && overdue == 0 {
				return
			}
			nextName := ""
			var nextID uint
			if next != nil {
				nextName = next.Name
				nextID = next.ID
			}
			if err := emailService.SendOverdueDigest(cfg.AdminAlertEmail, neverVerified, overdue, nextName, nextID); err != nil {
				log.Printf("Overdue digest send error: %v", err)
			} else {
				log.Printf("Overdue digest sent: %d never verified, %d overdue", neverVerified, overdue)
			}
		})
		if err != nil {
			log.Fatalf("Failed to schedule overdue digest: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Periodic cleanup for expired refresh tokens and reset tokens
	go func() {
		for {
			if err := authService.CleanupExpiredTokens(); err != nil {
				log.Printf("Token cleanup error: %v", err)
			}
			time.Sleep(1 * time.Hour)
		}
	}()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	publicHandler := handlers.NewPublicHandler(resourceService, categoryService)
	adminHandler := handlers.NewAdminHandler(adminService, resourceService, categoryService, userService, referralService, auditService)
	verificationHandler := handlers.NewVerificationHandler(verificationService, verifier)

	// Health check outside API group (no /api/v1 prefix)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Health check also available under /api/v1/health for compatibility
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Public routes
		public := api.Group("/public")
		{
			public.GET("/resources", publicHandler.SearchResources)
			public.GET("/resources/:slug", publicHandler.GetResource)
			public.GET("/categories", publicHandler.GetCategories)
		}

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
			// Password reset
			auth.POST("/password/forgot", authHandler.ForgotPassword)
			auth.POST("/password/reset", authHandler.ResetPassword)
		}

		// Operator routes (any authenticated user)
		operator := api.Group("/admin")
		operator.Use(middleware.Auth(authService))
		{
			// Resource management
			operator.GET("/resources", adminHandler.GetAllResources)
			operator.POST("/resources", adminHandler.CreateResource)
			operator.GET("/resources/export.csv", adminHandler.ExportResourcesCSV)
			operator.GET("/resources/:id", adminHandler.GetResourceDetails)
			operator.PUT("/resources/:id", adminHandler.UpdateResource)
			operator.GET("/resources/:id/referral.pdf", adminHandler.GetResourceReferralPDF)

			// Verification workflow
			operator.GET("/verification/next", verificationHandler.GetNextDue)
			operator.POST("/verification/:id/preview", verificationHandler.PreviewVerification)
			operator.POST("/verification/:id/apply", verificationHandler.ApplyVerification)
			operator.POST("/verification/:id/template", verificationHandler.ApplyNotesTemplate)
			operator.GET("/verification/:id/history", verificationHandler.GetVerificationHistory)

			// Standalone field checks
			operator.POST("/verification/checks/website", verificationHandler.CheckWebsite)
			operator.POST("/verification/checks/phone", verificationHandler.CheckPhone)
			operator.POST("/verification/checks/email", verificationHandler.CheckEmail)
			operator.POST("/verification/checks/address", verificationHandler.CheckAddress)
		}

		// Admin-only routes
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(authService))
		admin.Use(middleware.AdminOnly())
		{
			// Status transitions are audited and rate limited; archiving in
			// bulk is the action the block is meant to catch
			statusGroup := admin.Group("/resources")
			statusGroup.Use(func(c *gin.Context) {
				c.Set("audit_action", "archive_resource")
				c.Next()
			})
			statusGroup.Use(middleware.AdminActionRateLimit(auditService, redisClient, cfg.AdminRateLimitActions, cfg.AdminRateLimitWindowMinutes))
			{
				statusGroup.PUT("/:id/status", adminHandler.SetResourceStatus)
			}

			// Category management
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			// User management
			admin.GET("/users", adminHandler.GetAllUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PUT("/users/:id/active", adminHandler.UpdateUserActive)
			admin.PUT("/users/:id/password", adminHandler.ResetUserPassword)

			// Audit log management
			admin.GET("/audit/logs", adminHandler.GetAuditLogs)
			admin.GET("/audit/stats", adminHandler.GetAuditStats)

			// Settings
			admin.GET("/settings/verification-frequency", adminHandler.GetVerificationFrequency)
			admin.PUT("/settings/verification-frequency", adminHandler.UpdateVerificationFrequency)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
