package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kunal96k/tts-mock-test/internal/handler"
	"github.com/kunal96k/tts-mock-test/internal/jobs"
	"github.com/kunal96k/tts-mock-test/internal/middleware"
	"github.com/kunal96k/tts-mock-test/pkg/auth"
	"github.com/kunal96k/tts-mock-test/pkg/database"
)

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	cmd.Flags().Bool("skip-migrations", false, "Do not apply SQL migrations on startup")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	skipMigrations, _ := cmd.Flags().GetBool("skip-migrations")
	if !skipMigrations {
		if err := database.MigrateDB(a.db); err != nil {
			return err
		}
	}

	verifier, err := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	scheduler, err := jobs.NewScheduler(a.banks, cfg.Jobs.RecountCron)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := newRouter(a, verifier)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return err
	}

	log.Println("Server exited properly")
	return nil
}

func newRouter(a *app, verifier *auth.TokenVerifier) *gin.Engine {
	cfg := a.cfg
	router := gin.Default()

	trusted := cfg.Server.TrustedProxies
	if gin.Mode() != gin.ReleaseMode && len(trusted) == 0 {
		trusted = []string{"127.0.0.1", "::1"}
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultAllowedOrigins
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authMiddleware := middleware.NewAuthMiddleware(verifier)
	rateLimiter := middleware.NewRateLimiter(a.redis)
	submitLimit := middleware.SubmitRateLimitConfig(cfg.RateLimit.SubmitMax, cfg.RateLimit.SubmitWindow())

	testHandler := handler.NewTestHandler(a.tests)
	blueprintHandler := handler.NewBlueprintHandler(a.blueprints)
	adminHandler := handler.NewAdminHandler(a.tests, a.banks)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	api := router.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	{
		student := api.Group("")
		student.Use(middleware.RequireRole(auth.RoleStudent, auth.RoleAdmin))
		{
			student.GET("/blueprints/active", blueprintHandler.ListActiveBlueprints)

			tests := student.Group("/tests/:id")
			tests.Use(middleware.ExtractUintParam("id", "testID"))
			{
				tests.POST("/start", testHandler.StartTest)
				tests.POST("/submit", rateLimiter.Limit(submitLimit), testHandler.SubmitTest)
			}

			student.GET("/attempts/me", testHandler.MyAttempts)
			student.GET("/attempts/ref/:reference", testHandler.GetAttemptByReference)
			student.GET("/attempts/:id", middleware.ExtractUintParam("id", "attemptID"), testHandler.GetAttempt)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.AdminOnly())
		{
			blueprints := admin.Group("/blueprints")
			{
				blueprints.POST("", blueprintHandler.CreateBlueprint)
				blueprints.GET("", blueprintHandler.ListBlueprints)
				blueprints.GET("/count", blueprintHandler.CountBlueprints)

				byID := blueprints.Group("/:id")
				byID.Use(middleware.ExtractUintParam("id", "blueprintID"))
				{
					byID.GET("", blueprintHandler.GetBlueprint)
					byID.PUT("", blueprintHandler.UpdateBlueprint)
					byID.PATCH("/toggle", blueprintHandler.ToggleBlueprint)
					byID.DELETE("", blueprintHandler.DeleteBlueprint)
				}
			}

			banks := admin.Group("/banks/:id")
			banks.Use(middleware.ExtractUintParam("id", "bankID"))
			{
				banks.GET("/stats", adminHandler.GetBankStats)
				banks.POST("/validate-config", adminHandler.ValidateConfig)
				banks.DELETE("", adminHandler.DeleteBank)
			}

			admin.PATCH("/questions/:id/active", middleware.ExtractUintParam("id", "questionID"), adminHandler.SetQuestionActive)
			admin.POST("/recount", adminHandler.Recount)

			testAttempts := admin.Group("/tests/:id/attempts")
			testAttempts.Use(middleware.ExtractUintParam("id", "testID"))
			{
				testAttempts.GET("", adminHandler.ListTestAttempts)
				testAttempts.GET("/export", adminHandler.ExportTestAttempts)
			}
		}
	}

	return router
}
