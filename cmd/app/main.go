package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/cmd/fx/auth_fx"
	"bloodline/cmd/fx/catalog_fx"
	"bloodline/cmd/fx/controllers_fx"
	"bloodline/cmd/fx/core_fx"
	"bloodline/cmd/fx/feedback_fx"
	"bloodline/cmd/fx/lifecycle_fx"
	"bloodline/cmd/fx/mail_fx"
	"bloodline/cmd/fx/payment_fx"
	"bloodline/internal/api/controllers"
	"bloodline/internal/bootstrap"
	"bloodline/internal/config"
	"bloodline/internal/infra"
	"bloodline/internal/models/db_models"
	mem "bloodline/pkg/memcache"
	"bloodline/pkg/middleware"
)

func main() {
	app := fx.New(
		core_fx.Module,
		mail_fx.Module,
		auth_fx.Module,
		catalog_fx.Module,
		lifecycle_fx.Module,
		payment_fx.Module,
		feedback_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(SeedAdmin),
		fx.Invoke(StartSessionSweeper),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideRouter(
	cfg *config.Config,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	serviceController *controllers.ServiceController,
	requestController *controllers.TestRequestController,
	paymentController *controllers.PaymentController,
	feedbackController *controllers.FeedbackController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(r, cfg, authController, adminController, serviceController, requestController, paymentController, feedbackController)
	return r
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	serviceController *controllers.ServiceController,
	requestController *controllers.TestRequestController,
	paymentController *controllers.PaymentController,
	feedbackController *controllers.FeedbackController,
) {
	auth := middleware.JWTAuthMiddleware()

	// Public surface: catalog browsing, registration, the gateway callback and
	// published feedback need no token.
	r.POST("/auth/register", authController.Register)
	r.POST("/auth/login", authController.Login)
	r.POST("/auth/refresh", authController.Refresh)
	r.POST("/auth/logout", authController.Logout)
	r.GET("/services", serviceController.ListServices)
	r.GET("/services/:id", serviceController.GetService)
	r.GET("/payments/vnpay-return", paymentController.GatewayReturn)
	r.GET("/feedback", feedbackController.ListPublic)

	account := r.Group("/auth", auth)
	account.POST("/change-password", authController.ChangePassword)
	account.GET("/profile", authController.GetProfile)
	account.PUT("/profile", authController.UpdateProfile)

	customer := r.Group("/", auth, middleware.RequireRoles(string(db_models.RoleCustomer)))
	customer.POST("/payments/checkout", paymentController.Checkout)
	customer.GET("/requests", requestController.ListMine)
	customer.POST("/requests/:id/samples", requestController.SubmitSample)
	customer.POST("/feedback", feedbackController.AddFeedback)
	customer.GET("/feedback/mine", feedbackController.ListMine)

	// Detail, report and cancel are shared across roles; the service layer
	// enforces per-role ownership.
	shared := r.Group("/requests", auth)
	shared.GET("/:id", requestController.GetDetail)
	shared.GET("/:id/report", requestController.DownloadReport)
	shared.POST("/:id/cancel", requestController.Cancel)

	staff := r.Group("/staff", auth, middleware.RequireRoles(string(db_models.RoleStaff)))
	staff.GET("/requests/pending", requestController.ListPending)
	staff.GET("/requests/assigned", requestController.ListAssigned)
	staff.POST("/requests/:id/confirm", requestController.Confirm)
	staff.POST("/requests/:id/in-progress", requestController.MarkInProgress)
	staff.POST("/requests/:id/result", requestController.EnterResult)

	manager := r.Group("/manager", auth, middleware.RequireRoles(string(db_models.RoleManager)))
	manager.POST("/requests/:id/verify", requestController.VerifyResult)

	admin := r.Group("/admin", auth, middleware.RequireRoles(string(db_models.RoleAdmin)))
	admin.GET("/accounts", adminController.ListAccounts)
	admin.POST("/services", serviceController.CreateService)
	admin.PUT("/services/:id", serviceController.UpdateService)
	admin.DELETE("/services/:id", serviceController.DeactivateService)

	defaultAdmin := admin.Group("", middleware.RequireDefaultAdmin(cfg.DefaultAdminEmail))
	defaultAdmin.PUT("/accounts/:id/role", adminController.AssignRole)
}

func SeedAdmin(lc fx.Lifecycle, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return bootstrap.SeedDefaultAdmin(ctx, db, cfg, logger)
		},
	})
}

// StartSessionSweeper evicts expired checkout sessions so abandoned payments
// do not pin memory.
func StartSessionSweeper(lc fx.Lifecycle, sessions mem.PaymentSessionStore, logger *zap.Logger) {
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(5 * time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := sessions.Sweep(); n > 0 {
							logger.Info("swept expired checkout sessions", zap.Int("count", n))
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *zap.Logger) {
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
}
