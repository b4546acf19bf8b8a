package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/accounting/backend/internal/application/audit"
	billingapp "github.com/accounting/backend/internal/application/billing"
	catalogapp "github.com/accounting/backend/internal/application/catalog"
	identityapp "github.com/accounting/backend/internal/application/identity"
	partnerapp "github.com/accounting/backend/internal/application/partner"
	"github.com/accounting/backend/internal/infrastructure/auth"
	"github.com/accounting/backend/internal/infrastructure/config"
	"github.com/accounting/backend/internal/infrastructure/logger"
	"github.com/accounting/backend/internal/infrastructure/persistence"
	"github.com/accounting/backend/internal/interfaces/http/handler"
	"github.com/accounting/backend/internal/interfaces/http/middleware"
	"github.com/accounting/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting accounting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Application services
	recorder := auditapp.NewRecorder(auditRepo, log)
	accessService := identityapp.NewAccessService(membershipRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	companyService := identityapp.NewCompanyService(companyRepo, membershipRepo)
	membershipService := identityapp.NewMembershipService(membershipRepo, userRepo)
	userService := identityapp.NewUserService(userRepo, membershipRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, recorder)
	productService := catalogapp.NewProductService(productRepo, recorder)
	commissionService := billingapp.NewCommissionService(commissionRepo, invoiceRepo, membershipRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, membershipRepo, commissionService, recorder, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine).
		Register(handler.NewAuthHandler(authService, companyService)).
		Register(handler.NewCompanyHandler(companyService, accessService)).
		Register(handler.NewUserHandler(userService, authService, accessService)).
		Register(handler.NewMembershipHandler(membershipService, accessService)).
		Register(handler.NewCustomerHandler(customerService, accessService)).
		Register(handler.NewProductHandler(productService, accessService)).
		Register(handler.NewInvoiceHandler(invoiceService, commissionService, accessService)).
		Register(handler.NewCommissionHandler(commissionService, accessService)).
		Register(handler.NewAuditHandler(recorder, accessService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
