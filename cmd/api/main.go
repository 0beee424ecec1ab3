package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/sitecrew/sitecrew-backend-go/internal/config"
	appHTTP "github.com/sitecrew/sitecrew-backend-go/internal/handler/http"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/jwt"
	"github.com/sitecrew/sitecrew-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/sitecrew/sitecrew-backend-go/internal/service/auth"
	employeeService "github.com/sitecrew/sitecrew-backend-go/internal/service/employee"
	payrollService "github.com/sitecrew/sitecrew-backend-go/internal/service/payroll"
	siteService "github.com/sitecrew/sitecrew-backend-go/internal/service/site"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.App.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sitecrew-payroll"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService, logger)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, logger)
	siteSvc := siteService.NewSiteService(transactor, siteRepo, logger)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, siteService.NewRosterResolver(siteRepo), logger)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			LogLevel:       cfg.App.SlogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewSiteHandler(siteSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
