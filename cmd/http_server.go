package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crossdept/feedback-platform/internal"
	"github.com/crossdept/feedback-platform/internal/analytics"
	analyticsPostgres "github.com/crossdept/feedback-platform/internal/analytics/postgres"
	"github.com/crossdept/feedback-platform/internal/auth"
	"github.com/crossdept/feedback-platform/internal/category"
	categoryPostgres "github.com/crossdept/feedback-platform/internal/category/postgres"
	"github.com/crossdept/feedback-platform/internal/core/events"
	"github.com/crossdept/feedback-platform/internal/department"
	departmentPostgres "github.com/crossdept/feedback-platform/internal/department/postgres"
	"github.com/crossdept/feedback-platform/internal/mapping"
	mappingPostgres "github.com/crossdept/feedback-platform/internal/mapping/postgres"
	"github.com/crossdept/feedback-platform/internal/session"
	"github.com/crossdept/feedback-platform/internal/survey"
	surveyPostgres "github.com/crossdept/feedback-platform/internal/survey/postgres"
	"github.com/crossdept/feedback-platform/internal/transport/rest"
	"github.com/crossdept/feedback-platform/internal/user"
	userPostgres "github.com/crossdept/feedback-platform/internal/user/postgres"
	"github.com/crossdept/feedback-platform/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	cycle := config.Survey.CycleOrDefault()
	bus := events.NewEventBus(lg)
	switcher := session.NewSwitcher(lg)

	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	mappingRepo := mappingPostgres.NewMappingRepository(gormDB)
	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	surveyRepo := surveyPostgres.NewSurveyRepository(gormDB)
	analyticsRepo := analyticsPostgres.NewAnalyticsRepository(gormDB)

	departmentService := department.NewService(departmentRepo, lg)
	mappingService := mapping.NewService(mappingRepo, departmentService, lg)
	categoryService := category.NewService(categoryRepo, lg)
	userService := user.NewService(userRepo, config.Security.BCryptCost, cycle, lg)

	eligibility := survey.NewTracker(surveyRepo, cycle, lg)
	surveyService := survey.NewService(surveyRepo, eligibility, mappingService, categoryService, departmentService, bus, lg)

	analyticsService := analytics.NewService(analyticsRepo, lg)
	analyticsService.RegisterInvalidation(bus)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(userService, tokenGen)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService, userService, switcher),
		User:       user.NewHandler(userService),
		Department: department.NewHandler(departmentService),
		Mapping:    mapping.NewHandler(mappingService),
		Category:   category.NewHandler(categoryService),
		Session:    session.NewHandler(switcher, userService),
		Survey:     survey.NewHandler(surveyService, userService, switcher),
		Analytics:  analytics.NewHandler(analyticsService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
