package app

import (
	"context"
	"fmt"

	"github.com/talentboard/backend/cognito"
	"github.com/talentboard/backend/config"
	"github.com/talentboard/backend/middleware"
	"github.com/talentboard/backend/repositories"
	"github.com/talentboard/backend/repositories/postgres"
	"github.com/talentboard/backend/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Users repositories.UserRepository
	Tasks repositories.TaskRepository

	// Services
	IdentityService *services.IdentityService
	UserService     *services.UserService
	TaskService     *services.TaskService

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices(cfg)
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Users = postgres.NewUserRepository(d.DB, d.Logger)
	d.Tasks = postgres.NewTaskRepository(d.DB, d.Logger)
	d.Logger.Info("repositories initialized")
}

// initServices initializes the service layer
func (d *Dependencies) initServices(cfg *config.Config) {
	d.IdentityService = services.NewIdentityService(d.Users, cfg.Auth.OverrideAdminEmail, d.Logger)
	d.UserService = services.NewUserService(d.Users, d.Logger)
	d.TaskService = services.NewTaskService(d.Tasks, d.Users, d.Logger)

	if cfg.Auth.OverrideAdminEmail != "" {
		d.Logger.Info("override admin configured")
	}
}

// initAuth wires the token verifier and the authentication gate
func (d *Dependencies) initAuth(cfg *config.Config) {
	resolver := cognito.NewKeyResolver(cognito.KeyResolverConfig{
		JWKSURL:       cfg.Cognito.JWKSURL(),
		CacheTTL:      cfg.Cognito.KeyCacheTTL,
		FetchCooldown: cfg.Cognito.FetchCooldown,
		HTTPTimeout:   cfg.Cognito.HTTPTimeout,
	}, d.Logger)

	validator := cognito.NewValidator(cfg.Cognito, resolver)
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.IdentityService, d.Logger)

	d.Logger.Info("authentication gate initialized",
		zap.String("issuer", cfg.Cognito.IssuerURL()))
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
