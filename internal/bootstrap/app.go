package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"orgdocs-backend/internal/auth"
	"orgdocs-backend/internal/documents"
	"orgdocs-backend/internal/identity"
	"orgdocs-backend/internal/organizations"
	"orgdocs-backend/internal/profiles"
	"orgdocs-backend/internal/services/health"
	"orgdocs-backend/internal/shared/config"
	"orgdocs-backend/internal/shared/server"
	"orgdocs-backend/internal/shared/storage/db"
	"orgdocs-backend/internal/shared/storage/object"
	localstore "orgdocs-backend/internal/shared/storage/object/local"
	s3store "orgdocs-backend/internal/shared/storage/object/s3"
	supabasestore "orgdocs-backend/internal/shared/storage/object/supabase"
	"orgdocs-backend/internal/shared/supabase"
	"orgdocs-backend/internal/shared/telemetry"
	"orgdocs-backend/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Profiles  profiles.Store
	Documents documents.Writer
	Verifier  *identity.Verifier
	Resolver  *organizations.Resolver
	SignIn    *auth.Handler
	Uploads   *uploads.Handler
}

// Build wires every component from cfg and mounts routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	identityClient := supabase.New(cfg.Platform, cfg.Timeouts.Identity)
	profileClient := supabase.New(cfg.Platform, cfg.Timeouts.Profile)
	insertClient := supabase.New(cfg.Upload, cfg.Timeouts.Insert)

	profileStore := buildProfiles(cfg, sqlDB, profileClient)
	docWriter := buildDocuments(cfg, sqlDB, insertClient)

	verifier := identity.NewVerifier(identityClient)
	resolver := organizations.NewResolver(profileStore)

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Profiles:  profileStore,
		Documents: docWriter,
		Verifier:  verifier,
		Resolver:  resolver,
		SignIn:    auth.NewHandler(verifier, resolver),
		Uploads: uploads.NewHandler(verifier, resolver, store, docWriter, uploads.Options{
			Bucket:       cfg.Bucket,
			MaxBytes:     cfg.MaxUploadBytes,
			AllowedTypes: cfg.AllowedMIMETypes,
		}),
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Health:  health.NewService(),
		SignIn:  app.SignIn,
		Uploads: app.Uploads,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":             cfg.Env,
		"platform_url":    identityClient.BaseURL(),
		"platform_key":    identityClient.KeyPreview(),
		"object_store":    store.Name(),
		"documents_store": cfg.DocumentsStore,
		"profiles_store":  cfg.ProfilesStore,
		"bucket":          cfg.Bucket,
		"max_bytes":       cfg.MaxUploadBytes,
	})
	return app, nil
}

func needsDB(cfg config.Config) bool {
	return cfg.DocumentsStore == "postgres" || cfg.ProfilesStore == "postgres"
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if !needsDB(cfg) {
		return nil, nil
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when a postgres store is selected")
	}
	sqlDB, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return sqlDB, nil
}

// buildStore returns the configured primary behind a local-disk fallback.
func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	fallback := localstore.New(cfg.LocalStoreDir)

	var primary object.ObjectStore
	switch cfg.ObjectStoreType {
	case "s3":
		s3, err := s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		primary = s3
	case "local":
		return fallback, nil
	default:
		primary = supabasestore.New(supabase.New(cfg.Upload, cfg.Timeouts.Storage))
	}
	return object.NewFallback(primary, fallback), nil
}

func buildProfiles(cfg config.Config, sqlDB *sql.DB, client *supabase.Client) profiles.Store {
	switch {
	case cfg.ProfilesStore == "postgres" && sqlDB != nil:
		return &profiles.PGStore{DB: sqlDB}
	case cfg.ProfilesStore == "memory":
		return profiles.NewMemoryStore()
	default:
		return profiles.NewRESTStore(client, cfg.ProfilesTable)
	}
}

func buildDocuments(cfg config.Config, sqlDB *sql.DB, client *supabase.Client) documents.Writer {
	switch {
	case cfg.DocumentsStore == "postgres" && sqlDB != nil:
		return &documents.PGRepo{DB: sqlDB}
	case cfg.DocumentsStore == "memory":
		return documents.NewMemoryRepo()
	default:
		return documents.NewRESTWriter(client, cfg.DocumentsTable)
	}
}
