package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"dmapi/internal/api"
	"dmapi/internal/compat"
	"dmapi/internal/config"
	"dmapi/internal/database"
	"dmapi/internal/middleware"
	"dmapi/internal/modules/download"
	"dmapi/internal/modules/version"
	jwtsvc "dmapi/internal/pkg/jwt"
	"dmapi/internal/repository"
	"dmapi/internal/transient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// Precondition checks come first: on failure the service surfaces the
	// notice and refuses to register anything.
	gate := compat.NewGate(database.NewSchemaInfo(db))
	if notice := gate.Check(context.Background()); notice != nil {
		log.Fatal(notice.Message)
	}

	if err := api.InstallVersionOrdering(db); err != nil {
		log.Fatal(err)
	}

	transients, err := newTransientManager(cfg)
	if err != nil {
		log.Fatal(err)
	}

	downloadRepo := repository.NewDownloadRepository(db)
	versionRepo := repository.NewVersionRepository(db)

	downloadHandler := download.NewHandler(downloadRepo, versionRepo, cfg.AuthorID)
	versionHandler := version.NewHandler(versionRepo, transients, cfg.AuthorID)

	registry := api.NewRegistry(downloadHandler, versionHandler)

	j := jwtsvc.New(cfg.JWTSecret, cfg.TokenTTL)

	r := gin.Default()
	r.Use(middleware.RequestID())

	authed := r.Group("/")
	authed.Use(middleware.Auth(j))
	registry.RegisterEndpoints(authed)

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func newTransientManager(cfg *config.Config) (transient.Manager, error) {
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL is empty, using in-process versions transient")
		return transient.NewMemoryManager(cfg.TransientTTL), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	return transient.NewRedisManager(rdb, cfg.TransientTTL), nil
}
