package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JustJay7/case-consult/internal/cache"
	"github.com/JustJay7/case-consult/internal/casefile"
	"github.com/JustJay7/case-consult/internal/config"
	"github.com/JustJay7/case-consult/internal/database"
	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/internal/portal"
	"github.com/JustJay7/case-consult/internal/server"
	"github.com/JustJay7/case-consult/pkg/logger"
)

func main() {
	var (
		migrate      bool
		attachmentID int64
		name         string
	)
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Int64Var(&attachmentID, "download", 0, "Save the attachment with this id into DOWNLOAD_DIR and exit")
	flag.StringVar(&name, "name", "", "File name for -download")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client := portal.NewClient(cfg, log)
	service := casefile.NewService(client, log, cfg.MaxConcurrentLookups)

	if attachmentID > 0 {
		path, err := service.Attachments().Save(context.Background(), models.Attachment{ID: attachmentID, Name: name}, cfg.DownloadDir)
		if err != nil {
			log.Fatal("Failed to save attachment", "attachment_id", attachmentID, "error", err)
		}
		fmt.Println(path)
		return
	}

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	cacheService := cache.New(cfg, log)

	srv := server.New(cfg, db, cacheService, service, client, log)

	log.Info("Starting case consult service",
		"host", cfg.Host,
		"port", cfg.Port,
		"authority", cfg.PortalAPIURL,
		"cache", cacheService.Stats().Backend,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
