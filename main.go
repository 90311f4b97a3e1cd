package main

import (
	"github.com/seanseanwu5/internet/config"
	"github.com/seanseanwu5/internet/logger"
	"github.com/seanseanwu5/internet/persistence"
	"github.com/seanseanwu5/internet/server"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize archive
	archive := newArchive(cfg)
	defer archive.Close()

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, archive)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

// newArchive 按配置选择存档实现，存档关闭时用空实现顶替
func newArchive(cfg *config.Config) persistence.Archive {
	if !cfg.Archive.Enabled {
		logger.Log.Info("Archive disabled, game records will not be saved.")
		return persistence.NewNoopArchive()
	}

	pg := cfg.Archive.Postgres

	var (
		archive persistence.Archive
		err     error
	)
	switch cfg.Archive.Driver {
	case "sql":
		archive, err = persistence.NewSQLArchive(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		archive, err = persistence.NewGormArchive(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
	if err != nil {
		logger.Log.Fatalf("Failed to connect to archive database: %v", err)
	}

	logger.Log.Infof("Archive connected with driver %q.", cfg.Archive.Driver)
	return archive
}
