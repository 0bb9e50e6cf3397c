package main

import (
	"fmt"

	"github.com/partyroom/impostor/config"
	"github.com/partyroom/impostor/content"
	"github.com/partyroom/impostor/game"
	"github.com/partyroom/impostor/logger"
	"github.com/partyroom/impostor/room"
	"github.com/partyroom/impostor/server"
	"github.com/partyroom/impostor/timer"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Custom theme storage is optional; the built-in content library works
	// without a database.
	store, err := openStore(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	if store != nil {
		logger.Log.Info("Database connection successful.")
	}

	library := content.NewLibrary(store)
	assigner := game.NewAssigner(library)
	timers := timer.NewManager()

	roomManager := room.NewManager(assigner, timers, room.Options{
		CodeLength:     cfg.Room.CodeLength,
		CodeRetries:    cfg.Room.CodeRetries,
		MaxPlayers:     cfg.Room.MaxPlayers,
		ReconnectGrace: cfg.Room.ReconnectGrace,
		EmptyGrace:     cfg.Room.EmptyGrace,
		IdleTTL:        cfg.Room.IdleTTL,
		SweepInterval:  cfg.Room.SweepInterval,
	})

	gameServer := server.NewGameServer(cfg, roomManager, store, timers)

	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

func openStore(cfg *config.Config) (content.Store, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	pg := cfg.Database.Postgres
	switch cfg.Database.Driver {
	case "gorm", "":
		return content.NewGormStore(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "pq":
		return content.NewPostgresStore(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
