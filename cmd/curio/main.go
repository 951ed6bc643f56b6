package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpetrou/curio/internal/appstate"
	"github.com/mpetrou/curio/internal/config"
	"github.com/mpetrou/curio/internal/database"
	"github.com/mpetrou/curio/internal/database/repository"
	"github.com/mpetrou/curio/internal/prefs"
	"github.com/mpetrou/curio/internal/service"
	"github.com/mpetrou/curio/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if cfg.Library.AutoSeed {
		if err := database.SeedDefaults(ctx, db); err != nil {
			log.Fatalf("seed defaults: %v", err)
		}
	}

	// repositories
	chRepo := repository.NewChannelRepo(db)
	topicRepo := repository.NewTopicRepo(db)
	contentRepo := repository.NewContentRepo(db)

	// services
	library := &service.LibraryService{Channels: chRepo, Topics: topicRepo, Contents: contentRepo}
	search := &service.SearchService{Topics: topicRepo, Contents: contentRepo}
	maintenance := &service.MaintenanceService{DB: db}

	// the shared application store and last session, restored best effort
	st := appstate.New()
	session, err := prefs.LoadSession()
	if err != nil {
		log.Printf("warn: session not restored: %v", err)
	}

	app := tui.New(ctx, cfg,
		tui.Repos{Channels: chRepo, Topics: topicRepo, Contents: contentRepo},
		tui.Services{Library: library, Search: search, Maintenance: maintenance},
		st, session,
	)

	unwatch := prefs.Watch(st, app.ActiveLocation)
	defer unwatch()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
