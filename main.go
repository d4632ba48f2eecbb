package main

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/avleth/kodiscreen/artwork"
	"github.com/avleth/kodiscreen/config"
	"github.com/avleth/kodiscreen/db"
	"github.com/avleth/kodiscreen/events"
	"github.com/avleth/kodiscreen/jobs"
	"github.com/avleth/kodiscreen/kodi"
	"github.com/avleth/kodiscreen/notify"
	"github.com/avleth/kodiscreen/playback"
	"github.com/avleth/kodiscreen/routes"
	"github.com/avleth/kodiscreen/utils"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func main() {

	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.GetLogLevel(),
	}))
	slog.SetDefault(logger)

	servers := config.ParseKodiServers()
	if len(servers) == 0 {
		slog.Error("No Kodi servers configured. Set KODI_HOST or KODI_HOST_1.")
		os.Exit(1)
	}

	if utils.GetEnv("RESET_DB", "0") == "1" {
		err := os.Remove(cfg.Kodiscreen.DbPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	store, err := db.NewSqliteStore(cfg.Kodiscreen.DbPath)
	if err != nil {
		slog.Error("Failed to open database", slog.String("stack", err.Error()))
		os.Exit(1)
	}

	if err := store.ApplyMigrations(embedMigrations); err != nil {
		slog.Error("Failed to apply migrations", slog.String("stack", err.Error()))
		os.Exit(1)
	}

	client := kodi.New(servers)
	resolver := artwork.NewResolver(client, cfg.Kodiscreen.CacheDir, cfg.Kodiscreen.MusicRoot)
	registry := playback.NewRegistry(client)
	notifier := notify.New(cfg.Pushover)

	jobScheduler := jobs.SetupInBackground(cfg)

	if cfg.Kodiscreen.BackgroundJobsEnabled {
		jobScheduler.StartAsync()
		fmt.Println("Background jobs have started up in the background.")
	} else {
		fmt.Println("Background jobs are disabled.")
	}

	events.Init()

	router := routes.Register(http.NewServeMux(), routes.Deps{
		Config:   cfg,
		Store:    store,
		Client:   client,
		Registry: registry,
		Resolver: resolver,
		Notifier: notifier,
	})

	fmt.Printf("Kodiscreen is running at http://localhost:%d\n", cfg.Kodiscreen.Port)

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Kodiscreen.Port), router); err != nil {
		fmt.Println(err)
		jobScheduler.Stop()
		os.Exit(1)
	}
}
