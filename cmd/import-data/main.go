package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EmpoweredVote/EV-OpenData/internal/db"
	"github.com/EmpoweredVote/EV-OpenData/internal/opendata"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := opendata.LoadFromEnv()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	jobs := opendata.Datasets()
	if cfg.SourcesFile != "" {
		sources, err := opendata.LoadSources(cfg.SourcesFile)
		if err != nil {
			log.Fatalf("❌ Loading sources: %v", err)
		}
		if jobs, err = sources.Apply(jobs); err != nil {
			log.Fatalf("❌ Loading sources: %v", err)
		}
	}

	gdb, err := db.Open(cfg.DatabaseURL, cfg.LogSQL)
	if err != nil {
		log.Fatal(err)
	}
	if err := opendata.Migrate(gdb); err != nil {
		log.Fatalf("❌ Migrating opendata tables: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	imp := opendata.NewImporter(
		opendata.NewFetcher(cfg.FetchTimeout, cfg.FetchInterval),
		db.NewStore(gdb),
		opendata.NewConsole(os.Stdout),
		cfg.BatchSize,
	)
	report, err := imp.Run(ctx, jobs...)
	stop()

	opendata.LogReport(report)
	if err != nil {
		log.Fatalf("❌ Import failed: %v", err)
	}
	log.Println("✓ Import finished")
}
