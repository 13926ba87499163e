package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardArcade_Go/internal/bootstrap"
	"github.com/osse101/RewardArcade_Go/internal/config"
	"github.com/osse101/RewardArcade_Go/internal/configstore"
	"github.com/osse101/RewardArcade_Go/internal/database"
	"github.com/osse101/RewardArcade_Go/internal/database/postgres"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
)

const maintenanceDB = "postgres"

func main() {
	reset := flag.Bool("reset", false, "drop the database before creating it")
	profilesFile := flag.String("profiles", "", "employee profiles file to load into employee_profiles")
	deadLetters := flag.String("dead-letters", "", "summarize a dead-letter log and exit")
	flag.Parse()

	if *deadLetters != "" {
		if err := summarizeDeadLetters(*deadLetters); err != nil {
			log.Fatalf("Dead-letter log unreadable: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}
	ctx := context.Background()

	if err := ensureDatabase(ctx, cfg, *reset); err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}

	pool, err := database.NewPool(ctx, database.PoolOptions{
		ConnString:     cfg.GetDBConnString(),
		MaxConns:       cfg.DBMaxConns,
		MaxIdleTime:    cfg.DBMaxIdleTime,
		MaxLifetime:    cfg.DBMaxConnLifetime,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBName, err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied.")

	seed := domain.DefaultEconomyConfig()
	if cfg.EconomySeedFile != "" {
		if seed, err = configstore.LoadSeedFile(cfg.EconomySeedFile); err != nil {
			log.Fatalf("Seed file rejected: %v", err)
		}
	}
	store := postgres.NewStore(pool, cfg.PlayLockTimeout)
	configs := configstore.NewService(store, event.NewMemoryBus(), cfg.ConfigCacheTTL)
	if err := configs.EnsureSeeded(ctx, seed); err != nil {
		log.Fatalf("Seeding economy config failed: %v", err)
	}
	current, err := configs.Load(ctx)
	if err != nil {
		log.Fatalf("Loading economy config failed: %v", err)
	}
	log.Printf("Economy config at version %d.\n", current.Version)

	if *profilesFile == "" {
		return
	}
	profiles, err := bootstrap.LoadProfilesFile(*profilesFile)
	if err != nil {
		log.Fatalf("Profiles rejected: %v", err)
	}
	dir := postgres.NewDirectory(pool)
	for _, p := range profiles {
		if err := dir.UpsertProfile(ctx, p); err != nil {
			log.Fatalf("Failed to upsert profile %s: %v", p.ID, err)
		}
	}
	log.Printf("Loaded %d employee profiles.\n", len(profiles))
}

// ensureDatabase creates cfg.DBName through the maintenance database,
// dropping it first when reset is set.
func ensureDatabase(ctx context.Context, cfg *config.Config, reset bool) error {
	admin := *cfg
	admin.DBName = maintenanceDB

	conn, err := pgx.Connect(ctx, admin.GetDBConnString())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	name := pgx.Identifier{cfg.DBName}.Sanitize()
	if reset {
		// WITH (FORCE) terminates open sessions; PostgreSQL 13+
		if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			return err
		}
		log.Printf("Database %s dropped.\n", cfg.DBName)
	}

	var exists bool
	if err := conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists); err != nil {
		return err
	}
	if exists {
		log.Printf("Database %s already exists.\n", cfg.DBName)
		return nil
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+name); err != nil {
		return err
	}
	log.Printf("Database %s created.\n", cfg.DBName)
	return nil
}

func summarizeDeadLetters(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := event.ReadDeadLetters(f)
	if err != nil {
		return err
	}
	byType := make(map[event.Type]int)
	for _, e := range entries {
		byType[e.Event.Type]++
	}
	log.Printf("%d dead-lettered events in %s.\n", len(entries), path)
	for t, n := range byType {
		log.Printf("  %-28s %d\n", t, n)
	}
	return nil
}
