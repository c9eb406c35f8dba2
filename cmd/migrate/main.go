package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/storage/gormstore"
	"github.com/gravadigital/convite-api/internal/storage/migrations"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Migration()

	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	seed := flag.Bool("seed", false, "Insert sample invitees, RSVPs and gifts after migrating")
	unseed := flag.Bool("unseed", false, "Remove the sample data")
	status := flag.Bool("status", false, "List applied migrations")
	flag.Parse()

	log.Info("Starting migration process", "driver", cfg.DB.Driver, "rollback", *rollback)

	db, err := gormstore.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer gormstore.Close(db)

	switch {
	case *status:
		applied, err := migrations.Applied(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		for _, m := range applied {
			fmt.Printf("%s  %-28s %s\n", m.ID, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		return
	case *unseed:
		if err := migrations.RemoveSampleData(db); err != nil {
			log.Error("Failed to remove sample data", "error", err)
			os.Exit(1)
		}
		log.Info("Sample data removed")
		return
	case *rollback:
		log.Info("Rolling back migrations...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")
	default:
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}

	if *seed {
		if err := migrations.SeedSampleData(db); err != nil {
			log.Error("Failed to seed sample data", "error", err)
			os.Exit(1)
		}
		log.Info("Sample data inserted")
	}

	fmt.Println("Migration process completed!")
}
