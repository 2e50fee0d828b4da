package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"authd/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var migrationsPath string
	var down bool
	flag.StringVar(&migrationsPath, "migrations", "db/migrations", "path to migration files")
	flag.BoolVar(&down, "down", false, "roll back all migrations")
	flag.Parse()

	cfg := config.Load()

	// The pgx/v5 migrate driver registers under the pgx5 scheme.
	dbURL := strings.Replace(cfg.DBURL, "postgres://", "pgx5://", 1)

	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}
	defer m.Close()

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("no migrations to apply")
		return
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("migrations applied successfully")
}
