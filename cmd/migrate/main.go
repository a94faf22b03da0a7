package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/migrate"
)

// Runs the embedded goose migrations against a postgres deployment. Local
// sqlite installs migrate automatically on API boot instead.
func main() {
	_ = godotenv.Load()

	flag.Usage = usage
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		fail(fmt.Errorf("migrate targets postgres; set CONTROLE_DB_DRIVER=postgres and CONTROLE_DB_DSN"))
	}

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		fail(fmt.Errorf("opening database: %w", err))
	}
	defer db.Close()

	ctx := context.Background()
	switch command {
	case "up":
		err = migrate.Up(ctx, db)
	case "down":
		err = migrate.Down(ctx, db)
	case "status":
		err = migrate.Status(ctx, db)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [up|down|status]")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "migrate:", err)
	os.Exit(1)
}
