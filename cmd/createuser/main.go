// Command createuser mints a new API token. A token is the id of a user
// row, so creating a user is all there is to it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"imageconv/internal/config"
	"imageconv/internal/database"
	"imageconv/internal/database/migration"
	"imageconv/internal/repository/postgres"
)

func main() {
	out := flag.String("out", "", "also write the token to this file")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	user, err := postgres.NewUserPostgres(db).Create(ctx)
	if err != nil {
		log.Fatalf("failed to create user: %v", err)
	}

	if *out != "" {
		if err := os.WriteFile(*out, []byte(user.ID+"\n"), 0o600); err != nil {
			log.Fatalf("failed to write token file: %v", err)
		}
	}

	fmt.Println(user.ID)
}
