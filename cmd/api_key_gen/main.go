package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"first-nation/registry/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	key := uuid.NewString()
	if _, err := db.Exec(`INSERT INTO api_keys (id, status) VALUES ($1, true)`, key); err != nil {
		log.Fatalf("insert api key: %v", err)
	}

	fmt.Println("New API Key:", key)
}
