package main

import (
	"context"
	"log"

	"transparency-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Tables used when STORE_DRIVER=postgres
const schemaSQL = `
CREATE TABLE IF NOT EXISTS question_answers (
    user_id VARCHAR(255) NOT NULL,
    chat_id VARCHAR(255) NOT NULL,
    qno INTEGER NOT NULL CHECK (qno >= 1),
    question TEXT NOT NULL,
    answer TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, chat_id, qno)
);

CREATE TABLE IF NOT EXISTS reports (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id VARCHAR(255) NOT NULL,
    chat_id VARCHAR(255) NOT NULL,
    report_name TEXT NOT NULL,
    transparency_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    report_summary TEXT NOT NULL,
    report TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, chat_id)
);

CREATE TABLE IF NOT EXISTS recents (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id VARCHAR(255) NOT NULL,
    chat_id VARCHAR(255) NOT NULL,
    report_name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, chat_id)
);
`

var indexes = []struct {
	name string
	sql  string
}{
	{"idx_recents_user_created", "CREATE INDEX IF NOT EXISTS idx_recents_user_created ON recents(user_id, created_at DESC)"},
}

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	log.Println("✓ Created question_answers, reports and recents tables")

	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx.sql); err != nil {
			log.Printf("Warning: Failed to create index %s: %v", idx.name, err)
			continue
		}
		log.Printf("✓ Created index: %s", idx.name)
	}

	log.Println("\n✅ Schema created successfully!")
}
