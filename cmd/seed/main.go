package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"telegram-group-guardian/internal/config"
	pg "telegram-group-guardian/internal/infra/db/postgres"
)

// Seeds a handful of stats rows so the ops API has something to show during
// development. Safe to re-run: it only writes when the table is empty.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}
	repo := pg.NewPostgresUsageRepo(pool)

	pairs, messages, err := repo.Totals(ctx)
	if err != nil {
		log.Fatalf("totals: %v", err)
	}
	if pairs > 0 {
		fmt.Printf("%d pairs / %d messages already present. No changes.\n", pairs, messages)
		return
	}

	seed := []struct {
		UserID   int64
		ChatID   int64
		Messages int
	}{
		{1001, -100200300, 24},
		{1002, -100200300, 11},
		{1003, -100200300, 3},
		{1001, -100400500, 7},
	}

	// Going through RecordMessage keeps the seed on the same upsert path the
	// bot uses.
	for _, s := range seed {
		for i := 0; i < s.Messages; i++ {
			if err := repo.RecordMessage(ctx, s.UserID, s.ChatID); err != nil {
				log.Fatalf("record (%d,%d): %v", s.UserID, s.ChatID, err)
			}
		}
		fmt.Printf("seeded: user=%d chat=%d messages=%d\n", s.UserID, s.ChatID, s.Messages)
	}

	fmt.Println("✅ Seeding complete.")
}
