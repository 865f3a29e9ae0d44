package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/giftcard_vault/internal/config"
	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
	"github.com/Skotchmaster/giftcard_vault/internal/seed"
)

func main() {
	username := flag.String("user", "aldo", "owner of the seeded giftcards")
	count := flag.Int("count", seed.DefaultCount, "fill numbers 1..count")
	check := flag.Bool("check", false, "only report missing numbers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logging.New(cfg.LogLevel))

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	rep, err := seed.Run(ctx, repo.New(db), *username, *count, *check)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Printf("user %s (%s): %d existing, %d missing of 1..%d\n", *username, rep.UserID, rep.Existing, len(rep.Missing), *count)
	if len(rep.Missing) > 0 {
		preview := rep.Missing
		if len(preview) > 20 {
			preview = preview[:20]
		}
		fmt.Printf("missing: %v", preview)
		if len(rep.Missing) > len(preview) {
			fmt.Print(" ...")
		}
		fmt.Println()
	}
	if !*check {
		fmt.Printf("inserted %d giftcards\n", rep.Inserted)
	}
}
