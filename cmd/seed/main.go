package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-wallpaper-bot/internal/config"
	"telegram-wallpaper-bot/internal/domain/model"
	pg "telegram-wallpaper-bot/internal/infra/db/postgres"
)

// Seeds fixture users and link clicks for manually exercising /stats,
// /toplinks and /recentusers against a dev database.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	userRepo := pg.NewPostgresUserRepo(pool)
	clickRepo := pg.NewPostgresLinkClickRepo(pool)

	// If users already exist, do nothing.
	n, err := userRepo.CountUsers(ctx)
	if err != nil {
		log.Fatalf("count users: %v", err)
	}
	if n > 0 {
		fmt.Printf("%d users already present. No changes.\n", n)
		return
	}

	profiles := []struct {
		p      model.Profile
		clicks []string
	}{
		{model.Profile{TelegramID: 1001, Username: "alice_wp", FirstName: "Alice", LanguageCode: "en", IsPremium: true}, []string{"wp101", "wp102", "wp101"}},
		{model.Profile{TelegramID: 1002, Username: "bob_wp", FirstName: "Bob", LanguageCode: "de"}, []string{"wp101"}},
		{model.Profile{TelegramID: 1003, FirstName: "Carol", LastName: "K", LanguageCode: "en"}, []string{"wp103", "wp101"}},
		{model.Profile{TelegramID: 1004, Username: "dave_wp", FirstName: "Dave", LanguageCode: "ru"}, nil},
	}

	for _, f := range profiles {
		for _, wp := range f.clicks {
			if _, err := userRepo.Upsert(ctx, f.p, wp); err != nil {
				log.Fatalf("upsert user %d: %v", f.p.TelegramID, err)
			}
			c, err := model.NewLinkClick(f.p.TelegramID, f.p.Username, wp)
			if err != nil {
				log.Fatalf("build click: %v", err)
			}
			if err := clickRepo.Insert(ctx, c); err != nil {
				log.Fatalf("insert click: %v", err)
			}
		}
		if len(f.clicks) == 0 {
			if _, err := userRepo.Upsert(ctx, f.p, ""); err != nil {
				log.Fatalf("upsert user %d: %v", f.p.TelegramID, err)
			}
		}
		fmt.Printf("seeded: %d (@%s) with %d clicks\n", f.p.TelegramID, f.p.Username, len(f.clicks))
	}

	fmt.Println("✅ Seeding complete.")
}
