// Command seed resets the catalog with demo users and products.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"catalog_api/internal/config"
	"catalog_api/internal/logger"
	"catalog_api/internal/models"
	"catalog_api/internal/repository"
	"catalog_api/internal/repository/db"
	"catalog_api/internal/service"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	username string
	password string
	role     models.Role
}

var demoUsers = []demoUser{
	{"admin", "admin123", models.RoleAdmin},
	{"manager", "manager123", models.RoleUser},
	{"user", "user123", models.RoleUser},
}

type demoProduct struct {
	name     string
	price    float64
	category string
	brand    string
}

var demoProducts = []demoProduct{
	{"iPhone 13", 500, "smartphone", "Apple"},
	{"iPhone 14", 650, "smartphone", "Apple"},
	{"iPhone 15", 850, "smartphone", "Apple"},
	{"Samsung Galaxy S22", 480, "smartphone", "Samsung"},
	{"Samsung Galaxy S23", 620, "smartphone", "Samsung"},
	{"Xiaomi Mi 12", 430, "smartphone", "Xiaomi"},
	{"Xiaomi Mi 13", 510, "smartphone", "Xiaomi"},
	{"MacBook Air M1", 900, "laptop", "Apple"},
	{"MacBook Air M2", 1200, "laptop", "Apple"},
	{"Dell XPS 13", 1100, "laptop", "Dell"},
	{"HP Spectre x360", 1050, "laptop", "HP"},
	{"iPad Pro 11", 780, "tablet", "Apple"},
	{"iPad Air", 600, "tablet", "Apple"},
	{"Samsung Galaxy Tab S8", 670, "tablet", "Samsung"},
	{"Apple Watch Series 8", 420, "watch", "Apple"},
	{"Apple Watch Ultra", 750, "watch", "Apple"},
	{"AirPods Pro", 250, "audio", "Apple"},
	{"Sony WH-1000XM5", 330, "audio", "Sony"},
	{"JBL Charge 5", 180, "audio", "JBL"},
	{"Logitech MX Master 3", 120, "accessory", "Logitech"},
}

const firstSKU = 1000

func main() {
	seedUsers := flag.Bool("users", true, "replace all users with the demo accounts")
	seedItems := flag.Bool("items", true, "replace all items with the demo products")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error loading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel, cfg.LogFormat)

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() { _ = sqlDB.Close() }()

	ctx := context.Background()
	if *seedUsers {
		n, err := resetUsers(ctx, repository.NewUserRepository(sqlDB), service.NewBcryptVerifier(bcrypt.DefaultCost))
		if err != nil {
			log.Fatalw("seed users failed", "err", err)
		}
		log.Infow("seed users completed", "count", n)
	}
	if *seedItems {
		n, err := resetItems(ctx, repository.NewItemSQLite(sqlDB), time.Now().UTC().Truncate(time.Second))
		if err != nil {
			log.Fatalw("seed items failed", "err", err)
		}
		log.Infow("seed items completed", "count", n)
	}
}

type userStore interface {
	repository.Authorization
	DeleteAll(ctx context.Context) error
}

func resetUsers(ctx context.Context, users userStore, creds service.CredentialVerifier) (int, error) {
	if err := users.DeleteAll(ctx); err != nil {
		return 0, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	for _, du := range demoUsers {
		hash, err := creds.Hash(du.password)
		if err != nil {
			return 0, err
		}
		err = users.Create(ctx, models.User{
			ID:           uuid.NewString(),
			Username:     models.NormalizeUsername(du.username),
			PasswordHash: hash,
			Role:         du.role,
			CreatedAt:    now,
		})
		if err != nil {
			return 0, err
		}
	}
	return len(demoUsers), nil
}

type itemStore interface {
	Insert(ctx context.Context, it models.Item) error
	DeleteAll(ctx context.Context) error
}

// resetItems inserts the demo products without an owner, so only admins can change them.
func resetItems(ctx context.Context, items itemStore, now time.Time) (int, error) {
	if err := items.DeleteAll(ctx); err != nil {
		return 0, err
	}
	for i, p := range demoProducts {
		err := items.Insert(ctx, models.Item{
			ID:        uuid.NewString(),
			Name:      p.name,
			Price:     p.price,
			Category:  p.category,
			Brand:     p.brand,
			SKU:       fmt.Sprintf("SKU-%d", firstSKU+i),
			InStock:   true,
			CreatedAt: now,
		})
		if err != nil {
			return 0, err
		}
	}
	return len(demoProducts), nil
}
