// Command seeduser creates or resets an admin account.
// Usage: go run ./cmd/seeduser -username admin -password secret123
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/config"
	"github.com/Akilucky-rogue/biz-boundless/internal/infra"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "admin", "login name")
	password := flag.String("password", "admin1234", "password (min 8 chars)")
	fullName := flag.String("name", "Store Admin", "display name")
	role := flag.String("role", model.RoleAdmin, "admin | employee")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("password must be at least 8 characters")
	}
	if *role != model.RoleAdmin && *role != model.RoleEmployee {
		log.Fatal().Str("role", *role).Msg("unknown role")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (username, full_name, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, true, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    full_name = EXCLUDED.full_name,
		    role = EXCLUDED.role,
		    is_active = true,
		    updated_at = NOW()
	`, *username, *fullName, string(hash), *role)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert user")
	}
	log.Info().Str("username", *username).Str("role", *role).Msg("user created or updated")
}
