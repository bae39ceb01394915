// Command seedadmin creates the initial admin user if no user exists yet.
package main

import (
	"context"
	"flag"
	"time"

	"dukapos/internal/config"
	"dukapos/internal/infra"
	"dukapos/internal/model"
	"dukapos/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	name := flag.String("name", "Admin", "admin display name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := infra.NewLogger(cfg.Env)

	if *email == "" || *password == "" {
		log.Fatal().Msg("both -email and -password are required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	existing, err := users.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not list users")
	}
	if len(existing) > 0 {
		log.Info().Int("count", len(existing)).Msg("users already exist, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("could not hash password")
	}

	admin := &model.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("could not create admin")
	}
	log.Info().Str("user_id", admin.ID.String()).Str("email", admin.Email).Msg("admin created")
}
