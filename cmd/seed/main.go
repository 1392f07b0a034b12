// Comando de seed: crea el usuario administrador inicial del
// dashboard si no existe.
//
// Uso: SEED_ADMIN_EMAIL=admin@example.com SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/factura-intake/internal/application/auth"
	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/infrastructure/postgres"
	"github.com/jhoicas/factura-intake/pkg/config"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD son obligatorios")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, log)

	_, err = authUC.Register(ctx, dto.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info().Str("email", email).Msg("usuario administrador creado")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", email).Msg("el administrador ya existe, nada que hacer")
	default:
		log.Fatal().Err(err).Msg("creando administrador")
	}
}
