// Package auth registro y login de usuarios del dashboard. El token
// emitido protege los endpoints de exportación.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
	"github.com/jhoicas/factura-intake/pkg/jwt"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

const minPasswordLen = 8

// UseCase casos de uso de autenticación.
type UseCase struct {
	users      repository.UserRepository
	jwtSecret  string
	jwtIssuer  string
	jwtExpMins int
	log        *logger.Logger
}

func NewUseCase(users repository.UserRepository, jwtSecret, jwtIssuer string, jwtExpMins int, log *logger.Logger) *UseCase {
	return &UseCase{
		users:      users,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		jwtExpMins: jwtExpMins,
		log:        log.Component("auth"),
	}
}

// Register crea el usuario con la contraseña hasheada y devuelve el
// token de sesión.
func (uc *UseCase) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: la contraseña requiere al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}

	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hasheando contraseña: %w", err)
	}

	role := req.Role
	if role != entity.RoleAdmin {
		role = entity.RoleOperador
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.log.Info().Str("email", email).Str("role", role).Msg("usuario registrado")
	return uc.issueToken(user)
}

// Login verifica credenciales y emite el token. Email desconocido y
// contraseña incorrecta devuelven el mismo error.
func (uc *UseCase) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != "active" {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return uc.issueToken(user)
}

func (uc *UseCase) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.Role, uc.jwtIssuer, uc.jwtExpMins)
	if err != nil {
		return nil, fmt.Errorf("generando token: %w", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}
