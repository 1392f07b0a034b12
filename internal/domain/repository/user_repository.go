package repository

import (
	"context"

	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// UserRepository persistencia de usuarios del dashboard.
// FindByEmail devuelve (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
