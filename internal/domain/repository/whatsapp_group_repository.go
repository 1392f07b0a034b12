package repository

import (
	"context"

	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// WhatsAppGroupRepository persistencia de grupos de WhatsApp conectados.
// GetByGroupID busca por el identificador externo (no por el id interno)
// y devuelve (nil, nil) si no existe.
type WhatsAppGroupRepository interface {
	Create(ctx context.Context, group *entity.WhatsAppGroup) error
	GetByGroupID(ctx context.Context, groupID string) (*entity.WhatsAppGroup, error)
	// List devuelve la página de grupos (solo activos si onlyActive) y el total.
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.WhatsAppGroup, int, error)
	// Update persiste configuración, contadores y última actividad.
	Update(ctx context.Context, group *entity.WhatsAppGroup) error
}
