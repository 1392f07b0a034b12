package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// Claves de ordenamiento aceptadas en listados de facturas.
// amount y vendor ordenan por el payload extraído (JSONB).
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByAmount    = "amount"
	SortByVendor    = "vendor"
)

// InvoiceFilter criterios de filtrado/orden/paginación para listados.
type InvoiceFilter struct {
	Status    string
	Source    string
	Vendor    string // substring case-insensitive sobre extracted_data->>'vendor'
	DateFrom  *time.Time
	DateTo    *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	SortBy    string // createdAt | updatedAt | amount | vendor
	SortOrder string // asc | desc
	Limit     int
	Offset    int
}

// InvoiceRepository persistencia de facturas.
// Los métodos GetBy* devuelven (nil, nil) si el recurso no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// Update persiste todos los campos mutables (status, payloads, bookkeeping, validación).
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// List devuelve la página filtrada y el total de filas que cumplen el filtro.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)
	// ListRecentByGroup devuelve las últimas facturas de un grupo de WhatsApp.
	ListRecentByGroup(ctx context.Context, groupID string, limit int) ([]*entity.Invoice, error)
}
