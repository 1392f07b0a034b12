package ports

import (
	"context"

	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD,
// pasando repositorios atados a esa tx. Garantiza atomicidad entre la
// fila de la factura y los efectos asociados.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
	) error) error

	RunIntake(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		groupRepo repository.WhatsAppGroupRepository,
	) error) error
}
