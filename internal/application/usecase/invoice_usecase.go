package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

// Límites de paginación de listados.
const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// InvoiceUseCase consulta y gestión de facturas ya ingresadas.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
	store    ports.FileStore
	log      *logger.Logger
}

func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	store ports.FileStore,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoices: invoices,
		store:    store,
		log:      log.Component("invoices"),
	}
}

// List devuelve la página filtrada y el total. Normaliza la paginación
// y valida status/source si vienen en el filtro.
func (uc *InvoiceUseCase) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	if filter.Status != "" && !entity.IsValidStatus(filter.Status) {
		return nil, 0, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Source != "" && !entity.IsValidSource(filter.Source) {
		return nil, 0, fmt.Errorf("%w: source %q", domain.ErrInvalidInput, filter.Source)
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return uc.invoices.List(ctx, filter)
}

// Get devuelve la factura completa (incluye fileUrl).
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// UpdateExtractedData fusiona superficialmente los campos recibidos
// sobre el payload extraído, normaliza las fechas y anula la
// validación (los datos corregidos requieren re-validar).
func (uc *InvoiceUseCase) UpdateExtractedData(ctx context.Context, id string, data map[string]any) (*entity.Invoice, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: extractedData vacío", domain.ErrInvalidInput)
	}

	invoice, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := invoice.ExtractedData
	if merged == nil {
		merged = make(map[string]any, len(data))
	}
	for k, v := range data {
		merged[k] = v
	}
	normalizeDateField(merged, "date")
	normalizeDateField(merged, "dueDate")

	invoice.ExtractedData = merged
	invoice.IsValidated = false
	invoice.ValidationErrors = nil

	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("guardando datos corregidos: %w", err)
	}

	uc.log.Info().Str("invoiceId", id).Msg("datos extraídos corregidos manualmente")
	return invoice, nil
}

// Validate marca o desmarca la validación manual y registra los
// errores de validación. El estado solo se toca en el par
// processed ⇄ validated; en cualquier otro estado la bandera se
// actualiza y el estado queda como estaba.
func (uc *InvoiceUseCase) Validate(ctx context.Context, id string, isValidated bool, validationErrors []string) (*entity.Invoice, error) {
	invoice, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice.IsValidated = isValidated
	if validationErrors == nil {
		validationErrors = []string{}
	}
	invoice.ValidationErrors = validationErrors

	if isValidated && invoice.Status == entity.StatusProcessed {
		invoice.Status = entity.StatusValidated
	} else if !isValidated && invoice.Status == entity.StatusValidated {
		invoice.Status = entity.StatusProcessed
	}

	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("guardando validación: %w", err)
	}
	return invoice, nil
}

// Delete elimina la fila y borra el archivo en disco. El borrado del
// archivo es best effort: si falla solo se deja registro.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	invoice, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.invoices.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminando factura: %w", err)
	}

	if err := uc.store.Remove(invoice.FileURL); err != nil {
		uc.log.Warn().Err(err).Str("invoiceId", id).Msg("no se pudo borrar el archivo de la factura")
	}

	uc.log.Info().Str("invoiceId", id).Msg("factura eliminada")
	return nil
}

// normalizeDateField reescribe el campo como RFC3339 si es una fecha
// parseable; si no lo es, se deja tal cual vino.
func normalizeDateField(data map[string]any, key string) {
	raw, ok := data[key].(string)
	if !ok || raw == "" {
		return
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "02/01/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			data[key] = t.Format(time.RFC3339)
			return
		}
	}
}
