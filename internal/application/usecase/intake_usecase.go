// Package usecase contiene los casos de uso de la API de ingesta de
// facturas: carga, consulta, webhooks, grupos de WhatsApp,
// estadísticas y exportación.
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

// IntakeUseCase carga de facturas y disparo del workflow de
// procesamiento.
type IntakeUseCase struct {
	invoices    repository.InvoiceRepository
	txRunner    ports.TxRunner
	store       ports.FileStore
	workflow    ports.WorkflowClient
	callbackURL string
	maxFileSize int64
	maxRetries  int
	log         *logger.Logger
}

func NewIntakeUseCase(
	invoices repository.InvoiceRepository,
	txRunner ports.TxRunner,
	store ports.FileStore,
	workflow ports.WorkflowClient,
	callbackURL string,
	maxFileSize int64,
	maxRetries int,
	log *logger.Logger,
) *IntakeUseCase {
	return &IntakeUseCase{
		invoices:    invoices,
		txRunner:    txRunner,
		store:       store,
		workflow:    workflow,
		callbackURL: callbackURL,
		maxFileSize: maxFileSize,
		maxRetries:  maxRetries,
		log:         log.Component("intake"),
	}
}

// UploadInput archivo recibido por la API.
type UploadInput struct {
	Filename string
	Source   string
	Content  io.Reader
}

// Upload valida el archivo, lo guarda (staging + fila en tx + rename)
// y dispara el workflow. Si el disparo falla la factura queda en
// failed con el error registrado; el archivo guardado no se borra para
// permitir el retry.
func (uc *IntakeUseCase) Upload(ctx context.Context, in UploadInput) (*entity.Invoice, *ports.TriggerResult, error) {
	source := in.Source
	if source == "" {
		source = entity.SourceUpload
	}
	if !entity.IsValidSource(source) {
		return nil, nil, fmt.Errorf("%w: source %q", domain.ErrInvalidInput, in.Source)
	}

	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(in.Filename)), ".")
	if !entity.IsAllowedFileType(fileType) {
		return nil, nil, fmt.Errorf("%w: extensión %q", domain.ErrFileRejected, fileType)
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, uc.maxFileSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("leyendo archivo: %w", err)
	}
	if int64(len(data)) > uc.maxFileSize {
		return nil, nil, fmt.Errorf("%w: supera %d bytes", domain.ErrFileRejected, uc.maxFileSize)
	}

	stagingKey, size, err := uc.store.SaveStaging(in.Filename, bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("guardando archivo: %w", err)
	}

	now := time.Now()
	invoice := &entity.Invoice{
		ID:                  uuid.NewString(),
		OriginalFilename:    in.Filename,
		FileType:            fileType,
		FileSize:            size,
		FileURL:             uc.store.FinalURL(stagingKey),
		Status:              entity.StatusUploaded,
		Source:              source,
		ProcessingStartTime: &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = uc.txRunner.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		return repo.Create(ctx, invoice)
	})
	if err != nil {
		// la fila no quedó: limpiar el staging
		if derr := uc.store.Discard(stagingKey); derr != nil {
			uc.log.Warn().Err(derr).Str("stagingKey", stagingKey).Msg("no se pudo descartar el staging")
		}
		return nil, nil, fmt.Errorf("creando factura: %w", err)
	}

	if _, err := uc.store.Commit(stagingKey); err != nil {
		// fila sin archivo: revertir la fila para no dejar una factura rota
		if derr := uc.invoices.Delete(ctx, invoice.ID); derr != nil {
			uc.log.Error().Err(derr).Str("invoiceId", invoice.ID).Msg("no se pudo revertir la factura sin archivo")
		}
		return nil, nil, fmt.Errorf("confirmando archivo: %w", err)
	}

	uc.log.Info().
		Str("invoiceId", invoice.ID).
		Str("filename", in.Filename).
		Int64("size", size).
		Str("source", source).
		Msg("factura cargada")

	result, err := uc.trigger(ctx, invoice, data)
	if err != nil {
		return invoice, nil, err
	}
	return invoice, result, nil
}

// GetStatus devuelve la factura para el sondeo de estado.
func (uc *IntakeUseCase) GetStatus(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// Retry reintenta el procesamiento de una factura en failed. Aplica un
// tope de reintentos; al agotarse devuelve ErrRetryLimit.
func (uc *IntakeUseCase) Retry(ctx context.Context, id string) (*entity.Invoice, *ports.TriggerResult, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if invoice == nil {
		return nil, nil, domain.ErrNotFound
	}
	if invoice.Status != entity.StatusFailed {
		return nil, nil, fmt.Errorf("%w: solo se reintentan facturas en failed", domain.ErrInvalidState)
	}
	if invoice.RetryCount >= uc.maxRetries {
		return nil, nil, domain.ErrRetryLimit
	}

	f, err := uc.store.Read(invoice.FileURL)
	if err != nil {
		return nil, nil, fmt.Errorf("leyendo archivo de la factura: %w", err)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("leyendo archivo de la factura: %w", err)
	}

	now := time.Now()
	invoice.Status = entity.StatusProcessing
	invoice.ProcessingStartTime = &now
	invoice.ProcessingEndTime = nil
	invoice.ProcessingErrors = nil
	invoice.RetryCount++
	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, nil, fmt.Errorf("reiniciando estado de la factura: %w", err)
	}

	uc.log.Info().
		Str("invoiceId", invoice.ID).
		Int("retryCount", invoice.RetryCount).
		Msg("reintentando procesamiento")

	result, err := uc.trigger(ctx, invoice, data)
	if err != nil {
		return invoice, nil, err
	}
	return invoice, result, nil
}

// trigger dispara el workflow y persiste el resultado: processing con
// los ids del motor, o failed con el error.
func (uc *IntakeUseCase) trigger(ctx context.Context, invoice *entity.Invoice, data []byte) (*ports.TriggerResult, error) {
	result, err := uc.workflow.Trigger(ctx, ports.TriggerRequest{
		InvoiceID:   invoice.ID,
		Filename:    invoice.OriginalFilename,
		FileType:    invoice.FileType,
		Source:      invoice.Source,
		FileData:    data,
		CallbackURL: uc.callbackURL,
	})
	if err != nil {
		invoice.Status = entity.StatusFailed
		invoice.ProcessingErrors = []string{err.Error()}
		if uerr := uc.invoices.Update(ctx, invoice); uerr != nil {
			uc.log.Error().Err(uerr).Str("invoiceId", invoice.ID).Msg("no se pudo marcar la factura como failed")
		}
		return nil, fmt.Errorf("disparando workflow: %w", err)
	}

	invoice.Status = entity.StatusProcessing
	invoice.WorkflowID = result.WorkflowID
	invoice.ExecutionID = result.ExecutionID
	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("guardando ids del workflow: %w", err)
	}
	return result, nil
}
