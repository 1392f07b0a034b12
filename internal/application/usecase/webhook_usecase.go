package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

// Umbral de confianza para auto-validar una extracción.
const autoValidateThreshold = 0.9

// WebhookUseCase procesa los callbacks del workflow y los mensajes
// entrantes de WhatsApp Business.
type WebhookUseCase struct {
	invoices repository.InvoiceRepository
	groups   repository.WhatsAppGroupRepository
	txRunner ports.TxRunner
	log      *logger.Logger
}

func NewWebhookUseCase(
	invoices repository.InvoiceRepository,
	groups repository.WhatsAppGroupRepository,
	txRunner ports.TxRunner,
	log *logger.Logger,
) *WebhookUseCase {
	return &WebhookUseCase{
		invoices: invoices,
		groups:   groups,
		txRunner: txRunner,
		log:      log.Component("webhooks"),
	}
}

// HandleCallback aplica el resultado del workflow a la factura:
// processed guarda la extracción (auto-validando si overall >= 0.9),
// failed guarda los errores.
func (uc *WebhookUseCase) HandleCallback(ctx context.Context, req dto.CallbackRequest) (*entity.Invoice, error) {
	if req.InvoiceID == "" || req.ExecutionID == "" {
		return nil, fmt.Errorf("%w: invoiceId y executionId son obligatorios", domain.ErrInvalidInput)
	}
	if req.Status != entity.StatusProcessed && req.Status != entity.StatusFailed {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, req.Status)
	}

	invoice, err := uc.invoices.GetByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	invoice.Status = req.Status
	invoice.ProcessingEndTime = &now

	switch req.Status {
	case entity.StatusProcessed:
		if req.ExtractedData != nil {
			invoice.ExtractedData = sanitizeExtracted(req.ExtractedData)
		}
		if req.ConfidenceScores != nil {
			invoice.ConfidenceScores = sanitizeConfidence(req.ConfidenceScores)
		}
		if invoice.OverallConfidence() >= autoValidateThreshold {
			invoice.IsValidated = true
			invoice.Status = entity.StatusValidated
		}
		uc.log.Info().
			Str("invoiceId", invoice.ID).
			Float64("confidence", invoice.OverallConfidence()).
			Bool("autoValidated", invoice.IsValidated).
			Msg("factura procesada por el workflow")

	case entity.StatusFailed:
		if len(req.Errors) > 0 {
			invoice.ProcessingErrors = req.Errors
		} else {
			invoice.ProcessingErrors = []string{"Processing failed"}
		}
		uc.log.Error().
			Str("invoiceId", invoice.ID).
			Strs("errors", invoice.ProcessingErrors).
			Msg("el workflow falló al procesar la factura")
	}

	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("guardando resultado del callback: %w", err)
	}
	return invoice, nil
}

// HandleWhatsAppCallback aplica el resultado del procesamiento de los
// adjuntos de un mensaje: actualiza contadores del grupo y cada
// factura informada. Las facturas que fallen al actualizarse se
// registran y no frenan el resto.
func (uc *WebhookUseCase) HandleWhatsAppCallback(ctx context.Context, req dto.WhatsAppCallbackRequest) (int, error) {
	if req.GroupID == "" {
		return 0, fmt.Errorf("%w: groupId es obligatorio", domain.ErrInvalidInput)
	}

	group, err := uc.groups.GetByGroupID(ctx, req.GroupID)
	if err != nil {
		return 0, err
	}
	if group != nil {
		now := time.Now()
		group.Stats.ProcessedMessages++
		group.LastActivityAt = &now
		switch {
		case req.Status == entity.StatusProcessed && len(req.Invoices) > 0:
			group.Stats.SuccessfulExtractions += int64(len(req.Invoices))
		case req.Status == entity.StatusFailed:
			group.Stats.FailedExtractions++
		}
		if err := uc.groups.Update(ctx, group); err != nil {
			uc.log.Error().Err(err).Str("groupId", req.GroupID).Msg("no se pudieron actualizar los contadores del grupo")
		}
	}

	updated := 0
	for _, item := range req.Invoices {
		if err := uc.applyCallbackInvoice(ctx, item); err != nil {
			uc.log.Error().Err(err).Str("invoiceId", item.InvoiceID).Msg("no se pudo actualizar la factura del callback")
			continue
		}
		updated++
	}
	return updated, nil
}

func (uc *WebhookUseCase) applyCallbackInvoice(ctx context.Context, item dto.WhatsAppCallbackInvoice) error {
	if item.Status != entity.StatusProcessed && item.Status != entity.StatusFailed {
		return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, item.Status)
	}

	invoice, err := uc.invoices.GetByID(ctx, item.InvoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	invoice.Status = item.Status
	invoice.ProcessingEndTime = &now
	if item.ExtractedData != nil {
		invoice.ExtractedData = sanitizeExtracted(item.ExtractedData)
	}
	if item.ConfidenceScores != nil {
		invoice.ConfidenceScores = sanitizeConfidence(item.ConfidenceScores)
	}
	if item.Status == entity.StatusFailed {
		invoice.ProcessingErrors = item.Errors
	}
	return uc.invoices.Update(ctx, invoice)
}

// ProcessInbound procesa el webhook de WhatsApp Business: por cada
// mensaje de un grupo conectado y activo, si trae keyword o adjunto se
// cuentan estadísticas, y los adjuntos generan la factura stub
// (tamaño 0) que el workflow completará al descargar el medio.
// Los grupos desconocidos o inactivos se saltean.
func (uc *WebhookUseCase) ProcessInbound(ctx context.Context, req dto.WhatsAppWebhookRequest) (processed, skipped int, err error) {
	for _, entry := range req.Entry {
		for _, change := range entry.Changes {
			p, s, err := uc.processChange(ctx, change.Value)
			if err != nil {
				return processed, skipped, err
			}
			processed += p
			skipped += s
		}
	}
	return processed, skipped, nil
}

func (uc *WebhookUseCase) processChange(ctx context.Context, value dto.WhatsAppValue) (processed, skipped int, err error) {
	if len(value.Messages) == 0 {
		return 0, 0, nil
	}

	groupID := value.Metadata.DisplayPhoneNumber
	group, err := uc.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		return 0, 0, err
	}
	if group == nil || !group.IsActive {
		uc.log.Info().Str("groupId", groupID).Msg("mensaje de un grupo no registrado o inactivo")
		return 0, len(value.Messages), nil
	}

	stubs := make([]*entity.Invoice, 0, len(value.Messages))
	for _, msg := range value.Messages {
		matched := group.HasKeyword(msgText(msg))
		attachment := attachmentOf(msg)

		if !matched && attachment == nil {
			skipped++
			continue
		}

		group.Stats.TotalMessages++
		msgTime := parseWhatsAppTimestamp(msg.Timestamp)
		group.Stats.LastMessageDate = &msgTime
		group.LastActivityAt = &msgTime

		if attachment != nil && group.AutoProcessAttachments {
			stub := uc.buildStubInvoice(group, msg, attachment)
			if stub == nil {
				skipped++
				continue
			}
			stubs = append(stubs, stub)
		}
		processed++
	}

	// factura(s) stub + contadores del grupo en una sola transacción
	err = uc.txRunner.RunIntake(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		groupRepo repository.WhatsAppGroupRepository,
	) error {
		for _, stub := range stubs {
			if err := invoiceRepo.Create(ctx, stub); err != nil {
				return err
			}
		}
		return groupRepo.Update(ctx, group)
	})
	if err != nil {
		return 0, 0, fmt.Errorf("registrando mensajes del grupo %s: %w", groupID, err)
	}

	for _, stub := range stubs {
		uc.log.Info().
			Str("invoiceId", stub.ID).
			Str("groupId", groupID).
			Str("messageId", stub.WhatsAppMessageID).
			Msg("factura creada desde adjunto de whatsapp")
	}
	return processed, skipped, nil
}

// buildStubInvoice arma la factura del adjunto. El archivo aún no se
// descargó: tamaño 0 y sin fileUrl; el workflow obtiene el medio y
// reporta por el callback de whatsapp.
func (uc *WebhookUseCase) buildStubInvoice(group *entity.WhatsAppGroup, msg dto.WhatsAppMessage, att *attachmentInfo) *entity.Invoice {
	if !group.AllowsFileType(att.fileType) {
		uc.log.Warn().
			Str("groupId", group.GroupID).
			Str("fileType", att.fileType).
			Msg("adjunto con tipo no permitido por el grupo")
		return nil
	}

	now := time.Now()
	return &entity.Invoice{
		ID:                  uuid.NewString(),
		OriginalFilename:    att.filename,
		FileType:            att.fileType,
		FileSize:            0,
		Status:              entity.StatusUploaded,
		Source:              entity.SourceWhatsApp,
		WhatsAppGroupID:     group.GroupID,
		WhatsAppMessageID:   msg.ID,
		WhatsAppSender:      msg.From,
		ProcessingStartTime: &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

type attachmentInfo struct {
	filename string
	fileType string
}

func attachmentOf(msg dto.WhatsAppMessage) *attachmentInfo {
	switch {
	case msg.Document != nil:
		filename := msg.Document.Filename
		if filename == "" {
			filename = "whatsapp_" + msg.ID
		}
		return &attachmentInfo{filename: filename, fileType: typeFromMime(msg.Document.MimeType)}
	case msg.Image != nil:
		return &attachmentInfo{filename: "whatsapp_" + msg.ID, fileType: typeFromMime(msg.Image.MimeType)}
	}
	return nil
}

func msgText(msg dto.WhatsAppMessage) string {
	if msg.Text == nil {
		return ""
	}
	return msg.Text.Body
}

// typeFromMime application/pdf -> pdf, image/jpeg -> jpeg.
func typeFromMime(mime string) string {
	for i := len(mime) - 1; i >= 0; i-- {
		if mime[i] == '/' {
			return mime[i+1:]
		}
	}
	return mime
}

// parseWhatsAppTimestamp epoch en segundos como string; si no parsea
// se usa la hora actual.
func parseWhatsAppTimestamp(ts string) time.Time {
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Now()
	}
	return time.Unix(secs, 0)
}

// sanitizeExtracted limita la extracción a los campos conocidos,
// normaliza fechas y aplica los defaults de currency/items/bankDetails.
func sanitizeExtracted(raw map[string]any) map[string]any {
	out := make(map[string]any, 12)
	for _, key := range []string{
		"invoiceNumber", "vendor", "vendorAddress", "date", "dueDate",
		"amount", "currency", "vatAmount", "vatRate", "vatId",
		"items", "bankDetails",
	} {
		if v, ok := raw[key]; ok && v != nil {
			out[key] = v
		}
	}
	if _, ok := out["currency"]; !ok {
		out["currency"] = "USD"
	}
	if _, ok := out["items"]; !ok {
		out["items"] = []any{}
	}
	if _, ok := out["bankDetails"]; !ok {
		out["bankDetails"] = map[string]any{}
	}
	normalizeDateField(out, "date")
	normalizeDateField(out, "dueDate")
	return out
}

// sanitizeConfidence conserva overall y el mapa por campo.
func sanitizeConfidence(raw map[string]any) map[string]any {
	out := map[string]any{
		"fields": map[string]any{},
	}
	if v, ok := raw["overall"]; ok {
		out["overall"] = v
	}
	if v, ok := raw["fields"]; ok && v != nil {
		out["fields"] = v
	}
	return out
}
