package http

import (
	"bytes"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/application/usecase"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// WebhookHandler callbacks del workflow, webhook de WhatsApp Business
// y correo entrante.
type WebhookHandler struct {
	webhooks    *usecase.WebhookUseCase
	intake      *usecase.IntakeUseCase
	verifyToken string
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(webhooks *usecase.WebhookUseCase, intake *usecase.IntakeUseCase, verifyToken string) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, intake: intake, verifyToken: verifyToken}
}

// N8NCallback recibe el resultado del workflow de procesamiento.
// POST /api/webhooks/n8n-callback
func (h *WebhookHandler) N8NCallback(c *fiber.Ctx) error {
	var in dto.CallbackRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}

	invoice, err := h.webhooks.HandleCallback(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(dto.CallbackResponse{
		Message:     "callback procesado",
		InvoiceID:   invoice.ID,
		Status:      invoice.Status,
		IsValidated: invoice.IsValidated,
	})
}

// WhatsAppCallback recibe el resultado del procesamiento de adjuntos
// de un mensaje de WhatsApp.
// POST /api/webhooks/whatsapp-callback
func (h *WebhookHandler) WhatsAppCallback(c *fiber.Ctx) error {
	var in dto.WhatsAppCallbackRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}

	updated, err := h.webhooks.HandleWhatsAppCallback(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(dto.WhatsAppCallbackResponse{
		Message:           "callback de whatsapp procesado",
		GroupID:           in.GroupID,
		MessageID:         in.MessageID,
		ProcessedInvoices: updated,
	})
}

// WhatsAppMessage recibe el webhook de mensajes de WhatsApp Business.
// Los payloads sin mensajes (actualizaciones de estado) se reconocen
// con 200.
// POST /api/webhooks/whatsapp-message
func (h *WebhookHandler) WhatsAppMessage(c *fiber.Ctx) error {
	var in dto.WhatsAppWebhookRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if len(in.Entry) == 0 {
		return badRequest(c, "payload de whatsapp inválido")
	}

	processed, skipped, err := h.webhooks.ProcessInbound(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(dto.WhatsAppWebhookResponse{
		Message:   "mensajes procesados",
		Processed: processed,
		Skipped:   skipped,
	})
}

// WhatsAppVerify handshake de verificación del webhook (protocolo
// hub.challenge de Meta).
// GET /api/webhooks/whatsapp-verify
func (h *WebhookHandler) WhatsAppVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if mode == "subscribe" && token == h.verifyToken {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// EmailInbound recibe facturas por correo: metadatos + adjunto base64.
// El adjunto entra al mismo flujo de carga con source=email.
// POST /api/webhooks/email-inbound
func (h *WebhookHandler) EmailInbound(c *fiber.Ctx) error {
	var in dto.EmailInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Filename == "" || in.Data == "" {
		return badRequest(c, "filename y data son obligatorios")
	}

	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return badRequest(c, "data no es base64 válido")
	}

	invoice, result, err := h.intake.Upload(c.Context(), usecase.UploadInput{
		Filename: in.Filename,
		Source:   entity.SourceEmail,
		Content:  bytes.NewReader(data),
	})
	if err != nil {
		if invoice != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code:    "WORKFLOW_TRIGGER_FAILED",
				Message: "no se pudo iniciar el procesamiento",
				Details: fiber.Map{"invoiceId": invoice.ID, "error": err.Error()},
			})
		}
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		Message: "factura recibida por correo, procesamiento iniciado",
		Invoice: dto.ToInvoiceResponse(invoice, false),
		Workflow: dto.WorkflowTriggerRef{
			WorkflowID:  result.WorkflowID,
			ExecutionID: result.ExecutionID,
		},
	})
}
