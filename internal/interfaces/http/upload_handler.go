package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/application/usecase"
)

// UploadHandler carga de facturas y sondeo/reintento de procesamiento.
type UploadHandler struct {
	uc *usecase.IntakeUseCase
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *usecase.IntakeUseCase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

// Upload recibe el archivo (campo multipart "invoice") y dispara el
// procesamiento.
// POST /api/upload
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("invoice")
	if err != nil {
		return badRequest(c, "no se recibió archivo (campo 'invoice')")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "no se pudo leer el archivo")
	}
	defer f.Close()

	invoice, result, err := h.uc.Upload(c.Context(), usecase.UploadInput{
		Filename: fileHeader.Filename,
		Source:   c.FormValue("source"),
		Content:  f,
	})
	if err != nil {
		if invoice != nil {
			// la factura quedó en failed: informar el id para el retry
			// y el error del motor para el dashboard
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code:    "WORKFLOW_TRIGGER_FAILED",
				Message: "no se pudo iniciar el procesamiento",
				Details: fiber.Map{"invoiceId": invoice.ID, "error": err.Error()},
			})
		}
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		Message: "factura cargada, procesamiento iniciado",
		Invoice: dto.ToInvoiceResponse(invoice, false),
		Workflow: dto.WorkflowTriggerRef{
			WorkflowID:  result.WorkflowID,
			ExecutionID: result.ExecutionID,
		},
	})
}

// Status devuelve el estado de carga/procesamiento de una factura.
// GET /api/upload/status/:invoiceId
func (h *UploadHandler) Status(c *fiber.Ctx) error {
	invoice, err := h.uc.GetStatus(c.Context(), c.Params("invoiceId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToInvoiceStatusResponse(invoice))
}

// Retry reintenta el procesamiento de una factura en failed.
// POST /api/upload/retry/:invoiceId
func (h *UploadHandler) Retry(c *fiber.Ctx) error {
	invoice, result, err := h.uc.Retry(c.Context(), c.Params("invoiceId"))
	if err != nil {
		if invoice != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code:    "WORKFLOW_TRIGGER_FAILED",
				Message: "no se pudo reiniciar el procesamiento",
				Details: fiber.Map{"invoiceId": invoice.ID, "error": err.Error()},
			})
		}
		return errorResponse(c, err)
	}

	return c.JSON(dto.RetryResponse{
		Message: "procesamiento reiniciado",
		Invoice: dto.ToInvoiceResponse(invoice, false),
		Workflow: dto.WorkflowTriggerRef{
			WorkflowID:  result.WorkflowID,
			ExecutionID: result.ExecutionID,
		},
	})
}
