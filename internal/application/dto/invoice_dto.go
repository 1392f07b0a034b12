package dto

import (
	"time"

	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// InvoiceResponse representación completa de una factura.
type InvoiceResponse struct {
	ID                  string         `json:"id"`
	OriginalFilename    string         `json:"originalFilename"`
	FileType            string         `json:"fileType"`
	FileSize            int64          `json:"fileSize"`
	FileURL             string         `json:"fileUrl,omitempty"`
	Status              string         `json:"status"`
	Source              string         `json:"source"`
	WhatsAppGroupID     string         `json:"whatsappGroupId,omitempty"`
	WhatsAppMessageID   string         `json:"whatsappMessageId,omitempty"`
	WhatsAppSender      string         `json:"whatsappSender,omitempty"`
	ExtractedData       map[string]any `json:"extractedData,omitempty"`
	ConfidenceScores    map[string]any `json:"confidenceScores,omitempty"`
	WorkflowID          string         `json:"workflowId,omitempty"`
	ExecutionID         string         `json:"executionId,omitempty"`
	ProcessingStartTime *time.Time     `json:"processingStartTime,omitempty"`
	ProcessingEndTime   *time.Time     `json:"processingEndTime,omitempty"`
	ProcessingErrors    []string       `json:"processingErrors,omitempty"`
	RetryCount          int            `json:"retryCount"`
	IsValidated         bool           `json:"isValidated"`
	ValidationErrors    []string       `json:"validationErrors,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// ToInvoiceResponse mapea la entidad al DTO de respuesta.
// Si includeFileURL es false se omite la ruta del archivo (listados).
func ToInvoiceResponse(inv *entity.Invoice, includeFileURL bool) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                  inv.ID,
		OriginalFilename:    inv.OriginalFilename,
		FileType:            inv.FileType,
		FileSize:            inv.FileSize,
		Status:              inv.Status,
		Source:              inv.Source,
		WhatsAppGroupID:     inv.WhatsAppGroupID,
		WhatsAppMessageID:   inv.WhatsAppMessageID,
		WhatsAppSender:      inv.WhatsAppSender,
		ExtractedData:       inv.ExtractedData,
		ConfidenceScores:    inv.ConfidenceScores,
		WorkflowID:          inv.WorkflowID,
		ExecutionID:         inv.ExecutionID,
		ProcessingStartTime: inv.ProcessingStartTime,
		ProcessingEndTime:   inv.ProcessingEndTime,
		ProcessingErrors:    inv.ProcessingErrors,
		RetryCount:          inv.RetryCount,
		IsValidated:         inv.IsValidated,
		ValidationErrors:    inv.ValidationErrors,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	if includeFileURL {
		resp.FileURL = inv.FileURL
	}
	return resp
}

// InvoiceListResponse página de facturas (sin fileUrl por ítem).
type InvoiceListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	Pagination Pagination        `json:"pagination"`
}

// InvoiceStatusResponse vista ligera para sondeo de estado de carga.
type InvoiceStatusResponse struct {
	ID                  string         `json:"id"`
	Filename            string         `json:"filename"`
	Status              string         `json:"status"`
	UploadedAt          time.Time      `json:"uploadedAt"`
	ProcessingStartTime *time.Time     `json:"processingStartTime,omitempty"`
	ProcessingEndTime   *time.Time     `json:"processingEndTime,omitempty"`
	ExtractedData       map[string]any `json:"extractedData,omitempty"`
	ConfidenceScores    map[string]any `json:"confidenceScores,omitempty"`
	Errors              []string       `json:"errors,omitempty"`
}

// ToInvoiceStatusResponse arma la vista de estado desde la entidad.
func ToInvoiceStatusResponse(inv *entity.Invoice) InvoiceStatusResponse {
	return InvoiceStatusResponse{
		ID:                  inv.ID,
		Filename:            inv.OriginalFilename,
		Status:              inv.Status,
		UploadedAt:          inv.CreatedAt,
		ProcessingStartTime: inv.ProcessingStartTime,
		ProcessingEndTime:   inv.ProcessingEndTime,
		ExtractedData:       inv.ExtractedData,
		ConfidenceScores:    inv.ConfidenceScores,
		Errors:              inv.ProcessingErrors,
	}
}

// UpdateExtractedDataRequest corrección manual del payload extraído.
// Los campos presentes se fusionan superficialmente con los existentes.
type UpdateExtractedDataRequest struct {
	ExtractedData map[string]any `json:"extractedData"`
}

// ValidateInvoiceRequest marca/desmarca la validación manual con los
// errores de validación observados.
type ValidateInvoiceRequest struct {
	IsValidated      bool     `json:"isValidated"`
	ValidationErrors []string `json:"validationErrors"`
}

// UploadResponse resultado de la carga manual: factura creada y
// referencia al workflow disparado.
type UploadResponse struct {
	Message  string             `json:"message"`
	Invoice  InvoiceResponse    `json:"invoice"`
	Workflow WorkflowTriggerRef `json:"workflow"`
}

// WorkflowTriggerRef identificadores devueltos por el motor de workflows.
type WorkflowTriggerRef struct {
	WorkflowID  string `json:"workflowId"`
	ExecutionID string `json:"executionId"`
}

// RetryResponse resultado de un reintento de procesamiento.
type RetryResponse struct {
	Message  string             `json:"message"`
	Invoice  InvoiceResponse    `json:"invoice"`
	Workflow WorkflowTriggerRef `json:"workflow"`
}
