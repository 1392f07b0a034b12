package entity

import "time"

// Estados del ciclo de vida de una factura ingresada.
// Transiciones: uploaded → processing → {processed | failed} → validated.
// failed puede volver a processing vía retry; processed ⇄ validated vía validación manual.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
	StatusValidated  = "validated"
)

// Canales de entrada de una factura.
const (
	SourceUpload   = "upload"
	SourceWhatsApp = "whatsapp"
	SourceEmail    = "email"
)

// Tipos de archivo aceptados.
var AllowedFileTypes = []string{"pdf", "png", "jpg", "jpeg"}

// IsAllowedFileType indica si ext (sin punto, en minúsculas) está en la lista de tipos aceptados.
func IsAllowedFileType(ext string) bool {
	for _, t := range AllowedFileTypes {
		if t == ext {
			return true
		}
	}
	return false
}

// IsValidSource indica si source es un canal de entrada conocido.
func IsValidSource(source string) bool {
	return source == SourceUpload || source == SourceWhatsApp || source == SourceEmail
}

// IsValidStatus indica si status es un estado conocido del ciclo de vida.
func IsValidStatus(status string) bool {
	switch status {
	case StatusUploaded, StatusProcessing, StatusProcessed, StatusFailed, StatusValidated:
		return true
	}
	return false
}

// Invoice representa una factura ingresada (archivo + metadatos + resultado de extracción).
// ExtractedData y ConfidenceScores son payloads libres poblados por el workflow
// externo; se persisten como JSONB con encode/decode explícito en el repositorio.
type Invoice struct {
	ID               string
	OriginalFilename string
	FileType         string // pdf | png | jpg | jpeg
	FileSize         int64
	FileURL          string // ruta en disco; nunca se expone en listados

	Status string
	Source string

	// Campos específicos de WhatsApp (source = whatsapp)
	WhatsAppGroupID   string
	WhatsAppMessageID string
	WhatsAppSender    string

	// Resultado de la extracción (vendor, invoiceNumber, amount, items, ...)
	ExtractedData map[string]any
	// Puntajes de confianza 0–1: overall + por campo
	ConfidenceScores map[string]any

	// Bookkeeping del workflow externo
	WorkflowID          string
	ExecutionID         string
	ProcessingStartTime *time.Time
	ProcessingEndTime   *time.Time
	ProcessingErrors    []string
	RetryCount          int

	// Validación
	IsValidated      bool
	ValidationErrors []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProcessingTime devuelve la duración del procesamiento, o nil si aún no terminó.
func (i *Invoice) ProcessingTime() *time.Duration {
	if i.ProcessingStartTime == nil || i.ProcessingEndTime == nil {
		return nil
	}
	d := i.ProcessingEndTime.Sub(*i.ProcessingStartTime)
	return &d
}

// OverallConfidence devuelve el puntaje overall del payload de confianza, o 0 si no existe.
func (i *Invoice) OverallConfidence() float64 {
	if i.ConfidenceScores == nil {
		return 0
	}
	switch v := i.ConfidenceScores["overall"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
