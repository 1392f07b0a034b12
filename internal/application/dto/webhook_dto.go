package dto

// CallbackRequest payload que envía el workflow de n8n al terminar
// (o fallar) el procesamiento de una factura.
type CallbackRequest struct {
	InvoiceID        string         `json:"invoiceId"`
	Status           string         `json:"status"` // processed | failed
	ExecutionID      string         `json:"executionId,omitempty"`
	ExtractedData    map[string]any `json:"extractedData,omitempty"`
	ConfidenceScores map[string]any `json:"confidenceScores,omitempty"`
	Errors           []string       `json:"errors,omitempty"`
	ProcessingTime   *int64         `json:"processingTime,omitempty"`
}

// CallbackResponse confirmación al workflow.
type CallbackResponse struct {
	Message     string `json:"message"`
	InvoiceID   string `json:"invoiceId"`
	Status      string `json:"status"`
	IsValidated bool   `json:"isValidated"`
}

// WhatsAppCallbackRequest payload del workflow al terminar de procesar
// los adjuntos de un mensaje de WhatsApp: resultado por factura más el
// estado general del mensaje.
type WhatsAppCallbackRequest struct {
	GroupID   string                    `json:"groupId"`
	MessageID string                    `json:"messageId"`
	Status    string                    `json:"status"`
	Invoices  []WhatsAppCallbackInvoice `json:"invoices,omitempty"`
	Errors    []string                  `json:"errors,omitempty"`
}

// WhatsAppCallbackInvoice resultado de una factura dentro del callback.
type WhatsAppCallbackInvoice struct {
	InvoiceID        string         `json:"invoiceId"`
	Status           string         `json:"status"`
	ExtractedData    map[string]any `json:"extractedData,omitempty"`
	ConfidenceScores map[string]any `json:"confidenceScores,omitempty"`
	Errors           []string       `json:"errors,omitempty"`
}

// WhatsAppCallbackResponse confirmación del callback de WhatsApp.
type WhatsAppCallbackResponse struct {
	Message           string `json:"message"`
	GroupID           string `json:"groupId"`
	MessageID         string `json:"messageId"`
	ProcessedInvoices int    `json:"processedInvoices"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Payload entrante de WhatsApp Business (formato Meta).
// ─────────────────────────────────────────────────────────────────────────────

// WhatsAppWebhookRequest sobre del webhook: lista de entries con changes.
type WhatsAppWebhookRequest struct {
	Object string          `json:"object"`
	Entry  []WhatsAppEntry `json:"entry"`
}

type WhatsAppEntry struct {
	ID      string           `json:"id"`
	Changes []WhatsAppChange `json:"changes"`
}

type WhatsAppChange struct {
	Field string        `json:"field"`
	Value WhatsAppValue `json:"value"`
}

type WhatsAppValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Metadata         WhatsAppMetadata  `json:"metadata"`
	Messages         []WhatsAppMessage `json:"messages"`
}

// WhatsAppMetadata display_phone_number identifica el grupo conectado.
type WhatsAppMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WhatsAppMessage struct {
	ID        string            `json:"id"`
	From      string            `json:"from"`
	Timestamp string            `json:"timestamp"`
	Type      string            `json:"type"`
	Text      *WhatsAppText     `json:"text,omitempty"`
	Document  *WhatsAppDocument `json:"document,omitempty"`
	Image     *WhatsAppImage    `json:"image,omitempty"`
}

type WhatsAppText struct {
	Body string `json:"body"`
}

type WhatsAppDocument struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
}

type WhatsAppImage struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
}

// WhatsAppWebhookResponse resumen de lo procesado en el POST del webhook.
type WhatsAppWebhookResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// EmailInboundRequest webhook de correo entrante: metadatos del mensaje
// y adjunto en base64.
type EmailInboundRequest struct {
	From        string `json:"from"`
	Subject     string `json:"subject"`
	MessageID   string `json:"messageId"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"` // base64
}
