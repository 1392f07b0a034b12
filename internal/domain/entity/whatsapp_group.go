package entity

import (
	"strings"
	"time"
)

// DefaultTriggerKeywords palabras clave por defecto al conectar un grupo.
// La coincidencia en runtime es case-insensitive; las variantes se conservan
// porque el dashboard las muestra tal cual fueron configuradas.
var DefaultTriggerKeywords = []string{"Invoice", "invoice", "INVOICE", "bill", "Bill", "BILL"}

// DefaultMaxFileSize tamaño máximo por defecto de adjuntos (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// WhatsAppGroup representa un grupo de WhatsApp conectado para ingesta de facturas.
// GroupID es el identificador externo (único); las facturas lo referencian vía FK.
type WhatsAppGroup struct {
	ID               string
	GroupID          string
	GroupName        string
	GroupDescription string
	IsActive         bool

	TriggerKeywords        []string
	AutoProcessAttachments bool
	AllowedFileTypes       []string
	MaxFileSize            int64

	WebhookURL    string
	WebhookSecret string

	Stats          GroupStats
	ConnectedBy    string
	LastActivityAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupStats contadores acumulados del grupo.
type GroupStats struct {
	TotalMessages         int64      `json:"totalMessages"`
	ProcessedMessages     int64      `json:"processedMessages"`
	SuccessfulExtractions int64      `json:"successfulExtractions"`
	FailedExtractions     int64      `json:"failedExtractions"`
	LastMessageDate       *time.Time `json:"lastMessageDate"`
}

// HasKeyword indica si message contiene alguna de las palabras clave del grupo
// (coincidencia por substring, case-insensitive).
func (g *WhatsAppGroup) HasKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range g.TriggerKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// AllowsFileType indica si el grupo acepta adjuntos de ese tipo.
// Una lista vacía acepta todos los tipos.
func (g *WhatsAppGroup) AllowsFileType(fileType string) bool {
	if len(g.AllowedFileTypes) == 0 {
		return true
	}
	lower := strings.ToLower(fileType)
	for _, t := range g.AllowedFileTypes {
		if strings.ToLower(t) == lower {
			return true
		}
	}
	return false
}

// MatchedKeywords devuelve las palabras clave que coinciden con message.
func (g *WhatsAppGroup) MatchedKeywords(message string) []string {
	lower := strings.ToLower(message)
	var matched []string
	for _, kw := range g.TriggerKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
