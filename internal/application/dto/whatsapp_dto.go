package dto

import (
	"time"

	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// ConnectGroupRequest alta de un grupo de WhatsApp para monitoreo.
type ConnectGroupRequest struct {
	GroupID                string   `json:"groupId"`
	GroupName              string   `json:"groupName"`
	GroupDescription       string   `json:"groupDescription,omitempty"`
	TriggerKeywords        []string `json:"triggerKeywords,omitempty"`
	AutoProcessAttachments *bool    `json:"autoProcessAttachments,omitempty"`
	AllowedFileTypes       []string `json:"allowedFileTypes,omitempty"`
	MaxFileSize            *int64   `json:"maxFileSize,omitempty"`
	WebhookURL             string   `json:"webhookUrl,omitempty"`
	WebhookSecret          string   `json:"webhookSecret,omitempty"`
	ConnectedBy            string   `json:"connectedBy,omitempty"`
}

// UpdateGroupRequest actualización parcial de configuración del grupo.
// Solo los campos presentes se aplican.
type UpdateGroupRequest struct {
	GroupName              *string  `json:"groupName,omitempty"`
	GroupDescription       *string  `json:"groupDescription,omitempty"`
	IsActive               *bool    `json:"isActive,omitempty"`
	TriggerKeywords        []string `json:"triggerKeywords,omitempty"`
	AutoProcessAttachments *bool    `json:"autoProcessAttachments,omitempty"`
	AllowedFileTypes       []string `json:"allowedFileTypes,omitempty"`
	MaxFileSize            *int64   `json:"maxFileSize,omitempty"`
	WebhookURL             *string  `json:"webhookUrl,omitempty"`
	WebhookSecret          *string  `json:"webhookSecret,omitempty"`
}

// GroupResponse representación de un grupo conectado.
type GroupResponse struct {
	ID                     string            `json:"id"`
	GroupID                string            `json:"groupId"`
	GroupName              string            `json:"groupName"`
	GroupDescription       string            `json:"groupDescription,omitempty"`
	IsActive               bool              `json:"isActive"`
	TriggerKeywords        []string          `json:"triggerKeywords"`
	AutoProcessAttachments bool              `json:"autoProcessAttachments"`
	AllowedFileTypes       []string          `json:"allowedFileTypes"`
	MaxFileSize            int64             `json:"maxFileSize"`
	WebhookURL             string            `json:"webhookUrl,omitempty"`
	Stats                  entity.GroupStats `json:"stats"`
	ConnectedBy            string            `json:"connectedBy,omitempty"`
	LastActivityAt         *time.Time        `json:"lastActivityAt,omitempty"`
	CreatedAt              time.Time         `json:"createdAt"`
	UpdatedAt              time.Time         `json:"updatedAt"`
}

// ToGroupResponse mapea la entidad al DTO (no expone webhookSecret).
func ToGroupResponse(g *entity.WhatsAppGroup) GroupResponse {
	return GroupResponse{
		ID:                     g.ID,
		GroupID:                g.GroupID,
		GroupName:              g.GroupName,
		GroupDescription:       g.GroupDescription,
		IsActive:               g.IsActive,
		TriggerKeywords:        g.TriggerKeywords,
		AutoProcessAttachments: g.AutoProcessAttachments,
		AllowedFileTypes:       g.AllowedFileTypes,
		MaxFileSize:            g.MaxFileSize,
		WebhookURL:             g.WebhookURL,
		Stats:                  g.Stats,
		ConnectedBy:            g.ConnectedBy,
		LastActivityAt:         g.LastActivityAt,
		CreatedAt:              g.CreatedAt,
		UpdatedAt:              g.UpdatedAt,
	}
}

// GroupListResponse página de grupos conectados.
type GroupListResponse struct {
	Groups     []GroupResponse `json:"groups"`
	Pagination Pagination      `json:"pagination"`
}

// GroupTestMessageRequest simulación de mensaje para probar la
// configuración de keywords de un grupo.
type GroupTestMessageRequest struct {
	Message       string `json:"message"`
	HasAttachment bool   `json:"hasAttachment"`
}

// GroupTestMessageResponse resultado de la simulación.
type GroupTestMessageResponse struct {
	WouldProcess    bool     `json:"wouldProcess"`
	MatchedKeywords []string `json:"matchedKeywords"`
	Reason          string   `json:"reason,omitempty"`
}

// GroupInvoicesResponse facturas recientes originadas en un grupo.
type GroupInvoicesResponse struct {
	GroupID  string            `json:"groupId"`
	Invoices []InvoiceResponse `json:"invoices"`
}
