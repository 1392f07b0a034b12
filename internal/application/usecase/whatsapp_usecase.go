package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

// Cantidad de facturas recientes que se muestran por grupo.
const recentInvoicesLimit = 20

// WhatsAppUseCase gestión de los grupos de WhatsApp conectados.
type WhatsAppUseCase struct {
	groups   repository.WhatsAppGroupRepository
	invoices repository.InvoiceRepository
	log      *logger.Logger
}

func NewWhatsAppUseCase(
	groups repository.WhatsAppGroupRepository,
	invoices repository.InvoiceRepository,
	log *logger.Logger,
) *WhatsAppUseCase {
	return &WhatsAppUseCase{
		groups:   groups,
		invoices: invoices,
		log:      log.Component("whatsapp"),
	}
}

// Connect registra un grupo para monitoreo. GroupID duplicado devuelve
// ErrDuplicate; los campos no enviados toman los defaults.
func (uc *WhatsAppUseCase) Connect(ctx context.Context, req dto.ConnectGroupRequest) (*entity.WhatsAppGroup, error) {
	if req.GroupID == "" || req.GroupName == "" {
		return nil, fmt.Errorf("%w: groupId y groupName son obligatorios", domain.ErrInvalidInput)
	}

	now := time.Now()
	group := &entity.WhatsAppGroup{
		ID:                     uuid.NewString(),
		GroupID:                req.GroupID,
		GroupName:              req.GroupName,
		GroupDescription:       req.GroupDescription,
		IsActive:               true,
		TriggerKeywords:        entity.DefaultTriggerKeywords,
		AutoProcessAttachments: true,
		AllowedFileTypes:       entity.AllowedFileTypes,
		MaxFileSize:            entity.DefaultMaxFileSize,
		WebhookURL:             req.WebhookURL,
		WebhookSecret:          req.WebhookSecret,
		ConnectedBy:            req.ConnectedBy,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if len(req.TriggerKeywords) > 0 {
		group.TriggerKeywords = req.TriggerKeywords
	}
	if req.AutoProcessAttachments != nil {
		group.AutoProcessAttachments = *req.AutoProcessAttachments
	}
	if len(req.AllowedFileTypes) > 0 {
		for _, t := range req.AllowedFileTypes {
			if !entity.IsAllowedFileType(t) {
				return nil, fmt.Errorf("%w: tipo de archivo %q", domain.ErrInvalidInput, t)
			}
		}
		group.AllowedFileTypes = req.AllowedFileTypes
	}
	if req.MaxFileSize != nil && *req.MaxFileSize > 0 {
		group.MaxFileSize = *req.MaxFileSize
	}

	if err := uc.groups.Create(ctx, group); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("groupId", group.GroupID).
		Str("groupName", group.GroupName).
		Msg("grupo de whatsapp conectado")
	return group, nil
}

// List devuelve la página de grupos y el total.
func (uc *WhatsAppUseCase) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.WhatsAppGroup, int, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.groups.List(ctx, onlyActive, limit, offset)
}

// Get devuelve el grupo por su identificador externo.
func (uc *WhatsAppUseCase) Get(ctx context.Context, groupID string) (*entity.WhatsAppGroup, error) {
	group, err := uc.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}
	return group, nil
}

// Update aplica los campos presentes de la actualización parcial.
func (uc *WhatsAppUseCase) Update(ctx context.Context, groupID string, req dto.UpdateGroupRequest) (*entity.WhatsAppGroup, error) {
	group, err := uc.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if req.GroupName != nil {
		group.GroupName = *req.GroupName
	}
	if req.GroupDescription != nil {
		group.GroupDescription = *req.GroupDescription
	}
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}
	if req.TriggerKeywords != nil {
		group.TriggerKeywords = req.TriggerKeywords
	}
	if req.AutoProcessAttachments != nil {
		group.AutoProcessAttachments = *req.AutoProcessAttachments
	}
	if req.AllowedFileTypes != nil {
		for _, t := range req.AllowedFileTypes {
			if !entity.IsAllowedFileType(t) {
				return nil, fmt.Errorf("%w: tipo de archivo %q", domain.ErrInvalidInput, t)
			}
		}
		group.AllowedFileTypes = req.AllowedFileTypes
	}
	if req.MaxFileSize != nil && *req.MaxFileSize > 0 {
		group.MaxFileSize = *req.MaxFileSize
	}
	if req.WebhookURL != nil {
		group.WebhookURL = *req.WebhookURL
	}
	if req.WebhookSecret != nil {
		group.WebhookSecret = *req.WebhookSecret
	}

	if err := uc.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Disconnect desactiva el grupo (baja lógica: el historial de facturas
// del grupo se conserva).
func (uc *WhatsAppUseCase) Disconnect(ctx context.Context, groupID string) (*entity.WhatsAppGroup, error) {
	group, err := uc.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	group.IsActive = false
	if err := uc.groups.Update(ctx, group); err != nil {
		return nil, err
	}

	uc.log.Info().Str("groupId", groupID).Msg("grupo de whatsapp desconectado")
	return group, nil
}

// TestMessage simula un mensaje contra la configuración del grupo sin
// crear facturas: indica si se procesaría y qué keywords coinciden.
func (uc *WhatsAppUseCase) TestMessage(ctx context.Context, groupID string, req dto.GroupTestMessageRequest) (*dto.GroupTestMessageResponse, error) {
	group, err := uc.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	matched := group.MatchedKeywords(req.Message)
	resp := &dto.GroupTestMessageResponse{
		MatchedKeywords: matched,
	}

	switch {
	case !group.IsActive:
		resp.Reason = "el grupo está inactivo"
	case req.HasAttachment && group.AutoProcessAttachments:
		resp.WouldProcess = true
	case len(matched) > 0:
		resp.WouldProcess = true
	case req.HasAttachment:
		resp.Reason = "el grupo no procesa adjuntos automáticamente"
	default:
		resp.Reason = "sin keywords ni adjunto"
	}
	return resp, nil
}

// RecentInvoices devuelve las últimas facturas originadas en el grupo.
func (uc *WhatsAppUseCase) RecentInvoices(ctx context.Context, groupID string) ([]*entity.Invoice, error) {
	if _, err := uc.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.invoices.ListRecentByGroup(ctx, groupID, recentInvoicesLimit)
}
