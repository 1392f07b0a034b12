package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// WhatsAppGroupRepository implementación pgx de
// repository.WhatsAppGroupRepository.
type WhatsAppGroupRepository struct {
	q Querier
}

var _ repository.WhatsAppGroupRepository = (*WhatsAppGroupRepository)(nil)

func NewWhatsAppGroupRepository(q Querier) *WhatsAppGroupRepository {
	return &WhatsAppGroupRepository{q: q}
}

const groupColumns = `id, group_id, group_name, group_description, is_active,
		trigger_keywords, auto_process_attachments, allowed_file_types, max_file_size,
		webhook_url, webhook_secret,
		total_messages, processed_messages, successful_extractions, failed_extractions,
		last_message_at, last_activity_at, connected_by, created_at, updated_at`

func (r *WhatsAppGroupRepository) Create(ctx context.Context, g *entity.WhatsAppGroup) error {
	query := `
		INSERT INTO whatsapp_groups (
			id, group_id, group_name, group_description, is_active,
			trigger_keywords, auto_process_attachments, allowed_file_types, max_file_size,
			webhook_url, webhook_secret,
			total_messages, processed_messages, successful_extractions, failed_extractions,
			last_message_at, last_activity_at, connected_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19, $20
		)`

	_, err := r.q.Exec(ctx, query,
		g.ID, g.GroupID, g.GroupName, g.GroupDescription, g.IsActive,
		g.TriggerKeywords, g.AutoProcessAttachments, g.AllowedFileTypes, g.MaxFileSize,
		g.WebhookURL, g.WebhookSecret,
		g.Stats.TotalMessages, g.Stats.ProcessedMessages, g.Stats.SuccessfulExtractions, g.Stats.FailedExtractions,
		g.Stats.LastMessageDate, g.LastActivityAt, g.ConnectedBy, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insertando grupo de whatsapp: %w", err)
	}
	return nil
}

func (r *WhatsAppGroupRepository) GetByGroupID(ctx context.Context, groupID string) (*entity.WhatsAppGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM whatsapp_groups WHERE group_id = $1`

	g, err := scanGroup(r.q.QueryRow(ctx, query, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultando grupo de whatsapp: %w", err)
	}
	return g, nil
}

func (r *WhatsAppGroupRepository) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.WhatsAppGroup, int, error) {
	where := ""
	if onlyActive {
		where = " WHERE is_active = TRUE"
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM whatsapp_groups`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contando grupos: %w", err)
	}

	query := `SELECT ` + groupColumns + ` FROM whatsapp_groups` + where +
		` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listando grupos: %w", err)
	}
	defer rows.Close()

	groups := make([]*entity.WhatsAppGroup, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("leyendo grupo: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("recorriendo grupos: %w", err)
	}
	return groups, total, nil
}

func (r *WhatsAppGroupRepository) Update(ctx context.Context, g *entity.WhatsAppGroup) error {
	query := `
		UPDATE whatsapp_groups SET
			group_name = $2,
			group_description = $3,
			is_active = $4,
			trigger_keywords = $5,
			auto_process_attachments = $6,
			allowed_file_types = $7,
			max_file_size = $8,
			webhook_url = $9,
			webhook_secret = $10,
			total_messages = $11,
			processed_messages = $12,
			successful_extractions = $13,
			failed_extractions = $14,
			last_message_at = $15,
			last_activity_at = $16,
			updated_at = NOW()
		WHERE group_id = $1`

	tag, err := r.q.Exec(ctx, query,
		g.GroupID, g.GroupName, g.GroupDescription, g.IsActive,
		g.TriggerKeywords, g.AutoProcessAttachments, g.AllowedFileTypes, g.MaxFileSize,
		g.WebhookURL, g.WebhookSecret,
		g.Stats.TotalMessages, g.Stats.ProcessedMessages, g.Stats.SuccessfulExtractions, g.Stats.FailedExtractions,
		g.Stats.LastMessageDate, g.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("actualizando grupo de whatsapp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanGroup(row pgx.Row) (*entity.WhatsAppGroup, error) {
	var g entity.WhatsAppGroup

	err := row.Scan(
		&g.ID, &g.GroupID, &g.GroupName, &g.GroupDescription, &g.IsActive,
		&g.TriggerKeywords, &g.AutoProcessAttachments, &g.AllowedFileTypes, &g.MaxFileSize,
		&g.WebhookURL, &g.WebhookSecret,
		&g.Stats.TotalMessages, &g.Stats.ProcessedMessages, &g.Stats.SuccessfulExtractions, &g.Stats.FailedExtractions,
		&g.Stats.LastMessageDate, &g.LastActivityAt, &g.ConnectedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
