package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// InvoiceRepository implementación pgx de repository.InvoiceRepository.
type InvoiceRepository struct {
	q Querier
}

var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)

func NewInvoiceRepository(q Querier) *InvoiceRepository {
	return &InvoiceRepository{q: q}
}

const invoiceColumns = `id, original_filename, file_type, file_size, file_url, status, source,
		whatsapp_group_id, whatsapp_message_id, whatsapp_sender,
		extracted_data, confidence_scores, workflow_id, execution_id,
		processing_start_time, processing_end_time, processing_errors,
		retry_count, is_validated, validation_errors, created_at, updated_at`

func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	extracted, err := encodeJSONMap(inv.ExtractedData)
	if err != nil {
		return err
	}
	confidence, err := encodeJSONMap(inv.ConfidenceScores)
	if err != nil {
		return err
	}
	procErrs, err := encodeJSONStrings(inv.ProcessingErrors)
	if err != nil {
		return err
	}
	valErrs, err := encodeJSONStrings(inv.ValidationErrors)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (
			id, original_filename, file_type, file_size, file_url, status, source,
			whatsapp_group_id, whatsapp_message_id, whatsapp_sender,
			extracted_data, confidence_scores, workflow_id, execution_id,
			processing_start_time, processing_end_time, processing_errors,
			retry_count, is_validated, validation_errors, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17,
			$18, $19, $20, $21, $22
		)`

	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.OriginalFilename, inv.FileType, inv.FileSize, inv.FileURL, inv.Status, inv.Source,
		nullIfEmpty(inv.WhatsAppGroupID), inv.WhatsAppMessageID, inv.WhatsAppSender,
		extracted, confidence, inv.WorkflowID, inv.ExecutionID,
		inv.ProcessingStartTime, inv.ProcessingEndTime, procErrs,
		inv.RetryCount, inv.IsValidated, valErrs, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insertando factura: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultando factura: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *entity.Invoice) error {
	extracted, err := encodeJSONMap(inv.ExtractedData)
	if err != nil {
		return err
	}
	confidence, err := encodeJSONMap(inv.ConfidenceScores)
	if err != nil {
		return err
	}
	procErrs, err := encodeJSONStrings(inv.ProcessingErrors)
	if err != nil {
		return err
	}
	valErrs, err := encodeJSONStrings(inv.ValidationErrors)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices SET
			status = $2,
			extracted_data = $3,
			confidence_scores = $4,
			workflow_id = $5,
			execution_id = $6,
			processing_start_time = $7,
			processing_end_time = $8,
			processing_errors = $9,
			retry_count = $10,
			is_validated = $11,
			validation_errors = $12,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Status, extracted, confidence,
		inv.WorkflowID, inv.ExecutionID,
		inv.ProcessingStartTime, inv.ProcessingEndTime, procErrs,
		inv.RetryCount, inv.IsValidated, valErrs,
	)
	if err != nil {
		return fmt.Errorf("actualizando factura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminando factura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	where, args := buildInvoiceWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM invoices` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contando facturas: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		` ORDER BY ` + invoiceOrderBy(filter.SortBy, filter.SortOrder) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listando facturas: %w", err)
	}
	defer rows.Close()

	invoices := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("leyendo factura: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("recorriendo facturas: %w", err)
	}
	return invoices, total, nil
}

func (r *InvoiceRepository) ListRecentByGroup(ctx context.Context, groupID string, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE whatsapp_group_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("listando facturas del grupo: %w", err)
	}
	defer rows.Close()

	invoices := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("leyendo factura: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorriendo facturas: %w", err)
	}
	return invoices, nil
}

// buildInvoiceWhere arma la cláusula WHERE parametrizada del filtro.
func buildInvoiceWhere(f repository.InvoiceFilter) (string, []any) {
	conds := make([]string, 0, 6)
	args := make([]any, 0, 6)

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Source != "" {
		add("source = $%d", f.Source)
	}
	if f.Vendor != "" {
		add("extracted_data->>'vendor' ILIKE $%d", "%"+f.Vendor+"%")
	}
	if f.DateFrom != nil {
		add("created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("created_at <= $%d", *f.DateTo)
	}
	if f.MinAmount != nil {
		add("(extracted_data->>'amount')::numeric >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("(extracted_data->>'amount')::numeric <= $%d", *f.MaxAmount)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// invoiceOrderBy traduce las claves de orden de la API a columnas.
// Cualquier valor no reconocido cae en created_at DESC.
func invoiceOrderBy(sortBy, sortOrder string) string {
	var col string
	switch sortBy {
	case repository.SortByUpdatedAt:
		col = "updated_at"
	case repository.SortByAmount:
		col = "(extracted_data->>'amount')::numeric"
	case repository.SortByVendor:
		col = "extracted_data->>'vendor'"
	default:
		col = "created_at"
	}

	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir + " NULLS LAST"
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv        entity.Invoice
		groupID    *string
		extracted  []byte
		confidence []byte
		procErrs   []byte
		valErrs    []byte
	)

	err := row.Scan(
		&inv.ID, &inv.OriginalFilename, &inv.FileType, &inv.FileSize, &inv.FileURL, &inv.Status, &inv.Source,
		&groupID, &inv.WhatsAppMessageID, &inv.WhatsAppSender,
		&extracted, &confidence, &inv.WorkflowID, &inv.ExecutionID,
		&inv.ProcessingStartTime, &inv.ProcessingEndTime, &procErrs,
		&inv.RetryCount, &inv.IsValidated, &valErrs, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if groupID != nil {
		inv.WhatsAppGroupID = *groupID
	}
	if inv.ExtractedData, err = decodeJSONMap(extracted); err != nil {
		return nil, err
	}
	if inv.ConfidenceScores, err = decodeJSONMap(confidence); err != nil {
		return nil, err
	}
	if inv.ProcessingErrors, err = decodeJSONStrings(procErrs); err != nil {
		return nil, err
	}
	if inv.ValidationErrors, err = decodeJSONStrings(valErrs); err != nil {
		return nil, err
	}
	return &inv, nil
}
