package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// StatsRepository consultas agregadas para el dashboard. Los montos se
// extraen de extracted_data->>'amount' casteado a numeric; las facturas
// sin monto extraído quedan fuera de las sumas vía COALESCE.
type StatsRepository struct {
	q Querier
}

var _ repository.StatsRepository = (*StatsRepository)(nil)

func NewStatsRepository(q Querier) *StatsRepository {
	return &StatsRepository{q: q}
}

func (r *StatsRepository) TotalCount(ctx context.Context) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return 0, fmt.Errorf("contando facturas: %w", err)
	}
	return total, nil
}

func (r *StatsRepository) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return r.countBy(ctx, "status")
}

func (r *StatsRepository) CountBySource(ctx context.Context) ([]repository.StatusCount, error) {
	return r.countBy(ctx, "source")
}

func (r *StatsRepository) countBy(ctx context.Context, column string) ([]repository.StatusCount, error) {
	// column viene de código propio, nunca de la request
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM invoices GROUP BY %s ORDER BY %s`, column, column, column)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("agrupando por %s: %w", column, err)
	}
	defer rows.Close()

	counts := make([]repository.StatusCount, 0)
	for rows.Next() {
		var c repository.StatusCount
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("leyendo conteo: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorriendo conteos: %w", err)
	}
	return counts, nil
}

func (r *StatsRepository) PeriodSummary(ctx context.Context, since time.Time) (*repository.PeriodSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM((extracted_data->>'amount')::numeric), 0),
			COALESCE(AVG((extracted_data->>'amount')::numeric), 0),
			COALESCE(AVG((confidence_scores->>'overall')::float), 0)
		FROM invoices
		WHERE created_at >= $1`

	var s repository.PeriodSummary
	err := r.q.QueryRow(ctx, query, since).Scan(&s.Count, &s.TotalAmount, &s.AvgAmount, &s.AvgConfidence)
	if err != nil {
		return nil, fmt.Errorf("calculando resumen del período: %w", err)
	}
	return &s, nil
}

func (r *StatsRepository) DailyActivity(ctx context.Context, since time.Time) ([]repository.DailyBucket, error) {
	query := `
		SELECT
			to_char(created_at, 'YYYY-MM-DD') AS day,
			COUNT(*),
			COALESCE(SUM((extracted_data->>'amount')::numeric), 0)
		FROM invoices
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`

	return r.scanDaily(ctx, query, since)
}

func (r *StatsRepository) GroupCountByStatus(ctx context.Context, groupID string, since time.Time) ([]repository.GroupStatusCount, error) {
	query := `
		SELECT
			status,
			COUNT(*),
			COALESCE(SUM((extracted_data->>'amount')::numeric), 0)
		FROM invoices
		WHERE whatsapp_group_id = $1 AND created_at >= $2
		GROUP BY status
		ORDER BY status`

	rows, err := r.q.Query(ctx, query, groupID, since)
	if err != nil {
		return nil, fmt.Errorf("agrupando facturas del grupo: %w", err)
	}
	defer rows.Close()

	counts := make([]repository.GroupStatusCount, 0)
	for rows.Next() {
		var (
			c      repository.GroupStatusCount
			amount decimal.Decimal
		)
		if err := rows.Scan(&c.Status, &c.Count, &amount); err != nil {
			return nil, fmt.Errorf("leyendo conteo del grupo: %w", err)
		}
		c.TotalAmount = amount
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorriendo conteos del grupo: %w", err)
	}
	return counts, nil
}

func (r *StatsRepository) GroupDailyActivity(ctx context.Context, groupID string, since time.Time) ([]repository.DailyBucket, error) {
	query := `
		SELECT
			to_char(created_at, 'YYYY-MM-DD') AS day,
			COUNT(*),
			COALESCE(SUM((extracted_data->>'amount')::numeric), 0)
		FROM invoices
		WHERE whatsapp_group_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day`

	return r.scanDaily(ctx, query, groupID, since)
}

func (r *StatsRepository) scanDaily(ctx context.Context, query string, args ...any) ([]repository.DailyBucket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("consultando actividad diaria: %w", err)
	}
	defer rows.Close()

	buckets := make([]repository.DailyBucket, 0)
	for rows.Next() {
		var b repository.DailyBucket
		if err := rows.Scan(&b.Day, &b.Count, &b.TotalAmount); err != nil {
			return nil, fmt.Errorf("leyendo actividad diaria: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorriendo actividad diaria: %w", err)
	}
	return buckets, nil
}
