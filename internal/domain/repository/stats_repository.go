package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount conteo de facturas por valor de una columna (status o source).
type StatusCount struct {
	Key   string
	Count int64
}

// PeriodSummary agregado del período: conteo, montos y confianza promedio.
// Los montos salen de (extracted_data->>'amount')::numeric.
type PeriodSummary struct {
	Count         int64
	TotalAmount   decimal.Decimal
	AvgAmount     decimal.Decimal
	AvgConfidence float64
}

// DailyBucket actividad agregada de un día (YYYY-MM-DD).
type DailyBucket struct {
	Day         string
	Count       int64
	TotalAmount decimal.Decimal
}

// GroupStatusCount conteo + monto por estado para un grupo de WhatsApp.
type GroupStatusCount struct {
	Status      string
	Count       int64
	TotalAmount decimal.Decimal
}

// StatsRepository consultas de solo lectura para el dashboard de estadísticas.
type StatsRepository interface {
	TotalCount(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountBySource(ctx context.Context) ([]StatusCount, error)
	PeriodSummary(ctx context.Context, since time.Time) (*PeriodSummary, error)
	DailyActivity(ctx context.Context, since time.Time) ([]DailyBucket, error)
	GroupCountByStatus(ctx context.Context, groupID string, since time.Time) ([]GroupStatusCount, error)
	GroupDailyActivity(ctx context.Context, groupID string, since time.Time) ([]DailyBucket, error)
}
