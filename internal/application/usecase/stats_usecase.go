package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// Períodos aceptados por el dashboard.
var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

const defaultPeriod = "30d"

// StatsUseCase agregados para el dashboard.
type StatsUseCase struct {
	stats  repository.StatsRepository
	groups repository.WhatsAppGroupRepository
}

func NewStatsUseCase(stats repository.StatsRepository, groups repository.WhatsAppGroupRepository) *StatsUseCase {
	return &StatsUseCase{stats: stats, groups: groups}
}

// Overview resumen global: totales, desgloses por estado y origen,
// agregados del período y actividad diaria.
func (uc *StatsUseCase) Overview(ctx context.Context, period string) (*dto.StatsOverviewResponse, error) {
	days, since, err := resolvePeriod(period)
	if err != nil {
		return nil, err
	}

	total, err := uc.stats.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := uc.stats.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	bySource, err := uc.stats.CountBySource(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := uc.stats.PeriodSummary(ctx, since)
	if err != nil {
		return nil, err
	}
	daily, err := uc.stats.DailyActivity(ctx, since)
	if err != nil {
		return nil, err
	}

	return &dto.StatsOverviewResponse{
		Total:    total,
		ByStatus: countsToMap(byStatus),
		BySource: countsToMap(bySource),
		Period: dto.PeriodStats{
			Days:          days,
			Count:         summary.Count,
			TotalAmount:   summary.TotalAmount.StringFixed(2),
			AvgAmount:     summary.AvgAmount.StringFixed(2),
			AvgConfidence: fmt.Sprintf("%.2f", summary.AvgConfidence),
		},
		DailyActivity: toDailyActivity(daily),
	}, nil
}

// GroupStats estadísticas de un grupo de WhatsApp: contadores
// acumulados más el desglose del período.
func (uc *StatsUseCase) GroupStats(ctx context.Context, groupID, period string) (*dto.GroupStatsResponse, error) {
	days, since, err := resolvePeriod(period)
	if err != nil {
		return nil, err
	}

	group, err := uc.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}

	byStatus, err := uc.stats.GroupCountByStatus(ctx, groupID, since)
	if err != nil {
		return nil, err
	}
	daily, err := uc.stats.GroupDailyActivity(ctx, groupID, since)
	if err != nil {
		return nil, err
	}

	statuses := make([]dto.GroupStatusAmount, 0, len(byStatus))
	for _, s := range byStatus {
		statuses = append(statuses, dto.GroupStatusAmount{
			Status:      s.Status,
			Count:       s.Count,
			TotalAmount: s.TotalAmount.StringFixed(2),
		})
	}

	return &dto.GroupStatsResponse{
		GroupID:   group.GroupID,
		GroupName: group.GroupName,
		Period:    days,
		Counters: dto.GroupCounters{
			TotalMessages:         group.Stats.TotalMessages,
			ProcessedMessages:     group.Stats.ProcessedMessages,
			SuccessfulExtractions: group.Stats.SuccessfulExtractions,
			FailedExtractions:     group.Stats.FailedExtractions,
		},
		ByStatus:      statuses,
		DailyActivity: toDailyActivity(daily),
	}, nil
}

func resolvePeriod(period string) (int, time.Time, error) {
	if period == "" {
		period = defaultPeriod
	}
	days, ok := periodDays[period]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("%w: período %q", domain.ErrInvalidInput, period)
	}
	return days, time.Now().AddDate(0, 0, -days), nil
}

func countsToMap(counts []repository.StatusCount) map[string]int64 {
	m := make(map[string]int64, len(counts))
	for _, c := range counts {
		m[c.Key] = c.Count
	}
	return m
}

func toDailyActivity(buckets []repository.DailyBucket) []dto.DailyActivity {
	out := make([]dto.DailyActivity, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.DailyActivity{
			Date:        b.Day,
			Count:       b.Count,
			TotalAmount: b.TotalAmount.StringFixed(2),
		})
	}
	return out
}
