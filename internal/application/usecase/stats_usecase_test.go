package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-intake/internal/application/usecase"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// fakeStatsRepo devuelve valores enlatados y registra el since recibido.
type fakeStatsRepo struct {
	total     int64
	byStatus  []repository.StatusCount
	bySource  []repository.StatusCount
	summary   repository.PeriodSummary
	daily     []repository.DailyBucket
	lastSince time.Time
}

var _ repository.StatsRepository = (*fakeStatsRepo)(nil)

func (r *fakeStatsRepo) TotalCount(context.Context) (int64, error) { return r.total, nil }

func (r *fakeStatsRepo) CountByStatus(context.Context) ([]repository.StatusCount, error) {
	return r.byStatus, nil
}

func (r *fakeStatsRepo) CountBySource(context.Context) ([]repository.StatusCount, error) {
	return r.bySource, nil
}

func (r *fakeStatsRepo) PeriodSummary(_ context.Context, since time.Time) (*repository.PeriodSummary, error) {
	r.lastSince = since
	return &r.summary, nil
}

func (r *fakeStatsRepo) DailyActivity(_ context.Context, since time.Time) ([]repository.DailyBucket, error) {
	return r.daily, nil
}

func (r *fakeStatsRepo) GroupCountByStatus(_ context.Context, groupID string, since time.Time) ([]repository.GroupStatusCount, error) {
	return []repository.GroupStatusCount{
		{Status: entity.StatusProcessed, Count: 3, TotalAmount: decimal.NewFromInt(300)},
	}, nil
}

func (r *fakeStatsRepo) GroupDailyActivity(_ context.Context, groupID string, since time.Time) ([]repository.DailyBucket, error) {
	return r.daily, nil
}

func newStatsFixture(stats *fakeStatsRepo, groups ...*entity.WhatsAppGroup) *usecase.StatsUseCase {
	return usecase.NewStatsUseCase(stats, newFakeGroupRepo(groups...))
}

func TestOverview_AgregaTodo(t *testing.T) {
	stats := &fakeStatsRepo{
		total: 42,
		byStatus: []repository.StatusCount{
			{Key: entity.StatusProcessed, Count: 30},
			{Key: entity.StatusFailed, Count: 12},
		},
		bySource: []repository.StatusCount{
			{Key: entity.SourceUpload, Count: 25},
			{Key: entity.SourceWhatsApp, Count: 17},
		},
		summary: repository.PeriodSummary{
			Count:         10,
			TotalAmount:   decimal.RequireFromString("1500.5"),
			AvgAmount:     decimal.RequireFromString("150.05"),
			AvgConfidence: 0.876,
		},
		daily: []repository.DailyBucket{
			{Day: "2026-08-30", Count: 4, TotalAmount: decimal.NewFromInt(400)},
		},
	}
	uc := newStatsFixture(stats)

	resp, err := uc.Overview(context.Background(), "7d")
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.Total)
	assert.Equal(t, int64(30), resp.ByStatus[entity.StatusProcessed])
	assert.Equal(t, int64(17), resp.BySource[entity.SourceWhatsApp])
	assert.Equal(t, 7, resp.Period.Days)
	assert.Equal(t, "1500.50", resp.Period.TotalAmount, "los montos salen con dos decimales")
	assert.Equal(t, "0.88", resp.Period.AvgConfidence)
	require.Len(t, resp.DailyActivity, 1)
	assert.Equal(t, "2026-08-30", resp.DailyActivity[0].Date)

	// el since del período debe rondar los 7 días atrás
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), stats.lastSince, time.Minute)
}

func TestOverview_PeriodoPorDefecto(t *testing.T) {
	uc := newStatsFixture(&fakeStatsRepo{})
	resp, err := uc.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Period.Days, "sin período debe aplicarse 30d")
}

func TestOverview_PeriodoInvalido(t *testing.T) {
	uc := newStatsFixture(&fakeStatsRepo{})
	_, err := uc.Overview(context.Background(), "15d")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGroupStats_IncluyeContadores(t *testing.T) {
	group := activeGroup("grupo-1")
	group.Stats.TotalMessages = 20
	group.Stats.ProcessedMessages = 15
	group.Stats.SuccessfulExtractions = 12
	group.Stats.FailedExtractions = 3
	uc := newStatsFixture(&fakeStatsRepo{}, group)

	resp, err := uc.GroupStats(context.Background(), "grupo-1", "30d")
	require.NoError(t, err)

	assert.Equal(t, "grupo-1", resp.GroupID)
	assert.Equal(t, int64(20), resp.Counters.TotalMessages)
	assert.Equal(t, int64(12), resp.Counters.SuccessfulExtractions)
	require.Len(t, resp.ByStatus, 1)
	assert.Equal(t, entity.StatusProcessed, resp.ByStatus[0].Status)
	assert.Equal(t, "300.00", resp.ByStatus[0].TotalAmount)
}

func TestGroupStats_GrupoNoExiste(t *testing.T) {
	uc := newStatsFixture(&fakeStatsRepo{})
	_, err := uc.GroupStats(context.Background(), "fantasma", "30d")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
