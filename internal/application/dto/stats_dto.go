package dto

// StatsOverviewResponse resumen global para el dashboard.
type StatsOverviewResponse struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"byStatus"`
	BySource      map[string]int64 `json:"bySource"`
	Period        PeriodStats      `json:"period"`
	DailyActivity []DailyActivity  `json:"dailyActivity"`
}

// PeriodStats agregados del período solicitado (7d/30d/90d/1y).
type PeriodStats struct {
	Days          int    `json:"days"`
	Count         int64  `json:"count"`
	TotalAmount   string `json:"totalAmount"`
	AvgAmount     string `json:"avgAmount"`
	AvgConfidence string `json:"avgConfidence"`
}

// DailyActivity actividad de un día.
type DailyActivity struct {
	Date        string `json:"date"`
	Count       int64  `json:"count"`
	TotalAmount string `json:"totalAmount"`
}

// GroupStatsResponse estadísticas de un grupo de WhatsApp.
type GroupStatsResponse struct {
	GroupID       string              `json:"groupId"`
	GroupName     string              `json:"groupName"`
	Period        int                 `json:"periodDays"`
	Counters      GroupCounters       `json:"counters"`
	ByStatus      []GroupStatusAmount `json:"byStatus"`
	DailyActivity []DailyActivity     `json:"dailyActivity"`
}

// GroupCounters contadores acumulados del grupo.
type GroupCounters struct {
	TotalMessages         int64 `json:"totalMessages"`
	ProcessedMessages     int64 `json:"processedMessages"`
	SuccessfulExtractions int64 `json:"successfulExtractions"`
	FailedExtractions     int64 `json:"failedExtractions"`
}

// GroupStatusAmount conteo + monto por estado dentro del período.
type GroupStatusAmount struct {
	Status      string `json:"status"`
	Count       int64  `json:"count"`
	TotalAmount string `json:"totalAmount"`
}
