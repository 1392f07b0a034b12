package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/factura-intake/internal/application/usecase"
)

// StatsHandler estadísticas del dashboard.
type StatsHandler struct {
	uc *usecase.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *usecase.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Overview resumen global. ?period=7d|30d|90d|1y (default 30d).
// GET /api/invoices/stats/overview
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.uc.Overview(c.Context(), c.Query("period"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(stats)
}
