package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/application/usecase"
)

// WhatsAppHandler gestión de grupos de WhatsApp conectados.
type WhatsAppHandler struct {
	uc    *usecase.WhatsAppUseCase
	stats *usecase.StatsUseCase
}

// NewWhatsAppHandler construye el handler.
func NewWhatsAppHandler(uc *usecase.WhatsAppUseCase, stats *usecase.StatsUseCase) *WhatsAppHandler {
	return &WhatsAppHandler{uc: uc, stats: stats}
}

// Connect registra un grupo para monitoreo.
// POST /api/whatsapp/groups
func (h *WhatsAppHandler) Connect(c *fiber.Ctx) error {
	var in dto.ConnectGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}

	group, err := h.uc.Connect(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToGroupResponse(group))
}

// List devuelve la página de grupos. ?active=true filtra los activos.
// GET /api/whatsapp/groups
func (h *WhatsAppHandler) List(c *fiber.Ctx) error {
	groups, total, err := h.uc.List(c.Context(), c.QueryBool("active"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		items = append(items, dto.ToGroupResponse(g))
	}

	limit := c.QueryInt("limit")
	if limit <= 0 {
		limit = 50
	}
	return c.JSON(dto.GroupListResponse{
		Groups:     items,
		Pagination: dto.NewPagination(total, limit, c.QueryInt("offset")),
	})
}

// GetByID devuelve un grupo por su identificador externo.
// GET /api/whatsapp/groups/:groupId
func (h *WhatsAppHandler) GetByID(c *fiber.Ctx) error {
	group, err := h.uc.Get(c.Context(), c.Params("groupId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToGroupResponse(group))
}

// Update aplica una actualización parcial de configuración.
// PUT /api/whatsapp/groups/:groupId
func (h *WhatsAppHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}

	group, err := h.uc.Update(c.Context(), c.Params("groupId"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToGroupResponse(group))
}

// Disconnect desactiva el grupo (baja lógica).
// DELETE /api/whatsapp/groups/:groupId
func (h *WhatsAppHandler) Disconnect(c *fiber.Ctx) error {
	group, err := h.uc.Disconnect(c.Context(), c.Params("groupId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "grupo desconectado",
		"group":   dto.ToGroupResponse(group),
	})
}

// Stats estadísticas del grupo en el período.
// GET /api/whatsapp/groups/:groupId/stats
func (h *WhatsAppHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.GroupStats(c.Context(), c.Params("groupId"), c.Query("period"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(stats)
}

// TestMessage simula un mensaje contra la configuración del grupo.
// POST /api/whatsapp/groups/:groupId/test
func (h *WhatsAppHandler) TestMessage(c *fiber.Ctx) error {
	var in dto.GroupTestMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}

	result, err := h.uc.TestMessage(c.Context(), c.Params("groupId"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

// RecentInvoices últimas facturas originadas en el grupo.
// GET /api/whatsapp/groups/:groupId/invoices
func (h *WhatsAppHandler) RecentInvoices(c *fiber.Ctx) error {
	groupID := c.Params("groupId")
	invoices, err := h.uc.RecentInvoices(c.Context(), groupID)
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.ToInvoiceResponse(inv, false))
	}
	return c.JSON(dto.GroupInvoicesResponse{GroupID: groupID, Invoices: items})
}
