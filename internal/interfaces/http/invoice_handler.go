package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-intake/internal/application/dto"
	"github.com/jhoicas/factura-intake/internal/application/usecase"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// InvoiceHandler consulta y gestión de facturas ingresadas.
type InvoiceHandler struct {
	uc *usecase.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *usecase.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// List devuelve la página filtrada (los ítems no incluyen fileUrl).
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	invoices, total, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.ToInvoiceResponse(inv, false))
	}

	return c.JSON(dto.InvoiceListResponse{
		Invoices:   items,
		Pagination: dto.NewPagination(total, filter.Limit, filter.Offset),
	})
}

// GetByID devuelve la factura completa.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToInvoiceResponse(invoice, true))
}

// Validate marca o desmarca la validación manual.
// PUT /api/invoices/:id/validate
func (h *InvoiceHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}

	invoice, err := h.uc.Validate(c.Context(), c.Params("id"), in.IsValidated, in.ValidationErrors)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToInvoiceResponse(invoice, true))
}

// UpdateData corrige manualmente los datos extraídos.
// PUT /api/invoices/:id/data
func (h *InvoiceHandler) UpdateData(c *fiber.Ctx) error {
	var in dto.UpdateExtractedDataRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}

	invoice, err := h.uc.UpdateExtractedData(c.Context(), c.Params("id"), in.ExtractedData)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToInvoiceResponse(invoice, true))
}

// Delete elimina la factura y su archivo.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "factura eliminada"})
}

// parseInvoiceFilter arma el filtro desde los query params. Fechas en
// RFC3339 o YYYY-MM-DD; montos decimales.
func parseInvoiceFilter(c *fiber.Ctx) (repository.InvoiceFilter, error) {
	filter := repository.InvoiceFilter{
		Status:    c.Query("status"),
		Source:    c.Query("source"),
		Vendor:    c.Query("vendor"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	}

	if raw := c.Query("dateFrom"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("dateTo"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &t
	}
	if raw := c.Query("minAmount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "minAmount inválido")
		}
		filter.MinAmount = &d
	}
	if raw := c.Query("maxAmount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "maxAmount inválido")
		}
		filter.MaxAmount = &d
	}
	return filter, nil
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "fecha inválida: "+raw)
	}
	return t, nil
}
