package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/factura-intake/internal/application/usecase"
)

// ExportHandler exportación de facturas (protegido con Bearer Token).
type ExportHandler struct {
	uc *usecase.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *usecase.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// XML exporta el lote filtrado como XML.
// GET /api/export/xml
func (h *ExportHandler) XML(c *fiber.Ctx) error {
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.ExportXML(c.Context(), filter)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facturas.xml"`)
	return c.Send(out)
}

// CSV exporta el lote filtrado como CSV. ?encoding=latin1 recodifica
// a ISO-8859-1 para sistemas contables heredados.
// GET /api/export/csv
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	latin1 := c.Query("encoding") == "latin1"

	out, err := h.uc.ExportCSV(c.Context(), filter, latin1)
	if err != nil {
		return errorResponse(c, err)
	}

	charset := "utf-8"
	if latin1 {
		charset = "iso-8859-1"
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset="+charset)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facturas.csv"`)
	return c.Send(out)
}

// PDF exporta el resumen del lote filtrado como PDF.
// GET /api/export/pdf
func (h *ExportHandler) PDF(c *fiber.Ctx) error {
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.ExportPDF(c.Context(), filter)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facturas.pdf"`)
	return c.Send(out)
}
