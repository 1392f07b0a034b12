package ports

import "github.com/jhoicas/factura-intake/internal/domain/entity"

// PDFGenerator genera el reporte PDF de facturas.
type PDFGenerator interface {
	InvoiceSummary(invoices []*entity.Invoice) ([]byte, error)
}
