package ports

import "github.com/jhoicas/factura-intake/internal/domain/entity"

// XMLExporter serializa un lote de facturas a XML.
type XMLExporter interface {
	Export(invoices []*entity.Invoice) ([]byte, error)
}

// CSVExporter serializa un lote de facturas a CSV (UTF-8 o Latin-1).
type CSVExporter interface {
	Export(invoices []*entity.Invoice, latin1 bool) ([]byte, error)
}
