package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

// Tope de facturas por exportación.
const exportLimit = 1000

// ExportUseCase exportación de lotes de facturas a XML, CSV y PDF.
type ExportUseCase struct {
	invoices repository.InvoiceRepository
	xml      ports.XMLExporter
	csv      ports.CSVExporter
	pdf      ports.PDFGenerator
}

func NewExportUseCase(
	invoices repository.InvoiceRepository,
	xml ports.XMLExporter,
	csv ports.CSVExporter,
	pdf ports.PDFGenerator,
) *ExportUseCase {
	return &ExportUseCase{invoices: invoices, xml: xml, csv: csv, pdf: pdf}
}

func (uc *ExportUseCase) ExportXML(ctx context.Context, filter repository.InvoiceFilter) ([]byte, error) {
	invoices, err := uc.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.xml.Export(invoices)
}

func (uc *ExportUseCase) ExportCSV(ctx context.Context, filter repository.InvoiceFilter, latin1 bool) ([]byte, error) {
	invoices, err := uc.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.csv.Export(invoices, latin1)
}

func (uc *ExportUseCase) ExportPDF(ctx context.Context, filter repository.InvoiceFilter) ([]byte, error) {
	invoices, err := uc.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.pdf.InvoiceSummary(invoices)
}

func (uc *ExportUseCase) fetch(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	filter.Limit = exportLimit
	filter.Offset = 0
	invoices, _, err := uc.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listando facturas para exportar: %w", err)
	}
	return invoices, nil
}
