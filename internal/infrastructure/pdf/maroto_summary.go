// Package pdf genera el reporte PDF de facturas con maroto.
//
// Estructura del reporte:
//
//	┌──────────────────────────────────────────────┐
//	│  Reporte de Facturas            fecha emisión │
//	├──────────────────────────────────────────────┤
//	│  Archivo | Estado | Origen | Proveedor | Monto│
//	│  ........ filas .............................│
//	├──────────────────────────────────────────────┤
//	│  Total de facturas: N      Monto total: $X   │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

var (
	colorHeader = &props.Color{Red: 40, Green: 60, Blue: 110}
	colorMuted  = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// MarotoSummaryGenerator genera el resumen de facturas en PDF.
type MarotoSummaryGenerator struct{}

var _ ports.PDFGenerator = (*MarotoSummaryGenerator)(nil)

func NewMarotoSummaryGenerator() *MarotoSummaryGenerator {
	return &MarotoSummaryGenerator{}
}

func (g *MarotoSummaryGenerator) InvoiceSummary(invoices []*entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(10).
		WithRightMargin(10).
		WithTopMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(12).Add(
		col.New(8).Add(text.New("Reporte de Facturas", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Color: colorHeader,
		})),
		col.New(4).Add(text.New(time.Now().Format("2006-01-02 15:04"), props.Text{
			Size:  9,
			Align: align.Right,
			Color: colorMuted,
		})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorHeader, Thickness: 0.5}))

	m.AddRows(headerRow())

	total := decimal.Zero
	for _, inv := range invoices {
		amount := invoiceAmount(inv)
		total = total.Add(amount)
		m.AddRows(invoiceRow(inv, amount))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorHeader, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Total de facturas: %d", len(invoices)), props.Text{
			Size:  10,
			Style: fontstyle.Bold,
		})),
		col.New(6).Add(text.New("Monto total: $"+total.StringFixed(2), props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Align: align.Right,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generando PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Size:  9,
			Style: fontstyle.Bold,
			Color: colorHeader,
		}))
	}
	return row.New(7).Add(
		header(4, "Archivo"),
		header(2, "Estado"),
		header(2, "Origen"),
		header(2, "Proveedor"),
		header(2, "Monto"),
	)
}

func invoiceRow(inv *entity.Invoice, amount decimal.Decimal) core.Row {
	cell := func(size int, value string) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8}))
	}

	vendor, _ := inv.ExtractedData["vendor"].(string)
	monto := "-"
	if !amount.IsZero() {
		monto = "$" + amount.StringFixed(2)
	}

	return row.New(6).Add(
		cell(4, inv.OriginalFilename),
		cell(2, inv.Status),
		cell(2, inv.Source),
		cell(2, vendor),
		col.New(2).Add(text.New(monto, props.Text{Size: 8, Align: align.Right})),
	)
}

// invoiceAmount lee el monto extraído tolerando número o string.
func invoiceAmount(inv *entity.Invoice) decimal.Decimal {
	raw, ok := inv.ExtractedData["amount"]
	if !ok {
		return decimal.Zero
	}
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
