package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// CSVExporter serializa facturas a CSV. Los sistemas contables
// heredados piden Latin-1, de ahí la opción de codificación.
type CSVExporter struct{}

var _ ports.CSVExporter = (*CSVExporter)(nil)

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

var csvHeader = []string{
	"id", "archivo", "tipo", "estado", "origen",
	"proveedor", "numero_factura", "monto", "moneda",
	"fecha_emision", "validada", "fecha_carga",
}

// Export genera el CSV en UTF-8. Si latin1 es true, el resultado se
// recodifica a ISO-8859-1 (los caracteres fuera del mapa se sustituyen).
func (e *CSVExporter) Export(invoices []*entity.Invoice, latin1 bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("escribiendo cabecera CSV: %w", err)
	}

	for _, inv := range invoices {
		record := []string{
			inv.ID,
			inv.OriginalFilename,
			inv.FileType,
			inv.Status,
			inv.Source,
			extractedString(inv, "vendor"),
			extractedString(inv, "invoiceNumber"),
			extractedString(inv, "amount"),
			extractedString(inv, "currency"),
			extractedString(inv, "date"),
			strconv.FormatBool(inv.IsValidated),
			inv.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("escribiendo fila CSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("finalizando CSV: %w", err)
	}

	if !latin1 {
		return buf.Bytes(), nil
	}

	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	encoded, err := enc.Bytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("recodificando CSV a latin1: %w", err)
	}
	return encoded, nil
}

func extractedString(inv *entity.Invoice, key string) string {
	raw, ok := inv.ExtractedData[key]
	if !ok || raw == nil {
		return ""
	}
	return stringify(raw)
}
