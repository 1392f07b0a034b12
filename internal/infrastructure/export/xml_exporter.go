// Package export serializa facturas a formatos de intercambio
// (XML y CSV) para sistemas contables externos.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

// XMLExporter arma el documento XML de facturas con etree.
type XMLExporter struct{}

var _ ports.XMLExporter = (*XMLExporter)(nil)

func NewXMLExporter() *XMLExporter {
	return &XMLExporter{}
}

// Export genera el XML del lote. Solo incluye los campos extraídos
// presentes; las facturas sin extracción salen con el bloque vacío.
func (e *XMLExporter) Export(invoices []*entity.Invoice) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Facturas")
	root.CreateAttr("generado", time.Now().Format(time.RFC3339))
	root.CreateAttr("total", strconv.Itoa(len(invoices)))

	for _, inv := range invoices {
		el := root.CreateElement("Factura")
		el.CreateAttr("id", inv.ID)

		el.CreateElement("Archivo").SetText(inv.OriginalFilename)
		el.CreateElement("Tipo").SetText(inv.FileType)
		el.CreateElement("Estado").SetText(inv.Status)
		el.CreateElement("Origen").SetText(inv.Source)
		el.CreateElement("Validada").SetText(strconv.FormatBool(inv.IsValidated))
		el.CreateElement("FechaCarga").SetText(inv.CreatedAt.Format(time.RFC3339))

		datos := el.CreateElement("DatosExtraidos")
		addExtractedField(datos, inv, "vendor", "Proveedor")
		addExtractedField(datos, inv, "invoiceNumber", "NumeroFactura")
		addExtractedField(datos, inv, "amount", "Monto")
		addExtractedField(datos, inv, "currency", "Moneda")
		addExtractedField(datos, inv, "date", "FechaEmision")
		addExtractedField(datos, inv, "dueDate", "FechaVencimiento")
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializando XML: %w", err)
	}
	return out, nil
}

func addExtractedField(parent *etree.Element, inv *entity.Invoice, key, tag string) {
	raw, ok := inv.ExtractedData[key]
	if !ok || raw == nil {
		return
	}
	parent.CreateElement(tag).SetText(stringify(raw))
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
