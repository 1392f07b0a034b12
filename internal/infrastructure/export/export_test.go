package export

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

func sampleInvoices() []*entity.Invoice {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	return []*entity.Invoice{
		{
			ID:               "inv-1",
			OriginalFilename: "factura-acme.pdf",
			FileType:         "pdf",
			Status:           entity.StatusProcessed,
			Source:           entity.SourceUpload,
			IsValidated:      true,
			ExtractedData: map[string]any{
				"vendor":        "Acme Ltda",
				"invoiceNumber": "F-0001",
				"amount":        1250.5,
				"currency":      "USD",
				"date":          "2026-08-10",
			},
			CreatedAt: now,
		},
		{
			ID:               "inv-2",
			OriginalFilename: "recibo.png",
			FileType:         "png",
			Status:           entity.StatusUploaded,
			Source:           entity.SourceWhatsApp,
			CreatedAt:        now,
		},
	}
}

func TestXMLExport(t *testing.T) {
	out, err := NewXMLExporter().Export(sampleInvoices())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("Facturas")
	require.NotNil(t, root)
	assert.Equal(t, "2", root.SelectAttrValue("total", ""))

	facturas := root.SelectElements("Factura")
	require.Len(t, facturas, 2)

	primera := facturas[0]
	assert.Equal(t, "inv-1", primera.SelectAttrValue("id", ""))
	assert.Equal(t, "Acme Ltda", primera.FindElement("DatosExtraidos/Proveedor").Text())
	assert.Equal(t, "1250.5", primera.FindElement("DatosExtraidos/Monto").Text())

	// sin datos extraídos el bloque queda vacío
	segunda := facturas[1]
	assert.Nil(t, segunda.FindElement("DatosExtraidos/Proveedor"))
}

func TestCSVExportUTF8(t *testing.T) {
	out, err := NewCSVExporter().Export(sampleInvoices(), false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,archivo,tipo,estado,origen"))
	assert.Contains(t, lines[1], "Acme Ltda")
	assert.Contains(t, lines[1], "1250.5")
	assert.Contains(t, lines[2], "recibo.png")
}

func TestCSVExportLatin1(t *testing.T) {
	invoices := sampleInvoices()
	invoices[0].ExtractedData["vendor"] = "Compañía Eléctrica"

	out, err := NewCSVExporter().Export(invoices, true)
	require.NoError(t, err)

	// ñ en ISO-8859-1 es 0xF1, é es 0xE9
	assert.Contains(t, string(out), string([]byte{'C', 'o', 'm', 'p', 'a', 0xF1}))
	assert.Contains(t, string(out), string([]byte{'E', 'l', 0xE9, 'c'}))
}
