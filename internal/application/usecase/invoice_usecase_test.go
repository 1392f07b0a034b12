package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-intake/internal/application/usecase"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
)

type invoiceFixture struct {
	uc       *usecase.InvoiceUseCase
	invoices *fakeInvoiceRepo
	store    *fakeStore
}

func newInvoiceFixture(invoices ...*entity.Invoice) *invoiceFixture {
	repo := newFakeInvoiceRepo(invoices...)
	store := newFakeStore()
	return &invoiceFixture{
		uc:       usecase.NewInvoiceUseCase(repo, store, testLogger()),
		invoices: repo,
		store:    store,
	}
}

func processedInvoice(id string) *entity.Invoice {
	now := time.Now()
	return &entity.Invoice{
		ID:               id,
		OriginalFilename: "factura.pdf",
		FileType:         "pdf",
		FileURL:          "uploads/factura.pdf",
		Status:           entity.StatusProcessed,
		Source:           entity.SourceUpload,
		ExtractedData: map[string]any{
			"vendor": "ACME Corp",
			"amount": 100.0,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_NormalizaPaginacion(t *testing.T) {
	fx := newInvoiceFixture()

	_, _, err := fx.uc.List(context.Background(), repository.InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, fx.invoices.lastFilter.Limit, "sin limit debe aplicarse el default")

	_, _, err = fx.uc.List(context.Background(), repository.InvoiceFilter{Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 100, fx.invoices.lastFilter.Limit, "el limit se recorta al máximo")
	assert.Zero(t, fx.invoices.lastFilter.Offset, "offset negativo debe quedar en 0")
}

func TestList_FiltrosInvalidos(t *testing.T) {
	fx := newInvoiceFixture()

	_, _, err := fx.uc.List(context.Background(), repository.InvoiceFilter{Status: "pendiente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = fx.uc.List(context.Background(), repository.InvoiceFilter{Source: "fax"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_AcoplaEstadoYBandera(t *testing.T) {
	fx := newInvoiceFixture(processedInvoice("inv-1"))

	invoice, err := fx.uc.Validate(context.Background(), "inv-1", true, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusValidated, invoice.Status)
	assert.True(t, invoice.IsValidated)

	// desmarcar vuelve a processed
	invoice, err = fx.uc.Validate(context.Background(), "inv-1", false, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessed, invoice.Status)
	assert.False(t, invoice.IsValidated)
}

func TestValidate_GuardaErroresDeValidacion(t *testing.T) {
	fx := newInvoiceFixture(processedInvoice("inv-1"))

	invoice, err := fx.uc.Validate(context.Background(), "inv-1", false,
		[]string{"monto no coincide con el total de los ítems"})
	require.NoError(t, err)
	assert.Equal(t, []string{"monto no coincide con el total de los ítems"},
		invoice.ValidationErrors)

	// sin errores enviados queda la lista vacía, no nil
	invoice, err = fx.uc.Validate(context.Background(), "inv-1", true, nil)
	require.NoError(t, err)
	assert.NotNil(t, invoice.ValidationErrors)
	assert.Empty(t, invoice.ValidationErrors)
}

func TestValidate_FueraDelParProcessedValidated_NoTocaElEstado(t *testing.T) {
	inv := processedInvoice("inv-1")
	inv.Status = entity.StatusFailed
	fx := newInvoiceFixture(inv)

	invoice, err := fx.uc.Validate(context.Background(), "inv-1", true,
		[]string{"revisada a mano pese al fallo"})
	require.NoError(t, err)
	assert.True(t, invoice.IsValidated, "la bandera se actualiza en cualquier estado")
	assert.Equal(t, entity.StatusFailed, invoice.Status,
		"fuera de processed/validated el estado queda intacto")

	inv2 := processedInvoice("inv-2")
	inv2.Status = entity.StatusProcessing
	fx = newInvoiceFixture(inv2)

	invoice, err = fx.uc.Validate(context.Background(), "inv-2", false, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessing, invoice.Status)
}

func TestValidate_NoExiste(t *testing.T) {
	fx := newInvoiceFixture()
	_, err := fx.uc.Validate(context.Background(), "fantasma", true, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateExtractedData
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateExtractedData_FusionaYAnulaValidacion(t *testing.T) {
	inv := processedInvoice("inv-1")
	inv.IsValidated = true
	inv.Status = entity.StatusValidated
	inv.ValidationErrors = []string{"monto dudoso"}
	fx := newInvoiceFixture(inv)

	updated, err := fx.uc.UpdateExtractedData(context.Background(), "inv-1", map[string]any{
		"vendor": "ACME Corp S.A.",
		"date":   "2024-03-15",
	})
	require.NoError(t, err)

	assert.Equal(t, "ACME Corp S.A.", updated.ExtractedData["vendor"], "el campo enviado se pisa")
	assert.Equal(t, 100.0, updated.ExtractedData["amount"], "los campos no enviados se conservan")
	assert.False(t, updated.IsValidated, "corregir datos obliga a re-validar")
	assert.Nil(t, updated.ValidationErrors)

	date, _ := updated.ExtractedData["date"].(string)
	_, perr := time.Parse(time.RFC3339, date)
	assert.NoError(t, perr, "la fecha debe normalizarse a RFC3339")
}

func TestUpdateExtractedData_Vacio(t *testing.T) {
	fx := newInvoiceFixture(processedInvoice("inv-1"))
	_, err := fx.uc.UpdateExtractedData(context.Background(), "inv-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_EliminaFilaYArchivo(t *testing.T) {
	fx := newInvoiceFixture(processedInvoice("inv-1"))

	require.NoError(t, fx.uc.Delete(context.Background(), "inv-1"))

	assert.Equal(t, []string{"inv-1"}, fx.invoices.deleted)
	assert.Equal(t, []string{"uploads/factura.pdf"}, fx.store.removed,
		"el archivo en disco debe borrarse junto con la fila")
}

func TestDelete_NoExiste(t *testing.T) {
	fx := newInvoiceFixture()
	err := fx.uc.Delete(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
