package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-intake/internal/application/usecase"
	"github.com/jhoicas/factura-intake/internal/domain"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
)

const (
	testMaxFileSize = int64(1024)
	testMaxRetries  = 3
)

type intakeFixture struct {
	uc       *usecase.IntakeUseCase
	invoices *fakeInvoiceRepo
	store    *fakeStore
	workflow *fakeWorkflow
	tx       *fakeTxRunner
}

func newIntakeFixture(invoices ...*entity.Invoice) *intakeFixture {
	repo := newFakeInvoiceRepo(invoices...)
	groups := newFakeGroupRepo()
	store := newFakeStore()
	workflow := &fakeWorkflow{}
	tx := &fakeTxRunner{invoices: repo, groups: groups}

	uc := usecase.NewIntakeUseCase(
		repo, tx, store, workflow,
		"http://localhost:3000/api/webhooks/n8n-callback",
		testMaxFileSize, testMaxRetries, testLogger(),
	)
	return &intakeFixture{uc: uc, invoices: repo, store: store, workflow: workflow, tx: tx}
}

// ──────────────────────────────────────────────────────────────────────────────
// Upload
// ──────────────────────────────────────────────────────────────────────────────

func TestUpload_FlujoCompleto(t *testing.T) {
	fx := newIntakeFixture()

	invoice, result, err := fx.uc.Upload(context.Background(), usecase.UploadInput{
		Filename: "factura-marzo.pdf",
		Content:  strings.NewReader("%PDF-contenido"),
	})
	require.NoError(t, err, "la carga válida no debe fallar")
	require.NotNil(t, invoice)
	require.NotNil(t, result)

	assert.Equal(t, entity.StatusProcessing, invoice.Status,
		"tras disparar el workflow la factura debe quedar en processing")
	assert.Equal(t, entity.SourceUpload, invoice.Source, "source vacío debe caer a upload")
	assert.Equal(t, "pdf", invoice.FileType)
	assert.Equal(t, int64(len("%PDF-contenido")), invoice.FileSize)
	assert.Equal(t, "wf-test", invoice.WorkflowID)
	assert.Equal(t, "exec-test", invoice.ExecutionID)
	assert.NotNil(t, invoice.ProcessingStartTime)

	// el archivo quedó confirmado en su ruta final
	assert.Equal(t, "uploads/factura-marzo.pdf", invoice.FileURL)
	assert.Contains(t, fx.store.files, invoice.FileURL, "el archivo debe estar confirmado")

	// el workflow recibió el contenido y el callback
	require.Len(t, fx.workflow.requests, 1)
	req := fx.workflow.requests[0]
	assert.Equal(t, invoice.ID, req.InvoiceID)
	assert.Equal(t, []byte("%PDF-contenido"), req.FileData)
	assert.Contains(t, req.CallbackURL, "/api/webhooks/n8n-callback")
}

func TestUpload_SourceInvalido(t *testing.T) {
	fx := newIntakeFixture()

	_, _, err := fx.uc.Upload(context.Background(), usecase.UploadInput{
		Filename: "factura.pdf",
		Source:   "fax",
		Content:  strings.NewReader("datos"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "source desconocido debe rechazarse")
	assert.Empty(t, fx.store.staged, "no debe escribirse nada en staging")
}

func TestUpload_ExtensionRechazada(t *testing.T) {
	fx := newIntakeFixture()

	_, _, err := fx.uc.Upload(context.Background(), usecase.UploadInput{
		Filename: "malware.exe",
		Content:  strings.NewReader("datos"),
	})
	assert.ErrorIs(t, err, domain.ErrFileRejected)
	assert.Empty(t, fx.store.staged)
}

func TestUpload_ArchivoDemasiadoGrande(t *testing.T) {
	fx := newIntakeFixture()

	_, _, err := fx.uc.Upload(context.Background(), usecase.UploadInput{
		Filename: "enorme.pdf",
		Content:  strings.NewReader(strings.Repeat("x", int(testMaxFileSize)+1)),
	})
	assert.ErrorIs(t, err, domain.ErrFileRejected, "superar el tamaño máximo debe rechazar el archivo")
	assert.Empty(t, fx.store.staged)
}

func TestUpload_FallaLaTransaccion_DescartaStaging(t *testing.T) {
	fx := newIntakeFixture()
	fx.tx.err = errors.New("deadlock detected")

	_, _, err := fx.uc.Upload(context.Background(), usecase.UploadInput{
		Filename: "factura.pdf",
		Content:  strings.NewReader("datos"),
	})
	require.Error(t, err)

	assert.Len(t, fx.store.discarded, 1, "si la tx falla el staging debe descartarse")
	assert.Empty(t, fx.invoices.created, "no debe quedar fila de factura")
	assert.Empty(t, fx.workflow.requests, "el workflow no debe dispararse")
}

func TestUpload_FallaElTrigger_FacturaQuedaEnFailed(t *testing.T) {
	fx := newIntakeFixture()
	fx.workflow.err = errors.New("n8n webhook no responde")

	invoice, result, err := fx.uc.Upload(context.Background(), usecase.UploadInput{
		Filename: "factura.pdf",
		Content:  strings.NewReader("datos"),
	})
	require.Error(t, err, "el fallo del trigger debe propagarse")
	require.NotNil(t, invoice, "la factura ya creada debe devolverse aunque falle el trigger")
	assert.Nil(t, result)

	assert.Equal(t, entity.StatusFailed, invoice.Status)
	require.Len(t, invoice.ProcessingErrors, 1)
	assert.Contains(t, invoice.ProcessingErrors[0], "n8n webhook no responde")

	// el archivo se conserva para poder reintentar
	assert.Empty(t, fx.store.removed, "el archivo no debe borrarse tras un trigger fallido")
	assert.Contains(t, fx.store.files, invoice.FileURL)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetStatus / Retry
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStatus_NoExiste(t *testing.T) {
	fx := newIntakeFixture()
	_, err := fx.uc.GetStatus(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func failedInvoice(retries int) *entity.Invoice {
	now := time.Now()
	return &entity.Invoice{
		ID:               "inv-1",
		OriginalFilename: "factura.pdf",
		FileType:         "pdf",
		FileURL:          "uploads/factura.pdf",
		Status:           entity.StatusFailed,
		Source:           entity.SourceUpload,
		ProcessingErrors: []string{"timeout"},
		RetryCount:       retries,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestRetry_SoloDesdeFailed(t *testing.T) {
	inv := failedInvoice(0)
	inv.Status = entity.StatusProcessing
	fx := newIntakeFixture(inv)

	_, _, err := fx.uc.Retry(context.Background(), "inv-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"solo las facturas en failed admiten retry")
}

func TestRetry_LimiteAlcanzado(t *testing.T) {
	fx := newIntakeFixture(failedInvoice(testMaxRetries))

	_, _, err := fx.uc.Retry(context.Background(), "inv-1")
	assert.ErrorIs(t, err, domain.ErrRetryLimit)
	assert.Empty(t, fx.workflow.requests, "agotado el límite no debe dispararse el workflow")
}

func TestRetry_ReiniciaEstadoYDispara(t *testing.T) {
	fx := newIntakeFixture(failedInvoice(1))

	invoice, result, err := fx.uc.Retry(context.Background(), "inv-1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, entity.StatusProcessing, invoice.Status)
	assert.Equal(t, 2, invoice.RetryCount, "el retry debe incrementar el contador")
	assert.Nil(t, invoice.ProcessingErrors, "los errores previos deben limpiarse")
	assert.Nil(t, invoice.ProcessingEndTime)
	require.Len(t, fx.workflow.requests, 1)
	assert.Equal(t, "inv-1", fx.workflow.requests[0].InvoiceID)
}

func TestRetry_NoExiste(t *testing.T) {
	fx := newIntakeFixture()
	_, _, err := fx.uc.Retry(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
