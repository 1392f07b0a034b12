package http_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/application/usecase"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
	apphttp "github.com/jhoicas/factura-intake/internal/interfaces/http"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos de los puertos para armar el caso de uso de carga.
// ──────────────────────────────────────────────────────────────────────────────

type stubStore struct{}

var _ ports.FileStore = (*stubStore)(nil)

func (s *stubStore) SaveStaging(filename string, r io.Reader) (string, int64, error) {
	n, err := io.Copy(io.Discard, r)
	return "staging/" + filename, n, err
}

func (s *stubStore) FinalURL(stagingKey string) string {
	return "uploads/" + strings.TrimPrefix(stagingKey, "staging/")
}

func (s *stubStore) Commit(stagingKey string) (string, error) {
	return s.FinalURL(stagingKey), nil
}

func (s *stubStore) Discard(string) error { return nil }
func (s *stubStore) Remove(string) error  { return nil }

func (s *stubStore) Read(string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("contenido-de-prueba")), nil
}

type stubTxRunner struct {
	invoices repository.InvoiceRepository
}

var _ ports.TxRunner = (*stubTxRunner)(nil)

func (r *stubTxRunner) RunInvoice(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(r.invoices)
}

func (r *stubTxRunner) RunIntake(ctx context.Context, fn func(
	repository.InvoiceRepository,
	repository.WhatsAppGroupRepository,
) error) error {
	return fn(r.invoices, nil)
}

type failingWorkflow struct {
	err error
}

var _ ports.WorkflowClient = (*failingWorkflow)(nil)

func (w *failingWorkflow) Trigger(context.Context, ports.TriggerRequest) (*ports.TriggerResult, error) {
	return nil, w.err
}

// buildUploadApp arma la app con la ruta de carga sobre un workflow
// que siempre falla.
func buildUploadApp(repo *memInvoiceRepo, triggerErr error) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	intakeUC := usecase.NewIntakeUseCase(
		repo,
		&stubTxRunner{invoices: repo},
		&stubStore{},
		&failingWorkflow{err: triggerErr},
		"http://localhost:3000/api/webhooks/n8n-callback",
		10*1024*1024,
		3,
		log,
	)
	handler := apphttp.NewUploadHandler(intakeUC)

	app := fiber.New()
	app.Post("/api/upload", handler.Upload)
	return app
}

func postInvoiceFile(t *testing.T, app *fiber.App, filename string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("invoice", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 contenido"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/upload — fallo del disparo del workflow
// ──────────────────────────────────────────────────────────────────────────────

func TestUpload_TriggerFalla_DetallaElErrorDelMotor(t *testing.T) {
	repo := &memInvoiceRepo{byID: make(map[string]*entity.Invoice)}
	app := buildUploadApp(repo, errors.New("connection refused"))

	resp := postInvoiceFile(t, app, "factura.pdf")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "WORKFLOW_TRIGGER_FAILED")
	assert.Contains(t, string(body), "invoiceId", "la respuesta debe traer el id para el retry")
	assert.Contains(t, string(body), "connection refused",
		"el detalle debe incluir el error del motor de workflows")
}
