package usecase_test

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/internal/domain/entity"
	"github.com/jhoicas/factura-intake/internal/domain/repository"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los repositorios y puertos. Mantienen el estado
// en mapas y registran las llamadas que los tests necesitan verificar.
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ── InvoiceRepository ─────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	byID map[string]*entity.Invoice

	createErr error
	updateErr error

	created    []*entity.Invoice
	deleted    []string
	lastFilter repository.InvoiceFilter
}

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

func newFakeInvoiceRepo(invoices ...*entity.Invoice) *fakeInvoiceRepo {
	r := &fakeInvoiceRepo{byID: make(map[string]*entity.Invoice)}
	for _, inv := range invoices {
		r.byID[inv.ID] = inv
	}
	return r
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[invoice.ID] = invoice
	r.created = append(r.created, invoice)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return r.byID[id], nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byID[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.lastFilter = filter
	out := make([]*entity.Invoice, 0, len(r.byID))
	for _, inv := range r.byID {
		out = append(out, inv)
	}
	return out, len(out), nil
}

func (r *fakeInvoiceRepo) ListRecentByGroup(_ context.Context, groupID string, limit int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if inv.WhatsAppGroupID == groupID && len(out) < limit {
			out = append(out, inv)
		}
	}
	return out, nil
}

// ── WhatsAppGroupRepository ───────────────────────────────────────────────────

type fakeGroupRepo struct {
	byGroupID map[string]*entity.WhatsAppGroup

	createErr error
	updateErr error
}

var _ repository.WhatsAppGroupRepository = (*fakeGroupRepo)(nil)

func newFakeGroupRepo(groups ...*entity.WhatsAppGroup) *fakeGroupRepo {
	r := &fakeGroupRepo{byGroupID: make(map[string]*entity.WhatsAppGroup)}
	for _, g := range groups {
		r.byGroupID[g.GroupID] = g
	}
	return r
}

func (r *fakeGroupRepo) Create(_ context.Context, group *entity.WhatsAppGroup) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byGroupID[group.GroupID] = group
	return nil
}

func (r *fakeGroupRepo) GetByGroupID(_ context.Context, groupID string) (*entity.WhatsAppGroup, error) {
	return r.byGroupID[groupID], nil
}

func (r *fakeGroupRepo) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.WhatsAppGroup, int, error) {
	out := make([]*entity.WhatsAppGroup, 0, len(r.byGroupID))
	for _, g := range r.byGroupID {
		if onlyActive && !g.IsActive {
			continue
		}
		out = append(out, g)
	}
	return out, len(out), nil
}

func (r *fakeGroupRepo) Update(_ context.Context, group *entity.WhatsAppGroup) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byGroupID[group.GroupID] = group
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta el callback contra los mismos repos en memoria
// (sin transacción real). Con err seteado simula el fallo de la tx.
type fakeTxRunner struct {
	invoices *fakeInvoiceRepo
	groups   *fakeGroupRepo
	err      error
}

var _ ports.TxRunner = (*fakeTxRunner)(nil)

func (t *fakeTxRunner) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	if t.err != nil {
		return t.err
	}
	return fn(t.invoices)
}

func (t *fakeTxRunner) RunIntake(_ context.Context, fn func(repository.InvoiceRepository, repository.WhatsAppGroupRepository) error) error {
	if t.err != nil {
		return t.err
	}
	return fn(t.invoices, t.groups)
}

// ── FileStore ─────────────────────────────────────────────────────────────────

type fakeStore struct {
	files map[string][]byte // por fileURL confirmado

	commitErr error
	readErr   error

	staged    []string
	discarded []string
	removed   []string
}

var _ ports.FileStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (s *fakeStore) SaveStaging(filename string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	key := "staging/" + filename
	s.staged = append(s.staged, key)
	s.files[key] = data
	return key, int64(len(data)), nil
}

func (s *fakeStore) FinalURL(stagingKey string) string {
	return "uploads/" + strings.TrimPrefix(stagingKey, "staging/")
}

func (s *fakeStore) Commit(stagingKey string) (string, error) {
	if s.commitErr != nil {
		return "", s.commitErr
	}
	fileURL := s.FinalURL(stagingKey)
	s.files[fileURL] = s.files[stagingKey]
	delete(s.files, stagingKey)
	return fileURL, nil
}

func (s *fakeStore) Discard(stagingKey string) error {
	s.discarded = append(s.discarded, stagingKey)
	delete(s.files, stagingKey)
	return nil
}

func (s *fakeStore) Remove(fileURL string) error {
	s.removed = append(s.removed, fileURL)
	delete(s.files, fileURL)
	return nil
}

func (s *fakeStore) Read(fileURL string) (io.ReadCloser, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	data, ok := s.files[fileURL]
	if !ok {
		data = []byte("contenido-de-prueba")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ── WorkflowClient ────────────────────────────────────────────────────────────

type fakeWorkflow struct {
	result   *ports.TriggerResult
	err      error
	requests []ports.TriggerRequest
}

var _ ports.WorkflowClient = (*fakeWorkflow)(nil)

func (w *fakeWorkflow) Trigger(_ context.Context, req ports.TriggerRequest) (*ports.TriggerResult, error) {
	w.requests = append(w.requests, req)
	if w.err != nil {
		return nil, w.err
	}
	if w.result != nil {
		return w.result, nil
	}
	return &ports.TriggerResult{WorkflowID: "wf-test", ExecutionID: "exec-test"}, nil
}
