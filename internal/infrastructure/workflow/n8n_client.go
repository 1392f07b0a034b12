// Package workflow implementa el cliente HTTP del motor de workflows
// (n8n) que procesa las facturas.
package workflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/factura-intake/internal/application/ports"
	"github.com/jhoicas/factura-intake/pkg/logger"
)

// Identificadores de respaldo cuando el motor no informa los propios.
const fallbackWorkflowID = "invoice-processing"

// N8NClient dispara el webhook de n8n con el archivo en base64.
type N8NClient struct {
	webhookURL string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

var _ ports.WorkflowClient = (*N8NClient)(nil)

func NewN8NClient(webhookURL, apiKey string, timeout time.Duration, log *logger.Logger) *N8NClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &N8NClient{
		webhookURL: webhookURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("n8n"),
	}
}

type triggerPayload struct {
	InvoiceID   string `json:"invoiceId"`
	Filename    string `json:"filename"`
	FileType    string `json:"fileType"`
	Source      string `json:"source"`
	FileData    string `json:"fileData"` // base64
	CallbackURL string `json:"callbackUrl"`
}

type triggerReply struct {
	WorkflowID  string `json:"workflowId"`
	ExecutionID string `json:"executionId"`
}

func (c *N8NClient) Trigger(ctx context.Context, req ports.TriggerRequest) (*ports.TriggerResult, error) {
	payload := triggerPayload{
		InvoiceID:   req.InvoiceID,
		Filename:    req.Filename,
		FileType:    req.FileType,
		Source:      req.Source,
		FileData:    base64.StdEncoding.EncodeToString(req.FileData),
		CallbackURL: req.CallbackURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializando payload del workflow: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creando request al workflow: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.log.Debug().
		Str("invoiceId", req.InvoiceID).
		Str("filename", req.Filename).
		Msg("disparando workflow")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ports.CallError{Err: fmt.Errorf("llamando al workflow: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.CallError{Status: resp.StatusCode, Err: fmt.Errorf("leyendo respuesta del workflow: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("invoiceId", req.InvoiceID).
			Msg("el workflow respondió con error")
		return nil, &ports.CallError{
			Status: resp.StatusCode,
			Body:   string(respBody),
			Err:    fmt.Errorf("el workflow respondió %d", resp.StatusCode),
		}
	}

	// n8n puede responder con cuerpo vacío o sin ids; se usan respaldos.
	var reply triggerReply
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &reply); err != nil {
			c.log.Warn().Str("invoiceId", req.InvoiceID).Msg("respuesta del workflow no es JSON, usando ids de respaldo")
		}
	}
	if reply.WorkflowID == "" {
		reply.WorkflowID = fallbackWorkflowID
	}
	if reply.ExecutionID == "" {
		reply.ExecutionID = fmt.Sprintf("exec_%d", time.Now().UnixMilli())
	}

	return &ports.TriggerResult{
		WorkflowID:  reply.WorkflowID,
		ExecutionID: reply.ExecutionID,
	}, nil
}
