// Package ports define los contratos que la capa de aplicación espera
// de la infraestructura (motor de workflows, almacenamiento, PDF).
package ports

import "context"

// TriggerRequest datos enviados al motor de workflows para iniciar
// el procesamiento de una factura.
type TriggerRequest struct {
	InvoiceID   string
	Filename    string
	FileType    string
	Source      string
	FileData    []byte // contenido del archivo, se envía en base64
	CallbackURL string
}

// TriggerResult identificadores devueltos por el motor. Si el motor no
// los informa se usan valores de respaldo.
type TriggerResult struct {
	WorkflowID  string
	ExecutionID string
}

// CallError error de una llamada HTTP al motor de workflows, con el
// estado y cuerpo de la respuesta cuando los hubo.
type CallError struct {
	Status int
	Body   string
	Err    error
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Body
}

func (e *CallError) Unwrap() error { return e.Err }

// WorkflowClient dispara workflows de procesamiento de facturas.
type WorkflowClient interface {
	Trigger(ctx context.Context, req TriggerRequest) (*TriggerResult, error)
}
