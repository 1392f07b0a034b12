package postgres

import (
	"encoding/json"
	"fmt"
)

// Helpers para columnas JSONB: los mapas y listas del dominio se
// serializan explícitamente en el borde del repositorio. nil se
// persiste como NULL.

func encodeJSONMap(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serializando JSONB: %w", err)
	}
	return b, nil
}

func decodeJSONMap(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("deserializando JSONB: %w", err)
	}
	return m, nil
}

func encodeJSONStrings(s []string) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serializando JSONB: %w", err)
	}
	return b, nil
}

func decodeJSONStrings(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var s []string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("deserializando JSONB: %w", err)
	}
	return s, nil
}

// nullIfEmpty convierte "" en NULL (columnas con FK opcional).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
