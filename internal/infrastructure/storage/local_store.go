// Package storage implementa el almacenamiento de archivos de facturas
// en disco local.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/factura-intake/internal/application/ports"
)

// LocalStore guarda archivos bajo un directorio base, con un área de
// staging separada. La carga escribe primero en staging y recién al
// confirmar la fila en base de datos se mueve el archivo a su ruta
// final con un rename atómico (mismo filesystem).
type LocalStore struct {
	baseDir    string
	stagingDir string
}

var _ ports.FileStore = (*LocalStore)(nil)

func NewLocalStore(baseDir, stagingDir string) (*LocalStore, error) {
	for _, dir := range []string{baseDir, stagingDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creando directorio %s: %w", dir, err)
		}
	}
	return &LocalStore{baseDir: baseDir, stagingDir: stagingDir}, nil
}

func (s *LocalStore) SaveStaging(filename string, r io.Reader) (string, int64, error) {
	key := uuid.NewString() + sanitizeExt(filename)
	path := filepath.Join(s.stagingDir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creando archivo de staging: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("escribiendo archivo de staging: %w", err)
	}
	return key, size, nil
}

func (s *LocalStore) FinalURL(stagingKey string) string {
	return filepath.Join(s.baseDir, stagingKey)
}

func (s *LocalStore) Commit(stagingKey string) (string, error) {
	src := filepath.Join(s.stagingDir, stagingKey)
	dst := filepath.Join(s.baseDir, stagingKey)

	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("moviendo archivo a destino final: %w", err)
	}
	return dst, nil
}

func (s *LocalStore) Discard(stagingKey string) error {
	path := filepath.Join(s.stagingDir, stagingKey)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("descartando archivo de staging: %w", err)
	}
	return nil
}

func (s *LocalStore) Remove(fileURL string) error {
	if fileURL == "" {
		return nil
	}
	if err := os.Remove(fileURL); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("eliminando archivo: %w", err)
	}
	return nil
}

func (s *LocalStore) Read(fileURL string) (io.ReadCloser, error) {
	f, err := os.Open(fileURL)
	if err != nil {
		return nil, fmt.Errorf("abriendo archivo: %w", err)
	}
	return f, nil
}

// sanitizeExt conserva solo la extensión del nombre original; el
// resto del nombre en disco es un uuid.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
