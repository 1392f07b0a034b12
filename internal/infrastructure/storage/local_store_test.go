package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	base := t.TempDir()
	store, err := NewLocalStore(filepath.Join(base, "final"), filepath.Join(base, "staging"))
	require.NoError(t, err)
	return store
}

func TestSaveStagingYCommit(t *testing.T) {
	store := newTestStore(t)

	key, size, err := store.SaveStaging("factura.pdf", strings.NewReader("contenido pdf"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("contenido pdf")), size)
	assert.True(t, strings.HasSuffix(key, ".pdf"), "la clave debe conservar la extensión")

	fileURL, err := store.Commit(key)
	require.NoError(t, err)

	data, err := os.ReadFile(fileURL)
	require.NoError(t, err)
	assert.Equal(t, "contenido pdf", string(data))

	// el staging debe quedar vacío tras el commit
	_, err = os.Stat(filepath.Join(store.stagingDir, key))
	assert.True(t, os.IsNotExist(err))
}

func TestDiscardEliminaStaging(t *testing.T) {
	store := newTestStore(t)

	key, _, err := store.SaveStaging("factura.png", strings.NewReader("img"))
	require.NoError(t, err)

	require.NoError(t, store.Discard(key))

	_, err = store.Commit(key)
	assert.Error(t, err, "no se puede confirmar un archivo descartado")
}

func TestDiscardIdempotente(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Discard("no-existe.pdf"))
}

func TestRemoveArchivoConfirmado(t *testing.T) {
	store := newTestStore(t)

	key, _, err := store.SaveStaging("factura.jpg", strings.NewReader("foto"))
	require.NoError(t, err)
	fileURL, err := store.Commit(key)
	require.NoError(t, err)

	require.NoError(t, store.Remove(fileURL))
	_, err = os.Stat(fileURL)
	assert.True(t, os.IsNotExist(err))

	// remove de ruta inexistente no es error
	assert.NoError(t, store.Remove(fileURL))
	assert.NoError(t, store.Remove(""))
}

func TestSanitizeExtRechazaExtensionesRaras(t *testing.T) {
	assert.Equal(t, ".pdf", sanitizeExt("Factura Final.PDF"))
	assert.Equal(t, ".jpeg", sanitizeExt("foto.jpeg"))
	assert.Equal(t, "", sanitizeExt("sin-extension"))
	assert.Equal(t, "", sanitizeExt("raro..p/df"))
}
