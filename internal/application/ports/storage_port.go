package ports

import "io"

// FileStore almacenamiento de archivos de facturas.
//
// El flujo de carga es en dos fases: SaveStaging escribe el archivo en
// un área temporal y Commit lo mueve (rename atómico) a su ubicación
// definitiva una vez confirmada la fila en base de datos. Discard
// limpia el staging si la transacción falla.
type FileStore interface {
	// SaveStaging escribe el contenido y devuelve la clave de staging.
	SaveStaging(filename string, r io.Reader) (stagingKey string, size int64, err error)
	// FinalURL devuelve la ruta que tendrá el archivo tras Commit; la
	// fila de la factura se inserta con esta ruta antes del rename.
	FinalURL(stagingKey string) string
	// Commit mueve el archivo de staging a su ruta final y devuelve la
	// ruta pública (fileUrl).
	Commit(stagingKey string) (fileURL string, err error)
	// Discard elimina un archivo de staging.
	Discard(stagingKey string) error
	// Remove elimina un archivo ya confirmado a partir de su fileUrl.
	Remove(fileURL string) error
	// Read abre un archivo confirmado para lectura.
	Read(fileURL string) (io.ReadCloser, error)
}
