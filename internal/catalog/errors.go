package catalog

import "errors"

var (
	ErrMissingFields = errors.New("todos los campos son obligatorios")
	ErrDuplicateCode = errors.New("código de producto repetido")
	ErrNotFound      = errors.New("producto no encontrado")

	// ErrPersist wraps a failed write of the backing file. The mutation that
	// triggered it has not been applied.
	ErrPersist = errors.New("persist products")
	ErrLoad    = errors.New("load products")
)

// notFoundMessage is the fixed 404 body text of the HTTP facade.
const notFoundMessage = "Producto no encontrado."
