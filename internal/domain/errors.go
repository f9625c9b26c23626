package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrUserAlreadyExists     = errors.New("el usuario o el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrInvoiceNumberConflict = errors.New("el número de factura ya existe para este usuario")
	ErrUnauthorized          = errors.New("no autorizado")
)
