package invoicing

import (
	"context"

	"github.com/jhoicas/invoice-manager/internal/domain/entity"
	"github.com/jhoicas/invoice-manager/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con un repositorio
// atado a ella. Toda escritura que toque más de una tabla pasa por aquí.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator puerto del renderizador: agregado completo adentro,
// bytes de un PDF válido afuera. La implementación debe ser pura (sin
// efectos, sin mutar el agregado) y determinista.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
