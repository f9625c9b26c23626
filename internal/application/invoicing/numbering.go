package invoicing

import (
	"context"

	"github.com/jhoicas/invoice-manager/internal/domain/repository"
)

// numberBaseline hace que la primera factura de un usuario sea la 1000.
const numberBaseline = 999

// NextNumber calcula el siguiente número de factura del usuario: max+1, o
// baseline+1 si no tiene ninguna. Es solo un "probable siguiente": dos
// creaciones concurrentes pueden calcular el mismo valor y la que pierda
// recibirá ErrInvoiceNumberConflict del constraint único en el Store, nunca
// una sobreescritura silenciosa.
func NextNumber(ctx context.Context, repo repository.InvoiceRepository, userID string) (int, error) {
	max, err := repo.MaxNumber(ctx, userID)
	if err != nil {
		return 0, err
	}
	if max == 0 {
		max = numberBaseline
	}
	return max + 1, nil
}
