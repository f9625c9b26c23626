package invoicing

import (
	"context"
	"time"

	"github.com/jhoicas/invoice-manager/internal/application/dto"
)

// Períodos aceptados por la vista categorizada. Cualquier otro valor cae en
// el default mensual.
const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Categorize agrupa las facturas del usuario en cubetas por período,
// derivadas de creation_date. Los clientes van reducidos a nombre y sin
// líneas. El orden de inserción en cada cubeta sigue el orden de iteración
// del Store (fecha descendente).
func (uc *InvoiceUseCase) Categorize(ctx context.Context, userID, period string) (map[string][]dto.CategorizedInvoice, error) {
	invoices, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	categorized := make(map[string][]dto.CategorizedInvoice)
	for _, inv := range invoices {
		names, err := uc.repo.ListCustomerNamesByInvoiceID(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		customers := make([]dto.CustomerName, 0, len(names))
		for _, name := range names {
			customers = append(customers, dto.CustomerName{Name: name})
		}
		key := bucketKey(inv.CreationDate, period)
		categorized[key] = append(categorized[key], dto.CategorizedInvoice{
			ID:             inv.ID,
			InvoiceNumber:  inv.Number,
			CreationDate:   inv.CreationDate,
			CompanyName:    inv.CompanyName,
			CompanyAddress: inv.CompanyAddress,
			CompanyEmail:   inv.CompanyEmail,
			TotalAmount:    inv.TotalAmount,
			Customers:      customers,
		})
	}
	return categorized, nil
}

// bucketKey deriva la cubeta de una fecha YYYY-MM-DD. Una fecha que no
// parsea no es error: la cubeta es el texto crudo tal como se guardó
// (degradación controlada para datos viejos malformados).
func bucketKey(creationDate, period string) string {
	d, err := time.Parse("2006-01-02", creationDate)
	if err != nil {
		return creationDate
	}
	switch period {
	case PeriodDay:
		return d.Format("2006-01-02")
	case PeriodYear:
		return d.Format("2006")
	default:
		return d.Format("2006-01")
	}
}
