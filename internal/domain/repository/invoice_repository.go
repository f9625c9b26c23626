package repository

import (
	"context"

	"github.com/jhoicas/invoice-manager/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia del agregado
// factura → clientes → líneas. Las operaciones trabajan con filas sueltas;
// la composición del agregado y la atomicidad (TxRunner) viven en la capa
// de aplicación.
//
// GetByNumber devuelve (nil, nil) cuando no existe la factura para ese
// usuario: el llamador decide si eso es ErrNotFound. Todo acceso está
// filtrado por userID; una factura de otro usuario simplemente no existe.
type InvoiceRepository interface {
	// Cabecera
	Create(ctx context.Context, invoice *entity.Invoice) error
	UpdateHeader(ctx context.Context, invoice *entity.Invoice) error
	GetByNumber(ctx context.Context, userID string, number int) (*entity.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Invoice, error)
	DeleteByID(ctx context.Context, invoiceID string) error

	// Hijos (clientes y líneas)
	CreateCustomer(ctx context.Context, customer *entity.Customer) error
	CreateItem(ctx context.Context, item *entity.Item) error
	ListCustomersByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Customer, error)
	ListItemsByCustomerID(ctx context.Context, customerID string) ([]*entity.Item, error)
	ListCustomerNamesByInvoiceID(ctx context.Context, invoiceID string) ([]string, error)
	// DeleteCustomersByInvoiceID elimina los clientes de la factura; las
	// líneas caen por el ON DELETE CASCADE del esquema.
	DeleteCustomersByInvoiceID(ctx context.Context, invoiceID string) error

	// MaxNumber devuelve el número de factura más alto del usuario, 0 si no
	// tiene ninguna. Insumo de la política de numeración.
	MaxNumber(ctx context.Context, userID string) (int, error)
}
