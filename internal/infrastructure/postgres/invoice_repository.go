package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/invoice-manager/internal/domain"
	"github.com/jhoicas/invoice-manager/internal/domain/entity"
	"github.com/jhoicas/invoice-manager/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Todas las consultas de cabecera filtran por user_id: el número de factura
// de otro usuario no se distingue de uno inexistente.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura. Devuelve
// domain.ErrInvoiceNumberConflict si (user_id, invoice_number) ya existe.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, creation_date, company_name, company_address, company_email, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.UserID, invoice.Number, invoice.CreationDate,
		invoice.CompanyName, invoice.CompanyAddress, invoice.CompanyEmail, invoice.TotalAmount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvoiceNumberConflict
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// UpdateHeader actualiza los campos de cabecera; el número y el dueño no cambian.
func (r *InvoiceRepo) UpdateHeader(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET creation_date = $2, company_name = $3, company_address = $4, company_email = $5, total_amount = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CreationDate,
		invoice.CompanyName, invoice.CompanyAddress, invoice.CompanyEmail, invoice.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByNumber obtiene la cabecera por (usuario, número); (nil, nil) si no existe.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, userID string, number int) (*entity.Invoice, error) {
	query := `
		SELECT id, user_id, invoice_number, creation_date, company_name, company_address, company_email, total_amount
		FROM invoices WHERE user_id = $1 AND invoice_number = $2`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, userID, number).Scan(
		&inv.ID, &inv.UserID, &inv.Number, &inv.CreationDate,
		&inv.CompanyName, &inv.CompanyAddress, &inv.CompanyEmail, &inv.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// ListByUser lista las cabeceras del usuario, fecha descendente. El orden
// lexicográfico sobre YYYY-MM-DD coincide con el cronológico.
func (r *InvoiceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Invoice, error) {
	query := `
		SELECT id, user_id, invoice_number, creation_date, company_name, company_address, company_email, total_amount
		FROM invoices WHERE user_id = $1 ORDER BY creation_date DESC, invoice_number DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.Number, &inv.CreationDate,
			&inv.CompanyName, &inv.CompanyAddress, &inv.CompanyEmail, &inv.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// DeleteByID elimina la factura; clientes y líneas caen por cascada del esquema.
func (r *InvoiceRepo) DeleteByID(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// CreateCustomer persiste un cliente de la factura.
func (r *InvoiceRepo) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, invoice_id, name, address, email)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.InvoiceID, customer.Name, customer.Address, customer.Email,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de detalle.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, customer_id, description, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CustomerID, item.Description, item.Quantity, item.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// ListCustomersByInvoiceID lista los clientes en orden de inserción.
func (r *InvoiceRepo) ListCustomersByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Customer, error) {
	query := `
		SELECT id, invoice_id, name, address, email
		FROM customers WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.InvoiceID, &c.Name, &c.Address, &c.Email); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ListItemsByCustomerID lista las líneas de un cliente en orden de inserción.
func (r *InvoiceRepo) ListItemsByCustomerID(ctx context.Context, customerID string) ([]*entity.Item, error) {
	query := `
		SELECT id, customer_id, description, quantity, unit_price
		FROM items WHERE customer_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.CustomerID, &it.Description, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListCustomerNamesByInvoiceID devuelve solo los nombres (vista categorizada).
func (r *InvoiceRepo) ListCustomerNamesByInvoiceID(ctx context.Context, invoiceID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT name FROM customers WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list customer names: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan customer name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteCustomersByInvoiceID elimina los clientes de la factura; las líneas
// caen por cascada. Es el paso de borrado del reemplazo total del agregado.
func (r *InvoiceRepo) DeleteCustomersByInvoiceID(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM customers WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete customers: %w", err)
	}
	return nil
}

// MaxNumber devuelve el número de factura más alto del usuario, 0 si no tiene.
func (r *InvoiceRepo) MaxNumber(ctx context.Context, userID string) (int, error) {
	var max int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(invoice_number), 0) FROM invoices WHERE user_id = $1`, userID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max invoice number: %w", err)
	}
	return max, nil
}
