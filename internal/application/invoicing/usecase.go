package invoicing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/invoice-manager/internal/application/dto"
	"github.com/jhoicas/invoice-manager/internal/domain"
	"github.com/jhoicas/invoice-manager/internal/domain/entity"
	"github.com/jhoicas/invoice-manager/internal/domain/repository"
)

// InvoiceUseCase casos de uso del agregado de facturación. Las lecturas van
// directo al repositorio sobre el pool; toda escritura (crear, reemplazar,
// eliminar) corre completa dentro de una transacción del TxRunner: o se
// persiste el agregado entero o no se persiste nada.
type InvoiceUseCase struct {
	repo     repository.InvoiceRepository
	txRunner TxRunner
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository, txRunner TxRunner) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, txRunner: txRunner}
}

// List devuelve todas las facturas del usuario con clientes y líneas
// anidados, fecha de creación descendente. Sin facturas devuelve lista
// vacía, nunca error.
func (uc *InvoiceUseCase) List(ctx context.Context, userID string) ([]dto.InvoiceResponse, error) {
	invoices, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		if err := loadAggregate(ctx, uc.repo, inv); err != nil {
			return nil, err
		}
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// Create persiste el agregado completo y devuelve el número asignado. Si la
// petición no trae número, la política de numeración calcula el siguiente
// dentro de la misma transacción. Devuelve domain.ErrInvoiceNumberConflict
// si (usuario, número) ya existe y domain.ErrInvalidInput si la cabecera
// viene vacía.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.InvoiceRequest) (int, error) {
	if emptyHeader(in) {
		return 0, domain.ErrInvalidInput
	}
	number := in.InvoiceNumber
	err := uc.txRunner.Run(ctx, func(repo repository.InvoiceRepository) error {
		if number == 0 {
			next, err := NextNumber(ctx, repo, userID)
			if err != nil {
				return err
			}
			number = next
		}
		inv := &entity.Invoice{
			ID:             uuid.New().String(),
			UserID:         userID,
			Number:         number,
			CreationDate:   in.CreationDate,
			CompanyName:    in.CompanyName,
			CompanyAddress: in.CompanyAddress,
			CompanyEmail:   in.CompanyEmail,
			TotalAmount:    in.TotalAmount.Decimal(),
		}
		if err := repo.Create(ctx, inv); err != nil {
			return err
		}
		return insertChildren(ctx, repo, inv.ID, in.Customers)
	})
	if err != nil {
		return 0, err
	}
	return number, nil
}

// Replace reemplaza el agregado completo: actualiza la cabecera, borra
// todos los clientes y líneas previos e inserta el juego nuevo. Nunca hace
// diffing parcial. Devuelve domain.ErrNotFound si el usuario no tiene una
// factura con ese número.
func (uc *InvoiceUseCase) Replace(ctx context.Context, userID string, number int, in dto.InvoiceRequest) error {
	return uc.txRunner.Run(ctx, func(repo repository.InvoiceRepository) error {
		inv, err := repo.GetByNumber(ctx, userID, number)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		inv.CreationDate = in.CreationDate
		inv.CompanyName = in.CompanyName
		inv.CompanyAddress = in.CompanyAddress
		inv.CompanyEmail = in.CompanyEmail
		inv.TotalAmount = in.TotalAmount.Decimal()
		if err := repo.UpdateHeader(ctx, inv); err != nil {
			return err
		}
		if err := repo.DeleteCustomersByInvoiceID(ctx, inv.ID); err != nil {
			return err
		}
		return insertChildren(ctx, repo, inv.ID, in.Customers)
	})
}

// Delete elimina la factura; clientes y líneas caen por cascada del
// esquema. Devuelve domain.ErrNotFound si no existe para ese usuario.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID string, number int) error {
	return uc.txRunner.Run(ctx, func(repo repository.InvoiceRepository) error {
		inv, err := repo.GetByNumber(ctx, userID, number)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		return repo.DeleteByID(ctx, inv.ID)
	})
}

// Get devuelve el agregado completo por número; domain.ErrNotFound si no
// existe para ese usuario.
func (uc *InvoiceUseCase) Get(ctx context.Context, userID string, number int) (*dto.InvoiceResponse, error) {
	inv, err := uc.fetchAggregate(ctx, userID, number)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv)
	return &resp, nil
}

// LastNumber devuelve el número más alto usado por el usuario, o la línea
// base 999 si no tiene facturas (el "reset" no borra nada, solo informa).
func (uc *InvoiceUseCase) LastNumber(ctx context.Context, userID string) (int, error) {
	max, err := uc.repo.MaxNumber(ctx, userID)
	if err != nil {
		return 0, err
	}
	if max == 0 {
		max = numberBaseline
	}
	return max, nil
}

// fetchAggregate carga cabecera + hijos por (usuario, número).
func (uc *InvoiceUseCase) fetchAggregate(ctx context.Context, userID string, number int) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByNumber(ctx, userID, number)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if err := loadAggregate(ctx, uc.repo, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ── helpers de composición ────────────────────────────────────────────────────

// emptyHeader detecta una petición sin cabecera (todos los campos vacíos).
func emptyHeader(in dto.InvoiceRequest) bool {
	return in.InvoiceNumber == 0 &&
		in.CreationDate == "" &&
		in.CompanyName == "" &&
		in.CompanyAddress == "" &&
		in.CompanyEmail == "" &&
		len(in.Customers) == 0
}

// insertChildren inserta clientes y líneas del agregado, aplicando la
// política parse-o-default de cantidades y precios en la frontera dto.
func insertChildren(ctx context.Context, repo repository.InvoiceRepository, invoiceID string, customers []dto.CustomerRequest) error {
	for _, c := range customers {
		cust := &entity.Customer{
			ID:        uuid.New().String(),
			InvoiceID: invoiceID,
			Name:      c.Name,
			Address:   c.Address,
			Email:     c.Email,
		}
		if err := repo.CreateCustomer(ctx, cust); err != nil {
			return err
		}
		for _, it := range c.Items {
			item := &entity.Item{
				ID:          uuid.New().String(),
				CustomerID:  cust.ID,
				Description: it.Description,
				Quantity:    it.Quantity.Value(),
				UnitPrice:   it.UnitPrice.NonNegative(),
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadAggregate completa la cabecera con sus clientes y líneas.
func loadAggregate(ctx context.Context, repo repository.InvoiceRepository, inv *entity.Invoice) error {
	customers, err := repo.ListCustomersByInvoiceID(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	inv.Customers = make([]entity.Customer, 0, len(customers))
	for _, c := range customers {
		items, err := repo.ListItemsByCustomerID(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		c.Items = make([]entity.Item, 0, len(items))
		for _, it := range items {
			c.Items = append(c.Items, *it)
		}
		inv.Customers = append(inv.Customers, *c)
	}
	return nil
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	customers := make([]dto.CustomerResponse, 0, len(inv.Customers))
	for _, c := range inv.Customers {
		items := make([]dto.ItemResponse, 0, len(c.Items))
		for _, it := range c.Items {
			items = append(items, dto.ItemResponse{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}
		customers = append(customers, dto.CustomerResponse{
			Name:    c.Name,
			Address: c.Address,
			Email:   c.Email,
			Items:   items,
		})
	}
	return dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.Number,
		CreationDate:   inv.CreationDate,
		CompanyName:    inv.CompanyName,
		CompanyAddress: inv.CompanyAddress,
		CompanyEmail:   inv.CompanyEmail,
		TotalAmount:    inv.TotalAmount,
		Customers:      customers,
	}
}
