package invoicing_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-manager/internal/application/dto"
	"github.com/jhoicas/invoice-manager/internal/application/invoicing"
	"github.com/jhoicas/invoice-manager/internal/domain"
	"github.com/jhoicas/invoice-manager/internal/domain/entity"
	"github.com/jhoicas/invoice-manager/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio y del TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// fakeInvoiceRepo implementa repository.InvoiceRepository sobre slices,
// preservando el orden de inserción de hijos (como el ORDER BY position del
// esquema real) y la unicidad de (user_id, invoice_number).
type fakeInvoiceRepo struct {
	invoices  []*entity.Invoice
	customers []*entity.Customer
	items     []*entity.Item

	// failOnItemInsert hace fallar la N-ésima inserción de línea (1-based)
	// para simular un error a mitad de transacción. 0 desactiva.
	failOnItemInsert int
	itemInserts      int
}

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

var errInjected = errors.New("fallo inyectado")

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	for _, existing := range r.invoices {
		if existing.UserID == inv.UserID && existing.Number == inv.Number {
			return domain.ErrInvoiceNumberConflict
		}
	}
	cp := *inv
	r.invoices = append(r.invoices, &cp)
	return nil
}

func (r *fakeInvoiceRepo) UpdateHeader(_ context.Context, inv *entity.Invoice) error {
	for _, existing := range r.invoices {
		if existing.ID == inv.ID {
			cp := *inv
			cp.Customers = nil
			*existing = cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeInvoiceRepo) GetByNumber(_ context.Context, userID string, number int) (*entity.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.UserID == userID && inv.Number == number {
			cp := *inv
			cp.Customers = nil
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ListByUser(_ context.Context, userID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			cp := *inv
			cp.Customers = nil
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreationDate != out[j].CreationDate {
			return out[i].CreationDate > out[j].CreationDate
		}
		return out[i].Number > out[j].Number
	})
	return out, nil
}

func (r *fakeInvoiceRepo) DeleteByID(_ context.Context, invoiceID string) error {
	kept := r.invoices[:0]
	for _, inv := range r.invoices {
		if inv.ID != invoiceID {
			kept = append(kept, inv)
		}
	}
	r.invoices = kept
	return r.DeleteCustomersByInvoiceID(context.Background(), invoiceID)
}

func (r *fakeInvoiceRepo) CreateCustomer(_ context.Context, c *entity.Customer) error {
	cp := *c
	cp.Items = nil
	r.customers = append(r.customers, &cp)
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(_ context.Context, it *entity.Item) error {
	r.itemInserts++
	if r.failOnItemInsert > 0 && r.itemInserts == r.failOnItemInsert {
		return errInjected
	}
	cp := *it
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeInvoiceRepo) ListCustomersByInvoiceID(_ context.Context, invoiceID string) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		if c.InvoiceID == invoiceID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListItemsByCustomerID(_ context.Context, customerID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		if it.CustomerID == customerID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListCustomerNamesByInvoiceID(_ context.Context, invoiceID string) ([]string, error) {
	var out []string
	for _, c := range r.customers {
		if c.InvoiceID == invoiceID {
			out = append(out, c.Name)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) DeleteCustomersByInvoiceID(_ context.Context, invoiceID string) error {
	removed := make(map[string]bool)
	keptCustomers := r.customers[:0]
	for _, c := range r.customers {
		if c.InvoiceID == invoiceID {
			removed[c.ID] = true
			continue
		}
		keptCustomers = append(keptCustomers, c)
	}
	r.customers = keptCustomers

	keptItems := r.items[:0]
	for _, it := range r.items {
		if !removed[it.CustomerID] {
			keptItems = append(keptItems, it)
		}
	}
	r.items = keptItems
	return nil
}

func (r *fakeInvoiceRepo) MaxNumber(_ context.Context, userID string) (int, error) {
	max := 0
	for _, inv := range r.invoices {
		if inv.UserID == userID && inv.Number > max {
			max = inv.Number
		}
	}
	return max, nil
}

// snapshot/restore para simular el rollback transaccional.
func (r *fakeInvoiceRepo) snapshot() ([]*entity.Invoice, []*entity.Customer, []*entity.Item) {
	invs := make([]*entity.Invoice, len(r.invoices))
	for i, v := range r.invoices {
		cp := *v
		invs[i] = &cp
	}
	custs := make([]*entity.Customer, len(r.customers))
	for i, v := range r.customers {
		cp := *v
		custs[i] = &cp
	}
	its := make([]*entity.Item, len(r.items))
	for i, v := range r.items {
		cp := *v
		its[i] = &cp
	}
	return invs, custs, its
}

// fakeTxRunner ejecuta el callback contra el mismo repo y restaura el estado
// previo si el callback falla, igual que el rollback de una transacción real.
type fakeTxRunner struct {
	repo *fakeInvoiceRepo
}

func (tr *fakeTxRunner) Run(ctx context.Context, fn func(repo repository.InvoiceRepository) error) error {
	invs, custs, its := tr.repo.snapshot()
	if err := fn(tr.repo); err != nil {
		tr.repo.invoices, tr.repo.customers, tr.repo.items = invs, custs, its
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	userA = "00000000-0000-0000-0000-00000000000a"
	userB = "00000000-0000-0000-0000-00000000000b"
)

func newUseCase() (*invoicing.InvoiceUseCase, *fakeInvoiceRepo) {
	repo := &fakeInvoiceRepo{}
	return invoicing.NewInvoiceUseCase(repo, &fakeTxRunner{repo: repo}), repo
}

// sampleRequest arma un agregado de dos clientes con líneas.
func sampleRequest(date string) dto.InvoiceRequest {
	return dto.InvoiceRequest{
		CreationDate:   date,
		CompanyName:    "ACME Corp",
		CompanyAddress: "Calle 123",
		CompanyEmail:   "billing@acme.test",
		TotalAmount:    dto.NewLooseDecimal(decimal.RequireFromString("350.00")),
		Customers: []dto.CustomerRequest{
			{
				Name:    "Cliente Uno",
				Address: "Av. Siempre Viva 1",
				Email:   "uno@cliente.test",
				Items: []dto.ItemRequest{
					{Description: "Servicio A", Quantity: dto.NewLooseQuantity(2), UnitPrice: dto.NewLooseDecimal(decimal.RequireFromString("100.00"))},
					{Description: "Servicio B", Quantity: dto.NewLooseQuantity(1), UnitPrice: dto.NewLooseDecimal(decimal.RequireFromString("50.00"))},
				},
			},
			{
				Name: "Cliente Dos",
				Items: []dto.ItemRequest{
					{Description: "Servicio C", Quantity: dto.NewLooseQuantity(1), UnitPrice: dto.NewLooseDecimal(decimal.RequireFromString("100.00"))},
				},
			},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

// La primera factura de un usuario sin historial recibe el número 1000.
func TestCreate_PrimeraFacturaRecibe1000(t *testing.T) {
	uc, _ := newUseCase()

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, 1000, number)
}

// Con historial, el número asignado es max+1 aunque existan huecos.
func TestCreate_NumeracionSigueAlMaximo(t *testing.T) {
	uc, _ := newUseCase()

	in := sampleRequest("2024-01-10")
	in.InvoiceNumber = 2500
	_, err := uc.Create(context.Background(), userA, in)
	require.NoError(t, err)

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-11"))
	require.NoError(t, err)
	assert.Equal(t, 2501, number, "el siguiente número debe ser max+1, no el primer hueco")
}

// La numeración es por usuario: el historial de uno no afecta al otro.
func TestCreate_NumeracionPorUsuario(t *testing.T) {
	uc, _ := newUseCase()

	nA, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)
	nB, err := uc.Create(context.Background(), userB, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	assert.Equal(t, 1000, nA)
	assert.Equal(t, 1000, nB, "cada usuario arranca desde la misma línea base")
}

// Un número explícito ya tomado por el mismo usuario es conflicto.
func TestCreate_NumeroDuplicadoEsConflicto(t *testing.T) {
	uc, _ := newUseCase()

	in := sampleRequest("2024-01-10")
	in.InvoiceNumber = 1000
	_, err := uc.Create(context.Background(), userA, in)
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), userA, in)
	assert.ErrorIs(t, err, domain.ErrInvoiceNumberConflict)
}

// El mismo número en usuarios distintos no colisiona.
func TestCreate_MismoNumeroOtroUsuarioNoColisiona(t *testing.T) {
	uc, _ := newUseCase()

	in := sampleRequest("2024-01-10")
	in.InvoiceNumber = 1000
	_, err := uc.Create(context.Background(), userA, in)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), userB, in)
	assert.NoError(t, err)
}

// LastNumber informa el máximo usado, o la línea base 999 sin historial.
func TestLastNumber(t *testing.T) {
	uc, _ := newUseCase()

	last, err := uc.LastNumber(context.Background(), userA)
	require.NoError(t, err)
	assert.Equal(t, 999, last, "sin facturas debe informar la línea base")

	_, err = uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	last, err = uc.LastNumber(context.Background(), userA)
	require.NoError(t, err)
	assert.Equal(t, 1000, last)
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregado: round-trip, aislamiento, atomicidad
// ──────────────────────────────────────────────────────────────────────────────

// Crear y leer devuelve el agregado completo con el orden de inserción.
func TestCreateGet_RoundTrip(t *testing.T) {
	uc, _ := newUseCase()

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	inv, err := uc.Get(context.Background(), userA, number)
	require.NoError(t, err)

	assert.Equal(t, "ACME Corp", inv.CompanyName)
	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("350.00")))
	require.Len(t, inv.Customers, 2)
	assert.Equal(t, "Cliente Uno", inv.Customers[0].Name, "los clientes conservan el orden de inserción")
	assert.Equal(t, "Cliente Dos", inv.Customers[1].Name)
	require.Len(t, inv.Customers[0].Items, 2)
	assert.Equal(t, "Servicio A", inv.Customers[0].Items[0].Description)
	assert.Equal(t, 2, inv.Customers[0].Items[0].Quantity)
}

// Una cabecera completamente vacía se rechaza antes de tocar el repositorio.
func TestCreate_CabeceraVaciaEsInvalida(t *testing.T) {
	uc, repo := newUseCase()

	_, err := uc.Create(context.Background(), userA, dto.InvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.invoices)
}

// Un fallo a mitad de la inserción de líneas revierte el agregado completo:
// no quedan ni la cabecera ni los hijos ya insertados.
func TestCreate_FalloParcialNoDejarRastros(t *testing.T) {
	uc, repo := newUseCase()
	repo.failOnItemInsert = 2

	_, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.ErrorIs(t, err, errInjected)

	assert.Empty(t, repo.invoices, "la cabecera debe revertirse")
	assert.Empty(t, repo.customers, "los clientes insertados deben revertirse")
	assert.Empty(t, repo.items, "las líneas insertadas deben revertirse")
}

// Las facturas de un usuario son invisibles para otro.
func TestGet_AisladoPorUsuario(t *testing.T) {
	uc, _ := newUseCase()

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), userB, number)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la factura ajena se reporta como inexistente")
}

// List devuelve los agregados ordenados por fecha descendente.
func TestList_OrdenDescendente(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), userA, sampleRequest("2024-03-05"))
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), userA, sampleRequest("2024-02-20"))
	require.NoError(t, err)

	out, err := uc.List(context.Background(), userA)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "2024-03-05", out[0].CreationDate)
	assert.Equal(t, "2024-02-20", out[1].CreationDate)
	assert.Equal(t, "2024-01-10", out[2].CreationDate)
}

func TestList_SinFacturasDevuelveVacio(t *testing.T) {
	uc, _ := newUseCase()

	out, err := uc.List(context.Background(), userA)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Replace y Delete
// ──────────────────────────────────────────────────────────────────────────────

// Replace sustituye el juego completo de hijos, nunca hace merge.
func TestReplace_SustituyeHijosCompletos(t *testing.T) {
	uc, repo := newUseCase()

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	updated := dto.InvoiceRequest{
		CreationDate: "2024-01-15",
		CompanyName:  "ACME Renombrada",
		TotalAmount:  dto.NewLooseDecimal(decimal.RequireFromString("80.00")),
		Customers: []dto.CustomerRequest{
			{
				Name: "Cliente Nuevo",
				Items: []dto.ItemRequest{
					{Description: "Servicio Z", Quantity: dto.NewLooseQuantity(4), UnitPrice: dto.NewLooseDecimal(decimal.RequireFromString("20.00"))},
				},
			},
		},
	}
	require.NoError(t, uc.Replace(context.Background(), userA, number, updated))

	inv, err := uc.Get(context.Background(), userA, number)
	require.NoError(t, err)
	assert.Equal(t, "ACME Renombrada", inv.CompanyName)
	assert.Equal(t, "2024-01-15", inv.CreationDate)
	require.Len(t, inv.Customers, 1, "los clientes previos deben desaparecer")
	assert.Equal(t, "Cliente Nuevo", inv.Customers[0].Name)

	// Sin hijos huérfanos en el almacén
	assert.Len(t, repo.customers, 1)
	assert.Len(t, repo.items, 1)
}

func TestReplace_NoExisteRetornaNotFound(t *testing.T) {
	uc, _ := newUseCase()

	err := uc.Replace(context.Background(), userA, 1000, sampleRequest("2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un fallo a mitad del reemplazo conserva el agregado original intacto.
func TestReplace_FalloParcialConservaOriginal(t *testing.T) {
	uc, repo := newUseCase()

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	repo.failOnItemInsert = repo.itemInserts + 1
	err = uc.Replace(context.Background(), userA, number, sampleRequest("2024-06-01"))
	require.ErrorIs(t, err, errInjected)

	inv, err := uc.Get(context.Background(), userA, number)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", inv.CreationDate, "la cabecera original debe sobrevivir al rollback")
	assert.Len(t, inv.Customers, 2, "los hijos originales deben sobrevivir al rollback")
}

// Delete elimina cabecera, clientes y líneas de una sola vez.
func TestDelete_EliminaAgregadoCompleto(t *testing.T) {
	uc, repo := newUseCase()

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), userA, number))

	assert.Empty(t, repo.invoices)
	assert.Empty(t, repo.customers, "los clientes deben caer en cascada")
	assert.Empty(t, repo.items, "las líneas deben caer en cascada")

	_, err = uc.Get(context.Background(), userA, number)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_AisladoPorUsuario(t *testing.T) {
	uc, _ := newUseCase()

	number, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	err = uc.Delete(context.Background(), userB, number)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Get(context.Background(), userA, number)
	assert.NoError(t, err, "la factura del dueño debe seguir existiendo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorización por período
// ──────────────────────────────────────────────────────────────────────────────

func TestCategorize_CubetasMensuales(t *testing.T) {
	uc, _ := newUseCase()

	for _, date := range []string{"2024-01-10", "2024-01-25", "2024-02-05"} {
		_, err := uc.Create(context.Background(), userA, sampleRequest(date))
		require.NoError(t, err)
	}

	buckets, err := uc.Categorize(context.Background(), userA, invoicing.PeriodMonth)
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Len(t, buckets["2024-01"], 2)
	assert.Len(t, buckets["2024-02"], 1)

	// Los clientes van reducidos a nombre, sin líneas
	first := buckets["2024-02"][0]
	require.Len(t, first.Customers, 2)
	assert.Equal(t, "Cliente Uno", first.Customers[0].Name)
}

func TestCategorize_CubetasDiariasYAnuales(t *testing.T) {
	uc, _ := newUseCase()

	for _, date := range []string{"2024-01-10", "2024-01-10", "2025-03-01"} {
		_, err := uc.Create(context.Background(), userA, sampleRequest(date))
		require.NoError(t, err)
	}

	byDay, err := uc.Categorize(context.Background(), userA, invoicing.PeriodDay)
	require.NoError(t, err)
	assert.Len(t, byDay["2024-01-10"], 2)
	assert.Len(t, byDay["2025-03-01"], 1)

	byYear, err := uc.Categorize(context.Background(), userA, invoicing.PeriodYear)
	require.NoError(t, err)
	assert.Len(t, byYear["2024"], 2)
	assert.Len(t, byYear["2025"], 1)
}

// Un período desconocido cae en el default mensual.
func TestCategorize_PeriodoDesconocidoEsMensual(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Create(context.Background(), userA, sampleRequest("2024-01-10"))
	require.NoError(t, err)

	buckets, err := uc.Categorize(context.Background(), userA, "quincena")
	require.NoError(t, err)
	assert.Contains(t, buckets, "2024-01")
}

// Una fecha que no parsea agrupa bajo su texto crudo, sin error.
func TestCategorize_FechaMalformadaUsaTextoCrudo(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Create(context.Background(), userA, sampleRequest("pronto"))
	require.NoError(t, err)

	buckets, err := uc.Categorize(context.Background(), userA, invoicing.PeriodMonth)
	require.NoError(t, err)
	assert.Len(t, buckets["pronto"], 1)
}
