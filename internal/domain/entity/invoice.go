package entity

import "github.com/shopspring/decimal"

// Invoice es la raíz del agregado de facturación: una factura con sus
// clientes facturados y las líneas de cada uno. El agregado siempre se
// crea, reemplaza y elimina como unidad.
type Invoice struct {
	ID             string
	UserID         string
	Number         int    // único por usuario, visible al usuario
	CreationDate   string // fecha calendario como texto YYYY-MM-DD
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	// TotalAmount llega del cliente y se guarda tal cual; puede divergir de
	// la suma de las líneas. El PDF imprime este valor, no lo recalcula.
	TotalAmount decimal.Decimal
	Customers   []Customer
}

// Customer es la parte facturada dentro de una factura. No tiene ciclo de
// vida propio: nace y muere con la escritura de su factura.
type Customer struct {
	ID        string
	InvoiceID string
	Name      string
	Address   string
	Email     string
	Items     []Item
}

// Item es una línea de detalle de un Customer.
type Item struct {
	ID          string
	CustomerID  string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}
