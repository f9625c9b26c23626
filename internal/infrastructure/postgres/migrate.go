package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate crea el esquema si no existe. Se ejecuta al arranque.
//
// Las cascadas invoice → customer → item van en el esquema (ON DELETE
// CASCADE), no en código: borrar una factura arrastra a sus clientes y
// líneas sin pasos manuales. La unicidad del número de factura es por
// usuario, nunca global; el constraint compuesto es además la red de
// seguridad frente a creaciones concurrentes con el mismo número.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			username      TEXT UNIQUE NOT NULL,
			email         TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name     TEXT NOT NULL DEFAULT '',
			company_name  TEXT NOT NULL DEFAULT '',
			phone_number  TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id              UUID PRIMARY KEY,
			user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			invoice_number  INTEGER NOT NULL,
			creation_date   TEXT NOT NULL DEFAULT '',
			company_name    TEXT NOT NULL DEFAULT '',
			company_address TEXT NOT NULL DEFAULT '',
			company_email   TEXT NOT NULL DEFAULT '',
			total_amount    NUMERIC(14,2) NOT NULL DEFAULT 0,
			CONSTRAINT invoices_user_id_invoice_number_key UNIQUE (user_id, invoice_number)
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id         UUID PRIMARY KEY,
			invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			name       TEXT NOT NULL DEFAULT '',
			address    TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			position   SERIAL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id          UUID PRIMARY KEY,
			customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			description TEXT NOT NULL DEFAULT '',
			quantity    INTEGER NOT NULL DEFAULT 1,
			unit_price  NUMERIC(14,2) NOT NULL DEFAULT 0,
			position    SERIAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_user_date ON invoices (user_id, creation_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_invoice ON customers (invoice_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_customer ON items (customer_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
