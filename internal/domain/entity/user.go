package entity

import "time"

// User representa una cuenta del sistema. Cada usuario es dueño exclusivo
// de sus facturas; toda lectura y escritura se filtra por su ID.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	CompanyName  string
	PhoneNumber  string
	CreatedAt    time.Time
}
