package entity

import "time"

// User representa un usuario/tenant: todos los insumos, productos y ventas
// están scoped por UserID.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
