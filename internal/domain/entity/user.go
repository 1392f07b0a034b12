package entity

import "time"

// Roles de usuario del dashboard.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User usuario del dashboard (autenticación de los endpoints de exportación).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
