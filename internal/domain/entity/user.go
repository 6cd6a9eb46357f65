package entity

import "time"

// Roles de usuario dentro del portal. El rol viaja en el JWT y lo consume el Authorizer.
const (
	RoleAdmin       = "admin"
	RoleRevisor     = "revisor"     // aprueba/rechaza solicitudes del almacén central
	RoleDespachador = "despachador" // despacha y recibe mercancía
	RoleSolicitante = "solicitante" // crea solicitudes desde su establecimiento
)

// User representa un usuario del portal asociado a un establecimiento.
type User struct {
	ID           string
	FacilityID   string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
