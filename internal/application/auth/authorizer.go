package auth

import (
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// RoleAuthorizer implementa fulfillment.Authorizer con reglas por rol:
//
//   - aprobar/rechazar: admin y revisor (del lado del almacén central)
//   - despachar: admin, despachador y revisor (el revisor cubre la aprobación rápida)
//   - recibir: admin, despachador y el solicitante del establecimiento destino
type RoleAuthorizer struct{}

// NewRoleAuthorizer construye el autorizador por roles.
func NewRoleAuthorizer() *RoleAuthorizer { return &RoleAuthorizer{} }

// CanBeApprovedBy indica si el usuario puede aprobar o rechazar la solicitud.
func (a *RoleAuthorizer) CanBeApprovedBy(user *entity.User, req *entity.StockRequest) bool {
	if user == nil || req == nil {
		return false
	}
	switch user.Role {
	case entity.RoleAdmin, entity.RoleRevisor:
		// Un revisor no aprueba solicitudes creadas por él mismo.
		return user.ID != req.RequestedBy || user.Role == entity.RoleAdmin
	}
	return false
}

// CanBeDispatchedBy indica si el usuario puede despachar la solicitud.
func (a *RoleAuthorizer) CanBeDispatchedBy(user *entity.User, req *entity.StockRequest) bool {
	if user == nil || req == nil {
		return false
	}
	switch user.Role {
	case entity.RoleAdmin, entity.RoleDespachador, entity.RoleRevisor:
		return true
	}
	return false
}

// CanBeReceivedBy indica si el usuario puede registrar la recepción.
func (a *RoleAuthorizer) CanBeReceivedBy(user *entity.User, req *entity.StockRequest) bool {
	if user == nil || req == nil {
		return false
	}
	switch user.Role {
	case entity.RoleAdmin, entity.RoleDespachador:
		return true
	case entity.RoleSolicitante:
		// Solo el establecimiento destino recibe su propia mercancía.
		return user.FacilityID == req.RequestingFacility
	}
	return false
}
