package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
