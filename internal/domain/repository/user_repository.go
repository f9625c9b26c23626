package repository

import (
	"context"

	"github.com/jhoicas/invoice-manager/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Find* devuelven (nil, nil) cuando no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)
}
