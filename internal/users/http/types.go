package http

import (
	"context"
	"log/slog"

	"github.com/Gorgija/ehour/internal/users/domain"
)

// Users is the user service as seen by the handlers.
type Users interface {
	Users(ctx context.Context, hideInactive bool) ([]domain.User, error)
	UserAndCheckDeletability(ctx context.Context, id int64) (domain.User, error)
	CreateUser(ctx context.Context, editor domain.User, in domain.UserInput) (domain.User, error)
	UpdateUser(ctx context.Context, editor domain.User, id int64, in domain.UserInput) (domain.User, error)
	ChangePassword(ctx context.Context, editor domain.User, id int64, password string) error
	DeleteUser(ctx context.Context, editor domain.User, id int64) error
	UserRoles(ctx context.Context) ([]domain.Role, error)
	UserDepartments(ctx context.Context) ([]domain.Department, error)
	CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error)
}

// Handler bundles the dependencies for user HTTP endpoints.
type Handler struct {
	users  Users
	logger *slog.Logger
}

func New(users Users, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{users: users, logger: logger}
}
