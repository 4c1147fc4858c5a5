package http

import (
	"context"
	"log/slog"

	"github.com/Gorgija/ehour/internal/users/domain"
)

// Passwords changes a user's password on behalf of editor.
type Passwords interface {
	ChangePassword(ctx context.Context, editor domain.User, id int64, password string) error
}

type Handler struct {
	passwords Passwords
	logger    *slog.Logger
}

func New(passwords Passwords, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		passwords: passwords,
		logger:    logger,
	}
}
