package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"print-order-backend/internal/models"
)

// OrderStore persists orders. Lookups return models.ErrNotFound when no
// order matches.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderBySearchID(ctx context.Context, searchID string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error)
	ListOrders(ctx context.Context, offset, limit int) ([]models.Order, int, error)

	// SetOrderStatus writes status unconditionally. A nil completedAt leaves
	// the stored completion time untouched.
	SetOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time, completedAt *time.Time) (*models.Order, error)

	// TransitionOrderStatus writes to only while the stored status equals
	// from, and reports whether a row changed.
	TransitionOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, at time.Time) (bool, error)
}

// UserStore persists accounts. Create and update return
// models.ErrDuplicate when the username or email is taken.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// ContentStore holds uploaded documents under generated filenames.
type ContentStore interface {
	Put(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Get(ctx context.Context, filename string) ([]byte, error)
}
