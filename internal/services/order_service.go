package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"print-order-backend/internal/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type OrderService struct {
	store OrderStore
	now   func() time.Time
}

func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the time source used for search ids and timestamps.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Create stores a new pending order. A nil actor places a guest order.
func (s *OrderService) Create(ctx context.Context, req models.CreateOrderRequest, actor *models.User) (*models.Order, error) {
	if req.PagesPerSide == 0 {
		req.PagesPerSide = 1
	}
	if req.Copies == 0 {
		req.Copies = 1
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	// Charged in whole cents.
	if d := decimal.NewFromFloat(req.Amount); !d.Equal(d.Round(2)) {
		return nil, fmt.Errorf("%w: amount has more than two decimal places", ErrValidation)
	}

	now := s.now()
	order := &models.Order{
		ID:             uuid.New(),
		OrderSearchID:  newSearchID(now),
		Email:          req.Email,
		Name:           req.Name,
		Phone:          req.Phone,
		IsGuest:        actor == nil,
		FileName:       req.FileName,
		FileID:         req.FileID,
		Pages:          req.Pages,
		ColorMode:      req.ColorMode,
		Sides:          req.Sides,
		PaperSize:      req.PaperSize,
		Orientation:    req.Orientation,
		PagesPerSide:   req.PagesPerSide,
		Copies:         req.Copies,
		Amount:         req.Amount,
		Status:         models.OrderStatusPending,
		DeliveryMethod: req.DeliveryMethod,
		Building:       req.Building,
		MailboxNumber:  req.MailboxNumber,
		Notes:          req.Notes,
		CreatedAt:      now,
	}
	if actor != nil {
		order.UserID = &actor.ID
		order.Username = &actor.Username
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"order_search_id", order.OrderSearchID,
		"guest", order.IsGuest,
	)
	return order, nil
}

// newSearchID formats YYMMDDHHMM-XXXX. Collisions are possible.
func newSearchID(t time.Time) string {
	return fmt.Sprintf("%s-%04d", t.Format("0601021504"), rand.IntN(10000))
}

// Lookup resolves ref as an order id, or as a search id when it is not a
// UUID.
func (s *OrderService) Lookup(ctx context.Context, ref string) (*models.Order, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.store.GetOrder(ctx, id)
	}
	return s.store.GetOrderBySearchID(ctx, ref)
}

// UpdateStatus sets any requested status. Moving to completed stamps
// completed_at.
func (s *OrderService) UpdateStatus(ctx context.Context, ref, status string, actor *models.User) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validateStruct(models.UpdateOrderStatusRequest{Status: status}); err != nil {
		return nil, err
	}

	order, err := s.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var completedAt *time.Time
	if models.OrderStatus(status) == models.OrderStatusCompleted {
		completedAt = &now
	}

	updated, err := s.store.SetOrderStatus(ctx, order.ID, models.OrderStatus(status), now, completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	slog.InfoContext(ctx, "order status updated",
		"order_id", order.ID,
		"from", order.Status,
		"to", status,
		"by", actor.Username,
	)
	return updated, nil
}

// ConfirmPayment moves a pending order to processing when paid is true.
// Orders in any other status come back unchanged.
func (s *OrderService) ConfirmPayment(ctx context.Context, id uuid.UUID, paid bool) (*models.Order, error) {
	if paid {
		changed, err := s.store.TransitionOrderStatus(ctx, id,
			models.OrderStatusPending, models.OrderStatusProcessing, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to confirm payment: %w", err)
		}
		if changed {
			slog.InfoContext(ctx, "payment confirmed", "order_id", id)
		}
	}

	return s.store.GetOrder(ctx, id)
}

// Get returns the order identified by searchID. Signed-in users other than
// admins may only read their own orders; guests may read any.
func (s *OrderService) Get(ctx context.Context, searchID string, actor *models.User) (*models.Order, error) {
	order, err := s.store.GetOrderBySearchID(ctx, searchID)
	if err != nil {
		return nil, err
	}
	if actor != nil && !actor.IsAdmin() && !order.OwnedBy(actor.ID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// SearchBySearchID is the public tracking lookup.
func (s *OrderService) SearchBySearchID(ctx context.Context, searchID string) (*models.Order, error) {
	return s.store.GetOrderBySearchID(ctx, searchID)
}

// SearchByPhone is open to guests and admins only.
func (s *OrderService) SearchByPhone(ctx context.Context, phone string, actor *models.User) ([]models.Order, error) {
	if actor != nil && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	orders, err := s.store.ListOrdersByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders found for this phone number: %w", models.ErrNotFound)
	}
	return orders, nil
}

func (s *OrderService) ListMine(ctx context.Context, actor *models.User) ([]models.Order, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return s.store.ListOrdersByUser(ctx, actor.ID)
}

type OrderPage struct {
	Orders []models.Order
	Total  int
	Page   int
	Size   int
}

func (p OrderPage) TotalPages() int {
	if p.Size == 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// List pages through every order, newest first. Admin only.
func (s *OrderService) List(ctx context.Context, page, size int, actor *models.User) (*OrderPage, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrValidation)
	}
	if size < 1 || size > MaxPageSize {
		return nil, fmt.Errorf("%w: size must be between 1 and %d", ErrValidation, MaxPageSize)
	}

	orders, total, err := s.store.ListOrders(ctx, (page-1)*size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, Size: size}, nil
}

// checkoutAllowed gates payment: only the owner, an admin or a guest may pay,
// and only while the order is pending.
func checkoutAllowed(order *models.Order, actor *models.User) error {
	if actor != nil && !actor.IsAdmin() && !order.OwnedBy(actor.ID) {
		return ErrForbidden
	}
	if order.Status != models.OrderStatusPending {
		return ErrOrderNotPending
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
