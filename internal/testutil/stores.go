// Package testutil provides in-memory collaborators for service and handler
// tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"print-order-backend/internal/models"
)

type OrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[uuid.UUID]models.Order)}
}

func (s *OrderStore) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; ok {
		return models.ErrDuplicate
	}
	s.orders[order.ID] = *order
	return nil
}

func (s *OrderStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &o, nil
}

func (s *OrderStore) GetOrderBySearchID(_ context.Context, searchID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.sorted() {
		if o.OrderSearchID == searchID {
			return &o, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *OrderStore) ListOrdersByUser(_ context.Context, userID int64) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.sorted() {
		if o.OwnedBy(userID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OrderStore) ListOrdersByPhone(_ context.Context, phone string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.sorted() {
		if o.Phone != nil && *o.Phone == phone {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OrderStore) ListOrders(_ context.Context, offset, limit int) ([]models.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sorted()
	if offset >= len(all) {
		return []models.Order{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (s *OrderStore) SetOrderStatus(_ context.Context, id uuid.UUID, status models.OrderStatus, at time.Time, completedAt *time.Time) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = &at
	if completedAt != nil {
		o.CompletedAt = completedAt
	}
	s.orders[id] = o
	return &o, nil
}

func (s *OrderStore) TransitionOrderStatus(_ context.Context, id uuid.UUID, from, to models.OrderStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = &at
	s.orders[id] = o
	return true, nil
}

// Put stores order as is, bypassing creation rules.
func (s *OrderStore) Put(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// sorted returns orders newest first; callers hold the lock.
func (s *OrderStore) sorted() []models.Order {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]models.User)}
}

func (s *UserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return models.ErrDuplicate
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

type ContentStore struct {
	mu    sync.Mutex
	files map[string][]byte
	types map[string]string
}

func NewContentStore() *ContentStore {
	return &ContentStore{files: make(map[string][]byte), types: make(map[string]string)}
}

func (s *ContentStore) Put(_ context.Context, filename, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[filename] = append([]byte(nil), data...)
	s.types[filename] = contentType
	return "memory://" + filename, nil
}

func (s *ContentStore) Get(_ context.Context, filename string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[filename]
	if !ok {
		return nil, models.ErrNotFound
	}
	return data, nil
}

func (s *ContentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
