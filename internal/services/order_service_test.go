package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
	"print-order-backend/internal/testutil"
)

var searchIDPattern = regexp.MustCompile(`^\d{10}-\d{1,4}$`)

func strPtr(s string) *string { return &s }

func validOrderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		FileName:       "thesis.pdf",
		FileID:         "0b7c1f9e-1111-4000-8000-000000000000",
		Pages:          10,
		ColorMode:      models.ColorModeColor,
		Sides:          "double",
		PaperSize:      "A4",
		Orientation:    "portrait",
		PagesPerSide:   1,
		Copies:         2,
		Amount:         12.50,
		DeliveryMethod: "pickup",
		Email:          "student@example.com",
		Phone:          strPtr("0400000000"),
	}
}

var (
	alice = &models.User{ID: 1, Username: "alice", Role: models.RoleUser}
	bob   = &models.User{ID: 2, Username: "bob", Role: models.RoleUser}
	admin = &models.User{ID: 9, Username: "root", Role: models.RoleAdmin}
)

func TestOrderService_CreateGuest(t *testing.T) {
	store := testutil.NewOrderStore()
	clock := time.Date(2024, 3, 7, 9, 15, 0, 0, time.UTC)
	svc := services.NewOrderService(store).WithClock(func() time.Time { return clock })

	order, err := svc.Create(context.Background(), validOrderRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.IsGuest)
	assert.Nil(t, order.UserID)
	assert.Nil(t, order.Username)
	assert.Regexp(t, searchIDPattern, order.OrderSearchID)
	assert.Equal(t, "2403070915", order.OrderSearchID[:10])
	assert.Nil(t, order.CompletedAt)

	stored, err := store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderSearchID, stored.OrderSearchID)
}

func TestOrderService_CreateForUser(t *testing.T) {
	svc := services.NewOrderService(testutil.NewOrderStore())

	order, err := svc.Create(context.Background(), validOrderRequest(), alice)
	require.NoError(t, err)

	assert.False(t, order.IsGuest)
	require.NotNil(t, order.UserID)
	assert.Equal(t, alice.ID, *order.UserID)
	assert.Equal(t, "alice", *order.Username)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderService_CreateDefaults(t *testing.T) {
	svc := services.NewOrderService(testutil.NewOrderStore())

	req := validOrderRequest()
	req.PagesPerSide = 0
	req.Copies = 0
	req.Orientation = "auto"
	req.DeliveryMethod = "courier"
	req.Amount = 0.3

	order, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, order.PagesPerSide)
	assert.Equal(t, 1, order.Copies)
	assert.Equal(t, "auto", order.Orientation)
	assert.Equal(t, "courier", order.DeliveryMethod)
}

func TestOrderService_CreateRejectsInvalidInput(t *testing.T) {
	svc := services.NewOrderService(testutil.NewOrderStore())

	tests := []struct {
		name   string
		mutate func(*models.CreateOrderRequest)
	}{
		{"unknown color mode", func(r *models.CreateOrderRequest) { r.ColorMode = "sepia" }},
		{"negative copies", func(r *models.CreateOrderRequest) { r.Copies = -1 }},
		{"negative pages per side", func(r *models.CreateOrderRequest) { r.PagesPerSide = -2 }},
		{"sub-cent amount", func(r *models.CreateOrderRequest) { r.Amount = 12.345 }},
		{"missing orientation", func(r *models.CreateOrderRequest) { r.Orientation = "" }},
		{"bad email", func(r *models.CreateOrderRequest) { r.Email = "nope" }},
		{"missing file", func(r *models.CreateOrderRequest) { r.FileID = "" }},
		{"free order", func(r *models.CreateOrderRequest) { r.Amount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderRequest()
			tt.mutate(&req)
			_, err := svc.Create(context.Background(), req, nil)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
}

func newPendingOrder(t *testing.T, svc *services.OrderService, actor *models.User) *models.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), validOrderRequest(), actor)
	require.NoError(t, err)
	return order
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc := services.NewOrderService(testutil.NewOrderStore())
	order := newPendingOrder(t, svc, alice)

	_, err := svc.UpdateStatus(ctx, order.OrderSearchID, "processing", alice)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.UpdateStatus(ctx, order.OrderSearchID, "processing", nil)
	assert.ErrorIs(t, err, services.ErrForbidden)

	updated, err := svc.UpdateStatus(ctx, order.OrderSearchID, "processing", admin)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
	assert.Nil(t, updated.CompletedAt)
	assert.NotNil(t, updated.UpdatedAt)

	updated, err = svc.UpdateStatus(ctx, order.ID.String(), "completed", admin)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
}

func TestOrderService_UpdateStatusIsPermissive(t *testing.T) {
	ctx := context.Background()
	svc := services.NewOrderService(testutil.NewOrderStore())
	order := newPendingOrder(t, svc, nil)

	completed, err := svc.UpdateStatus(ctx, order.ID.String(), "completed", admin)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	stamp := *completed.CompletedAt

	reopened, err := svc.UpdateStatus(ctx, order.ID.String(), "pending", admin)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, reopened.Status)
	require.NotNil(t, reopened.CompletedAt)
	assert.Equal(t, stamp, *reopened.CompletedAt)

	custom, err := svc.UpdateStatus(ctx, order.ID.String(), "on-hold", admin)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatus("on-hold"), custom.Status)
}

func TestOrderService_UpdateStatusUnknownOrder(t *testing.T) {
	svc := services.NewOrderService(testutil.NewOrderStore())

	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), "completed", admin)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.UpdateStatus(context.Background(), "2401010000-0000", "completed", admin)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()
	svc := services.NewOrderService(testutil.NewOrderStore())
	order := newPendingOrder(t, svc, nil)

	unpaid, err := svc.ConfirmPayment(ctx, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, unpaid.Status)

	paid, err := svc.ConfirmPayment(ctx, order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, paid.Status)
	assert.Nil(t, paid.CompletedAt)
}

func TestOrderService_ConfirmPaymentNoOpOutsidePending(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewOrderStore()
	svc := services.NewOrderService(store)

	for _, status := range []models.OrderStatus{
		models.OrderStatusProcessing,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	} {
		order := models.Order{ID: uuid.New(), OrderSearchID: "2401010000-1", Status: status}
		store.Put(order)

		got, err := svc.ConfirmPayment(ctx, order.ID, true)
		require.NoError(t, err, status)
		assert.Equal(t, status, got.Status)
		assert.Nil(t, got.UpdatedAt, status)
	}
}

func TestOrderService_ConfirmPaymentUnknownOrder(t *testing.T) {
	svc := services.NewOrderService(testutil.NewOrderStore())

	_, err := svc.ConfirmPayment(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_GetAuthorization(t *testing.T) {
	ctx := context.Background()
	svc := services.NewOrderService(testutil.NewOrderStore())
	order := newPendingOrder(t, svc, alice)

	got, err := svc.Get(ctx, order.OrderSearchID, alice)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.Get(ctx, order.OrderSearchID, bob)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.Get(ctx, order.OrderSearchID, admin)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, order.OrderSearchID, nil)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, "0000000000-0", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_SearchByPhone(t *testing.T) {
	ctx := context.Background()
	svc := services.NewOrderService(testutil.NewOrderStore())
	newPendingOrder(t, svc, nil)
	newPendingOrder(t, svc, alice)

	orders, err := svc.SearchByPhone(ctx, "0400000000", nil)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = svc.SearchByPhone(ctx, "0400000000", admin)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = svc.SearchByPhone(ctx, "0400000000", alice)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.SearchByPhone(ctx, "0499999999", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_ListMine(t *testing.T) {
	ctx := context.Background()
	svc := services.NewOrderService(testutil.NewOrderStore())
	newPendingOrder(t, svc, alice)
	newPendingOrder(t, svc, alice)
	newPendingOrder(t, svc, bob)
	newPendingOrder(t, svc, nil)

	orders, err := svc.ListMine(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.True(t, o.OwnedBy(alice.ID))
	}
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	svc := services.NewOrderService(testutil.NewOrderStore())
	for range 12 {
		newPendingOrder(t, svc, nil)
	}

	page, err := svc.List(ctx, 2, 5, admin)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 5)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.TotalPages())

	page, err = svc.List(ctx, 3, 5, admin)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)

	_, err = svc.List(ctx, 1, 10, alice)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.List(ctx, 0, 10, admin)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.List(ctx, 1, 101, admin)
	assert.ErrorIs(t, err, services.ErrValidation)
}
