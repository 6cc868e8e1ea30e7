package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-order-backend/internal/models"
)

func TestCreateOrder_Guest(t *testing.T) {
	s := newTestServer(t, 1<<20)

	created := s.createOrder(t, "")
	assert.True(t, created.IsGuest)
	assert.Nil(t, created.Username)
	assert.Equal(t, "pending", created.Status)
	assert.Regexp(t, `^\d{10}-\d{4}$`, created.OrderSearchID)
}

func TestCreateOrder_SignedIn(t *testing.T) {
	s := newTestServer(t, 1<<20)

	created := s.createOrder(t, s.userToken(t, "alice"))
	assert.False(t, created.IsGuest)
	require.NotNil(t, created.Username)
	assert.Equal(t, "alice", *created.Username)
}

func TestCreateOrder_Defaults(t *testing.T) {
	s := newTestServer(t, 1<<20)

	body := orderBody()
	delete(body, "copies")
	delete(body, "pages_per_side")
	body["orientation"] = "auto"
	w := s.doJSON(t, http.MethodPost, apiPrefix+"/orders", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created models.OrderCreatedResponse
	decode(t, w, &created)
	order, err := s.orders.GetOrder(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, order.Copies)
	assert.Equal(t, 1, order.PagesPerSide)
	assert.Equal(t, "auto", order.Orientation)
}

func TestCreateOrder_InvalidToken(t *testing.T) {
	s := newTestServer(t, 1<<20)

	created := s.createOrder(t, "not-a-token")
	assert.True(t, created.IsGuest)
}

func TestCreateOrder_Invalid(t *testing.T) {
	s := newTestServer(t, 1<<20)

	body := orderBody()
	body["color_mode"] = "sepia"
	w := s.doJSON(t, http.MethodPost, apiPrefix+"/orders", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = orderBody()
	body["copies"] = -1
	w = s.doJSON(t, http.MethodPost, apiPrefix+"/orders", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = orderBody()
	body["amount"] = 12.345
	w = s.doJSON(t, http.MethodPost, apiPrefix+"/orders", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(request{
		method:      http.MethodPost,
		path:        apiPrefix + "/orders",
		body:        bytes.NewReader([]byte("{")),
		contentType: "application/json",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_Authorization(t *testing.T) {
	s := newTestServer(t, 1<<20)
	created := s.createOrder(t, s.userToken(t, "alice"))
	path := apiPrefix + "/orders/" + created.OrderSearchID

	w := s.doJSON(t, http.MethodGet, path, s.userToken(t, "alice"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.OrderResponse
	decode(t, w, &order)
	assert.Equal(t, created.ID, order.ID)
	assert.Equal(t, 12.5, order.Amount)

	w = s.doJSON(t, http.MethodGet, path, s.userToken(t, "bob"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.doJSON(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.doJSON(t, http.MethodGet, path, s.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders/0000000000-0000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchBySearchID_Public(t *testing.T) {
	s := newTestServer(t, 1<<20)
	created := s.createOrder(t, s.userToken(t, "alice"))

	w := s.doJSON(t, http.MethodGet, apiPrefix+"/orders/search/"+created.OrderSearchID, s.userToken(t, "bob"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchByPhone(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.createOrder(t, "")
	s.createOrder(t, "")

	w := s.doJSON(t, http.MethodGet, apiPrefix+"/orders/search/phone/0400111222", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.OrderResponse
	decode(t, w, &orders)
	assert.Len(t, orders, 2)

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders/search/phone/0400111222", s.userToken(t, "alice"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders/search/phone/0499999999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMyOrders(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.createOrder(t, s.userToken(t, "alice"))
	s.createOrder(t, s.userToken(t, "bob"))
	s.createOrder(t, "")

	w := s.doJSON(t, http.MethodGet, apiPrefix+"/orders/my", s.userToken(t, "alice"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.OrderResponse
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice", *orders[0].Username)

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListOrders_AdminOnly(t *testing.T) {
	s := newTestServer(t, 1<<20)
	for i := 0; i < 3; i++ {
		s.createOrder(t, "")
	}

	w := s.doJSON(t, http.MethodGet, apiPrefix+"/orders", s.userToken(t, "alice"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders?page=2&size=2", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.OrderListResponse
	decode(t, w, &page)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Orders, 1)

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders?size=101", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders?page=abc", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	s := newTestServer(t, 1<<20)
	created := s.createOrder(t, "")
	path := apiPrefix + "/orders/" + created.OrderSearchID + "/status"
	body := map[string]string{"status": "completed"}

	w := s.doJSON(t, http.MethodPut, path, s.userToken(t, "alice"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.doJSON(t, http.MethodPut, path, "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(t, http.MethodPut, path, s.adminToken(t), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var order models.OrderResponse
	decode(t, w, &order)
	assert.Equal(t, "completed", order.Status)
	assert.NotNil(t, order.CompletedAt)

	w = s.doJSON(t, http.MethodPut, apiPrefix+"/orders/"+created.ID+"/status", s.adminToken(t), map[string]string{"status": "pending"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &order)
	assert.Equal(t, "pending", order.Status)
}

func TestOrderQRCode(t *testing.T) {
	s := newTestServer(t, 1<<20)
	created := s.createOrder(t, "")

	w := s.doJSON(t, http.MethodGet, apiPrefix+"/orders/"+created.OrderSearchID+"/qrcode", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = s.doJSON(t, http.MethodGet, apiPrefix+"/orders/0000000000-0000/qrcode", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
