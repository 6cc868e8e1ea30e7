package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"print-order-backend/internal/auth"
	"print-order-backend/internal/handlers"
	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
	"print-order-backend/internal/testutil"
)

const apiPrefix = "/api"

type testServer struct {
	router  *gin.Engine
	orders  *testutil.OrderStore
	content *testutil.ContentStore
	gateway *testutil.Gateway
	tokens  *auth.TokenManager
}

func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orderStore := testutil.NewOrderStore()
	content := testutil.NewContentStore()
	gateway := testutil.NewGateway()
	tokens := auth.NewTokenManager("test-secret-key-for-jwt-signing", time.Hour)

	orderService := services.NewOrderService(orderStore)
	userService := services.NewUserService(testutil.NewUserStore(), tokens)
	paymentService := services.NewPaymentService(orderService, gateway, testutil.NewDedup())
	fileService := services.NewFileService(content, maxUpload)

	ctx := context.Background()
	for _, name := range []string{"alice", "bob"} {
		_, err := userService.Register(ctx, models.RegisterRequest{
			Username: name,
			Email:    name + "@example.com",
			Password: "password1",
		})
		require.NoError(t, err)
	}
	_, err := userService.CreateAdmin(ctx, models.RegisterRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	h := &handlers.Handlers{
		Health:   handlers.NewHealthHandler("Printer API", "test"),
		Auth:     handlers.NewAuthHandler(userService),
		Users:    handlers.NewUsersHandler(userService),
		Orders:   handlers.NewOrdersHandler(orderService, time.UTC),
		Files:    handlers.NewFilesHandler(fileService, maxUpload),
		Payments: handlers.NewPaymentsHandler(paymentService),
		Webhook:  handlers.NewWebhookHandler(paymentService),
	}

	router := gin.New()
	h.Register(router, apiPrefix, userService)

	return &testServer{
		router:  router,
		orders:  orderStore,
		content: content,
		gateway: gateway,
		tokens:  tokens,
	}
}

func (s *testServer) token(t *testing.T, username, role string) string {
	t.Helper()
	token, err := s.tokens.Issue(username, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) userToken(t *testing.T, username string) string {
	return s.token(t, username, models.RoleUser)
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.token(t, "root", models.RoleAdmin)
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	token       string
	headers     map[string]string
}

func (s *testServer) do(r request) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	return s.do(request{
		method:      method,
		path:        path,
		body:        reader,
		contentType: "application/json",
		token:       token,
	})
}

func (s *testServer) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return s.do(request{
		method:      http.MethodPost,
		path:        apiPrefix + "/files/upload",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
}

func orderBody() map[string]any {
	return map[string]any{
		"file_name":       "thesis.pdf",
		"file_id":         "3f1c2a9e-5d8b-4c1f-9a77-0d2e6b1c4f00",
		"pages":           12,
		"color_mode":      "bw",
		"sides":           "double",
		"paper_size":      "A4",
		"orientation":     "portrait",
		"pages_per_side":  1,
		"copies":          2,
		"amount":          12.50,
		"delivery_method": "pickup",
		"email":           "guest@example.com",
		"phone":           "0400111222",
	}
}

func (s *testServer) createOrder(t *testing.T, token string) models.OrderCreatedResponse {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, apiPrefix+"/orders", token, orderBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created models.OrderCreatedResponse
	decode(t, w, &created)
	return created
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func formBody(values url.Values) io.Reader {
	return strings.NewReader(values.Encode())
}
