package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellerdesk-backend/internal/orders"
	pkgauth "github.com/angelmondragon/sellerdesk-backend/pkg/auth"
	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/sellerdesk-backend/pkg/redis"
)

type memoryIdempotencyStore struct {
	data map[string]string
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", pkgredis.ErrMiss
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryIdempotencyStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func (m *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// ownerOnlyOrders owns a single order and rejects everyone else.
type ownerOnlyOrders struct {
	owner   uuid.UUID
	orderID uuid.UUID
	creates int
}

func (o *ownerOnlyOrders) Create(_ context.Context, callerID uuid.UUID, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	o.creates++
	return &orders.OrderDTO{ID: uuid.New(), SellerID: callerID, ClientID: input.ClientID, State: enums.OrderStatePending}, nil
}

func (o *ownerOnlyOrders) Update(context.Context, uuid.UUID, uuid.UUID, orders.UpdateOrderInput) (*orders.OrderDTO, error) {
	return nil, pkgerrors.Validation("order", "not supported in test")
}

func (o *ownerOnlyOrders) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (o *ownerOnlyOrders) Get(_ context.Context, callerID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	if orderID != o.orderID {
		return nil, pkgerrors.NotFound("order", orderID)
	}
	if callerID != o.owner {
		return nil, pkgerrors.Unauthorized(callerID.String(), "order")
	}
	return &orders.OrderDTO{ID: orderID, SellerID: o.owner}, nil
}

func (o *ownerOnlyOrders) ListBySeller(context.Context, uuid.UUID) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (o *ownerOnlyOrders) ListBySellerAndState(context.Context, uuid.UUID, enums.OrderState) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

type harness struct {
	handler http.Handler
	cfg     *config.Config
	orders  *ownerOnlyOrders
	store   *memoryIdempotencyStore
}

func newHarness() *harness {
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", CORSOrigins: "http://localhost:3000"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "sellerdesk", ExpirationMinutes: 60},
	}
	ordersSvc := &ownerOnlyOrders{owner: uuid.New(), orderID: uuid.New()}
	store := &memoryIdempotencyStore{data: map[string]string{}}
	handler := NewRouter(Dependencies{
		Config:      cfg,
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Idempotency: store,
		Orders:      ordersSvc,
	})
	return &harness{handler: handler, cfg: cfg, orders: ordersSvc, store: store}
}

func (h *harness) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(h.cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{UserID: userID, Email: "seller@acme.com"})
	require.NoError(t, err)
	return token
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthLiveIsPublic(t *testing.T) {
	h := newHarness()
	rec := h.do(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	h := newHarness()
	for _, path := range []string{"/api/v1/me", "/api/v1/orders", "/api/v1/clients", "/api/v1/products", "/api/v1/reports/best-clients"} {
		rec := h.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Contains(t, rec.Body.String(), string(pkgerrors.CodeUnauthenticated), path)
	}
}

func TestForeignOrderIsForbidden(t *testing.T) {
	h := newHarness()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+h.orders.orderID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+h.token(t, uuid.New()))
	rec := h.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+h.orders.orderID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+h.token(t, h.orders.owner))
	rec = h.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateOrderIdempotentReplay(t *testing.T) {
	h := newHarness()
	token := h.token(t, h.orders.owner)
	body := fmt.Sprintf(`{"client_id":%q,"items":[{"product_id":%q,"amount":1}]}`, uuid.NewString(), uuid.NewString())

	send := func(key, payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		return h.do(req)
	}

	missing := send("", body)
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	first := send("order-1", body)
	require.Equal(t, http.StatusCreated, first.Code)
	second := send("order-1", body)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, h.orders.creates)

	reused := send("order-1", strings.Replace(body, `"amount":1`, `"amount":2`, 1))
	assert.Equal(t, http.StatusConflict, reused.Code)
	assert.Contains(t, reused.Body.String(), string(pkgerrors.CodeIdempotency))
}
