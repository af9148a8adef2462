package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
	"github.com/your-org/bookstore-backend/internal/pkg/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	server *Server
	db     *gorm.DB
	redis  *miniredis.Miniredis
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.App.Environment = "test"
	cfg.Security.RateLimitPerMinute = 0

	log := logger.Discard()
	db := testutil.NewDB(t)
	migration := postgres.NewMigration(db, log)
	require.NoError(t, migration.RunAutoMigrations())
	require.NoError(t, migration.SeedInitialData())

	client, mr := testutil.NewRedis(t)

	return &testEnv{
		server: NewServer(cfg, db, client, log),
		db:     db,
		redis:  mr,
		cfg:    cfg,
	}
}

// browser replays cookies between requests the way a browser would
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, handler: e.server.Handler(), cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	b.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		b.cookies[cookie.Name] = cookie
	}
	return w
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCartFlow_SessionCookieKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	w := b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, b.cookies, env.cfg.Session.CookieName)

	w = b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 2, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	view := decode[cart.CartResponse](t, b.do(http.MethodGet, "/api/v1/cart", nil))
	require.Len(t, view.Data.Items, 2)
	assert.Equal(t, uint(1), view.Data.Items[0].BookID)
	assert.Equal(t, 2, view.Data.Items[0].Quantity)
	assert.Equal(t, int64(2*1099+799), view.Data.Totals.TotalAmount)

	total := decode[map[string]int64](t, b.do(http.MethodGet, "/api/v1/cart/total", nil))
	assert.Equal(t, int64(2*1099+799), total.Data["total"])

	count := decode[map[string]int](t, b.do(http.MethodGet, "/api/v1/cart/count", nil))
	assert.Equal(t, 3, count.Data["count"])
}

func TestCartFlow_SeparateBrowsersHaveSeparateCarts(t *testing.T) {
	env := newTestEnv(t)
	alice := env.browser(t)
	bob := env.browser(t)

	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 1, "quantity": 1}).Code)

	view := decode[cart.CartResponse](t, bob.do(http.MethodGet, "/api/v1/cart", nil))
	assert.Empty(t, view.Data.Items)
	assert.Equal(t, int64(0), view.Data.Totals.TotalAmount)
}

func TestCartFlow_TamperedCookieStartsNewSession(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 1, "quantity": 1}).Code)

	cookie := b.cookies[env.cfg.Session.CookieName]
	cookie.Value += "x"

	view := decode[cart.CartResponse](t, b.do(http.MethodGet, "/api/v1/cart", nil))
	assert.Empty(t, view.Data.Items)
}

func TestCartFlow_IncreaseDecreaseRemove(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 3, "quantity": 1}).Code)

	inc := decode[map[string]int](t, b.do(http.MethodPost, "/api/v1/cart/items/3/increase", nil))
	assert.Equal(t, 2, inc.Data["quantity"])

	dec := decode[map[string]int](t, b.do(http.MethodPost, "/api/v1/cart/items/3/decrease", nil))
	assert.Equal(t, 1, dec.Data["quantity"])

	dec = decode[map[string]int](t, b.do(http.MethodPost, "/api/v1/cart/items/3/decrease", nil))
	assert.Equal(t, 0, dec.Data["quantity"])

	// Absent items are no-ops
	w := b.do(http.MethodPost, "/api/v1/cart/items/3/increase", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[map[string]int](t, w).Data["quantity"])

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 4, "quantity": 5}).Code)
	removed := decode[cart.CartResponse](t, b.do(http.MethodDelete, "/api/v1/cart/items/4", nil))
	assert.Empty(t, removed.Data.Items)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 4, "quantity": 5}).Code)
	require.Equal(t, http.StatusOK, b.do(http.MethodDelete, "/api/v1/cart", nil).Code)
	count := decode[map[string]int](t, b.do(http.MethodGet, "/api/v1/cart/count", nil))
	assert.Equal(t, 0, count.Data["count"])
}

func TestCartFlow_ErrorStatuses(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"zero quantity", http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 1, "quantity": 0}, http.StatusBadRequest},
		{"quantity above limit", http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 1, "quantity": 10001}, http.StatusBadRequest},
		{"negative quantity", http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 1, "quantity": -2}, http.StatusBadRequest},
		{"missing book id", http.MethodPost, "/api/v1/cart/items", gin.H{"quantity": 1}, http.StatusBadRequest},
		{"unknown book", http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 999, "quantity": 1}, http.StatusNotFound},
		{"bad item id", http.MethodPost, "/api/v1/cart/items/abc/increase", nil, http.StatusBadRequest},
		{"empty cart checkout", http.MethodPost, "/api/v1/orders", nil, http.StatusConflict},
		{"unknown order", http.MethodGet, "/api/v1/orders/42", nil, http.StatusNotFound},
		{"unknown book detail", http.MethodGet, "/api/v1/books/999", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := b.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCartFlow_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := b.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "sql")
}

func TestCartFlow_SessionStoreDown(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	addr := env.redis.Addr()
	env.redis.Close()

	w := b.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), addr)
}

func TestOrderFlow_PlaceAndFetch(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 1, "quantity": 2}).Code)
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/v1/cart/items", gin.H{"book_id": 5, "quantity": 1}).Code)

	w := b.do(http.MethodPost, "/api/v1/orders", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decode[order.Order](t, w)
	assert.Equal(t, int64(2*1099+3999), placed.Data.TotalAmount)
	assert.Len(t, placed.Data.Items, 2)

	count := decode[map[string]int](t, b.do(http.MethodGet, "/api/v1/cart/count", nil))
	assert.Equal(t, 0, count.Data["count"])

	path := "/api/v1/orders/" + jsonNumber(placed.Data.ID)
	fetched := decode[order.Order](t, b.do(http.MethodGet, path, nil))
	assert.Equal(t, placed.Data.OrderNumber, fetched.Data.OrderNumber)

	// Another browser cannot read it
	other := env.browser(t)
	assert.Equal(t, http.StatusNotFound, other.do(http.MethodGet, path, nil).Code)
}

func TestBooks_ListAndDetail(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	w := b.do(http.MethodGet, "/api/v1/books?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Books []struct {
			Title string `json:"title"`
		} `json:"books"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}](t, w)
	require.Len(t, list.Data.Books, 2)
	assert.Equal(t, "1984", list.Data.Books[0].Title)
	assert.Equal(t, int64(5), list.Data.Pagination.Total)

	w = b.do(http.MethodGet, "/api/v1/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	assert.Equal(t, http.StatusOK, b.do(http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, b.do(http.MethodGet, "/ready", nil).Code)

	env.redis.Close()
	assert.Equal(t, http.StatusServiceUnavailable, b.do(http.MethodGet, "/health", nil).Code)
}

func TestResponsesCarryRequestID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
