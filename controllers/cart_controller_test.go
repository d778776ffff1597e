package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"toko-online/config"
	"toko-online/middleware"
	"toko-online/models"
	"toko-online/services"
	"toko-online/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		JWTSecret: "test_secret",
		JWTExpiry: "1h",
	}
	os.Exit(m.Run())
}

type memCartStore struct {
	nextID int
	items  []models.CartItem
}

func sameOwner(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *memCartStore) Upsert(_ context.Context, owner *int, productID, quantity int) (*models.CartItem, bool, error) {
	for i := range f.items {
		if sameOwner(f.items[i].UserID, owner) && f.items[i].ProductID == productID {
			f.items[i].Quantity += quantity
			item := f.items[i]
			return &item, false, nil
		}
	}
	f.nextID++
	item := models.CartItem{
		ID:        f.nextID,
		UserID:    owner,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.items = append(f.items, item)
	return &item, true, nil
}

func (f *memCartStore) ListByOwner(_ context.Context, owner *int) ([]models.CartItemDetail, error) {
	details := []models.CartItemDetail{}
	for _, item := range f.items {
		if sameOwner(item.UserID, owner) {
			details = append(details, models.CartItemDetail{
				CartItem: item,
				Name:     fmt.Sprintf("Product %d", item.ProductID),
				Price:    item.ProductID * 1000,
			})
		}
	}
	return details, nil
}

func (f *memCartStore) UpdateQuantity(_ context.Context, id int, owner *int, quantity int) (*models.CartItem, error) {
	for i := range f.items {
		if f.items[i].ID == id && sameOwner(f.items[i].UserID, owner) {
			f.items[i].Quantity = quantity
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *memCartStore) Delete(_ context.Context, id int, owner *int) error {
	for i := range f.items {
		if f.items[i].ID == id && sameOwner(f.items[i].UserID, owner) {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newCartRouter() (*gin.Engine, *memCartStore) {
	return newCartRouterWithCache(nil)
}

func newCartRouterWithCache(cache *redis.Client) (*gin.Engine, *memCartStore) {
	store := &memCartStore{}
	ctrl := NewCartController(services.NewCartService(store), cache)

	router := gin.New()
	cart := router.Group("/cart")
	cart.Use(middleware.IdentityMiddleware())
	{
		cart.POST("", ctrl.AddToCart)
		cart.GET("", ctrl.GetCart)
		cart.PUT("/:id", ctrl.UpdateCartItem)
		cart.DELETE("/:id", ctrl.RemoveCartItem)
	}
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type cartResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeItem(t *testing.T, w *httptest.ResponseRecorder) models.CartItem {
	t.Helper()
	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var item models.CartItem
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	return item
}

func TestGuestCartLifecycle(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(t, router, http.MethodPost, "/cart", "", gin.H{"product_id": 5, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeItem(t, w)
	assert.Equal(t, 5, created.ProductID)
	assert.Equal(t, 2, created.Quantity)
	assert.Nil(t, created.UserID)

	w = doJSON(t, router, http.MethodPost, "/cart", "", gin.H{"product_id": 5, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, "second add for the same product merges")
	merged := decodeItem(t, w)
	assert.Equal(t, created.ID, merged.ID)
	assert.Equal(t, 5, merged.Quantity)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/cart/%d", created.ID), "", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.JSONEq(t, "[]", string(resp.Data))
}

func TestAddToCartValidation(t *testing.T) {
	router, _ := newCartRouter()

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing product_id", gin.H{"quantity": 2}},
		{"missing quantity", gin.H{"product_id": 5}},
		{"zero quantity", gin.H{"product_id": 5, "quantity": 0}},
		{"negative quantity", gin.H{"product_id": 5, "quantity": -2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/cart", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateCartItemRejectsNonPositiveQuantity(t *testing.T) {
	router, _ := newCartRouter()

	// 400 regardless of whether line 7 exists.
	w := doJSON(t, router, http.MethodPut, "/cart/7", "", gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartOwnershipScoping(t *testing.T) {
	router, _ := newCartRouter()

	aliceToken, err := utils.GenerateToken(1, "alice@example.com")
	require.NoError(t, err)
	bobToken, err := utils.GenerateToken(2, "bob@example.com")
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/cart", aliceToken, gin.H{"product_id": 9, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decodeItem(t, w)

	// Bob cannot tell Alice's line from a missing one.
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), bobToken, gin.H{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/cart/%d", item.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Guests do not see authenticated carts.
	w = doJSON(t, router, http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.JSONEq(t, "[]", string(resp.Data))

	// Alice still can update her own line.
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), aliceToken, gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decodeItem(t, w).Quantity)
}

func TestCartRejectsInvalidToken(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(t, router, http.MethodGet, "/cart", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateCartItemNonNumericID(t *testing.T) {
	router, _ := newCartRouter()

	w := doJSON(t, router, http.MethodPut, "/cart/abc", "", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func postWithIdempotencyKey(t *testing.T, router *gin.Engine, key string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddToCartIdempotencyKeyReplays(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	router, store := newCartRouterWithCache(cache)

	first := postWithIdempotencyKey(t, router, "retry-1", gin.H{"product_id": 5, "quantity": 2})
	require.Equal(t, http.StatusCreated, first.Code)

	// Same key retried: the stored reply comes back and the store is untouched.
	second := postWithIdempotencyKey(t, router, "retry-1", gin.H{"product_id": 5, "quantity": 2})
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	require.Len(t, store.items, 1)
	assert.Equal(t, 2, store.items[0].Quantity, "replay must not merge the quantity again")

	// A fresh key is a new request and merges as usual.
	third := postWithIdempotencyKey(t, router, "retry-2", gin.H{"product_id": 5, "quantity": 2})
	assert.Equal(t, http.StatusOK, third.Code)
	assert.Equal(t, 4, decodeItem(t, third).Quantity)
}
