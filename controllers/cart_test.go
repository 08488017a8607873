package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/cartstore"
	"storefront/catalog"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
	"storefront/utils"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

type emptyResolver struct{}

func (emptyResolver) Resolve(ctx context.Context, productID string) (*models.Product, error) {
	return nil, catalog.ErrProductNotFound
}

// newCartRouter mirrors the cart section of routes.RegisterRoutes
func newCartRouter() *mux.Router {
	store := cartstore.NewMemoryStore()
	service := services.NewCartService(store, emptyResolver{})
	controller := NewCartController(service)

	router := mux.NewRouter()
	cart := router.PathPrefix("/api/cart").Subrouter()
	cart.Use(middleware.AuthMiddleware)
	cart.HandleFunc("", controller.AddToCart).Methods("POST")
	cart.HandleFunc("/{customerId}", controller.GetCart).Methods("GET")
	cart.HandleFunc("/{customerId}/clear", controller.ClearCart).Methods("DELETE")
	cart.HandleFunc("/{customerId}/item/{productId}", controller.UpdateItemQuantity).Methods("PATCH")
	cart.HandleFunc("/{customerId}/item/{productId}", controller.RemoveFromCart).Methods("DELETE")
	return router
}

func customerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, userID+"@example.com", models.RoleCustomer)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT("admin1", "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func addItemBody(customerID, productID string, qty int, variant string) map[string]interface{} {
	body := map[string]interface{}{
		"customerId": customerID,
		"productId":  productID,
		"quantity":   qty,
	}
	if variant != "" {
		body["variant"] = variant
	}
	return body
}

func TestCartRoutes_RequireToken(t *testing.T) {
	router := newCartRouter()

	rec := doJSON(t, router, "POST", "/api/cart", "", addItemBody("c1", "p1", 1, ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, "GET", "/api/cart/c1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRoutes_ForbidOtherCustomers(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c2", "p1", 1, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, "GET", "/api/cart/c2", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCartRoutes_AdminMayOperateOnAnyCart(t *testing.T) {
	router := newCartRouter()
	customer := customerToken(t, "c1")
	admin := adminToken(t)

	rec := doJSON(t, router, "POST", "/api/cart", customer, addItemBody("c1", "p1", 2, "M"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/cart/c1", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddToCart_ValidatesBody(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero quantity", addItemBody("c1", "p1", 0, "")},
		{"negative quantity", addItemBody("c1", "p1", -1, "")},
		{"missing productId", addItemBody("c1", "", 1, "")},
		{"missing customerId", addItemBody("", "p1", 1, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "POST", "/api/cart", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAddToCart_MergesRepeatedAdds(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, "M"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 3, "M"))
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "M", cart.Items[0].Variant)
}

func TestAddToCart_NewVariantAddsLine(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, "M"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 1, "L"))
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Len(t, cart.Items, 2)
}

func TestGetCart_NotFound(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "GET", "/api/cart/c1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItemQuantity(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "PATCH", "/api/cart/c1/item/p1", token, map[string]int{"quantity": 7})
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "PATCH", "/api/cart/c1/item/p1", token, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Empty(t, cart.Items)

	// The emptied cart document still exists
	rec = doJSON(t, router, "GET", "/api/cart/c1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateItemQuantity_Errors(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "PATCH", "/api/cart/c1/item/p1", token, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "PATCH", "/api/cart/c1/item/other", token, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, "PATCH", "/api/cart/c1/item/p1", token, map[string]int{"quantity": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "PATCH", "/api/cart/c1/item/p1", token, map[string]string{"quantity": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItemQuantity_VariantQueryTargetsExactLine(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, "M"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 3, "L"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "PATCH", "/api/cart/c1/item/p1?variant=L", token, map[string]int{"quantity": 9})
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 9, cart.Items[1].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/cart/c1/item/p1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string      `json:"message"`
		Cart    models.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Item removed successfully", resp.Message)
	assert.Empty(t, resp.Cart.Items)
}

func TestRemoveFromCart_MissingItem(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/cart/c1/item/other", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCart(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, "c1")

	rec := doJSON(t, router, "POST", "/api/cart", token, addItemBody("c1", "p1", 2, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/cart/c1/clear", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/cart/c1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/cart/c1/clear", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCart_NoCart(t *testing.T) {
	router := newCartRouter()
	token := customerToken(t, fmt.Sprintf("c-%d", 42))

	rec := doJSON(t, router, "DELETE", "/api/cart/c-42/clear", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
