package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/cartstore"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

// CartController handles cart-related requests
type CartController struct {
	Service *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(service *services.CartService) *CartController {
	return &CartController{
		Service: service,
	}
}

// addItemRequest is the validated body of POST /api/cart
type addItemRequest struct {
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	Variant    string `json:"variant,omitempty"`
}

// setQuantityRequest is the validated body of PATCH /api/cart/{customerId}/item/{productId}
type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// authorizeCustomer checks that the token belongs to the cart's owner.
// Admins may operate on any cart.
func authorizeCustomer(w http.ResponseWriter, r *http.Request, customerID string) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	if claims.UserID != customerID && claims.Role != models.RoleAdmin {
		http.Error(w, "Forbidden: not your cart", http.StatusForbidden)
		return false
	}
	return true
}

// writeCartError maps service errors to HTTP statuses
func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cartstore.ErrCartNotFound):
		http.Error(w, "Cart not found", http.StatusNotFound)
	case errors.Is(err, services.ErrItemNotFound):
		http.Error(w, "Item not found in cart", http.StatusNotFound)
	default:
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}

// variantTarget reads the optional variant query parameter. Absent means
// "first item matching the product", present (even empty) targets the exact
// (product, variant) line.
func variantTarget(r *http.Request) *string {
	if !r.URL.Query().Has("variant") {
		return nil
	}
	v := r.URL.Query().Get("variant")
	return &v
}

// GetCart retrieves a customer's cart with resolved product details
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]
	if !authorizeCustomer(w, r, customerID) {
		return
	}

	cart, err := cc.Service.GetCart(r.Context(), customerID)
	if err != nil {
		writeCartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cart)
}

// AddToCart adds a product to a customer's cart, merging with an existing
// line when product and variant match
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.CustomerID == "" || req.ProductID == "" || req.Quantity <= 0 {
		http.Error(w, "Invalid input: customerId, productId and a positive quantity are required", http.StatusBadRequest)
		return
	}
	if !authorizeCustomer(w, r, req.CustomerID) {
		return
	}

	cart, err := cc.Service.AddItem(r.Context(), req.CustomerID, req.ProductID, req.Quantity, req.Variant)
	if err != nil {
		writeCartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cart)
}

// UpdateItemQuantity overwrites a line item's quantity; zero removes the item
func (cc *CartController) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID := vars["customerId"]
	productID := vars["productId"]
	if !authorizeCustomer(w, r, customerID) {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		http.Error(w, "Invalid quantity: quantity must be a non-negative number", http.StatusBadRequest)
		return
	}

	cart, err := cc.Service.SetItemQuantity(r.Context(), customerID, productID, *req.Quantity, variantTarget(r))
	if err != nil {
		writeCartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cart)
}

// RemoveFromCart removes a line item from a customer's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID := vars["customerId"]
	productID := vars["productId"]
	if !authorizeCustomer(w, r, customerID) {
		return
	}

	cart, err := cc.Service.RemoveItem(r.Context(), customerID, productID, variantTarget(r))
	if err != nil {
		writeCartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Item removed successfully",
		"cart":    cart,
	})
}

// ClearCart deletes a customer's entire cart document
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]
	if !authorizeCustomer(w, r, customerID) {
		return
	}

	if err := cc.Service.ClearCart(r.Context(), customerID); err != nil {
		writeCartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart cleared successfully"})
}
