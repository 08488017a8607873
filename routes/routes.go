// routes/routes.go
package routes

import (
	"storefront/controllers"
	"storefront/middleware"
	"storefront/models"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, adminController *controllers.AdminController) {
	api := router.PathPrefix("/api").Subrouter()

	// Auth routes (public)
	api.HandleFunc("/auth/register", userController.Register).Methods("POST")
	api.HandleFunc("/auth/login", userController.Login).Methods("POST")
	api.HandleFunc("/auth/verify", userController.VerifyEmail).Methods("GET")

	// Profile
	profile := api.PathPrefix("/profile").Subrouter()
	profile.Use(middleware.AuthMiddleware)
	profile.HandleFunc("", userController.GetProfile).Methods("GET")

	// Product routes (reads are public)
	api.HandleFunc("/products", productController.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Product writes require a seller or admin token
	sellerProducts := api.PathPrefix("/products").Subrouter()
	sellerProducts.Use(middleware.AuthMiddleware)
	sellerProducts.Use(middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
	sellerProducts.HandleFunc("", productController.CreateProduct).Methods("POST")
	sellerProducts.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	sellerProducts.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	// Cart routes; handlers additionally check cart ownership
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(middleware.AuthMiddleware)
	cart.HandleFunc("", cartController.AddToCart).Methods("POST")
	cart.HandleFunc("/{customerId}", cartController.GetCart).Methods("GET")
	cart.HandleFunc("/{customerId}/clear", cartController.ClearCart).Methods("DELETE")
	cart.HandleFunc("/{customerId}/item/{productId}", cartController.UpdateItemQuantity).Methods("PATCH")
	cart.HandleFunc("/{customerId}/item/{productId}", cartController.RemoveFromCart).Methods("DELETE")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/users", adminController.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", adminController.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", adminController.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/stats", adminController.GetStats).Methods("GET")
}
