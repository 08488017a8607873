// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"storefront/cartstore"
	"storefront/catalog"
	"storefront/controllers"
	"storefront/routes"
	"storefront/services"
	"storefront/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Pick the cart store backend
	var store cartstore.Store
	if os.Getenv("CART_STORE") == "redis" {
		redisStore := cartstore.NewRedisStore(os.Getenv("REDIS_ADDR"))
		if err := redisStore.Ping(context.Background()); err != nil {
			log.Fatalf("Error connecting to Redis: %v", err)
		}
		log.Println("Using Redis cart store")
		store = redisStore
	} else {
		store = cartstore.NewMongoStore(client)
	}

	cartService := services.NewCartService(store, catalog.NewMongoResolver(client))

	// Initialize controllers
	userController := controllers.NewUserController(client, emailService)
	productController := controllers.NewProductController(client)
	cartController := controllers.NewCartController(cartService)
	adminController := controllers.NewAdminController(client)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, adminController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
