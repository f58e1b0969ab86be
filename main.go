package main

import (
	"log"
	"strings"

	"github.com/eshop-labs/eshop-backend-go/checkout"
	"github.com/eshop-labs/eshop-backend-go/config"
	"github.com/eshop-labs/eshop-backend-go/database"
	"github.com/eshop-labs/eshop-backend-go/events"
	"github.com/eshop-labs/eshop-backend-go/handlers"
	"github.com/eshop-labs/eshop-backend-go/routes"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Connect to MongoDB
	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	stores := store.NewStores(store.NewMongoClient(db))

	// Kafka publishing is optional; unset KAFKA_BROKERS disables it.
	var publisher *events.Publisher
	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher = events.NewPublisher(strings.Split(brokers, ","))
		defer publisher.Close()
	}

	workflow := checkout.New(stores, publisher)
	h := handlers.New(stores, workflow, publisher)

	// Setup routes
	routes.SetupRoutes(e, h)

	// Start the server
	port := config.GetEnv("PORT", "3000")
	e.Logger.Fatal(e.Start(":" + port))
}
