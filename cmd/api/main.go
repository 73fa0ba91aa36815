// server/cmd/api/main.go
package main

import (
	"context"
	"log"

	"devcamper-api-server/config"
	"devcamper-api-server/internal/api/routes"
	"devcamper-api-server/internal/database"
	"devcamper-api-server/internal/geocoder"
	"devcamper-api-server/internal/mailer"
	"devcamper-api-server/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load environment variables and configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Connect to MongoDB
	client, db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	// 3. Create indexes the handlers rely on
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Could not create indexes: %v", err)
	}

	// 4. Make sure an admin account exists
	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("Could not seed admin user: %v", err)
	}

	// 5. Initialize the external collaborators
	emailService := mailer.NewEmailService(cfg.Email)
	geo := geocoder.New(cfg.Geocoder)

	photoStore, err := storage.NewPhotoStore(cfg)
	if err != nil {
		log.Fatalf("Could not initialize photo storage: %v", err)
	}

	// 6. Wire the router and start the server
	router := routes.SetupRouter(cfg, db, emailService, geo, photoStore)

	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
