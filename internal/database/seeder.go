// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"devcamper-api-server/internal/auth"
	"devcamper-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates a default admin account if no admin user exists yet,
// so a fresh deployment can log in and manage users.
func SeedAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin user not found. Seeding...")
	hashedPassword, err := auth.HashPassword("admin123456")
	if err != nil {
		return err
	}

	admin := models.User{
		Name:      "Admin",
		Email:     "admin@devcamper.io",
		Role:      models.RoleAdmin,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}

	_, err = userCollection.InsertOne(context.Background(), admin)
	if err != nil {
		return err
	}

	log.Println("Admin user seeded successfully.")
	return nil
}
