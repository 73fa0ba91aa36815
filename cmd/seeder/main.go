// server/cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"devcamper-api-server/config"
	"devcamper-api-server/internal/database"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixture files live in _data/, keyed by the collection they fill.
var fixtures = map[string]string{
	"users":     "users.json",
	"bootcamps": "bootcamps.json",
	"courses":   "courses.json",
	"reviews":   "reviews.json",
}

func main() {
	importFlag := flag.Bool("import", false, "import fixture data into the database")
	destroyFlag := flag.Bool("destroy", false, "delete all data from the database")
	dataDir := flag.String("data", "./_data", "directory holding the fixture files")
	flag.Parse()

	if *importFlag == *destroyFlag {
		log.Fatal("Use exactly one of -import or -destroy")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	client, db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	if *destroyFlag {
		destroyData(db)
		return
	}

	importData(db, *dataDir)
}

func importData(db *mongo.Database, dataDir string) {
	for collection, filename := range fixtures {
		documents, err := loadFixture(filepath.Join(dataDir, filename))
		if err != nil {
			log.Fatalf("Could not load %s: %v", filename, err)
		}

		if len(documents) == 0 {
			continue
		}

		_, err = db.Collection(collection).InsertMany(context.Background(), documents)
		if err != nil {
			log.Fatalf("Could not import %s: %v", collection, err)
		}

		log.Printf("Imported %d documents into %s", len(documents), collection)
	}

	log.Println("Data imported.")
}

func destroyData(db *mongo.Database) {
	for collection := range fixtures {
		_, err := db.Collection(collection).DeleteMany(context.Background(), bson.M{})
		if err != nil {
			log.Fatalf("Could not destroy %s: %v", collection, err)
		}
		log.Printf("Destroyed %s", collection)
	}

	log.Println("Data destroyed.")
}

// loadFixture reads an array of extended-JSON documents ($oid, $date).
func loadFixture(path string) ([]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rawDocuments []json.RawMessage
	if err := json.Unmarshal(data, &rawDocuments); err != nil {
		return nil, err
	}

	documents := make([]interface{}, 0, len(rawDocuments))
	for _, raw := range rawDocuments {
		var document bson.M
		if err := bson.UnmarshalExtJSON(raw, false, &document); err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, nil
}
