package database

import (
	"context"
	"fmt"
	"time"

	"guidely/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a MongoDB connection and verifies it with a ping. The
// returned client is passed into each repository constructor; nothing in
// the engine reaches for a shared global handle.
func Connect(ctx context.Context) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Database returns the application database from a connected client.
func Database(client *mongo.Client) *mongo.Database {
	return client.Database(config.AppConfig.DatabaseName)
}
