package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect dials MongoDB and verifies connectivity with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// ConnectFromEnv dials MongoDB using MONGO_URI and returns the database plus
// a cleanup function. When MONGO_URI is missing or the connection fails, it
// logs and returns nil with a no-op cleanup.
func ConnectFromEnv(ctx context.Context, logger *slog.Logger) (*mongo.Database, func()) {
	uri := strings.TrimSpace(os.Getenv("MONGO_URI"))
	if uri == "" {
		if logger != nil {
			logger.Warn("MONGO_URI not set, falling back to in-memory repositories")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, uri)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to mongo, falling back to in-memory repositories", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	name := strings.TrimSpace(os.Getenv("MONGO_DATABASE"))
	if name == "" {
		name = "market"
	}
	if logger != nil {
		logger.Info("mongo connection established", slog.String("database", name))
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client.Database(name), cleanup
}
