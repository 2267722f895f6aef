package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/schooldesk/schooldesk/storage"
)

// Client owns one lazily-established, reused connection to the MongoDB
// deployment and hands out named collections within the bound database.
type Client struct {
	mu     sync.Mutex
	uri    string
	dbName string
	logger *slog.Logger

	client *mongo.Client
	db     *mongo.Database
}

// NewClient creates a Client for the given connection string and database
// name. No connection is attempted until Ensure is called.
func NewClient(uri, dbName string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{uri: uri, dbName: dbName, logger: logger}
}

// Ensure establishes the connection and binds the database if that has not
// happened yet. It is idempotent: once a connection succeeded, repeated
// calls are no-ops. Connection errors are propagated and no retry is
// attempted here.
func (c *Client) Ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.uri))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping %s: %w", c.uri, err)
	}

	c.client = client
	c.db = client.Database(c.dbName)
	c.logger.Info("connected to document store", "database", c.dbName)
	return nil
}

// Collection returns a handle to a named collection within the bound
// database. Returns storage.ErrNotConnected before a successful Ensure.
func (c *Client) Collection(name string) (*mongo.Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil, storage.ErrNotConnected
	}
	return c.db.Collection(name), nil
}

// Disconnect releases the connection. Idempotent when already disconnected.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	c.db = nil
	return err
}
