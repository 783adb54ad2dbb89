package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrNoDocuments is returned by FindOne when the filter matches nothing.
	ErrNoDocuments = errors.New("no documents in result")
	// ErrDuplicateKey is returned by InsertOne when a unique index rejects the document.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Document is a generic interface to represent data that can be stored
// and retrieved from the database. It could be a struct, a bson.M,
// or any type that can be marshaled/unmarshaled by the database driver.
type Document interface{}

// DBClient defines the interface for a document database client.
type DBClient interface {
	// Connect establishes a connection to the database.
	// It takes a context for cancellation and timeouts, and a DSN (Data Source Name) string.
	// Returns an error if the connection fails.
	Connect(ctx context.Context, dsn string) error

	// Disconnect closes the database connection.
	// It is safe to call after a failed Connect.
	Disconnect(ctx context.Context) error

	// InsertOne inserts a single document into the specified collection.
	// Returns the ID of the inserted document and an error wrapping
	// ErrDuplicateKey when a unique index rejects it.
	InsertOne(ctx context.Context, collectionName string, document Document) (interface{}, error)

	// FindOne retrieves a single document from the specified collection
	// that matches the provided filter and decodes it into 'result'.
	// Returns an error wrapping ErrNoDocuments if nothing matches.
	FindOne(ctx context.Context, collectionName string, filter Document, result Document) error

	// FindMany retrieves every document in the specified collection
	// that matches the provided filter.
	FindMany(ctx context.Context, collectionName string, filter Document) ([]Document, error)

	// CountDocuments returns the number of documents matching the filter.
	CountDocuments(ctx context.Context, collectionName string, filter Document) (int64, error)

	// ListCollectionNames returns the names of every collection in the database.
	ListCollectionNames(ctx context.Context) ([]string, error)

	// EnsureSchema applies a driver-specific schema definition (an index
	// model for MongoDB) to the specified collection.
	EnsureSchema(ctx context.Context, collectionName string, schema Document) error
}
