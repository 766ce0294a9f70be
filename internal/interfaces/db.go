package interfaces

import "context"

// Document is a generic interface to represent data that can be stored
// and retrieved from the database. It could be a struct, a map[string]interface{},
// or any type that can be marshaled by the specific database driver.
type Document interface{}

// DBClient defines the interface for a generic database client.
// It abstracts the write path shared by the MongoDB and PostgreSQL backends.
type DBClient interface {
	// Connect establishes a connection to the database.
	// It takes a context for cancellation and timeouts, and a DSN (Data Source Name) string.
	Connect(ctx context.Context, dsn string) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// InsertOne inserts a single document into the specified collection/table
	// and returns the ID of the inserted document.
	InsertOne(ctx context.Context, collectionName string, document Document) (interface{}, error)

	// Ping checks the health of the database connection.
	Ping(ctx context.Context) error

	// EnsureSchema prepares the collection/table for writes. The schema argument is
	// backend specific: a mongo.IndexModel for MongoDB, a DDL statement for PostgreSQL.
	EnsureSchema(ctx context.Context, collectionName string, schema Document) error
}
