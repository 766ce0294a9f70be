package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/medroute/pilot/config"
	"github.com/medroute/pilot/internal/interfaces"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second
)

// PostgresDatabaseClient implements the DBClient interface for PostgreSQL databases.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int           // MaxOpenConns is the maximum number of open connections to the database
	MaxIdleConns    int           // MaxIdleConns is the maximum number of idle connections to the database
	ConnMaxLifetime time.Duration // ConnMaxLifetime is the maximum amount of time a connection may be reused
}

// NewPostgresDatabaseClient creates an unconnected client; zero pool settings use the defaults.
func NewPostgresDatabaseClient(opts config.PostgresServerOptions) interfaces.DBClient {
	client := &PostgresDatabaseClient{
		MaxOpenConns:    opts.MaxOpenConns,
		MaxIdleConns:    opts.MaxIdleConns,
		ConnMaxLifetime: opts.ConnMaxLifetime,
	}
	if client.MaxOpenConns <= 0 {
		client.MaxOpenConns = DefaultMaxOpenConns
	}
	if client.MaxIdleConns <= 0 {
		client.MaxIdleConns = DefaultMaxIdleConns
	}
	if client.ConnMaxLifetime <= 0 {
		client.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return client
}

// NewPostgresDatabaseClientFromDB wraps an already opened *sql.DB.
func NewPostgresDatabaseClientFromDB(db *sql.DB) *PostgresDatabaseClient {
	return &PostgresDatabaseClient{db: db}
}

// Connect establishes a connection to a PostgreSQL database.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}
	return p.attach(ctx, db)
}

// attach applies the pool settings and keeps db only if it answers a ping.
func (p *PostgresDatabaseClient) attach(ctx context.Context, db *sql.DB) error {
	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}
	p.db = db
	return nil
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// InsertOne inserts a single document into a PostgreSQL table.
// 'document' is expected to be a map[string]interface{}; an "id" is generated when absent.
// Columns are written in sorted order so the statement text is stable.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document interfaces.Document) (interface{}, error) {
	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL InsertOne expects document to be map[string]interface{}")
	}
	if p.db == nil {
		return nil, fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}

	if _, exists := docMap["id"]; !exists {
		docMap["id"] = uuid.New().String()
	}

	columns := make([]string, 0, len(docMap))
	for col := range docMap {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	quoted := make([]string, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	values := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		quoted = append(quoted, pq.QuoteIdentifier(col))
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		values = append(values, docMap[col])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		pq.QuoteIdentifier(tableName),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	) // #nosec G201

	var insertedID interface{}
	err := p.db.QueryRowContext(ctx, query, values...).Scan(&insertedID)
	if err != nil {
		return nil, err
	}
	if b, ok := insertedID.([]byte); ok {
		return string(b), nil
	}
	return insertedID, nil
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return p.db.PingContext(ctx)
}

// EnsureSchema executes the DDL statement passed as schema. tableName is only used in errors.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, tableName string, schema interfaces.Document) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}

	createStmt, ok := schema.(string)
	if !ok || createStmt == "" {
		return fmt.Errorf("EnsureSchema expects a DDL statement string for table %s", tableName)
	}
	if _, err := p.db.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("failed to ensure schema for table %s: %w", tableName, err)
	}
	return nil
}
