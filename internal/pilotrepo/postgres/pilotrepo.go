package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq" // PostgreSQL driver for database/sql

	"github.com/medroute/pilot/internal/interfaces"
	"github.com/medroute/pilot/internal/models"
)

const uniqueViolation = "23505"

// PostgresPilotRepository implements PilotRepository for PostgreSQL databases.
type PostgresPilotRepository struct {
	dbClient interfaces.DBClient
	table    string
}

// NewPostgresPilotRepository creates a new PostgreSQL repository instance writing to table.
func NewPostgresPilotRepository(dbClient interfaces.DBClient, table string) (interfaces.PilotRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if table == "" {
		return nil, fmt.Errorf("table cannot be empty")
	}
	return &PostgresPilotRepository{dbClient: dbClient, table: table}, nil
}

// AddPilotRequest saves a new pilot request to PostgreSQL via DBClient.
func (r *PostgresPilotRepository) AddPilotRequest(ctx context.Context, request models.PilotRequest) (string, error) {
	doc, err := request.Document()
	if err != nil {
		return "", err
	}
	doc[models.FieldID] = request.ID

	insertedID, err := r.dbClient.InsertOne(ctx, r.table, doc)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("pilot request '%s' already exists", request.ID)
		}
		return "", fmt.Errorf("failed to add pilot request to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID), got %T", insertedID)
	}
	return strID, nil
}

// EnsureIndices creates the pilot request table and its received_at index.
func (r *PostgresPilotRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, r.table, CreateTableStatement(r.table))
}

// Close closes the PostgreSQL database connection.
func (r *PostgresPilotRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

// CreateTableStatement returns the idempotent DDL for a pilot request table.
func CreateTableStatement(table string) string {
	quoted := pq.QuoteIdentifier(table)
	index := pq.QuoteIdentifier(table + "_received_at_idx")
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id UUID PRIMARY KEY,
	org TEXT NOT NULL,
	contact TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	city TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	received_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS %s ON %s (received_at DESC);`, quoted, index, quoted) // #nosec G201
}
