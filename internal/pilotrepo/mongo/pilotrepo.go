package mongo

import (
	"context"
	"fmt"

	"github.com/medroute/pilot/internal/interfaces"
	"github.com/medroute/pilot/internal/models"
	mongoClient "github.com/medroute/pilot/pkg/databases/mongo"

	"go.mongodb.org/mongo-driver/bson"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPilotRepository implements PilotRepository using the generic DBClient.
type MongoPilotRepository struct {
	dbClient   interfaces.DBClient
	collection string
}

// NewMongoPilotRepository creates a new MongoDB repository instance writing to collection.
func NewMongoPilotRepository(dbClient interfaces.DBClient, collection string) (interfaces.PilotRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection cannot be empty")
	}
	return &MongoPilotRepository{dbClient: dbClient, collection: collection}, nil
}

// AddPilotRequest stores the request with its ID as the document _id.
func (r *MongoPilotRepository) AddPilotRequest(ctx context.Context, request models.PilotRequest) (string, error) {
	doc, err := request.Document()
	if err != nil {
		return "", err
	}
	doc[mongoClient.IDFIELD] = request.ID

	insertedID, err := r.dbClient.InsertOne(ctx, r.collection, doc)
	if err != nil {
		if mongosdk.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("pilot request '%s' already exists", request.ID)
		}
		return "", fmt.Errorf("failed to add pilot request to MongoDB: %w", err)
	}

	id, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string, got %T", insertedID)
	}
	return id, nil
}

// EnsureIndices creates a descending index on received_at so recent signups list quickly.
func (r *MongoPilotRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.D{{Key: models.FieldReceivedAt, Value: -1}},
		Options: options.Index().SetName("received_at_desc"),
	}
	return r.dbClient.EnsureSchema(ctx, r.collection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoPilotRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
