package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/medroute/pilot/config"
	"github.com/medroute/pilot/internal/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"

	disconnectTimeout = 5 * time.Second
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	timeout          time.Duration
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
}

// NewMongoDB returns a client restricted to the given collections and document fields.
// Connect must be called before any other method.
func NewMongoDB(dbConfig *config.Database, validCollections, validFields []string) interfaces.DBClient {
	return &MongoDBClient{
		timeout:          dbConfig.Timeout,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.MongoDB.Options),
		validCollections: config.ListToMap(validCollections),
		validFields:      config.ListToMap(validFields),
	}
}

// NewMongoDBFromDatabase wraps an already connected database handle.
func NewMongoDBFromDatabase(db *mongo.Database, validCollections, validFields []string) *MongoDBClient {
	return &MongoDBClient{
		client:           db.Client(),
		db:               db,
		validCollections: config.ListToMap(validCollections),
		validFields:      config.ListToMap(validFields),
	}
}

// Connect establishes a connection to the MongoDB database using the provided DSN.
// The DSN must be in the format "mongodb://<host>:<port>/<database>"; the path selects
// the active database.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	databaseName, err := getDBNameFromMongoDSN(dsn)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %w", err)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	clientOptions := options.Client().ApplyURI(dsn)

	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		disconnectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %w", err)
	}

	m.client = client
	m.db = client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}

	return nil
}

// InsertOne inserts a document and returns its ID.
// Only whitelisted fields are written; see sanitizeDocument.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	if collectionName == "" {
		return nil, fmt.Errorf("MongoDBClient: Collection name cannot be empty")
	}

	if !m.validCollections[collectionName] {
		return nil, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	sanitizedDocument, err := m.sanitizeDocument(document)
	if err != nil {
		return nil, err
	}

	res, err := m.db.Collection(collectionName).InsertOne(ctx, sanitizedDocument)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Failed to insert one into %s: %w", collectionName, err)
	}

	return res.InsertedID, nil
}

// Ping checks the health of the MongoDB connection.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected")
	}
	return m.client.Ping(ctx, nil)
}

// EnsureSchema creates the given mongo.IndexModel on collectionName.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB")
	}

	_, err := m.db.Collection(collectionName).Indexes().CreateOne(ctx, model)
	return err
}

func getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path")
	}

	// only the first path segment names the database
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}

// sanitizeDocument keeps only whitelisted keys that cannot be read as query operators
// or dotted paths, guarding against NoSQL injection.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) (map[string]interface{}, error) {
	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("MongoDBClient: document must be map[string]interface{}, got %T", document)
	}

	sanitized := make(map[string]interface{}, len(docMap))
	for key, value := range docMap {
		if !m.validFields[key] || strings.ContainsAny(key, "$.") {
			continue
		}
		sanitized[key] = value
	}

	return sanitized, nil
}
