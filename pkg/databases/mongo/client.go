package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haguru/seedkit/config"
	"github.com/haguru/seedkit/internal/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"
)

// logical operators allowed at the top level of a filter
var allowedOperators = map[string]bool{
	"$or":  true,
	"$and": true,
}

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	defaultDatabase  string
	timeout          time.Duration
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
	logger           interfaces.Logger
}

// NewMongoDB returns a interface for db client and error if it occurs
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) (interfaces.DBClient, error) {
	if dbConfig == nil {
		return nil, fmt.Errorf("MongoDBClient: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("MongoDBClient: logger cannot be nil")
	}

	db := &MongoDBClient{
		timeout:          dbConfig.Timeout,
		defaultDatabase:  dbConfig.DatabaseName,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.Options),
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		validFields:      config.ListToMap(dbConfig.ValidFields),
		logger:           logger,
	}

	return db, nil
}

// Connect establishes a connection to the MongoDB database using the provided DSN (Data Source Name).
// The DSN should be in the format "mongodb://<host>:<port>/<database>"; when the path carries
// no database the configured database name is used instead.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	// Validate the DSN format
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	databaseName, err := databaseNameFromDSN(dsn, m.defaultDatabase)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %v", err)
	}

	m.logger.Info("Connecting to MongoDB", "host", redactDSN(dsn), "database", databaseName)

	// Set a timeout for the connection
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	clientOptions := options.Client().ApplyURI(dsn)

	// Set the server API options if provided
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())
	if m.timeout > 0 {
		clientOptions.SetServerSelectionTimeout(m.timeout)
	}

	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to create client: %w", err)
	}

	// Check if the connection is successful by pinging the server
	m.logger.Debug("Pinging MongoDB server")
	if err = m.Ping(ctx); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %w", err)
	}
	m.logger.Info("Connected to MongoDB", "database", databaseName)

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
// It is a no-op when Connect never produced a client.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	m.logger.Info("Disconnecting from MongoDB")
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

// InsertOne inserts a document and returns its ID.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	// Avoid printing sensitive information like passwords
	m.logger.Debug("Inserting one", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	sanitizedDocument, err := m.sanitizeDocument(document)
	if err != nil {
		return nil, err
	}

	res, err := m.db.Collection(collectionName).InsertOne(ctx, sanitizedDocument)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("MongoDBClient: %w in %s: %v", interfaces.ErrDuplicateKey, collectionName, err)
		}
		return nil, fmt.Errorf("MongoDBClient: Failed to insert one into %s: %w", collectionName, err)
	}

	return res.InsertedID, nil
}

// FindOne retrieves a single document from the specified collection using a filter.
// It decodes the result into the provided variable and returns an error wrapping
// interfaces.ErrNoDocuments if no document is found.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	sanitizedFilter, err := m.sanitizeFilter(filter)
	if err != nil {
		return err
	}
	m.logger.Debug("Finding one", "collection", collectionName, "filter", sanitizedFilter)

	err = m.db.Collection(collectionName).FindOne(ctx, sanitizedFilter).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("MongoDBClient: %w in %s", interfaces.ErrNoDocuments, collectionName)
		}
		return fmt.Errorf("MongoDBClient: Failed to find one in %s: %w", collectionName, err)
	}

	return nil
}

// FindMany retrieves every matching document from the specified collection.
// Documents are returned as bson.M.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document) ([]interfaces.Document, error) {
	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	sanitizedFilter, err := m.sanitizeFilter(filter)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("Finding many", "collection", collectionName, "filter", sanitizedFilter)

	cursor, err := m.db.Collection(collectionName).Find(ctx, sanitizedFilter)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Finding many in %s failed: %w", collectionName, err)
	}

	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Failed to close cursor", "collection", collectionName, "error", err)
		}
	}()

	var results []interfaces.Document
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("MongoDBClient: Failed to decode cursor: %w", err)
		}
		results = append(results, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("MongoDBClient: Cursor error in %s: %w", collectionName, err)
	}

	return results, nil
}

// CountDocuments counts the documents in the collection matching the filter.
func (m *MongoDBClient) CountDocuments(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	sanitizedFilter, err := m.sanitizeFilter(filter)
	if err != nil {
		return 0, err
	}

	count, err := m.db.Collection(collectionName).CountDocuments(ctx, sanitizedFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed to count documents in %s: %w", collectionName, err)
	}
	return count, nil
}

// ListCollectionNames lists every collection in the connected database.
func (m *MongoDBClient) ListCollectionNames(ctx context.Context) ([]string, error) {
	if m.db == nil {
		return nil, fmt.Errorf("MongoDBClient is not connected to a database")
	}

	names, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Failed to list collections: %w", err)
	}
	return names, nil
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected")
	}
	return m.client.Ping(ctx, readpref.Primary())
}

// EnsureSchema creates the required index on the specified collection using the provided mongo.IndexModel.
// If the collection does not exist, it will be created automatically.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB, got %T", schema)
	}

	_, err := m.db.Collection(collectionName).Indexes().CreateOne(ctx, model)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to create index on %s: %w", collectionName, err)
	}
	return nil
}

func (m *MongoDBClient) checkCollection(collectionName string) error {
	if collectionName == "" {
		return fmt.Errorf("MongoDBClient: Collection name cannot be empty")
	}
	if !m.validCollections[collectionName] {
		return fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	return nil
}

// sanitizeDocument strips the ID field, unknown fields and any key containing
// '$' or '.' from map documents. Struct documents are passed through as the
// driver encodes them from their bson tags.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) (interfaces.Document, error) {
	if document == nil {
		return nil, fmt.Errorf("MongoDBClient: Document cannot be nil")
	}

	docMap, ok := asMap(document)
	if !ok {
		return document, nil
	}

	sanitized := bson.M{}
	for key, value := range docMap {
		if key == IDFIELD {
			continue
		}
		if !m.isSafeField(key) {
			m.logger.Warn("Skipping invalid or unsafe field name", "field", key)
			continue
		}
		sanitized[key] = value
	}

	return sanitized, nil
}

// sanitizeFilter keeps allow-listed fields and the $or/$and operators whose
// operands are themselves sanitised. A nil filter matches everything.
func (m *MongoDBClient) sanitizeFilter(filter interfaces.Document) (bson.M, error) {
	if filter == nil {
		return bson.M{}, nil
	}

	filterMap, ok := asMap(filter)
	if !ok {
		return nil, fmt.Errorf("MongoDBClient: Filter must be a bson.M or map[string]interface{}, got %T", filter)
	}

	sanitized := bson.M{}
	for key, value := range filterMap {
		if allowedOperators[key] {
			clauses, err := m.sanitizeClauses(value)
			if err != nil {
				return nil, err
			}
			sanitized[key] = clauses
			continue
		}
		if !m.isSafeField(key) {
			m.logger.Warn("Skipping invalid or unsafe filter field", "field", key)
			continue
		}
		sanitized[key] = value
	}

	return sanitized, nil
}

func (m *MongoDBClient) sanitizeClauses(value interface{}) (bson.A, error) {
	var raw []interface{}
	switch v := value.(type) {
	case []bson.M:
		for _, clause := range v {
			raw = append(raw, clause)
		}
	case []map[string]interface{}:
		for _, clause := range v {
			raw = append(raw, clause)
		}
	case bson.A:
		raw = v
	case []interface{}:
		raw = v
	default:
		return nil, fmt.Errorf("MongoDBClient: Logical operator expects an array of filters, got %T", value)
	}

	clauses := bson.A{}
	for _, clause := range raw {
		sanitized, err := m.sanitizeFilter(clause)
		if err != nil {
			return nil, err
		}
		if len(sanitized) == 0 {
			continue
		}
		clauses = append(clauses, sanitized)
	}
	if len(clauses) == 0 {
		return nil, fmt.Errorf("MongoDBClient: Logical operator has no valid clauses")
	}
	return clauses, nil
}

func (m *MongoDBClient) isSafeField(key string) bool {
	return m.validFields[key] && !strings.ContainsAny(key, "$.")
}

func asMap(document interfaces.Document) (map[string]interface{}, bool) {
	switch d := document.(type) {
	case bson.M:
		return d, true
	case map[string]interface{}:
		return d, true
	default:
		return nil, false
	}
}

// databaseNameFromDSN extracts the database name from a MongoDB DSN,
// falling back to fallback when the path is empty.
func databaseNameFromDSN(dsn, fallback string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	// If the path contains additional segments (e.g., /db/collection), use only the first as the database name.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}
	if dbName == "" {
		dbName = fallback
	}
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path and no default configured")
	}

	return dbName, nil
}

// redactDSN drops credentials from a DSN so it can be logged.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<unparseable dsn>"
	}
	return u.Host
}
