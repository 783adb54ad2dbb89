package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/seedkit/internal/interfaces"
	"github.com/haguru/seedkit/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MAXLENGTH_USERNAME = 64 // Maximum length for username
	MAXLENGTH_EMAIL    = 254

	emailField    = "email"
	usernameField = "username"
)

// MongoAccountRepository implements interfaces.AccountRepository on top of
// the generic DBClient, scoped to the collection of one role.
type MongoAccountRepository struct {
	dbClient   interfaces.DBClient
	collection string
}

// NewMongoAccountRepository creates a repository for the accounts of role.
func NewMongoAccountRepository(dbClient interfaces.DBClient, role models.Role) (*MongoAccountRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	collection := role.Collection()
	if collection == "" {
		return nil, fmt.Errorf("unknown account role: %q", role)
	}
	return &MongoAccountRepository{dbClient: dbClient, collection: collection}, nil
}

// Collection returns the collection this repository reads and writes.
func (r *MongoAccountRepository) Collection() string {
	return r.collection
}

// FindByEmailOrUsername returns the first account whose email or username matches,
// or nil when there is none.
func (r *MongoAccountRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.Account, error) {
	if len(email) == 0 || len(email) > MAXLENGTH_EMAIL {
		return nil, fmt.Errorf("invalid email: must be between 1 and %d characters", MAXLENGTH_EMAIL)
	}
	if len(username) == 0 || len(username) > MAXLENGTH_USERNAME {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", MAXLENGTH_USERNAME)
	}

	filter := bson.M{"$or": []bson.M{
		{emailField: email},
		{usernameField: username},
	}}

	var account models.Account
	err := r.dbClient.FindOne(ctx, r.collection, filter, &account)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account in %s: %w", r.collection, err)
	}

	return &account, nil
}

// AddAccount inserts the account and returns its hex ObjectID.
// A unique-index rejection is returned wrapping interfaces.ErrDuplicateKey.
func (r *MongoAccountRepository) AddAccount(ctx context.Context, account models.Account) (string, error) {
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}

	insertedID, err := r.dbClient.InsertOne(ctx, r.collection, account)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return "", fmt.Errorf("account with email '%s' or username '%s' already exists: %w",
				account.Email, account.Username, err)
		}
		return "", fmt.Errorf("failed to add account to %s: %w", r.collection, err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// EnsureIndices creates the unique email and username indexes.
func (r *MongoAccountRepository) EnsureIndices(ctx context.Context) error {
	for _, field := range []string{emailField, usernameField} {
		indexModel := mongosdk.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if err := r.dbClient.EnsureSchema(ctx, r.collection, indexModel); err != nil {
			return fmt.Errorf("failed to ensure %s index on %s: %w", field, r.collection, err)
		}
	}
	return nil
}
