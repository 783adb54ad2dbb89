package mongo

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/haguru/seedkit/internal/interfaces"
	"github.com/haguru/seedkit/internal/models"

	"github.com/go-viper/mapstructure/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	objectIDType = reflect.TypeOf(primitive.ObjectID{})
	dateTimeType = reflect.TypeOf(primitive.DateTime(0))
)

// MongoInvestorRepository is a read-only view over the investors collection.
type MongoInvestorRepository struct {
	dbClient   interfaces.DBClient
	collection string
}

// NewMongoInvestorRepository creates an investor repository over dbClient.
func NewMongoInvestorRepository(dbClient interfaces.DBClient) (*MongoInvestorRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &MongoInvestorRepository{dbClient: dbClient, collection: models.InvestorsCollection}, nil
}

func (r *MongoInvestorRepository) CollectionName() string {
	return r.collection
}

// ListCollectionNames returns every collection in the database, not only investors.
func (r *MongoInvestorRepository) ListCollectionNames(ctx context.Context) ([]string, error) {
	names, err := r.dbClient.ListCollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

func (r *MongoInvestorRepository) CountInvestors(ctx context.Context) (int64, error) {
	count, err := r.dbClient.CountDocuments(ctx, r.collection, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count investors: %w", err)
	}
	return count, nil
}

// ListInvestors returns every investor. There is no pagination.
func (r *MongoInvestorRepository) ListInvestors(ctx context.Context) ([]models.Investor, error) {
	docs, err := r.dbClient.FindMany(ctx, r.collection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list investors: %w", err)
	}

	investors := make([]models.Investor, 0, len(docs))
	for i, doc := range docs {
		investor, err := decodeInvestor(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode investor %d: %w", i, err)
		}
		investors = append(investors, investor)
	}
	return investors, nil
}

// decodeInvestor maps a raw document onto models.Investor.
func decodeInvestor(doc interfaces.Document) (models.Investor, error) {
	var investor models.Investor

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			objectIDToHexHook,
			bsonDateTimeHook,
		),
		Result:  &investor,
		TagName: "mapstructure",
	})
	if err != nil {
		return investor, err
	}

	if err := decoder.Decode(doc); err != nil {
		return investor, err
	}
	return investor, nil
}

func objectIDToHexHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from != objectIDType || to.Kind() != reflect.String {
		return data, nil
	}
	return data.(primitive.ObjectID).Hex(), nil
}

func bsonDateTimeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != timeType {
		return data, nil
	}
	switch from {
	case dateTimeType:
		return data.(primitive.DateTime).Time().UTC(), nil
	case timeType:
		return data, nil
	}
	return data, nil
}
