package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sharanyeole/tickerhound/internal/config"
	"github.com/sharanyeole/tickerhound/internal/types"
)

// MongoStore keeps company documents in a MongoDB collection. All
// writes are single conditional updates; the quarter-uniqueness
// invariant is enforced by the AppendQuarter filter, not by a schema
// constraint.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	opTimeout  time.Duration
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and returns a store bound to the
// configured database and collection.
func NewMongoStore(cfg *config.Store, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		opTimeout:  cfg.OpTimeout,
		logger:     logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *MongoStore) FindByCompany(ctx context.Context, name string) (*types.CompanyRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var rec types.CompanyRecord
	err := s.collection.FindOne(ctx, bson.M{"company_name": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrCompanyNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "find_by_company", Err: err}
	}
	return &rec, nil
}

func (s *MongoStore) FindBySymbol(ctx context.Context, symbol string) (*types.CompanyRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var rec types.CompanyRecord
	err := s.collection.FindOne(ctx, bson.M{"symbol": symbol}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrCompanyNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "find_by_symbol", Err: err}
	}
	return &rec, nil
}

func (s *MongoStore) SearchByName(ctx context.Context, fragment string) ([]types.CompanyRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"company_name": primitive.Regex{
		Pattern: regexp.QuoteMeta(fragment),
		Options: "i",
	}}

	cur, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, &types.StoreError{Op: "search_by_name", Err: err}
	}
	defer cur.Close(ctx)

	var recs []types.CompanyRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, &types.StoreError{Op: "search_by_name", Err: err}
	}
	return recs, nil
}

func (s *MongoStore) HasQuarter(ctx context.Context, company, quarter string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"company_name":              company,
		"financial_metrics.quarter": quarter,
	}
	n, err := s.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, &types.StoreError{Op: "has_quarter", Err: err}
	}
	return n > 0, nil
}

func (s *MongoStore) InsertCompany(ctx context.Context, rec *types.CompanyRecord) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		return &types.StoreError{Op: "insert_company", Err: err}
	}
	s.logger.Debug("company inserted", "company", rec.CompanyName)
	return nil
}

// AppendQuarter pushes in one conditional update: the filter only
// matches when the quarter label is absent from the metrics array, so
// two racing crawls cannot both append the same quarter.
func (s *MongoStore) AppendQuarter(ctx context.Context, company string, metric types.QuarterMetric) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"company_name":              company,
		"financial_metrics.quarter": bson.M{"$ne": metric.Quarter},
	}
	update := bson.M{"$push": bson.M{"financial_metrics": metric}}

	res, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, &types.StoreError{Op: "append_quarter", Err: err}
	}
	return res.ModifiedCount > 0, nil
}

// SetEstimates targets the matching array element with the positional
// operator so every other field of the quarter is left untouched.
func (s *MongoStore) SetEstimates(ctx context.Context, company, quarter, estimates string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"company_name":              company,
		"financial_metrics.quarter": quarter,
	}
	update := bson.M{"$set": bson.M{"financial_metrics.$.estimates": estimates}}

	res, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, &types.StoreError{Op: "set_estimates", Err: err}
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) SetSymbol(ctx context.Context, company, symbol string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.collection.UpdateOne(ctx,
		bson.M{"company_name": company},
		bson.M{"$set": bson.M{"symbol": symbol}},
	)
	if err != nil {
		return false, &types.StoreError{Op: "set_symbol", Err: err}
	}
	return res.MatchedCount > 0, nil
}

// EnsureIndexes creates the lookup indexes downstream readers depend
// on. company_name is unique; symbol is not, since unresolved records
// share "NA".
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "company_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "symbol", Value: 1}},
		},
	})
	if err != nil {
		return &types.StoreError{Op: "ensure_indexes", Err: err}
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
