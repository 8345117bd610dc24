package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okian/dailyword/internal/domain/model"
)

// Mongo connection defaults.
const (
	defaultMongoDatabase   = "dailyword"
	wordsCollection        = "words"
	mongoConnectTimeout    = 30 * time.Second
	mongoServerSelectLimit = 10 * time.Second
	mongoPingTimeout       = 10 * time.Second
)

// MongoStore implements Backend over a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	words  *mongo.Collection
}

// OpenMongo connects to uri, pings the server and ensures indexes on the
// words collection of database (default "dailyword").
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultMongoDatabase
	}

	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetServerSelectionTimeout(mongoServerSelectLimit)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		words:  client.Database(database).Collection(wordsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.words.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "active_date", Value: 1}}},
		{Keys: bson.D{{Key: "times_used", Value: 1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure word indexes: %w", err)
	}
	return nil
}

var poolSort = bson.D{{Key: "times_used", Value: 1}, {Key: "_id", Value: 1}}

// FindByActiveDate implements Store.
func (s *MongoStore) FindByActiveDate(ctx context.Context, date string) (model.WordRecord, error) {
	var rec model.WordRecord
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := s.words.FindOne(ctx, bson.M{"active_date": date}, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.WordRecord{}, ErrNotFound
	}
	if err != nil {
		return model.WordRecord{}, fmt.Errorf("find by active date: %w", err)
	}
	return rec, nil
}

// ListCandidates implements Store.
func (s *MongoStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.WordRecord, error) {
	q := bson.M{
		"times_used": bson.M{"$lt": filter.UsageBelow},
		"$or": bson.A{
			bson.M{"active_date": nil},
			bson.M{"last_used_date": nil},
			bson.M{"last_used_date": bson.M{"$lt": filter.StaleBefore}},
		},
	}
	return s.find(ctx, q, poolSort)
}

// ListNeverActive implements Store.
func (s *MongoStore) ListNeverActive(ctx context.Context) ([]model.WordRecord, error) {
	return s.find(ctx, bson.M{"active_date": nil}, poolSort)
}

// List implements Provisioner.
func (s *MongoStore) List(ctx context.Context) ([]model.WordRecord, error) {
	return s.find(ctx, bson.M{}, bson.D{{Key: "_id", Value: 1}})
}

func (s *MongoStore) find(ctx context.Context, q any, sort bson.D) ([]model.WordRecord, error) {
	cur, err := s.words.Find(ctx, q, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	var out []model.WordRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}
	return out, nil
}

// SumTimesUsed implements Store.
func (s *MongoStore) SumTimesUsed(ctx context.Context) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$times_used"}}},
		}}},
	}
	cur, err := s.words.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum times used: %w", err)
	}
	var res []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return 0, fmt.Errorf("sum times used: %w", err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return int(res[0].Total), nil
}

// UpdateAssignment implements Store as a single-document update.
func (s *MongoStore) UpdateAssignment(ctx context.Context, id string, a Assignment) error {
	res, err := s.words.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"active_date":    a.ActiveDate,
		"last_used_date": a.LastUsedDate,
		"times_used":     a.TimesUsed,
	}})
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Upsert implements Provisioner. New documents start with zero usage;
// existing ones only get their words refreshed.
func (s *MongoStore) Upsert(ctx context.Context, records []model.WordRecord) (int, error) {
	inserted := 0
	for _, r := range records {
		if err := validateRecord(r); err != nil {
			return inserted, err
		}
		res, err := s.words.UpdateOne(ctx,
			bson.M{"_id": r.ID},
			bson.M{
				"$set": bson.M{
					"word_primary":   r.WordPrimary,
					"word_secondary": r.WordSecondary,
				},
				"$setOnInsert": bson.M{
					"active_date":    nil,
					"last_used_date": nil,
					"times_used":     0,
				},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return inserted, fmt.Errorf("upsert %s: %w", r.ID, err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// Close implements Backend.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoPingTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
