package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/event-registry/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStore keeps events in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

type mongoEvent struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Location    string        `bson:"location"`
	Date        string        `bson:"date,omitempty"`
	Likes       int64         `bson:"likes"`
}

func (d mongoEvent) toModel() models.Event {
	return models.Event{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Date:        d.Date,
		Likes:       d.Likes,
	}
}

// NewMongoStore connects to uri and pings the primary before returning.
func NewMongoStore(ctx context.Context, uri, dbName, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &MongoStore{
		client: client,
		col:    client.Database(dbName).Collection(collection),
	}, nil
}

// List returns every document in natural order.
func (s *MongoStore) List(ctx context.Context) ([]models.Event, error) {
	cur, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	var events []models.Event
	for cur.Next(ctx) {
		var doc mongoEvent
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, doc.toModel())
	}
	return events, cur.Err()
}

// Add inserts the event and returns the hex form of its ObjectID.
func (s *MongoStore) Add(ctx context.Context, event models.Event) (string, error) {
	res, err := s.col.InsertOne(ctx, mongoEvent{
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Date:        event.Date,
		Likes:       event.Likes,
	})
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// AdjustLikes applies the clamped delta with a single pipeline update.
func (s *MongoStore) AdjustLikes(ctx context.Context, id string, delta int64) (int64, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("event %q: %w", id, ErrNotFound)
	}

	// likes = max(0, ifNull(likes, 0) + delta)
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "likes", Value: bson.D{{Key: "$max", Value: bson.A{
			int64(0),
			bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$likes", int64(0)}}},
				delta,
			}}},
		}}}}}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoEvent
	err = s.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("update likes: %w", err)
	}
	return doc.Likes, nil
}

// Count returns the exact number of documents.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.D{})
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
