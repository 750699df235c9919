package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "order_audit"

// Entry is one audit document per consumed order event.
type Entry struct {
	EventID    string    `bson:"event_id"`
	EventType  string    `bson:"event_type"`
	OrderID    string    `bson:"order_id"`
	UserID     string    `bson:"user_id,omitempty"`
	Payload    bson.M    `bson:"payload"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}, nil
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	e.RecordedAt = time.Now().UTC()
	_, err := s.coll.InsertOne(ctx, e)
	return err
}

// Trail returns the newest audit entries for an order.
func (s *Store) Trail(ctx context.Context, orderID string, limit int64) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Entry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
