package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "equipbook/internal/bookings/errors"
	"equipbook/pkg/config"
	"equipbook/pkg/model"
)

// MongoStore mirrors a MongoDB collection through a change stream. Every
// stream event triggers a full snapshot reload, matching the whole-collection
// delivery the consumers are written against.
type MongoStore struct {
	cfg        *config.Config
	collection *mongo.Collection
	view       *view
}

func NewMongoStore(cfg *config.Config) *MongoStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &MongoStore{
		cfg:        cfg,
		collection: db.Collection(cfg.MongoCollection),
		view:       newView(),
	}
}

// Run loads the initial snapshot and follows the change stream until ctx is
// cancelled. A dropped stream is terminal: subscribers are released with
// ErrSyncLost rather than left on a frozen snapshot. Run does not retry.
func (s *MongoStore) Run(ctx context.Context) error {
	stream, err := s.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		syncErr := fmt.Errorf("%w: failed to open change stream: %w", bookingserrors.ErrSyncLost, err)
		s.view.fail(syncErr)
		return syncErr
	}
	defer stream.Close(context.Background())

	if err := s.reload(ctx); err != nil {
		syncErr := fmt.Errorf("%w: initial load failed: %w", bookingserrors.ErrSyncLost, err)
		s.view.fail(syncErr)
		return syncErr
	}

	for stream.Next(ctx) {
		if err := s.reload(ctx); err != nil {
			syncErr := fmt.Errorf("%w: snapshot reload failed: %w", bookingserrors.ErrSyncLost, err)
			s.view.fail(syncErr)
			return syncErr
		}
	}

	if ctx.Err() != nil {
		// Consumer-side teardown, not a feed failure.
		s.view.fail(bookingserrors.ErrStoreClosed)
		return nil
	}

	syncErr := fmt.Errorf("%w: change stream ended: %w", bookingserrors.ErrSyncLost, stream.Err())
	s.view.fail(syncErr)
	return syncErr
}

func (s *MongoStore) reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "start_time", Value: 1},
	})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var snapshot []model.Booking
	if err := cursor.All(ctx, &snapshot); err != nil {
		return fmt.Errorf("failed to decode bookings: %w", err)
	}

	s.view.apply(snapshot)
	return nil
}

func (s *MongoStore) Subscribe(fn UpdateFunc) (*Subscription, error) {
	return s.view.subscribe(fn)
}

func (s *MongoStore) Snapshot() []model.Booking {
	return s.view.current()
}

func (s *MongoStore) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreWriteTimeout)
	defer cancel()

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	// The ID is assigned here, not by the server, so _id stays a plain hex
	// string and snapshot decoding needs no custom codec.
	booking.ID = primitive.NewObjectID().Hex()

	if _, err := s.collection.InsertOne(ctx, booking); err != nil {
		booking.ID = ""
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *MongoStore) Remove(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreWriteTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}
