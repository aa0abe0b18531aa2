package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

const (
	resetEventsCollection = "password_reset_events"
	resetEventsRetention  = 90 * 24 * time.Hour
)

// ResetAuditRepository implements ports.ResetAuditLog using MongoDB.
type ResetAuditRepository struct {
	db *mongo.Database
}

// NewResetAuditRepository creates a new ResetAuditRepository.
func NewResetAuditRepository(db *mongo.Database) *ResetAuditRepository {
	return &ResetAuditRepository{db: db}
}

// InsertEvent persists a reset event to the audit collection.
func (r *ResetAuditRepository) InsertEvent(ctx context.Context, event *domain.ResetEvent) error {
	doc := bson.M{
		"user_id":     event.UserID,
		"kind":        string(event.Kind),
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.ExpiresAt != nil {
		doc["expires_at"] = event.ExpiresAt.UTC()
	}

	_, err := r.db.Collection(resetEventsCollection).InsertOne(ctx, doc)
	return err
}

// EnsureIndexes expires audit entries after the retention period.
func (r *ResetAuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{
			Keys:    bson.D{{Key: "recorded_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(resetEventsRetention.Seconds())),
		},
	}

	_, err := r.db.Collection(resetEventsCollection).Indexes().CreateMany(ctx, indexes)
	return err
}
