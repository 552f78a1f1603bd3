package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accountd/account-service/internal/core/domain"
	"github.com/accountd/account-service/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// Insert persists one auth event to the audit collection.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := bson.M{
		"email":       event.Email,
		"action":      string(event.Action),
		"success":     event.Success,
		"recorded_at": event.RecordedAt.UTC(),
	}
	if event.UserID != "" {
		doc["user_id"] = event.UserID
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

type mongoAuthEvent struct {
	UserID     string    `bson:"user_id,omitempty"`
	Email      string    `bson:"email"`
	Action     string    `bson:"action"`
	Success    bool      `bson:"success"`
	RemoteIP   string    `bson:"remote_ip,omitempty"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// ListRecent returns up to limit events, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int64) ([]*domain.AuthEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.AuthEvent
	for cur.Next(ctx) {
		var me mongoAuthEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode auth event: %w", err)
		}
		events = append(events, &domain.AuthEvent{
			UserID:     me.UserID,
			Email:      me.Email,
			Action:     domain.AuthAction(me.Action),
			Success:    me.Success,
			RemoteIP:   me.RemoteIP,
			RecordedAt: me.RecordedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	return events, nil
}
