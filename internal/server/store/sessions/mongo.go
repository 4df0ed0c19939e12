package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
)

// MongoStore implements Store on the "sessions" collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore binds the store to the "sessions" collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("sessions")}
}

// Create inserts the session, assigning id and startedAt defaults.
func (s *MongoStore) Create(ctx context.Context, session telemetry.Session) (telemetry.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	if session.Activity == nil {
		session.Activity = []string{}
	}

	if _, err := s.coll.InsertOne(ctx, session); err != nil {
		return telemetry.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

// List returns all stored sessions.
func (s *MongoStore) List(ctx context.Context) ([]telemetry.Session, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := []telemetry.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// Update applies the patch to the session with the given id and
// returns the updated document.
func (s *MongoStore) Update(ctx context.Context, id string, patch telemetry.SessionPatch) (telemetry.Session, error) {
	set := bson.M{}
	if patch.UserID != nil {
		set["userId"] = *patch.UserID
	}
	if patch.EndedAt != nil {
		set["endedAt"] = *patch.EndedAt
	}
	if patch.Activity != nil {
		set["activity"] = *patch.Activity
	}

	if len(set) == 0 {
		// Nothing to change; fetch the current document so callers
		// still learn whether the id exists.
		var session telemetry.Session
		err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return telemetry.Session{}, ErrNotFound
		}
		if err != nil {
			return telemetry.Session{}, fmt.Errorf("failed to find session: %w", err)
		}
		return session, nil
	}

	var session telemetry.Session
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return telemetry.Session{}, ErrNotFound
		}
		return telemetry.Session{}, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}
