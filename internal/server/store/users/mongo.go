package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/radiantlabs/cyberboy/internal/model/account"
)

// MongoStore implements Store on a MongoDB collection with a unique
// index on email.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore binds the store to the "users" collection and ensures
// the uniqueness index exists.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection("users")

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure email index: %w", err)
	}

	return &MongoStore{coll: coll}, nil
}

// Create inserts the user, assigning an id when absent.
func (s *MongoStore) Create(ctx context.Context, user account.User) (account.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return account.User{}, ErrEmailTaken
		}
		return account.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// FindByEmail looks up a user by email.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (account.User, error) {
	var user account.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return account.User{}, ErrNotFound
		}
		return account.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Delete removes the user with the given id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
