// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/caiosarava/cadastramento/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByOwner returns the owner's group, or nil when there is none.
func (s *Store) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertByOwner creates the owner's group or overwrites its editable fields.
// Identity and created_at never change once set.
func (s *Store) UpsertByOwner(ctx context.Context, ownerID primitive.ObjectID, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"group_name":       g.GroupName,
			"group_name_ci":    text.Fold(g.GroupName),
			"representative":   g.Representative,
			"email":            g.Email,
			"phone":            g.Phone,
			"city":             g.City,
			"state":            g.State,
			"has_headquarters": g.HasHeadquarters,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Group
	err := s.c.FindOneAndUpdate(ctx, bson.M{"owner_id": ownerID}, update, opts).Decode(&out)
	if wafflemongo.IsDup(err) {
		// Two first saves raced on the owner_id index; the loser updates.
		err = s.c.FindOneAndUpdate(ctx, bson.M{"owner_id": ownerID}, update, opts).Decode(&out)
	}
	if err != nil {
		return models.Group{}, err
	}
	return out, nil
}
