// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"fmt"
	"time"

	"github.com/caiosarava/cadastramento/internal/app/system/txn"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{db: db, c: db.Collection("members"), log: logger}
}

// ListByGroup returns the group's members in creation order.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "position", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Member{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// ReplaceForGroup makes members the group's whole member set.
//
// The new rows are written under a fresh batch id before rows from earlier
// batches are deleted. If either step fails the new batch is removed again,
// so readers see the old set or the new one, never a mix and never nothing.
// An empty members slice deletes every row of the group.
func (s *Store) ReplaceForGroup(ctx context.Context, groupID primitive.ObjectID, members []models.Member) error {
	batch := uuid.NewString()
	now := time.Now().UTC()

	docs := make([]any, len(members))
	for i, m := range members {
		m.ID = primitive.NewObjectID()
		m.GroupID = groupID
		m.BatchID = batch
		m.Position = i
		m.CreatedAt = now
		docs[i] = m
	}

	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if len(docs) > 0 {
			if _, err := s.c.InsertMany(ctx, docs); err != nil {
				s.discard(ctx, groupID, batch)
				return fmt.Errorf("insert members: %w", err)
			}
		}
		_, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID, "batch_id": bson.M{"$ne": batch}})
		if err != nil {
			s.discard(ctx, groupID, batch)
			return fmt.Errorf("delete previous members: %w", err)
		}
		return nil
	})
}

// discard removes a partially written batch. Inside an aborted transaction
// this fails harmlessly; the abort already dropped the rows.
func (s *Store) discard(ctx context.Context, groupID primitive.ObjectID, batch string) {
	if _, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID, "batch_id": batch}); err != nil {
		s.log.Debug("discard member batch", zap.String("batch_id", batch), zap.Error(err))
	}
}
