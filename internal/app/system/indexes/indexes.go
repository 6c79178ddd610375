// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll runs at startup. Each ensure* function is idempotent; problems are
collected so one bad collection does not hide another, and startup fails
when any remain.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureAccounts(ctx, db, logger); err != nil {
		problems = append(problems, "accounts: "+err.Error())
	}
	if err := ensureGroups(ctx, db, logger); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureMembers(ctx, db, logger); err != nil {
		problems = append(problems, "members: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// accounts: one account per email.
func ensureAccounts(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return ensureIndexSet(ctx, db.Collection("accounts"), logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_accounts_email").SetUnique(true),
		},
	})
}

// groups: at most one group per owner; the name index backs case-insensitive
// lookups from admin tooling.
func ensureGroups(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return ensureIndexSet(ctx, db.Collection("groups"), logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("uniq_groups_owner").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "group_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_groups_name_ci"),
		},
	})
}

// members: listed per group in creation order; replacement deletes by batch.
func ensureMembers(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return ensureIndexSet(ctx, db.Collection("members"), logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_members_group_created_pos"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "batch_id", Value: 1}},
			Options: options.Index().SetName("idx_members_group_batch"),
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Reconcile the wanted indexes of one collection                             */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listIndexes(ctx context.Context, coll *mongo.Collection, logger *zap.Logger) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			logger.Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates missing indexes and rebuilds ones whose name or
// uniqueness differs from what is wanted.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, logger *zap.Logger, want []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll, logger)
	if err != nil {
		// A collection that does not exist yet has no indexes to list.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range want {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := logger.With(zap.String("collection", coll.Name()), zap.String("name", name), zap.String("keys", sig))

		if ex, ok := existing[sig]; ok {
			if ex.Name == name && isUnique(ex.Unique) == unique {
				log.Debug("index up to date")
				continue
			}
			log.Info("rebuilding index", zap.String("from", ex.Name), zap.Bool("unique", unique))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s: %v", name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && wafflemongo.IsDup(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot build unique index, duplicates present on %s", name, sig))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		log.Info("index created", zap.Bool("unique", unique), zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
