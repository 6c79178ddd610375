// Package recordstore adapts the group and member stores to the record
// interface the registration workflow consumes.
package recordstore

import (
	"context"
	"time"

	groupstore "github.com/caiosarava/cadastramento/internal/app/store/groups"
	memberstore "github.com/caiosarava/cadastramento/internal/app/store/members"
	"github.com/caiosarava/cadastramento/internal/app/system/metrics"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Records implements registration.Records on MongoDB. Every call is bounded
// by the configured timeouts and timed into the gateway histogram.
type Records struct {
	groups  *groupstore.Store
	members *memberstore.Store
	m       *metrics.Metrics
}

func New(db *mongo.Database, logger *zap.Logger, m *metrics.Metrics) *Records {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Records{
		groups:  groupstore.New(db),
		members: memberstore.New(db, logger),
		m:       m,
	}
}

func (r *Records) FindGroupByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Group, error) {
	defer r.m.ObserveGateway("find_group", time.Now())
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	return r.groups.GetByOwner(ctx, ownerID)
}

func (r *Records) UpsertGroup(ctx context.Context, ownerID primitive.ObjectID, g models.Group) (models.Group, error) {
	defer r.m.ObserveGateway("upsert_group", time.Now())
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	return r.groups.UpsertByOwner(ctx, ownerID, g)
}

func (r *Records) FindMembers(ctx context.Context, groupID primitive.ObjectID) ([]models.Member, error) {
	defer r.m.ObserveGateway("find_members", time.Now())
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	return r.members.ListByGroup(ctx, groupID)
}

func (r *Records) ReplaceMembers(ctx context.Context, groupID primitive.ObjectID, members []models.Member) error {
	defer r.m.ObserveGateway("replace_members", time.Now())
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	return r.members.ReplaceForGroup(ctx, groupID, members)
}
