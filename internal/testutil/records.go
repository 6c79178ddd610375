package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/caiosarava/cadastramento/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRecords is an in-memory record store for workflow and handler tests.
// Set the Fail* fields to make the matching call return that error.
type MemoryRecords struct {
	mu      sync.Mutex
	groups  map[primitive.ObjectID]models.Group
	members map[primitive.ObjectID][]models.Member

	FailFind    error
	FailUpsert  error
	FailReplace error

	Upserts  int
	Replaces int
}

// NewMemoryRecords returns an empty store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{
		groups:  map[primitive.ObjectID]models.Group{},
		members: map[primitive.ObjectID][]models.Member{},
	}
}

func (m *MemoryRecords) FindGroupByOwner(_ context.Context, ownerID primitive.ObjectID) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFind != nil {
		return nil, m.FailFind
	}
	g, ok := m.groups[ownerID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *MemoryRecords) UpsertGroup(_ context.Context, ownerID primitive.ObjectID, g models.Group) (models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpsert != nil {
		return models.Group{}, m.FailUpsert
	}
	m.Upserts++
	now := time.Now().UTC()
	if cur, ok := m.groups[ownerID]; ok {
		g.ID, g.CreatedAt = cur.ID, cur.CreatedAt
	} else {
		g.ID, g.CreatedAt = primitive.NewObjectID(), now
	}
	g.OwnerID = ownerID
	g.UpdatedAt = now
	m.groups[ownerID] = g
	return g, nil
}

func (m *MemoryRecords) FindMembers(_ context.Context, groupID primitive.ObjectID) ([]models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFind != nil {
		return nil, m.FailFind
	}
	out := append([]models.Member(nil), m.members[groupID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryRecords) ReplaceMembers(_ context.Context, groupID primitive.ObjectID, members []models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReplace != nil {
		return m.FailReplace
	}
	m.Replaces++
	now := time.Now().UTC()
	out := make([]models.Member, len(members))
	for i, mem := range members {
		mem.ID = primitive.NewObjectID()
		mem.GroupID = groupID
		mem.CreatedAt = now
		out[i] = mem
	}
	m.members[groupID] = out
	return nil
}

// PutGroup seeds a group for ownerID and returns it.
func (m *MemoryRecords) PutGroup(ownerID primitive.ObjectID, g models.Group) models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	g.OwnerID = ownerID
	m.groups[ownerID] = g
	return g
}

// PutMembers seeds the member set of groupID.
func (m *MemoryRecords) PutMembers(groupID primitive.ObjectID, members []models.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range members {
		members[i].GroupID = groupID
		members[i].Position = i
	}
	m.members[groupID] = members
}

// MemorySession is a Session held in memory.
type MemorySession struct {
	ID      string
	SetErr  error
	Cleared bool
}

func (s *MemorySession) Get() (string, bool) { return s.ID, s.ID != "" }

func (s *MemorySession) Set(id string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.ID = id
	return nil
}

func (s *MemorySession) Clear() error {
	s.ID = ""
	s.Cleared = true
	return nil
}
