package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/caiosarava/cadastramento/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents directly, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database { return f.db }

// CreateAccount inserts an account whose password is password.
func (f *Fixtures) CreateAccount(ctx context.Context, email, password string) models.Account {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	acct := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("accounts").InsertOne(ctx, acct); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return acct
}

// CreateGroup inserts a complete group owned by ownerID.
func (f *Fixtures) CreateGroup(ctx context.Context, ownerID primitive.ObjectID, name string) models.Group {
	f.t.Helper()
	now := time.Now().UTC()
	g := models.Group{
		ID:             primitive.NewObjectID(),
		OwnerID:        ownerID,
		GroupName:      name,
		GroupNameCI:    text.Fold(name),
		Representative: "Maria Souza",
		Email:          "grupo@test.com",
		Phone:          "(11) 98765-4321",
		City:           "São Paulo",
		State:          "SP",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateMembers inserts n members under groupID as one batch.
func (f *Fixtures) CreateMembers(ctx context.Context, groupID primitive.ObjectID, n int) []models.Member {
	f.t.Helper()
	now := time.Now().UTC()
	batch := primitive.NewObjectID().Hex()
	out := make([]models.Member, n)
	docs := make([]any, n)
	for i := range out {
		out[i] = SampleMember(i)
		out[i].ID = primitive.NewObjectID()
		out[i].GroupID = groupID
		out[i].BatchID = batch
		out[i].Position = i
		out[i].CreatedAt = now
		docs[i] = out[i]
	}
	if n == 0 {
		return out
	}
	if _, err := f.db.Collection("members").InsertMany(ctx, docs); err != nil {
		f.t.Fatalf("failed to create test members: %v", err)
	}
	return out
}

// SampleMember returns a valid member; i varies the name and CPF.
func SampleMember(i int) models.Member {
	return models.Member{
		Name:          []string{"Ana Lima", "Bruno Costa", "Carla Dias", "Davi Rocha"}[i%4],
		CPF:           []string{"123.456.789-00", "234.567.890-11", "345.678.901-22", "456.789.012-33"}[i%4],
		Phone:         "(11) 98765-4321",
		Gender:        "Feminino",
		Role:          "Artesão(ã)",
		HouseholdSize: 3,
	}
}
