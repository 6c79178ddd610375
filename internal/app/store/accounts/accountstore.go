// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"time"

	"github.com/caiosarava/cadastramento/internal/app/system/normalize"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	ErrNotFound       = errors.New("account not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// Create inserts an account. email is normalized; passwordHash must already
// be a bcrypt hash.
func (s *Store) Create(ctx context.Context, email, passwordHash string) (models.Account, error) {
	now := time.Now().UTC()
	a := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, err
	}
	return a, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// TouchLogin records a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": now}})
	return err
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}
