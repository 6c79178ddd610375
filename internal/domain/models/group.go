// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is the collective registered by an account.
//
// NOTE:
//   - There is at most one group per owner (unique index on owner_id).
//     Saving the group form again updates this document in place.
//   - Members live in the members collection, keyed by group_id.
type Group struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	GroupName       string `bson:"group_name" json:"group_name"`
	GroupNameCI     string `bson:"group_name_ci" json:"-"`
	Representative  string `bson:"representative" json:"representative"`
	Email           string `bson:"email" json:"email"`
	Phone           string `bson:"phone" json:"phone"`
	City            string `bson:"city" json:"city"`
	State           string `bson:"state" json:"state"`
	HasHeadquarters bool   `bson:"has_headquarters" json:"has_headquarters"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
