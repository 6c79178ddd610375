// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is one person registered under a Group.
//
// The member set of a group is always written as a whole. BatchID identifies
// the save that produced the document; Position keeps the order the rows had
// on the form.
type Member struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	BatchID string             `bson:"batch_id" json:"-"`

	Name       string `bson:"name" json:"name"`
	CPF        string `bson:"cpf" json:"cpf"`
	RG         string `bson:"rg,omitempty" json:"rg,omitempty"`
	BirthDate  string `bson:"birth_date,omitempty" json:"birth_date,omitempty"` // YYYY-MM-DD
	MotherName string `bson:"mother_name,omitempty" json:"mother_name,omitempty"`
	Phone      string `bson:"phone" json:"phone"`
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
	Address    string `bson:"address,omitempty" json:"address,omitempty"`
	CEP        string `bson:"cep,omitempty" json:"cep,omitempty"`
	Gender     string `bson:"gender" json:"gender"`
	Ethnicity  string `bson:"ethnicity,omitempty" json:"ethnicity,omitempty"`
	Education  string `bson:"education,omitempty" json:"education,omitempty"`
	Role       string `bson:"role" json:"role"`

	HouseholdSize int    `bson:"household_size" json:"household_size"`
	MonthlyIncome string `bson:"monthly_income,omitempty" json:"monthly_income,omitempty"`
	Products      string `bson:"products,omitempty" json:"products,omitempty"`
	RawMaterials  string `bson:"raw_materials,omitempty" json:"raw_materials,omitempty"`

	SolidarityNetwork    bool   `bson:"solidarity_network" json:"solidarity_network"`
	HasSecondaryActivity bool   `bson:"has_secondary_activity" json:"has_secondary_activity"`
	SecondaryActivity    string `bson:"secondary_activity,omitempty" json:"secondary_activity,omitempty"`

	Position  int       `bson:"position" json:"position"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
