package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role selects which collection an account belongs to.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

const (
	AdminsCollection = "admins"
	UsersCollection  = "users"
)

// Collection returns the collection holding accounts of this role,
// or an empty string for an unknown role.
func (r Role) Collection() string {
	switch r {
	case RoleAdmin:
		return AdminsCollection
	case RoleUser:
		return UsersCollection
	default:
		return ""
	}
}

func (r Role) String() string {
	return string(r)
}

// Account is the stored shape shared by admin and user records.
// Password always holds a bcrypt hash.
type Account struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	FullName          string             `bson:"fullName" mapstructure:"fullName" validate:"required"`
	Email             string             `bson:"email" mapstructure:"email" validate:"required,email"`
	Username          string             `bson:"username" mapstructure:"username" validate:"required"`
	Password          string             `bson:"password" mapstructure:"password" validate:"required"`
	IsProfileComplete bool               `bson:"isProfileComplete" mapstructure:"isProfileComplete"`
	CreatedAt         time.Time          `bson:"createdAt" mapstructure:"createdAt"`
}

// NewAccount creates an account with an incomplete profile.
// Note: No validation is performed here.
func NewAccount(fullName, email, username, hashedPassword string, createdAt time.Time) *Account {
	return &Account{
		FullName:          fullName,
		Email:             email,
		Username:          username,
		Password:          hashedPassword,
		IsProfileComplete: false,
		CreatedAt:         createdAt,
	}
}
