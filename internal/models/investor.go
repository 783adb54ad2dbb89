package models

import "time"

const InvestorsCollection = "investors"

// Investor is a read-only view of an investor profile.
type Investor struct {
	ID              string    `bson:"_id,omitempty" mapstructure:"_id"`
	Name            string    `bson:"name" mapstructure:"name"`
	Firm            string    `bson:"firm" mapstructure:"firm"`
	Email           string    `bson:"email" mapstructure:"email"`
	PhoneNumber     string    `bson:"phoneNumber" mapstructure:"phoneNumber"`
	InvestmentRange string    `bson:"investmentRange" mapstructure:"investmentRange"`
	FocusAreas      []string  `bson:"focusAreas" mapstructure:"focusAreas"`
	Background      string    `bson:"background" mapstructure:"background"`
	ProfilePicture  string    `bson:"profilePicture,omitempty" mapstructure:"profilePicture"`
	CreatedAt       time.Time `bson:"createdAt" mapstructure:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" mapstructure:"updatedAt"`
}
