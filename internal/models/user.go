package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	DisplayName string `gorm:"not null"`
	FirstName   string
	LastName    string
	Email       string `gorm:"uniqueIndex;not null"`

	// Empty for federated identities; local login is unavailable for them.
	PasswordHash string

	// External identity-provider subject, set on federated sign-in.
	ProviderID      string `gorm:"index"`
	ProviderProfile datatypes.JSON

	// Relationships
	Notes []Note `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
