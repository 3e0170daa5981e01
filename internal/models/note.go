package models

import "gorm.io/gorm"

type Note struct {
	gorm.Model

	Title  string `gorm:"not null"`
	Body   string
	Status string `gorm:"not null;default:public"` // "public" or "private"

	// Ownership never transfers after creation.
	UserID uint `gorm:"not null;index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
