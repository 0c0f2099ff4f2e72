package model

import (
	"time"

	"github.com/google/uuid"
)

// PartyVariant enum constants
const (
	VariantFarmer = "FARMER"
	VariantSeller = "SELLER"
)

// Party represents a counterparty of the mill: a farmer the mill buys cane
// from, or a seller the mill sells to. Both variants share one table; the
// variant column keeps their phone-number namespaces separate.
type Party struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Variant     string    `gorm:"type:varchar(20);not null;index;uniqueIndex:idx_party_variant_phone" json:"variant"` // FARMER, SELLER
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_party_variant_phone" json:"phone_number"`
	Bills       []Bill    `gorm:"foreignKey:PartyID" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
