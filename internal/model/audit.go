package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegisterParty = "REGISTER_PARTY"
	ActionUpdateParty   = "UPDATE_PARTY"
	ActionDeleteParty   = "DELETE_PARTY"
	ActionCreateBill    = "CREATE_BILL"
	ActionDeleteBill    = "DELETE_BILL"
	ActionShareBill     = "SHARE_BILL"
)

// AuditLog tracks Who, What, and When for ledger and registry mutations
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID    *uuid.UUID `gorm:"type:uuid;index" json:"admin_id"` // nil on the open (unauthenticated) endpoints
	Admin      *Admin     `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
