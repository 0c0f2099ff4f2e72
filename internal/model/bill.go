package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillDirection enum constants
const (
	DirectionFarmer = "FARMER" // mill buys cane from a farmer, pays given_money
	DirectionSeller = "SELLER" // mill sells to a seller, receives taken_money
)

// Bill records one weighed vehicle load. PartyName and PartyNumber are a
// snapshot of the party at creation time; later renames must not change
// historical bills. The party's bill history is derived by querying PartyID,
// never stored as a list on the party row.
type Bill struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Direction   string    `gorm:"type:varchar(20);not null;index" json:"direction"` // FARMER, SELLER
	PartyID     uuid.UUID `gorm:"type:uuid;not null;index" json:"party_id"`
	PartyName   string    `gorm:"type:varchar(255);not null" json:"party_name"`
	PartyNumber string    `gorm:"type:varchar(50);not null" json:"party_number"`

	DriverName       string `gorm:"type:varchar(255);not null" json:"driver_name"`
	VehicleType      string `gorm:"type:varchar(100);not null" json:"vehicle_type"`
	Cutter           string `gorm:"type:varchar(255);not null" json:"cutter"`
	SugarcaneQuality string `gorm:"type:varchar(100);not null" json:"sugarcane_quality"`
	PaymentType      string `gorm:"type:varchar(100);not null" json:"payment_type"`

	FilledVehicleWeight decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"filled_vehicle_weight"`
	EmptyVehicleWeight  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"empty_vehicle_weight"`
	BindingMaterial     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"binding_material"`
	OnlySugarcaneWeight decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"only_sugarcane_weight"`
	SugarcaneRate       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"sugarcane_rate"`

	TotalBill           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"totalBill"`
	CounterpartyPayment decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"counterparty_payment"` // given_money / taken_money
	RemainingMoney      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"remaining_money"`      // negative = overpayment

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
