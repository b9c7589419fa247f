package model

import (
	"time"

	"github.com/google/uuid"
)

type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

func (b BloodType) Valid() bool {
	for _, t := range BloodTypes {
		if b == t {
			return true
		}
	}
	return false
}

type InventoryStatus string

const (
	InventoryStatusAvailable InventoryStatus = "AVAILABLE"
	InventoryStatusReserved  InventoryStatus = "RESERVED"
	InventoryStatusUsed      InventoryStatus = "USED"
	InventoryStatusExpired   InventoryStatus = "EXPIRED"
)

// ShelfLife is how long donated whole blood stays usable.
const ShelfLife = 42 * 24 * time.Hour

// BloodInventory is one tracked quantity of a blood type
type BloodInventory struct {
	Base
	BloodType  BloodType       `json:"blood_type" db:"blood_type"`
	Quantity   int             `json:"quantity" db:"quantity"`
	ExpiryDate time.Time       `json:"expiry_date" db:"expiry_date"`
	Status     InventoryStatus `json:"status" db:"status"`
	DonationID *uuid.UUID      `json:"donation_id,omitempty" db:"donation_id"`
}

type CreateInventoryRequest struct {
	BloodType  BloodType       `json:"blood_type" binding:"required,bloodtype"`
	Quantity   int             `json:"quantity" binding:"required,gt=0"`
	ExpiryDate time.Time       `json:"expiry_date" binding:"required"`
	Status     InventoryStatus `json:"status" binding:"omitempty,oneof=AVAILABLE RESERVED USED EXPIRED"`
}

type UpdateInventoryRequest struct {
	BloodType  *BloodType       `json:"blood_type" binding:"omitempty,bloodtype"`
	Quantity   *int             `json:"quantity" binding:"omitempty,gt=0"`
	ExpiryDate *time.Time       `json:"expiry_date"`
	Status     *InventoryStatus `json:"status" binding:"omitempty,oneof=AVAILABLE RESERVED USED EXPIRED"`
}

type InventoryFilter struct {
	BloodType BloodType       `form:"blood_type" binding:"omitempty,bloodtype"`
	Status    InventoryStatus `form:"status" binding:"omitempty,oneof=AVAILABLE RESERVED USED EXPIRED"`
}

// TypeQuantity is an aggregation row for the dashboard
type TypeQuantity struct {
	BloodType BloodType `json:"blood_type" db:"blood_type"`
	Quantity  int       `json:"quantity" db:"quantity"`
}
