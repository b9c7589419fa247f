package model

import (
	"time"

	"github.com/google/uuid"
)

type DonationStatus string

const (
	DonationStatusScheduled DonationStatus = "SCHEDULED"
	DonationStatusCompleted DonationStatus = "COMPLETED"
	DonationStatusCancelled DonationStatus = "CANCELLED"
)

// Donation is a scheduled or recorded blood donation
type Donation struct {
	Base
	DonorID          uuid.UUID      `json:"donor_id" db:"donor_id"`
	BloodInventoryID *uuid.UUID     `json:"blood_inventory_id,omitempty" db:"blood_inventory_id"`
	BloodType        *BloodType     `json:"blood_type,omitempty" db:"blood_type"`
	DonationDate     time.Time      `json:"donation_date" db:"donation_date"`
	Quantity         int            `json:"quantity" db:"quantity"`
	Status           DonationStatus `json:"status" db:"status"`
	Notes            string         `json:"notes,omitempty" db:"notes"`
}

type CreateDonationRequest struct {
	DonorID      uuid.UUID      `json:"donor_id" binding:"required"`
	BloodType    *BloodType     `json:"blood_type" binding:"omitempty,bloodtype"`
	DonationDate time.Time      `json:"donation_date" binding:"required"`
	Quantity     int            `json:"quantity" binding:"required,gt=0"`
	Status       DonationStatus `json:"status" binding:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED"`
	Notes        string         `json:"notes" binding:"max=1000"`
}

type UpdateDonationRequest struct {
	BloodType    *BloodType      `json:"blood_type" binding:"omitempty,bloodtype"`
	DonationDate *time.Time      `json:"donation_date"`
	Quantity     *int            `json:"quantity" binding:"omitempty,gt=0"`
	Status       *DonationStatus `json:"status" binding:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED"`
	Notes        *string         `json:"notes" binding:"omitempty,max=1000"`
}

type DonationFilter struct {
	DonorID uuid.UUID
	Status  DonationStatus
}

// StatusCounts holds total plus per-status sub-counts for one entity type
type StatusCounts struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}
