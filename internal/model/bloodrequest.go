package model

import (
	"time"

	"github.com/google/uuid"
)

type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusFulfilled RequestStatus = "FULFILLED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// BloodRequest is a recipient's ask for blood of a given type
type BloodRequest struct {
	Base
	RequesterID      uuid.UUID     `json:"requester_id" db:"requester_id"`
	BloodInventoryID *uuid.UUID    `json:"blood_inventory_id,omitempty" db:"blood_inventory_id"`
	BloodType        BloodType     `json:"blood_type" db:"blood_type"`
	Quantity         int           `json:"quantity" db:"quantity"`
	Urgency          Urgency       `json:"urgency" db:"urgency"`
	Status           RequestStatus `json:"status" db:"status"`
	Notes            string        `json:"notes,omitempty" db:"notes"`
	RequestDate      time.Time     `json:"request_date" db:"request_date"`
	FulfilledDate    *time.Time    `json:"fulfilled_date,omitempty" db:"fulfilled_date"`
}

type CreateBloodRequestRequest struct {
	BloodType BloodType `json:"blood_type" binding:"required,bloodtype"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	Urgency   Urgency   `json:"urgency" binding:"omitempty,oneof=LOW NORMAL HIGH CRITICAL"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type UpdateBloodRequestRequest struct {
	BloodInventoryID *uuid.UUID     `json:"blood_inventory_id"`
	BloodType        *BloodType     `json:"blood_type" binding:"omitempty,bloodtype"`
	Quantity         *int           `json:"quantity" binding:"omitempty,gt=0"`
	Urgency          *Urgency       `json:"urgency" binding:"omitempty,oneof=LOW NORMAL HIGH CRITICAL"`
	Status           *RequestStatus `json:"status" binding:"omitempty,oneof=PENDING APPROVED FULFILLED REJECTED CANCELLED"`
	Notes            *string        `json:"notes" binding:"omitempty,max=1000"`
}

type BloodRequestFilter struct {
	RequesterID uuid.UUID
	Status      RequestStatus
	Urgency     Urgency
}
