package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is a booked donation-center visit
type Appointment struct {
	Base
	UserID          uuid.UUID         `json:"user_id" db:"user_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Notes           string            `json:"notes,omitempty" db:"notes"`
}

type CreateAppointmentRequest struct {
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
	Notes           string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *time.Time         `json:"appointment_date"`
	Status          *AppointmentStatus `json:"status" binding:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED"`
	Notes           *string            `json:"notes" binding:"omitempty,max=1000"`
}

type AppointmentFilter struct {
	UserID    uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
