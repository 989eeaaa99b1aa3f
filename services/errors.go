package services

import (
	"fmt"

	"citadental.pe/models"
)

// AppointmentServiceError is a simple sentinel kind for service failures
// that carry no payload.
type AppointmentServiceError string

func (e AppointmentServiceError) Error() string { return string(e) }

const (
	// ErrAppointmentNotFound means the id resolved to no record.
	ErrAppointmentNotFound AppointmentServiceError = "appointment not found"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func validationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StateError reports an action that is illegal for the current status.
// The record is left untouched.
type StateError struct {
	Status models.Status
	Action models.Action
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s an appointment in status %s", e.Action, e.Status)
}

// SlotConflictError reports that an active appointment already occupies
// the requested slot. Occupant is always set.
type SlotConflictError struct {
	Occupant *models.Appointment
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s already taken by %s (appointment %d)",
		e.Occupant.SlotLabel(), e.Occupant.PatientName, e.Occupant.ID)
}
