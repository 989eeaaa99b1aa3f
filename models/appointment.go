package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment.
//
// Legal transitions:
//
//	requested → confirmed  (authorize, slot must be free)
//	requested → completed  (attend)
//	confirmed → completed  (attend)
//	requested → cancelled
//	confirmed → cancelled
//
// completed and cancelled are terminal.
type Status string

const (
	StatusRequested Status = "requested"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Action is a staff-requested status change.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// IsActive reports whether the status counts toward slot collision.
// Only requested and confirmed appointments occupy their slot.
func (s Status) IsActive() bool {
	return s == StatusRequested || s == StatusConfirmed
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next returns the status an action leads to from s, and whether the edge
// is legal. It is pure: slot-conflict preconditions are checked elsewhere.
func (s Status) Next(a Action) (Status, bool) {
	switch a {
	case ActionConfirm:
		if s == StatusRequested {
			return StatusConfirmed, true
		}
	case ActionComplete:
		if s.IsActive() {
			return StatusCompleted, true
		}
	case ActionCancel:
		if s.IsActive() {
			return StatusCancelled, true
		}
	}
	return s, false
}

// Appointment is a patient booking for a single (date, time-of-day) slot.
type Appointment struct {
	BaseModel
	Reference   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PatientName string    `gorm:"type:varchar(120);not null"`
	Phone       string    `gorm:"type:varchar(30)"`
	Service     string    `gorm:"type:varchar(100);not null"`
	Date        time.Time `gorm:"type:date;not null;index:idx_appointments_slot"`
	TimeOfDay   string    `gorm:"type:varchar(5);not null;index:idx_appointments_slot"`
	Note        string    `gorm:"type:text"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'requested';index"`
}

// SlotLabel formats the slot for user-facing notices, e.g. "01/06/2024 09:00".
func (a *Appointment) SlotLabel() string {
	return a.Date.Format("02/01/2006") + " " + a.TimeOfDay
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD form value into a date-only time.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// ParseTimeOfDay validates an HH:MM form value and returns it normalized.
func ParseTimeOfDay(value string) (string, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}
