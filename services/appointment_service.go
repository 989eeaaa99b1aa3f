package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"citadental.pe/configs"
	"citadental.pe/configs/configslog"
	"citadental.pe/models"
	"citadental.pe/pkg/whatsapp"
	"citadental.pe/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingInput is the raw form submission for a new appointment, public or
// staff-entered. Date and TimeOfDay arrive as strings and are parsed here.
type BookingInput struct {
	PatientName string
	Phone       string
	Service     string
	Date        string
	TimeOfDay   string
	Note        string
}

// IAppointmentService is the scheduling core: it decides whether a slot
// may be taken and which status changes are legal, with the repository as
// its only collaborator. Persistence failures pass through unchanged.
type IAppointmentService interface {
	CreateRequest(ctx context.Context, input BookingInput) (*models.Appointment, error)
	CreateConfirmed(ctx context.Context, input BookingInput) (*models.Appointment, error)
	HasConflict(ctx context.Context, date time.Time, timeOfDay string, excludeID *uint) (*models.Appointment, error)
	Authorize(ctx context.Context, id uint) (*models.Appointment, string, error)
	Attend(ctx context.Context, id uint) (*models.Appointment, error)
	Cancel(ctx context.Context, id uint) (*models.Appointment, error)
	Delete(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	ListRecent(ctx context.Context, limit int) ([]models.Appointment, error)
}

// AppointmentService implements IAppointmentService.
type AppointmentService struct {
	repo     repositories.IAppointmentRepository
	notifier whatsapp.LinkBuilder
}

// NewAppointmentService wires the service against the shared database and
// the configured clinic details.
func NewAppointmentService() IAppointmentService {
	cfg := configs.Get()
	return &AppointmentService{
		repo: repositories.NewAppointmentRepository(),
		notifier: whatsapp.LinkBuilder{
			ClinicName:    cfg.ClinicName,
			ClinicAddress: cfg.ClinicAddress,
			CountryCode:   cfg.PhoneCountryCode,
		},
	}
}

// validateBooking checks required fields and parses date and time into
// typed values. The returned appointment is not yet persisted.
func validateBooking(input BookingInput) (*models.Appointment, error) {
	name := strings.TrimSpace(input.PatientName)
	if name == "" {
		return nil, validationError("patient_name", "is required")
	}
	service := strings.TrimSpace(input.Service)
	if service == "" {
		return nil, validationError("service", "is required")
	}
	if strings.TrimSpace(input.Date) == "" {
		return nil, validationError("date", "is required")
	}
	date, err := models.ParseDate(strings.TrimSpace(input.Date))
	if err != nil {
		return nil, validationError("date", "must be YYYY-MM-DD")
	}
	if strings.TrimSpace(input.TimeOfDay) == "" {
		return nil, validationError("time", "is required")
	}
	timeOfDay, err := models.ParseTimeOfDay(strings.TrimSpace(input.TimeOfDay))
	if err != nil {
		return nil, validationError("time", "must be HH:MM")
	}

	return &models.Appointment{
		Reference:   uuid.New(),
		PatientName: name,
		Phone:       strings.TrimSpace(input.Phone),
		Service:     service,
		Date:        date,
		TimeOfDay:   timeOfDay,
		Note:        strings.TrimSpace(input.Note),
		Status:      models.StatusRequested,
	}, nil
}

// HasConflict returns the active appointment occupying (date, timeOfDay),
// excluding excludeID when given, or nil when the slot is free. Cancelled
// and completed history never blocks a slot.
//
// Two requested appointments may share a slot: collision is enforced when
// one of them is authorized, not at request time. Tightening that is a
// product decision, and this is the place to make it.
func (s *AppointmentService) HasConflict(ctx context.Context, date time.Time, timeOfDay string, excludeID *uint) (*models.Appointment, error) {
	occupants, err := s.repo.FindBySlot(ctx, date, timeOfDay)
	if err != nil {
		return nil, err
	}
	for i := range occupants {
		if excludeID != nil && occupants[i].ID == *excludeID {
			continue
		}
		if occupants[i].Status.IsActive() {
			return &occupants[i], nil
		}
	}
	return nil, nil
}

// CreateRequest validates a public booking submission and stores it with
// status requested.
func (s *AppointmentService) CreateRequest(ctx context.Context, input BookingInput) (*models.Appointment, error) {
	appointment, err := validateBooking(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	configslog.SLog.Infof("booking request stored: id=%d patient=%s slot=%s",
		appointment.ID, appointment.PatientName, appointment.SlotLabel())
	return appointment, nil
}

// CreateConfirmed is the staff direct-entry path: conflict check and
// creation compose into one operation, and on conflict nothing is stored.
func (s *AppointmentService) CreateConfirmed(ctx context.Context, input BookingInput) (*models.Appointment, error) {
	appointment, err := validateBooking(input)
	if err != nil {
		return nil, err
	}
	occupant, err := s.HasConflict(ctx, appointment.Date, appointment.TimeOfDay, nil)
	if err != nil {
		return nil, err
	}
	if occupant != nil {
		return nil, &SlotConflictError{Occupant: occupant}
	}
	appointment.Status = models.StatusConfirmed
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	configslog.SLog.Infof("appointment added by staff: id=%d patient=%s slot=%s",
		appointment.ID, appointment.PatientName, appointment.SlotLabel())
	return appointment, nil
}

// transition loads the appointment, applies one legal status edge and
// saves it. Illegal edges fail with *StateError and touch nothing.
func (s *AppointmentService) transition(ctx context.Context, id uint, action models.Action) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	next, ok := appointment.Status.Next(action)
	if !ok {
		return nil, &StateError{Status: appointment.Status, Action: action}
	}

	if action == models.ActionConfirm {
		// Re-check right before the write; the slot may have been taken
		// since the listing was rendered.
		occupant, err := s.HasConflict(ctx, appointment.Date, appointment.TimeOfDay, &appointment.ID)
		if err != nil {
			return nil, err
		}
		if occupant != nil {
			return nil, &SlotConflictError{Occupant: occupant}
		}
	}

	appointment.Status = next
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Authorize moves a requested appointment to confirmed when its slot is
// free, and returns the WhatsApp notification link. Link building is
// best-effort: an empty link never fails the transition.
func (s *AppointmentService) Authorize(ctx context.Context, id uint) (*models.Appointment, string, error) {
	appointment, err := s.transition(ctx, id, models.ActionConfirm)
	if err != nil {
		return nil, "", err
	}

	link := s.notifier.ConfirmationLink(appointment)
	if link == "" {
		configslog.SLog.Warnf("appointment %d authorized without notification link (no usable phone)", appointment.ID)
	} else {
		configslog.Log.Info("whatsapp notification link built",
			zap.Uint("id", appointment.ID), zap.String("url", link))
	}
	return appointment, link, nil
}

// Attend marks an active appointment as completed.
func (s *AppointmentService) Attend(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transition(ctx, id, models.ActionComplete)
}

// Cancel releases an active appointment's slot.
func (s *AppointmentService) Cancel(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transition(ctx, id, models.ActionCancel)
}

// Delete removes a record permanently, whatever its status. The removed
// appointment is returned so the caller can name it in the notice.
func (s *AppointmentService) Delete(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	configslog.SLog.Infof("appointment deleted permanently: id=%d patient=%s", id, appointment.PatientName)
	return appointment, nil
}

// List returns the full agenda ordered by date then time.
func (s *AppointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	return s.repo.ListOrdered(ctx)
}

// ListRecent returns the latest entries for the direct-entry sidebar.
func (s *AppointmentService) ListRecent(ctx context.Context, limit int) ([]models.Appointment, error) {
	return s.repo.ListRecent(ctx, limit)
}

var _ IAppointmentService = (*AppointmentService)(nil)
