package repositories

import (
	"context"
	"errors"
	"time"

	"citadental.pe/configs/configsdatabase"
	"citadental.pe/configs/configslog"
	"citadental.pe/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IAppointmentRepository is the persistence contract for appointments.
// All failures other than a missing record surface as *StorageError.
type IAppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	FindBySlot(ctx context.Context, date time.Time, timeOfDay string) ([]models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
	Delete(ctx context.Context, id uint) error
	ListOrdered(ctx context.Context) ([]models.Appointment, error)
	ListRecent(ctx context.Context, limit int) ([]models.Appointment, error)
}

// AppointmentRepository implements IAppointmentRepository over GORM/Postgres.
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository builds a repository on the shared connection.
func NewAppointmentRepository() IAppointmentRepository {
	return &AppointmentRepository{db: configsdatabase.GetDB()}
}

func (r *AppointmentRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create inserts a new appointment.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil {
		return storageError("create", errors.New("nil appointment"))
	}
	if err := r.getDB(ctx).Create(appointment).Error; err != nil {
		configslog.Log.Error("AppointmentRepository.Create: DB error", zap.Error(err))
		return storageError("create", err)
	}
	return nil
}

// FindByID loads one appointment or ErrNotFound.
func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.getDB(ctx).First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("AppointmentRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, storageError("find by id", err)
	}
	return &appointment, nil
}

// FindBySlot returns every appointment occupying a (date, time) pair,
// regardless of status. Status filtering belongs to the caller.
func (r *AppointmentRepository) FindBySlot(ctx context.Context, date time.Time, timeOfDay string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.getDB(ctx).
		Where("date = ? AND time_of_day = ?", date, timeOfDay).
		Find(&appointments).Error
	if err != nil {
		configslog.Log.Error("AppointmentRepository.FindBySlot: DB error",
			zap.Time("date", date), zap.String("time_of_day", timeOfDay), zap.Error(err))
		return nil, storageError("find by slot", err)
	}
	return appointments, nil
}

// Update persists the full record with Save.
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil || appointment.ID == 0 {
		return storageError("update", errors.New("appointment has no id"))
	}
	if err := r.getDB(ctx).Save(appointment).Error; err != nil {
		configslog.Log.Error("AppointmentRepository.Update: DB error", zap.Uint("id", appointment.ID), zap.Error(err))
		return storageError("update", err)
	}
	return nil
}

// Delete removes the record permanently. ErrNotFound when nothing matched.
func (r *AppointmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&models.Appointment{}, id)
	if result.Error != nil {
		configslog.Log.Error("AppointmentRepository.Delete: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return storageError("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOrdered returns all appointments ordered by date then time, the
// panel's agenda view.
func (r *AppointmentRepository) ListOrdered(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.getDB(ctx).
		Order("date ASC").
		Order("time_of_day ASC").
		Find(&appointments).Error
	if err != nil {
		configslog.Log.Error("AppointmentRepository.ListOrdered: DB error", zap.Error(err))
		return nil, storageError("list ordered", err)
	}
	return appointments, nil
}

// ListRecent returns the most recently created appointments.
func (r *AppointmentRepository) ListRecent(ctx context.Context, limit int) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.getDB(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		configslog.Log.Error("AppointmentRepository.ListRecent: DB error", zap.Int("limit", limit), zap.Error(err))
		return nil, storageError("list recent", err)
	}
	return appointments, nil
}

var _ IAppointmentRepository = (*AppointmentRepository)(nil)
