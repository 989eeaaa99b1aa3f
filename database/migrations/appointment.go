package migrations

import (
	"citadental.pe/models"

	"gorm.io/gorm"
)

// MigrateAppointmentsTable creates or updates the appointments table,
// including the composite (date, time_of_day) slot index.
func MigrateAppointmentsTable(db *gorm.DB) error {
	return db.AutoMigrate(&models.Appointment{})
}
