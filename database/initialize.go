package database

import (
	"citadental.pe/configs/configslog"
	"citadental.pe/database/migrations"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and seeders as requested. Everything happens
// in one transaction so a failed step leaves the schema untouched.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("neither migrate nor seed requested, nothing to do")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("could not begin database transaction", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("database initialization panicked", zap.Any("panic_info", r))
		}
	}()

	if migrate {
		configslog.SLog.Info("running migrations...")
		if err := RunMigrationsInOrder(tx); err != nil {
			tx.Rollback()
			configslog.Log.Fatal("migration failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("migrations complete")
	}

	if seed {
		// The appointments table carries real patient data only; there is
		// nothing to seed, but the flag stays so ops scripts keep working.
		configslog.SLog.Info("no seeders defined, skipping")
	}

	if err := tx.Commit().Error; err != nil {
		configslog.Log.Fatal("commit failed", zap.Error(err))
		return
	}
	configslog.SLog.Info("database initialization complete")
}

// RunMigrationsInOrder applies every table migration in dependency order.
// A single-entity schema keeps this short; the ordering still matters once
// related tables appear.
func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info(" -> migrating appointments table...")
	if err := migrations.MigrateAppointmentsTable(db); err != nil {
		configslog.Log.Error("appointments table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> appointments table done")
	return nil
}
