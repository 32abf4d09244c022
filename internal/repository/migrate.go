package repository

import "gorm.io/gorm"

// noDoubleBookingDDL installs idx_no_double_booking on Postgres: no two
// active line items of one staff member may overlap in time. The constraint
// fires at commit even when two transactions pass the in-transaction overlap
// count concurrently, which READ COMMITTED alone does not prevent.
var noDoubleBookingDDL = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`ALTER TABLE booking_services
ADD CONSTRAINT idx_no_double_booking
EXCLUDE USING gist (
	staff_id WITH =,
	tstzrange(start_time, end_time) WITH &&
)
WHERE (staff_id IS NOT NULL AND status <> 'cancelled')`,
}

// AutoMigrate creates or updates every table the repositories use and adds
// the double-booking exclusion constraint on the Postgres dialect. SQLite
// serializes writers, so the transactional re-check in BookingRepository is
// already race-free there and the constraint is skipped.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&branchModel{},
		&serviceModel{},
		&staffModel{},
		&staffShiftModel{},
		&customerModel{},
		&bookingModel{},
		&bookingServiceModel{},
	); err != nil {
		return err
	}
	return installBookingGuards(db)
}

func installBookingGuards(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if db.Migrator().HasConstraint(&bookingServiceModel{}, "idx_no_double_booking") {
		return nil
	}
	for _, stmt := range noDoubleBookingDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
