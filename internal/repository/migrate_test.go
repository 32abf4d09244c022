package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: ":memory:"}),
		&gorm.Config{},
	)
	require.NoError(t, err)
	return db
}

func TestAutoMigrate_SqliteSkipsExclusionConstraint(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, AutoMigrate(db))
	// The gist exclusion constraint is Postgres-only DDL; sqlite relies on
	// its single-writer model plus the transactional overlap re-check.
	assert.False(t, db.Migrator().HasConstraint(&bookingServiceModel{}, "idx_no_double_booking"))

	// Running the migration twice must stay idempotent.
	require.NoError(t, AutoMigrate(db))
}

func TestNoDoubleBookingDDL_MatchesTranslatedConstraint(t *testing.T) {
	// The constraint name the DDL installs is the one the booking service
	// recognizes in pgconn errors; the two must never drift apart.
	ddl := strings.Join(noDoubleBookingDDL, "\n")
	assert.Contains(t, ddl, "ADD CONSTRAINT idx_no_double_booking")
	assert.Contains(t, ddl, "EXCLUDE USING gist")
	assert.Contains(t, ddl, "tstzrange(start_time, end_time) WITH &&")
	assert.Contains(t, ddl, "status <> 'cancelled'")
	assert.Contains(t, ddl, "btree_gist")
}
