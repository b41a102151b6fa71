package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := InitDB(DriverSQLite, filepath.Join(t.TempDir(), "camps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCamp(t *testing.T, db *DB, location, city, country string) Camp {
	t.Helper()
	c, err := CreateCamp(context.Background(), db, CampFields{Location: location, City: city, Country: country})
	require.NoError(t, err)
	return c
}

func mustFamily(t *testing.T, db *DB, campID, head int64) Family {
	t.Helper()
	f, err := CreateFamily(context.Background(), db, FamilyFields{CampID: campID, Head: head})
	require.NoError(t, err)
	return f
}

func mustPerson(t *testing.T, db *DB, first, last string, dob Date) Person {
	t.Helper()
	p, err := CreatePerson(context.Background(), db, PersonFields{FirstName: first, LastName: last, DOB: dob, Sex: "F", NID: first + last})
	require.NoError(t, err)
	return p
}

func mustDonation(t *testing.T, db *DB, description string) Donation {
	t.Helper()
	d, err := CreateDonation(context.Background(), db, DonationFields{
		StartDate:   NewDate(2024, time.January, 1),
		EndDate:     NewDate(2024, time.March, 31),
		Target:      100,
		Description: description,
	})
	require.NoError(t, err)
	return d
}
