package database

import (
	"context"
	"fmt"
	"strings"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS camps (
		id {{serial}},
		location TEXT NOT NULL,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		UNIQUE (location, city, country)
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		id {{serial}},
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		dob DATE NOT NULL,
		sex TEXT NOT NULL,
		nid TEXT NOT NULL DEFAULT '',
		UNIQUE (first_name, last_name, dob)
	)`,
	`CREATE TABLE IF NOT EXISTS families (
		id {{serial}},
		camp_id INTEGER NOT NULL REFERENCES camps (id),
		head INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS household (
		family_id INTEGER NOT NULL REFERENCES families (id) ON DELETE CASCADE,
		person_id INTEGER NOT NULL UNIQUE REFERENCES people (id) ON DELETE CASCADE,
		PRIMARY KEY (family_id, person_id)
	)`,
	`CREATE TABLE IF NOT EXISTS donations (
		id {{serial}},
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		target {{numeric}} NOT NULL,
		description TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS distributions (
		id {{serial}},
		donation_id INTEGER NOT NULL REFERENCES donations (id) ON DELETE CASCADE,
		family_id INTEGER NOT NULL REFERENCES families (id) ON DELETE CASCADE,
		receive BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (donation_id, family_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_families_camp_id ON families (camp_id)`,
	`CREATE INDEX IF NOT EXISTS idx_distributions_family_id ON distributions (family_id)`,
}

func (db *DB) schemaReplacer() *strings.Replacer {
	if db.Driver == DriverPostgres {
		return strings.NewReplacer("{{serial}}", "SERIAL PRIMARY KEY", "{{numeric}}", "NUMERIC")
	}
	return strings.NewReplacer("{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{numeric}}", "REAL")
}

func (db *DB) createSchema(ctx context.Context) error {
	r := db.schemaReplacer()
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
