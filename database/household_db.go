package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Household links one person to one family.
type Household struct {
	FamilyID int64 `json:"family_id"`
	PersonID int64 `json:"person_id"`
}

// AddHouseholdMember puts a person into a family. A person belongs to at most
// one family; the check and the insert share a transaction and the unique
// index on person_id backs it up.
func AddHouseholdMember(ctx context.Context, db *DB, familyID, personID int64) (Household, error) {
	var h Household
	err := db.withTx(ctx, false, func(q querier) error {
		dupSQL, dupArgs, err := db.psql.Select("person_id").
			From("household").
			Where(sq.Eq{"person_id": personID}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build duplicate check for AddHouseholdMember: %w", err)
		}
		var existing int64
		err = q.QueryRowContext(ctx, dupSQL, dupArgs...).Scan(&existing)
		if err == nil {
			return badRequestf("Already in household.")
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check household of person %d: %w", personID, err)
		}

		sqlStr, args, err := db.psql.Insert("household").
			Columns("family_id", "person_id").
			Values(familyID, personID).
			Suffix("RETURNING family_id, person_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL for AddHouseholdMember: %w", err)
		}
		err = q.QueryRowContext(ctx, sqlStr, args...).Scan(&h.FamilyID, &h.PersonID)
		if err != nil {
			if isConstraintViolation(err) {
				return badRequestf("Duplicate/Not Present")
			}
			return fmt.Errorf("failed to add person %d to family %d: %w", personID, familyID, err)
		}
		return nil
	})
	return h, err
}

// ListUnassignedPeople returns everyone who does not belong to a family yet.
func ListUnassignedPeople(ctx context.Context, db *DB) ([]Person, error) {
	assigned := db.psql.Select("person_id").From("household")
	sqlStr, args, err := db.psql.Select(personColumns...).
		From("people").
		Where(sq.Expr("id NOT IN (?)", assigned)).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListUnassignedPeople: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListUnassignedPeople query: %w", err)
	}
	return collectPeople(rows)
}

// ListHousehold returns the membership rows of a family. A family without
// members yields an empty list; only an unknown family is not found.
func ListHousehold(ctx context.Context, db *DB, familyID int64) ([]Household, error) {
	var members []Household
	err := db.withTx(ctx, true, func(q querier) error {
		if _, err := getFamily(ctx, db, q, familyID); err != nil {
			return err
		}

		sqlStr, args, err := db.psql.Select("family_id", "person_id").
			From("household").
			Where(sq.Eq{"family_id": familyID}).
			OrderBy("person_id ASC").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL for ListHousehold: %w", err)
		}
		rows, err := q.QueryContext(ctx, sqlStr, args...)
		if err != nil {
			return fmt.Errorf("failed to list household of family %d: %w", familyID, err)
		}
		defer rows.Close()

		members = []Household{}
		for rows.Next() {
			var h Household
			if err := rows.Scan(&h.FamilyID, &h.PersonID); err != nil {
				return fmt.Errorf("failed to scan household row: %w", err)
			}
			members = append(members, h)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating household rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}
