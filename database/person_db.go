package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       Date   `json:"dob"`
	Sex       string `json:"sex"`
	NID       string `json:"nid"`
}

// PersonDetail adds the ids of the other members of the person's family.
type PersonDetail struct {
	Person
	FamilyMembers []int64 `json:"family_member"`
}

type PersonFields struct {
	FirstName string
	LastName  string
	DOB       Date
	Sex       string
	NID       string
}

var personColumns = []string{"id", "first_name", "last_name", "dob", "sex", "nid"}

const personReturning = "RETURNING id, first_name, last_name, dob, sex, nid"

func scanPerson(row interface{ Scan(...any) error }) (Person, error) {
	var p Person
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DOB, &p.Sex, &p.NID)
	return p, err
}

func collectPeople(rows *sql.Rows) ([]Person, error) {
	defer rows.Close()
	people := []Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person row: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return people, fmt.Errorf("error iterating people rows: %w", err)
	}
	return people, nil
}

// CreatePerson inserts a person unless someone with the same first name, last
// name and date of birth is already registered.
func CreatePerson(ctx context.Context, db *DB, f PersonFields) (Person, error) {
	var person Person
	err := db.withTx(ctx, false, func(q querier) error {
		dupSQL, dupArgs, err := db.psql.Select("id").
			From("people").
			Where(sq.Eq{"first_name": f.FirstName, "last_name": f.LastName, "dob": f.DOB}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build duplicate check for CreatePerson: %w", err)
		}
		var existing int64
		err = q.QueryRowContext(ctx, dupSQL, dupArgs...).Scan(&existing)
		if err == nil {
			return badRequestf("Duplicate person")
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check for duplicate person: %w", err)
		}

		sqlStr, args, err := db.psql.Insert("people").
			Columns("first_name", "last_name", "dob", "sex", "nid").
			Values(f.FirstName, f.LastName, f.DOB, f.Sex, f.NID).
			Suffix(personReturning).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL for CreatePerson: %w", err)
		}
		person, err = scanPerson(q.QueryRowContext(ctx, sqlStr, args...))
		if err != nil {
			if isConstraintViolation(err) {
				return badRequestf("Duplicate person")
			}
			return fmt.Errorf("failed to execute CreatePerson for %s %s: %w", f.FirstName, f.LastName, err)
		}
		return nil
	})
	return person, err
}

func ListPeople(ctx context.Context, db *DB) ([]Person, error) {
	sqlStr, args, err := db.psql.Select(personColumns...).From("people").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListPeople: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListPeople query: %w", err)
	}
	return collectPeople(rows)
}

// GetPerson returns the person together with the ids of everyone else in the same family.
func GetPerson(ctx context.Context, db *DB, personID int64) (PersonDetail, error) {
	var detail PersonDetail
	err := db.withTx(ctx, true, func(q querier) error {
		sqlStr, args, err := db.psql.Select(personColumns...).
			From("people").
			Where(sq.Eq{"id": personID}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL for GetPerson: %w", err)
		}
		detail.Person, err = scanPerson(q.QueryRowContext(ctx, sqlStr, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("No person with ID %d", personID)
			}
			return fmt.Errorf("failed to query or scan person with ID %d: %w", personID, err)
		}

		familyOf := db.psql.Select("family_id").From("household").Where(sq.Eq{"person_id": personID})
		detail.FamilyMembers, err = queryIDs(ctx, q, db.psql.Select("person_id").
			From("household").
			Where(sq.Expr("family_id IN (?)", familyOf)).
			Where(sq.NotEq{"person_id": personID}).
			OrderBy("person_id ASC"))
		if err != nil {
			return fmt.Errorf("failed to list family members of person %d: %w", personID, err)
		}
		return nil
	})
	if err != nil {
		return PersonDetail{}, err
	}
	return detail, nil
}

func UpdatePerson(ctx context.Context, db *DB, personID int64, p Patch) (Person, error) {
	ub, err := SQLForPartialUpdate(db.psql.Update("people"), p, nil)
	if err != nil {
		return Person{}, err
	}
	sqlStr, args, err := ub.Where(sq.Eq{"id": personID}).Suffix(personReturning).ToSql()
	if err != nil {
		return Person{}, fmt.Errorf("failed to build SQL for UpdatePerson: %w", err)
	}
	person, err := scanPerson(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Person{}, notFoundf("No person with id %d", personID)
		}
		if isConstraintViolation(err) {
			return Person{}, badRequestf("Duplicate person")
		}
		return Person{}, fmt.Errorf("failed to execute UpdatePerson for ID %d: %w", personID, err)
	}
	return person, nil
}

func DeletePerson(ctx context.Context, db *DB, personID int64) error {
	return deleteByID(ctx, db, "people", "person", personID)
}
