package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type Camp struct {
	ID       int64  `json:"id"`
	Location string `json:"location"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// CampDetail is a camp with the ids of the families it hosts.
type CampDetail struct {
	Camp
	Families []int64 `json:"families"`
}

type CampFields struct {
	Location string
	City     string
	Country  string
}

var campColumns = []string{"id", "location", "city", "country"}

func scanCamp(row interface{ Scan(...any) error }) (Camp, error) {
	var c Camp
	err := row.Scan(&c.ID, &c.Location, &c.City, &c.Country)
	return c, err
}

// CreateCamp inserts a camp unless one with the same location, city and country exists.
func CreateCamp(ctx context.Context, db *DB, f CampFields) (Camp, error) {
	var camp Camp
	err := db.withTx(ctx, false, func(q querier) error {
		dupSQL, dupArgs, err := db.psql.Select("id").
			From("camps").
			Where(sq.Eq{"location": f.Location, "city": f.City, "country": f.Country}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build duplicate check for CreateCamp: %w", err)
		}
		var existing int64
		err = q.QueryRowContext(ctx, dupSQL, dupArgs...).Scan(&existing)
		if err == nil {
			return badRequestf("Duplicate camp.")
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check for duplicate camp: %w", err)
		}

		sqlStr, args, err := db.psql.Insert("camps").
			Columns("location", "city", "country").
			Values(f.Location, f.City, f.Country).
			Suffix("RETURNING id, location, city, country").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL for CreateCamp: %w", err)
		}
		camp, err = scanCamp(q.QueryRowContext(ctx, sqlStr, args...))
		if err != nil {
			if isConstraintViolation(err) {
				return badRequestf("Duplicate camp.")
			}
			return fmt.Errorf("failed to execute CreateCamp for %s, %s: %w", f.City, f.Country, err)
		}
		return nil
	})
	return camp, err
}

func ListCamps(ctx context.Context, db *DB) ([]Camp, error) {
	sqlStr, args, err := db.psql.Select(campColumns...).From("camps").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListCamps: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListCamps query: %w", err)
	}
	defer rows.Close()

	camps := []Camp{}
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan camp row: %w", err)
		}
		camps = append(camps, c)
	}
	if err = rows.Err(); err != nil {
		return camps, fmt.Errorf("error iterating camp rows: %w", err)
	}
	return camps, nil
}

// GetCamp returns the camp with the ids of the families living in it.
func GetCamp(ctx context.Context, db *DB, campID int64) (CampDetail, error) {
	var detail CampDetail
	err := db.withTx(ctx, true, func(q querier) error {
		sqlStr, args, err := db.psql.Select(campColumns...).
			From("camps").
			Where(sq.Eq{"id": campID}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL for GetCamp: %w", err)
		}
		detail.Camp, err = scanCamp(q.QueryRowContext(ctx, sqlStr, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("No camp with ID %d", campID)
			}
			return fmt.Errorf("failed to query or scan camp with ID %d: %w", campID, err)
		}

		detail.Families, err = queryIDs(ctx, q, db.psql.Select("id").
			From("families").
			Where(sq.Eq{"camp_id": campID}).
			OrderBy("id ASC"))
		if err != nil {
			return fmt.Errorf("failed to list families of camp %d: %w", campID, err)
		}
		return nil
	})
	if err != nil {
		return CampDetail{}, err
	}
	return detail, nil
}

func UpdateCamp(ctx context.Context, db *DB, campID int64, p Patch) (Camp, error) {
	ub, err := SQLForPartialUpdate(db.psql.Update("camps"), p, nil)
	if err != nil {
		return Camp{}, err
	}
	sqlStr, args, err := ub.Where(sq.Eq{"id": campID}).
		Suffix("RETURNING id, location, city, country").
		ToSql()
	if err != nil {
		return Camp{}, fmt.Errorf("failed to build SQL for UpdateCamp: %w", err)
	}
	camp, err := scanCamp(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Camp{}, notFoundf("No camp with ID %d", campID)
		}
		if isConstraintViolation(err) {
			return Camp{}, badRequestf("Duplicate camp.")
		}
		return Camp{}, fmt.Errorf("failed to execute UpdateCamp for ID %d: %w", campID, err)
	}
	return camp, nil
}

// DeleteCamp removes a camp. A camp that still hosts families cannot be deleted.
func DeleteCamp(ctx context.Context, db *DB, campID int64) error {
	return deleteByID(ctx, db, "camps", "camp", campID)
}

func deleteByID(ctx context.Context, db *DB, table, noun string, id int64) error {
	sqlStr, args, err := db.psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for delete from %s: %w", table, err)
	}
	result, err := db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isConstraintViolation(err) {
			return badRequestf("The %s with ID %d is still referenced", noun, id)
		}
		return fmt.Errorf("failed to delete %s with ID %d: %w", noun, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected deleting %s %d: %w", noun, id, err)
	}
	if rowsAffected == 0 {
		return notFoundf("No %s with ID %d", noun, id)
	}
	return nil
}
