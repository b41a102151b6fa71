package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type Family struct {
	ID     int64 `json:"id"`
	CampID int64 `json:"camp_id"`
	Head   int64 `json:"head"`
}

type FamilyFields struct {
	CampID int64
	Head   int64
}

// CampLocation is the descriptive part of a camp.
type CampLocation struct {
	Location string `json:"location"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// FamilyMember is a person in a family, flagged when they are its head.
type FamilyMember struct {
	Person
	Head string `json:"head"`
}

// FamilyDetail is a family with its camp, members and campaign receipts.
type FamilyDetail struct {
	ID        int64          `json:"id"`
	Camp      CampLocation   `json:"camp"`
	Members   []FamilyMember `json:"members"`
	Donations []Receipt      `json:"donations"`
}

const familyReturning = "RETURNING id, camp_id, head"

func scanFamily(row interface{ Scan(...any) error }) (Family, error) {
	var f Family
	err := row.Scan(&f.ID, &f.CampID, &f.Head)
	return f, err
}

// CreateFamily inserts a family. A camp id that does not exist is a bad request.
func CreateFamily(ctx context.Context, db *DB, f FamilyFields) (Family, error) {
	sqlStr, args, err := db.psql.Insert("families").
		Columns("camp_id", "head").
		Values(f.CampID, f.Head).
		Suffix(familyReturning).
		ToSql()
	if err != nil {
		return Family{}, fmt.Errorf("failed to build SQL for CreateFamily: %w", err)
	}
	family, err := scanFamily(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if isConstraintViolation(err) {
			return Family{}, badRequestf("No camp with ID %d", f.CampID)
		}
		return Family{}, fmt.Errorf("failed to execute CreateFamily for camp %d: %w", f.CampID, err)
	}
	return family, nil
}

func ListFamilies(ctx context.Context, db *DB) ([]Family, error) {
	sqlStr, args, err := db.psql.Select("id", "camp_id", "head").From("families").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListFamilies: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListFamilies query: %w", err)
	}
	defer rows.Close()

	families := []Family{}
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family row: %w", err)
		}
		families = append(families, f)
	}
	if err = rows.Err(); err != nil {
		return families, fmt.Errorf("error iterating family rows: %w", err)
	}
	return families, nil
}

func getFamily(ctx context.Context, db *DB, q querier, familyID int64) (Family, error) {
	sqlStr, args, err := db.psql.Select("id", "camp_id", "head").
		From("families").
		Where(sq.Eq{"id": familyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return Family{}, fmt.Errorf("failed to build SQL for family lookup: %w", err)
	}
	family, err := scanFamily(q.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Family{}, notFoundf("No family with ID %d", familyID)
		}
		return Family{}, fmt.Errorf("failed to query or scan family with ID %d: %w", familyID, err)
	}
	return family, nil
}

// GetFamilyDetail loads the family, its camp, its members and its receipts in
// one read transaction so the parts are consistent with each other.
func GetFamilyDetail(ctx context.Context, db *DB, familyID int64) (FamilyDetail, error) {
	var detail FamilyDetail
	err := db.withTx(ctx, true, func(q querier) error {
		family, err := getFamily(ctx, db, q, familyID)
		if err != nil {
			return err
		}
		detail.ID = family.ID

		sqlStr, args, err := db.psql.Select("location", "city", "country").
			From("camps").
			Where(sq.Eq{"id": family.CampID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build camp query for family %d: %w", familyID, err)
		}
		err = q.QueryRowContext(ctx, sqlStr, args...).Scan(&detail.Camp.Location, &detail.Camp.City, &detail.Camp.Country)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to load camp %d of family %d: %w", family.CampID, familyID, err)
		}

		sqlStr, args, err = db.psql.Select("people.id", "first_name", "last_name", "dob", "sex", "nid").
			From("household").
			Join("people ON household.person_id = people.id").
			Where(sq.Eq{"household.family_id": familyID}).
			OrderBy("people.id ASC").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build member query for family %d: %w", familyID, err)
		}
		rows, err := q.QueryContext(ctx, sqlStr, args...)
		if err != nil {
			return fmt.Errorf("failed to list members of family %d: %w", familyID, err)
		}
		people, err := collectPeople(rows)
		if err != nil {
			return err
		}
		detail.Members = make([]FamilyMember, 0, len(people))
		for _, p := range people {
			head := "False"
			if p.ID == family.Head {
				head = "True"
			}
			detail.Members = append(detail.Members, FamilyMember{Person: p, Head: head})
		}

		sqlStr, args, err = db.psql.Select("donation_id", "receive").
			From("distributions").
			Where(sq.Eq{"family_id": familyID}).
			OrderBy("donation_id ASC").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build distribution query for family %d: %w", familyID, err)
		}
		rows, err = q.QueryContext(ctx, sqlStr, args...)
		if err != nil {
			return fmt.Errorf("failed to list distributions of family %d: %w", familyID, err)
		}
		detail.Donations, err = collectReceipts(rows)
		return err
	})
	if err != nil {
		return FamilyDetail{}, err
	}
	return detail, nil
}

func UpdateFamily(ctx context.Context, db *DB, familyID int64, p Patch) (Family, error) {
	ub, err := SQLForPartialUpdate(db.psql.Update("families"), p, nil)
	if err != nil {
		return Family{}, err
	}
	sqlStr, args, err := ub.Where(sq.Eq{"id": familyID}).Suffix(familyReturning).ToSql()
	if err != nil {
		return Family{}, fmt.Errorf("failed to build SQL for UpdateFamily: %w", err)
	}
	family, err := scanFamily(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Family{}, notFoundf("No family with ID %d", familyID)
		}
		if isConstraintViolation(err) {
			return Family{}, badRequestf("Invalid camp for family %d", familyID)
		}
		return Family{}, fmt.Errorf("failed to execute UpdateFamily for ID %d: %w", familyID, err)
	}
	return family, nil
}

func DeleteFamily(ctx context.Context, db *DB, familyID int64) error {
	return deleteByID(ctx, db, "families", "family", familyID)
}

// ListNewDonationsForFamily returns every donation the family is not enrolled in yet.
func ListNewDonationsForFamily(ctx context.Context, db *DB, familyID int64) ([]Donation, error) {
	enrolled := db.psql.Select("donation_id").From("distributions").Where(sq.Eq{"family_id": familyID})
	sqlStr, args, err := db.psql.Select(donationColumns...).
		From("donations").
		Where(sq.Expr("id NOT IN (?)", enrolled)).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListNewDonationsForFamily: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list new donations for family %d: %w", familyID, err)
	}
	return collectDonations(rows)
}
