package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type Donation struct {
	ID          int64   `json:"id"`
	StartDate   Date    `json:"start_date"`
	EndDate     Date    `json:"end_date"`
	Target      float64 `json:"target"`
	Description string  `json:"description"`
}

// Receipt reports whether one side of a distribution has been served.
// Its id is the family id on a donation and the donation id on a family.
type Receipt struct {
	ID      int64 `json:"id"`
	Receive bool  `json:"receive"`
}

// DonationDetail adds the families enrolled in the campaign.
type DonationDetail struct {
	Donation
	Families []Receipt `json:"family"`
}

type DonationFields struct {
	StartDate   Date
	EndDate     Date
	Target      float64
	Description string
}

var donationColumns = []string{"id", "start_date", "end_date", "target", "description"}

const donationReturning = "RETURNING id, start_date, end_date, target, description"

func scanDonation(row interface{ Scan(...any) error }) (Donation, error) {
	var d Donation
	err := row.Scan(&d.ID, &d.StartDate, &d.EndDate, &d.Target, &d.Description)
	return d, err
}

func collectDonations(rows *sql.Rows) ([]Donation, error) {
	defer rows.Close()
	donations := []Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation row: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return donations, fmt.Errorf("error iterating donation rows: %w", err)
	}
	return donations, nil
}

func collectReceipts(rows *sql.Rows) ([]Receipt, error) {
	defer rows.Close()
	receipts := []Receipt{}
	for rows.Next() {
		var r Receipt
		if err := rows.Scan(&r.ID, &r.Receive); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return receipts, fmt.Errorf("error iterating distribution rows: %w", err)
	}
	return receipts, nil
}

func CreateDonation(ctx context.Context, db *DB, f DonationFields) (Donation, error) {
	sqlStr, args, err := db.psql.Insert("donations").
		Columns("start_date", "end_date", "target", "description").
		Values(f.StartDate, f.EndDate, f.Target, f.Description).
		Suffix(donationReturning).
		ToSql()
	if err != nil {
		return Donation{}, fmt.Errorf("failed to build SQL for CreateDonation: %w", err)
	}
	donation, err := scanDonation(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if isConstraintViolation(err) {
			return Donation{}, badRequestf("Invalid donation")
		}
		return Donation{}, fmt.Errorf("failed to execute CreateDonation for %q: %w", f.Description, err)
	}
	return donation, nil
}

func ListDonations(ctx context.Context, db *DB) ([]Donation, error) {
	sqlStr, args, err := db.psql.Select(donationColumns...).From("donations").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListDonations: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListDonations query: %w", err)
	}
	return collectDonations(rows)
}

// GetDonation returns the campaign with the receive flag of every enrolled family.
func GetDonation(ctx context.Context, db *DB, donationID int64) (DonationDetail, error) {
	var detail DonationDetail
	err := db.withTx(ctx, true, func(q querier) error {
		sqlStr, args, err := db.psql.Select(donationColumns...).
			From("donations").
			Where(sq.Eq{"id": donationID}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL for GetDonation: %w", err)
		}
		detail.Donation, err = scanDonation(q.QueryRowContext(ctx, sqlStr, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("No donation with ID %d", donationID)
			}
			return fmt.Errorf("failed to query or scan donation with ID %d: %w", donationID, err)
		}

		sqlStr, args, err = db.psql.Select("family_id", "receive").
			From("distributions").
			Where(sq.Eq{"donation_id": donationID}).
			OrderBy("family_id ASC").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build distribution query for GetDonation: %w", err)
		}
		rows, err := q.QueryContext(ctx, sqlStr, args...)
		if err != nil {
			return fmt.Errorf("failed to list distributions of donation %d: %w", donationID, err)
		}
		detail.Families, err = collectReceipts(rows)
		return err
	})
	if err != nil {
		return DonationDetail{}, err
	}
	return detail, nil
}

func UpdateDonation(ctx context.Context, db *DB, donationID int64, p Patch) (Donation, error) {
	ub, err := SQLForPartialUpdate(db.psql.Update("donations"), p, nil)
	if err != nil {
		return Donation{}, err
	}
	sqlStr, args, err := ub.Where(sq.Eq{"id": donationID}).Suffix(donationReturning).ToSql()
	if err != nil {
		return Donation{}, fmt.Errorf("failed to build SQL for UpdateDonation: %w", err)
	}
	donation, err := scanDonation(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Donation{}, notFoundf("No donation with ID %d", donationID)
		}
		return Donation{}, fmt.Errorf("failed to execute UpdateDonation for ID %d: %w", donationID, err)
	}
	return donation, nil
}

func DeleteDonation(ctx context.Context, db *DB, donationID int64) error {
	return deleteByID(ctx, db, "donations", "donation", donationID)
}
