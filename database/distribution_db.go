package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Distribution records whether a family has received its share of a donation.
type Distribution struct {
	DonationID int64 `json:"donation_id"`
	FamilyID   int64 `json:"family_id"`
	Receive    bool  `json:"receive"`
}

const distributionReturning = "RETURNING donation_id, family_id, receive"

func scanDistribution(row interface{ Scan(...any) error }) (Distribution, error) {
	var d Distribution
	err := row.Scan(&d.DonationID, &d.FamilyID, &d.Receive)
	return d, err
}

// CreateDistribution enrolls a family in a donation with receive unset.
// An existing pair or an unknown donation or family is a bad request.
func CreateDistribution(ctx context.Context, db *DB, donationID, familyID int64) (Distribution, error) {
	sqlStr, args, err := db.psql.Insert("distributions").
		Columns("donation_id", "family_id").
		Values(donationID, familyID).
		Suffix(distributionReturning).
		ToSql()
	if err != nil {
		return Distribution{}, fmt.Errorf("failed to build SQL for CreateDistribution: %w", err)
	}
	d, err := scanDistribution(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if isConstraintViolation(err) {
			return Distribution{}, badRequestf("Duplicate/Not Present")
		}
		return Distribution{}, fmt.Errorf("failed to enroll family %d in donation %d: %w", familyID, donationID, err)
	}
	return d, nil
}

// MarkDistributionReceived sets receive for the pair.
func MarkDistributionReceived(ctx context.Context, db *DB, donationID, familyID int64) (Distribution, error) {
	sqlStr, args, err := db.psql.Update("distributions").
		Set("receive", true).
		Where(sq.Eq{"donation_id": donationID, "family_id": familyID}).
		Suffix(distributionReturning).
		ToSql()
	if err != nil {
		return Distribution{}, fmt.Errorf("failed to build SQL for MarkDistributionReceived: %w", err)
	}
	d, err := scanDistribution(db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Distribution{}, notFoundf("No distribution with donation ID %d and family ID %d", donationID, familyID)
		}
		return Distribution{}, fmt.Errorf("failed to mark distribution %d/%d received: %w", donationID, familyID, err)
	}
	return d, nil
}

func DeleteDistribution(ctx context.Context, db *DB, familyID, donationID int64) error {
	sqlStr, args, err := db.psql.Delete("distributions").
		Where(sq.Eq{"donation_id": donationID, "family_id": familyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for DeleteDistribution: %w", err)
	}
	result, err := db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to delete distribution %d/%d: %w", donationID, familyID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected deleting distribution %d/%d: %w", donationID, familyID, err)
	}
	if rowsAffected == 0 {
		return notFoundf("No distribution with family ID %d and donation ID %d", familyID, donationID)
	}
	return nil
}
