package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonJoinsAtMostOneFamily(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	camp := mustCamp(t, db, "North", "Gaziantep", "Turkey")
	first := mustFamily(t, db, camp.ID, 0)
	second := mustFamily(t, db, camp.ID, 0)
	person := mustPerson(t, db, "A", "B", NewDate(2000, time.January, 1))

	h, err := AddHouseholdMember(ctx, db, first.ID, person.ID)
	require.NoError(t, err)
	assert.Equal(t, Household{FamilyID: first.ID, PersonID: person.ID}, h)

	_, err = AddHouseholdMember(ctx, db, second.ID, person.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRequest))

	// original association unchanged
	members, err := ListHousehold(ctx, db, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []Household{{FamilyID: first.ID, PersonID: person.ID}}, members)

	members, err = ListHousehold(ctx, db, second.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestAddHouseholdMemberUnknownRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	camp := mustCamp(t, db, "North", "Gaziantep", "Turkey")
	family := mustFamily(t, db, camp.ID, 0)
	person := mustPerson(t, db, "A", "B", NewDate(2000, time.January, 1))

	_, err := AddHouseholdMember(ctx, db, family.ID, 404)
	assert.True(t, errors.Is(err, ErrBadRequest), "unknown person")

	_, err = AddHouseholdMember(ctx, db, 404, person.ID)
	assert.True(t, errors.Is(err, ErrBadRequest), "unknown family")
}

func TestListHouseholdUnknownFamily(t *testing.T) {
	db := openTestDB(t)

	_, err := ListHousehold(context.Background(), db, 12)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListUnassignedPeople(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	camp := mustCamp(t, db, "North", "Gaziantep", "Turkey")
	family := mustFamily(t, db, camp.ID, 0)
	placed := mustPerson(t, db, "A", "B", NewDate(2000, time.January, 1))
	waiting := mustPerson(t, db, "C", "D", NewDate(2001, time.January, 1))

	_, err := AddHouseholdMember(ctx, db, family.ID, placed.ID)
	require.NoError(t, err)

	people, err := ListUnassignedPeople(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []Person{waiting}, people)
}
