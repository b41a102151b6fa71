package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) seedCampFamilyPerson() {
	s.t.Helper()
	rec := s.admin(http.MethodPost, "/camps", map[string]string{"location": "North", "city": "Gaziantep", "country": "Turkey"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.admin(http.MethodPost, "/families", map[string]int{"camp_id": 1, "head": 0})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.admin(http.MethodPost, "/people", map[string]string{
		"first_name": "A", "last_name": "B", "dob": "2000-01-01", "sex": "F", "nid": "123",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestFamilyHouseholdScenario(t *testing.T) {
	s := newTestServer(t).asAdmin()
	s.seedCampFamilyPerson()

	rec := s.admin(http.MethodPatch, "/families/1", map[string]int{"head": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.admin(http.MethodGet, "/families/household", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["people"], 1)

	rec = s.admin(http.MethodPost, "/families/1/people/1", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{"family_id": float64(1), "person_id": float64(1)}, decode(t, rec)["household"])

	rec = s.admin(http.MethodGet, "/families/household", nil)
	assert.Equal(t, []any{}, decode(t, rec)["people"])

	rec = s.admin(http.MethodGet, "/families/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	family := decode(t, rec)["family"].(map[string]any)
	assert.Equal(t, map[string]any{"location": "North", "city": "Gaziantep", "country": "Turkey"}, family["camp"])
	members := family["members"].([]any)
	require.Len(t, members, 1)
	member := members[0].(map[string]any)
	assert.EqualValues(t, 1, member["id"])
	assert.Equal(t, "True", member["head"])
	assert.Equal(t, "1-1-2000", member["dob"])

	rec = s.admin(http.MethodGet, "/families/1/people", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["household"], 1)

	rec = s.admin(http.MethodGet, "/people/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	person := decode(t, rec)["person"].(map[string]any)
	assert.Equal(t, []any{}, person["family_member"])
}

func TestHouseholdErrors(t *testing.T) {
	s := newTestServer(t).asAdmin()
	s.seedCampFamilyPerson()
	rec := s.admin(http.MethodPost, "/families", map[string]int{"camp_id": 1, "head": 0})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.admin(http.MethodPost, "/families/1/people/1", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.admin(http.MethodPost, "/families/2/people/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Already in household."}, errorDetails(t, rec))

	rec = s.admin(http.MethodGet, "/families/2/people", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["household"])

	rec = s.admin(http.MethodGet, "/families/99/people", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.admin(http.MethodPost, "/families/1/people/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFamilyValidation(t *testing.T) {
	s := newTestServer(t).asAdmin()

	rec := s.admin(http.MethodPost, "/families", map[string]int{"camp_id": 0, "head": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{
		"instance.camp_id must be greater than or equal to 1",
		"instance.head must be greater than or equal to 0",
	}, errorDetails(t, rec))

	rec = s.admin(http.MethodPost, "/families", `{"camp_id": 5, "head": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown camp")

	rec = s.admin(http.MethodPost, "/families", `{"camp_id": "1", "head": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"instance.camp_id is not of a type(s) number"}, errorDetails(t, rec))
}

func TestDistributionEndpoints(t *testing.T) {
	s := newTestServer(t).asAdmin()
	s.seedCampFamilyPerson()

	for _, desc := range []string{"Relief", "Fuel"} {
		rec := s.admin(http.MethodPost, "/donations", map[string]any{
			"start_date": "2024-01-01", "end_date": "2024-02-01", "target": 100, "description": desc,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.admin(http.MethodGet, "/families/1/donations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["donations"], 2)

	rec = s.admin(http.MethodPost, "/families/1/donations/1", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dist := decode(t, rec)["distribution"].(map[string]any)
	assert.Equal(t, false, dist["receive"])

	rec = s.admin(http.MethodPost, "/families/1/donations/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.admin(http.MethodGet, "/families/1/donations", nil)
	fresh := decode(t, rec)["donations"].([]any)
	require.Len(t, fresh, 1)
	assert.EqualValues(t, 2, fresh[0].(map[string]any)["id"])

	rec = s.admin(http.MethodPatch, "/families/1/donations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["distribution"].(map[string]any)["receive"])

	rec = s.admin(http.MethodGet, "/donations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	donation := decode(t, rec)["donation"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"id": float64(1), "receive": true}}, donation["family"])
	assert.Equal(t, "1-1-2024", donation["start_date"])

	rec = s.admin(http.MethodDelete, "/families/1/donations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.admin(http.MethodPatch, "/families/1/donations/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.admin(http.MethodDelete, fmt.Sprintf("/families/%d", 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.admin(http.MethodGet, "/families/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
