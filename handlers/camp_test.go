package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampLifecycle(t *testing.T) {
	s := newTestServer(t).asAdmin()

	rec := s.admin(http.MethodPost, "/camps", map[string]string{"location": "North", "city": "Gaziantep", "country": "Turkey"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	camp := decode(t, rec)["camp"].(map[string]any)
	assert.EqualValues(t, 1, camp["id"])

	rec = s.admin(http.MethodPost, "/camps", map[string]string{"location": "North", "city": "Gaziantep", "country": "Turkey"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.admin(http.MethodGet, "/camps", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["camps"], 1)

	rec = s.admin(http.MethodGet, "/camps/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)["camp"].(map[string]any)
	assert.Equal(t, "Gaziantep", got["city"])
	assert.Equal(t, []any{}, got["families"])

	rec = s.admin(http.MethodPatch, "/camps/1", `{"country": "Türkiye", "city": "Kilis"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode(t, rec)["camp"].(map[string]any)
	assert.Equal(t, "Kilis", got["city"])
	assert.Equal(t, "Türkiye", got["country"])

	rec = s.admin(http.MethodDelete, "/camps/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["deleted"])

	rec = s.admin(http.MethodGet, "/camps/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"No camp with ID 1"}, errorDetails(t, rec))
}

func TestCampValidationCollectsEveryViolation(t *testing.T) {
	s := newTestServer(t).asAdmin()

	rec := s.admin(http.MethodPost, "/camps", map[string]string{"city": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{
		`instance requires property "location"`,
		`instance requires property "city"`,
		`instance requires property "country"`,
	}, errorDetails(t, rec))
}

func TestCampRejectsMalformedRequests(t *testing.T) {
	s := newTestServer(t).asAdmin()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown property", http.MethodPost, "/camps", `{"location":"a","city":"b","country":"c","mayor":"d"}`, http.StatusBadRequest},
		{"wrong type", http.MethodPost, "/camps", `{"location":1,"city":"b","country":"c"}`, http.StatusBadRequest},
		{"not json", http.MethodPost, "/camps", `location=a`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/camps", nil, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/camps/abc", nil, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/camps/0", nil, http.StatusBadRequest},
		{"empty patch", http.MethodPatch, "/camps/1", `{}`, http.StatusBadRequest},
		{"patch unknown camp", http.MethodPatch, "/camps/9", `{"city":"x"}`, http.StatusNotFound},
		{"patch empty string", http.MethodPatch, "/camps/1", `{"city":""}`, http.StatusBadRequest},
		{"delete unknown camp", http.MethodDelete, "/camps/9", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.admin(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCampPropertyNamesAreCaseSensitive(t *testing.T) {
	s := newTestServer(t).asAdmin()

	rec := s.admin(http.MethodPost, "/camps", `{"Location":"North","CITY":"Gaziantep","country":"Turkey"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{`instance is not allowed to have the additional property "Location"`}, errorDetails(t, rec))

	rec = s.admin(http.MethodPost, "/camps", map[string]string{"location": "North", "city": "Gaziantep", "country": "Turkey"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.admin(http.MethodPatch, "/camps/1", `{"City":"Kilis"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{`instance is not allowed to have the additional property "City"`}, errorDetails(t, rec))

	rec = s.admin(http.MethodPatch, "/camps/1", `{"city":"Kilis","City":"Urfa"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.admin(http.MethodGet, "/camps/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gaziantep", decode(t, rec)["camp"].(map[string]any)["city"])
}

func TestUpdateRejectsNullProperties(t *testing.T) {
	s := newTestServer(t).asAdmin()
	s.seedCampFamilyPerson()

	rec := s.admin(http.MethodPatch, "/camps/1", `{"location":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"instance.location is not of a type(s) string"}, errorDetails(t, rec))

	rec = s.admin(http.MethodPatch, "/families/1", `{"head":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"instance.head is not of a type(s) number"}, errorDetails(t, rec))

	rec = s.admin(http.MethodPost, "/camps", `{"location":"a","city":null,"country":"c"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"instance.city is not of a type(s) string"}, errorDetails(t, rec))
}
