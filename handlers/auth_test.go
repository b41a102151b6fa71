package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/camden-git/campaidbackend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCreatesFirstAdminOnce(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/setup", map[string]string{"username": "root", "password": "long-enough"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/setup", map[string]string{"username": "again", "password": "long-enough"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token := s.login("root", "long-enough")
	rec = s.do(http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "root", user["username"])
	assert.NotContains(t, user, "password_hash")
}

func TestSetupValidatesPayload(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/setup", map[string]string{"username": "ab"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{
		"instance.username does not meet minimum length of 3",
		`instance requires property "password"`,
	}, errorDetails(t, rec))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t).asAdmin()

	rec := s.do(http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{"username": "ghost", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIssuedTokenClaims(t *testing.T) {
	h := NewAuthHandler(nil, testSecret, time.Hour)
	now := time.Now()

	signed, expiresAt, err := h.issueToken(&models.User{ID: 42}, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) { return testSecret, nil })
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.Len(t, claims.ID, 36)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t).asAdmin()

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/camps", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	forged, _, err := NewAuthHandler(nil, []byte("other-secret"), time.Hour).issueToken(&models.User{ID: 1}, time.Now())
	require.NoError(t, err)
	rec := s.do(http.MethodGet, "/camps", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissionsAreEnforced(t *testing.T) {
	s := newTestServer(t).asAdmin()
	viewer := s.tokenFor("viewer", "camp.list")

	rec := s.do(http.MethodGet, "/camps", nil, viewer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/camps", map[string]string{"location": "N", "city": "C", "country": "T"}, viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{"Forbidden: requires global permission 'camp.create'"}, errorDetails(t, rec))
}

func TestPersonLookupNeedsOnlyLogin(t *testing.T) {
	s := newTestServer(t).asAdmin()
	rec := s.admin(http.MethodPost, "/people", map[string]string{
		"first_name": "A", "last_name": "B", "dob": "2000-01-01", "sex": "F", "nid": "123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	nobody := s.tokenFor("clerk")
	rec = s.do(http.MethodGet, "/people/1", nil, nobody)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/people", nil, nobody)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
