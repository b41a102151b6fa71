package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/camden-git/campaidbackend/database"
	"github.com/camden-git/campaidbackend/models"
	"github.com/camden-git/campaidbackend/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testSecret = []byte("test-secret")

type testServer struct {
	t      *testing.T
	db     *database.DB
	gormDB *gorm.DB
	router http.Handler
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.InitDB(database.DriverSQLite, filepath.Join(t.TempDir(), "camps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := database.InitGormDB(db)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(gdb))
	require.NoError(t, SyncAdminRole(repository.NewGormRoleRepository(gdb)))

	router := NewRouter(db, gdb, RouterOptions{
		JWTSecret:          testSecret,
		JWTExpiration:      time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		RequestTimeout:     5 * time.Second,
		Logger:             zap.NewNop(),
	})
	return &testServer{t: t, db: db, gormDB: gdb, router: router}
}

// asAdmin creates the first administrator and logs in as them.
func (s *testServer) asAdmin() *testServer {
	s.t.Helper()
	_, err := CreateFirstAdmin(s.gormDB, "admin", "correct-horse")
	require.NoError(s.t, err)
	s.token = s.login("admin", "correct-horse")
	return s
}

// tokenFor creates an account holding only perms and returns its token.
func (s *testServer) tokenFor(username string, perms ...string) string {
	s.t.Helper()
	u := &models.User{Username: username, GlobalPermissions: perms}
	require.NoError(s.t, u.SetPassword("pw-"+username))
	require.NoError(s.t, repository.NewGormUserRepository(s.gormDB).Create(u))
	return s.login(username, "pw-"+username)
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// admin sends the request with the administrator token.
func (s *testServer) admin(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, body, s.token)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorDetails(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	details := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		details = append(details, e.Detail)
	}
	return details
}
