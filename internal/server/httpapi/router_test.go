package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quizdeck/internal/logging"
	"github.com/dmitrijs2005/quizdeck/internal/server/auth"
	"github.com/dmitrijs2005/quizdeck/internal/server/repositories/users"
	"github.com/dmitrijs2005/quizdeck/internal/server/services"
)

var testSecret = []byte("test-secret")

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []FieldError    `json:"errors"`
}

func newTestServer(t *testing.T) (*httptest.Server, *services.UserService) {
	t.Helper()

	repo := users.NewInMemoryRepository()
	svc := services.NewUserService(repo, testSecret, time.Minute)
	log := logging.NewSlogLogger(slog.New(slog.DiscardHandler))

	srv := httptest.NewServer(NewRouter(NewHandler(svc, log), testSecret))
	t.Cleanup(srv.Close)
	return srv, svc
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerUser(t *testing.T, srv *httptest.Server, email string) (string, string) {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Alice", "email": email, "password": "password1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var data struct {
		User  struct{ ID string }
		Token string
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.User.ID, data.Token
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestRegister_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "", "email": "not-an-email", "password": "short",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Len(t, env.Errors, 3)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "alice@example.com")

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Imposter", "email": "alice@example.com", "password": "password2",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "email", env.Errors[0].Field)
}

func TestLogin_SuccessAndRejection(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "alice@example.com")

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email or password", env.Message)
}

func TestMe_ReturnsStoredAccount(t *testing.T) {
	srv, _ := newTestServer(t)
	id, token := registerUser(t, srv, "alice@example.com")

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", token, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var data struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, id, data.User.ID)
	assert.Equal(t, "alice@example.com", data.User.Email)
	assert.Equal(t, "student", data.User.Role)
}

func TestMe_RequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_ExpiredToken(t *testing.T) {
	srv, _ := newTestServer(t)
	id, _ := registerUser(t, srv, "alice@example.com")

	expired, err := auth.GenerateToken(id, "student", testSecret, -time.Minute)
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_DeletedAccountLosesAccess(t *testing.T) {
	srv, _ := newTestServer(t)

	// A syntactically valid token whose account does not exist.
	token, err := auth.GenerateToken("u-ghost", "admin", testSecret, time.Minute)
	require.NoError(t, err)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unknown account", env.Message)
}

func TestUpdateProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	_, token := registerUser(t, srv, "alice@example.com")

	resp, env := doJSON(t, http.MethodPut, srv.URL+"/api/v1/auth/profile", token, map[string]string{
		"name": "Alice C", "email": "ac@example.com",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var data struct {
		User struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Alice C", data.User.Name)
	assert.Equal(t, "ac@example.com", data.User.Email)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "alice@example.com")
	_, token := registerUser(t, srv, "bob@example.com")

	resp, env := doJSON(t, http.MethodPut, srv.URL+"/api/v1/auth/profile", token, map[string]string{
		"name": "Bob", "email": "alice@example.com",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "email", env.Errors[0].Field)
}

func TestResponsesNeverLeakPasswordHash(t *testing.T) {
	srv, _ := newTestServer(t)
	_, token := registerUser(t, srv, "alice@example.com")

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotContains(t, string(env.Data), "password")
	assert.NotContains(t, fmt.Sprint(env), "password1")
}
