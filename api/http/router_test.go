package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/artem13815/contacts/api/http"
	"github.com/artem13815/contacts/api/http/handlers"
	"github.com/artem13815/contacts/pkg/auth"
	"github.com/artem13815/contacts/pkg/contact"
	"github.com/artem13815/contacts/pkg/health"
	"github.com/artem13815/contacts/pkg/repository/memory"
	"github.com/artem13815/contacts/pkg/security/jwt"
)

type testServer struct {
	app      *fiber.App
	contacts *memory.ContactRepository
	clock    time.Time
}

func newTestServer(t *testing.T, production bool) *testServer {
	t.Helper()
	s := &testServer{contacts: memory.NewContactRepository(), clock: time.Now()}
	tokens := jwt.NewGenerator("test-secret", "contacts-test")

	s.app = httpapi.NewApp(httpapi.Options{Production: production}, httpapi.Handlers{
		Auth:    handlers.NewAuthHandler(auth.NewAuthService(memory.NewUserRepository(), tokens)),
		Contact: handlers.NewContactHandler(contact.NewService(s.contacts)),
		Health:  handlers.NewHealthHandler(health.NewService(), "memory", "3000"),
	}, jwt.NewAuthMiddleware(tokens, func() time.Time { return s.clock }))
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// signup registers and logs in, returning the bearer token.
func (s *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	status, _ := s.do(t, http.MethodPost, "/user/register", "", map[string]string{
		"name": strings.Split(email, "@")[0], "email": email, "password": "pw-" + email,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := s.do(t, http.MethodPost, "/user/login", "", map[string]string{
		"email": email, "password": "pw-" + email,
	})
	require.Equal(t, http.StatusOK, status)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &tok))
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

type errorBody struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

func TestContactLifecycle(t *testing.T) {
	s := newTestServer(t, false)
	alice := s.signup(t, "alice@example.com")
	mallory := s.signup(t, "mallory@example.com")

	status, body := s.do(t, http.MethodPost, "/contact/", alice, map[string]string{
		"name": "Bob", "email": "bob@x.com", "phone": "123",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[contact.Contact](t, body)
	require.NotEmpty(t, created.ID)
	path := "/contact/" + created.ID.String()

	status, body = s.do(t, http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[contact.Contact](t, body)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "bob@x.com", got.Email)
	assert.Equal(t, "123", got.Phone)

	status, _ = s.do(t, http.MethodGet, path, mallory, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodPut, path, mallory, map[string]string{"name": "pwned"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodDelete, path, mallory, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bob", decode[contact.Contact](t, body).Name)

	status, body = s.do(t, http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusOK, status)
	deleted := decode[struct {
		Message string          `json:"message"`
		Contact contact.Contact `json:"contact"`
	}](t, body)
	assert.Equal(t, "Contact is deleted", deleted.Message)
	assert.Equal(t, created.ID, deleted.Contact.ID)

	status, _ = s.do(t, http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCurrentUserMatchesRegistration(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, http.MethodPost, "/user/register", "", map[string]string{
		"name": "carol", "email": "carol@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, status)
	registered := decode[map[string]any](t, body)

	status, body = s.do(t, http.MethodPost, "/user/login", "", map[string]string{
		"email": "carol@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, status)
	token := decode[map[string]string](t, body)["token"]

	status, body = s.do(t, http.MethodGet, "/user/current", token, nil)
	require.Equal(t, http.StatusOK, status)
	current := decode[map[string]string](t, body)
	assert.Equal(t, registered["id"], current["id"])
	assert.Equal(t, "carol@example.com", current["email"])
	assert.Equal(t, "carol", current["name"])
}

func TestAuthFailures(t *testing.T) {
	s := newTestServer(t, false)
	s.signup(t, "dave@example.com")

	status, _ := s.do(t, http.MethodPost, "/user/register", "", map[string]string{
		"email": "dave@example.com", "password": "again",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodPost, "/user/register", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/user/login", "", map[string]string{
		"email": "dave@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(t, http.MethodGet, "/contact/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, decode[errorBody](t, body).Message)

	status, _ = s.do(t, http.MethodGet, "/user/current", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	s := newTestServer(t, false)
	token := s.signup(t, "erin@example.com")

	status, _ := s.do(t, http.MethodGet, "/contact/", token, nil)
	require.Equal(t, http.StatusOK, status)

	s.clock = s.clock.Add(jwt.TokenTTL + time.Minute)
	status, body := s.do(t, http.MethodGet, "/contact/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "token expired", decode[errorBody](t, body).Message)
}

func TestCreateRequiresAllFields(t *testing.T) {
	s := newTestServer(t, false)
	token := s.signup(t, "frank@example.com")

	for _, in := range []map[string]string{
		{"email": "bob@x.com", "phone": "1"},
		{"name": "Bob", "phone": "1"},
		{"name": "Bob", "email": "bob@x.com"},
		{"name": "", "email": "bob@x.com", "phone": "1"},
	} {
		status, body := s.do(t, http.MethodPost, "/contact/", token, in)
		assert.Equal(t, http.StatusBadRequest, status, in)
		assert.Contains(t, decode[errorBody](t, body).Message, "All fields are mandatory")
	}

	status, body := s.do(t, http.MethodGet, "/contact/", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestListIsScopedToCaller(t *testing.T) {
	s := newTestServer(t, false)
	grace := s.signup(t, "grace@example.com")
	heidi := s.signup(t, "heidi@example.com")

	for _, tok := range []string{grace, heidi, grace} {
		status, _ := s.do(t, http.MethodPost, "/contact/", tok, map[string]string{
			"name": "n", "email": "e@x.com", "phone": "1",
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := s.do(t, http.MethodGet, "/contact", grace, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]contact.Contact](t, body), 2)

	status, body = s.do(t, http.MethodGet, "/contact", heidi, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]contact.Contact](t, body), 1)
}

func TestUpdateMergesFields(t *testing.T) {
	s := newTestServer(t, false)
	token := s.signup(t, "ivan@example.com")
	status, body := s.do(t, http.MethodPost, "/contact/", token, map[string]string{
		"name": "Bob", "email": "bob@x.com", "phone": "123",
	})
	require.Equal(t, http.StatusCreated, status)
	c := decode[contact.Contact](t, body)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		status, body = s.do(t, method, "/contact/"+c.ID.String(), token, map[string]string{
			"phone": "456", "user_id": "00000000-0000-0000-0000-000000000000",
		})
		require.Equal(t, http.StatusCreated, status, method)
		updated := decode[struct {
			UpdatedContact contact.Contact `json:"updatedContact"`
		}](t, body).UpdatedContact
		assert.Equal(t, "Bob", updated.Name)
		assert.Equal(t, "456", updated.Phone)
		assert.Equal(t, c.UserID, updated.UserID)
	}

	status, _ = s.do(t, http.MethodPatch, "/contact/not-a-uuid", token, map[string]string{"phone": "1"})
	assert.Equal(t, http.StatusNotFound, status)
}

// send issues a request with a raw body, so callers can omit it or make it invalid JSON.
func (s *testServer) send(t *testing.T, method, path, token, rawBody string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(rawBody))
	if rawBody != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestUpdateChecksOwnershipBeforeBody(t *testing.T) {
	s := newTestServer(t, false)
	alice := s.signup(t, "alice@example.com")
	mallory := s.signup(t, "mallory@example.com")
	status, body := s.do(t, http.MethodPost, "/contact/", alice, map[string]string{
		"name": "Bob", "email": "bob@x.com", "phone": "123",
	})
	require.Equal(t, http.StatusCreated, status)
	c := decode[contact.Contact](t, body)
	path := "/contact/" + c.ID.String()
	missing := "/contact/" + uuid.NewString()

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		for _, raw := range []string{"", "{not json"} {
			assert.Equal(t, http.StatusForbidden, s.send(t, method, path, mallory, raw), "%s %q", method, raw)
			assert.Equal(t, http.StatusNotFound, s.send(t, method, missing, alice, raw), "%s %q", method, raw)
			assert.Equal(t, http.StatusNotFound, s.send(t, method, missing, mallory, raw), "%s %q", method, raw)
		}
		assert.Equal(t, http.StatusCreated, s.send(t, method, path, alice, ""), method)
	}
	assert.Equal(t, http.StatusBadRequest, s.send(t, http.MethodPatch, path, alice, "{not json"))

	got, err := s.contacts.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "123", got.Phone)
}

func TestErrorStackOnlyOutsideProduction(t *testing.T) {
	dev := newTestServer(t, false)
	_, body := dev.do(t, http.MethodGet, "/contact/", "", nil)
	assert.NotEmpty(t, decode[errorBody](t, body).Stack)

	prod := newTestServer(t, true)
	_, body = prod.do(t, http.MethodGet, "/contact/", "", nil)
	assert.Empty(t, decode[errorBody](t, body).Stack)
}

func TestBannerAndProbes(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "API is running on port 3000", string(body))

	status, _ = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, false)
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}
