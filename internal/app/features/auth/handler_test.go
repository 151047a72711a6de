package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/gatherhub/gatherhub/internal/app/features/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/token"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/gatherhub/gatherhub/internal/testutil"
)

const testTokenKey = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T) *auth.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return auth.NewHandler(db, token.NewCodec(testTokenKey), zap.NewNop())
}

type authEnvelope struct {
	Data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	} `json:"data"`
}

func register(t *testing.T, handler *auth.Handler, email, password string) authEnvelope {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/auth/register", map[string]any{
		"firstname": "Marie",
		"lastname":  "Dupont",
		"email":     email,
		"password":  password,
	})
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var env authEnvelope
	testutil.DecodeResponse(t, rec, &env)
	return env
}

func TestHandleRegister(t *testing.T) {
	handler := newTestHandler(t)

	env := register(t, handler, "marie@example.com", "s3cret-enough")
	if env.Data.Token == "" {
		t.Error("expected a signed-in token")
	}
	if env.Data.User.Email != "marie@example.com" {
		t.Errorf("email: got %q", env.Data.User.Email)
	}

	codec := token.NewCodec(testTokenKey)
	uid, err := codec.Verify(env.Data.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if uid != env.Data.User.ID {
		t.Error("token does not identify the registered user")
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "marie@example.com", "s3cret-enough")

	req := testutil.NewJSONRequest(t, "POST", "/auth/register", map[string]any{
		"firstname": "Other",
		"lastname":  "Person",
		"email":     "MARIE@example.com",
		"password":  "another-pass",
	})
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)
	testutil.AssertStatus(t, rec, http.StatusConflict)
}

func TestHandleLogin(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "marie@example.com", "s3cret-enough")

	req := testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]any{
		"email":    "marie@example.com",
		"password": "s3cret-enough",
	})
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var env authEnvelope
	testutil.DecodeResponse(t, rec, &env)
	if env.Data.Token == "" {
		t.Error("expected a token")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "marie@example.com", "s3cret-enough")

	req := testutil.NewJSONRequest(t, "POST", "/auth/login", map[string]any{
		"email":    "marie@example.com",
		"password": "wrong",
	})
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestResponseNeverLeaksPasswordHash(t *testing.T) {
	handler := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/auth/register", map[string]any{
		"firstname": "Marie",
		"lastname":  "Dupont",
		"email":     "marie@example.com",
		"password":  "s3cret-enough",
	})
	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var raw map[string]json.RawMessage
	testutil.DecodeResponse(t, rec, &raw)
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw["data"], &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	var user map[string]json.RawMessage
	if err := json.Unmarshal(data["user"], &user); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	for key := range user {
		if key == "password_hash" || key == "passwordHash" {
			t.Fatalf("response exposes %q", key)
		}
	}
}
