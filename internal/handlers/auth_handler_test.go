package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/tanim0x/snapnest/backend/internal/models"
	"github.com/tanim0x/snapnest/backend/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHandler(t *testing.T, users *fakeUserRepo) *AuthHandler {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return NewAuthHandler(users, store)
}

func registerContext(e *echo.Echo, fields map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e := newTestEcho()
	users := &fakeUserRepo{}
	h := newAuthHandler(t, users)

	c, rec := registerContext(e, map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret",
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	c, _ = registerContext(e, map[string]string{
		"username": "alice", "email": "other@example.com", "password": "secret",
	})
	if code := httpStatus(h.Register(c)); code != http.StatusConflict {
		t.Errorf("duplicate username: expected 409, got %d", code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newTestEcho()
	users := &fakeUserRepo{}
	h := newAuthHandler(t, users)

	c, _ := registerContext(e, map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret",
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	c, _ = registerContext(e, map[string]string{
		"username": "bob", "email": "alice@example.com", "password": "secret",
	})
	if code := httpStatus(h.Register(c)); code != http.StatusConflict {
		t.Errorf("duplicate email: expected 409, got %d", code)
	}
}

func TestRegisterResponseOmitsPasswordHash(t *testing.T) {
	e := newTestEcho()
	users := &fakeUserRepo{}
	h := newAuthHandler(t, users)

	c, rec := registerContext(e, map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret",
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("response body leaks the password field: %s", rec.Body.String())
	}
	if users.users[0].Password == "secret" {
		t.Error("password stored as plaintext")
	}
}

func TestLoginUnknownUserAndWrongPasswordSameMessage(t *testing.T) {
	e := newTestEcho()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	users := &fakeUserRepo{users: []*models.User{
		{Username: "alice", Email: "alice@example.com", Password: string(hash)},
	}}
	h := newAuthHandler(t, users)

	c, _ := jsonContext(e, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)
	wrongPass := h.Login(c)

	c, _ = jsonContext(e, http.MethodPost, "/login", `{"username":"nobody","password":"secret"}`)
	unknownUser := h.Login(c)

	wp, ok1 := wrongPass.(*echo.HTTPError)
	uu, ok2 := unknownUser.(*echo.HTTPError)
	if !ok1 || !ok2 {
		t.Fatalf("expected HTTP errors, got %v and %v", wrongPass, unknownUser)
	}
	if wp.Code != http.StatusUnauthorized || uu.Code != http.StatusUnauthorized {
		t.Errorf("expected 401/401, got %d/%d", wp.Code, uu.Code)
	}
	if wp.Message != uu.Message {
		t.Errorf("error messages differ: %q vs %q", wp.Message, uu.Message)
	}
}

func TestLoginSuccess(t *testing.T) {
	e := newTestEcho()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	users := &fakeUserRepo{users: []*models.User{
		{Username: "alice", Email: "alice@example.com", Password: string(hash)},
	}}
	h := newAuthHandler(t, users)

	c, rec := jsonContext(e, http.MethodPost, "/login", `{"username":"alice","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got["username"] != "alice" {
		t.Errorf("expected username alice, got %v", got["username"])
	}
	if _, leaked := got["password"]; leaked {
		t.Error("login response leaks the password hash")
	}
}
