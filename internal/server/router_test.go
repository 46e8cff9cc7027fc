package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"secretpages/backend/internal/config"
	"secretpages/backend/internal/database"
	"secretpages/backend/internal/hub"
	"secretpages/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testDSN = "host=localhost user=postgres password=postgres dbname=secretpages_test port=5432 sslmode=disable TimeZone=UTC"

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:                  "0",
		Env:                   "dev",
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLDays:   7,
	}
	gdb, err := database.Connect(testDSN)
	if err != nil {
		t.Skipf("skip: db not available: %v", err)
	}
	if err := database.Migrate(gdb); err != nil {
		t.Skipf("skip: migrate failed: %v", err)
	}
	return SetupRouter(cfg, gdb, hub.NewHub()), gdb
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	engine, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPageGuard_RedirectsWithoutSession(t *testing.T) {
	engine, _ := setupTest(t)

	for _, path := range []string{"/secret-page-1", "/secret-page-2", "/secret-page-3"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Errorf("%s: expected 302, got %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/" {
			t.Errorf("%s: redirect location = %q, want /", path, loc)
		}
	}
}

func TestAPI_RequiresBearer(t *testing.T) {
	engine, _ := setupTest(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/users/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	engine, gdb := setupTest(t)

	email := "flow-" + uuid.New().String() + "@example.com"
	t.Cleanup(func() {
		var user models.User
		if err := gdb.Where("email = ?", email).First(&user).Error; err == nil {
			gdb.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
			gdb.Where("user_id = ?", user.ID).Delete(&models.SecretMessage{})
			gdb.Delete(&models.User{}, "id = ?", user.ID)
		}
	})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":            email,
		"password":         "password123",
		"confirm_password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	// Signup surfaces the confirmation notice; no tokens yet.
	if bytes.Contains(w.Body.Bytes(), []byte("access_token")) {
		t.Error("register response carries a session token")
	}

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var session struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatal("login returned no access token")
	}

	w = doJSON(t, engine, http.MethodPut, "/api/v1/messages/me", session.AccessToken, gin.H{"message": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("save message: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodPut, "/api/v1/messages/me", session.AccessToken, gin.H{"message": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("save empty message: expected 400, got %d", w.Code)
	}

	w = doJSON(t, engine, http.MethodGet, "/api/v1/messages/me", session.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get message: expected 200, got %d", w.Code)
	}
	var got struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode message response: %v", err)
	}
	if got.Message != "hello" {
		t.Errorf("message = %q, want %q", got.Message, "hello")
	}

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/logout", "", gin.H{"refresh_token": session.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": session.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", w.Code)
	}
}
