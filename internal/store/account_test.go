package store

import (
	"errors"
	"testing"

	"secretpages/backend/internal/hub"
	"secretpages/backend/internal/models"

	"github.com/google/uuid"
)

func TestRegisterLogin(t *testing.T) {
	db := testDB(t)
	s := NewAccountStore(db, testConfig())

	email := "signup-" + uuid.New().String() + "@example.com"
	user, err := s.Register(ctx(), email, "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
		db.Delete(&models.User{}, "id = ?", user.ID)
	})
	if user.ID == "" {
		t.Fatal("Register() returned user without ID")
	}
	if user.PasswordHash == "password123" {
		t.Fatal("Register() stored the plaintext password")
	}

	session, err := s.Login(ctx(), email, "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Error("Login() returned incomplete session")
	}

	if _, err := s.Login(ctx(), email, "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(ctx(), "ghost-"+email, "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewAccountStore(db, testConfig())
	u := newTestUser(t, db)

	if _, err := s.Register(ctx(), u.Email, "password123"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	db := testDB(t)
	s := NewAccountStore(db, testConfig())

	email := "rotate-" + uuid.New().String() + "@example.com"
	user, err := s.Register(ctx(), email, "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
		db.Delete(&models.User{}, "id = ?", user.ID)
	})

	first, err := s.Login(ctx(), email, "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	second, err := s.Refresh(ctx(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("Refresh() did not rotate the refresh token")
	}

	// The old token is revoked by rotation.
	if _, err := s.Refresh(ctx(), first.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh() with rotated token error = %v, want ErrInvalidToken", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	db := testDB(t)
	s := NewAccountStore(db, testConfig())

	email := "logout-" + uuid.New().String() + "@example.com"
	user, err := s.Register(ctx(), email, "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
		db.Delete(&models.User{}, "id = ?", user.ID)
	})

	session, err := s.Login(ctx(), email, "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := s.Logout(ctx(), session.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := s.Refresh(ctx(), session.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh() after logout error = %v, want ErrInvalidToken", err)
	}
	// Signing out twice is fine.
	if err := s.Logout(ctx(), session.RefreshToken); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestDelete_CascadesEverything(t *testing.T) {
	db := testDB(t)
	accounts := NewAccountStore(db, testConfig())
	relationships := NewRelationshipStore(db)
	messages := NewMessageStore(db, hub.NewHub())

	a := newTestUser(t, db)
	b := newTestUser(t, db)

	if _, err := messages.Save(ctx(), a.ID, "doomed secret"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	req, err := relationships.SendRequest(ctx(), a.ID, a.Email, b.Email)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := relationships.Respond(ctx(), b.ID, req.ID, models.StatusAccepted); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	if err := accounts.Delete(ctx(), a.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := accounts.Get(ctx(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := messages.Get(ctx(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("message survives account deletion")
	}
	friends, err := relationships.Friends(ctx(), b.ID)
	if err != nil {
		t.Fatalf("Friends() error = %v", err)
	}
	for _, f := range friends {
		if f.ID == a.ID {
			t.Error("friendship survives account deletion")
		}
	}

	if err := accounts.Delete(ctx(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
