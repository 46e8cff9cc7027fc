package jwt

import (
	"testing"
	"time"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		secret  string
		ttl     time.Duration
		wantErr bool
	}{
		{"valid token", "5f8a4f0e-0b1c-4a8e-9d3e-111111111111", "test-secret", 15 * time.Minute, false},
		{"empty user id", "", "test-secret", 15 * time.Minute, false},
		{"empty secret", "5f8a4f0e-0b1c-4a8e-9d3e-111111111111", "", 15 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.userID, tt.secret, tt.ttl)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateToken() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && token == "" {
				t.Error("GenerateToken() returned empty token")
			}
		})
	}
}

func TestParseToken_RoundTrip(t *testing.T) {
	userID := "5f8a4f0e-0b1c-4a8e-9d3e-222222222222"
	secret := "test-secret"

	token, err := GenerateToken(userID, secret, 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("ParseToken() UserID = %q, want %q", claims.UserID, userID)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	token, err := GenerateToken("user-1", "secret-a", 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", token, "secret-b"},
		{"garbage token", "not.a.token", "secret-a"},
		{"empty token", "", "secret-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token, tt.secret); err == nil {
				t.Error("ParseToken() expected error, got nil")
			}
		})
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("user-1", "secret-a", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := ParseToken(token, "secret-a"); err == nil {
		t.Error("ParseToken() accepted an expired token")
	}
}
