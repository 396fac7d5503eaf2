package jwt

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestVerifyReconnect(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice", SessionID: "s1"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name      string
		secret    string
		username  string
		sessionID string
		wantErr   bool
	}{
		{name: "matching", secret: testSecret, username: "alice", sessionID: "s1"},
		{name: "other user", secret: testSecret, username: "bob", sessionID: "s1", wantErr: true},
		{name: "other session", secret: testSecret, username: "alice", sessionID: "s2", wantErr: true},
		{name: "wrong secret", secret: "nope", username: "alice", sessionID: "s1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := VerifyReconnect(token, tt.secret, tt.username, tt.sessionID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyReconnect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && payload.Username != "alice" {
				t.Fatalf("payload username = %q, want alice", payload.Username)
			}
		})
	}
}

func TestVerifyReconnectMismatchError(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice", SessionID: "s1"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := VerifyReconnect(token, testSecret, "alice", "s2"); !errors.Is(err, ErrSessionMismatch) {
		t.Fatalf("error = %v, want ErrSessionMismatch", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice", SessionID: "s1"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
