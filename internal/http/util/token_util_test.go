package util

import (
	"errors"
	"testing"
	"time"
)

func TestSessionSigner_RoundTrip(t *testing.T) {
	signer := NewSessionSigner([]byte("test-secret"), time.Hour)

	token, err := signer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	userID, err := signer.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %q", userID)
	}
}

func TestSessionSigner_RejectsTampering(t *testing.T) {
	signer := NewSessionSigner([]byte("test-secret"), time.Hour)

	token, err := signer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := signer.Validate(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}

	other := NewSessionSigner([]byte("different-secret"), time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken under different secret, got %v", err)
	}
}

func TestSessionSigner_RejectsExpired(t *testing.T) {
	signer := NewSessionSigner([]byte("test-secret"), -time.Minute)

	token, err := signer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := signer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestSessionSigner_MissingSecret(t *testing.T) {
	signer := NewSessionSigner(nil, time.Hour)
	if _, err := signer.Issue("user-123"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
