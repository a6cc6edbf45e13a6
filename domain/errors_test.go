package domain

import (
	"errors"
	"testing"
)

func TestNotFoundSpecializations(t *testing.T) {
	if !errors.Is(ErrUserNotFound, ErrNotFound) {
		t.Fatal("ErrUserNotFound should match ErrNotFound")
	}
	if !errors.Is(ErrSessionNotFound, ErrNotFound) {
		t.Fatal("ErrSessionNotFound should match ErrNotFound")
	}
	if errors.Is(ErrUserNotFound, ErrSessionNotFound) {
		t.Fatal("specializations must stay distinct from each other")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidCredentials,
		ErrConflict,
		ErrInvalidOTP,
		ErrNotFound,
		ErrFeatureNotConfigured,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Fatalf("sentinel %v unexpectedly matches %v", a, b)
			}
		}
	}
}
