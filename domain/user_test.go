package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserJSON_NeverContainsHash(t *testing.T) {
	user := User{
		ID:           "u1",
		Email:        "a@x.io",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "$2a$10$secret-hash",
	}

	body, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(body), "secret-hash") {
		t.Fatalf("hash leaked into JSON: %s", body)
	}
	if strings.Contains(string(body), "password") {
		t.Fatalf("password field present in JSON: %s", body)
	}
}

func TestFullName(t *testing.T) {
	user := &User{FirstName: "Ada", LastName: "Lovelace"}
	if got := user.FullName(); got != "Ada Lovelace" {
		t.Fatalf("unexpected full name: %q", got)
	}

	user = &User{FirstName: "Cher"}
	if got := user.FullName(); got != "Cher" {
		t.Fatalf("single name not trimmed: %q", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Mixed.Case@Example.COM "); got != "mixed.case@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
