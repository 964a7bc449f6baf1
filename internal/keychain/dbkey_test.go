package keychain

import (
	"errors"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestLoadDBKeyUsesEnvVarFirst(t *testing.T) {
	t.Setenv(envDBKey, "  env-key  ")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringCalled := false
	keyringGet = func(service, user string) (string, error) {
		keyringCalled = true
		return "keyring-key", nil
	}

	got, err := LoadDBKey()
	if err != nil {
		t.Fatalf("LoadDBKey() unexpected error: %v", err)
	}
	if got != "env-key" {
		t.Fatalf("LoadDBKey() = %q, want %q", got, "env-key")
	}
	if keyringCalled {
		t.Fatal("LoadDBKey() called keyringGet even though METERUP_DB_KEY was set")
	}
}

func TestLoadDBKeyFallsBackToKeyring(t *testing.T) {
	t.Setenv(envDBKey, "")
	t.Setenv(envService, "svc")
	t.Setenv(envAccount, "acct")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	var gotService, gotUser string
	keyringGet = func(service, user string) (string, error) {
		gotService = service
		gotUser = user
		return "  keyring-key  ", nil
	}

	got, err := LoadDBKey()
	if err != nil {
		t.Fatalf("LoadDBKey() unexpected error: %v", err)
	}
	if got != "keyring-key" {
		t.Fatalf("LoadDBKey() = %q, want %q", got, "keyring-key")
	}
	if gotService != "svc" || gotUser != "acct" {
		t.Fatalf("keyringGet called with (%q, %q), want (%q, %q)", gotService, gotUser, "svc", "acct")
	}
}

func TestLoadDBKeyNotFound(t *testing.T) {
	t.Setenv(envDBKey, "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	for _, stub := range []func(string, string) (string, error){
		func(string, string) (string, error) { return "", keyring.ErrNotFound },
		func(string, string) (string, error) { return "   ", nil },
	} {
		keyringGet = stub
		if _, err := LoadDBKey(); !errors.Is(err, ErrKeyNotFound) {
			t.Fatalf("LoadDBKey() error = %v, want ErrKeyNotFound", err)
		}
	}
}

func TestLoadDBKeyReturnsErrorWhenKeyringFails(t *testing.T) {
	t.Setenv(envDBKey, "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "", errors.New("boom")
	}

	_, err := LoadDBKey()
	if err == nil {
		t.Fatal("LoadDBKey() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "failed to read keyring item") {
		t.Fatalf("LoadDBKey() error = %q, expected keyring read context", err.Error())
	}
}

func TestSaveDBKeySavesTrimmedKey(t *testing.T) {
	t.Setenv(envService, "svc")
	t.Setenv(envAccount, "acct")

	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	var gotService, gotUser, gotSecret string
	keyringSet = func(service, user, secret string) error {
		gotService = service
		gotUser = user
		gotSecret = secret
		return nil
	}

	if err := SaveDBKey("  my-key  "); err != nil {
		t.Fatalf("SaveDBKey() unexpected error: %v", err)
	}
	if gotService != "svc" || gotUser != "acct" || gotSecret != "my-key" {
		t.Fatalf(
			"SaveDBKey() called keyringSet with (%q, %q, %q), want (%q, %q, %q)",
			gotService, gotUser, gotSecret, "svc", "acct", "my-key",
		)
	}
}

func TestSaveDBKeyRejectsEmptyKey(t *testing.T) {
	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	called := false
	keyringSet = func(service, user, secret string) error {
		called = true
		return nil
	}

	if err := SaveDBKey("   "); err == nil {
		t.Fatal("SaveDBKey() error = nil, want non-nil")
	}
	if called {
		t.Fatal("SaveDBKey() called keyringSet for empty key")
	}
}

func TestRemoveDBKeyIgnoresMissingItem(t *testing.T) {
	origDelete := keyringDelete
	defer func() { keyringDelete = origDelete }()

	keyringDelete = func(service, user string) error {
		return keyring.ErrNotFound
	}
	if err := RemoveDBKey(); err != nil {
		t.Fatalf("RemoveDBKey() error = %v, want nil", err)
	}

	keyringDelete = func(service, user string) error {
		return errors.New("locked")
	}
	if err := RemoveDBKey(); err == nil {
		t.Fatal("RemoveDBKey() error = nil, want non-nil")
	}
}
