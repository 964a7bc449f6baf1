// Package keychain stores the history database encryption key in the
// system credential store.
package keychain

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "meterup"
	defaultSecretUser    = "history_db_key"

	envDBKey   = "METERUP_DB_KEY"
	envService = "METERUP_KEYCHAIN_SERVICE"
	envAccount = "METERUP_KEYCHAIN_ACCOUNT"
)

// ErrKeyNotFound is returned when no key is stored yet.
var ErrKeyNotFound = errors.New("history db key not found")

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// LoadDBKey loads the history database key.
//
// Order of precedence:
// 1) METERUP_DB_KEY environment variable.
// 2) Credential store item referenced by service/account.
func LoadDBKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(envDBKey)); key != "" {
		return key, nil
	}

	service, account := itemNames()
	secret, err := keyringGet(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	key := strings.TrimSpace(secret)
	if key == "" {
		return "", ErrKeyNotFound
	}
	return key, nil
}

// SaveDBKey stores key in the system credential store.
func SaveDBKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("history db key cannot be empty")
	}

	service, account := itemNames()
	if err := keyringSet(service, account, trimmed); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

// RemoveDBKey deletes the stored key. A missing item is not an error.
func RemoveDBKey() error {
	service, account := itemNames()
	err := keyringDelete(service, account)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf(
		"failed to delete keyring item service=%q account=%q: %w",
		service,
		account,
		err,
	)
}

func itemNames() (service, account string) {
	return envOrDefault(envService, defaultSecretService), envOrDefault(envAccount, defaultSecretUser)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
