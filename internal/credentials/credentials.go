// Package credentials finds the mite API key.
package credentials

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/christopherklint97/might/internal/config"
)

const (
	ServiceName = "might"
	KeyName     = "api-key"

	envVar = "MITE_API_KEY"
)

// Resolve returns the API key from, in order, the MITE_API_KEY environment
// variable, the OS keyring and the config file.
func Resolve(cfg *config.Config) (string, error) {
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	// A missing or unreachable keyring falls through to the config file.
	if key, err := keyring.Get(ServiceName, KeyName); err == nil && key != "" {
		return key, nil
	}

	if cfg != nil && cfg.Mite.APIKey != "" {
		return cfg.Mite.APIKey, nil
	}
	return "", config.ErrMissingAPIKey
}

// Store saves the API key in the OS keyring.
func Store(key string) error {
	if key == "" {
		return errors.New("API key cannot be empty")
	}
	if err := keyring.Set(ServiceName, KeyName, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// Delete removes the API key from the OS keyring.
func Delete() error {
	err := keyring.Delete(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("API key not found in keyring: %w", err)
		}
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	return nil
}
