// Package auth provides credential storage for the Squarespace API tokens.
// Tokens live in the system keychain when available, with a file fallback
// for headless hosts. This backs the `auth` commands and config loading;
// the API client's in-process credential state never writes back here.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
	"github.com/zalando/go-keyring"
)

const (
	serviceName = "squarespace-mcp"

	// lockTimeout bounds how long a save waits for the file lock before
	// failing. Unlike a cache, losing a credential write is not acceptable,
	// so this fails closed.
	lockTimeout = 2 * time.Second
)

// Credentials holds the OAuth token set for one site.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Store handles credential storage, preferring the system keychain.
type Store struct {
	useKeyring  bool
	fallbackDir string
}

// NewStore creates a credential store rooted at fallbackDir.
func NewStore(fallbackDir string) *Store {
	// Skip keyring for tests or when explicitly disabled
	if os.Getenv("SQUARESPACE_NO_KEYRING") != "" {
		return &Store{useKeyring: false, fallbackDir: fallbackDir}
	}

	testKey := "squarespace-mcp::probe"
	if err := keyring.Set(serviceName, testKey, "probe"); err == nil {
		_ = keyring.Delete(serviceName, testKey) // Best-effort cleanup
		return &Store{useKeyring: true, fallbackDir: fallbackDir}
	}
	fmt.Fprintf(os.Stderr, "warning: system keyring unavailable, credentials stored in plaintext at %s\n",
		filepath.Join(fallbackDir, "credentials.json"))
	return &Store{useKeyring: false, fallbackDir: fallbackDir}
}

// UsingKeyring reports whether the system keyring backs this store.
func (s *Store) UsingKeyring() bool {
	return s.useKeyring
}

// Load retrieves the stored credentials.
func (s *Store) Load() (*Credentials, error) {
	if s.useKeyring {
		return s.loadFromKeyring()
	}
	return s.loadFromFile()
}

// Save stores credentials.
func (s *Store) Save(creds *Credentials) error {
	if s.useKeyring {
		return s.saveToKeyring(creds)
	}
	return s.saveToFile(creds)
}

// Delete removes stored credentials.
func (s *Store) Delete() error {
	if s.useKeyring {
		return keyring.Delete(serviceName, keyringKey())
	}
	return s.deleteFile()
}

func keyringKey() string {
	return "squarespace-mcp::tokens"
}

// Keyring methods

func (s *Store) loadFromKeyring() (*Credentials, error) {
	data, err := keyring.Get(serviceName, keyringKey())
	if err != nil {
		return nil, fmt.Errorf("credentials not found: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return &creds, nil
}

func (s *Store) saveToKeyring(creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, keyringKey(), string(data))
}

// File fallback methods. Writes hold an exclusive flock so concurrent
// processes (a running server plus an `auth set-token` invocation) cannot
// interleave partial writes.

func (s *Store) credentialsPath() string {
	return filepath.Join(s.fallbackDir, "credentials.json")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.fallbackDir, ".lock")
}

func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(s.fallbackDir, 0700); err != nil {
		return err
	}

	fl := flock.New(s.lockPath())
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil && ctx.Err() == nil {
		return err
	}
	if !locked {
		return fmt.Errorf("timed out waiting for credential file lock at %s", s.lockPath())
	}
	defer fl.Unlock() //nolint:errcheck // unlock failure leaves a stale lock file at worst

	return fn()
}

func (s *Store) loadFromFile() (*Credentials, error) {
	data, err := os.ReadFile(s.credentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("credentials not found")
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return &creds, nil
}

func (s *Store) saveToFile(creds *Credentials) error {
	return s.withLock(func() error {
		data, err := json.MarshalIndent(creds, "", "  ")
		if err != nil {
			return err
		}

		// Atomic write with randomized temp file name
		tmpFile, err := os.CreateTemp(s.fallbackDir, "credentials-*.json.tmp")
		if err != nil {
			return err
		}
		tmpPath := tmpFile.Name()

		if _, err := tmpFile.Write(data); err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return err
		}
		if err := tmpFile.Chmod(0600); err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return err
		}
		if err := tmpFile.Close(); err != nil {
			os.Remove(tmpPath)
			return err
		}

		// Unix: rename atomically replaces the destination.
		// Windows: rename fails when destination exists.
		destPath := s.credentialsPath()
		if err := os.Rename(tmpPath, destPath); err != nil {
			if runtime.GOOS == "windows" {
				_ = os.Remove(destPath)
				return os.Rename(tmpPath, destPath)
			}
			os.Remove(tmpPath)
			return err
		}
		return nil
	})
}

func (s *Store) deleteFile() error {
	return s.withLock(func() error {
		err := os.Remove(s.credentialsPath())
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
}
