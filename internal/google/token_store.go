package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gofrs/flock"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned by a TokenStore that holds no token yet.
var ErrNoToken = errors.New("no cached token")

// TokenStore persists a single OAuth2 token between runs.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
}

// storedToken adds the granted scopes, which oauth2.Token does not serialize.
type storedToken struct {
	*oauth2.Token
	Scope string `json:"scope,omitempty"`
}

// FileTokenStore keeps the token as JSON in a file readable only by the owner.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store backed by path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Path returns the token file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// Load reads the token file. A missing file yields ErrNoToken.
func (s *FileTokenStore) Load() (*oauth2.Token, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	} else if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	stored := storedToken{Token: &oauth2.Token{}}
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", s.path, err)
	}

	if stored.Scope != "" {
		return stored.Token.WithExtra(map[string]interface{}{"scope": stored.Scope}), nil
	}
	return stored.Token, nil
}

// Save writes the token and its granted scopes with mode 0600, creating the parent directory with
// mode 0700. Concurrent writers are serialized through a lock file next to
// the token.
func (s *FileTokenStore) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("refusing to save nil token")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock token file: %w", err)
	}
	defer lock.Unlock()

	stored := storedToken{Token: token}
	stored.Scope, _ = token.Extra("scope").(string)

	b, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(s.path, b, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	// WriteFile keeps the mode of an existing file
	if runtime.GOOS != "windows" {
		if err := os.Chmod(s.path, 0600); err != nil {
			return fmt.Errorf("failed to restrict token file permissions: %w", err)
		}
	}

	return nil
}
