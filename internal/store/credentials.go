// Package store provides the persistence layer: the file-backed
// credential document and the SQLite settings store.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys of the credential document. The document is a flat JSON object;
// unknown keys are preserved on load but dropped on save/clear.
const (
	credKeyServerURL = "server_url"
	credKeyAPIToken  = "api_token"
)

// Credentials is the single persisted business record: where the Kimai
// server lives and the API token used to talk to it.
type Credentials struct {
	ServerURL string `json:"server_url"`
	APIToken  string `json:"api_token"`
}

// CredentialStore persists the credential pair. Load returns nil (and a
// nil error) when no complete pair is stored; a missing document is not
// an error.
type CredentialStore interface {
	Save(ctx context.Context, serverURL, apiToken string) error
	Load(ctx context.Context) (*Credentials, error)
	Clear(ctx context.Context) error
}

// FileCredentialStore stores the pair in a JSON document on disk
// (credentials.json). Writes go through a temp file in the same
// directory followed by a rename, so a crash mid-save leaves either the
// old document or the new one, never a torn file.
type FileCredentialStore struct {
	path string
	mu   sync.Mutex
}

// NewFileCredentialStore creates a store backed by the document at path.
// The file is created lazily on first Save.
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

// Path returns the location of the credential document.
func (s *FileCredentialStore) Path() string {
	return s.path
}

// Save writes both fields and flushes to durable storage. Both values
// are part of a single document write, so they are stored atomically
// relative to this call.
func (s *FileCredentialStore) Save(ctx context.Context, serverURL, apiToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]any{
		credKeyServerURL: serverURL,
		credKeyAPIToken:  apiToken,
	}
	return s.writeDocument(doc)
}

// Load reads the document and returns the pair only when both keys are
// present and string-valued. A missing document, a missing key, or a
// non-string value all mean "no credentials" and yield (nil, nil). An
// empty string is a present value.
func (s *FileCredentialStore) Load(ctx context.Context) (*Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open credential document: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse credential document: %w", err)
	}

	url, urlOK := doc[credKeyServerURL].(string)
	token, tokenOK := doc[credKeyAPIToken].(string)
	if !urlOK || !tokenOK {
		return nil, nil
	}

	return &Credentials{ServerURL: url, APIToken: token}, nil
}

// Clear removes all entries and flushes. The document itself is kept
// (as an empty object) so a subsequent Load still reports "no
// credentials" instead of recreating state from scratch.
func (s *FileCredentialStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeDocument(map[string]any{})
}

// writeDocument serializes doc and atomically replaces the document on
// disk. Callers hold s.mu.
func (s *FileCredentialStore) writeDocument(doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.json.tmp")
	if err != nil {
		return fmt.Errorf("open credential document: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write credential document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush credential document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("flush credential document: %w", err)
	}

	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("restrict credential document permissions: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace credential document: %w", err)
	}
	return nil
}
