package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func newTestCredentialStore(t *testing.T) *FileCredentialStore {
	t.Helper()
	return NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func TestCredentialsRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		serverURL string
		apiToken  string
	}{
		{
			name:      "plain values",
			serverURL: "https://kimai.example.com",
			apiToken:  "tok_1234567890",
		},
		{
			name:      "unicode values",
			serverURL: "https://zeiterfassung.example.de/kimai",
			apiToken:  "jeton-secrét-日本語",
		},
		{
			name:      "empty strings are present values",
			serverURL: "",
			apiToken:  "",
		},
		{
			name:      "one empty one set",
			serverURL: "https://kimai.example.com",
			apiToken:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestCredentialStore(t)
			ctx := context.Background()

			if err := s.Save(ctx, tt.serverURL, tt.apiToken); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			creds, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if creds == nil {
				t.Fatal("Load returned nil after Save")
			}
			if creds.ServerURL != tt.serverURL {
				t.Errorf("ServerURL = %q, want %q", creds.ServerURL, tt.serverURL)
			}
			if creds.APIToken != tt.apiToken {
				t.Errorf("APIToken = %q, want %q", creds.APIToken, tt.apiToken)
			}
		})
	}
}

func TestCredentialsLoadMissingDocument(t *testing.T) {
	s := newTestCredentialStore(t)

	creds, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on missing document should not error, got: %v", err)
	}
	if creds != nil {
		t.Errorf("Load on missing document = %+v, want nil", creds)
	}
}

func TestCredentialsClear(t *testing.T) {
	s := newTestCredentialStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "https://kimai.example.com", "tok"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	creds, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after Clear failed: %v", err)
	}
	if creds != nil {
		t.Errorf("Load after Clear = %+v, want nil", creds)
	}

	// The document must still exist as an empty object.
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("document missing after Clear: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document not valid JSON after Clear: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("document has %d entries after Clear, want 0", len(doc))
	}
}

// TestCredentialsClearOnMissingDocument covers clearing before anything
// was ever saved: the store should create an empty document rather than
// fail.
func TestCredentialsClearOnMissingDocument(t *testing.T) {
	s := newTestCredentialStore(t)

	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("Clear on missing document failed: %v", err)
	}

	creds, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds != nil {
		t.Errorf("Load = %+v, want nil", creds)
	}
}

func TestCredentialsPartialDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "only server_url", doc: `{"server_url": "https://kimai.example.com"}`},
		{name: "only api_token", doc: `{"api_token": "tok"}`},
		{name: "server_url not a string", doc: `{"server_url": 42, "api_token": "tok"}`},
		{name: "api_token not a string", doc: `{"server_url": "https://kimai.example.com", "api_token": null}`},
		{name: "empty object", doc: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestCredentialStore(t)
			if err := os.WriteFile(s.Path(), []byte(tt.doc), 0600); err != nil {
				t.Fatalf("seed document: %v", err)
			}

			creds, err := s.Load(context.Background())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if creds != nil {
				t.Errorf("Load = %+v, want nil for partial document", creds)
			}
		})
	}
}

func TestCredentialsCorruptDocument(t *testing.T) {
	s := newTestCredentialStore(t)
	if err := os.WriteFile(s.Path(), []byte("not json"), 0600); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	if _, err := s.Load(context.Background()); err == nil {
		t.Error("Load on corrupt document should error")
	}
}

func TestCredentialsSaveOverwrites(t *testing.T) {
	s := newTestCredentialStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "https://old.example.com", "old-token"); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := s.Save(ctx, "https://new.example.com", "new-token"); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	creds, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds == nil || creds.ServerURL != "https://new.example.com" || creds.APIToken != "new-token" {
		t.Errorf("Load = %+v, want the second pair", creds)
	}
}

func TestCredentialsSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestCredentialStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "https://kimai.example.com", "tok"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(s.Path()) {
			t.Errorf("unexpected leftover file: %s", e.Name())
		}
	}
}
