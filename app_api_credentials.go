// app_api_credentials.go - Kimai credential persistence API

package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hirocomco/Kimai-App/internal/service"
	"github.com/hirocomco/Kimai-App/internal/store"
)

// SaveCredentials persists the Kimai server URL and API token.
func (a *App) SaveCredentials(serverURL, apiToken string) error {
	ctx, cancel := a.apiContext()
	defer cancel()

	if err := a.credStore.Save(ctx, serverURL, apiToken); err != nil {
		a.logger.Error("save credentials failed", "error", err)
		return fmt.Errorf("storage error: %w", err)
	}

	a.logger.Info("credentials saved", "server_url", serverURL)
	return nil
}

// LoadCredentials returns the stored credentials, or nil when no
// complete credential pair exists. A missing file is not an error.
func (a *App) LoadCredentials() (*store.Credentials, error) {
	ctx, cancel := a.apiContext()
	defer cancel()

	creds, err := a.credStore.Load(ctx)
	if err != nil {
		a.logger.Error("load credentials failed", "error", err)
		return nil, fmt.Errorf("storage error: %w", err)
	}
	return creds, nil
}

// ClearCredentials removes the stored credentials. Clearing when
// nothing is stored succeeds.
func (a *App) ClearCredentials() error {
	ctx, cancel := a.apiContext()
	defer cancel()

	if err := a.credStore.Clear(ctx); err != nil {
		a.logger.Error("clear credentials failed", "error", err)
		return fmt.Errorf("storage error: %w", err)
	}

	a.logger.Info("credentials cleared")
	return nil
}

// ValidationResult reports a credential check against the Kimai server.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidateCredentials checks the given credentials against the Kimai
// version endpoint without storing them.
func (a *App) ValidateCredentials(serverURL, apiToken string) (*ValidationResult, error) {
	base, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return &ValidationResult{Valid: false, Message: "invalid server URL"}, nil
	}

	timeout := 10 * time.Second
	verifyTLS := true
	if a.settingsService != nil {
		ctx, cancel := a.apiContext()
		timeout = a.settingsService.GetDuration(ctx, service.CategoryKimai, "request_timeout", timeout)
		verifyTLS = a.settingsService.GetBool(ctx, service.CategoryKimai, "verify_tls", true)
		cancel()
	}

	client := &http.Client{Timeout: timeout}
	if !verifyTLS {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, base.String()+"/api/version", nil)
	if err != nil {
		return nil, fmt.Errorf("build validation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		a.logger.Warn("credential validation request failed", "server_url", serverURL, "error", err)
		return &ValidationResult{Valid: false, Message: "server unreachable: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body struct {
			Version string `json:"version"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return &ValidationResult{Valid: true, Message: "connected (unparseable version response)"}, nil
		}
		a.logger.Info("credentials validated", "server_url", serverURL, "kimai_version", body.Version)
		return &ValidationResult{Valid: true, Version: body.Version}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ValidationResult{Valid: false, Message: "authentication rejected"}, nil
	default:
		return &ValidationResult{Valid: false, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}, nil
	}
}

// apiContext returns a bounded context for a frontend-initiated call.
func (a *App) apiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
