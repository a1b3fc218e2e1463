package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/hirocomco/Kimai-App/internal/store"
)

func newTestService(t *testing.T) *SettingsService {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.NewSQLiteSettingsStore(db)
	require.NoError(t, st.InitSchema(context.Background()))

	svc := NewSettingsService(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, svc.InitDefaults(context.Background()))
	return svc
}

func TestServiceDefaultsSeeded(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.GetBool(ctx, CategoryNotifications, "enabled", false))
	require.Equal(t, "HiroTrack - Time Tracker", svc.GetString(ctx, CategoryTray, "tooltip", ""))
	require.Equal(t, 10*time.Second, svc.GetDuration(ctx, CategoryKimai, "request_timeout", 0))
}

func TestServiceUpdateAndTypedGetters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, CategoryNotifications, "enabled", "false"))
	require.False(t, svc.GetBool(ctx, CategoryNotifications, "enabled", true))

	require.NoError(t, svc.Update(ctx, CategoryKimai, "request_timeout", "30"))
	require.Equal(t, 30, svc.GetInt(ctx, CategoryKimai, "request_timeout", 0))
	require.Equal(t, 30*time.Second, svc.GetDuration(ctx, CategoryKimai, "request_timeout", 0))
}

func TestServiceUpdateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.Error(t, svc.Update(ctx, CategoryNotifications, "enabled", "maybe"),
		"bool setting must reject non-bool values")
	require.Error(t, svc.Update(ctx, CategoryKimai, "request_timeout", "soon"),
		"int setting must reject non-int values")
	require.Error(t, svc.Update(ctx, "nosuch", "key", "1"),
		"unknown category must be rejected")
	require.Error(t, svc.Update(ctx, CategoryTray, "nosuch", "1"),
		"unknown key must be rejected")
}

func TestServiceOnChangeCallback(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	type change struct{ category, key, value string }
	var changes []change
	svc.SetOnChangeCallback(func(category, key, value string) {
		changes = append(changes, change{category, key, value})
	})

	require.NoError(t, svc.Update(ctx, CategoryTray, "tooltip", "Tracking: ACME"))
	require.Len(t, changes, 1)
	require.Equal(t, change{CategoryTray, "tooltip", "Tracking: ACME"}, changes[0])
}

func TestServiceResetCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, CategoryTray, "tooltip", "changed"))
	require.NoError(t, svc.ResetCategory(ctx, CategoryTray))
	require.Equal(t, "HiroTrack - Time Tracker", svc.GetString(ctx, CategoryTray, "tooltip", ""))

	require.Error(t, svc.ResetCategory(ctx, "nosuch"))
}

func TestServiceGetValueFallsBackToDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Remove the stored rows; GetValue should still answer from the catalog.
	require.NoError(t, svc.ResetCategory(ctx, CategoryWindow))
	value, err := svc.GetValue(ctx, CategoryWindow, "minimize_to_tray")
	require.NoError(t, err)
	require.Equal(t, "true", value)

	_, err = svc.GetValue(ctx, CategoryWindow, "nosuch")
	require.Error(t, err)
}

func TestServiceGetterFallbacks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.Equal(t, 42, svc.GetInt(ctx, "nosuch", "key", 42))
	require.True(t, svc.GetBool(ctx, "nosuch", "key", true))
	require.Equal(t, "fb", svc.GetString(ctx, "nosuch", "key", "fb"))
	require.Equal(t, time.Minute, svc.GetDuration(ctx, "nosuch", "key", time.Minute))
}
