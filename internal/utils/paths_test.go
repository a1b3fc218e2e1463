package utils

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{2*time.Minute + 3*time.Second, "2m3s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3s"},
		{26*time.Hour + 30*time.Minute, "26h30m0s"},
		{1500 * time.Millisecond, "2s"}, // rounds
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestAppDirsNesting(t *testing.T) {
	app := GetAppDataDir()
	if !strings.HasSuffix(app, "HiroTrack") {
		t.Errorf("app dir %q should end with HiroTrack", app)
	}
	if filepath.Dir(GetDataDir()) != app {
		t.Errorf("data dir %q not under app dir %q", GetDataDir(), app)
	}
	if filepath.Dir(GetLogDir()) != app {
		t.Errorf("log dir %q not under app dir %q", GetLogDir(), app)
	}
}
