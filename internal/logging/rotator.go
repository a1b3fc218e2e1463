package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FileRotator writes log output to a file and rotates it by size,
// keeping at most maxFiles rotated copies.
type FileRotator struct {
	mu sync.Mutex

	path     string
	maxSize  int64
	maxFiles int
	compress bool

	file *os.File
	size int64
}

func NewFileRotator(path string, maxSize int64, maxFiles int, compress bool) (*FileRotator, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("max size must be positive, got %d", maxSize)
	}
	if maxFiles < 1 {
		maxFiles = 1
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	r := &FileRotator{
		path:     path,
		maxSize:  maxSize,
		maxFiles: maxFiles,
		compress: compress,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRotator) open() error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.file = file
	r.size = info.Size()
	return nil
}

func (r *FileRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, fmt.Errorf("log file closed")
	}

	if r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			// Keep logging to the current file rather than dropping output.
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *FileRotator) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	return r.file.Sync()
}

func (r *FileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate renames the active file to a timestamped copy and reopens.
// Caller holds r.mu.
func (r *FileRotator) rotate() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close for rotation: %w", err)
	}
	r.file = nil

	timestamp := time.Now().Format("20060102-150405")
	rotated := fmt.Sprintf("%s.%s", r.path, timestamp)
	// Several rotations can land in the same second; never overwrite an
	// earlier rotated file (or its compressed form).
	for seq := 1; fileExists(rotated) || fileExists(rotated+".gz"); seq++ {
		rotated = fmt.Sprintf("%s.%s-%d", r.path, timestamp, seq)
	}
	if err := os.Rename(r.path, rotated); err != nil {
		reopenErr := r.open()
		if reopenErr != nil {
			return fmt.Errorf("rename failed (%v) and reopen failed: %w", err, reopenErr)
		}
		return fmt.Errorf("rename rotated file: %w", err)
	}

	if r.compress {
		go compressFile(rotated)
	}

	r.pruneOld()
	return r.open()
}

// pruneOld removes the oldest rotated files beyond maxFiles.
func (r *FileRotator) pruneOld() {
	matches, err := filepath.Glob(r.path + ".*")
	if err != nil {
		return
	}
	// Keep tmp files made while compressing out of the candidate set.
	var rotated []string
	for _, m := range matches {
		if strings.HasSuffix(m, ".tmp") {
			continue
		}
		rotated = append(rotated, m)
	}
	if len(rotated) <= r.maxFiles {
		return
	}
	sort.Strings(rotated) // timestamp suffixes sort oldest first
	for _, old := range rotated[:len(rotated)-r.maxFiles] {
		os.Remove(old)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func compressFile(path string) {
	src, err := os.Open(path)
	if err != nil {
		return
	}
	defer src.Close()

	tmp := path + ".gz.tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return
	}

	gz := gzip.NewWriter(dst)
	_, copyErr := io.Copy(gz, src)
	gzErr := gz.Close()
	dstErr := dst.Close()
	if copyErr != nil || gzErr != nil || dstErr != nil {
		os.Remove(tmp)
		return
	}

	if err := os.Rename(tmp, path+".gz"); err != nil {
		os.Remove(tmp)
		return
	}
	os.Remove(path)
}

// ParseSize parses a human size like "100MB", "1GB" or "512KB" into bytes.
// A bare number is taken as bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1 << 30
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1 << 20
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1 << 10
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive, got %d", value)
	}
	return value * multiplier, nil
}
