package exif

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"rawmatch/internal/match"
)

// datetimeTags is the capture-time field preference order, most authoritative
// first. The first tag that parses wins.
var datetimeTags = []string{
	"DateTimeOriginal",
	"CreateDate",
	"ModifyDate",
	"DateTime",
}

// Reader implements match.MetadataSource by invoking exiftool once per file
// with JSON output. Each invocation is bounded by a per-call timeout; a
// timeout is an extraction failure for that file, never fatal for the run.
type Reader struct {
	toolPath string
	timeout  time.Duration
	logger   match.Logger
}

// NewReader locates the metadata tool and probes it with -ver. toolPath may
// be empty, in which case "exiftool" is looked up on PATH. A tool that cannot
// be found or run is a fatal startup error, surfaced before any file
// processing begins.
func NewReader(toolPath string, timeout time.Duration, logger match.Logger) (*Reader, error) {
	if toolPath == "" {
		toolPath = "exiftool"
	}
	resolved, err := exec.LookPath(toolPath)
	if err != nil {
		return nil, fmt.Errorf("exiftool not found (install it and ensure it is on PATH): %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, resolved, "-ver").Output()
	if err != nil {
		return nil, fmt.Errorf("exiftool at %s is not runnable: %w", resolved, err)
	}
	logger.Info("exiftool available", "path", resolved, "version", strings.TrimSpace(string(out)))

	return &Reader{toolPath: resolved, timeout: timeout, logger: logger}, nil
}

// ExtractCaptureTimestamp returns the capture instant recorded in the file's
// metadata, or nil when no capture-time field is present. Zero-byte files are
// skipped without invoking the tool.
func (r *Reader) ExtractCaptureTimestamp(ctx context.Context, path string) (*time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() == 0 {
		r.logger.Debug("empty file, skipping extraction", "path", path)
		return nil, nil
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := make([]string, 0, len(datetimeTags)+2)
	args = append(args, "-j")
	for _, tag := range datetimeTags {
		args = append(args, "-"+tag)
	}
	args = append(args, path)

	out, err := exec.CommandContext(cctx, r.toolPath, args...).Output()
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("exiftool timed out after %s", r.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("exiftool failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("running exiftool: %w", err)
	}

	ts, err := parseToolOutput(out)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		r.logger.Debug("no capture timestamp in metadata", "path", path)
	}
	return ts, nil
}

// parseToolOutput picks the first tag from the preference list that parses
// out of exiftool's -j output.
func parseToolOutput(out []byte) (*time.Time, error) {
	var entries []map[string]any
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("parsing exiftool output: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	fields := entries[0]
	for _, tag := range datetimeTags {
		raw, ok := fields[tag].(string)
		if !ok {
			continue
		}
		if ts, ok := parseDateTime(raw); ok {
			return &ts, nil
		}
	}
	return nil, nil
}

// datetimeLayouts are the spellings exiftool emits across camera vendors.
var datetimeLayouts = []string{
	"2006:01:02 15:04:05-07:00", // exif standard with zone suffix
	"2006:01:02 15:04:05",       // exif standard
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006.01.02 15:04:05",
}

// parseDateTime converts an exif datetime string to an instant. No timezone
// normalization is applied beyond what the string itself carries; identical
// spellings on the RAW and JPEG side always compare equal.
func parseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// Compile-time check that Reader implements match.MetadataSource.
var _ match.MetadataSource = (*Reader)(nil)
