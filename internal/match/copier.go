package match

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Copier realizes match results as files on disk without destructive
// overwrite. Individual copy failures are outcomes, never fatal; only an
// unusable target directory aborts.
type Copier struct {
	logger Logger
}

// NewCopier creates a Copier.
func NewCopier(logger Logger) *Copier {
	return &Copier{logger: logger}
}

// Copy attempts every match against targetDir and returns one outcome per
// match, in match order, so callers can tally
// succeeded + skipped + failed == len(matches).
func (c *Copier) Copy(matches []Result, targetDir string) ([]CopyOutcome, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}
	if _, err := os.Stat(targetDir); err != nil {
		return nil, fmt.Errorf("accessing target directory: %w", err)
	}

	outcomes := make([]CopyOutcome, 0, len(matches))
	for _, m := range matches {
		outcomes = append(outcomes, c.copyOne(m, targetDir))
	}
	return outcomes, nil
}

func (c *Copier) copyOne(m Result, targetDir string) CopyOutcome {
	targetPath := filepath.Join(targetDir, filepath.Base(m.RawPath))
	outcome := CopyOutcome{RawPath: m.RawPath, TargetPath: targetPath}

	srcInfo, err := os.Stat(m.RawPath)
	if err != nil {
		outcome.Status = CopyFailed
		outcome.Reason = fmt.Sprintf("source file unavailable: %v", err)
		c.logger.Error("copy failed", "path", m.RawPath, "reason", outcome.Reason)
		return outcome
	}

	// Overwrite avoidance: an existing target is left untouched.
	if _, err := os.Lstat(targetPath); err == nil {
		outcome.Status = CopySkippedExisting
		c.logger.Debug("target exists, skipping", "path", targetPath)
		return outcome
	}

	if ok, err := hasDiskSpace(targetDir, srcInfo.Size()); err != nil {
		// Preflight trouble is not a copy failure; attempt the copy anyway.
		c.logger.Warn("disk space check failed, copying anyway", "dir", targetDir, "error", err)
	} else if !ok {
		outcome.Status = CopyFailed
		outcome.Reason = "insufficient disk space"
		c.logger.Error("copy failed", "path", m.RawPath, "reason", outcome.Reason)
		return outcome
	}

	if err := copyFile(m.RawPath, targetPath, srcInfo); err != nil {
		outcome.Status = CopyFailed
		outcome.Reason = err.Error()
		c.logger.Error("copy failed", "path", m.RawPath, "reason", outcome.Reason)
		return outcome
	}

	outcome.Status = CopySucceeded
	c.logger.Debug("copied", "from", m.RawPath, "to", targetPath)
	return outcome
}

// copyFile copies contents and preserves mode and modification time.
func copyFile(src, dst string, srcInfo os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying contents: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("closing target: %w", err)
	}

	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return fmt.Errorf("preserving modification time: %w", err)
	}
	return nil
}
