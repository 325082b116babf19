package scan_test

import (
	"testing"

	"rawmatch/internal/scan"
)

func TestIgnoreMatcher(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"no patterns", nil, "a.cr3", false},
		{"basename glob matches", []string{"*.tmp"}, "scratch.tmp", true},
		{"basename glob matches nested file", []string{"*.tmp"}, "sub/dir/scratch.tmp", true},
		{"basename glob misses", []string{"*.tmp"}, "a.cr3", false},
		{"literal basename", []string{"Thumbs.db"}, "sub/Thumbs.db", true},
		{"path pattern anchored to root", []string{"trash/*"}, "trash/a.cr3", true},
		{"path pattern does not match nested", []string{"trash/*"}, "other/trash/a.cr3", false},
		{"path pattern misses basename", []string{"trash/*"}, "a.cr3", false},
		{"blank lines skipped", []string{"", "  "}, "a.cr3", false},
		{"comments skipped", []string{"# *.cr3"}, "a.cr3", false},
		{"invalid pattern skipped", []string{"[unclosed"}, "a.cr3", false},
		{"first of several wins", []string{"*.xmp", "*.tmp"}, "edit.xmp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := scan.NewIgnoreMatcher(tt.patterns)
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) with %v = %v, want %v", tt.path, tt.patterns, got, tt.want)
			}
		})
	}
}
