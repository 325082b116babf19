package exif

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "exif standard",
			input: "2024:01:15 10:30:45",
			want:  time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "exif standard with zone suffix",
			input: "2024:01:15 10:30:45+02:00",
			want:  time.Date(2024, 1, 15, 8, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "dashed",
			input: "2024-01-15 10:30:45",
			want:  time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "iso with zone",
			input: "2024-01-15T10:30:45Z",
			want:  time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "iso without zone",
			input: "2024-01-15T10:30:45",
			want:  time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "slashed",
			input: "2024/01/15 10:30:45",
			want:  time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "dotted",
			input: "2024.01.15 10:30:45",
			want:  time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "surrounding whitespace",
			input: "  2024:01:15 10:30:45  ",
			want:  time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			ok:    true,
		},
		{name: "empty", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "garbage", input: "not a date"},
		{name: "date only", input: "2024:01:15"},
		{name: "zeroed placeholder", input: "0000:00:00 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDateTime(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseDateTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseDateTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseToolOutput(t *testing.T) {
	t.Run("preferred tag wins", func(t *testing.T) {
		out := []byte(`[{"SourceFile":"a.cr3","DateTimeOriginal":"2024:01:15 10:30:45","ModifyDate":"2024:06:01 00:00:00"}]`)
		ts, err := parseToolOutput(out)
		if err != nil {
			t.Fatalf("parseToolOutput() error = %v", err)
		}
		want := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
		if ts == nil || !ts.Equal(want) {
			t.Errorf("got %v, want %v", ts, want)
		}
	})

	t.Run("falls back down the preference list", func(t *testing.T) {
		out := []byte(`[{"SourceFile":"a.cr3","ModifyDate":"2024:06:01 00:00:00"}]`)
		ts, err := parseToolOutput(out)
		if err != nil {
			t.Fatalf("parseToolOutput() error = %v", err)
		}
		want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		if ts == nil || !ts.Equal(want) {
			t.Errorf("got %v, want %v", ts, want)
		}
	})

	t.Run("unparseable preferred tag falls through", func(t *testing.T) {
		out := []byte(`[{"DateTimeOriginal":"0000:00:00 00:00:00","CreateDate":"2024:01:15 10:30:45"}]`)
		ts, err := parseToolOutput(out)
		if err != nil {
			t.Fatalf("parseToolOutput() error = %v", err)
		}
		want := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
		if ts == nil || !ts.Equal(want) {
			t.Errorf("got %v, want %v", ts, want)
		}
	})

	t.Run("no datetime tags", func(t *testing.T) {
		ts, err := parseToolOutput([]byte(`[{"SourceFile":"a.cr3"}]`))
		if err != nil {
			t.Fatalf("parseToolOutput() error = %v", err)
		}
		if ts != nil {
			t.Errorf("got %v, want nil", ts)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		ts, err := parseToolOutput([]byte(`[]`))
		if err != nil {
			t.Fatalf("parseToolOutput() error = %v", err)
		}
		if ts != nil {
			t.Errorf("got %v, want nil", ts)
		}
	})

	t.Run("non-string tag value", func(t *testing.T) {
		ts, err := parseToolOutput([]byte(`[{"DateTimeOriginal":12345}]`))
		if err != nil {
			t.Fatalf("parseToolOutput() error = %v", err)
		}
		if ts != nil {
			t.Errorf("got %v, want nil", ts)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseToolOutput([]byte(`{not json`)); err == nil {
			t.Error("expected error for invalid json")
		}
	})
}
