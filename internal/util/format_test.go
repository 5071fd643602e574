package util

import (
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{1000000, "1.0M"},
		{1500000, "1.5M"},
		{1000000000, "1.0B"},
		{2000000000, "2.0B"},
	}

	for _, tt := range tests {
		got := FormatCount(tt.n)
		if got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		part, total int
		want        float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{-1, 10, 0},
		{50, 100, 0.5},
		{100, 100, 1},
		{150, 100, 1},
		{1, 3, 1.0 / 3.0},
	}

	for _, tt := range tests {
		got := Ratio(tt.part, tt.total)
		diff := got - tt.want
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.001 {
			t.Errorf("Ratio(%d, %d) = %f, want %f", tt.part, tt.total, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0s"},
		{1500 * time.Millisecond, "1.5s"},
		{59 * time.Second, "59.0s"},
		{61 * time.Second, "1m01s"},
		{10*time.Minute + 30*time.Second, "10m30s"},
	}

	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "he..."},
		{"hello", 3, "hel"},
		{"hello", 1, "h"},
		{"hello", 0, ""},
		{"abcdefgh", 6, "abc..."},
	}

	for _, tt := range tests {
		got := TruncateString(tt.s, tt.width)
		if got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"/a/b.txt", 20, "/a/b.txt"},
		{"/a/b.txt", 8, "/a/b.txt"},
		{"/very/long/dir/file.txt", 11, "...file.txt"},
		{"/very/long/dir/file.txt", 3, "txt"},
		{"/very/long/dir/file.txt", 0, ""},
	}

	for _, tt := range tests {
		got := TruncatePath(tt.s, tt.width)
		if got != tt.want {
			t.Errorf("TruncatePath(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}
