package display

import (
	"testing"
)

func TestHumanReadableByteCount(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		si    bool
		want  string
	}{
		{"zero si", 0, true, "0 B"},
		{"zero binary", 0, false, "0 B"},
		{"below si unit", 999, true, "999 B"},
		{"below binary unit", 1023, false, "1023 B"},
		{"1 KiB", 1024, false, "1.0 KiB"},
		{"1 kB", 1000, true, "1.0 kB"},
		{"1024 si", 1024, true, "1.0 kB"},
		{"1.5 kB", 1500, true, "1.5 kB"},
		{"1 MiB", 1048576, false, "1.0 MiB"},
		{"1 MB", 1000000, true, "1.0 MB"},
		{"1 GiB", 1 << 30, false, "1.0 GiB"},
		{"2.5 GB", 2500000000, true, "2.5 GB"},
		{"1 EiB", 1 << 60, false, "1.0 EiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HumanReadableByteCount(tt.bytes, tt.si)
			if got != tt.want {
				t.Errorf("HumanReadableByteCount(%d, %v) = %q, want %q", tt.bytes, tt.si, got, tt.want)
			}
		})
	}
}

func TestElapsedHMS(t *testing.T) {
	tests := []struct {
		name   string
		millis int64
		want   string
	}{
		{"zero", 0, "00:00:00"},
		{"sub-second truncates", 999, "00:00:00"},
		{"one of each", 3661000, "01:01:01"},
		{"minutes", 754000, "00:12:34"},
		{"hours not wrapped", 90000000, "25:00:00"},
		{"three-digit hours", 360000000, "100:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ElapsedHMS(tt.millis)
			if got != tt.want {
				t.Errorf("ElapsedHMS(%d) = %q, want %q", tt.millis, got, tt.want)
			}
		})
	}
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"positive", 1024 * 1024, "+ 1.0 MiB"},
		{"negative", -2048, "- 2.0 KiB"},
		{"zero", 0, "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDelta(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatDelta(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
