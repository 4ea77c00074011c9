package stats

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/backmassage/htmlcompressor/internal/codec"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		stats       *codec.Statistics
		want        Summary
		wantRatio   string
		wantSavings string
	}{
		{
			name:        "1000 to 400",
			stats:       &codec.Statistics{Files: 1, Original: codec.Metrics{Filesize: 1000}, Compressed: codec.Metrics{Filesize: 400}},
			want:        Summary{Ratio: 0.4, Savings: 60},
			wantRatio:   "0.40",
			wantSavings: "60.00",
		},
		{
			name:        "no change",
			stats:       &codec.Statistics{Files: 2, Original: codec.Metrics{Filesize: 10}, Compressed: codec.Metrics{Filesize: 10}},
			want:        Summary{Ratio: 1, Savings: 0},
			wantRatio:   "1.00",
			wantSavings: "0.00",
		},
		{
			name:        "empty files processed",
			stats:       &codec.Statistics{Files: 3},
			want:        Summary{},
			wantRatio:   "0.00",
			wantSavings: "0.00",
		},
		{name: "nil statistics", stats: nil, want: Summary{Empty: true}},
		{name: "no files", stats: &codec.Statistics{}, want: Summary{Empty: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.stats)
			if got.Empty != tt.want.Empty {
				t.Errorf("Empty = %v, want %v", got.Empty, tt.want.Empty)
			}
			if math.Abs(got.Ratio-tt.want.Ratio) > 1e-9 || math.Abs(got.Savings-tt.want.Savings) > 1e-9 {
				t.Errorf("got ratio %v savings %v, want %v %v", got.Ratio, got.Savings, tt.want.Ratio, tt.want.Savings)
			}
			if tt.wantRatio == "" {
				return
			}
			if r, s := formatFixed(got.Ratio), formatFixed(got.Savings); r != tt.wantRatio || s != tt.wantSavings {
				t.Errorf("formatted %s %s, want %s %s", r, s, tt.wantRatio, tt.wantSavings)
			}
		})
	}
}

func TestFormat_Table(t *testing.T) {
	s := &codec.Statistics{
		Files: 4,
		Original: codec.Metrics{
			Filesize: 1000, EmptyChars: 120, InlineScriptSize: 2500, InlineStyleSize: 300, InlineEventSize: 40,
		},
		Compressed: codec.Metrics{
			Filesize: 400, EmptyChars: 15, InlineScriptSize: 1500, InlineStyleSize: 250, InlineEventSize: 40,
		},
		Time:          3661000,
		PreservedSize: 1200,
	}

	got := Format("HTML", s)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12:\n%s", len(lines), got)
	}

	want := map[int]string{
		0:  "HTML compression statistics:",
		1:  rule,
		2:  "| Category                    | Original                    | Compressed                  |",
		3:  rule,
		4:  "| Filesize                    | 1.0 kB                      | 400 B                       |",
		5:  "| Empty Chars                 | 120                         | 15                          |",
		6:  "| Script Size                 | 2.5 kB                      | 1.5 kB                      |",
		7:  "| Style Size                  | 300 B                       | 250 B                       |",
		8:  "| Event Handler Size          | 40 B                        | 40 B                        |",
		9:  rule,
		10: "| Time: 01:01:01, Preserved: 1.2 kB, Compression Ratio: 0.40, Savings: 60.00%             |",
		11: rule,
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d:\ngot  %q\nwant %q", i, lines[i], w)
		}
	}

	for i := 1; i < len(lines); i++ {
		if len(lines[i]) != len(rule) {
			t.Errorf("line %d is %d wide, want %d", i, len(lines[i]), len(rule))
		}
	}
}

func TestFormat_ZeroSizeFiles(t *testing.T) {
	got := Format("HTML", &codec.Statistics{Files: 2})
	if !strings.Contains(got, "Compression Ratio: 0.00, Savings: 0.00%") {
		t.Errorf("zero-size files should report a zero ratio:\n%s", got)
	}
	if strings.Contains(got, "no files processed") {
		t.Errorf("files were processed:\n%s", got)
	}
}

func TestFormat_NoFilesProcessed(t *testing.T) {
	for _, s := range []*codec.Statistics{nil, {}} {
		got := Format("HTML", s)
		if got != "HTML compression statistics: no files processed\n" {
			t.Errorf("got %q", got)
		}
		if strings.Contains(got, "NaN") || strings.Contains(got, "Inf") {
			t.Errorf("non-finite value in %q", got)
		}
	}
}

func formatFixed(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
