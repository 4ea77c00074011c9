// Package term holds the ANSI color state shared by the logger and the
// banner. [Configure] fills the color variables once at startup; while colors
// are off they stay empty, so concatenating them is harmless.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/htmlcompressor/internal/config"
)

// Escape sequences, empty while colors are off.
var (
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Cyan    string
	Magenta string
	NC      string // reset
)

var palette = []struct {
	dst *string
	seq string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure switches colors on or off for mode, looking at stdout and the
// environment in auto mode.
func Configure(mode config.ColorMode) {
	on := resolve(mode, IsTerminal(os.Stdout), os.Getenv)
	for _, p := range palette {
		if on {
			*p.dst = p.seq
		} else {
			*p.dst = ""
		}
	}
}

// Enabled reports whether colors are on.
func Enabled() bool { return NC != "" }

// Paint wraps s in color and a reset. With colors off s is returned as is.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + NC
}

// resolve applies mode. Auto honours NO_COLOR (https://no-color.org) and
// TERM=dumb and requires a terminal.
func resolve(mode config.ColorMode, tty bool, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if getenv("NO_COLOR") != "" || strings.EqualFold(getenv("TERM"), "dumb") {
		return false
	}
	return tty
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
