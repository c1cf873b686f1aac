package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the wanderbuddy banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{` __      __                _          `, "#22d3ee"},
		{` \ \    / /_ _ _ _  __| |___ _ _     `, "#38bdf8"},
		{`  \ \/\/ / _' | ' \/ _' / -_) '_|    `, "#60a5fa"},
		{`   \_/\_/\__,_|_||_\__,_\___|_| buddy`, "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
