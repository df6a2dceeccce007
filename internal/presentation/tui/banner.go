package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner, colored when the terminal supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{" _       _       _      _   ", "#818cf8"},
		{"| |_ _ _(_)_ __ | | ___| |_ ", "#a78bfa"},
		{"| __| '_| | '_ \\| |/ -_)  _|", "#c084fc"},
		{" \\__|_| |_| .__/|_|\\___|\\__|", "#e879f9"},
		{"          |_|               ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  triple annotation desk "+version).Faint())
	fmt.Fprintln(w)
}
