package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	wideWidth   = 90
	narrowWidth = 60
)

func header(w io.Writer, title string, width int, attr color.Attribute) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", width))
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	color.New(attr).Fprintln(w, strings.Repeat(" ", pad)+title)
	fmt.Fprintln(w, strings.Repeat("=", width))
}

func footer(w io.Writer, width int) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", width))
}

func section(w io.Writer, title string, width int) {
	color.New(color.FgCyan).Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", width))
}

// Error prints a failed resource in red without aborting the rest of the output
func Error(w io.Writer, resource string, err error) {
	color.New(color.FgRed).Fprintf(w, "\n  Failed to load %s: %v\n", resource, err)
}
