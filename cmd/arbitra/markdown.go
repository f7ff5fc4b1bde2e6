package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md for the terminal. raw skips styling, which keeps the output
// pipeable.
func printMarkdown(w io.Writer, md string, raw bool) {
	if raw {
		fmt.Fprint(w, md)
		return
	}

	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprint(w, md)
		return
	}

	fmt.Fprint(w, out)
}
