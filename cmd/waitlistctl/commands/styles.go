// File: cmd/waitlistctl/commands/styles.go
package commands

import "github.com/charmbracelet/lipgloss"

var defaultPalette = newPalette("#7D56F4", "#04B575", "#FF5F5F", "#FFA500", "#626262")

// palette holds the named styles used for terminal output.
type palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
}

func newPalette(title, ok, errColor, warn, muted string) *palette {
	return &palette{
		title:  newStyle(title).Bold(true).MarginBottom(1),
		ok:     newStyle(ok).Bold(true),
		err:    newStyle(errColor).Bold(true),
		warn:   newStyle(warn),
		muted:  newStyle(muted).Italic(true),
		header: newStyle(title).Bold(true).Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
	}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}
