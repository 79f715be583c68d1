// Package ui holds the terminal palette and colour rules shared by the CLI
// and the terminal walkthrough.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = lipgloss.Color("74")  // blue
	colorCmd    = lipgloss.Color("250") // light gray
	colorMuted  = lipgloss.Color("245") // medium gray
	colorError  = lipgloss.Color("203") // red
	colorOK     = lipgloss.Color("114") // green
	colorBorder = lipgloss.Color("240")
)

// Theme is the set of styles used to draw walkthrough screens.
type Theme struct {
	Title          lipgloss.Style
	Heading        lipgloss.Style
	Body           lipgloss.Style
	Muted          lipgloss.Style
	Error          lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Frame          lipgloss.Style
}

// DefaultTheme returns the standard folio styles.
func DefaultTheme() Theme {
	return Theme{
		Title:          lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Heading:        lipgloss.NewStyle().Bold(true).Underline(true),
		Body:           lipgloss.NewStyle(),
		Muted:          lipgloss.NewStyle().Foreground(colorMuted),
		Error:          lipgloss.NewStyle().Foreground(colorError),
		Button:         lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		ButtonDisabled: lipgloss.NewStyle().Foreground(colorMuted).Faint(true),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2),
	}
}

var (
	accentStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	commandStyle = lipgloss.NewStyle().Foreground(colorCmd)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	okStyle      = lipgloss.NewStyle().Foreground(colorOK)
)

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return accentStyle.Render(s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return mutedStyle.Render(s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return commandStyle.Render(s) }

// RenderError returns s in the error (red) color.
func RenderError(s string) string { return errorStyle.Render(s) }

// RenderOK returns s in the success (green) color.
func RenderOK(s string) string { return okStyle.Render(s) }

// ForceNoColor disables color output globally.
func ForceNoColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ConfigureColor applies ShouldUseColor to the global renderer.
func ConfigureColor() {
	if ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	}
	ForceNoColor()
}
