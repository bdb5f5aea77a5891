package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)

	// StyleGrabbed marks the row being dragged.
	StyleGrabbed = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
)

// Header renders an uppercase section header with a dim underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// ApplyColorProfile picks the lipgloss color profile for the terminal.
// NO_COLOR disables colors; a 24-bit COLORTERM or a 256color TERM upgrade
// what termenv detected.
func ApplyColorProfile() {
	lipgloss.SetColorProfile(colorProfile(os.Getenv("NO_COLOR"), os.Getenv("TERM"), os.Getenv("COLORTERM"), termenv.ColorProfile()))
}

func colorProfile(noColor, term, colorterm string, detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(noColor) != "" {
		return termenv.Ascii
	}
	term = strings.ToLower(term)
	colorterm = strings.ToLower(colorterm)
	switch {
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		if detected != termenv.Ascii {
			return termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if detected == termenv.Ascii || detected == termenv.ANSI {
			return termenv.ANSI256
		}
	}
	return detected
}
