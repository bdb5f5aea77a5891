package formatter

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	mdMu        sync.Mutex
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderNotes renders item notes as markdown wrapped to width. Renderers
// are cached per style and width; WithAutoStyle is avoided because its
// terminal background query can block. Render failures fall back to the
// raw text.
func RenderNotes(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 10)

	style := styles.DarkStyle
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = styles.NoTTYStyle
	}
	key := style + ":" + strconv.Itoa(width)

	mdMu.Lock()
	r, ok := mdRenderers[key]
	mdMu.Unlock()
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdMu.Lock()
		mdRenderers[key] = r
		mdMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
