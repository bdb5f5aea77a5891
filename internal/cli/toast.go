package cli

import (
	"time"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/reorder"
	tea "github.com/charmbracelet/bubbletea"
)

// toastTTL is how long a toast stays on screen.
const toastTTL = 4 * time.Second

// toast is a transient one-line notification above the status bar.
type toast struct {
	id    int
	level reorder.Level
	text  string
}

// toastMsg asks the appModel to show a toast.
type toastMsg struct {
	level reorder.Level
	text  string
}

// toastExpiredMsg hides the toast with the given id, if it is still shown.
type toastExpiredMsg struct {
	id int
}

func showToast(level reorder.Level, text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{level: level, text: text} }
}

func infoToast(text string) tea.Cmd {
	return showToast(reorder.LevelInfo, text)
}

// errorToast shows the user-facing wording for err.
func errorToast(prefix string, err error) tea.Cmd {
	return showToast(reorder.LevelError, prefix+domain.UserMessage(err))
}

// notificationCmd turns a reconciler notification into a toast.
func notificationCmd(n reorder.Notification) tea.Cmd {
	return showToast(n.Level, n.Message)
}

func expireToast(id int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (t *toast) render(width int) string {
	if t == nil {
		return ""
	}
	text := formatter.Truncate(t.text, max(width-2, 10))
	if t.level == reorder.LevelError {
		return formatter.StyleRed.Render("✗ " + text)
	}
	return formatter.StyleGreen.Render("✓ " + text)
}
