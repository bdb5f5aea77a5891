package cli

import (
	"strings"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// loginView is shown when the stored session is missing or rejected.
type loginView struct {
	state *SharedState
}

func newLoginView(state *SharedState) *loginView {
	return &loginView{state: state}
}

func (v *loginView) ID() ViewID    { return ViewLogin }
func (v *loginView) Title() string { return "Login" }

func (v *loginView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "paste cookie")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	}
}

func (v *loginView) Init() tea.Cmd { return nil }

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "r":
			return v, func() tea.Msg { return probeSessionMsg{} }
		case "l", "enter":
			return v, v.cookieForm()
		}
	}
	return v, nil
}

// cookieForm stores a pasted cookie, reconnects and re-runs the session
// check, which replaces this view when the cookie is accepted.
func (v *loginView) cookieForm() tea.Cmd {
	var raw string
	app := v.state.App
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Session cookie").
				Description("NAME=VALUE from the browser, or the bare value").
				Value(&raw).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errCookieRequired
					}
					return nil
				}),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)

	return startForm(v.state, "Login", form, func() tea.Cmd {
		if _, err := app.Session.Save(raw); err != nil {
			return errorToast("Login failed: ", err)
		}
		if err := app.reconnect(); err != nil {
			return errorToast("Login failed: ", err)
		}
		return func() tea.Msg { return probeSessionMsg{} }
	})
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + formatter.StyleYellow.Render("Not logged in.") + "\n\n")
	b.WriteString("  Sign in to " + formatter.Bold(v.state.App.APIURL) + " in a browser, then copy the\n")
	b.WriteString("  session cookie from the developer tools and press " + formatter.Bold("l") + " to paste it.\n\n")
	b.WriteString("  " + formatter.Dim("From a shell: listapp login --cookie JSESSIONID=...") + "\n")
	if p := v.state.App.Session; p != nil {
		b.WriteString("  " + formatter.Dim("Session file: "+p.Path()) + "\n")
	}
	return b.String()
}
