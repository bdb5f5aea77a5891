package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// probeSessionMsg asks the appModel to re-run the session check.
type probeSessionMsg struct{}

// sessionProbedMsg carries the result of the startup session check.
type sessionProbedMsg struct {
	user domain.User
	ok   bool
}

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack, the toast line and the session check.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool
	probing   bool

	toast    *toast
	toastSeq int
}

func newAppModel(app *App) appModel {
	return appModel{
		state:   &SharedState{App: app},
		probing: true,
	}
}

// probeSession checks the stored session against the server.
func probeSession(app *App) tea.Cmd {
	return func() tea.Msg {
		u, ok := session.Probe(context.Background(), app.Users)
		return sessionProbedMsg{user: u, ok: ok}
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) updateActive(msg tea.Msg) tea.Cmd {
	v := m.activeView()
	if v == nil {
		return nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return cmd
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return probeSession(m.state.App)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.updateActive(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.updateActive(msg)

	case probeSessionMsg:
		m.probing = true
		return m, probeSession(m.state.App)

	case sessionProbedMsg:
		m.probing = false
		var home View
		if msg.ok {
			u := msg.user
			m.state.User = &u
			home = newListsView(m.state)
		} else {
			m.state.User = nil
			home = newLoginView(m.state)
		}
		m.viewStack = []View{home}
		return m, home.Init()

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case broadcastMsg:
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case formCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case mutationDoneMsg:
		if msg.err != nil {
			return m, errorToast(msg.action+" failed: ", msg.err)
		}
		return m, tea.Batch(refreshViews, infoToast(msg.text))

	case toastMsg:
		m.toastSeq++
		m.toast = &toast{id: m.toastSeq, level: msg.level, text: msg.text}
		return m, expireToast(m.toastSeq)

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil
	}

	return m, m.updateActive(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	v := m.activeView()
	if v == nil {
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Forms receive every key, including q and esc.
	if v.ID() == ViewForm {
		return m, m.updateActive(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if h, ok := v.(escHandler); ok && h.HandlesEsc() {
			break
		}
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	return m, m.updateActive(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	content := ""
	if m.probing {
		content = "\n  " + formatter.Dim("Checking session...")
	} else if v := m.activeView(); v != nil {
		content = v.View()
	}

	sections := []string{
		m.renderHeader(),
		fitHeight(content, m.state.ContentHeight(), m.state.Height > 0),
		m.toast.render(m.state.Width),
		m.renderStatusBar(),
	}
	return strings.Join(sections, "\n")
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	header := formatter.StylePurple.Render("listapp")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	if u := m.state.User; u != nil {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(u.Name) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		if len(m.viewStack) > 1 && v.ID() != ViewForm {
			hints = append(hints, formatter.Dim("esc: back"))
		}
	}
	hints = append(hints, formatter.Dim("q: quit"))

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + formatter.Truncate(strings.Join(hints, "  "), max(m.state.Width, 20))
}

// fitHeight pads or cuts content to exactly h lines so the rows a view
// draws keep stable screen coordinates. Before the first WindowSizeMsg the
// content is returned unchanged.
func fitHeight(content string, h int, sized bool) string {
	if !sized {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
