package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg returns to the previous view.
type popViewMsg struct{}

// broadcastMsg is implemented by messages that go to every view on the
// stack rather than only the top one. Results of background work use it so
// they reach the view that started the work even after the user navigated
// away from it.
type broadcastMsg interface {
	broadcast()
}

// refreshViewMsg asks every view on the stack to reload its data after a
// mutation made further up the stack.
type refreshViewMsg struct{}

func (refreshViewMsg) broadcast() {}

// formCompleteMsg is sent when a form view finishes or is cancelled. The
// appModel pops the form and then runs nextCmd.
type formCompleteMsg struct {
	nextCmd tea.Cmd
}

// mutationDoneMsg reports a finished create, update or delete. The appModel
// toasts the outcome and, on success, refreshes every view.
type mutationDoneMsg struct {
	action string
	text   string
	err    error
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func refreshViews() tea.Msg { return refreshViewMsg{} }
