package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type profileLoadedMsg struct {
	user domain.User
	err  error
}

type profileSavedMsg struct {
	user    domain.User
	changed bool
	err     error
}

type accountDeletedMsg struct {
	err error
}

// profileView shows the signed-in account. e edits the name and email,
// d deletes the account after a confirmation and logs out.
type profileView struct {
	state   *SharedState
	user    domain.User
	loading bool
	err     error
}

func newProfileView(state *SharedState) *profileView {
	return &profileView{state: state, loading: true}
}

func (v *profileView) ID() ViewID    { return ViewProfile }
func (v *profileView) Title() string { return "Profile" }

func (v *profileView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete account")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *profileView) Init() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		u, err := app.Profile.Get(context.Background())
		return profileLoadedMsg{user: u, err: err}
	}
}

func (v *profileView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.setUser(msg.user)
		}
		return v, nil

	case profileSavedMsg:
		if msg.err != nil {
			return v, errorToast("Update failed: ", msg.err)
		}
		if !msg.changed {
			return v, infoToast("No changes.")
		}
		v.setUser(msg.user)
		return v, infoToast("Profile updated")

	case accountDeletedMsg:
		if msg.err != nil {
			return v, errorToast("Delete failed: ", msg.err)
		}
		// The session check fails now and replaces the stack with the
		// login view.
		return v, tea.Batch(
			infoToast("Account deleted. Logged out."),
			func() tea.Msg { return probeSessionMsg{} },
		)

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}
		switch msg.String() {
		case "r":
			v.loading = true
			return v, v.Init()
		case "e":
			if v.err == nil {
				return v, v.editForm()
			}
		case "d":
			if v.err == nil {
				return v, v.deleteForm()
			}
		}
	}
	return v, nil
}

// setUser also refreshes the name shown in the header.
func (v *profileView) setUser(u domain.User) {
	v.user = u
	v.state.User = &u
}

type profileFormValues struct {
	Name  string
	Email string
}

func (v *profileView) editForm() tea.Cmd {
	values := &profileFormValues{Name: v.user.Name, Email: v.user.Email}
	app := v.state.App
	initial := v.user
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Leave blank to keep the current name.").
				Value(&values.Name).
				CharLimit(domain.NameMaxLength).
				Validate(maxLength(domain.NameMaxLength)),
			huh.NewInput().
				Title("Email").
				Description("Leave blank to keep the current email.").
				Value(&values.Email).
				Validate(validateEmail(initial)),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)

	return startForm(v.state, "Edit profile", form, func() tea.Cmd {
		return func() tea.Msg {
			u, changed, err := app.Profile.Update(context.Background(), initial, values.Name, values.Email)
			return profileSavedMsg{user: u, changed: changed, err: err}
		}
	})
}

// validateEmail runs the same checks the profile service applies, so a
// malformed address is caught inside the form.
func validateEmail(initial domain.User) func(string) error {
	return func(s string) error {
		_, err := domain.NewUserPatch(initial, "", s)
		return err
	}
}

func (v *profileView) deleteForm() tea.Cmd {
	confirmed := false
	app := v.state.App
	title := "Delete the account of " + v.user.Email + "? Every list goes with it."
	return startForm(v.state, "Delete account", confirmForm(title, &confirmed), func() tea.Cmd {
		if !confirmed {
			return infoToast("Cancelled.")
		}
		return func() tea.Msg {
			if err := app.Profile.Delete(context.Background()); err != nil {
				return accountDeletedMsg{err: err}
			}
			if err := app.Session.Delete(); err != nil {
				return accountDeletedMsg{err: err}
			}
			return accountDeletedMsg{err: app.reconnect()}
		}
	})
}

func (v *profileView) View() string {
	switch {
	case v.loading:
		return "\n  " + formatter.Dim("Loading profile...")
	case v.err != nil:
		return "\n  " + formatter.StyleRed.Render("Error: "+domain.UserMessage(v.err))
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimRight(formatter.FormatProfile(v.user), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}
