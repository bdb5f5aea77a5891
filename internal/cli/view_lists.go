package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// listsLoadedMsg carries the list index.
type listsLoadedMsg struct {
	index *service.ListIndex
	err   error
}

// listsView is the home view: the user's lists, navigable with the
// cursor. Enter opens the list editor.
type listsView struct {
	state   *SharedState
	index   *service.ListIndex
	cursor  int
	loading bool
	err     error
}

func newListsView(state *SharedState) *listsView {
	return &listsView{state: state, loading: true}
}

func (v *listsView) ID() ViewID    { return ViewLists }
func (v *listsView) Title() string { return "Lists" }

func (v *listsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
	}
}

func (v *listsView) Init() tea.Cmd {
	return v.load()
}

func (v *listsView) load() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		index, err := app.Lists.List(context.Background())
		return listsLoadedMsg{index: index, err: err}
	}
}

func (v *listsView) lists() []domain.ListSummary {
	if v.index == nil {
		return nil
	}
	return v.index.Lists
}

func (v *listsView) selected() (domain.ListSummary, bool) {
	lists := v.lists()
	if v.cursor < 0 || v.cursor >= len(lists) {
		return domain.ListSummary{}, false
	}
	return lists[v.cursor], true
}

func (v *listsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listsLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.index = msg.index
			v.cursor = min(v.cursor, max(len(v.index.Lists)-1, 0))
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		return v.updateKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			row := msg.Y - headerLines - listsRowTop
			if row >= 0 && row < len(v.lists()) {
				v.cursor = row
			}
		}
	}
	return v, nil
}

func (v *listsView) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.lists())-1 {
			v.cursor++
		}
	case "enter":
		if l, ok := v.selected(); ok {
			return v, pushView(newListEditorView(v.state, l))
		}
	case "r":
		v.loading = true
		return v, v.load()
	case "p":
		return v, pushView(newProfileView(v.state))
	case "n":
		return v, v.createForm()
	case "e":
		if l, ok := v.selected(); ok {
			return v, v.editForm(l)
		}
	case "d":
		if l, ok := v.selected(); ok {
			return v, v.deleteForm(l)
		}
	}
	return v, nil
}

func (v *listsView) createForm() tea.Cmd {
	values := &listFormValues{}
	app := v.state.App
	return startForm(v.state, "New list", listForm(values), func() tea.Cmd {
		return func() tea.Msg {
			_, err := app.Lists.Create(context.Background(), values.Title, values.Description)
			return mutationDoneMsg{action: "Create", text: "Created " + strings.TrimSpace(values.Title), err: err}
		}
	})
}

func (v *listsView) editForm(l domain.ListSummary) tea.Cmd {
	values := listValuesFrom(l)
	app := v.state.App
	return startForm(v.state, "Edit list", listForm(values), func() tea.Cmd {
		return func() tea.Msg {
			changed, err := app.Lists.Update(context.Background(), l, values.Title, values.Description)
			text := "Saved " + strings.TrimSpace(values.Title)
			if !changed {
				text = "No changes."
			}
			return mutationDoneMsg{action: "Update", text: text, err: err}
		}
	})
}

func (v *listsView) deleteForm(l domain.ListSummary) tea.Cmd {
	confirmed := false
	app := v.state.App
	title := fmt.Sprintf("Delete %q and its %d items?", l.Title, l.ItemCount)
	return startForm(v.state, "Delete list", confirmForm(title, &confirmed), func() tea.Cmd {
		if !confirmed {
			return nil
		}
		return func() tea.Msg {
			err := app.Lists.Delete(context.Background(), l.ID)
			return mutationDoneMsg{action: "Delete", text: "Deleted " + l.Title, err: err}
		}
	})
}

// listsRowTop is the first row line inside the view: a blank line and an
// optional banner line come first.
const listsRowTop = 2

func (v *listsView) View() string {
	if v.loading && v.index == nil {
		return "\n  " + formatter.Dim("Loading lists...")
	}
	if v.err != nil && v.index == nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+domain.UserMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n")
	if v.index.Stale {
		b.WriteString("  " + formatter.StaleBanner(v.index.FetchedAt) + "\n")
	} else {
		b.WriteString("\n")
	}

	lists := v.lists()
	if len(lists) == 0 {
		b.WriteString("  " + formatter.Dim("No lists yet. Press n to create one.") + "\n")
		return b.String()
	}

	titleWidth := max(v.state.Width-24, 20)
	for i, l := range lists {
		cursor := "  "
		titleStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			titleStyle = formatter.StyleBold
		}
		count := formatter.StyleBlue.Render(fmt.Sprintf("%3d", l.ItemCount))
		b.WriteString(cursor + titleStyle.Render(formatter.PadRight(l.Title, titleWidth)) + " " + count + formatter.Dim(" items") + "\n")
	}
	return b.String()
}
