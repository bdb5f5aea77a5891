package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// imageVerifiedMsg carries the result of confirming an item's image type
// with the image host.
type imageVerifiedMsg struct {
	itemID string
	err    error
}

// itemDetailsView shows one item with its notes rendered as markdown in a
// scrollable viewport.
type itemDetailsView struct {
	state  *SharedState
	listID string
	item   domain.Item

	vp        viewport.Model
	allowed   bool
	verifying bool
}

func newItemDetailsView(state *SharedState, listID string, item domain.Item) *itemDetailsView {
	v := &itemDetailsView{
		state:   state,
		listID:  listID,
		item:    item,
		allowed: state.App.Images.Allowed(item),
	}
	v.vp = viewport.New(v.width(), v.height())
	v.render()
	return v
}

func (v *itemDetailsView) ID() ViewID    { return ViewItemDetails }
func (v *itemDetailsView) Title() string { return v.item.Title }

func (v *itemDetailsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}

// Init confirms the image type with its host when a confirmer is set and
// the static rules already pass.
func (v *itemDetailsView) Init() tea.Cmd {
	policy := v.state.App.Images
	if policy.Confirmer == nil || !v.allowed {
		return nil
	}
	v.verifying = true
	v.render()
	item := v.item
	return func() tea.Msg {
		return imageVerifiedMsg{itemID: item.ID, err: policy.Verify(context.Background(), *item.ImagePath)}
	}
}

func (v *itemDetailsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = v.width()
		v.vp.Height = v.height()
		v.render()
		return v, nil

	case imageVerifiedMsg:
		if msg.itemID == v.item.ID {
			v.verifying = false
			v.allowed = msg.err == nil
			v.render()
		}
		return v, nil

	case itemSavedMsg:
		if msg.err == nil && msg.changed && msg.item.ID == v.item.ID {
			v.item = msg.item
			v.allowed = v.state.App.Images.Allowed(msg.item)
			v.render()
			return v, v.Init()
		}
		return v, nil

	case deleteItemMsg:
		// The list editor below removes the item; this view goes with it.
		if msg.itemID == v.item.ID {
			return v, popView()
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return v, v.editForm()
		case "d":
			return v, v.deleteForm()
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *itemDetailsView) editForm() tea.Cmd {
	values := itemValuesFrom(v.item)
	app := v.state.App
	listID, initial := v.listID, v.item
	return startForm(v.state, "Edit item", itemForm(values), func() tea.Cmd {
		return func() tea.Msg {
			item, changed, err := app.Items.Update(context.Background(), listID, initial, values.Title, values.Notes, values.ImagePath)
			return itemSavedMsg{listID: listID, item: item, changed: changed, err: err}
		}
	})
}

func (v *itemDetailsView) deleteForm() tea.Cmd {
	confirmed := false
	listID, itemID := v.listID, v.item.ID
	return startForm(v.state, "Delete item", confirmForm(fmt.Sprintf("Delete %q?", v.item.Title), &confirmed), func() tea.Cmd {
		if !confirmed {
			return nil
		}
		return func() tea.Msg { return deleteItemMsg{listID: listID, itemID: itemID} }
	})
}

func (v *itemDetailsView) width() int {
	return max(v.state.Width-4, 20)
}

func (v *itemDetailsView) height() int {
	return max(v.state.ContentHeight()-1, 3)
}

func (v *itemDetailsView) render() {
	content := formatter.FormatItem(v.item, v.allowed && !v.verifying, v.width())
	if v.verifying {
		content += "\n" + formatter.Dim("checking image...")
	}
	v.vp.SetContent(content)
}

func (v *itemDetailsView) View() string {
	return "\n" + v.vp.View()
}
