package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/drag"
	"github.com/alexanderramin/listapp/internal/reorder"
	"github.com/alexanderramin/listapp/internal/sequence"
	"github.com/alexanderramin/listapp/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// listLoadedMsg carries one fetched list.
type listLoadedMsg struct {
	listID string
	view   *service.ListView
	err    error
}

// reorderSettledMsg carries the server's answer to a staged reorder.
type reorderSettledMsg struct {
	pending *reorder.Pending
	err     error
}

// itemSavedMsg carries the result of an item create or update.
type itemSavedMsg struct {
	listID  string
	item    domain.Item
	created bool
	changed bool
	err     error
}

// deleteItemMsg asks the editor to remove an item optimistically.
type deleteItemMsg struct {
	listID string
	itemID string
}

// itemDeletedMsg carries the server's answer to a delete.
type itemDeletedMsg struct {
	listID string
	title  string
	err    error
}

func (listLoadedMsg) broadcast()     {}
func (reorderSettledMsg) broadcast() {}
func (itemSavedMsg) broadcast()      {}
func (deleteItemMsg) broadcast()     {}
func (itemDeletedMsg) broadcast()    {}

// editorRowTop is the first item row inside the view, after a blank line,
// the description line and the status line.
const editorRowTop = 3

// listEditorView shows one list's items in order and lets the user
// reorder them by dragging with the mouse or grabbing with the keyboard.
// Reorders are applied at once and reverted if the server refuses them.
type listEditorView struct {
	state   *SharedState
	summary domain.ListSummary
	list    *domain.List

	store      *sequence.Store
	drag       drag.Controller
	reconciler *reorder.Reconciler
	notices    []reorder.Notification

	cursor int
	offset int

	// imageMode shows each row's image source instead of its notes. It
	// only takes effect while every item has an allowed image.
	imageMode bool

	stale     bool
	fetchedAt time.Time
	loading   bool
	err       error
}

func newListEditorView(state *SharedState, summary domain.ListSummary) *listEditorView {
	v := &listEditorView{
		state:   state,
		summary: summary,
		store:   sequence.New(summary.ID),
		loading: true,
	}
	v.reconciler = reorder.New(v.store, state.App.Items, reorder.NotifierFunc(func(n reorder.Notification) {
		v.notices = append(v.notices, n)
	}))
	return v
}

func (v *listEditorView) ID() ViewID    { return ViewListEditor }
func (v *listEditorView) Title() string { return v.summary.Title }

// HandlesEsc keeps Esc for cancelling an active drag.
func (v *listEditorView) HandlesEsc() bool { return v.drag.Dragging() }

func (v *listEditorView) ShortHelp() []key.Binding {
	if v.drag.Dragging() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "move")),
			key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	keys := []key.Binding{
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab")),
		key.NewBinding(key.WithKeys("K", "J"), key.WithHelp("K/J", "move up/down")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
	if v.imageModeAvailable() {
		help := "image mode"
		if v.imageMode {
			help = "text mode"
		}
		keys = append(keys, key.NewBinding(key.WithKeys("i"), key.WithHelp("i", help)))
	}
	return keys
}

// imageModeAvailable reports whether every item has an image the policy
// allows. An empty list has no image mode.
func (v *listEditorView) imageModeAvailable() bool {
	return v.state.App.Images.AllAllowed(v.store.Items())
}

// showingImages reports whether rows render in image mode. Adding an item
// without an image switches the view back to text without forgetting the
// choice.
func (v *listEditorView) showingImages() bool {
	return v.imageMode && v.imageModeAvailable()
}

func (v *listEditorView) Init() tea.Cmd {
	return v.load()
}

func (v *listEditorView) load() tea.Cmd {
	app := v.state.App
	listID := v.summary.ID
	return func() tea.Msg {
		view, err := app.Lists.Get(context.Background(), listID)
		return listLoadedMsg{listID: listID, view: view, err: err}
	}
}

func (v *listEditorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if msg.listID != v.summary.ID {
			return v, nil
		}
		return v, v.applyLoaded(msg)

	case refreshViewMsg:
		return v, v.load()

	case reorderSettledMsg:
		if msg.pending.ListID != v.summary.ID {
			return v, nil
		}
		keep := v.cursorID()
		v.reconciler.Settle(msg.pending, msg.err)
		v.moveCursorTo(keep)
		return v, v.drainNotices()

	case itemSavedMsg:
		if msg.listID != v.summary.ID {
			return v, nil
		}
		return v, v.applySaved(msg)

	case deleteItemMsg:
		if msg.listID != v.summary.ID {
			return v, nil
		}
		return v, v.deleteItem(msg.itemID)

	case itemDeletedMsg:
		if msg.listID != v.summary.ID {
			return v, nil
		}
		if msg.err != nil {
			return v, tea.Batch(errorToast("Delete failed: ", msg.err), v.load())
		}
		return v, infoToast("Deleted " + msg.title)

	case tea.KeyMsg:
		if v.drag.Dragging() {
			return v, v.updateGrab(msg)
		}
		return v, v.updateKey(msg)

	case tea.MouseMsg:
		return v, v.updateMouse(msg)
	}
	return v, nil
}

func (v *listEditorView) applyLoaded(msg listLoadedMsg) tea.Cmd {
	v.loading = false
	if msg.err != nil {
		if v.list == nil {
			v.err = msg.err
			return nil
		}
		return errorToast("Reload failed: ", msg.err)
	}
	v.err = nil
	v.list = msg.view.List
	v.summary = msg.view.List.Summary()
	v.stale = msg.view.Stale
	v.fetchedAt = msg.view.FetchedAt
	// A pending reorder owns the sequence until it settles.
	if !v.reconciler.InFlight() {
		keep := v.cursorID()
		v.drag.Cancel()
		v.store.Load(msg.view.List.Items)
		v.moveCursorTo(keep)
	}
	return nil
}

func (v *listEditorView) applySaved(msg itemSavedMsg) tea.Cmd {
	if msg.err != nil {
		action := "Save"
		if msg.created {
			action = "Add"
		}
		return errorToast(action+" failed: ", msg.err)
	}
	if msg.created {
		v.store.Append(msg.item)
		v.cursor = v.store.Len() - 1
		v.ensureVisible()
		return infoToast("Added " + msg.item.Title)
	}
	if !msg.changed {
		return infoToast("No changes.")
	}
	v.store.Replace(msg.item)
	return infoToast("Saved " + msg.item.Title)
}

// deleteItem removes the item at once and asks the server. A failed
// delete reloads the list.
func (v *listEditorView) deleteItem(itemID string) tea.Cmd {
	item, ok := v.store.Get(itemID)
	if !ok {
		return nil
	}
	v.store.Remove(itemID)
	v.cursor = min(v.cursor, max(v.store.Len()-1, 0))
	v.ensureVisible()

	app := v.state.App
	listID := v.summary.ID
	return func() tea.Msg {
		err := app.Items.Delete(context.Background(), listID, itemID)
		return itemDeletedMsg{listID: listID, title: item.Title, err: err}
	}
}

// ── reorder ──────────────────────────────────────────────────────────────────

// stage applies an intent locally and returns the Cmd that persists it.
func (v *listEditorView) stage(in drag.Intent) tea.Cmd {
	p, ok, err := v.reconciler.Stage(in.FromID, in.ToID)
	if err != nil {
		return showToast(reorder.LevelError, "Reorder rejected: "+err.Error())
	}
	if !ok {
		return nil
	}
	v.moveCursorTo(in.FromID)

	r := v.reconciler
	return func() tea.Msg {
		return reorderSettledMsg{pending: p, err: r.Commit(context.Background(), p)}
	}
}

func (v *listEditorView) drainNotices() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(v.notices))
	for _, n := range v.notices {
		cmds = append(cmds, notificationCmd(n))
	}
	v.notices = nil
	return tea.Batch(cmds...)
}

// ── keyboard ─────────────────────────────────────────────────────────────────

func (v *listEditorView) updateKey(msg tea.KeyMsg) tea.Cmd {
	items := v.store.Items()
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(items)-1 {
			v.cursor++
		}
	case " ":
		if id := v.cursorID(); id != "" {
			v.drag.Begin(id)
		}
	case "K":
		if v.cursor > 0 {
			return v.stage(drag.Intent{FromID: items[v.cursor].ID, ToID: items[v.cursor-1].ID})
		}
	case "J":
		if v.cursor < len(items)-1 {
			return v.stage(drag.Intent{FromID: items[v.cursor].ID, ToID: items[v.cursor+1].ID})
		}
	case "enter":
		if it, ok := v.cursorItem(); ok {
			return pushView(newItemDetailsView(v.state, v.summary.ID, it))
		}
	case "a", "n":
		return v.addForm()
	case "e":
		if it, ok := v.cursorItem(); ok {
			return v.editForm(it)
		}
	case "d":
		if it, ok := v.cursorItem(); ok {
			return v.deleteForm(it)
		}
	case "i":
		if !v.imageModeAvailable() {
			return infoToast("Image mode needs an allowed image on every item.")
		}
		v.imageMode = !v.imageMode
	case "r":
		v.loading = true
		return v.load()
	}
	v.ensureVisible()
	return nil
}

// updateGrab drives the controller from the keyboard. The hover target
// walks the committed order, and the preview shows where the item lands.
func (v *listEditorView) updateGrab(msg tea.KeyMsg) tea.Cmd {
	ids := v.store.IDs()
	over := v.store.IndexOf(v.drag.OverID())
	switch msg.String() {
	case "up", "k":
		if over > 0 {
			v.drag.HoverID(ids[over-1])
		}
	case "down", "j":
		if over >= 0 && over < len(ids)-1 {
			v.drag.HoverID(ids[over+1])
		}
	case " ", "enter":
		in, ok := v.drag.Drop()
		if !ok {
			return nil
		}
		return v.stage(in)
	case "esc":
		v.drag.Cancel()
	}
	if i := v.store.IndexOf(v.drag.OverID()); i >= 0 {
		v.cursor = i
		v.ensureVisible()
	}
	return nil
}

// ── mouse ────────────────────────────────────────────────────────────────────

// rowsTop is the screen line of the first visible item row.
func (v *listEditorView) rowsTop() int {
	return headerLines + editorRowTop
}

func (v *listEditorView) rowsHeight() int {
	return max(v.state.ContentHeight()-editorRowTop, 1)
}

// targets lays out the visible rows in committed order. Hit testing uses
// the committed layout so the preview never moves the target under the
// pointer.
func (v *listEditorView) targets() []drag.Target {
	ids := v.store.IDs()
	end := min(v.offset+v.rowsHeight(), len(ids))
	return drag.Rows(ids[v.offset:end], v.rowsTop(), max(v.state.Width, 1))
}

// inDropZone reports whether the pointer is over the list area, allowing
// one line above and below.
func (v *listEditorView) inDropZone(p drag.Point) bool {
	visible := min(v.rowsHeight(), v.store.Len()-v.offset)
	return p.Y >= v.rowsTop()-1 && p.Y <= v.rowsTop()+visible
}

func (v *listEditorView) updateMouse(msg tea.MouseMsg) tea.Cmd {
	p := drag.Point{X: msg.X, Y: msg.Y}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		v.offset = max(v.offset-1, 0)
		v.cursor = min(v.cursor, v.offset+v.rowsHeight()-1)
	case msg.Button == tea.MouseButtonWheelDown:
		v.offset = min(v.offset+1, max(v.store.Len()-v.rowsHeight(), 0))
		v.cursor = max(v.cursor, v.offset)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if id, ok := drag.At(p, v.targets()); ok {
			v.cursor = v.store.IndexOf(id)
			v.drag.Begin(id)
		}

	case msg.Action == tea.MouseActionMotion && v.drag.Dragging():
		if v.inDropZone(p) {
			v.drag.Hover(p, v.targets())
		} else {
			v.drag.Hover(p, nil)
		}

	case msg.Action == tea.MouseActionRelease && v.drag.Dragging():
		in, ok := v.drag.Release(v.drag.OverID())
		if ok {
			return v.stage(in)
		}
	}
	return nil
}

// ── forms ────────────────────────────────────────────────────────────────────

func (v *listEditorView) addForm() tea.Cmd {
	values := &itemFormValues{}
	app := v.state.App
	listID := v.summary.ID
	return startForm(v.state, "New item", itemForm(values), func() tea.Cmd {
		return func() tea.Msg {
			item, err := app.Items.Create(context.Background(), listID, values.Title, values.Notes, values.ImagePath)
			return itemSavedMsg{listID: listID, item: item, created: true, err: err}
		}
	})
}

func (v *listEditorView) editForm(initial domain.Item) tea.Cmd {
	values := itemValuesFrom(initial)
	app := v.state.App
	listID := v.summary.ID
	return startForm(v.state, "Edit item", itemForm(values), func() tea.Cmd {
		return func() tea.Msg {
			item, changed, err := app.Items.Update(context.Background(), listID, initial, values.Title, values.Notes, values.ImagePath)
			return itemSavedMsg{listID: listID, item: item, changed: changed, err: err}
		}
	})
}

func (v *listEditorView) deleteForm(it domain.Item) tea.Cmd {
	confirmed := false
	listID := v.summary.ID
	return startForm(v.state, "Delete item", confirmForm(fmt.Sprintf("Delete %q?", it.Title), &confirmed), func() tea.Cmd {
		if !confirmed {
			return nil
		}
		return func() tea.Msg { return deleteItemMsg{listID: listID, itemID: it.ID} }
	})
}

// ── cursor ───────────────────────────────────────────────────────────────────

func (v *listEditorView) cursorItem() (domain.Item, bool) {
	items := v.store.Items()
	if v.cursor < 0 || v.cursor >= len(items) {
		return domain.Item{}, false
	}
	return items[v.cursor], true
}

func (v *listEditorView) cursorID() string {
	it, _ := v.cursorItem()
	return it.ID
}

// moveCursorTo puts the cursor on id, or clamps it when id is gone.
func (v *listEditorView) moveCursorTo(id string) {
	if i := v.store.IndexOf(id); i >= 0 {
		v.cursor = i
	} else {
		v.cursor = min(v.cursor, max(v.store.Len()-1, 0))
	}
	v.ensureVisible()
}

func (v *listEditorView) ensureVisible() {
	h := v.rowsHeight()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+h {
		v.offset = v.cursor - h + 1
	}
	v.offset = max(min(v.offset, v.store.Len()-h), 0)
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *listEditorView) View() string {
	if v.loading && v.list == nil {
		return "\n  " + formatter.Dim("Loading list...")
	}
	if v.err != nil && v.list == nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+domain.UserMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + formatter.Dim(formatter.Truncate(domain.Deref(v.summary.Description), max(v.state.Width-4, 10))) + "\n")

	var status []string
	if v.stale {
		status = append(status, formatter.StaleBanner(v.fetchedAt))
	}
	if v.reconciler.InFlight() {
		status = append(status, formatter.Dim("saving order..."))
	}
	if v.drag.Dragging() {
		status = append(status, formatter.StyleYellow.Render("moving "+v.dragTitle()))
	}
	if v.showingImages() {
		status = append(status, formatter.StyleGreen.Render("image mode"))
	}
	b.WriteString("  " + strings.Join(status, "  ") + "\n")

	items := v.store.Items()
	if len(items) == 0 {
		b.WriteString("  " + formatter.Dim("No items. Press a to add one.") + "\n")
		return b.String()
	}
	if v.drag.Dragging() {
		items = v.drag.Preview(items)
	}

	end := min(v.offset+v.rowsHeight(), len(items))
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(i, items[i]) + "\n")
	}
	return b.String()
}

func (v *listEditorView) dragTitle() string {
	it, _ := v.store.Get(v.drag.ActiveID())
	return it.Title
}

func (v *listEditorView) renderRow(i int, it domain.Item) string {
	marker := "  "
	titleStyle := formatter.StyleFg
	switch {
	case it.ID == v.drag.ActiveID():
		marker = formatter.StyleGrabbed.Render("≡ ")
		titleStyle = formatter.StyleGrabbed
	case i == v.cursor && !v.drag.Dragging():
		marker = formatter.StyleGreen.Render("▸ ")
		titleStyle = formatter.StyleBold
	}

	titleWidth := max(min(v.state.Width/2, 40), 12)
	row := marker +
		formatter.Dim(fmt.Sprintf("%3d ", i+1)) +
		titleStyle.Render(formatter.PadRight(it.Title, titleWidth)) + " "
	if v.showingImages() {
		row += formatter.ImageSource(it, max(v.state.Width-titleWidth-8, 10))
	} else {
		notesWidth := max(v.state.Width-titleWidth-18, 0)
		row += formatter.Dim(formatter.PadRight(formatter.FirstLine(domain.Deref(it.Notes)), notesWidth)) + " " +
			formatter.ImageMarker(it, v.state.App.Images.Allowed(it))
	}
	return formatter.Truncate(row, max(v.state.Width, 20))
}
