package cli

import (
	"testing"

	"github.com/alexanderramin/listapp/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
)

// TestDriver wraps teatest.Driver with appModel inspection methods: the
// view stack, the toast line and the list editor's sequence.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for app at 120x40 and drains Init,
// which runs the session probe and loads the first view.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	d := teatest.New(t, newAppModel(app), teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// editorRowY is the screen line of item row i in the list editor.
func editorRowY(i int) int {
	return headerLines + editorRowTop + i
}

// PressBackspace deletes one character in the focused input.
func (d *TestDriver) PressBackspace() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyBackspace})
}

// PressEnd moves the input cursor to the end of the line.
func (d *TestDriver) PressEnd() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnd})
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// IsQuitting reports whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// Toast returns the toast text on screen, or "".
func (d *TestDriver) Toast() string {
	if t := d.appModel().toast; t != nil {
		return t.text
	}
	return ""
}

// ToastCount returns how many toasts have been shown so far.
func (d *TestDriver) ToastCount() int {
	return d.appModel().toastSeq
}

// Editor returns the list editor on the stack, or nil.
func (d *TestDriver) Editor() *listEditorView {
	for _, v := range d.appModel().viewStack {
		if e, ok := v.(*listEditorView); ok {
			return e
		}
	}
	return nil
}

// EditorIDs returns the item order the list editor shows.
func (d *TestDriver) EditorIDs() []string {
	if e := d.Editor(); e != nil {
		return e.store.IDs()
	}
	return nil
}

// OpenFirstList opens the list under the cursor in the lists view.
func (d *TestDriver) OpenFirstList() {
	d.T.Helper()
	d.PressEnter()
	if d.ActiveViewID() != ViewListEditor {
		d.T.Fatalf("expected list editor, got view %d", d.ActiveViewID())
	}
}
