// Package drag turns pointer gestures into reorder intents.
//
// A Controller tracks at most one gesture. Begin starts it on an item,
// Hover updates the drop target using closest-center detection, and
// Release ends it, yielding an Intent only when the pointer came to rest
// over a different item. Cancel ends it without an intent.
package drag

import (
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/sequence"
)

// Phase is the controller state.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Intent asks for FromID to be moved into ToID's slot.
type Intent struct {
	FromID string
	ToID   string
}

// Controller is the gesture state machine for a single list view.
type Controller struct {
	phase    Phase
	activeID string
	overID   string
}

// Phase returns the current state.
func (c *Controller) Phase() Phase { return c.phase }

// Dragging reports whether a gesture is active.
func (c *Controller) Dragging() bool { return c.phase == Dragging }

// ActiveID returns the item being dragged, or "".
func (c *Controller) ActiveID() string { return c.activeID }

// OverID returns the current drop target, or "".
func (c *Controller) OverID() string { return c.overID }

// Begin starts a gesture on id. It returns false if a gesture is already
// active or id is empty.
func (c *Controller) Begin(id string) bool {
	if c.phase == Dragging || id == "" {
		return false
	}
	c.phase = Dragging
	c.activeID = id
	c.overID = id
	return true
}

// Hover selects the target nearest to p as the drop candidate. With no
// targets the pointer is outside every drop zone.
func (c *Controller) Hover(p Point, targets []Target) string {
	if c.phase != Dragging {
		return ""
	}
	id, ok := ClosestCenter(p, targets)
	if !ok {
		c.overID = ""
		return ""
	}
	c.overID = id
	return id
}

// HoverID sets the drop candidate directly. Keyboard gestures use this.
func (c *Controller) HoverID(id string) {
	if c.phase == Dragging {
		c.overID = id
	}
}

// Preview returns the ordering to render while dragging. It is pure and
// leaves items untouched.
func (c *Controller) Preview(items []domain.Item) []domain.Item {
	if c.phase != Dragging || c.overID == "" {
		return items
	}
	return sequence.Move(items, c.activeID, c.overID)
}

// Release ends the gesture over overID. An intent is produced only when
// overID names a different item than the one being dragged.
func (c *Controller) Release(overID string) (Intent, bool) {
	if c.phase != Dragging {
		return Intent{}, false
	}
	active := c.activeID
	c.reset()
	if overID == "" || overID == active {
		return Intent{}, false
	}
	return Intent{FromID: active, ToID: overID}, true
}

// Drop releases over the current hover target.
func (c *Controller) Drop() (Intent, bool) {
	return c.Release(c.overID)
}

// Cancel discards the gesture without producing an intent.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.phase = Idle
	c.activeID = ""
	c.overID = ""
}
