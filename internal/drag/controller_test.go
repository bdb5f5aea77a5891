package drag

import (
	"testing"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeItems() []domain.Item {
	return []domain.Item{
		{ID: "A", Position: 0},
		{ID: "B", Position: 1},
		{ID: "C", Position: 2},
	}
}

func TestController_ReleaseOverOtherItemEmitsIntent(t *testing.T) {
	var c Controller
	require.True(t, c.Begin("A"))
	assert.Equal(t, Dragging, c.Phase())
	assert.Equal(t, "A", c.ActiveID())

	intent, ok := c.Release("C")

	require.True(t, ok)
	assert.Equal(t, Intent{FromID: "A", ToID: "C"}, intent)
	assert.Equal(t, Idle, c.Phase())
	assert.Empty(t, c.ActiveID())
}

func TestController_ReleaseOverSelfEmitsNothing(t *testing.T) {
	var c Controller
	c.Begin("B")

	_, ok := c.Release("B")

	assert.False(t, ok)
	assert.Equal(t, Idle, c.Phase())
}

func TestController_ReleaseOutsideTargetsEmitsNothing(t *testing.T) {
	var c Controller
	c.Begin("B")
	assert.Empty(t, c.Hover(Point{X: 3, Y: 9}, nil))

	_, ok := c.Drop()

	assert.False(t, ok)
}

func TestController_CancelDiscardsGesture(t *testing.T) {
	var c Controller
	c.Begin("A")
	c.HoverID("C")

	c.Cancel()

	assert.Equal(t, Idle, c.Phase())
	_, ok := c.Drop()
	assert.False(t, ok, "no intent after cancel")
}

func TestController_OneGestureAtATime(t *testing.T) {
	var c Controller
	require.True(t, c.Begin("A"))
	assert.False(t, c.Begin("B"))
	assert.Equal(t, "A", c.ActiveID())

	assert.False(t, (&Controller{}).Begin(""))
}

func TestController_ReleaseWhileIdle(t *testing.T) {
	var c Controller
	_, ok := c.Release("A")
	assert.False(t, ok)
	assert.Empty(t, c.Hover(Point{}, Rows([]string{"A"}, 0, 10)))
}

func TestController_PreviewIsPure(t *testing.T) {
	var c Controller
	items := threeItems()
	c.Begin("A")
	c.Hover(Point{X: 2, Y: 12}, Rows([]string{"A", "B", "C"}, 10, 20))

	preview := c.Preview(items)

	assert.Equal(t, "C", c.OverID())
	assert.Equal(t, []string{"B", "C", "A"}, sequence.IDs(preview))
	assert.Equal(t, []string{"A", "B", "C"}, sequence.IDs(items), "canonical items untouched")
}

func TestController_PreviewIdleReturnsInput(t *testing.T) {
	var c Controller
	items := threeItems()
	assert.Equal(t, items, c.Preview(items))
}

func TestController_HoverThenDropUsesHoverTarget(t *testing.T) {
	var c Controller
	targets := Rows([]string{"A", "B", "C"}, 2, 30)
	c.Begin("C")
	c.Hover(Point{X: 5, Y: 2}, targets)

	intent, ok := c.Drop()
	require.True(t, ok)
	assert.Equal(t, Intent{FromID: "C", ToID: "A"}, intent)
}
