package cli

import "github.com/alexanderramin/listapp/internal/domain"

// headerLines is the height of the header drawn above every view: the
// title line and its separator. Views that map mouse rows to items add it
// to their own offsets.
const headerLines = 2

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// User is set once the session probe succeeds.
	User *domain.User

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the lines left for view content after the header
// (2 lines), the toast line and the status bar (2 lines).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-headerLines-3, 1)
}
