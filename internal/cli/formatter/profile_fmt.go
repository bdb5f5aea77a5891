package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

// FormatProfile renders the account details of u.
func FormatProfile(u domain.User) string {
	var b strings.Builder
	b.WriteString(Header("Profile") + "\n\n")
	row := func(label, value string) {
		b.WriteString("  " + Dim(PadRight(label, 14)) + value + "\n")
	}
	row("Name", Bold(u.Name))
	row("Email", u.Email)
	row("Member since", calendarDate(u.CreatedAt))
	row("Last updated", calendarDate(u.UpdatedAt))
	return b.String()
}

func calendarDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006")
}
