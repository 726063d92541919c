package notify

import (
	"time"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/model"
)

// Entry is one rendered row of the notification list.
type Entry struct {
	Notification model.Notification
	Title        string
	Message      string
	Age          string
	Unread       bool
}

// Entries turns a list into rows in backend order. The output depends only
// on its inputs, so rendering an unchanged list twice gives the same rows.
func Entries(list []model.Notification, now time.Time, l i18n.Locale) []Entry {
	out := make([]Entry, 0, len(list))
	for _, n := range list {
		out = append(out, Entry{
			Notification: n,
			Title:        n.Title,
			Message:      n.Message,
			Age:          TimeAgo(n.CreatedAt.Time, now, l),
			Unread:       !n.IsRead,
		})
	}
	return out
}

// EmptyText is shown instead of an empty list.
func EmptyText(l i18n.Locale) string {
	return i18n.T(l, i18n.NoNotifications)
}

// Badge renders the unread count, or "" when there is nothing unread.
func Badge(unread int, l i18n.Locale) string {
	if unread <= 0 {
		return ""
	}
	return i18n.T(l, i18n.UnreadBadge, unread)
}
