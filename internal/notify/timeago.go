package notify

import (
	"time"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
)

const (
	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
	msPerDay    = 24 * msPerHour
)

// dateLayouts are the absolute formats used once a notification is a week
// old.
var dateLayouts = map[i18n.Locale]string{
	i18n.English:    "1/2/2006",
	i18n.Indonesian: "2/1/2006",
}

// TimeAgo renders how long ago created was relative to now. Thresholds use
// integer division of elapsed milliseconds, so 119s is still "1m ago".
// A created time in the future renders as "just now".
func TimeAgo(created, now time.Time, l i18n.Locale) string {
	elapsed := now.Sub(created).Milliseconds()

	switch {
	case elapsed < msPerMinute:
		return i18n.T(l, i18n.TimeJustNow)
	case elapsed < msPerHour:
		return i18n.T(l, i18n.TimeMinutes, elapsed/msPerMinute)
	case elapsed < msPerDay:
		return i18n.T(l, i18n.TimeHours, elapsed/msPerHour)
	case elapsed < 7*msPerDay:
		return i18n.T(l, i18n.TimeDays, elapsed/msPerDay)
	}

	layout, ok := dateLayouts[l]
	if !ok {
		layout = dateLayouts[i18n.English]
	}
	return created.In(now.Location()).Format(layout)
}
