package utils

import (
	"strings"
	"time"

	"github.com/sysconf-tracker/sysconf/internal/models"
)

const aoeMarker = "(AoE)"

// Layouts tried, in order, when parsing a deadline
var deadlineLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
}

// ParseCFPDate parses a deadline string. The second return value is false
// when the deadline is empty, TBA, or not a date. A literal "(AoE)" marker is
// removed before parsing and otherwise ignored
func ParseCFPDate(deadline string) (time.Time, bool) {
	if deadline == "" || deadline == models.TBA {
		return time.Time{}, false
	}

	cleaned := strings.TrimSpace(strings.Replace(deadline, aoeMarker, "", 1))
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
