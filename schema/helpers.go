package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// OwnerOf returns the segment before the first "/" of an owner/repo id.
// An id without "/" is its own owner.
func OwnerOf(id string) string {
	owner, _, _ := strings.Cut(id, "/")
	return owner
}

// RepoNameOf returns the segment after the first "/" of an owner/repo id.
// An id without "/" is returned unchanged.
func RepoNameOf(id string) string {
	_, repo, found := strings.Cut(id, "/")
	if !found {
		return id
	}
	return repo
}

var monthAbbrev = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatCompact renders large numbers as 1.2K or 3.5M.
func FormatCompact(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// FormatCreatedDate turns "YYYY/MM/DD" into "Jan 02, 2006" form.
// An empty date is "Unknown"; anything else unparseable is returned as is.
func FormatCreatedDate(date string) string {
	if date == "" {
		return "Unknown"
	}
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return date
	}
	return fmt.Sprintf("%s %s, %s", monthAbbrev[month-1], parts[2], parts[0])
}
