package normalize

import (
	"strings"
	"time"
)

// Award archives carry dates as MM/DD/YYYY.
const dateLayout = "01/02/2006"

// ParseDate parses a date in the archive's fixed layout.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(raw))
}
