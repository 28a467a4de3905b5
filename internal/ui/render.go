package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lmeriaux/todo/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// ItemLine renders one todo row: index, checkbox, title, then due date,
// category, and priority annotations.
func ItemLine(index int, it model.Item, now time.Time) string {
	t := Current()
	idx := fmt.Sprintf("%2d.", index)
	box, color := t.BoxUnchecked, t.Muted
	if it.Completed {
		box, color = t.BoxChecked, t.Success
	}

	title := it.Title
	if len(title) > 60 {
		title = title[:57] + "..."
	}

	var tags []string
	if it.DueDate != nil {
		due := C(t.Pending, "due "+DueLabel(*it.DueDate))
		if it.Overdue(now) {
			due = C(t.Overdue, "overdue "+DueLabel(*it.DueDate))
		}
		tags = append(tags, due)
	}
	if it.Category != nil {
		tags = append(tags, C(t.Accent, "@"+string(*it.Category)))
	}
	tags = append(tags, PriorityBadge(it.Priority))

	line := fmt.Sprintf("%s %s %s", C("\033[2m", idx), C(color, box), title)
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	return line
}

// DueLabel formats a due date, dropping the time part at midnight.
func DueLabel(due time.Time) string {
	if due.Hour() == 0 && due.Minute() == 0 {
		return due.Format("2006-01-02")
	}
	return due.Format("2006-01-02 15:04")
}

// PriorityBadge renders a priority marker in its theme color.
func PriorityBadge(p model.Priority) string {
	t := Current()
	switch p {
	case model.PriorityHigh:
		return C(t.PrioHigh, "!high")
	case model.PriorityLow:
		return C(t.PrioLow, "!low")
	default:
		return C(t.PrioMedium, "!med")
	}
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	// compute visible width
	maxw := 0
	for _, ln := range lines {
		w := len(stripANSI(ln))
		if w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		vis := len(stripANSI(s))
		if vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	leftPad := " "
	fmt.Println(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR)
	for _, ln := range lines {
		fmt.Println(t.V + leftPad + pad(ln) + " " + t.V)
	}
	fmt.Println(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR)
}
