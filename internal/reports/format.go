package reports

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatJSON formats a week report as indented JSON.
func FormatJSON(report *WeekReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// FormatMarkdown formats a week report as human-readable Markdown.
func FormatMarkdown(report *WeekReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Week %d | %d\n\n", report.Week, report.Year)
	fmt.Fprintf(&b, "%s - %s\n\n",
		report.StartDate.Format("Mon, Jan 2 2006"),
		report.EndDate.Format("Mon, Jan 2 2006"))

	fmt.Fprintf(&b, "- Tasks completed: %d/%d (%d%%)\n", report.CompletedTasks, report.TotalTasks, report.CompletionRate)
	fmt.Fprintf(&b, "- Streak: %d\n\n", report.Streak)

	for _, day := range report.Days {
		fmt.Fprintf(&b, "## %s, %s\n\n", day.Day, day.Date.Format("Jan 2"))
		if len(day.Tasks) == 0 {
			b.WriteString("_No tasks._\n\n")
			continue
		}
		for _, task := range day.Tasks {
			mark := " "
			if task.Done {
				mark = "x"
			}
			info := task.Category.Info()
			fmt.Fprintf(&b, "- [%s] %s %s\n", mark, info.Emoji, task.Text)
		}
		b.WriteString("\n")
	}

	return b.String()
}
