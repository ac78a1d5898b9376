// Package reports provides weekly report generation for the weekplan app.
// Reports aggregate the task template and completions of a single week.
package reports

import (
	"time"

	"weekplan/internal/calendar"
	"weekplan/internal/planner"
)

// WeekReport contains aggregated data for one planner week.
type WeekReport struct {
	WeekID         calendar.WeekID `json:"week_id"`
	Year           int             `json:"year"`
	Week           int             `json:"week"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Days           []DayReport     `json:"days"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	CompletionRate int             `json:"completion_rate"`
	Streak         int             `json:"streak"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// DayReport contains the tasks of a single day within the week.
type DayReport struct {
	Day       calendar.DayName `json:"day"`
	Date      time.Time        `json:"date"`
	Tasks     []TaskStatus     `json:"tasks"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
}

// TaskStatus pairs a task with its completion state.
type TaskStatus struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	Category planner.Category `json:"category"`
	Done     bool             `json:"done"`
}
