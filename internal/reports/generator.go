package reports

import (
	"fmt"
	"math"
	"time"

	"weekplan/internal/calendar"
	"weekplan/internal/planner"
)

// Generator creates reports from planner snapshots.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// SetNowFunc overrides the clock used for report timestamps.
func (g *Generator) SetNowFunc(now func() time.Time) {
	if now == nil {
		g.now = time.Now
		return
	}
	g.now = now
}

// Generate builds a report for the given week of the snapshot. Weeks the
// planner has never visited report an empty template.
func (g *Generator) Generate(state planner.State, weekID calendar.WeekID) (*WeekReport, error) {
	year, week, err := calendar.ParseWeekID(weekID)
	if err != nil {
		return nil, fmt.Errorf("report week: %w", err)
	}
	monday, err := calendar.MondayOf(weekID)
	if err != nil {
		return nil, fmt.Errorf("report week: %w", err)
	}

	rec := state.Record(weekID)
	if rec == nil {
		rec = planner.NewWeekRecord()
	}

	report := &WeekReport{
		WeekID:      weekID,
		Year:        year,
		Week:        week,
		StartDate:   monday,
		EndDate:     monday.AddDate(0, 0, 6),
		Days:        make([]DayReport, 0, len(calendar.Days)),
		Streak:      state.Streak,
		GeneratedAt: g.now(),
	}

	for i, day := range calendar.Days {
		dr := DayReport{
			Day:   day,
			Date:  monday.AddDate(0, 0, i),
			Tasks: make([]TaskStatus, 0, len(rec.Template[day])),
		}
		done := make(map[string]bool, len(rec.Completions[day]))
		for _, id := range rec.Completions[day] {
			done[id] = true
		}
		for _, task := range rec.Template[day] {
			status := TaskStatus{
				ID:       task.ID,
				Text:     task.Text,
				Category: task.Category,
				Done:     done[task.ID],
			}
			dr.Tasks = append(dr.Tasks, status)
			dr.Total++
			if status.Done {
				dr.Completed++
			}
		}
		report.TotalTasks += dr.Total
		report.CompletedTasks += dr.Completed
		report.Days = append(report.Days, dr)
	}

	if report.TotalTasks > 0 {
		report.CompletionRate = int(math.Round(float64(report.CompletedTasks) / float64(report.TotalTasks) * 100))
	}
	return report, nil
}
