// Package planner owns the weekly planner state: the per-week task
// templates, per-day completion sets, and streak bookkeeping. All state
// transitions live on Engine and are pure: each operation takes a State
// value and returns a fresh snapshot, cloning only the touched week.
package planner

import (
	"math"

	"weekplan/internal/calendar"
)

// Category classifies a task for display purposes.
type Category string

const (
	CategoryGym    Category = "gym"
	CategoryMeal   Category = "meal"
	CategoryStudy  Category = "study"
	CategoryHobby  Category = "hobby"
	CategoryOthers Category = "others"
)

// CategoryInfo holds the display metadata for a category.
type CategoryInfo struct {
	Emoji string
	Color string // hex
	Name  string
}

// Categories is the fixed category table. CategoryOthers is the fallback
// for any task whose category is missing or unrecognized.
var Categories = map[Category]CategoryInfo{
	CategoryGym:    {Emoji: "💪", Color: "#4ADE80", Name: "Gym"},
	CategoryMeal:   {Emoji: "🍽️", Color: "#FB923C", Name: "Meal"},
	CategoryStudy:  {Emoji: "📚", Color: "#3B82F6", Name: "Study"},
	CategoryHobby:  {Emoji: "🎨", Color: "#A855F7", Name: "Hobby"},
	CategoryOthers: {Emoji: "⚡", Color: "#6B7280", Name: "Others"},
}

// CategoryOrder is the stable ordering used by pickers and reports.
var CategoryOrder = []Category{CategoryGym, CategoryMeal, CategoryStudy, CategoryHobby, CategoryOthers}

// Normalize maps unknown categories to CategoryOthers.
func (c Category) Normalize() Category {
	if _, ok := Categories[c]; ok {
		return c
	}
	return CategoryOthers
}

// Info returns the display metadata for c, falling back to others.
func (c Category) Info() CategoryInfo {
	return Categories[c.Normalize()]
}

// Task is a single template entry. The ID is unique and immutable; only
// the text may change after creation.
type Task struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// WeekRecord holds one week's recurring template and its completion sets.
// Both maps always carry all seven day keys; Completions[day] contains
// only ids that exist in Template[day].
type WeekRecord struct {
	Template    map[calendar.DayName][]Task   `json:"template"`
	Completions map[calendar.DayName][]string `json:"completions"`
}

// NewWeekRecord returns an empty record with every day key present.
func NewWeekRecord() *WeekRecord {
	r := &WeekRecord{
		Template:    make(map[calendar.DayName][]Task, len(calendar.Days)),
		Completions: make(map[calendar.DayName][]string, len(calendar.Days)),
	}
	for _, day := range calendar.Days {
		r.Template[day] = []Task{}
		r.Completions[day] = []string{}
	}
	return r
}

// seedRecord returns a new record whose template is copied from the given
// one and whose completions are empty. A nil source seeds an empty week.
func seedRecord(from *WeekRecord) *WeekRecord {
	r := NewWeekRecord()
	if from == nil {
		return r
	}
	for _, day := range calendar.Days {
		r.Template[day] = append([]Task{}, from.Template[day]...)
	}
	return r
}

// clone deep-copies the record so the returned value can be mutated
// without touching the original snapshot.
func (r *WeekRecord) clone() *WeekRecord {
	out := &WeekRecord{
		Template:    make(map[calendar.DayName][]Task, len(calendar.Days)),
		Completions: make(map[calendar.DayName][]string, len(calendar.Days)),
	}
	for _, day := range calendar.Days {
		out.Template[day] = append([]Task{}, r.Template[day]...)
		out.Completions[day] = append([]string{}, r.Completions[day]...)
	}
	return out
}

// normalize backfills missing or malformed per-day lists so that both
// maps carry all seven day keys and completions reference only template
// ids. Returns the receiver for chaining.
func (r *WeekRecord) normalize() *WeekRecord {
	if r.Template == nil {
		r.Template = make(map[calendar.DayName][]Task, len(calendar.Days))
	}
	if r.Completions == nil {
		r.Completions = make(map[calendar.DayName][]string, len(calendar.Days))
	}
	for _, day := range calendar.Days {
		if r.Template[day] == nil {
			r.Template[day] = []Task{}
		}
		ids := make(map[string]struct{}, len(r.Template[day]))
		for _, task := range r.Template[day] {
			ids[task.ID] = struct{}{}
		}
		kept := []string{}
		for _, id := range r.Completions[day] {
			if _, ok := ids[id]; ok {
				kept = append(kept, id)
			}
		}
		r.Completions[day] = kept
	}
	// Drop template entries under unknown day keys rather than carrying
	// slots no operation can reach.
	for day := range r.Template {
		if !day.Valid() {
			delete(r.Template, day)
		}
	}
	for day := range r.Completions {
		if !day.Valid() {
			delete(r.Completions, day)
		}
	}
	return r
}

// completed reports whether the task id is marked done on the given day.
func (r *WeekRecord) completed(day calendar.DayName, taskID string) bool {
	for _, id := range r.Completions[day] {
		if id == taskID {
			return true
		}
	}
	return false
}

// State is one immutable snapshot of the whole planner. The JSON shape
// matches the persisted layout.
type State struct {
	Weeks              map[calendar.WeekID]*WeekRecord `json:"weeks"`
	CurrentWeekID      calendar.WeekID                 `json:"currentWeekId"`
	ActiveWeekID       calendar.WeekID                 `json:"activeWeekId"`
	CurrentDayName     calendar.DayName                `json:"currentDayName"`
	Streak             int                             `json:"streak"`
	LastCompletionDate string                          `json:"lastCompletionDate"` // YYYY-MM-DD, "" when none
}

// valid reports whether a loaded snapshot has the shape Initialize
// requires. Anything short of this is discarded for a fresh default.
func (s *State) valid() bool {
	if s == nil || s.Weeks == nil || s.Streak < 0 {
		return false
	}
	if _, _, err := calendar.ParseWeekID(s.CurrentWeekID); err != nil {
		return false
	}
	if _, _, err := calendar.ParseWeekID(s.ActiveWeekID); err != nil {
		return false
	}
	return s.CurrentDayName.Valid()
}

// Record returns the week record for id, or nil if none exists.
func (s State) Record(id calendar.WeekID) *WeekRecord {
	if s.Weeks == nil {
		return nil
	}
	return s.Weeks[id]
}

// IsHistorical reports whether the user is viewing a week other than the
// one containing today. Historical weeks never accept template edits.
func (s State) IsHistorical() bool {
	return s.CurrentWeekID != s.ActiveWeekID
}

// TasksFor returns the viewed week's template entries for a day. The
// returned slice must not be mutated.
func (s State) TasksFor(day calendar.DayName) []Task {
	rec := s.Record(s.CurrentWeekID)
	if rec == nil {
		return nil
	}
	return rec.Template[day]
}

// IsCompleted reports whether a task is marked done on a day of the
// viewed week.
func (s State) IsCompleted(day calendar.DayName, taskID string) bool {
	rec := s.Record(s.CurrentWeekID)
	if rec == nil {
		return false
	}
	return rec.completed(day, taskID)
}

// CompletionPercentage sums template and completion counts across all
// seven days of the named week and returns the rounded percentage.
// Unknown weeks and weeks with no tasks report 0.
func (s State) CompletionPercentage(id calendar.WeekID) int {
	rec := s.Record(id)
	if rec == nil {
		return 0
	}
	total, completed := 0, 0
	for _, day := range calendar.Days {
		total += len(rec.Template[day])
		completed += len(rec.Completions[day])
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// withWeek returns a snapshot with the weeks map shallow-copied and the
// given record installed. Untouched weeks share their records with the
// previous snapshot.
func (s State) withWeek(id calendar.WeekID, rec *WeekRecord) State {
	weeks := make(map[calendar.WeekID]*WeekRecord, len(s.Weeks)+1)
	for k, v := range s.Weeks {
		weeks[k] = v
	}
	weeks[id] = rec
	s.Weeks = weeks
	return s
}
