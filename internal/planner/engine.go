package planner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"weekplan/internal/calendar"
)

const dateLayout = "2006-01-02"

// Engine applies planner state transitions. Every operation is a total
// function from one State snapshot to the next; the engine itself holds
// no state beyond its injectable clock and id generator, so one Engine
// can serve any number of snapshots.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// New creates an Engine using the wall clock and random task ids.
func New() *Engine {
	return &Engine{now: time.Now, newID: newTaskID}
}

// SetNowFunc overrides the clock used by date-dependent operations.
// Passing nil resets it to time.Now.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if now == nil {
		e.now = time.Now
		return
	}
	e.now = now
}

// SetIDFunc overrides the task id generator. Passing nil resets it to
// the default random generator.
func (e *Engine) SetIDFunc(newID func() string) {
	if newID == nil {
		e.newID = newTaskID
		return
	}
	e.newID = newID
}

// Now returns the current time according to the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

func newTaskID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Timestamp-only ids are still unique enough for a single user.
		return fmt.Sprintf("task_%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("task_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(b[:]))
}

// Initialize validates a loaded snapshot and reconciles it with today's
// date. A nil or malformed snapshot yields a fresh default state seeded
// with today's week and day. Calling it twice within the same day
// produces the same result.
func (e *Engine) Initialize(snapshot *State) State {
	today := e.now()
	activeID := calendar.WeekIDOf(today)
	todayName := calendar.DayNameOf(today)

	if snapshot == nil || !snapshot.valid() {
		return e.defaultState(activeID, todayName)
	}

	s := *snapshot
	weeks := make(map[calendar.WeekID]*WeekRecord, len(s.Weeks)+1)
	for id, rec := range s.Weeks {
		if rec == nil {
			rec = NewWeekRecord()
		} else {
			rec = rec.clone().normalize()
		}
		weeks[id] = rec
	}
	s.Weeks = weeks

	if _, err := time.Parse(dateLayout, s.LastCompletionDate); s.LastCompletionDate != "" && err != nil {
		s.LastCompletionDate = ""
	}

	return e.advance(s, today, activeID, todayName)
}

// Tick re-derives the active week and day from the wall clock. It is
// safe to call redundantly; within one day it is a no-op beyond the
// idempotent recomputation.
func (e *Engine) Tick(s State) State {
	today := e.now()
	return e.advance(s, today, calendar.WeekIDOf(today), calendar.DayNameOf(today))
}

// advance is the shared rollover step behind Initialize and Tick: ensure
// today's week has a record (template carried over from the previous
// active week), point the active markers at today, and decay the streak.
func (e *Engine) advance(s State, today time.Time, activeID calendar.WeekID, todayName calendar.DayName) State {
	if s.Record(activeID) == nil {
		s = s.withWeek(activeID, seedRecord(s.Record(s.ActiveWeekID)))
	}

	// Keep a stale currentWeekId pointing at the old active week: the user
	// is now viewing history. Only the day marker follows the clock, and
	// only while the active week is on screen.
	s.ActiveWeekID = activeID
	if s.CurrentWeekID == activeID {
		s.CurrentDayName = todayName
	}

	s.Streak, s.LastCompletionDate = decayStreak(s.Streak, s.LastCompletionDate, today)
	return s
}

// decayStreak resets the streak to 0 when more than one calendar day has
// passed since the last qualifying completion. The rule is a plain
// elapsed-day threshold, matching the persisted data this planner grew
// up with, rather than a check of the immediately preceding day.
func decayStreak(streak int, lastCompletion string, today time.Time) (int, string) {
	if lastCompletion == "" {
		return streak, lastCompletion
	}
	last, err := time.Parse(dateLayout, lastCompletion)
	if err != nil {
		return streak, ""
	}
	if daysBetween(last, today) > 1 {
		return 0, lastCompletion
	}
	return streak, lastCompletion
}

// daysBetween counts whole calendar days from a to b in local time.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.Local)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.Local)
	return int(b.Sub(a).Hours() / 24)
}

func (e *Engine) defaultState(activeID calendar.WeekID, todayName calendar.DayName) State {
	return State{
		Weeks:          map[calendar.WeekID]*WeekRecord{activeID: NewWeekRecord()},
		CurrentWeekID:  activeID,
		ActiveWeekID:   activeID,
		CurrentDayName: todayName,
		Streak:         0,
	}
}

// AddTask appends a new task to the active week's template for the given
// day. The text must be non-empty after trimming; unknown categories fall
// back to others.
func (e *Engine) AddTask(s State, day calendar.DayName, text string, category Category) (State, error) {
	if !day.Valid() {
		return s, fmt.Errorf("unknown day name %q", day)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return s, fmt.Errorf("task text is required")
	}
	rec := s.Record(s.ActiveWeekID)
	if rec == nil {
		return s, fmt.Errorf("active week %s has no record", s.ActiveWeekID)
	}

	task := Task{ID: e.newID(), Text: text, Category: category.Normalize()}
	next := rec.clone()
	next.Template[day] = append(next.Template[day], task)
	return s.withWeek(s.ActiveWeekID, next), nil
}

// EditTaskText replaces a task's text in the active week, preserving its
// id, category, and position. An unknown task id or empty replacement
// text leaves the state unchanged.
func (e *Engine) EditTaskText(s State, day calendar.DayName, taskID, newText string) (State, error) {
	newText = strings.TrimSpace(newText)
	if newText == "" || !day.Valid() {
		return s, nil
	}
	rec := s.Record(s.ActiveWeekID)
	if rec == nil {
		return s, fmt.Errorf("active week %s has no record", s.ActiveWeekID)
	}
	idx := taskIndex(rec.Template[day], taskID)
	if idx < 0 {
		return s, nil
	}

	next := rec.clone()
	next.Template[day][idx].Text = newText
	return s.withWeek(s.ActiveWeekID, next), nil
}

// DeleteTask removes a task from the active week's template and purges
// its id from that day's completions in the same step, so a completion
// can never outlive its task.
func (e *Engine) DeleteTask(s State, day calendar.DayName, taskID string) (State, error) {
	if !day.Valid() {
		return s, nil
	}
	rec := s.Record(s.ActiveWeekID)
	if rec == nil {
		return s, fmt.Errorf("active week %s has no record", s.ActiveWeekID)
	}
	idx := taskIndex(rec.Template[day], taskID)
	if idx < 0 {
		return s, nil
	}

	next := rec.clone()
	next.Template[day] = append(next.Template[day][:idx], next.Template[day][idx+1:]...)
	kept := next.Completions[day][:0]
	for _, id := range next.Completions[day] {
		if id != taskID {
			kept = append(kept, id)
		}
	}
	next.Completions[day] = kept
	return s.withWeek(s.ActiveWeekID, next), nil
}

// ReorderTasks replaces the active week's task order for a day. The new
// list must be a permutation of the existing tasks for that day.
func (e *Engine) ReorderTasks(s State, day calendar.DayName, newOrder []Task) (State, error) {
	if !day.Valid() {
		return s, fmt.Errorf("unknown day name %q", day)
	}
	rec := s.Record(s.ActiveWeekID)
	if rec == nil {
		return s, fmt.Errorf("active week %s has no record", s.ActiveWeekID)
	}
	if !samePermutation(rec.Template[day], newOrder) {
		return s, fmt.Errorf("reorder list is not a permutation of %s's tasks", day)
	}

	next := rec.clone()
	next.Template[day] = append([]Task{}, newOrder...)
	return s.withWeek(s.ActiveWeekID, next), nil
}

// ToggleCompletion flips a task's done state on the currently viewed
// week. Only completions on the active week count toward the streak, and
// the streak grows at most once per calendar day, on the first
// completion of that day.
func (e *Engine) ToggleCompletion(s State, day calendar.DayName, taskID string) (State, error) {
	if !day.Valid() {
		return s, nil
	}
	rec := s.Record(s.CurrentWeekID)
	if rec == nil {
		return s, fmt.Errorf("viewed week %s has no record", s.CurrentWeekID)
	}
	if taskIndex(rec.Template[day], taskID) < 0 {
		return s, nil
	}

	next := rec.clone()
	if next.completed(day, taskID) {
		kept := next.Completions[day][:0]
		for _, id := range next.Completions[day] {
			if id != taskID {
				kept = append(kept, id)
			}
		}
		next.Completions[day] = kept
	} else {
		next.Completions[day] = append(next.Completions[day], taskID)
	}
	s = s.withWeek(s.CurrentWeekID, next)

	if s.CurrentWeekID != s.ActiveWeekID {
		return s, nil
	}
	today := e.now()
	todayStr := today.Format(dateLayout)
	todayName := calendar.DayNameOf(today)
	if len(next.Completions[todayName]) > 0 && s.LastCompletionDate != todayStr {
		s.Streak++
		s.LastCompletionDate = todayStr
	}
	return s, nil
}

// NavigateWeek moves the viewed week by whole weeks. A destination with
// no record is created on the spot, its template seeded from the active
// week's current template with nothing completed.
func (e *Engine) NavigateWeek(s State, offset int) State {
	dest, err := calendar.StepWeek(s.CurrentWeekID, offset)
	if err != nil {
		return s
	}
	if s.Record(dest) == nil {
		s = s.withWeek(dest, seedRecord(s.Record(s.ActiveWeekID)))
	}
	s.CurrentWeekID = dest
	return s
}

// NavigateDay moves the viewed day cyclically through the canonical
// weekday order without changing the viewed week.
func (e *Engine) NavigateDay(s State, offset int) State {
	s.CurrentDayName = s.CurrentDayName.Shift(offset)
	return s
}

// JumpToToday returns the view to the active week with today's weekday
// selected. Tick is applied first so a pending day rollover lands before
// the jump.
func (e *Engine) JumpToToday(s State) State {
	s = e.Tick(s)
	s.CurrentWeekID = s.ActiveWeekID
	s.CurrentDayName = calendar.DayNameOf(e.Now())
	return s
}

func taskIndex(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// samePermutation checks set-equality of task ids between two lists.
func samePermutation(current, proposed []Task) bool {
	if len(current) != len(proposed) {
		return false
	}
	ids := make(map[string]int, len(current))
	for _, t := range current {
		ids[t.ID]++
	}
	for _, t := range proposed {
		ids[t.ID]--
		if ids[t.ID] < 0 {
			return false
		}
	}
	return true
}
