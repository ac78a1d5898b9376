package ui

import (
	"weekplan/internal/calendar"
	"weekplan/internal/planner"
)

// Messages passed between commands and the update loop. All async work
// (disk I/O, suggestion requests) reports back through one of these.

// stateLoadedMsg carries the persisted snapshot read at startup.
// A nil snapshot with a nil err means a fresh install.
type stateLoadedMsg struct {
	snapshot *planner.State
	err      error
}

// stateSavedMsg reports the outcome of an async save.
type stateSavedMsg struct {
	err error
}

// suggestResultMsg carries subtasks returned by the breakdown service,
// tagged with the day and category they should be added under.
type suggestResultMsg struct {
	day      calendar.DayName
	category planner.Category
	subtasks []string
	err      error
}

// statusMsg sets the transient status line.
type statusMsg struct {
	text  string
	isErr bool
}
