package ui

import (
	"context"
	"time"

	"weekplan/internal/calendar"
	"weekplan/internal/planner"
	"weekplan/internal/storage"
	"weekplan/internal/suggest"

	tea "github.com/charmbracelet/bubbletea"
)

// Commands wrap blocking work in tea.Cmd functions so the update loop
// never touches the disk or the network directly.

// loadStateCmd reads the persisted snapshot from disk.
func loadStateCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := store.LoadState()
		return stateLoadedMsg{snapshot: snapshot, err: err}
	}
}

// saveStateCmd persists the given snapshot. The snapshot is a value, so
// later mutations in the update loop cannot race the write.
func saveStateCmd(store *storage.Storage, state planner.State) tea.Cmd {
	return func() tea.Msg {
		return stateSavedMsg{err: store.SaveState(state)}
	}
}

// suggestCmd asks the breakdown service to split a task into subtasks.
func suggestCmd(client *suggest.Client, timeout time.Duration, day calendar.DayName, category planner.Category, taskText string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		subtasks, err := client.Breakdown(ctx, taskText)
		return suggestResultMsg{day: day, category: category, subtasks: subtasks, err: err}
	}
}

// statusCmd publishes a transient status line.
func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}
