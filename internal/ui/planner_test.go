package ui

import (
	"strings"
	"testing"

	"weekplan/internal/calendar"
	"weekplan/internal/config"
	"weekplan/internal/planner"

	tea "github.com/charmbracelet/bubbletea"
)

// newTestPane builds a day pane over a fresh state with a frozen clock.
// The viewed day starts on Wednesday (testNow's weekday).
func newTestPane(t *testing.T) *PlannerPane {
	t.Helper()
	setupTest(t)

	engine := newFrozenEngine()
	pane := NewPlannerPane(createTestStorage(t), engine, createTestStyles(), config.Default(), nil)
	pane.SetState(engine.Initialize(nil))
	pane.SetSize(80, 24)
	return pane
}

// addTask seeds a task on the viewed day directly through the engine.
func addTask(t *testing.T, p *PlannerPane, text string, cat planner.Category) planner.Task {
	t.Helper()
	next, err := p.engine.AddTask(p.state, p.state.CurrentDayName, text, cat)
	if err != nil {
		t.Fatalf("AddTask(%q) failed: %v", text, err)
	}
	p.SetState(next)
	tasks := next.TasksFor(p.state.CurrentDayName)
	return tasks[len(tasks)-1]
}

func typeText(p *PlannerPane, text string) {
	for _, r := range text {
		p.Update(keyRune(r))
	}
}

func TestPlannerPane_AddTask(t *testing.T) {
	pane := newTestPane(t)

	pane.Update(keyRune('a'))
	if !pane.InputActive() {
		t.Fatal("expected input mode after add key")
	}

	typeText(pane, "Go to gym")
	cmd := pane.Update(keyEnter)
	if cmd == nil {
		t.Fatal("expected a save command after confirming")
	}

	tasks := pane.State().TasksFor(calendar.Wednesday)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Text != "Go to gym" {
		t.Errorf("task text = %q, want %q", tasks[0].Text, "Go to gym")
	}
	if tasks[0].Category != planner.CategoryOthers {
		t.Errorf("default category = %q, want others", tasks[0].Category)
	}
	if pane.InputActive() {
		t.Error("input mode should end after confirming")
	}
}

func TestPlannerPane_AddTask_CategoryCycle(t *testing.T) {
	pane := newTestPane(t)

	pane.Update(keyRune('a'))
	pane.Update(keyTab) // others -> gym
	typeText(pane, "Bench press")
	pane.Update(keyEnter)

	tasks := pane.State().TasksFor(calendar.Wednesday)
	if len(tasks) != 1 || tasks[0].Category != planner.CategoryGym {
		t.Fatalf("expected one gym task, got %+v", tasks)
	}
}

func TestPlannerPane_AddTask_CancelDiscards(t *testing.T) {
	pane := newTestPane(t)

	pane.Update(keyRune('a'))
	typeText(pane, "Never mind")
	pane.Update(keyEsc)

	if pane.InputActive() {
		t.Error("input mode should end on cancel")
	}
	if got := len(pane.State().TasksFor(calendar.Wednesday)); got != 0 {
		t.Errorf("expected no tasks after cancel, got %d", got)
	}
}

func TestPlannerPane_EditTask(t *testing.T) {
	pane := newTestPane(t)
	task := addTask(t, pane, "Raed a book", planner.CategoryStudy)

	pane.Update(keyRune('e'))
	if !pane.InputActive() {
		t.Fatal("expected input mode after edit key")
	}
	pane.input.SetValue("Read a book")
	pane.Update(keyEnter)

	tasks := pane.State().TasksFor(calendar.Wednesday)
	if tasks[0].Text != "Read a book" {
		t.Errorf("edited text = %q, want %q", tasks[0].Text, "Read a book")
	}
	if tasks[0].ID != task.ID {
		t.Error("editing must not change the task id")
	}
}

func TestPlannerPane_ToggleCompletion(t *testing.T) {
	pane := newTestPane(t)
	task := addTask(t, pane, "Go to gym", planner.CategoryGym)

	cmd := pane.Update(keyRune('d'))
	if cmd == nil {
		t.Fatal("expected a save command after toggle")
	}
	if !pane.State().IsCompleted(calendar.Wednesday, task.ID) {
		t.Error("task should be completed after toggle")
	}
	if pane.State().Streak != 1 {
		t.Errorf("streak = %d, want 1 after first completion today", pane.State().Streak)
	}

	pane.Update(keyRune('d'))
	if pane.State().IsCompleted(calendar.Wednesday, task.ID) {
		t.Error("task should be pending after second toggle")
	}
}

func TestPlannerPane_NavigateDay(t *testing.T) {
	pane := newTestPane(t)

	pane.Update(keyRune('l'))
	if got := pane.State().CurrentDayName; got != calendar.Thursday {
		t.Errorf("day after next = %q, want thursday", got)
	}
	pane.Update(keyRune('h'))
	pane.Update(keyRune('h'))
	if got := pane.State().CurrentDayName; got != calendar.Tuesday {
		t.Errorf("day after two prev = %q, want tuesday", got)
	}
}

func TestPlannerPane_NavigateWeekAndBack(t *testing.T) {
	pane := newTestPane(t)
	addTask(t, pane, "Weekly review", planner.CategoryOthers)

	pane.Update(keyRune('L'))
	state := pane.State()
	if state.CurrentWeekID != calendar.WeekID("2026-24") {
		t.Fatalf("viewed week = %q, want 2026-24", state.CurrentWeekID)
	}
	if !state.IsHistorical() {
		t.Fatal("a future week should be read-only")
	}
	// The destination was seeded from the active week's template.
	if got := len(state.TasksFor(calendar.Wednesday)); got != 1 {
		t.Errorf("seeded week has %d wednesday tasks, want 1", got)
	}

	pane.Update(keyRune('t'))
	state = pane.State()
	if state.CurrentWeekID != state.ActiveWeekID {
		t.Error("today key should return to the active week")
	}
	if state.CurrentDayName != calendar.Wednesday {
		t.Errorf("today key selected %q, want wednesday", state.CurrentDayName)
	}
}

func TestPlannerPane_HistoricalWeekReadOnly(t *testing.T) {
	pane := newTestPane(t)
	addTask(t, pane, "Go to gym", planner.CategoryGym)
	pane.Update(keyRune('H'))

	for name, msg := range map[string]tea.KeyMsg{
		"add":    keyRune('a'),
		"edit":   keyRune('e'),
		"moveUp": keyRune('K'),
	} {
		cmd := pane.Update(msg)
		status, ok := findStatus(t, cmd)
		if !ok || !status.isErr {
			t.Errorf("%s on a past week should produce an error status", name)
		}
		if pane.InputActive() {
			t.Errorf("%s on a past week must not open input mode", name)
		}
	}

	// Completion toggles remain allowed on any visited week.
	tasks := pane.State().TasksFor(calendar.Wednesday)
	if len(tasks) == 0 {
		t.Fatal("expected seeded task in past week")
	}
	pane.Update(keyRune('d'))
	if !pane.State().IsCompleted(calendar.Wednesday, tasks[0].ID) {
		t.Error("toggle should work on past weeks")
	}
	// But it never moves the streak.
	if pane.State().Streak != 0 {
		t.Errorf("streak = %d, want 0 for past-week completion", pane.State().Streak)
	}
}

func TestPlannerPane_Reorder(t *testing.T) {
	pane := newTestPane(t)
	first := addTask(t, pane, "First", planner.CategoryOthers)
	second := addTask(t, pane, "Second", planner.CategoryOthers)

	pane.Update(keyRune('J'))
	tasks := pane.State().TasksFor(calendar.Wednesday)
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Errorf("order after move down = [%s %s], want [%s %s]",
			tasks[0].Text, tasks[1].Text, "Second", "First")
	}
	if pane.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (follows the moved task)", pane.cursor)
	}

	pane.Update(keyRune('K'))
	tasks = pane.State().TasksFor(calendar.Wednesday)
	if tasks[0].ID != first.ID {
		t.Error("move up should restore the original order")
	}
}

func TestPlannerPane_DeleteCurrent(t *testing.T) {
	pane := newTestPane(t)
	task := addTask(t, pane, "Go to gym", planner.CategoryGym)
	next, err := pane.engine.ToggleCompletion(pane.State(), calendar.Wednesday, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	pane.SetState(next)

	cmd := pane.DeleteCurrent()
	if cmd == nil {
		t.Fatal("expected a save command after delete")
	}
	if got := len(pane.State().TasksFor(calendar.Wednesday)); got != 0 {
		t.Errorf("expected no tasks after delete, got %d", got)
	}
	// The streak earned earlier stays.
	if pane.State().Streak != 1 {
		t.Errorf("streak = %d, want 1 after deleting a completed task", pane.State().Streak)
	}
}

func TestPlannerPane_ApplySuggestions(t *testing.T) {
	pane := newTestPane(t)
	addTask(t, pane, "Plan the trip", planner.CategoryHobby)

	cmd := pane.Update(suggestResultMsg{
		day:      calendar.Wednesday,
		category: planner.CategoryHobby,
		subtasks: []string{"Book flights", "Reserve hotel", "Pack bags"},
	})
	if cmd == nil {
		t.Fatal("expected status and save commands")
	}

	tasks := pane.State().TasksFor(calendar.Wednesday)
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks after suggestions, got %d", len(tasks))
	}
	for _, task := range tasks[1:] {
		if task.Category != planner.CategoryHobby {
			t.Errorf("subtask %q category = %q, want hobby", task.Text, task.Category)
		}
	}
}

func TestPlannerPane_ApplySuggestions_Error(t *testing.T) {
	pane := newTestPane(t)
	cmd := pane.Update(suggestResultMsg{err: errTest})
	status, ok := findStatus(t, cmd)
	if !ok || !status.isErr {
		t.Fatal("suggest error should surface as an error status")
	}
}

func TestPlannerPane_SuggestDisabled(t *testing.T) {
	pane := newTestPane(t)
	addTask(t, pane, "Go to gym", planner.CategoryGym)

	cmd := pane.Update(keyRune('s'))
	status, ok := findStatus(t, cmd)
	if !ok || !status.isErr {
		t.Fatal("suggest without a client should produce an error status")
	}
}

func TestPlannerPane_View(t *testing.T) {
	pane := newTestPane(t)
	addTask(t, pane, "Go to gym", planner.CategoryGym)
	addTask(t, pane, "Read a book", planner.CategoryStudy)

	view := pane.View()
	for _, want := range []string{"Wednesday", "Jun 3", "Go to gym", "Read a book", "[ ]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "read-only") {
		t.Error("active week view should not show the read-only marker")
	}

	pane.Update(keyRune('H'))
	if view := pane.View(); !strings.Contains(view, "read-only") {
		t.Error("past week view should show the read-only marker")
	}
}

func TestPlannerPane_View_Empty(t *testing.T) {
	pane := newTestPane(t)
	if view := pane.View(); !strings.Contains(view, "No tasks for this day") {
		t.Errorf("empty day view missing placeholder:\n%s", view)
	}
}

func TestNextCategory_Wraps(t *testing.T) {
	cat := planner.CategoryOrder[0]
	for range planner.CategoryOrder {
		cat = nextCategory(cat)
	}
	if cat != planner.CategoryOrder[0] {
		t.Errorf("cycling through all categories should wrap, got %q", cat)
	}
}
