package ui

import (
	"fmt"
	"strings"
	"time"

	"weekplan/internal/calendar"
	"weekplan/internal/config"
	"weekplan/internal/planner"
	"weekplan/internal/storage"
	"weekplan/internal/suggest"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// paneMode tracks whether the day pane is browsing or capturing text.
type paneMode int

const (
	modeNormal paneMode = iota
	modeAdding
	modeEditing
)

// PlannerPane renders one day of the viewed week and applies every task
// operation through the engine, persisting each resulting snapshot.
type PlannerPane struct {
	engine *planner.Engine
	store  *storage.Storage
	state  planner.State
	styles *Styles

	keys      PlannerKeyMap
	navKeys   NavigationKeyMap
	inputKeys InputKeyMap

	suggestClient  *suggest.Client
	suggestTimeout time.Duration
	suggesting     bool

	cursor int
	width  int
	height int

	mode          paneMode
	input         textinput.Model
	inputCategory planner.Category
	editTaskID    string
}

// NewPlannerPane creates the day pane. The suggest client may be nil
// when suggestions are disabled.
func NewPlannerPane(store *storage.Storage, engine *planner.Engine, styles *Styles, cfg *config.Config, client *suggest.Client) *PlannerPane {
	input := textinput.New()
	input.Placeholder = "Task description..."
	input.CharLimit = 200
	input.Width = 40

	timeout := time.Duration(cfg.Suggest.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &PlannerPane{
		engine:         engine,
		store:          store,
		styles:         styles,
		keys:           NewPlannerKeyMap(&cfg.Keys),
		navKeys:        NewNavigationKeyMap(&cfg.Keys),
		inputKeys:      NewInputKeyMap(&cfg.Keys),
		suggestClient:  client,
		suggestTimeout: timeout,
		input:          input,
		inputCategory:  planner.CategoryOthers,
	}
}

// SetState replaces the pane's snapshot and clamps the cursor.
func (p *PlannerPane) SetState(state planner.State) {
	p.state = state
	p.clampCursor()
}

// State returns the pane's current snapshot.
func (p *PlannerPane) State() planner.State {
	return p.state
}

// SetSize updates the pane dimensions.
func (p *PlannerPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(20, width-10)
}

// InputActive reports whether the pane is capturing text.
func (p *PlannerPane) InputActive() bool {
	return p.mode != modeNormal
}

// CurrentTask returns the task under the cursor, if any.
func (p *PlannerPane) CurrentTask() (planner.Task, bool) {
	tasks := p.state.TasksFor(p.state.CurrentDayName)
	if p.cursor < 0 || p.cursor >= len(tasks) {
		return planner.Task{}, false
	}
	return tasks[p.cursor], true
}

// Tick advances the engine clock. Day and week rollovers (and streak
// decay) land here; the snapshot is persisted only when it changed.
func (p *PlannerPane) Tick() tea.Cmd {
	next := p.engine.Tick(p.state)
	if next.ActiveWeekID == p.state.ActiveWeekID &&
		next.CurrentDayName == p.state.CurrentDayName &&
		next.Streak == p.state.Streak {
		return nil
	}
	p.SetState(next)
	return saveStateCmd(p.store, next)
}

// Update handles messages for the day pane.
func (p *PlannerPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case suggestResultMsg:
		return p.applySuggestions(msg)
	case tea.KeyMsg:
		if p.mode != modeNormal {
			return p.updateInput(msg)
		}
		return p.updateNormal(msg)
	case tea.MouseMsg:
		return p.handleMouse(msg)
	}
	return nil
}

func (p *PlannerPane) updateNormal(msg tea.KeyMsg) tea.Cmd {
	day := p.state.CurrentDayName

	switch {
	case key.Matches(msg, p.navKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, p.navKeys.Down):
		if p.cursor < len(p.state.TasksFor(day))-1 {
			p.cursor++
		}
	case key.Matches(msg, p.navKeys.PrevDay):
		p.SetState(p.engine.NavigateDay(p.state, -1))
		return saveStateCmd(p.store, p.state)
	case key.Matches(msg, p.navKeys.NextDay):
		p.SetState(p.engine.NavigateDay(p.state, 1))
		return saveStateCmd(p.store, p.state)
	case key.Matches(msg, p.navKeys.PrevWeek):
		p.SetState(p.engine.NavigateWeek(p.state, -1))
		return saveStateCmd(p.store, p.state)
	case key.Matches(msg, p.navKeys.NextWeek):
		p.SetState(p.engine.NavigateWeek(p.state, 1))
		return saveStateCmd(p.store, p.state)
	case key.Matches(msg, p.navKeys.Today):
		p.SetState(p.engine.JumpToToday(p.state))
		return saveStateCmd(p.store, p.state)

	case key.Matches(msg, p.keys.Add):
		if p.state.IsHistorical() {
			return statusCmd("Other weeks are read-only; press t to return to this week", true)
		}
		p.mode = modeAdding
		p.inputCategory = planner.CategoryOthers
		p.input.SetValue("")
		p.input.Placeholder = "Task description..."
		p.input.Focus()

	case key.Matches(msg, p.keys.Edit):
		if p.state.IsHistorical() {
			return statusCmd("Other weeks are read-only; press t to return to this week", true)
		}
		task, ok := p.CurrentTask()
		if !ok {
			return nil
		}
		p.mode = modeEditing
		p.editTaskID = task.ID
		p.inputCategory = task.Category.Normalize()
		p.input.SetValue(task.Text)
		p.input.CursorEnd()
		p.input.Focus()

	case key.Matches(msg, p.keys.Toggle):
		task, ok := p.CurrentTask()
		if !ok {
			return nil
		}
		next, err := p.engine.ToggleCompletion(p.state, day, task.ID)
		if err != nil {
			return statusCmd(err.Error(), true)
		}
		p.SetState(next)
		return saveStateCmd(p.store, next)

	case key.Matches(msg, p.keys.MoveUp):
		return p.moveTask(-1)
	case key.Matches(msg, p.keys.MoveDown):
		return p.moveTask(1)

	case key.Matches(msg, p.keys.Suggest):
		return p.requestSuggestions()
	}

	return nil
}

func (p *PlannerPane) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.inputKeys.Confirm):
		text := strings.TrimSpace(p.input.Value())
		mode := p.mode
		p.exitInput()
		if text == "" {
			return nil
		}
		return p.commitInput(mode, text)

	case key.Matches(msg, p.inputKeys.Cancel):
		p.exitInput()
		return nil

	// Only the bare tab cycles the category here; printable keys must
	// reach the text input.
	case msg.Type == tea.KeyTab:
		p.inputCategory = nextCategory(p.inputCategory)
		return nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *PlannerPane) commitInput(mode paneMode, text string) tea.Cmd {
	day := p.state.CurrentDayName
	switch mode {
	case modeAdding:
		next, err := p.engine.AddTask(p.state, day, text, p.inputCategory)
		if err != nil {
			return statusCmd(err.Error(), true)
		}
		p.SetState(next)
		p.cursor = len(next.TasksFor(day)) - 1
		return saveStateCmd(p.store, next)

	case modeEditing:
		next, err := p.engine.EditTaskText(p.state, day, p.editTaskID, text)
		if err != nil {
			return statusCmd(err.Error(), true)
		}
		p.SetState(next)
		return saveStateCmd(p.store, next)
	}
	return nil
}

func (p *PlannerPane) exitInput() {
	p.mode = modeNormal
	p.editTaskID = ""
	p.input.Blur()
	p.input.SetValue("")
}

// DeleteCurrent removes the task under the cursor. The app calls this
// after its confirmation flow, so no prompt happens here.
func (p *PlannerPane) DeleteCurrent() tea.Cmd {
	if p.state.IsHistorical() {
		return statusCmd("Other weeks are read-only; press t to return to this week", true)
	}
	day := p.state.CurrentDayName
	task, ok := p.CurrentTask()
	if !ok {
		return nil
	}
	next, err := p.engine.DeleteTask(p.state, day, task.ID)
	if err != nil {
		return statusCmd(err.Error(), true)
	}
	p.SetState(next)
	return saveStateCmd(p.store, next)
}

// moveTask swaps the cursor task with its neighbor via a reorder.
func (p *PlannerPane) moveTask(offset int) tea.Cmd {
	if p.state.IsHistorical() {
		return statusCmd("Other weeks are read-only; press t to return to this week", true)
	}
	day := p.state.CurrentDayName
	tasks := p.state.TasksFor(day)
	target := p.cursor + offset
	if p.cursor < 0 || p.cursor >= len(tasks) || target < 0 || target >= len(tasks) {
		return nil
	}

	order := append([]planner.Task{}, tasks...)
	order[p.cursor], order[target] = order[target], order[p.cursor]

	next, err := p.engine.ReorderTasks(p.state, day, order)
	if err != nil {
		return statusCmd(err.Error(), true)
	}
	p.SetState(next)
	p.cursor = target
	return saveStateCmd(p.store, next)
}

func (p *PlannerPane) requestSuggestions() tea.Cmd {
	if p.suggestClient == nil {
		return statusCmd("Suggestions are disabled", true)
	}
	if p.state.IsHistorical() {
		return statusCmd("Other weeks are read-only; press t to return to this week", true)
	}
	if p.suggesting {
		return nil
	}
	task, ok := p.CurrentTask()
	if !ok {
		return nil
	}
	p.suggesting = true
	return tea.Batch(
		statusCmd("Breaking down \""+truncateText(task.Text, 24)+"\"...", false),
		suggestCmd(p.suggestClient, p.suggestTimeout, p.state.CurrentDayName, task.Category, task.Text),
	)
}

// applySuggestions appends each returned subtask under the source
// task's day and category.
func (p *PlannerPane) applySuggestions(msg suggestResultMsg) tea.Cmd {
	p.suggesting = false
	if msg.err != nil {
		return statusCmd("Suggest failed: "+msg.err.Error(), true)
	}

	next := p.state
	added := 0
	for _, text := range msg.subtasks {
		var err error
		next, err = p.engine.AddTask(next, msg.day, text, msg.category)
		if err != nil {
			continue
		}
		added++
	}
	if added == 0 {
		return statusCmd("No subtasks returned", true)
	}
	p.SetState(next)
	return tea.Batch(
		statusCmd(fmt.Sprintf("Added %d subtasks", added), false),
		saveStateCmd(p.store, next),
	)
}

// handleMouse supports wheel scrolling and click-to-select.
func (p *PlannerPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if p.cursor > 0 {
			p.cursor--
		}
	case tea.MouseButtonWheelDown:
		if p.cursor < len(p.state.TasksFor(p.state.CurrentDayName))-1 {
			p.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		// Task rows start after the pane border, title and margin.
		row := msg.Y - 3
		tasks := p.state.TasksFor(p.state.CurrentDayName)
		if row >= 0 && row < len(tasks) {
			if p.cursor == row {
				// Second click on the selected row toggles it.
				next, err := p.engine.ToggleCompletion(p.state, p.state.CurrentDayName, tasks[row].ID)
				if err != nil {
					return statusCmd(err.Error(), true)
				}
				p.SetState(next)
				return saveStateCmd(p.store, next)
			}
			p.cursor = row
		}
	}
	return nil
}

func (p *PlannerPane) clampCursor() {
	n := len(p.state.TasksFor(p.state.CurrentDayName))
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// View renders the day pane.
func (p *PlannerPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render(p.dayTitle()))
	b.WriteString("\n")

	day := p.state.CurrentDayName
	tasks := p.state.TasksFor(day)

	if len(tasks) == 0 {
		b.WriteString(p.styles.StatLabelStyle.Render("No tasks for this day."))
		b.WriteString("\n")
	} else {
		maxTasks := max(1, p.height-6)
		start := 0
		if p.cursor >= maxTasks {
			start = p.cursor - maxTasks + 1
		}
		end := min(len(tasks), start+maxTasks)

		for i := start; i < end; i++ {
			b.WriteString(p.renderTask(tasks[i], day, i == p.cursor))
			b.WriteString("\n")
		}
		if end < len(tasks) {
			b.WriteString(p.styles.StatLabelStyle.Render(fmt.Sprintf("  ... %d more", len(tasks)-end)))
			b.WriteString("\n")
		}
	}

	if p.mode != modeNormal {
		b.WriteString("\n")
		b.WriteString(p.renderInput())
	}

	content := b.String()
	if p.width > 0 {
		return p.styles.PaneStyle.Width(p.width - 2).Render(content)
	}
	return p.styles.PaneStyle.Render(content)
}

func (p *PlannerPane) dayTitle() string {
	title := string(p.state.CurrentDayName)
	if date, err := calendar.DateOfDay(p.state.CurrentWeekID, p.state.CurrentDayName); err == nil {
		title += date.Format(" · Jan 2")
	}
	if p.state.IsHistorical() {
		title += "  " + p.styles.ReadOnlyStyle.Render("(read-only)")
	}
	return title
}

func (p *PlannerPane) renderTask(task planner.Task, day calendar.DayName, selected bool) string {
	checkbox := p.styles.TaskCheckboxPending
	textStyle := p.styles.TaskPendingStyle
	if p.state.IsCompleted(day, task.ID) {
		checkbox = p.styles.TaskCheckboxDone
		textStyle = p.styles.TaskDoneStyle
	}

	info := task.Category.Info()
	badge := p.styles.CategoryStyle(task.Category).Render(info.Emoji)

	text := task.Text
	if p.width > 12 {
		text = runewidth.Truncate(text, p.width-12, "…")
	}

	line := checkbox + " " + badge + " " + textStyle.Render(text)
	if selected {
		return p.styles.TaskSelectedStyle.Render("> ") + line
	}
	return "  " + line
}

func (p *PlannerPane) renderInput() string {
	prompt := "Add task"
	if p.mode == modeEditing {
		prompt = "Edit task"
	}
	info := p.inputCategory.Info()
	badge := p.styles.CategoryStyle(p.inputCategory).Render(info.Emoji + " " + info.Name)

	return p.styles.InputPromptStyle.Render(prompt) +
		" " + badge + "\n" +
		p.input.View() + "\n" +
		p.styles.RenderHelp("enter", "save", "esc", "cancel", "tab", "category")
}

// nextCategory cycles through the canonical category order.
func nextCategory(cat planner.Category) planner.Category {
	for i, c := range planner.CategoryOrder {
		if c == cat {
			return planner.CategoryOrder[(i+1)%len(planner.CategoryOrder)]
		}
	}
	return planner.CategoryOrder[0]
}

// truncateText shortens text to maxLen with ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
