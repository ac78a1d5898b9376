// Package ui implements the terminal interface: a single day pane over
// the weekly planner, driven by the Bubble Tea update loop.
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
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tickMsg drives the once-per-second clock used for day rollover and
// status expiry.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// confirmDeleteState tracks a pending delete confirmation.
type confirmDeleteState struct {
	active   bool
	taskText string
}

// App is the root Bubble Tea model.
type App struct {
	config *config.Config
	styles *Styles
	store  *storage.Storage
	engine *planner.Engine

	pane *PlannerPane
	help *HelpOverlay

	globalKeys  GlobalKeyMap
	plannerKeys PlannerKeyMap
	inputKeys   InputKeyMap

	width  int
	height int

	ready    bool
	quitting bool
	showHelp bool

	confirmDelete confirmDeleteState

	status       string
	statusIsErr  bool
	statusExpiry time.Time
}

// NewApp wires the application together. The suggest client is only
// created when suggestions are enabled in config.
func NewApp(cfg *config.Config, store *storage.Storage) *App {
	styles := NewStyles(cfg)
	engine := planner.New()

	var client *suggest.Client
	if cfg.Suggest.Enabled {
		client = suggest.New(cfg.Suggest)
	}

	return &App{
		config:      cfg,
		styles:      styles,
		store:       store,
		engine:      engine,
		pane:        NewPlannerPane(store, engine, styles, cfg, client),
		help:        NewHelpOverlay(styles),
		globalKeys:  NewGlobalKeyMap(&cfg.Keys),
		plannerKeys: NewPlannerKeyMap(&cfg.Keys),
		inputKeys:   NewInputKeyMap(&cfg.Keys),
	}
}

// Init loads the persisted snapshot and starts the clock.
func (a *App) Init() tea.Cmd {
	return tea.Batch(loadStateCmd(a.store), tickCmd())
}

// Update routes messages to the pane and handles global concerns.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateLoadedMsg:
		state := a.engine.Initialize(msg.snapshot)
		a.pane.SetState(state)
		a.ready = true
		cmds := []tea.Cmd{saveStateCmd(a.store, state)}
		if msg.err != nil {
			cmds = append(cmds, statusCmd(msg.err.Error(), true))
		}
		return a, tea.Batch(cmds...)

	case stateSavedMsg:
		if msg.err != nil {
			a.setStatus("Save failed: "+msg.err.Error(), true)
		}
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.isErr)
		return a, nil

	case suggestResultMsg:
		return a, a.pane.Update(msg)

	case tickMsg:
		if !a.statusExpiry.IsZero() && time.Now().After(a.statusExpiry) {
			a.status = ""
			a.statusExpiry = time.Time{}
		}
		var cmd tea.Cmd
		if a.ready {
			cmd = a.pane.Tick()
		}
		return a, tea.Batch(cmd, tickCmd())

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.pane.SetSize(msg.Width, msg.Height-4)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.MouseMsg:
		if !a.ready || a.showHelp || a.confirmDelete.active {
			return a, nil
		}
		return a, a.pane.Update(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Pending delete confirmation swallows all keys.
	if a.confirmDelete.active {
		a.confirmDelete = confirmDeleteState{}
		switch msg.String() {
		case "y", "Y", "enter":
			return a, a.pane.DeleteCurrent()
		}
		return a, nil
	}

	if a.showHelp {
		if key.Matches(msg, a.globalKeys.Help) || key.Matches(msg, a.inputKeys.Cancel) || key.Matches(msg, a.globalKeys.Quit) {
			a.showHelp = false
		}
		return a, nil
	}

	// Text input mode gets every key except ctrl+c.
	if a.pane.InputActive() {
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		return a, a.pane.Update(msg)
	}

	switch {
	case key.Matches(msg, a.globalKeys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.globalKeys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.plannerKeys.Delete):
		if !a.config.UX.ConfirmDeletions {
			return a, a.pane.DeleteCurrent()
		}
		task, ok := a.pane.CurrentTask()
		if !ok {
			return a, nil
		}
		a.confirmDelete = confirmDeleteState{active: true, taskText: task.Text}
		return a, nil
	}

	if !a.ready {
		return a, nil
	}
	return a, a.pane.Update(msg)
}

// setStatus shows a transient message. Errors linger a little longer.
func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusIsErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusExpiry = time.Now().Add(ttl)
}

// View renders the whole application.
func (a *App) View() string {
	if a.quitting {
		return a.styles.StatusStyle.Render("See you tomorrow! 👋") + "\n"
	}
	if !a.ready {
		return a.styles.StatLabelStyle.Render("Loading...")
	}
	if a.showHelp {
		return a.help.View()
	}
	if a.confirmDelete.active {
		return a.renderConfirmDelete()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(a.pane.View())
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderTitleBar() string {
	state := a.pane.State()

	title := a.styles.TitleStyle.Render("weekplan")

	weekLabel := string(state.CurrentWeekID)
	if year, week, err := calendar.ParseWeekID(state.CurrentWeekID); err == nil {
		weekLabel = fmt.Sprintf("Week %d · %d", week, year)
	}

	stats := a.styles.StreakStyle.Render(fmt.Sprintf("🔥 %d", state.Streak)) +
		"  " +
		a.styles.ProgressStyle.Render(fmt.Sprintf("✅ %d%%", state.CompletionPercentage(state.CurrentWeekID)))

	bar := title + "  " + a.styles.DateStyle.Render(weekLabel) + "  " + stats
	if a.width > 0 {
		return lipgloss.NewStyle().Width(a.width).Render(bar)
	}
	return bar
}

func (a *App) renderHelpBar() string {
	if a.status != "" {
		style := a.styles.StatusStyle
		if a.statusIsErr {
			style = a.styles.ErrorStyle
		}
		return style.Render(a.status)
	}
	return a.styles.RenderHelp(
		"a", "add",
		"d", "toggle",
		"x", "delete",
		"h/l", "day",
		"H/L", "week",
		"t", "today",
		"?", "help",
		"q", "quit",
	)
}

func (a *App) renderConfirmDelete() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2)

	content := a.styles.ErrorStyle.Render("Delete task?") + "\n\n" +
		a.styles.InputTextStyle.Render(truncateText(a.confirmDelete.taskText, 40)) + "\n\n" +
		a.styles.RenderHelp("y/enter", "delete", "any key", "cancel")

	return RenderCentered(box.Render(content), a.width, a.height)
}

// Run starts the Bubble Tea program.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
