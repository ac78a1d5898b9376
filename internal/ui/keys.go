package ui

import (
	"strings"

	"weekplan/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys converts a comma-separated key spec into a key.Binding.
// Falls back to defaultSpec when the configured spec is empty.
func parseKeys(spec, defaultSpec, help string) key.Binding {
	if strings.TrimSpace(spec) == "" {
		spec = defaultSpec
	}
	parts := strings.Split(spec, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			keys = append(keys, p)
		}
	}
	if len(keys) == 0 {
		keys = strings.Split(defaultSpec, ",")
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], help),
	)
}

// GlobalKeyMap defines application-wide key bindings.
type GlobalKeyMap struct {
	Quit key.Binding
	Help key.Binding
}

// NewGlobalKeyMap creates a GlobalKeyMap from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	return GlobalKeyMap{
		Quit: parseKeys(cfg.Quit, "q,ctrl+c", "quit"),
		Help: parseKeys(cfg.Help, "?", "help"),
	}
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NavigationKeyMap defines day, week, and cursor movement bindings.
type NavigationKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding
}

// NewNavigationKeyMap creates a NavigationKeyMap from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	return NavigationKeyMap{
		Up:       parseKeys(cfg.Up, "k,up", "up"),
		Down:     parseKeys(cfg.Down, "j,down", "down"),
		PrevDay:  parseKeys(cfg.PrevDay, "h,left", "prev day"),
		NextDay:  parseKeys(cfg.NextDay, "l,right", "next day"),
		PrevWeek: parseKeys(cfg.PrevWeek, "H,[", "prev week"),
		NextWeek: parseKeys(cfg.NextWeek, "L,]", "next week"),
		Today:    parseKeys(cfg.Today, "t", "today"),
	}
}

// DefaultNavigationKeyMap returns the default navigation key bindings.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NewNavigationKeyMap(&config.KeysConfig{})
}

// PlannerKeyMap defines task operation bindings for the day pane.
type PlannerKeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Category key.Binding
	Suggest  key.Binding
}

// NewPlannerKeyMap creates a PlannerKeyMap from config.
func NewPlannerKeyMap(cfg *config.KeysConfig) PlannerKeyMap {
	return PlannerKeyMap{
		Add:      parseKeys(cfg.AddTask, "a", "add task"),
		Edit:     parseKeys(cfg.EditTask, "e", "edit task"),
		Toggle:   parseKeys(cfg.ToggleTask, "d,enter,space", "toggle done"),
		Delete:   parseKeys(cfg.DeleteTask, "x", "delete task"),
		MoveUp:   parseKeys(cfg.MoveUp, "K", "move up"),
		MoveDown: parseKeys(cfg.MoveDown, "J", "move down"),
		Category: parseKeys(cfg.Category, "c,tab", "category"),
		Suggest:  parseKeys(cfg.Suggest, "s", "suggest subtasks"),
	}
}

// DefaultPlannerKeyMap returns the default task key bindings.
func DefaultPlannerKeyMap() PlannerKeyMap {
	return NewPlannerKeyMap(&config.KeysConfig{})
}

// ShortHelp returns a compact list of the most useful bindings.
func (k PlannerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete}
}

// FullHelp returns all task bindings grouped for the help view.
func (k PlannerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.MoveUp, k.MoveDown, k.Category, k.Suggest},
	}
}

// InputKeyMap defines bindings for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates an InputKeyMap from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	return InputKeyMap{
		Confirm: parseKeys(cfg.Confirm, "enter", "save"),
		Cancel:  parseKeys(cfg.Cancel, "esc", "cancel"),
	}
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}
