package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// App is the TUI model following the Elm architecture.
// Every load and delete runs as a tea.Cmd through the driving ports, so the
// store sees one short call per action.
type App struct {
	ports  *Ports
	ctx    context.Context
	keys   KeyMap
	help   help.Model
	styles Styles

	active tab
	rows   map[tab][]row
	cursor map[tab]int

	status string
	err    error

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: NewStyles(DefaultTheme()),
		active: tabSettings,
		rows:   make(map[tab][]row),
		cursor: make(map[tab]int),
	}, nil
}

// WithContext sets the context passed to the services.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("enginedesk"),
		a.load(tabSettings),
		a.load(tabEngines),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case rowsLoaded:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.rows[msg.tab] = msg.rows
		a.clampCursor(msg.tab)
		return a, nil

	case rowDeleted:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.status = fmt.Sprintf("Deleted %s", msg.key)
		return a, a.load(msg.tab)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll

	case key.Matches(msg, a.keys.Switch):
		if a.active == tabSettings {
			a.active = tabEngines
		} else {
			a.active = tabSettings
		}
		a.status = ""

	case key.Matches(msg, a.keys.Up):
		if a.cursor[a.active] > 0 {
			a.cursor[a.active]--
		}

	case key.Matches(msg, a.keys.Down):
		if a.cursor[a.active] < len(a.rows[a.active])-1 {
			a.cursor[a.active]++
		}

	case key.Matches(msg, a.keys.Refresh):
		a.err = nil
		a.status = ""
		return a, a.load(a.active)

	case key.Matches(msg, a.keys.Delete):
		k, _, ok := a.Selected()
		if !ok {
			return a, nil
		}
		return a, a.remove(a.active, k)
	}

	return a, nil
}

// load reads one collection through its service.
func (a *App) load(t tab) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		var rows []row
		switch t {
		case tabEngines:
			engines, err := a.ports.Engines.List(ctx)
			if err != nil {
				return rowsLoaded{tab: t, err: err}
			}
			for _, e := range engines {
				rows = append(rows, row{key: e.ID, value: e.BinaryLocation})
			}
		default:
			settings, err := a.ports.Settings.List(ctx)
			if err != nil {
				return rowsLoaded{tab: t, err: err}
			}
			for _, s := range settings {
				rows = append(rows, row{key: s.Key, value: s.Value})
			}
		}
		return rowsLoaded{tab: t, rows: rows}
	}
}

// remove deletes one record through its service.
func (a *App) remove(t tab, k string) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		var err error
		if t == tabEngines {
			err = a.ports.Engines.Remove(ctx, k)
		} else {
			err = a.ports.Settings.Delete(ctx, k)
		}
		return rowDeleted{tab: t, key: k, err: err}
	}
}

func (a *App) clampCursor(t tab) {
	n := len(a.rows[t])
	switch {
	case n == 0:
		a.cursor[t] = 0
	case a.cursor[t] >= n:
		a.cursor[t] = n - 1
	}
}

// Selected returns the highlighted record of the active tab.
func (a *App) Selected() (k, v string, ok bool) {
	rows := a.rows[a.active]
	if len(rows) == 0 {
		return "", "", false
	}
	r := rows[a.cursor[a.active]]
	return r.key, r.value, true
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	tabs := make([]string, 0, 2)
	for _, t := range []tab{tabSettings, tabEngines} {
		title := fmt.Sprintf("%s (%d)", t, len(a.rows[t]))
		if t == a.active {
			tabs = append(tabs, a.styles.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, a.styles.InactiveTab.Render(title))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Frame.Render(a.renderRows()))
	b.WriteString("\n")

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	case a.status != "":
		b.WriteString(a.styles.Success.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) renderRows() string {
	rows := a.rows[a.active]
	if len(rows) == 0 {
		return a.styles.Muted.Render(fmt.Sprintf("No %s.", strings.ToLower(a.active.String())))
	}

	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.key))
	}

	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		line := a.styles.Key.Width(width+2).Render(r.key) + a.styles.Value.Render(r.value)
		if i == a.cursor[a.active] {
			line = a.styles.Selected.Render("> " + r.key + strings.Repeat(" ", width+2-lipgloss.Width(r.key)) + r.value)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
