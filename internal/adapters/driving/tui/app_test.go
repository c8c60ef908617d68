package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/enginedesk/internal/core/services"
)

type fixture struct {
	app      *App
	settings *memory.SettingStore
	engines  *memory.EngineStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	settings := memory.NewSettingStore()
	engines := memory.NewEngineStore()
	require.NoError(t, settings.Upsert(ctx, "theme", "dark"))
	require.NoError(t, settings.Upsert(ctx, "board.flip", "false"))
	require.NoError(t, engines.Add(ctx, "sf16", "/opt/engines/sf16"))

	app, err := NewApp(&Ports{
		Settings: services.NewSettingsService(settings),
		Engines:  services.NewEngineService(engines, nil),
	})
	require.NoError(t, err)

	f := &fixture{app: app, settings: settings, engines: engines}
	f.apply(app.load(tabSettings))
	f.apply(app.load(tabEngines))
	return f
}

// apply runs a command synchronously and feeds its message back.
func (f *fixture) apply(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = f.app.Update(msg)
	}
}

func (f *fixture) press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		_, cmd := f.app.Update(k)
		f.apply(cmd)
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewApp_RequiresPorts(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)

	_, err = NewApp(&Ports{Settings: services.NewSettingsService(memory.NewSettingStore())})
	assert.Error(t, err)
}

func TestApp_LoadsBothCollections(t *testing.T) {
	f := newFixture(t)

	view := f.app.View()
	assert.Contains(t, view, "Settings (2)")
	assert.Contains(t, view, "Engines (1)")
	assert.Contains(t, view, "theme")

	k, v, ok := f.app.Selected()
	require.True(t, ok)
	assert.Equal(t, "theme", k)
	assert.Equal(t, "dark", v)
}

func TestApp_Navigation(t *testing.T) {
	f := newFixture(t)

	f.press(runeKey('j'))
	k, _, _ := f.app.Selected()
	assert.Equal(t, "board.flip", k)

	f.press(runeKey('j')) // stays on the last row
	k, _, _ = f.app.Selected()
	assert.Equal(t, "board.flip", k)

	f.press(tea.KeyMsg{Type: tea.KeyUp})
	k, _, _ = f.app.Selected()
	assert.Equal(t, "theme", k)

	f.press(tea.KeyMsg{Type: tea.KeyTab})
	k, v, _ := f.app.Selected()
	assert.Equal(t, "sf16", k)
	assert.Equal(t, "/opt/engines/sf16", v)
}

func TestApp_DeleteSetting(t *testing.T) {
	f := newFixture(t)

	f.press(runeKey('d'))

	_, ok, err := f.settings.Get(context.Background(), "theme")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, f.app.View(), "Deleted theme")
	assert.Contains(t, f.app.View(), "Settings (1)")
}

func TestApp_DeleteEngine(t *testing.T) {
	f := newFixture(t)

	f.press(tea.KeyMsg{Type: tea.KeyTab}, runeKey('d'))

	count, err := f.engines.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, f.app.View(), "No engines.")

	// Nothing left to delete
	f.press(runeKey('d'))
	assert.NoError(t, f.app.Err())
}

func TestApp_StoreErrorIsShown(t *testing.T) {
	f := newFixture(t)
	f.settings.FailWith(errors.New("database is locked"))

	f.press(runeKey('r'))

	require.Error(t, f.app.Err())
	assert.Contains(t, f.app.View(), "database is locked")

	// Recovers on the next reload
	f.settings.FailWith(nil)
	f.press(runeKey('r'))
	assert.NoError(t, f.app.Err())
}

func TestApp_Quit(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.app.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpToggle(t *testing.T) {
	f := newFixture(t)
	before := f.app.View()

	f.press(runeKey('?'))
	assert.NotEqual(t, before, f.app.View())
}
