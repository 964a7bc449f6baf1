package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/busy"
	"github.com/lachiem1/meterUp/internal/lookup"
	"github.com/lachiem1/meterUp/internal/session"
	"github.com/lachiem1/meterUp/internal/storage"
)

type fakeFetcher struct {
	mu      sync.Mutex
	sent    []string
	respond func(identifier string) billing.LookupResult
}

func (f *fakeFetcher) FetchBill(_ context.Context, env billing.Envelope) billing.LookupResult {
	f.mu.Lock()
	f.sent = append(f.sent, env.BillInfo.BillNumber)
	f.mu.Unlock()
	return f.respond(env.BillInfo.BillNumber)
}

type memorySettings struct {
	values map[string]string
}

func (s *memorySettings) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *memorySettings) UpsertMany(_ context.Context, values map[string]string) error {
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func billFor(identifier string) billing.LookupResult {
	periods := map[string]string{
		"0323987654": "2023-03-01",
		"0423987654": "2023-04-01",
	}
	start, ok := periods[identifier]
	if !ok {
		return billing.NotFound()
	}
	return billing.Found(billing.Record{
		CustomerName:  "A. Rahman",
		AccountNumber: "987654",
		PeriodStart:   billing.Text(start),
		TotalAmount:   "945.00",
	})
}

func newTestModel(t *testing.T, settings SettingsStore) (model, *fakeFetcher) {
	t.Helper()
	fetcher := &fakeFetcher{respond: billFor}
	engine := lookup.New(fetcher, session.New(), lookup.Options{})
	return newModel(Options{Engine: engine, Settings: settings, ExportDir: t.TempDir()}), fetcher
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok, "Update() returned %T, want model", next)
	return nm, cmd
}

func typeText(t *testing.T, m model, text string) model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(t *testing.T, m model, key tea.KeyType) (model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: key})
}

// fetchResult runs cmd and returns the fetch result it produces, skipping
// animation ticks.
func fetchResult(t *testing.T, cmd tea.Cmd) fetchResultMsg {
	t.Helper()
	require.NotNil(t, cmd)
	var found *fetchResultMsg
	var walk func(tea.Cmd)
	walk = func(c tea.Cmd) {
		if c == nil || found != nil {
			return
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			for _, inner := range msg {
				walk(inner)
			}
		case fetchResultMsg:
			found = &msg
		}
	}
	walk(cmd)
	require.NotNil(t, found, "command produced no fetch result")
	return *found
}

func fillForm(t *testing.T, m model) model {
	t.Helper()
	m = typeText(t, m, "Mar")
	require.Equal(t, []string{"March"}, m.suggestions)
	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, focusYear, m.focus)

	m = typeText(t, m, "2023")
	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, focusBiller, m.focus)

	return typeText(t, m, "987654")
}

func TestButtonEnabledOnlyWhenFormValid(t *testing.T) {
	m, _ := newTestModel(t, nil)
	assert.True(t, m.button.Disabled)

	m = fillForm(t, m)
	assert.False(t, m.button.Disabled)

	m = typeText(t, m, "x")
	assert.True(t, m.button.Disabled)
	assert.Contains(t, m.View(), "digits only")
}

func TestSubmitNavigateScenario(t *testing.T) {
	m, fetcher := newTestModel(t, nil)
	m = fillForm(t, m)

	m, cmd := press(t, m, tea.KeyEnter)
	assert.True(t, m.button.Disabled)
	assert.Equal(t, busy.BaseLabel, m.button.Label)

	m, _ = update(t, m, fetchResult(t, cmd))
	assert.Equal(t, []string{"0323987654"}, fetcher.sent)
	assert.False(t, m.button.Disabled)
	assert.Equal(t, lookup.ResetLabel, m.button.Label)
	assert.True(t, m.view.SummaryVisible)
	assert.Len(t, m.view.Rows, 11)
	assert.Equal(t, "March, 2023", m.view.PeriodLabel)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	require.NotNil(t, cmd)
	m, _ = update(t, m, fetchResult(t, cmd))
	assert.Equal(t, []string{"0323987654", "0423987654"}, fetcher.sent)
	assert.Equal(t, "April, 2023", m.view.PeriodLabel)
	assert.Contains(t, m.View(), "April, 2023")
}

func TestFailedNavigationKeepsPreviousBillNavigable(t *testing.T) {
	m, fetcher := newTestModel(t, nil)
	m = fillForm(t, m)
	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = update(t, m, fetchResult(t, cmd))

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	m, _ = update(t, m, fetchResult(t, cmd))
	assert.Equal(t, "0223987654", fetcher.sent[1])
	assert.True(t, m.view.DataError)
	assert.False(t, m.view.SummaryVisible)
	assert.True(t, m.view.NavEnabled)
	assert.Contains(t, m.View(), "No bill data found")
}

func TestNavigationIgnoredWithoutBill(t *testing.T) {
	m, fetcher := newTestModel(t, nil)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Nil(t, cmd)
	assert.Empty(t, fetcher.sent)
}

func TestResetClearsFormAndSummary(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = fillForm(t, m)
	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = update(t, m, fetchResult(t, cmd))
	require.True(t, m.view.SummaryVisible)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.False(t, m.hasView)
	assert.Equal(t, focusMonth, m.focus)
	assert.True(t, m.button.Disabled)
	for i := range m.inputs {
		assert.Empty(t, m.inputs[i].Value())
	}
	_, ok := m.engine.Session().Get()
	assert.False(t, ok)
}

func TestResetDuringFetchDropsResponse(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = fillForm(t, m)
	m, cmd := press(t, m, tea.KeyEnter)
	result := fetchResult(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = update(t, m, result)
	assert.False(t, m.hasView)
	assert.Equal(t, lookup.ResetLabel, m.button.Label)
	assert.False(t, m.inFlight)
}

func TestDropdownShowsNoResults(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = typeText(t, m, "zzz")
	assert.Empty(t, m.suggestions)
	assert.True(t, m.showSuggestions)
	assert.Contains(t, m.View(), "No result found.")
}

func TestBusyTickStopsAfterFetch(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = fillForm(t, m)
	m, cmd := press(t, m, tea.KeyEnter)
	handle := m.handle

	m, next := update(t, m, busyTickMsg{handle: handle})
	assert.NotNil(t, next)
	assert.Equal(t, busy.BaseLabel+".", m.button.Label)

	m, _ = update(t, m, fetchResult(t, cmd))
	_, next = update(t, m, busyTickMsg{handle: handle})
	assert.Nil(t, next)
}

func TestSettingsPrefillAndSave(t *testing.T) {
	settings := &memorySettings{values: map[string]string{
		storage.SettingLastMonth:  "March",
		storage.SettingLastYear:   "2023",
		storage.SettingLastBiller: "987654",
	}}
	m, _ := newTestModel(t, settings)

	msg := m.loadSettingsCmd()()
	m, _ = update(t, m, msg)
	assert.Equal(t, "March", m.inputs[focusMonth].Value())
	assert.False(t, m.button.Disabled)

	m.focus = focusButton
	m, cmd := press(t, m, tea.KeyEnter)
	m, save := update(t, m, fetchResult(t, cmd))
	require.NotNil(t, save)

	settings.values = map[string]string{}
	_, _ = update(t, m, save())
	assert.Equal(t, "987654", settings.values[storage.SettingLastBiller])
}

func TestExportWithoutSummary(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.True(t, strings.Contains(m.commandText, "nothing to export"))
}

func TestExportWritesFile(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = fillForm(t, m)
	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = update(t, m, fetchResult(t, cmd))

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	done, ok := cmd().(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.True(t, strings.HasSuffix(done.path, "bill-2023-03.xlsx"))
}
