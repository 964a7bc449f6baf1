package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/busy"
	"github.com/lachiem1/meterUp/internal/export"
	"github.com/lachiem1/meterUp/internal/form"
	"github.com/lachiem1/meterUp/internal/lookup"
	"github.com/lachiem1/meterUp/internal/storage"
)

const (
	focusMonth = iota
	focusYear
	focusBiller
	focusButton
	focusCount
)

const maxSuggestionRows = 6

type fetchResultMsg struct {
	req    lookup.Request
	result billing.LookupResult
	handle busy.Handle
}

type busyTickMsg struct {
	handle busy.Handle
}

type clearCommandTextMsg struct {
	id int
}

type exportDoneMsg struct {
	path string
	err  error
}

type loadSettingsMsg struct {
	values map[string]string
	err    error
}

type saveSettingsMsg struct {
	err error
}

// SettingsStore remembers the last submitted form values.
type SettingsStore interface {
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	UpsertMany(ctx context.Context, values map[string]string) error
}

// Options wires the model to its collaborators. Engine is required.
type Options struct {
	Engine    *lookup.Engine
	Settings  SettingsStore
	Logger    *zap.Logger
	ExportDir string
}

type model struct {
	engine    *lookup.Engine
	settings  SettingsStore
	logger    *zap.Logger
	exportDir string

	width  int
	height int

	inputs [3]textinput.Model
	focus  int
	form   form.Form

	suggestions     []string
	suggestionIndex int
	showSuggestions bool

	button    busy.Button
	indicator busy.Indicator
	handle    busy.Handle
	inFlight  bool

	view       lookup.View
	hasView    bool
	viewPeriod billing.Period

	commandText   string
	commandTextID int
	quitting      bool
}

func New(opts Options) tea.Model {
	return newModel(opts)
}

func newModel(opts Options) model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	month := textinput.New()
	month.Prompt = ""
	month.Placeholder = "Select month"
	month.CharLimit = 16
	month.Width = 20
	month.Focus()

	year := textinput.New()
	year.Prompt = ""
	year.Placeholder = "Select year"
	year.CharLimit = 4
	year.Width = 20

	biller := textinput.New()
	biller.Prompt = ""
	biller.Placeholder = "Biller number"
	biller.CharLimit = 24
	biller.Width = 20

	return model{
		engine:    opts.Engine,
		settings:  opts.Settings,
		logger:    logger,
		exportDir: exportDir,
		inputs:    [3]textinput.Model{month, year, biller},
		focus:     focusMonth,
		form:      *form.New(),
		button:    busy.Button{Label: lookup.ResetLabel, Disabled: true},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSettingsCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearCommandTextMsg:
		if msg.id == m.commandTextID {
			m.commandText = ""
		}
		return m, nil

	case loadSettingsMsg:
		if msg.err != nil {
			m.logger.Warn("load form settings failed", zap.Error(msg.err))
			return m, nil
		}
		for i, name := range form.FieldNames {
			value, ok := msg.values[settingKey(name)]
			if !ok || m.inputs[i].Value() != "" {
				continue
			}
			m.inputs[i].SetValue(value)
			_, _ = m.form.Set(name, value)
		}
		m.syncButton()
		return m, nil

	case saveSettingsMsg:
		if msg.err != nil {
			m.logger.Warn("save form settings failed", zap.Error(msg.err))
		}
		return m, nil

	case busyTickMsg:
		if !m.indicator.Tick(msg.handle, &m.button) {
			return m, nil
		}
		return m, busyTickCmd(msg.handle)

	case fetchResultMsg:
		return m.finishFetch(msg)

	case exportDoneMsg:
		if msg.err != nil {
			return m.withCommandFeedback("export failed: " + msg.err.Error())
		}
		return m.withCommandFeedback("exported " + msg.path)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		if m.showSuggestions {
			m.showSuggestions = false
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "tab":
		return m.moveFocus(1), nil
	case "shift+tab":
		return m.moveFocus(-1), nil
	case "pgup":
		return m.navigate(lookup.Previous)
	case "pgdown":
		return m.navigate(lookup.Next)
	case "ctrl+r":
		return m.reset()
	case "ctrl+e":
		return m.exportAs(".xlsx")
	case "ctrl+p":
		return m.exportAs(".pdf")
	case "up", "down":
		if m.showSuggestions && len(m.suggestions) > 0 {
			delta := 1
			if msg.String() == "up" {
				delta = -1
			}
			m.suggestionIndex = (m.suggestionIndex + delta + len(m.suggestions)) % len(m.suggestions)
			return m, nil
		}
		if msg.String() == "up" {
			return m.moveFocus(-1), nil
		}
		return m.moveFocus(1), nil
	case "enter":
		if m.showSuggestions && len(m.suggestions) > 0 {
			return m.pickSuggestion(), nil
		}
		if m.focus == focusButton || m.focus == focusBiller {
			return m.submit()
		}
		return m.moveFocus(1), nil
	}

	if m.focus == focusButton {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	_, _ = m.form.Set(form.FieldNames[m.focus], m.inputs[m.focus].Value())
	m.refreshSuggestions()
	m.syncButton()
	return m, cmd
}

func (m model) moveFocus(delta int) model {
	m.focus = (m.focus + delta + focusCount) % focusCount
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	m.suggestionIndex = 0
	m.refreshSuggestions()
	return m
}

func (m *model) refreshSuggestions() {
	if m.focus == focusButton {
		m.showSuggestions = false
		m.suggestions = nil
		return
	}
	options := form.Options(form.FieldNames[m.focus])
	if options == nil {
		m.showSuggestions = false
		m.suggestions = nil
		return
	}
	m.suggestions = form.Filter(options, m.inputs[m.focus].Value())
	m.showSuggestions = true
	if m.suggestionIndex >= len(m.suggestions) {
		m.suggestionIndex = max(0, len(m.suggestions)-1)
	}
}

func (m model) pickSuggestion() model {
	value := m.suggestions[m.suggestionIndex]
	m.inputs[m.focus].SetValue(value)
	m.inputs[m.focus].CursorEnd()
	_, _ = m.form.Set(form.FieldNames[m.focus], value)
	m.showSuggestions = false
	m.suggestions = nil
	m.suggestionIndex = 0
	m.syncButton()
	return m.moveFocus(1)
}

// syncButton enables the trigger only when every field is valid and no
// fetch is running.
func (m *model) syncButton() {
	if m.inFlight {
		return
	}
	m.button.Disabled = !m.form.Status.AllValid()
}

func (m model) submit() (tea.Model, tea.Cmd) {
	if m.inFlight || m.engine == nil {
		return m, nil
	}
	req, err := m.engine.Submit(lookup.Form{
		Month:    m.form.Fields.Month,
		Year:     m.form.Fields.Year,
		MeterNo:  m.form.Fields.Biller,
		AllValid: m.form.Status.AllValid(),
	})
	if err != nil {
		if errors.Is(err, lookup.ErrFormInvalid) {
			return m, nil
		}
		return m.withCommandFeedback("cannot fetch: " + err.Error())
	}
	m.showSuggestions = false
	return m.startFetch(req)
}

func (m model) navigate(dir lookup.Direction) (tea.Model, tea.Cmd) {
	if m.inFlight || m.engine == nil || !m.view.NavEnabled {
		return m, nil
	}
	req, err := m.engine.Navigate(dir)
	switch {
	case errors.Is(err, lookup.ErrNoSession):
		return m, nil
	case err != nil:
		return m.withCommandFeedback("cannot navigate: " + err.Error())
	}
	return m.startFetch(req)
}

func (m model) startFetch(req lookup.Request) (tea.Model, tea.Cmd) {
	m.inFlight = true
	m.handle = m.indicator.Start(&m.button)
	m.logger.Debug("bill fetch started",
		zap.String("identifier", req.Identifier),
		zap.Bool("navigation", req.Navigation),
	)
	return m, tea.Batch(m.fetchCmd(req, m.handle), busyTickCmd(m.handle))
}

func (m model) finishFetch(msg fetchResultMsg) (tea.Model, tea.Cmd) {
	m.indicator.Stop(msg.handle, &m.button, msg.req.Restore(lookup.ResetLabel))
	if msg.handle == m.handle {
		m.inFlight = false
	}
	m.syncButton()

	view, applied := m.engine.Apply(msg.req, msg.result)
	if !applied {
		return m, nil
	}
	m.view = view
	m.hasView = true
	m.viewPeriod = msg.req.Period

	if view.Outcome == billing.OutcomeFound && !msg.req.Navigation {
		return m, m.saveSettingsCmd()
	}
	return m, nil
}

func (m model) reset() (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.form.Reset()
	m.view = lookup.View{}
	m.hasView = false
	m.showSuggestions = false
	m.suggestions = nil
	if m.engine != nil {
		m.engine.Session().Clear()
	}
	m = m.moveFocus(focusMonth - m.focus)
	m.syncButton()
	return m, nil
}

func (m model) exportAs(ext string) (tea.Model, tea.Cmd) {
	if !m.view.SummaryVisible {
		return m.withCommandFeedback("nothing to export yet")
	}
	name := fmt.Sprintf("bill-%s%s", m.viewPeriod.Key(), ext)
	path := filepath.Join(m.exportDir, name)
	view := m.view
	return m, func() tea.Msg {
		return exportDoneMsg{path: path, err: export.Write(path, view)}
	}
}

func (m model) withCommandFeedback(text string) (tea.Model, tea.Cmd) {
	m.commandText = text
	m.commandTextID++
	id := m.commandTextID
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearCommandTextMsg{id: id}
	})
}

func (m model) fetchCmd(req lookup.Request, handle busy.Handle) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		result := engine.Execute(context.Background(), req)
		return fetchResultMsg{req: req, result: result, handle: handle}
	}
}

func busyTickCmd(handle busy.Handle) tea.Cmd {
	return tea.Tick(busy.Period, func(time.Time) tea.Msg {
		return busyTickMsg{handle: handle}
	})
}

func (m model) loadSettingsCmd() tea.Cmd {
	if m.settings == nil {
		return nil
	}
	settings := m.settings
	return func() tea.Msg {
		values, err := settings.GetMany(
			context.Background(),
			storage.SettingLastMonth,
			storage.SettingLastYear,
			storage.SettingLastBiller,
		)
		return loadSettingsMsg{values: values, err: err}
	}
}

func (m model) saveSettingsCmd() tea.Cmd {
	if m.settings == nil {
		return nil
	}
	settings := m.settings
	values := map[string]string{
		storage.SettingLastMonth:  m.form.Fields.Month,
		storage.SettingLastYear:   m.form.Fields.Year,
		storage.SettingLastBiller: m.form.Fields.Biller,
	}
	return func() tea.Msg {
		return saveSettingsMsg{err: settings.UpsertMany(context.Background(), values)}
	}
}

func settingKey(field string) string {
	switch field {
	case form.FieldMonth:
		return storage.SettingLastMonth
	case form.FieldYear:
		return storage.SettingLastYear
	default:
		return storage.SettingLastBiller
	}
}

func fieldTitle(field string) string {
	return strings.ToUpper(field[:1]) + field[1:]
}
