package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"serviceflow/internal/domain"
	"serviceflow/internal/location"
	"serviceflow/internal/wizard"
)

const maxSuggestions = 5

// ControllerFactory starts a wizard session whose successful registration is
// reported to onSubmitted.
type ControllerFactory func(onSubmitted func(domain.Account)) *wizard.Controller

// Options configures a Model.
type Options struct {
	// Context bounds every backend call started from the UI.
	Context      context.Context
	DashboardURL string
}

type (
	submitDoneMsg struct {
		account domain.Account
		err     error
	}
	locateDoneMsg struct{}
	searchDoneMsg struct {
		query   string
		results []domain.GeoLocation
		err     error
	}
)

// Model is the bubbletea model for the wizard.
type Model struct {
	ctrl       *wizard.Controller
	picker     domain.LocationPicker
	registered chan domain.Account
	opts       Options

	inputs      []textinput.Model // indexed like domain.Fields
	focus       int               // index into the current stage's fields
	spinner     spinner.Model
	busy        string
	submitting  bool
	suggestions []domain.GeoLocation

	account *domain.Account
	aborted bool
	width   int
}

// New builds the model and starts a fresh wizard session.
func New(newController ControllerFactory, picker domain.LocationPicker, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	registered := make(chan domain.Account, 1)
	ctrl := newController(func(a domain.Account) { registered <- a })

	inputs := make([]textinput.Model, len(domain.Fields))
	for i, f := range domain.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder(f)
		ti.Width = 48
		if f == domain.FieldPassword || f == domain.FieldConfirmPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		ctrl:       ctrl,
		picker:     picker,
		registered: registered,
		opts:       opts,
		inputs:     inputs,
		spinner:    sp,
	}
	m.focusField(0)
	return m
}

// Account returns the registered account once the wizard finished successfully.
func (m Model) Account() (domain.Account, bool) {
	if m.account == nil {
		return domain.Account{}, false
	}
	return *m.account, true
}

// Aborted reports whether the user left the wizard without registering.
func (m Model) Aborted() bool { return m.aborted }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		if errors.Is(msg.err, wizard.ErrSubmitInFlight) {
			return m, nil
		}
		m.busy = ""
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, wizard.ErrClosed) {
				return m, tea.Quit
			}
			return m, nil
		}
		acc := msg.account
		m.account = &acc
		return m, tea.Quit

	case locateDoneMsg:
		m.busy = ""
		m.syncAddress()
		return m, nil

	case searchDoneMsg:
		m.busy = ""
		if msg.query != strings.TrimSpace(m.value(domain.FieldAddress)) {
			// The address changed while the search ran.
			return m, nil
		}
		switch {
		case msg.err != nil:
			m.ctrl.Advise(location.Advisory(msg.err))
		case len(msg.results) == 0:
			m.ctrl.Advise(location.Advisory(domain.ErrNoResults))
		default:
			if len(msg.results) > maxSuggestions {
				msg.results = msg.results[:maxSuggestions]
			}
			m.suggestions = msg.results
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.ctrl.Close()
		m.aborted = m.account == nil
		return m, tea.Quit
	}
	// Input is frozen while a submission is pending.
	if m.submitting || m.ctrl.Submitting() {
		return m, nil
	}

	stage := m.ctrl.Stage()
	switch msg.String() {
	case "tab", "down":
		m.focusField(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return m, nil
	case "enter":
		return m.advance()
	case "esc":
		if len(m.suggestions) > 0 {
			m.suggestions = nil
			return m, nil
		}
		if m.ctrl.Retreat() {
			m.ctrl.Close()
			m.aborted = true
			return m, tea.Quit
		}
		m.focusField(0)
		return m, nil
	case "ctrl+d":
		m.ctrl.DismissAdvisory()
		return m, nil
	case "ctrl+l":
		if stage != domain.StageLocation || m.busy != "" {
			return m, nil
		}
		m.suggestions = nil
		m.busy = "Finding your location…"
		return m, tea.Batch(m.spinner.Tick, m.locateCmd())
	case "ctrl+f":
		if stage != domain.StageLocation || m.busy != "" {
			return m, nil
		}
		query := strings.TrimSpace(m.value(domain.FieldAddress))
		if query == "" {
			return m, nil
		}
		m.busy = "Searching addresses…"
		return m, tea.Batch(m.spinner.Tick, m.searchCmd(query))
	}

	if n, ok := suggestionIndex(msg); ok && stage == domain.StageLocation && n < len(m.suggestions) {
		m.picker.Accept(m.suggestions[n], m.ctrl)
		m.suggestions = nil
		m.syncAddress()
		return m, nil
	}

	return m.edit(msg)
}

// edit forwards a key to the focused input and pushes the new value to the
// controller.
func (m Model) edit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := m.inputIndex()
	if idx < 0 {
		return m, nil
	}
	before := m.inputs[idx].Value()
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	if after := m.inputs[idx].Value(); after != before {
		if err := m.ctrl.SetField(domain.Fields[idx], after); errors.Is(err, wizard.ErrClosed) {
			return m, tea.Quit
		}
		if domain.Fields[idx] == domain.FieldAddress {
			m.suggestions = nil
		}
	}
	return m, cmd
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.ctrl.Stage() == domain.StageCredentials {
		if err := m.ctrl.Advance(); err != nil {
			return m, nil
		}
		m.busy = "Creating your account…"
		m.submitting = true
		return m, tea.Batch(m.spinner.Tick, m.submitCmd())
	}

	before := m.ctrl.Stage()
	if err := m.ctrl.Advance(); err != nil {
		return m, nil
	}
	if m.ctrl.Stage() != before {
		m.suggestions = nil
		m.focusField(0)
	}
	return m, nil
}

func (m Model) submitCmd() tea.Cmd {
	ctx, ctrl, registered := m.opts.Context, m.ctrl, m.registered
	return func() tea.Msg {
		if err := ctrl.Submit(ctx); err != nil {
			return submitDoneMsg{err: err}
		}
		return submitDoneMsg{account: <-registered}
	}
}

func (m Model) locateCmd() tea.Cmd {
	ctx, ctrl, picker := m.opts.Context, m.ctrl, m.picker
	return func() tea.Msg {
		picker.RequestCurrentPosition(ctx, ctrl)
		return locateDoneMsg{}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	ctx, picker := m.opts.Context, m.picker
	return func() tea.Msg {
		results, err := picker.Search(ctx, query)
		return searchDoneMsg{query: query, results: results, err: err}
	}
}

// syncAddress copies the controller's address into the address input after a
// location was confirmed.
func (m *Model) syncAddress() {
	idx := fieldIndex(domain.FieldAddress)
	addr := m.ctrl.State().Draft.Address
	if m.inputs[idx].Value() != addr {
		m.inputs[idx].SetValue(addr)
		m.inputs[idx].CursorEnd()
	}
}

// focusField focuses the n-th field of the active stage, wrapping around.
func (m *Model) focusField(n int) {
	fields := domain.StageFields(m.ctrl.Stage())
	if len(fields) == 0 {
		return
	}
	n = ((n % len(fields)) + len(fields)) % len(fields)
	m.focus = n
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[fieldIndex(fields[n])].Focus()
}

func (m Model) inputIndex() int {
	fields := domain.StageFields(m.ctrl.Stage())
	if m.focus < 0 || m.focus >= len(fields) {
		return -1
	}
	return fieldIndex(fields[m.focus])
}

func (m Model) value(f domain.Field) string {
	return m.inputs[fieldIndex(f)].Value()
}

func fieldIndex(f domain.Field) int {
	for i, x := range domain.Fields {
		if x == f {
			return i
		}
	}
	return -1
}

func suggestionIndex(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '0'+maxSuggestions {
		return 0, false
	}
	return int(r - '1'), true
}

func placeholder(f domain.Field) string {
	switch f {
	case domain.FieldCompanyName:
		return "Refrigeración del Pacífico"
	case domain.FieldPhoneNumber:
		return "753 532 0101"
	case domain.FieldEmail:
		return "name@company.com"
	case domain.FieldAddress:
		return "Street, number, city"
	case domain.FieldPassword:
		return "at least 8 characters"
	case domain.FieldConfirmPassword:
		return "repeat the password"
	}
	return ""
}
