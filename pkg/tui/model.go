package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/planlog/pkg/goalfile"
	"github.com/stefanpenner/planlog/pkg/store"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

const (
	paneGoals = iota
	panePlans
)

type inputKind int

const (
	inputNone inputKind = iota
	inputGoalTitle
	inputLog
	inputLogDate
)

// Model is the Bubble Tea model for the goal tracker TUI.
type Model struct {
	store        *store.Store
	keys         KeyMap
	width        int
	height       int
	goals        []*store.Goal
	rows         []GoalRow
	cursor       int
	planCursor   int
	focusedPane  int
	detailScroll int

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteTarget      string // goal ID
	deleteTitle       string

	// Single-line input (new goal title, new log entry, its date)
	input      inputKind
	inputGoal  string // goal ID a log entry is added to
	logPlan    string // plan ID the log entry links to, if any
	logContent string
	textInput  textinput.Model

	// Import box
	isImporting bool
	importBox   textarea.Model
	importErr   string

	// Search state
	isSearching bool
	searchQuery string

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model.
func NewModel(s *store.Store) Model {
	ti := textinput.New()
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "[goal]\ntitle = \"...\""
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	return Model{
		store:     s,
		keys:      DefaultKeyMap(),
		textInput: ti,
		importBox: ta,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(detailWidth(msg.Width) - 2)
		m.importBox.SetWidth(max(msg.Width*2/3, 30))
		m.importBox.SetHeight(max(msg.Height/2, 5))
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.input != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	if m.isImporting {
		var cmd tea.Cmd
		m.importBox, cmd = m.importBox.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input != inputNone {
		return m.handleInput(msg)
	}
	if m.isImporting {
		return m.handleImport(msg)
	}

	if m.showHelpModal {
		switch {
		case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Help):
			m.showHelpModal = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			ok, err := m.store.DeleteGoal(m.deleteTarget)
			switch {
			case err != nil:
				m.setStatus("Delete failed: " + err.Error())
			case !ok:
				m.setStatus("Already gone: " + m.deleteTitle)
			default:
				m.setStatus("Deleted: " + m.deleteTitle)
			}
			m.showDeleteConfirm = false
			m.focusedPane = paneGoals
			m.reload()
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true

	case msg.Type == tea.KeyEsc:
		if m.focusedPane == panePlans {
			m.focusedPane = paneGoals
		} else if m.searchQuery != "" {
			m.searchQuery = ""
			m.reload()
		}

	case key.Matches(msg, m.keys.Tab):
		if m.focusedPane == paneGoals && m.selectedGoal() != nil {
			m.focusedPane = panePlans
		} else {
			m.focusedPane = paneGoals
		}

	case key.Matches(msg, m.keys.Enter):
		if m.selectedGoal() != nil {
			m.focusedPane = panePlans
		}

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.PageUp):
		m.detailScroll = max(m.detailScroll-m.pageSize(), 0)

	case key.Matches(msg, m.keys.PageDn):
		m.detailScroll += m.pageSize()

	case key.Matches(msg, m.keys.Space):
		m.togglePlan()

	case key.Matches(msg, m.keys.Add):
		cmd := m.startInput(inputGoalTitle, "New goal title")
		return m, cmd

	case key.Matches(msg, m.keys.AddLog):
		g := m.selectedGoal()
		if g == nil {
			m.setStatus("Select a goal first")
			return m, nil
		}
		m.inputGoal = g.ID
		m.logPlan = ""
		prompt := "Log for " + displayName(g)
		if m.focusedPane == panePlans && m.planCursor < len(g.Plans) {
			p := g.Plans[m.planCursor]
			m.logPlan = p.ID
			prompt += " → " + p.Title
		}
		cmd := m.startInput(inputLog, prompt)
		return m, cmd

	case key.Matches(msg, m.keys.Import):
		m.isImporting = true
		m.importErr = ""
		m.importBox.Reset()
		cmd := m.importBox.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if g := m.selectedGoal(); g != nil {
			m.showDeleteConfirm = true
			m.deleteTarget = g.ID
			m.deleteTitle = displayName(g)
		}

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.focusedPane = paneGoals
	}

	return m, nil
}

func (m *Model) move(delta int) {
	if m.focusedPane == panePlans {
		if g := m.selectedGoal(); g != nil && len(g.Plans) > 0 {
			m.planCursor = max(0, min(m.planCursor+delta, len(g.Plans)-1))
		}
		return
	}
	next := max(0, min(m.cursor+delta, len(m.rows)-1))
	if next != m.cursor {
		m.cursor = next
		m.planCursor = 0
		m.detailScroll = 0
	}
}

func (m *Model) togglePlan() {
	g := m.selectedGoal()
	if g == nil {
		return
	}
	if m.focusedPane != panePlans {
		m.setStatus("Press tab to select a plan")
		return
	}
	if m.planCursor >= len(g.Plans) {
		return
	}
	plan := g.Plans[m.planCursor]

	updated, err := m.store.TogglePlan(g.ID, plan.ID)
	switch {
	case err != nil:
		m.setStatus("Error: " + err.Error())
	case updated == nil:
		m.setStatus("Plan no longer exists")
	default:
		state := "open"
		if p := updated.Plan(plan.ID); p != nil && p.Completed {
			state = "done"
		}
		m.setStatus(plan.Title + " → " + state)
	}
	m.reload()
}

func (m *Model) startInput(kind inputKind, placeholder string) tea.Cmd {
	m.input = kind
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	return m.textInput.Focus()
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		m.textInput.Blur()
		return m, nil

	case tea.KeyEnter:
		text := strings.TrimSpace(m.textInput.Value())
		kind := m.input
		m.input = inputNone
		m.textInput.Blur()
		if text == "" && kind != inputLogDate {
			return m, nil
		}

		switch kind {
		case inputGoalTitle:
			g, err := m.store.CreateGoal(store.NewGoal{Title: text})
			if err != nil {
				m.setStatus("Error: " + err.Error())
				return m, nil
			}
			m.setStatus("Created: " + g.Title)
			m.reload()
			m.selectGoal(g.ID)

		case inputLog:
			m.logContent = text
			cmd := m.startInput(inputLogDate, "Date "+store.DateLayout+" (blank for today)")
			return m, cmd

		case inputLogDate:
			in := store.NewLog{Date: text, Content: m.logContent}
			if m.logPlan != "" {
				in.RelatedPlanIDs = []string{m.logPlan}
			}
			entry, err := m.store.AddLog(m.inputGoal, in)
			switch {
			case errors.Is(err, store.ErrInvalidGoal):
				// Ask again for the date and keep the content.
				m.setStatus("Error: " + err.Error())
				cmd := m.startInput(inputLogDate, "Date "+store.DateLayout+" (blank for today)")
				return m, cmd
			case err != nil:
				m.setStatus("Error: " + err.Error())
			case entry == nil:
				m.setStatus("Goal no longer exists")
			default:
				m.setStatus("Logged " + entry.Date)
			}
			m.reload()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.isImporting = false
		m.importBox.Blur()
		return m, nil

	case "ctrl+s":
		text := m.importBox.Value()
		if strings.TrimSpace(text) == "" {
			m.importErr = "Paste a goal document first"
			return m, nil
		}
		g, err := goalfile.Import(text, goalfile.WithClock(m.store.Now))
		if err != nil {
			m.importErr = err.Error()
			return m, nil
		}
		if err := m.store.AddGoal(g); err != nil {
			m.importErr = err.Error()
			return m, nil
		}
		m.isImporting = false
		m.importBox.Blur()
		m.setStatus("Imported: " + g.Title)
		m.reload()
		m.selectGoal(g.ID)
		return m, nil
	}

	var cmd tea.Cmd
	m.importBox, cmd = m.importBox.Update(msg)
	return m, cmd
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isSearching = false
		m.searchQuery = ""
	case tea.KeyEnter, tea.KeyDown:
		m.isSearching = false
		return m, nil
	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			r := []rune(m.searchQuery)
			m.searchQuery = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.searchQuery += string(msg.Runes)
	default:
		return m, nil
	}
	m.cursor = 0
	m.planCursor = 0
	m.reload()
	return m, nil
}

func (m *Model) reload() {
	goals, err := m.store.Goals()
	if err != nil {
		m.setStatus("Load error: " + err.Error())
		return
	}
	m.goals = goals
	m.rows = BuildRows(goals, m.searchQuery)

	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
	if g := m.selectedGoal(); g != nil {
		m.planCursor = max(0, min(m.planCursor, len(g.Plans)-1))
	} else {
		m.planCursor = 0
		m.focusedPane = paneGoals
	}
}

func (m *Model) selectGoal(id string) {
	for i, r := range m.rows {
		if r.ID == id {
			m.cursor = i
			m.planCursor = 0
			m.detailScroll = 0
			return
		}
	}
}

func (m Model) selectedGoal() *store.Goal {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Goal
}

func (m Model) pageSize() int {
	return max(m.height/2, 1)
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}
