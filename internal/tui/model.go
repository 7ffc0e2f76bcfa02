package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/hylla/syssla/internal/app"
	"github.com/hylla/syssla/internal/domain"
)

// Session is the application state container driven by this model.
type Session interface {
	Refresh(context.Context)
	Add(context.Context)
	Toggle(context.Context, domain.Todo)
	ApplyFilters(context.Context, domain.FilterCriteria)
	SetNewTitle(string)
	SetNewDescription(string)
	Snapshot() app.Snapshot
}

// inputMode represents a selectable mode.
type inputMode int

// modeNormal and related constants define package defaults.
const (
	modeNormal inputMode = iota
	modeAddTodo
	modeFilter
	modeTodoInfo
)

// add-form field indexes used by keyboard handling.
const (
	addFieldTitle = iota
	addFieldDescription
)

// doneFilterCycle orders the filter selector states.
var doneFilterCycle = []domain.DoneFilter{
	domain.DoneFilterAll,
	domain.DoneFilterDone,
	domain.DoneFilterPending,
}

// sessionMsg carries the settled session snapshot after one operation.
type sessionMsg struct {
	snapshot app.Snapshot
}

// Model renders the todo list, the derived stats, and the input modes.
type Model struct {
	session Session

	snapshot app.Snapshot
	ready    bool
	status   string

	mode     inputMode
	selected int

	titleInput  textinput.Model
	descInput   textinput.Model
	filterInput textinput.Model
	addField    int
	doneFilter  domain.DoneFilter

	markdown markdownRenderer

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// Option configures the model.
type Option func(*Model)

// WithStatusText overrides the initial status line.
func WithStatusText(status string) Option {
	return func(m *Model) {
		if strings.TrimSpace(status) != "" {
			m.status = status
		}
	}
}

// NewModel constructs a new value for this package.
func NewModel(session Session, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false

	titleInput := textinput.New()
	titleInput.Prompt = "title: "
	titleInput.Placeholder = "what needs doing"
	titleInput.CharLimit = 120
	descInput := textinput.New()
	descInput.Prompt = "description: "
	descInput.Placeholder = "optional, markdown ok"
	descInput.CharLimit = 500
	filterInput := textinput.New()
	filterInput.Prompt = "text: "
	filterInput.Placeholder = "title or description"
	filterInput.CharLimit = 120

	m := Model{
		session:     session,
		status:      "loading...",
		keys:        newKeyMap(),
		help:        h,
		titleInput:  titleInput,
		descInput:   descInput,
		filterInput: filterInput,
		doneFilter:  domain.DoneFilterAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(max(0, m.width-2))
		return m, nil
	case sessionMsg:
		m.snapshot = msg.snapshot
		m.ready = true
		m.selected = clamp(m.selected, 0, max(0, len(m.snapshot.Todos)-1))
		if m.snapshot.Err != "" {
			m.status = m.snapshot.Err
		} else {
			m.status = "ready"
		}
		// The session clears the pending inputs after a successful add.
		if m.mode == modeAddTodo && m.snapshot.Err == "" &&
			m.snapshot.NewTitle == "" && m.snapshot.NewDescription == "" {
			m.titleInput.SetValue("")
			m.descInput.SetValue("")
			m.titleInput.Blur()
			m.descInput.Blur()
			m.mode = modeNormal
		}
		return m, nil
	case tea.KeyPressMsg:
		if m.mode == modeNormal {
			return m.handleNormalModeKey(msg)
		}
		return m.handleInputModeKey(msg)
	}
	return m, nil
}

// handleNormalModeKey handles one key press in list mode.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.status = "refreshing..."
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.moveUp):
		m.selected = clamp(m.selected-1, 0, max(0, len(m.snapshot.Todos)-1))
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.selected = clamp(m.selected+1, 0, max(0, len(m.snapshot.Todos)-1))
		return m, nil
	case key.Matches(msg, m.keys.addTodo):
		m.mode = modeAddTodo
		m.addField = addFieldTitle
		m.descInput.Blur()
		return m, m.titleInput.Focus()
	case key.Matches(msg, m.keys.filter):
		m.mode = modeFilter
		return m, m.filterInput.Focus()
	case key.Matches(msg, m.keys.toggleTodo):
		todo, ok := m.selectedTodo()
		if !ok {
			return m, nil
		}
		m.status = "toggling..."
		return m, m.toggleCmd(todo)
	case key.Matches(msg, m.keys.todoInfo):
		if _, ok := m.selectedTodo(); ok {
			m.mode = modeTodoInfo
		}
		return m, nil
	}
	return m, nil
}

// handleInputModeKey handles one key press in add/filter/info mode.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.clearView) {
		m.titleInput.Blur()
		m.descInput.Blur()
		m.filterInput.Blur()
		m.mode = modeNormal
		return m, nil
	}

	switch m.mode {
	case modeAddTodo:
		switch msg.String() {
		case "tab", "shift+tab":
			if m.addField == addFieldTitle {
				m.addField = addFieldDescription
				m.titleInput.Blur()
				return m, m.descInput.Focus()
			}
			m.addField = addFieldTitle
			m.descInput.Blur()
			return m, m.titleInput.Focus()
		case "enter":
			m.session.SetNewTitle(m.titleInput.Value())
			m.session.SetNewDescription(m.descInput.Value())
			m.status = "creating..."
			return m, m.addCmd()
		}
		var cmd tea.Cmd
		if m.addField == addFieldTitle {
			m.titleInput, cmd = m.titleInput.Update(msg)
		} else {
			m.descInput, cmd = m.descInput.Update(msg)
		}
		return m, cmd
	case modeFilter:
		switch {
		case key.Matches(msg, m.keys.cycleDone):
			m.doneFilter = nextDoneFilter(m.doneFilter)
			return m, nil
		case msg.String() == "enter":
			criteria := domain.FilterCriteria{
				Q:    m.filterInput.Value(),
				Done: m.doneFilter,
			}
			m.filterInput.Blur()
			m.mode = modeNormal
			m.status = "filtering..."
			return m, m.applyFiltersCmd(criteria)
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	case modeTodoInfo:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// refreshCmd runs the fan-out refresh and reports the settled snapshot.
func (m Model) refreshCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.Refresh(context.Background())
		return sessionMsg{snapshot: session.Snapshot()}
	}
}

// addCmd creates a todo from the pending inputs.
func (m Model) addCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.Add(context.Background())
		return sessionMsg{snapshot: session.Snapshot()}
	}
}

// toggleCmd flips one todo through the session.
func (m Model) toggleCmd(todo domain.Todo) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.Toggle(context.Background(), todo)
		return sessionMsg{snapshot: session.Snapshot()}
	}
}

// applyFiltersCmd runs a normalized search through the session.
func (m Model) applyFiltersCmd(criteria domain.FilterCriteria) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.ApplyFilters(context.Background(), criteria)
		return sessionMsg{snapshot: session.Snapshot()}
	}
}

// selectedTodo returns the highlighted todo, if any.
func (m Model) selectedTodo() (domain.Todo, bool) {
	if m.selected < 0 || m.selected >= len(m.snapshot.Todos) {
		return domain.Todo{}, false
	}
	return m.snapshot.Todos[m.selected], true
}

// View renders the list, stats, and active input mode.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	v := tea.NewView(m.contentView())
	v.AltScreen = true
	return v
}

// contentView builds the full frame below the terminal chrome.
func (m Model) contentView() string {
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	errorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	subStyle := lipgloss.NewStyle().Foreground(muted)

	header := titleStyle.Render("syssla")
	if m.snapshot.Health != nil {
		header += statusStyle.Render("  api: " + m.snapshot.Health.Status + " (" + m.snapshot.Health.Env + ")")
	}
	if m.snapshot.Loading {
		header += statusStyle.Render("  working...")
	}

	sections := []string{header, ""}

	if m.snapshot.Err != "" {
		sections = append(sections, errorStyle.Render("error: "+m.snapshot.Err), "")
	}

	if len(m.snapshot.Todos) == 0 {
		sections = append(sections, subStyle.Render("No todos. Press n to add the first one."))
	} else {
		for i, todo := range m.snapshot.Todos {
			line := renderTodoLine(todo)
			switch {
			case i == m.selected && m.mode == modeNormal:
				line = selectedStyle.Render("> " + line)
			case todo.Done:
				line = "  " + doneStyle.Render(line)
			default:
				line = "  " + line
			}
			sections = append(sections, line)
		}
	}

	sections = append(sections, "", m.renderStats(headingStyle, subStyle))

	if panel := m.renderModePanel(headingStyle, subStyle); panel != "" {
		sections = append(sections, "", panel)
	}

	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	if m.height > 0 {
		contentHeight := max(0, m.height-lipgloss.Height(helpLine))
		content = fitLines(content, contentHeight)
	}

	return content + "\n" + helpLine
}

// renderTodoLine formats one list row.
func renderTodoLine(todo domain.Todo) string {
	check := "[ ]"
	if todo.Done {
		check = "[x]"
	}
	line := fmt.Sprintf("%s %s", check, todo.Title)
	if strings.TrimSpace(todo.Description) != "" {
		line += " •"
	}
	return line
}

// renderStats formats the server and derived stat panels.
func (m Model) renderStats(headingStyle, subStyle lipgloss.Style) string {
	lines := make([]string, 0, 4)
	if m.snapshot.Stats != nil {
		s := m.snapshot.Stats
		lines = append(lines, headingStyle.Render("server")+subStyle.Render(
			fmt.Sprintf("  total %d · done %d · pending %d", s.Total, s.Done, s.Pending)))
	}
	if m.snapshot.Advanced != nil {
		a := m.snapshot.Advanced
		lines = append(lines,
			headingStyle.Render("derived")+subStyle.Render(
				fmt.Sprintf("  total %d · done %d · pending %d", a.Total, a.Done, a.Pending)),
			subStyle.Render(fmt.Sprintf("         desc %d/%d · titles %d short, %d medium, %d long",
				a.WithDescription, a.WithoutDescription, a.TitleShort, a.TitleMedium, a.TitleLong)))
	}
	if len(lines) == 0 {
		return subStyle.Render("no stats yet")
	}
	return strings.Join(lines, "\n")
}

// renderModePanel formats the active add/filter/info panel.
func (m Model) renderModePanel(headingStyle, subStyle lipgloss.Style) string {
	switch m.mode {
	case modeAddTodo:
		return strings.Join([]string{
			headingStyle.Render("new todo"),
			m.titleInput.View(),
			m.descInput.View(),
			subStyle.Render("enter save · tab switch field · esc cancel"),
		}, "\n")
	case modeFilter:
		return strings.Join([]string{
			headingStyle.Render("filter"),
			m.filterInput.View(),
			"done: " + string(m.doneFilter),
			subStyle.Render("enter apply · t cycle done · esc cancel"),
		}, "\n")
	case modeTodoInfo:
		todo, ok := m.selectedTodo()
		if !ok {
			return ""
		}
		state := "pending"
		if todo.Done {
			state = "done"
		}
		lines := []string{
			headingStyle.Render(todo.Title),
			subStyle.Render(fmt.Sprintf("#%d · %s · %s title", todo.ID, state, domain.ClassifyTitleLength(todo.Title))),
		}
		if rendered := m.markdown.render(todo.Description, max(0, m.width-4)); rendered != "" {
			lines = append(lines, "", rendered)
		}
		lines = append(lines, "", subStyle.Render("esc back"))
		return strings.Join(lines, "\n")
	}
	return ""
}

// nextDoneFilter advances the done selector.
func nextDoneFilter(current domain.DoneFilter) domain.DoneFilter {
	for i, f := range doneFilterCycle {
		if f == current {
			return doneFilterCycle[(i+1)%len(doneFilterCycle)]
		}
	}
	return domain.DoneFilterAll
}

// fitLines trims or pads content to the requested line count.
func fitLines(content string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
