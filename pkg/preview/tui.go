package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/postboard/pkg/feed"
	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

// ViewMode represents the current view mode
type ViewMode int

// View modes for the board TUI
const (
	ListViewMode ViewMode = iota
	DetailViewMode
	EntryViewMode
	FormViewMode
)

// form field focus order
const (
	nameField = iota
	emailField
	commentsField
	fieldCount
)

// fetchDoneMsg is sent when a Load or Refresh returns
type fetchDoneMsg struct{}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	ackStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12")).
			Bold(true)
)

// Model is the Bubble Tea adapter over a FeedViewModel
type Model struct {
	ctx       context.Context
	vm        *viewmodel.FeedViewModel
	generator *feed.Generator
	label     string

	cursor        int
	viewMode      ViewMode
	selectedIndex int
	width         int
	height        int

	// fetching is set when a fetch command is dispatched, before the view model reports loading
	fetching bool
	spinner  spinner.Model

	name     textinput.Model
	email    textinput.Model
	comments textarea.Model
	focus    int
	ack      string
}

// NewModel creates a board model. Init triggers the initial Load.
func NewModel(ctx context.Context, vm *viewmodel.FeedViewModel, generator *feed.Generator) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	name := textinput.New()
	name.Placeholder = "Name"
	name.Prompt = "Name: "

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email: "

	comments := textarea.New()
	comments.Placeholder = "Comments"
	comments.SetHeight(4)

	return Model{
		ctx:           ctx,
		vm:            vm,
		generator:     generator,
		label:         vm.DetectAgentLabel(),
		viewMode:      ListViewMode,
		selectedIndex: -1,
		fetching:      true,
		spinner:       s,
		name:          name,
		email:         email,
		comments:      comments,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(false))
}

func (m Model) fetchCmd(refresh bool) tea.Cmd {
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		if refresh {
			vm.Refresh(ctx)
		} else {
			vm.Load(ctx)
		}
		return fetchDoneMsg{}
	}
}

func (m Model) loading() bool {
	return m.fetching || !m.vm.CanRefresh()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.comments.SetWidth(min(msg.Width, 80))
		return m, nil

	case fetchDoneMsg:
		m.fetching = false
		if n := len(m.vm.State().Items); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.viewMode {
		case ListViewMode:
			return m.updateListView(msg)
		case DetailViewMode, EntryViewMode:
			return m.updateDetailView(msg)
		case FormViewMode:
			return m.updateFormView(msg)
		}
	}

	return m, nil
}

// updateListView handles key presses in list view mode
func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.vm.State().Items

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "c":
		m.vm.IncrementClick()

	case "r":
		if m.loading() {
			return m, nil
		}
		m.fetching = true
		return m, m.fetchCmd(true)

	case "f":
		m.viewMode = FormViewMode
		m.ack = ""
		cmd := m.setFocus(nameField)
		return m, cmd

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case "enter":
		if len(items) > 0 {
			m.selectedIndex = m.cursor
			m.viewMode = DetailViewMode
		}

	case "x":
		if len(items) > 0 {
			m.selectedIndex = m.cursor
			m.viewMode = EntryViewMode
		}
	}

	return m, nil
}

// updateDetailView handles key presses in detail and feed entry view modes
func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewMode = ListViewMode

	case "x":
		if m.viewMode == DetailViewMode {
			m.viewMode = EntryViewMode
		} else {
			m.viewMode = DetailViewMode
		}
	}

	return m, nil
}

// updateFormView routes keys to the focused field
func (m Model) updateFormView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.blurAll()
		m.viewMode = ListViewMode
		return m, nil

	case "tab":
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd

	case "shift+tab":
		cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd

	case "ctrl+s":
		m.ack = m.vm.SubmitForm(viewmodel.FormSnapshot{
			Name:     m.name.Value(),
			Email:    m.email.Value(),
			Comments: m.comments.Value(),
		})
		m.blurAll()
		m.viewMode = ListViewMode
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case nameField:
		m.name, cmd = m.name.Update(msg)
	case emailField:
		m.email, cmd = m.email.Update(msg)
	case commentsField:
		m.comments, cmd = m.comments.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.blurAll()
	m.focus = field

	switch field {
	case emailField:
		return m.email.Focus()
	case commentsField:
		return m.comments.Focus()
	default:
		return m.name.Focus()
	}
}

func (m *Model) blurAll() {
	m.name.Blur()
	m.email.Blur()
	m.comments.Blur()
}

// View implements tea.Model
func (m Model) View() string {
	switch m.viewMode {
	case DetailViewMode:
		return m.renderDetailView()
	case EntryViewMode:
		return m.renderEntryView()
	case FormViewMode:
		return m.renderFormView()
	default:
		return m.renderListView()
	}
}

// renderStatus renders the header, click counter, banners and gallery
func (m Model) renderStatus(state viewmodel.ViewState) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Postboard - %s", m.label)))
	b.WriteString("\n\n")

	refresh := "[r] refresh"
	if m.loading() {
		refresh = disabledStyle.Render(m.spinner.View() + " refresh")
	}
	fmt.Fprintf(&b, "Clicks: %d  [c] click  %s\n", state.ClickCount, refresh)

	if state.HasError() {
		b.WriteString(errorStyle.Render("API Error: " + state.Error))
		b.WriteString("\n")
	}

	if m.loading() {
		b.WriteString("Loading...\n")
	} else {
		fmt.Fprintf(&b, "%d items\n", len(state.Items))
	}

	gallery := m.vm.Gallery()
	if len(gallery) > 0 {
		names := make([]string, len(gallery))
		for i, img := range gallery {
			names[i] = img.Name
		}
		fmt.Fprintf(&b, "Gallery: %s (%dx%d)\n", strings.Join(names, ", "), gallery[0].Width, gallery[0].Height)
	}

	if m.ack != "" {
		b.WriteString(ackStyle.Render(m.ack))
		b.WriteString("\n")
	}
	if last, ok := m.vm.LastSubmission(); ok {
		fmt.Fprintf(&b, "Last submission: %s <%s>\n", last.Name, last.Email)
	}

	return b.String()
}

// renderListView renders the list view
func (m Model) renderListView() string {
	state := m.vm.State()
	items := state.Items

	var b strings.Builder
	b.WriteString(m.renderStatus(state))
	b.WriteString("\n")

	visibleStart := 0
	visibleEnd := len(items)

	if m.height > 0 {
		maxVisible := max(m.height-12, 1)
		if maxVisible < len(items) {
			// Keep cursor in the middle of the screen when possible
			visibleStart = max(m.cursor-maxVisible/2, 0)
			visibleEnd = visibleStart + maxVisible
			if visibleEnd > len(items) {
				visibleEnd = len(items)
				visibleStart = max(visibleEnd-maxVisible, 0)
			}
		}
	}

	for i := visibleStart; i < visibleEnd; i++ {
		line := FormatCompactListItem(i, items[i])

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("→ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ or j/k: navigate • enter: details • x: feed entry • c: click • r: refresh • f: form • q: quit"))

	return b.String()
}

func (m Model) selectedItem() (viewmodel.DisplayItem, bool) {
	items := m.vm.State().Items
	if m.selectedIndex < 0 || m.selectedIndex >= len(items) {
		return viewmodel.DisplayItem{}, false
	}
	return items[m.selectedIndex], true
}

// renderDetailView renders the detail view
func (m Model) renderDetailView() string {
	item, ok := m.selectedItem()
	if !ok {
		return "No item selected"
	}

	var b strings.Builder
	b.WriteString(FormatDetailedItem(item))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("esc: back to list • x: toggle feed entry • q: quit"))

	return b.String()
}

// renderEntryView renders the Atom entry of the selected item
func (m Model) renderEntryView() string {
	item, ok := m.selectedItem()
	if !ok {
		return "No item selected"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Atom Entry Preview"))
	b.WriteString("\n\n")
	b.WriteString(FormatFeedEntry(item, m.generator))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("esc: back to list • x: toggle detail view • q: quit"))

	return b.String()
}

// renderFormView renders the contact form
func (m Model) renderFormView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Contact"))
	b.WriteString("\n\n")
	b.WriteString(m.name.View())
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")
	b.WriteString(m.comments.View())
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("tab: next field • ctrl+s: submit • esc: cancel"))

	return b.String()
}

// Run starts the Bubble Tea program and closes the view model when it exits
func Run(ctx context.Context, vm *viewmodel.FeedViewModel, generator *feed.Generator) error {
	defer vm.Close()

	p := tea.NewProgram(NewModel(ctx, vm, generator), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
