package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
)

var closeKey = key.NewBinding(
	key.WithKeys("enter", "q", "esc"),
	key.WithHelp("enter/q", "exit"),
)

// SummaryModel is the final screen, reporting success or failure
type SummaryModel struct {
	ViewState
	Entries int
	Groups  int
	Path    string
	Err     error
}

// NewSummaryModel creates the summary of a successful run
func NewSummaryModel(path string, entries, groups int) *SummaryModel {
	return &SummaryModel{Path: path, Entries: entries, Groups: groups}
}

// NewFailureModel creates the summary of a failed run
func NewFailureModel(err error) *SummaryModel {
	return &SummaryModel{Err: err}
}

// Init initializes the summary view
func (m *SummaryModel) Init() tea.Cmd {
	return nil
}

// Update quits on any close key
func (m *SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, closeKey) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the summary
func (m *SummaryModel) View() string {
	v := NewViewBuilder()
	if m.Err != nil {
		v.Title("Conversion failed").
			Message(application.Category(m.Err), true).
			Muted(m.Err.Error())
	} else {
		v.Title("Done").
			Message(fmt.Sprintf("%d entries have been added to %s", m.Entries, m.Path), false).
			Muted(fmt.Sprintf("%d groups created", m.Groups))
	}
	return v.BlankLine().Help(closeKey).String()
}
