package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui/styles"
	"github.com/CarloDePieri/pass2keepass2/internal/application"
)

const maxBarWidth = 60

// ProgressModel shows a spinner and a progress bar for a running phase
type ProgressModel struct {
	ViewState
	label   string
	current application.Progress
	bar     progress.Model
	spinner spinner.Model
}

// NewProgressModel creates a progress view with the given label
func NewProgressModel(label string) *ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Success

	return &ProgressModel{
		label:   label,
		bar:     progress.New(progress.WithGradient(styles.ProgressStart, styles.ProgressEnd)),
		spinner: s,
	}
}

// Init starts the spinner
func (m *ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Current returns the last reported progress
func (m *ProgressModel) Current() application.Progress {
	return m.current
}

// Update handles messages for the progress view
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.bar.Width = min(msg.Width-8, maxBarWidth)
		return m, nil

	case ProgressMsg:
		m.current = msg.Progress
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress view
func (m *ProgressModel) View() string {
	v := NewViewBuilder().
		Line(m.spinner.View() + " " + m.label)

	if m.current.Total > 0 {
		v.BlankLine().
			Line(m.bar.ViewAs(m.current.Fraction())).
			Muted(fmt.Sprintf("%d/%d entries", m.current.Done, m.current.Total))
	}
	return v.String()
}
