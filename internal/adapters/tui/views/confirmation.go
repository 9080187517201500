package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
		key.WithHelp("y/enter", "continue"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "quit"),
	),
}

// IntroModel shows what is about to happen and asks for confirmation
type IntroModel struct {
	ViewState
	Settings Settings
	Keys     ConfirmKeyMap
}

// NewIntroModel creates the intro view for the given settings
func NewIntroModel(settings Settings) *IntroModel {
	return &IntroModel{
		Settings: settings,
		Keys:     DefaultConfirmKeys,
	}
}

// Init initializes the intro view
func (m *IntroModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the intro view
func (m *IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Confirm):
			return m, func() tea.Msg { return ConfirmedMsg{} }
		case key.Matches(msg, m.Keys.Cancel):
			return m, func() tea.Msg { return DeclinedMsg{} }
		}
	}

	return m, nil
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("Y"))
	b.WriteString(styles.HelpDesc.Render("/"))
	b.WriteString(styles.HelpKey.Render("n"))
	return b.String()
}

// View renders the intro view
func (m *IntroModel) View() string {
	v := NewViewBuilder().Title("pass2keepass2")

	v.Line(styles.WarningMsg.Render(
		"Secrets will be held in memory in clear text while the database is built."))
	v.Muted("You may be asked for your GPG passphrase while the store is read.")
	v.BlankLine()

	v.Line(RenderLabelValue("Input password-store", m.Settings.StorePath))
	v.Line(RenderLabelValue("Output database", m.Settings.OutputPath))
	if m.Settings.HookPath != "" {
		v.Line(RenderLabelValue("Custom mapper", m.Settings.HookPath))
	}
	if m.Settings.Overwrite {
		v.Line(styles.WarningMsg.Render("An existing output file will be replaced."))
	}
	v.BlankLine()

	v.Line(RenderConfirmPrompt("Continue?"))
	return v.String()
}
