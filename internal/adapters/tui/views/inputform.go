package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui/styles"
	"github.com/CarloDePieri/pass2keepass2/internal/application"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),
}

// InputField represents a single input field with label and textinput
type InputField struct {
	Label string
	Input textinput.Model
}

// NewPasswordField creates a masked input field
func NewPasswordField(label string) InputField {
	input := textinput.New()
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return InputField{Label: label, Input: input}
}

// InputForm manages multiple text input fields with focus handling
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
}

// NewInputForm creates a new input form and focuses its first field
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{
		Fields: fields,
		Keys:   DefaultInputFormKeys,
	}
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// Update forwards msg to the focused field. Returns (handled, cmd) where
// handled is true if the form consumed the key itself.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, f.Keys.Tab) {
		f.NextField()
		return true, nil
	}

	var cmd tea.Cmd
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input, cmd = f.Fields[f.FocusedField].Input.Update(msg)
	}
	return false, cmd
}

// NextField moves focus to the next field, wrapping around
func (f *InputForm) NextField() {
	f.SetFocus((f.FocusedField + 1) % max(len(f.Fields), 1))
}

// SetFocus sets focus to a specific field
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input.Blur()
	}
	f.FocusedField = index
	f.Fields[f.FocusedField].Input.Focus()
}

// Value returns the raw value of a field. Passwords are not trimmed.
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return f.Fields[index].Input.Value()
}

// Reset clears all field values and focuses the first field
func (f *InputForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.SetValue("")
		f.Fields[i].Input.Blur()
	}
	f.FocusedField = 0
	if len(f.Fields) > 0 {
		f.Fields[0].Input.Focus()
	}
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	style := styles.InputField
	if index == f.FocusedField {
		style = styles.InputFocused
	}
	return styles.InputLabel.Render(field.Label) + "\n" + style.Render(field.Input.View())
}

// PasswordModel asks for the destination password twice
type PasswordModel struct {
	ViewState
	form *InputForm
}

// NewPasswordModel creates the password view
func NewPasswordModel() *PasswordModel {
	return &PasswordModel{
		form: NewInputForm(
			NewPasswordField("A strong password"),
			NewPasswordField("Type it again"),
		),
	}
}

// Init starts the cursor blink
func (m *PasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the password view
func (m *PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return DeclinedMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *PasswordModel) submit() tea.Cmd {
	if m.form.FocusedField == 0 && m.form.Value(0) != "" {
		m.form.SetFocus(1)
		return nil
	}

	password, repeat := m.form.Value(0), m.form.Value(1)
	if err := application.ValidatePasswordsMatch(password, repeat); err != nil {
		msg := err.Error()
		var ve *application.ValidationError
		if errors.As(err, &ve) {
			msg = ve.Message
		}
		m.SetMessage(strings.ToUpper(msg[:1])+msg[1:]+", try again.", true)
		m.form.Reset()
		return nil
	}

	m.ClearMessage()
	return func() tea.Msg { return PasswordChosenMsg{Password: password} }
}

// View renders the password view
func (m *PasswordModel) View() string {
	return NewViewBuilder().
		Title("Choose a strong password for your new database").
		Message(m.Message, m.MessageErr).
		Line(m.form.RenderField(0)).
		Line(m.form.RenderField(1)).
		BlankLine().
		Help(m.form.Keys.Tab, m.form.Keys.Submit, m.form.Keys.Cancel).
		String()
}
