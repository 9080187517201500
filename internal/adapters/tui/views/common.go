package views

import (
	"github.com/CarloDePieri/pass2keepass2/internal/application"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Settings describes the conversion the user is about to run
type Settings struct {
	StorePath  string
	OutputPath string
	HookPath   string // Optional
	Overwrite  bool
}

// ConfirmedMsg is sent when the user accepts the intro prompt
type ConfirmedMsg struct{}

// DeclinedMsg is sent when the user backs out before anything is written
type DeclinedMsg struct{}

// PasswordChosenMsg carries the validated destination password
type PasswordChosenMsg struct {
	Password string
}

// ProgressMsg reports progress of the running phase
type ProgressMsg struct {
	application.Progress
}
