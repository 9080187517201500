package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui/views"
	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/application/commands"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// State is the current step of the guided flow
type State int

const (
	StateIntro State = iota
	StateReading
	StatePassword
	StateWriting
	StateDone
)

var interruptKey = key.NewBinding(key.WithKeys("ctrl+c"))

// Pipeline is the conversion split into the two phases the guided flow
// interleaves with user input
type Pipeline struct {
	Read  func(ctx context.Context, onProgress application.ProgressFunc) ([]*domain.Record, error)
	Write func(ctx context.Context, password string, records []*domain.Record, onProgress application.ProgressFunc) (*commands.ConvertResult, error)

	// ReadNeedsTerminal hands the terminal back while Read runs, so a gpg
	// pinentry can prompt on it.
	ReadNeedsTerminal bool
}

type readDoneMsg struct {
	records []*domain.Record
	err     error
}

type writeDoneMsg struct {
	result *commands.ConvertResult
	err    error
}

// progressMsg carries the channel it came from so the listener can re-arm
type progressMsg struct {
	views.ProgressMsg
	ch <-chan application.Progress
}

// App is the guided conversion model
type App struct {
	ctx      context.Context
	cancel   context.CancelFunc
	pipeline Pipeline
	exec     func(tea.ExecCommand, tea.ExecCallback) tea.Cmd

	state    State
	intro    *views.IntroModel
	reading  *views.ProgressModel
	password *views.PasswordModel
	writing  *views.ProgressModel
	summary  *views.SummaryModel

	records  []*domain.Record
	result   *commands.ConvertResult
	err      error
	declined bool
}

// NewApp creates a new guided conversion
func NewApp(ctx context.Context, settings views.Settings, pipeline Pipeline) *App {
	ctx, cancel := context.WithCancel(ctx)
	return &App{
		ctx:      ctx,
		cancel:   cancel,
		pipeline: pipeline,
		exec:     tea.Exec,
		state:    StateIntro,
		intro:    views.NewIntroModel(settings),
		reading:  views.NewProgressModel("Reading password-store..."),
		password: views.NewPasswordModel(),
		writing:  views.NewProgressModel("Writing keepass database..."),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.intro.Init()
}

// State returns the current step
func (a *App) State() State {
	return a.state
}

// Outcome reports how the flow ended: the conversion result, whether the
// user declined, and the error that stopped it.
func (a *App) Outcome() (*commands.ConvertResult, bool, error) {
	return a.result, a.declined, a.err
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.intro.SetSize(msg.Width, msg.Height)
		a.password.SetSize(msg.Width, msg.Height)
		a.reading.Update(msg)
		a.writing.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, interruptKey) {
			a.cancel()
			if a.state != StateIntro && a.state != StateDone {
				a.err = context.Canceled
			}
			return a, tea.Quit
		}

	case views.DeclinedMsg:
		a.declined = true
		a.cancel()
		return a, tea.Quit

	case views.ConfirmedMsg:
		a.state = StateReading
		if a.pipeline.ReadNeedsTerminal {
			read := &releasedRead{ctx: a.ctx, read: a.pipeline.Read, out: io.Discard}
			return a, a.exec(read, func(err error) tea.Msg {
				return readDoneMsg{records: read.records, err: err}
			})
		}
		return a, tea.Batch(a.reading.Init(), a.runPhase(func(onProgress application.ProgressFunc) tea.Msg {
			records, err := a.pipeline.Read(a.ctx, onProgress)
			return readDoneMsg{records: records, err: err}
		}))

	case progressMsg:
		switch a.state {
		case StateReading:
			a.reading.Update(msg.ProgressMsg)
		case StateWriting:
			a.writing.Update(msg.ProgressMsg)
		}
		return a, waitForProgress(msg.ch)

	case readDoneMsg:
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.records = msg.records
		a.state = StatePassword
		return a, a.password.Init()

	case views.PasswordChosenMsg:
		a.state = StateWriting
		password, records := msg.Password, a.records
		return a, tea.Batch(a.writing.Init(), a.runPhase(func(onProgress application.ProgressFunc) tea.Msg {
			result, err := a.pipeline.Write(a.ctx, password, records, onProgress)
			return writeDoneMsg{result: result, err: err}
		}))

	case writeDoneMsg:
		a.records = nil
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.result = msg.result
		a.state = StateDone
		a.summary = views.NewSummaryModel(msg.result.Path, msg.result.Entries, msg.result.Groups)
		return a, nil
	}

	var cmd tea.Cmd
	switch a.state {
	case StateIntro:
		_, cmd = a.intro.Update(msg)
	case StateReading:
		_, cmd = a.reading.Update(msg)
	case StatePassword:
		_, cmd = a.password.Update(msg)
	case StateWriting:
		_, cmd = a.writing.Update(msg)
	case StateDone:
		_, cmd = a.summary.Update(msg)
	}
	return a, cmd
}

func (a *App) fail(err error) tea.Cmd {
	a.err = err
	a.state = StateDone
	a.summary = views.NewFailureModel(err)
	return nil
}

// runPhase runs work off the event loop and streams its progress back as
// messages.
func (a *App) runPhase(work func(application.ProgressFunc) tea.Msg) tea.Cmd {
	ch := make(chan application.Progress, 64)
	ctx := a.ctx

	run := func() tea.Msg {
		defer close(ch)
		return work(func(p application.Progress) {
			select {
			case ch <- p:
			case <-ctx.Done():
			}
		})
	}
	return tea.Batch(run, waitForProgress(ch))
}

// releasedRead runs the read phase while the program has released the
// terminal. Progress goes to the plain terminal output.
type releasedRead struct {
	ctx     context.Context
	read    func(context.Context, application.ProgressFunc) ([]*domain.Record, error)
	out     io.Writer
	records []*domain.Record
}

func (r *releasedRead) Run() error {
	fmt.Fprintln(r.out, "Reading password-store...")
	records, err := r.read(r.ctx, func(p application.Progress) {
		fmt.Fprintf(r.out, " > %d/%d entries\r", p.Done, p.Total)
		if p.Done == p.Total {
			fmt.Fprintln(r.out)
		}
	})
	r.records = records
	return err
}

func (r *releasedRead) SetStdin(io.Reader) {}

func (r *releasedRead) SetStdout(w io.Writer) { r.out = w }

func (r *releasedRead) SetStderr(io.Writer) {}

func waitForProgress(ch <-chan application.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{ProgressMsg: views.ProgressMsg{Progress: p}, ch: ch}
	}
}

// View renders the current step
func (a *App) View() string {
	switch a.state {
	case StateReading:
		return a.reading.View()
	case StatePassword:
		return a.password.View()
	case StateWriting:
		return a.writing.View()
	case StateDone:
		return a.summary.View()
	default:
		return a.intro.View()
	}
}
