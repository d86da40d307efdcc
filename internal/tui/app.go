// Package tui is the terminal settings screen of a managed user. It hosts
// the passphrase overlay, animates its container and runs its timers on the
// bubbletea event loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/atinyakov/keeperpass/internal/models"
	"github.com/atinyakov/keeperpass/internal/overlay"
)

const defaultUnlockTimeout = 10 * time.Second

// Session is the authentication state of the settings screen.
type Session interface {
	overlay.AuthSource
	// Unlock verifies passphrase against the host and updates the state.
	Unlock(ctx context.Context, passphrase string) error
}

// unlockResultMsg carries the outcome of an unlock attempt.
type unlockResultMsg struct {
	err error
}

// AppConfig wires an App.
type AppConfig struct {
	Overlay   *overlay.Overlay
	Container *Container
	Scheduler *Scheduler
	Session   Session
	Strings   Strings
	Keys      KeyMap
	// User is the managed user shown in the header.
	User          string
	UnlockTimeout time.Duration
	Logger        *zap.Logger
}

// App is the root bubbletea model.
type App struct {
	o         *overlay.Overlay
	view      *PassphraseView
	host      *PageHost
	container *Container
	sched     *Scheduler
	session   Session
	keys      KeyMap
	user      string
	timeout   time.Duration
	log       *zap.Logger

	unlocking   bool
	unlockInput textinput.Model
	status      string
	statusErr   bool

	width, height int
}

// NewApp builds the root model and registers the overlay with its page host.
func NewApp(cfg AppConfig) *App {
	a := &App{
		o:           cfg.Overlay,
		view:        NewPassphraseView(cfg.Overlay, cfg.Strings, cfg.Keys),
		host:        NewPageHost(),
		container:   cfg.Container,
		sched:       cfg.Scheduler,
		session:     cfg.Session,
		keys:        cfg.Keys,
		user:        cfg.User,
		timeout:     cfg.UnlockTimeout,
		log:         cfg.Logger,
		unlockInput: passwordInput(),
	}
	if a.timeout <= 0 {
		a.timeout = defaultUnlockTimeout
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	a.host.Register(cfg.Overlay)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case timerMsg:
		a.sched.Fire(msg)
	case frameMsg:
		a.container.Step(msg)
	case transitionEndMsg:
		a.o.HandleTransitionEnd(msg.ev)
	case shownMsg:
		a.o.ShowComplete()
	case unlockResultMsg:
		a.finishUnlock(msg.err)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case tea.KeyMsg:
		cmd = a.handleKey(msg)
	}
	return a, tea.Batch(cmd, a.view.Sync(), a.sched.Drain(), a.container.Drain())
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if a.o.Visibility() != overlay.Hidden {
		return a.view.Update(msg)
	}
	if a.unlocking {
		return a.updateUnlock(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.SetPassphrase):
		a.status = ""
		if err := a.host.Navigate(overlay.PageName); err != nil {
			a.log.Info("passphrase overlay not shown", zap.Error(err))
			a.setStatus("Unlock the settings before changing the passphrase.", true)
		}
	case key.Matches(msg, a.keys.Unlock):
		if a.session.AuthenticationState() == models.Authenticated {
			a.setStatus("Settings are already unlocked.", false)
			return nil
		}
		a.unlocking = true
		a.status = ""
		a.unlockInput.Reset()
		return a.unlockInput.Focus()
	}
	return nil
}

func (a *App) updateUnlock(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.unlocking = false
		a.unlockInput.Reset()
		a.unlockInput.Blur()
		return nil
	case key.Matches(msg, a.keys.Enter):
		if a.session.AuthenticationState() == models.AuthInProgress {
			return nil
		}
		p := a.unlockInput.Value()
		a.unlockInput.Reset()
		if p == "" {
			return nil
		}
		return a.unlockCmd(p)
	}
	var cmd tea.Cmd
	a.unlockInput, cmd = a.unlockInput.Update(msg)
	return cmd
}

func (a *App) unlockCmd(passphrase string) tea.Cmd {
	s, timeout := a.session, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return unlockResultMsg{err: s.Unlock(ctx, passphrase)}
	}
}

func (a *App) finishUnlock(err error) {
	if err != nil {
		a.log.Warn("unlock failed", zap.Error(err))
		a.setStatus(unlockError(err), true)
		return
	}
	a.unlocking = false
	a.unlockInput.Blur()
	a.setStatus("Settings unlocked.", false)
}

func unlockError(err error) string {
	var se interface{ Unauthorized() bool }
	if errors.As(err, &se) && se.Unauthorized() {
		return "Wrong passphrase."
	}
	return fmt.Sprintf("Unlock failed: %v", err)
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Managed user settings"))
	b.WriteString("\n")
	state := a.session.AuthenticationState()
	st := errorStyle
	if state == models.Authenticated {
		st = okStyle
	}
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("user "+a.user+":"), st.Render(state.String()))

	if a.unlocking {
		b.WriteString(labelStyle.Render("Current passphrase"))
		b.WriteString("\n")
		b.WriteString(a.unlockInput.View())
		b.WriteString("\n\n")
	}
	if a.status != "" {
		if a.statusErr {
			b.WriteString(errorStyle.Render(a.status))
		} else {
			b.WriteString(okStyle.Render(a.status))
		}
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render(a.help()))

	box := a.view.View(a.container.Opacity())
	if box == "" {
		return b.String()
	}
	if a.width > 0 && a.height > 0 {
		box = lipgloss.Place(a.width, a.height/2, lipgloss.Center, lipgloss.Center, box)
	}
	return b.String() + "\n\n" + box
}

func (a *App) help() string {
	var bs []key.Binding
	switch {
	case a.o.Visibility() != overlay.Hidden:
		bs = []key.Binding{a.keys.Next, a.keys.Enter, a.keys.Cancel}
	case a.unlocking:
		bs = []key.Binding{a.keys.Enter, a.keys.Cancel}
	default:
		bs = []key.Binding{a.keys.SetPassphrase, a.keys.Unlock, a.keys.Quit}
	}
	parts := make([]string, 0, len(bs))
	for _, kb := range bs {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
