// Package overlay implements the modal used by a managed user to set the
// passphrase that protects the settings application.
//
// An Overlay owns two text fields (passphrase and confirmation), a mismatch
// indicator and a save button. It decides when it may be shown, when the
// passphrase may be submitted, and it clears the entered text once the
// container has finished hiding. All methods must be called from the single
// event loop that drives the host UI.
package overlay

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/keeperpass/internal/models"
)

// PageName identifies the overlay to the page host.
const PageName = "setPassphrase"

// DefaultResetDelay bounds how long a closed overlay may keep its field
// values when the container never reports the end of its hide animation.
const DefaultResetDelay = 250 * time.Millisecond

// OpacityProperty is the transition property whose end triggers the reset.
const OpacityProperty = "opacity"

// ErrMissingElement is returned by New when a required element or
// collaborator is nil.
var ErrMissingElement = errors.New("overlay: missing element")

// Visibility is the lifecycle state of the overlay.
type Visibility int

const (
	Hidden Visibility = iota
	Showing
	Visible
	Closing
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	case Visible:
		return "visible"
	case Closing:
		return "closing"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// Container is the animated element hosting the overlay.
type Container interface {
	// Show starts the show animation.
	Show()
	// Hide starts the hide animation.
	Hide()
}

// PassphraseSetter receives accepted passphrases. Calls are one-way: the
// overlay never observes the outcome.
type PassphraseSetter interface {
	SetPassphrase(passphrase string)
}

// AuthSource reports the authentication state owned by the settings page.
type AuthSource interface {
	AuthenticationState() models.AuthState
}

// Scheduler runs fn once after d on the caller's event loop. The returned
// stop function cancels the call and reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// TransitionEnd describes a finished container transition.
type TransitionEnd struct {
	// Property is the animated property, e.g. "opacity" or "transform".
	Property string
	// Target is the element whose transition finished.
	Target any
}

// Elements are the typed handles the overlay operates on.
type Elements struct {
	Passphrase *Field
	Confirm    *Field
	Mismatch   *Indicator
	Save       *Button
	Cancel     *Button
}

// Config holds the collaborators of an Overlay.
type Config struct {
	// Title is the localized page title, read once.
	Title     string
	Container Container
	Setter    PassphraseSetter
	Auth      AuthSource
	Scheduler Scheduler
	// ResetDelay is the fallback delay before clearing fields on close.
	// Zero means DefaultResetDelay.
	ResetDelay time.Duration
	Logger     *zap.Logger
}

// Overlay is the passphrase overlay controller.
type Overlay struct {
	title      string
	container  Container
	setter     PassphraseSetter
	auth       AuthSource
	scheduler  Scheduler
	resetDelay time.Duration
	log        *zap.Logger

	els        Elements
	visibility Visibility
	focused    FieldID

	// closeArmed is true between Hide and the reset.
	closeArmed bool
	closeSeq   uint64
	stopReset  func() bool
}

// New binds the overlay to its elements and collaborators.
func New(cfg Config, els Elements) (*Overlay, error) {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingElement, name)
	}
	switch {
	case els.Passphrase == nil:
		return nil, missing("passphrase field")
	case els.Confirm == nil:
		return nil, missing("confirm field")
	case els.Mismatch == nil:
		return nil, missing("mismatch indicator")
	case els.Save == nil:
		return nil, missing("save button")
	case els.Cancel == nil:
		return nil, missing("cancel button")
	case cfg.Container == nil:
		return nil, missing("container")
	case cfg.Setter == nil:
		return nil, missing("passphrase setter")
	case cfg.Auth == nil:
		return nil, missing("auth source")
	case cfg.Scheduler == nil:
		return nil, missing("scheduler")
	}

	o := &Overlay{
		title:      cfg.Title,
		container:  cfg.Container,
		setter:     cfg.Setter,
		auth:       cfg.Auth,
		scheduler:  cfg.Scheduler,
		resetDelay: cfg.ResetDelay,
		log:        cfg.Logger,
		els:        els,
	}
	if o.resetDelay <= 0 {
		o.resetDelay = DefaultResetDelay
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	els.Mismatch.SetHidden(true)
	o.OnFieldInput()
	return o, nil
}

// MustNew is like New but panics when an element is missing.
func MustNew(cfg Config, els Elements) *Overlay {
	o, err := New(cfg, els)
	if err != nil {
		panic(err)
	}
	return o
}

// Name returns the page name the host registers the overlay under.
func (o *Overlay) Name() string { return PageName }

// Title returns the localized title.
func (o *Overlay) Title() string { return o.title }

// Visibility returns the current lifecycle state.
func (o *Overlay) Visibility() Visibility { return o.visibility }

// Focused returns the field holding input focus.
func (o *Overlay) Focused() FieldID { return o.focused }

// Elements returns the handles the overlay was bound to.
func (o *Overlay) Elements() Elements { return o.els }

// CanShow reports whether the page host may navigate to the overlay.
func (o *Overlay) CanShow() bool {
	return o.auth.AuthenticationState() == models.Authenticated
}

// Show begins showing the overlay. It returns false and leaves the state
// untouched unless the overlay is hidden and CanShow allows it.
func (o *Overlay) Show() bool {
	if o.visibility != Hidden {
		return false
	}
	if !o.CanShow() {
		o.log.Debug("overlay show refused",
			zap.Stringer("auth", o.auth.AuthenticationState()))
		return false
	}
	o.visibility = Showing
	o.container.Show()
	return true
}

// ShowComplete is called when the container finished its show animation.
func (o *Overlay) ShowComplete() {
	if o.visibility != Showing {
		return
	}
	o.visibility = Visible
	o.OnShown()
}

// OnShown moves focus to the passphrase field.
func (o *Overlay) OnShown() {
	o.focused = FocusPassphrase
}

// HandleCancel is the host's cancel hook (Escape).
func (o *Overlay) HandleCancel() {
	o.RequestCancel()
}

// RequestCancel closes the overlay without contacting the host.
func (o *Overlay) RequestCancel() {
	if o.visibility != Visible {
		return
	}
	o.close()
}

// RequestSubmit sends the passphrase and closes the overlay. It is a no-op
// unless the overlay is visible and the save button is enabled.
func (o *Overlay) RequestSubmit() {
	if o.visibility != Visible || o.els.Save.Disabled() {
		return
	}
	o.setter.SetPassphrase(o.els.Passphrase.Value())
	o.close()
}

func (o *Overlay) close() {
	o.visibility = Closing
	o.focused = FocusNone
	o.closeArmed = true
	o.closeSeq++
	seq := o.closeSeq
	o.container.Hide()
	o.stopReset = o.scheduler.AfterFunc(o.resetDelay, func() {
		if seq != o.closeSeq {
			return
		}
		o.stopReset = nil
		if o.closeArmed {
			o.log.Debug("overlay reset by fallback timer")
			o.reset()
		}
	})
}

// HandleTransitionEnd receives transition completion events from the
// container. Only the end of the opacity transition on the container itself
// completes a pending close.
func (o *Overlay) HandleTransitionEnd(ev TransitionEnd) {
	if !o.closeArmed {
		return
	}
	if ev.Target != o.container || ev.Property != OpacityProperty {
		return
	}
	if o.stopReset != nil {
		o.stopReset()
		o.stopReset = nil
	}
	o.reset()
}

func (o *Overlay) reset() {
	o.closeArmed = false
	o.els.Passphrase.Clear()
	o.els.Confirm.Clear()
	o.els.Mismatch.SetHidden(true)
	o.OnFieldInput()
	o.visibility = Hidden
}
