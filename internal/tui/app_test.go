package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/keeperpass/internal/models"
	"github.com/atinyakov/keeperpass/internal/overlay"
)

type recordingSetter struct {
	sent []string
}

func (r *recordingSetter) SetPassphrase(p string) { r.sent = append(r.sent, p) }

type fakeSession struct {
	state     models.AuthState
	unlockErr error
	got       string
}

func (s *fakeSession) AuthenticationState() models.AuthState { return s.state }

func (s *fakeSession) Unlock(_ context.Context, p string) error {
	s.got = p
	if s.unlockErr != nil {
		return s.unlockErr
	}
	s.state = models.Authenticated
	return nil
}

type testApp struct {
	app       *App
	setter    *recordingSetter
	session   *fakeSession
	container *Container
	sched     *Scheduler
}

func newTestApp(t *testing.T, state models.AuthState, animate bool) *testApp {
	t.Helper()
	ta := &testApp{
		setter:    &recordingSetter{},
		session:   &fakeSession{state: state},
		container: NewContainer(animate),
		sched:     NewScheduler(),
	}
	o, err := overlay.New(overlay.Config{
		Title:     DefaultStrings.Title,
		Container: ta.container,
		Setter:    ta.setter,
		Auth:      ta.session,
		Scheduler: ta.sched,
	}, NewElements(DefaultStrings))
	require.NoError(t, err)

	ta.app = NewApp(AppConfig{
		Overlay:   o,
		Container: ta.container,
		Scheduler: ta.sched,
		Session:   ta.session,
		Strings:   DefaultStrings,
		Keys:      DefaultKeyMap,
		User:      "alice",
	})
	return ta
}

func (ta *testApp) send(msg tea.Msg) tea.Cmd {
	_, cmd := ta.app.Update(msg)
	return cmd
}

func (ta *testApp) typeText(s string) {
	ta.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (ta *testApp) press(k tea.KeyType) {
	ta.send(tea.KeyMsg{Type: k})
}

func (ta *testApp) open(t *testing.T) {
	t.Helper()
	ta.typeText("p")
	require.Equal(t, overlay.Showing, ta.app.o.Visibility())
	ta.send(shownMsg{})
	require.Equal(t, overlay.Visible, ta.app.o.Visibility())
}

func TestApp_OverlayRefusedWhenLocked(t *testing.T) {
	ta := newTestApp(t, models.Unauthenticated, false)

	ta.typeText("p")

	assert.Equal(t, overlay.Hidden, ta.app.o.Visibility())
	assert.True(t, ta.app.statusErr)
	assert.Contains(t, ta.app.View(), "Unlock the settings")
	assert.Empty(t, ta.app.view.View(ta.container.Opacity()))
}

func TestApp_SubmitWithEnterKeys(t *testing.T) {
	ta := newTestApp(t, models.Authenticated, false)
	ta.open(t)
	assert.True(t, ta.app.view.passphrase.Focused())

	ta.typeText("abc")
	ta.press(tea.KeyEnter)
	assert.Equal(t, overlay.FocusConfirm, ta.app.o.Focused())
	assert.True(t, ta.app.view.confirm.Focused())
	assert.Empty(t, ta.setter.sent, "enter in the passphrase field never submits")

	ta.typeText("ab")
	assert.Contains(t, ta.app.View(), DefaultStrings.Mismatch)
	ta.press(tea.KeyEnter)
	assert.Empty(t, ta.setter.sent, "mismatched enter is swallowed")

	ta.typeText("c")
	assert.NotContains(t, ta.app.View(), DefaultStrings.Mismatch)
	ta.press(tea.KeyEnter)
	assert.Equal(t, []string{"abc"}, ta.setter.sent)
	assert.Equal(t, overlay.Closing, ta.app.o.Visibility())
	require.Equal(t, 1, ta.sched.Pending())

	// No animation: the fallback timer performs the reset.
	ta.send(timerMsg{id: 1})
	assert.Equal(t, overlay.Hidden, ta.app.o.Visibility())
	assert.Empty(t, ta.app.view.passphrase.Value())
	assert.Empty(t, ta.app.view.confirm.Value())
	assert.Zero(t, ta.sched.Pending())
}

func TestApp_SaveButtonDisabledUntilValid(t *testing.T) {
	ta := newTestApp(t, models.Authenticated, false)
	ta.open(t)

	ta.press(tea.KeyTab)
	ta.press(tea.KeyTab)
	require.Equal(t, slotSave, ta.app.view.slot)
	ta.press(tea.KeyEnter)
	assert.Empty(t, ta.setter.sent)
	assert.Equal(t, overlay.Visible, ta.app.o.Visibility())

	ta.press(tea.KeyShiftTab)
	ta.press(tea.KeyShiftTab)
	require.Equal(t, slotPassphrase, ta.app.view.slot)
	ta.typeText("pass")
	ta.press(tea.KeyTab)
	ta.typeText("pass")
	ta.press(tea.KeyTab)
	ta.press(tea.KeyEnter)
	assert.Equal(t, []string{"pass"}, ta.setter.sent)
}

func TestApp_OverlongPassphraseNotSent(t *testing.T) {
	ta := newTestApp(t, models.Authenticated, false)
	ta.open(t)

	long := strings.Repeat("a", models.MaxPassphraseBytes+1)
	ta.typeText(long)
	ta.press(tea.KeyTab)
	ta.typeText(long)
	assert.True(t, ta.app.o.ForTesting().SaveDisabled())

	ta.press(tea.KeyEnter)
	ta.press(tea.KeyTab)
	ta.press(tea.KeyEnter)
	assert.Empty(t, ta.setter.sent)
	assert.Equal(t, overlay.Visible, ta.app.o.Visibility())

	// Trim one byte from each field.
	ta.press(tea.KeyShiftTab)
	require.Equal(t, slotConfirm, ta.app.view.slot)
	ta.press(tea.KeyBackspace)
	ta.press(tea.KeyShiftTab)
	require.Equal(t, slotPassphrase, ta.app.view.slot)
	ta.press(tea.KeyBackspace)
	assert.False(t, ta.app.o.ForTesting().SaveDisabled())
}

func TestApp_EscapeCancelsAndTransitionResets(t *testing.T) {
	ta := newTestApp(t, models.Authenticated, false)
	ta.open(t)
	ta.typeText("secret")

	ta.press(tea.KeyEsc)
	assert.Equal(t, overlay.Closing, ta.app.o.Visibility())
	assert.Empty(t, ta.setter.sent)

	ta.send(transitionEndMsg{ev: overlay.TransitionEnd{Property: "transform", Target: ta.container}})
	assert.Equal(t, "secret", ta.app.view.passphrase.Value())

	ta.send(transitionEndMsg{ev: overlay.TransitionEnd{Property: overlay.OpacityProperty, Target: ta.container}})
	assert.Equal(t, overlay.Hidden, ta.app.o.Visibility())
	assert.Empty(t, ta.app.view.passphrase.Value())

	ta.send(timerMsg{id: 1})
	assert.Equal(t, overlay.Hidden, ta.app.o.Visibility())
}

func TestApp_AnimatedContainerDrivesLifecycle(t *testing.T) {
	ta := newTestApp(t, models.Authenticated, true)
	ta.typeText("p")
	require.Equal(t, overlay.Showing, ta.app.o.Visibility())

	for i := 0; i < defaultFrames; i++ {
		ta.send(frameMsg{seq: ta.container.seq})
	}
	assert.Equal(t, 1.0, ta.container.Opacity())
	ta.send(shownMsg{})
	require.Equal(t, overlay.Visible, ta.app.o.Visibility())

	ta.press(tea.KeyEsc)
	for i := 0; i < defaultFrames; i++ {
		ta.send(frameMsg{seq: ta.container.seq})
	}
	assert.Equal(t, 0.0, ta.container.Opacity())
	ta.send(transitionEndMsg{ev: overlay.TransitionEnd{Property: overlay.OpacityProperty, Target: ta.container}})
	assert.Equal(t, overlay.Hidden, ta.app.o.Visibility())
}

func TestApp_Unlock(t *testing.T) {
	ta := newTestApp(t, models.Unauthenticated, false)
	ta.session.unlockErr = errors.New("boom")

	ta.typeText("u")
	require.True(t, ta.app.unlocking)
	ta.typeText("old")
	cmd := ta.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	ta.send(unlockResultMsg{err: ta.session.Unlock(context.Background(), "old")})
	assert.True(t, ta.app.unlocking)
	assert.Contains(t, ta.app.status, "boom")

	ta.session.unlockErr = nil
	ta.send(unlockResultMsg{err: ta.session.Unlock(context.Background(), "old")})
	assert.False(t, ta.app.unlocking)
	assert.Equal(t, "old", ta.session.got)
	assert.Equal(t, models.Authenticated, ta.session.state)

	ta.open(t)
}

func TestApp_QuitKey(t *testing.T) {
	ta := newTestApp(t, models.Authenticated, false)
	cmd := ta.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}
