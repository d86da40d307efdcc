package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atinyakov/keeperpass/internal/models"
	"github.com/atinyakov/keeperpass/internal/overlay"
)

// focus ring of the overlay: two fields followed by the two buttons.
type ringSlot int

const (
	slotPassphrase ringSlot = iota
	slotConfirm
	slotSave
	slotCancel
	slotCount
)

// Strings are the localized texts of the passphrase overlay.
type Strings struct {
	Title           string
	PassphraseLabel string
	ConfirmLabel    string
	Mismatch        string
	Save            string
	Cancel          string
}

// DefaultStrings are the English texts.
var DefaultStrings = Strings{
	Title:           "Set passphrase",
	PassphraseLabel: "Passphrase",
	ConfirmLabel:    "Confirm passphrase",
	Mismatch:        "The passphrases do not match.",
	Save:            "Save",
	Cancel:          "Cancel",
}

// NewElements creates the overlay handles for the given texts. Both fields
// are required and limited to what the server can hash.
func NewElements(s Strings) overlay.Elements {
	c := overlay.Constraint{Required: true, MaxBytes: models.MaxPassphraseBytes}
	return overlay.Elements{
		Passphrase: overlay.NewField(c),
		Confirm:    overlay.NewField(c),
		Mismatch:   overlay.NewIndicator(s.Mismatch),
		Save:       overlay.NewButton(s.Save),
		Cancel:     overlay.NewButton(s.Cancel),
	}
}

func passwordInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Width = 30
	return ti
}

// PassphraseView renders the overlay and translates key presses into
// overlay operations.
type PassphraseView struct {
	o       *overlay.Overlay
	els     overlay.Elements
	strings Strings
	keys    KeyMap

	passphrase textinput.Model
	confirm    textinput.Model
	slot       ringSlot
}

// NewPassphraseView wraps o.
func NewPassphraseView(o *overlay.Overlay, s Strings, keys KeyMap) *PassphraseView {
	return &PassphraseView{
		o:          o,
		els:        o.Elements(),
		strings:    s,
		keys:       keys,
		passphrase: passwordInput(),
		confirm:    passwordInput(),
	}
}

// Update handles a key press while the overlay is visible.
func (v *PassphraseView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.o.Visibility() != overlay.Visible {
		return nil
	}
	switch {
	case key.Matches(msg, v.keys.Cancel):
		v.o.HandleCancel()
		return nil
	case key.Matches(msg, v.keys.Next):
		v.moveTo((v.slot + 1) % slotCount)
		return nil
	case key.Matches(msg, v.keys.Prev):
		v.moveTo((v.slot + slotCount - 1) % slotCount)
		return nil
	case key.Matches(msg, v.keys.Enter):
		v.enter()
		return nil
	}

	switch v.slot {
	case slotPassphrase:
		return v.edit(&v.passphrase, overlay.FocusPassphrase, msg)
	case slotConfirm:
		return v.edit(&v.confirm, overlay.FocusConfirm, msg)
	}
	return nil
}

func (v *PassphraseView) edit(ti *textinput.Model, id overlay.FieldID, msg tea.KeyMsg) tea.Cmd {
	before := ti.Value()
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	if ti.Value() != before {
		v.o.Input(id, ti.Value())
	} else {
		v.o.KeyPress(id, overlay.KeyOther)
	}
	return cmd
}

func (v *PassphraseView) enter() {
	switch v.slot {
	case slotPassphrase:
		v.o.KeyPress(overlay.FocusPassphrase, overlay.KeyEnter)
	case slotConfirm:
		v.o.KeyPress(overlay.FocusConfirm, overlay.KeyEnter)
	case slotSave:
		if !v.els.Save.Disabled() {
			v.o.Activate(overlay.ButtonSave)
		}
	case slotCancel:
		v.o.Activate(overlay.ButtonCancel)
	}
}

func (v *PassphraseView) moveTo(s ringSlot) {
	switch s {
	case slotPassphrase:
		v.o.Focus(overlay.FocusPassphrase)
	case slotConfirm:
		v.o.Focus(overlay.FocusConfirm)
	default:
		v.o.Focus(overlay.FocusNone)
	}
	v.slot = s
}

// Sync copies overlay state into the widgets. It runs after every message
// so that resets and focus moves made by the overlay become visible.
func (v *PassphraseView) Sync() tea.Cmd {
	if v.passphrase.Value() != v.els.Passphrase.Value() {
		v.passphrase.SetValue(v.els.Passphrase.Value())
	}
	if v.confirm.Value() != v.els.Confirm.Value() {
		v.confirm.SetValue(v.els.Confirm.Value())
	}

	switch v.o.Focused() {
	case overlay.FocusPassphrase:
		v.slot = slotPassphrase
	case overlay.FocusConfirm:
		v.slot = slotConfirm
	default:
		if v.slot < slotSave {
			v.slot = slotSave
		}
	}
	if v.o.Visibility() != overlay.Visible {
		v.slot = slotPassphrase
		v.passphrase.Blur()
		v.confirm.Blur()
		return nil
	}

	var cmd tea.Cmd
	v.passphrase.Blur()
	v.confirm.Blur()
	switch v.slot {
	case slotPassphrase:
		cmd = v.passphrase.Focus()
	case slotConfirm:
		cmd = v.confirm.Focus()
	}
	return cmd
}

// View renders the overlay box. opacity is the container's fade level.
func (v *PassphraseView) View(opacity float64) string {
	if v.o.Visibility() == overlay.Hidden || opacity <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.o.Title()))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(v.strings.PassphraseLabel))
	b.WriteString("\n")
	b.WriteString(v.passphrase.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(v.strings.ConfirmLabel))
	b.WriteString("\n")
	b.WriteString(v.confirm.View())
	b.WriteString("\n")
	if !v.els.Mismatch.Hidden() {
		b.WriteString(errorStyle.Render(v.els.Mismatch.Text))
	}
	b.WriteString("\n\n")

	save := buttonStyle
	switch {
	case v.els.Save.Disabled():
		save = disabledButton
	case v.slot == slotSave:
		save = focusedButton
	}
	cancel := buttonStyle
	if v.slot == slotCancel {
		cancel = focusedButton
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		cancel.Render(v.els.Cancel.Label), " ", save.Render(v.els.Save.Label)))

	box := boxStyle
	if opacity < 1 {
		box = box.Faint(true)
	}
	return box.Render(b.String())
}
