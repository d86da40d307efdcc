package overlay

// FieldID names one of the overlay's text fields.
type FieldID int

const (
	FocusNone FieldID = iota
	FocusPassphrase
	FocusConfirm
)

// ButtonID names one of the overlay's action controls.
type ButtonID int

const (
	ButtonSave ButtonID = iota
	ButtonCancel
)

// Key is a key press delivered to a focused field.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
)

// Input replaces the text of a field and recomputes derived state.
func (o *Overlay) Input(id FieldID, value string) {
	f := o.field(id)
	if f == nil {
		return
	}
	f.SetValue(value)
	o.OnFieldInput()
}

// Focus moves input focus to a field while the overlay is visible.
func (o *Overlay) Focus(id FieldID) {
	if o.visibility != Visible {
		return
	}
	o.focused = id
}

// KeyPress handles a key pressed in a field. Enter in the passphrase field
// advances to the confirmation field. Enter in the confirmation field
// submits when both fields are valid and is swallowed otherwise.
func (o *Overlay) KeyPress(id FieldID, k Key) {
	if k != KeyEnter {
		return
	}
	switch id {
	case FocusPassphrase:
		o.Focus(FocusConfirm)
	case FocusConfirm:
		if !o.els.Confirm.Valid() || !o.els.Passphrase.Valid() {
			return
		}
		o.RequestSubmit()
	}
}

// Activate handles a click on an action control.
func (o *Overlay) Activate(id ButtonID) {
	switch id {
	case ButtonSave:
		o.RequestSubmit()
	case ButtonCancel:
		o.RequestCancel()
	}
}

func (o *Overlay) field(id FieldID) *Field {
	switch id {
	case FocusPassphrase:
		return o.els.Passphrase
	case FocusConfirm:
		return o.els.Confirm
	default:
		return nil
	}
}

// Testing exposes the overlay's observable state to test harnesses.
type Testing struct {
	o *Overlay
}

// ForTesting returns the accessor bundle for o.
func (o *Overlay) ForTesting() Testing { return Testing{o: o} }

// PassphraseValue returns the passphrase field text.
func (t Testing) PassphraseValue() string { return t.o.els.Passphrase.Value() }

// ConfirmValue returns the confirmation field text.
func (t Testing) ConfirmValue() string { return t.o.els.Confirm.Value() }

// SaveDisabled reports whether the save button is disabled.
func (t Testing) SaveDisabled() bool { return t.o.els.Save.Disabled() }

// MismatchHidden reports whether the mismatch indicator is hidden.
func (t Testing) MismatchHidden() bool { return t.o.els.Mismatch.Hidden() }

// SetPassphraseInput sets the passphrase text without recomputing.
func (t Testing) SetPassphraseInput(v string) { t.o.els.Passphrase.SetValue(v) }

// SetConfirmInput sets the confirmation text without recomputing.
func (t Testing) SetConfirmInput(v string) { t.o.els.Confirm.SetValue(v) }

// UpdateDisplay forces a synchronous recomputation of derived state.
func (t Testing) UpdateDisplay() { t.o.OnFieldInput() }
