package overlay

import (
	"regexp"
	"unicode/utf8"
)

// Constraint describes the native constraints of a text field.
type Constraint struct {
	// Required rejects an empty value.
	Required bool
	// MinLength is the minimum number of characters of a non-empty value.
	MinLength int
	// MaxBytes, when positive, caps the encoded length of the value.
	MaxBytes int
	// Pattern must match the whole value when the value is non-empty.
	Pattern *regexp.Regexp
}

// Field is a single-line text input with native constraints and an
// application-supplied validity message.
type Field struct {
	value      string
	constraint Constraint
	anchored   *regexp.Regexp
	custom     string
}

// NewField creates an empty field with the given constraint.
func NewField(c Constraint) *Field {
	f := &Field{constraint: c}
	if c.Pattern != nil {
		f.anchored = regexp.MustCompile(`^(?:` + c.Pattern.String() + `)$`)
	}
	return f
}

// Value returns the current text.
func (f *Field) Value() string { return f.value }

// SetValue replaces the current text.
func (f *Field) SetValue(v string) { f.value = v }

// Clear empties the field and drops any custom validity message.
func (f *Field) Clear() {
	f.value = ""
	f.custom = ""
}

// SetCustomValidity sets the custom validity message. An empty message
// marks the field as valid as far as custom validation is concerned.
func (f *Field) SetCustomValidity(msg string) { f.custom = msg }

// ValidationMessage returns the custom validity message.
func (f *Field) ValidationMessage() string { return f.custom }

// Valid reports whether the value satisfies the native constraints and no
// custom validity message is set.
func (f *Field) Valid() bool {
	return f.custom == "" && f.satisfiesConstraint()
}

func (f *Field) satisfiesConstraint() bool {
	if f.value == "" {
		return !f.constraint.Required
	}
	if utf8.RuneCountInString(f.value) < f.constraint.MinLength {
		return false
	}
	if f.constraint.MaxBytes > 0 && len(f.value) > f.constraint.MaxBytes {
		return false
	}
	if f.anchored != nil && !f.anchored.MatchString(f.value) {
		return false
	}
	return true
}

// Indicator is a piece of text that can be shown or hidden.
type Indicator struct {
	// Text is the message displayed while the indicator is visible.
	Text   string
	hidden bool
}

// NewIndicator creates a hidden indicator carrying text.
func NewIndicator(text string) *Indicator {
	return &Indicator{Text: text, hidden: true}
}

// Hidden reports whether the indicator is hidden.
func (i *Indicator) Hidden() bool { return i.hidden }

// SetHidden shows or hides the indicator.
func (i *Indicator) SetHidden(h bool) { i.hidden = h }

// Button is an activatable control with a disabled flag.
type Button struct {
	// Label is the text rendered on the control.
	Label    string
	disabled bool
}

// NewButton creates an enabled button.
func NewButton(label string) *Button {
	return &Button{Label: label}
}

// Disabled reports whether the button ignores activation.
func (b *Button) Disabled() bool { return b.disabled }

// SetDisabled enables or disables the button.
func (b *Button) SetDisabled(d bool) { b.disabled = d }
