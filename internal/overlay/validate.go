package overlay

// OnFieldInput recomputes the derived state after either field changed:
// the mismatch indicator, the confirmation field's custom validity and the
// save button. The result depends only on the two field values and their
// constraints.
func (o *Overlay) OnFieldInput() {
	p, c := o.els.Passphrase, o.els.Confirm

	match := c.Value() == p.Value()
	o.els.Mismatch.SetHidden(match)
	if match {
		c.SetCustomValidity("")
	} else {
		c.SetCustomValidity(o.els.Mismatch.Text)
	}
	o.els.Save.SetDisabled(!c.Valid() || !p.Valid())
}
