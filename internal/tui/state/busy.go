package state

// Busy is the single-slot blocking overlay. A second Begin overwrites the
// message; End hides the overlay regardless of how many Begins preceded it.
type Busy struct {
	visible bool
	message string
}

// Begin shows the overlay with message.
func (b *Busy) Begin(message string) {
	b.visible = true
	b.message = message
}

// End hides the overlay.
func (b *Busy) End() {
	b.visible = false
	b.message = ""
}

// Visible reports whether the overlay is shown.
func (b *Busy) Visible() bool { return b.visible }

// Message returns the overlay text.
func (b *Busy) Message() string { return b.message }
