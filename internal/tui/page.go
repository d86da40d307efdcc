package tui

import (
	"errors"
	"fmt"
)

// ErrNavigationRefused is returned when a page declines to be shown.
var ErrNavigationRefused = errors.New("navigation refused")

// ErrUnknownPage is returned for a page name that was never registered.
var ErrUnknownPage = errors.New("unknown page")

// Page is an overlay page managed by a PageHost.
type Page interface {
	Name() string
	Title() string
	CanShow() bool
	Show() bool
	HandleCancel()
}

// PageHost registers overlay pages by name and gates navigation to them.
type PageHost struct {
	pages map[string]Page
}

// NewPageHost creates an empty host.
func NewPageHost() *PageHost {
	return &PageHost{pages: make(map[string]Page)}
}

// Register adds p under its name. Registering a name twice panics.
func (h *PageHost) Register(p Page) {
	if _, dup := h.pages[p.Name()]; dup {
		panic(fmt.Sprintf("tui: page %q registered twice", p.Name()))
	}
	h.pages[p.Name()] = p
}

// Navigate shows the named page if it allows it.
func (h *PageHost) Navigate(name string) error {
	p, ok := h.pages[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	if !p.CanShow() || !p.Show() {
		return fmt.Errorf("%w: %s", ErrNavigationRefused, name)
	}
	return nil
}
