package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atinyakov/keeperpass/internal/overlay"
)

const (
	defaultFrames     = 8
	defaultFrameDelay = 20 * time.Millisecond
)

// frameMsg advances a running fade.
type frameMsg struct {
	seq uint64
}

// shownMsg reports that the show animation finished.
type shownMsg struct{}

// transitionEndMsg carries a finished transition of the container.
type transitionEndMsg struct {
	ev overlay.TransitionEnd
}

// Container fades the overlay box in and out. At the end of a fade it emits
// one transition event per animated property, transform first.
type Container struct {
	opacity    float64
	target     float64
	frames     int
	frameDelay time.Duration
	animate    bool
	seq        uint64
	cmds       []tea.Cmd
}

// NewContainer creates a hidden container. With animate false, Show and Hide
// take effect immediately and no transition events are emitted.
func NewContainer(animate bool) *Container {
	return &Container{
		frames:     defaultFrames,
		frameDelay: defaultFrameDelay,
		animate:    animate,
	}
}

// Opacity returns the current opacity in [0, 1].
func (c *Container) Opacity() float64 { return c.opacity }

// Show starts fading in.
func (c *Container) Show() {
	c.start(1)
}

// Hide starts fading out.
func (c *Container) Hide() {
	c.start(0)
}

func (c *Container) start(target float64) {
	c.seq++
	c.target = target
	if !c.animate {
		c.opacity = target
		if target == 1 {
			c.emit(shownMsg{})
		}
		return
	}
	c.tick()
}

func (c *Container) tick() {
	seq := c.seq
	c.cmds = append(c.cmds, tea.Tick(c.frameDelay, func(time.Time) tea.Msg {
		return frameMsg{seq: seq}
	}))
}

func (c *Container) emit(msg tea.Msg) {
	c.cmds = append(c.cmds, func() tea.Msg { return msg })
}

// Step advances the fade by one frame.
func (c *Container) Step(msg frameMsg) {
	if msg.seq != c.seq || c.opacity == c.target {
		return
	}
	step := 1 / float64(c.frames)
	if c.target > c.opacity {
		c.opacity = min(c.target, c.opacity+step)
	} else {
		c.opacity = max(c.target, c.opacity-step)
	}
	if c.opacity != c.target {
		c.tick()
		return
	}
	c.emit(transitionEndMsg{ev: overlay.TransitionEnd{Property: "transform", Target: c}})
	c.emit(transitionEndMsg{ev: overlay.TransitionEnd{Property: overlay.OpacityProperty, Target: c}})
	if c.target == 1 {
		c.emit(shownMsg{})
	}
}

// Drain returns the queued frame and event commands in order.
func (c *Container) Drain() tea.Cmd {
	if len(c.cmds) == 0 {
		return nil
	}
	cmds := c.cmds
	c.cmds = nil
	return tea.Sequence(cmds...)
}
