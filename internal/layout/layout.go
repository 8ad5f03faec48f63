package layout

import (
	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/pkg/constant"
)

// Mode is the presentation strategy picked for a viewport width
type Mode string

const (
	ModeMobile  Mode = "mobile"
	ModeDesktop Mode = "desktop"
)

// Model tells a renderer which panes to draw and how wide they are
type Model struct {
	Mode        Mode `json:"mode"`
	Width       int  `json:"width"`
	ShowList    bool `json:"show_list"`
	ShowThread  bool `json:"show_thread"`
	ShowBack    bool `json:"show_back"`   // mobile thread view offers a way back to the list
	Placeholder bool `json:"placeholder"` // desktop thread pane with nothing selected
	ListWidth   int  `json:"list_width"`
	ThreadWidth int  `json:"thread_width"`
}

// Resolver picks between the mobile stack and the desktop split pane
type Resolver struct {
	breakpoint int
	listWidth  int
}

// NewResolver creates a Resolver from layout configuration; zero values fall back to defaults
func NewResolver(cfg config.LayoutConfig) *Resolver {
	r := &Resolver{breakpoint: cfg.Breakpoint, listWidth: cfg.ListWidth}
	if r.breakpoint <= 0 {
		r.breakpoint = constant.DefaultBreakpoint
	}
	if r.listWidth <= 0 {
		r.listWidth = constant.DefaultListWidth
	}
	return r
}

// Resolve uses the default thresholds
func Resolve(width int, hasActive bool) Model {
	return NewResolver(config.LayoutConfig{}).Resolve(width, hasActive)
}

// Breakpoint returns the width at which the desktop layout starts
func (r *Resolver) Breakpoint() int {
	return r.breakpoint
}

// Resolve computes the layout. Below the breakpoint exactly one of the list and
// the thread is shown; at or above it both panes are shown side by side.
func (r *Resolver) Resolve(width int, hasActive bool) Model {
	if width < 0 {
		width = 0
	}

	if width < r.breakpoint {
		m := Model{
			Mode:       ModeMobile,
			Width:      width,
			ShowList:   !hasActive,
			ShowThread: hasActive,
			ShowBack:   hasActive,
		}
		if hasActive {
			m.ThreadWidth = width
		} else {
			m.ListWidth = width
		}
		return m
	}

	listWidth := r.listWidth
	if listWidth > width/2 {
		listWidth = width / 2
	}
	return Model{
		Mode:        ModeDesktop,
		Width:       width,
		ShowList:    true,
		ShowThread:  true,
		Placeholder: !hasActive,
		ListWidth:   listWidth,
		ThreadWidth: width - listWidth,
	}
}
