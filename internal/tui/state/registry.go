// Package state holds the application state shared by every panel: the
// active panel, the busy overlay, the notification line and the chart
// slots. All methods are called from the Bubble Tea update loop.
package state

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/examcoach/examcoach/internal/log"
)

// ErrUnknownPanel is returned when activating a panel outside the fixed set.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel identifies one of the top-level views.
type Panel int

const (
	PanelSubmit Panel = iota
	PanelAnalysis
	PanelPlan
	PanelRecommendations
	PanelDashboard
)

// Panels lists every panel in tab order.
var Panels = []Panel{PanelSubmit, PanelAnalysis, PanelPlan, PanelRecommendations, PanelDashboard}

var panelIDs = map[Panel]string{
	PanelSubmit:          "submit",
	PanelAnalysis:        "analysis",
	PanelPlan:            "plan",
	PanelRecommendations: "recommendations",
	PanelDashboard:       "dashboard",
}

var panelTitles = map[Panel]string{
	PanelSubmit:          "Submit Test",
	PanelAnalysis:        "Weak Topics",
	PanelPlan:            "Study Plan",
	PanelRecommendations: "Recommendations",
	PanelDashboard:       "Dashboard",
}

// String returns the panel id.
func (p Panel) String() string {
	if id, ok := panelIDs[p]; ok {
		return id
	}
	return fmt.Sprintf("panel(%d)", int(p))
}

// Title returns the tab caption.
func (p Panel) Title() string { return panelTitles[p] }

// Valid reports whether p is one of the fixed panels.
func (p Panel) Valid() bool {
	_, ok := panelIDs[p]
	return ok
}

// ParsePanel returns the panel with the given id.
func ParsePanel(id string) (Panel, error) {
	for p, pid := range panelIDs {
		if pid == id {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPanel, id)
}

// Effect is a side effect to run when a panel is entered.
type Effect int

const (
	EffectNone Effect = iota
	EffectRefreshProgress
)

// EffectFor returns the on-enter effect of a panel.
func EffectFor(p Panel) Effect {
	if p == PanelDashboard {
		return EffectRefreshProgress
	}
	return EffectNone
}

// Registry tracks the single active panel.
type Registry struct {
	active Panel
	logger *zap.Logger
}

// NewRegistry returns a registry with the submit panel active.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = log.Nop()
	}
	return &Registry{active: PanelSubmit, logger: logger}
}

// Active returns the active panel.
func (r *Registry) Active() Panel { return r.active }

// Activate makes p the active panel and returns its on-enter effect.
// Activating the active panel runs the effect again.
func (r *Registry) Activate(p Panel) (Effect, error) {
	if !p.Valid() {
		return EffectNone, fmt.Errorf("%w: %d", ErrUnknownPanel, int(p))
	}
	prev := r.active
	r.active = p
	r.logger.Debug("panel activated", log.Event(log.EventPanelActivated),
		zap.Stringer("panel", p), zap.Stringer("previous", prev))
	return EffectFor(p), nil
}

// ActivateID activates the panel with the given id.
func (r *Registry) ActivateID(id string) (Effect, error) {
	p, err := ParsePanel(id)
	if err != nil {
		return EffectNone, err
	}
	return r.Activate(p)
}

// Next activates the panel after the active one, wrapping around.
func (r *Registry) Next() Effect {
	eff, _ := r.Activate(Panels[(r.index()+1)%len(Panels)])
	return eff
}

// Prev activates the panel before the active one, wrapping around.
func (r *Registry) Prev() Effect {
	eff, _ := r.Activate(Panels[(r.index()+len(Panels)-1)%len(Panels)])
	return eff
}

func (r *Registry) index() int {
	for i, p := range Panels {
		if p == r.active {
			return i
		}
	}
	return 0
}
