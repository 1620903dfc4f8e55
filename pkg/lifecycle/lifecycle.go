// SPDX-License-Identifier: BSD-3-Clause

// Package lifecycle models the tower run-phase and pump changeover
// state graphs with github.com/qmuntal/stateless, for operator tooling:
// validating a recorded sequence of observations and rendering the
// legal transition graph for runbooks. It is descriptive only. The
// control engine recomputes both state graphs fresh every tick from
// elapsed time and sensor readings, and never calls into this package
// from its control path.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/qmuntal/stateless"
)

// TowerPhase mirrors control.RunPhase's three values, redeclared here
// so this package stays independent of pkg/control.
type TowerPhase int

const (
	TowerOff TowerPhase = iota
	TowerRunning
	TowerCooldown
)

func (p TowerPhase) String() string {
	switch p {
	case TowerOff:
		return "off"
	case TowerRunning:
		return "running"
	case TowerCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

const (
	triggerStart  = "start"
	triggerStop   = "stop"
	triggerExpire = "expire"
)

// TowerMachine validates a tower's observed phase sequence against the
// legal graph:
//
//	off      -> running   (start)
//	running  -> cooldown  (stop)
//	cooldown -> off       (expire, cooldown timer elapsed)
//
// Minimum-runtime holds and demand-driven restarts reset the dwell
// timer but never leave this graph; they are a running->running
// self-loop the control engine applies directly, never through this
// machine.
type TowerMachine struct {
	mu      sync.Mutex
	machine *stateless.StateMachine
}

// NewTowerMachine builds a machine starting in the given phase.
func NewTowerMachine(initial TowerPhase) *TowerMachine {
	m := stateless.NewStateMachine(initial)

	m.Configure(TowerOff).
		Permit(triggerStart, TowerRunning)

	m.Configure(TowerRunning).
		Permit(triggerStop, TowerCooldown)

	m.Configure(TowerCooldown).
		Permit(triggerExpire, TowerOff)

	return &TowerMachine{machine: m}
}

// Observe drives the machine from its current phase to next. It
// returns ErrInvalidTransition if next is not reachable in one step.
func (t *TowerMachine) Observe(ctx context.Context, next TowerPhase) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, _ := t.machine.State(ctx)
	trigger, err := towerTriggerFor(cur.(TowerPhase), next)
	if err != nil {
		return err
	}

	if ok, _ := t.machine.CanFire(trigger); !ok {
		return fmt.Errorf("%w: %s -> %s via %s", ErrInvalidTransition, cur, next, trigger)
	}

	return t.machine.FireCtx(ctx, trigger)
}

// State returns the machine's current phase.
func (t *TowerMachine) State(ctx context.Context) TowerPhase {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, _ := t.machine.State(ctx)
	return s.(TowerPhase)
}

// ToGraph renders the legal transition graph in DOT format.
func (t *TowerMachine) ToGraph() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.machine.ToGraph()
}

func towerTriggerFor(cur, next TowerPhase) (string, error) {
	switch {
	case cur == TowerOff && next == TowerRunning:
		return triggerStart, nil
	case cur == TowerRunning && next == TowerCooldown:
		return triggerStop, nil
	case cur == TowerCooldown && next == TowerOff:
		return triggerExpire, nil
	default:
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur, next)
	}
}

// PumpPhase is a pump supervisor's changeover state: either running
// steady on its recorded active pump, or mid-changeover with both the
// outgoing and incoming pump enabled during the overlap window.
type PumpPhase int

const (
	PumpSteady PumpPhase = iota
	PumpChangingOver
)

func (p PumpPhase) String() string {
	switch p {
	case PumpSteady:
		return "steady"
	case PumpChangingOver:
		return "changing_over"
	default:
		return "unknown"
	}
}

const (
	triggerBeginChangeover = "begin_changeover"
	triggerCompleteOverlap = "complete_overlap"
)

// PumpMachine validates a pump supervisor's observed changeover
// sequence against the legal graph:
//
//	steady        -> changing_over  (begin_changeover: rotation or failover)
//	changing_over -> steady         (complete_overlap: overlap window elapsed)
type PumpMachine struct {
	mu      sync.Mutex
	machine *stateless.StateMachine
}

// NewPumpMachine builds a machine starting in the given phase.
func NewPumpMachine(initial PumpPhase) *PumpMachine {
	m := stateless.NewStateMachine(initial)

	m.Configure(PumpSteady).
		Permit(triggerBeginChangeover, PumpChangingOver)

	m.Configure(PumpChangingOver).
		Permit(triggerCompleteOverlap, PumpSteady)

	return &PumpMachine{machine: m}
}

// Observe drives the machine from its current phase to next.
func (p *PumpMachine) Observe(ctx context.Context, next PumpPhase) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, _ := p.machine.State(ctx)
	trigger, err := pumpTriggerFor(cur.(PumpPhase), next)
	if err != nil {
		return err
	}

	if ok, _ := p.machine.CanFire(trigger); !ok {
		return fmt.Errorf("%w: %s -> %s via %s", ErrInvalidTransition, cur, next, trigger)
	}

	return p.machine.FireCtx(ctx, trigger)
}

// State returns the machine's current phase.
func (p *PumpMachine) State(ctx context.Context) PumpPhase {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, _ := p.machine.State(ctx)
	return s.(PumpPhase)
}

// ToGraph renders the legal transition graph in DOT format.
func (p *PumpMachine) ToGraph() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.machine.ToGraph()
}

func pumpTriggerFor(cur, next PumpPhase) (string, error) {
	switch {
	case cur == PumpSteady && next == PumpChangingOver:
		return triggerBeginChangeover, nil
	case cur == PumpChangingOver && next == PumpSteady:
		return triggerCompleteOverlap, nil
	default:
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur, next)
	}
}
