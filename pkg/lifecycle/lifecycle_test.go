// SPDX-License-Identifier: BSD-3-Clause

package lifecycle

import (
	"context"
	"errors"
	"testing"
)

func TestTowerMachineFollowsLegalSequence(t *testing.T) {
	ctx := context.Background()
	m := NewTowerMachine(TowerOff)

	seq := []TowerPhase{TowerRunning, TowerCooldown, TowerOff, TowerRunning}
	for _, next := range seq {
		if err := m.Observe(ctx, next); err != nil {
			t.Fatalf("Observe(%s): %v", next, err)
		}
		if got := m.State(ctx); got != next {
			t.Fatalf("State() = %s, want %s", got, next)
		}
	}
}

func TestTowerMachineRejectsSkippedCooldown(t *testing.T) {
	ctx := context.Background()
	m := NewTowerMachine(TowerRunning)

	if err := m.Observe(ctx, TowerOff); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Observe(TowerOff) from TowerRunning = %v, want ErrInvalidTransition", err)
	}
}

func TestTowerMachineToGraphNonEmpty(t *testing.T) {
	m := NewTowerMachine(TowerOff)
	if m.ToGraph() == "" {
		t.Fatal("ToGraph() returned empty string")
	}
}

func TestPumpMachineFollowsLegalSequence(t *testing.T) {
	ctx := context.Background()
	m := NewPumpMachine(PumpSteady)

	if err := m.Observe(ctx, PumpChangingOver); err != nil {
		t.Fatalf("Observe(PumpChangingOver): %v", err)
	}
	if got := m.State(ctx); got != PumpChangingOver {
		t.Fatalf("State() = %s, want %s", got, PumpChangingOver)
	}

	if err := m.Observe(ctx, PumpSteady); err != nil {
		t.Fatalf("Observe(PumpSteady): %v", err)
	}
	if got := m.State(ctx); got != PumpSteady {
		t.Fatalf("State() = %s, want %s", got, PumpSteady)
	}
}

func TestPumpMachineRejectsDoubleChangeover(t *testing.T) {
	ctx := context.Background()
	m := NewPumpMachine(PumpChangingOver)

	if err := m.Observe(ctx, PumpChangingOver); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Observe(PumpChangingOver) from PumpChangingOver = %v, want ErrInvalidTransition", err)
	}
}
