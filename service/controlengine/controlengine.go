// SPDX-License-Identifier: BSD-3-Clause

// Package controlengine ticks the control engine on a fixed schedule,
// bridging its pure decision function to the embedded NATS bus: sensor
// snapshots and operator overrides arrive as messages, each tick's
// output snapshot is published, and the telemetry reporter is fed the
// latest snapshot for its own independent publish cadence.
package controlengine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/towerctl/towerctl/pkg/control"
	"github.com/towerctl/towerctl/pkg/ipc"
	"github.com/towerctl/towerctl/pkg/log"
	"github.com/towerctl/towerctl/pkg/telemetry"
	"github.com/towerctl/towerctl/service"
)

// Compile-time assertion that ControlEngine implements service.Service.
var _ service.Service = (*ControlEngine)(nil)

// Observer receives every command snapshot as it is produced, on the
// same goroutine that ticks Step. Implementations must not block; the
// telemetry reporter's Observe method satisfies this signature.
type Observer func(control.Commands)

// ControlEngine ticks control.Step on control.TickPeriod, sourcing
// sensor snapshots and operator overrides from NATS subjects and
// publishing the resulting command snapshot back to the bus.
type ControlEngine struct {
	config   config
	observer Observer

	nc     *nats.Conn
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	ticksTotal      metric.Int64Counter
	safetyTripTotal metric.Int64Counter
	tickDuration    metric.Float64Histogram

	mu       sync.Mutex
	state    control.PlantState
	sensors  control.Sensors
	override control.UIOverrides
}

// New creates a ControlEngine with the provided options. If no name is
// set, "controlengine" is used; if no control config is set,
// control.DefaultConfig() is used.
func New(opts ...Option) *ControlEngine {
	cfg := &config{
		name:       "controlengine",
		ctrlConfig: control.DefaultConfig(),
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return &ControlEngine{config: *cfg, observer: cfg.observer}
}

// Name returns the service name. It implements service.Service.
func (s *ControlEngine) Name() string {
	return s.config.name
}

// Run connects to the embedded NATS bus, subscribes for sensor
// snapshots and operator overrides, and ticks control.Step every
// control.TickPeriod until ctx is canceled. It implements
// service.Service.
func (s *ControlEngine) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	if err := s.config.ctrlConfig.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	s.tracer = otel.Tracer(s.config.name)
	s.meter = telemetry.GetMeter(s.config.name)
	s.logger = log.GetGlobalLogger().With("service", s.config.name)

	if err := s.initializeMetrics(); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	var err error
	s.nc, err = nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer s.nc.Drain()

	sensorSub, err := s.nc.Subscribe(ipc.SubjectPlantSensors, s.handleSensors)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", ipc.SubjectPlantSensors, err)
	}
	defer sensorSub.Unsubscribe()

	overrideSub, err := s.nc.Subscribe(ipc.SubjectPlantOverride, s.handleOverride)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", ipc.SubjectPlantOverride, err)
	}
	defer overrideSub.Unsubscribe()

	s.mu.Lock()
	s.state = control.NewPlantState(time.Now())
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Starting control engine", "tick_period", control.TickPeriod)

	ticker := time.NewTicker(control.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Stopping control engine", "reason", ctx.Err())
			return ctx.Err()
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

func (s *ControlEngine) tick(ctx context.Context, now time.Time) {
	tickID := uuid.New().String()
	ctx, span := s.tracer.Start(ctx, "controlengine.tick",
		trace.WithAttributes(attribute.String("tick.id", tickID)))
	defer span.End()

	start := time.Now()

	s.mu.Lock()
	sensors := s.sensors
	override := s.override
	state := s.state
	s.mu.Unlock()

	cmd, next := control.Step(s.config.ctrlConfig, sensors, override, state, now)

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.ticksTotal.Add(ctx, 1)
	s.tickDuration.Record(ctx, time.Since(start).Seconds())
	if cmd.AlarmStatus == control.AlarmCritical || cmd.AlarmStatus == control.AlarmError {
		s.safetyTripTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("alarm_status", string(cmd.AlarmStatus))))
	}

	span.SetAttributes(
		attribute.String("alarm_status", string(cmd.AlarmStatus)),
		attribute.Int("active_towers", cmd.ActiveTowers),
		attribute.String("lead_tower", fmt.Sprintf("tower%d", cmd.LeadTower)),
	)

	if err := s.publish(ctx, cmd); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish command snapshot",
			"tick_id", tickID, "error", err)
		span.RecordError(err)
	}

	if s.observer != nil {
		s.observer(cmd)
	}
}

func (s *ControlEngine) publish(ctx context.Context, cmd control.Commands) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command snapshot: %w", err)
	}
	if err := s.nc.Publish(ipc.SubjectPlantCommands, data); err != nil {
		return fmt.Errorf("publish command snapshot: %w", err)
	}
	return nil
}

func (s *ControlEngine) handleSensors(msg *nats.Msg) {
	var sensors control.Sensors
	if err := json.Unmarshal(msg.Data, &sensors); err != nil {
		s.logger.Warn("Invalid sensor snapshot", "subject", msg.Subject, "error", err)
		return
	}

	s.mu.Lock()
	s.sensors = sensors
	s.mu.Unlock()
}

func (s *ControlEngine) handleOverride(msg *nats.Msg) {
	var override control.UIOverrides
	if err := json.Unmarshal(msg.Data, &override); err != nil {
		s.logger.Warn("Invalid UI override", "subject", msg.Subject, "error", err)
		return
	}

	s.mu.Lock()
	s.override = override
	s.mu.Unlock()
}

func (s *ControlEngine) initializeMetrics() error {
	var err error

	s.ticksTotal, err = s.meter.Int64Counter(
		"controlengine_ticks_total",
		metric.WithDescription("Total number of control ticks executed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ticks counter: %w", err)
	}

	s.safetyTripTotal, err = s.meter.Int64Counter(
		"controlengine_safety_trips_total",
		metric.WithDescription("Total number of ticks ending in a critical or error alarm status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create safety trip counter: %w", err)
	}

	s.tickDuration, err = s.meter.Float64Histogram(
		"controlengine_tick_duration_seconds",
		metric.WithDescription("Duration of each control tick"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tick duration histogram: %w", err)
	}

	return nil
}
