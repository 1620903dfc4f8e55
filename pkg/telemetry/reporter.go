// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/towerctl/towerctl/pkg/control"
)

// ReportInterval is the external publisher's fixed push cadence, per the
// line-protocol contract.
const ReportInterval = 45 * time.Second

// LineWriter accepts one rendered line-protocol record per call. A NATS
// publish to a metrics subject, or an HTTP line-protocol endpoint client,
// both satisfy this signature.
type LineWriter func(ctx context.Context, line string) error

// Reporter pulls the latest command snapshot on a fixed interval and
// publishes it as a line-protocol record. The engine itself emits
// nothing; Reporter is the separate external collaborator named in the
// telemetry contract.
type Reporter struct {
	write    LineWriter
	interval time.Duration

	mu     sync.Mutex
	latest *control.Commands
}

// NewReporter builds a Reporter that pushes via write every interval (use
// ReportInterval for the documented 45 s cadence).
func NewReporter(write LineWriter, interval time.Duration) *Reporter {
	return &Reporter{write: write, interval: interval}
}

// Observe records the most recent command snapshot, overwriting any
// snapshot not yet published. The control engine calls this once per
// tick; Reporter decouples the 45 s publish cadence from the 7 s control
// cadence.
func (r *Reporter) Observe(cmd control.Commands) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = &cmd
}

// Run blocks, publishing the latest observed snapshot on r.interval,
// until ctx is canceled. A tick with no snapshot observed yet is skipped.
func (r *Reporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.mu.Lock()
			snap := r.latest
			r.mu.Unlock()
			if snap == nil {
				continue
			}
			if err := r.write(ctx, renderLine(*snap)); err != nil {
				return fmt.Errorf("telemetry: publish line-protocol record: %w", err)
			}
		}
	}
}

// renderLine formats a command snapshot as measurement=metrics,<tags>
// <fields>, per the telemetry contract (§6): per-tower fan speed and VFD
// enable, per-pump enable, and plant-level fields. Per-tower currents,
// temperatures and vibration zones are not in the line; Commands does not
// carry them.
func renderLine(cmd control.Commands) string {
	var tags strings.Builder
	fmt.Fprintf(&tags, "lead=%d", int(cmd.LeadTower))

	var fields strings.Builder
	fields.WriteString("activeTowers=")
	fields.WriteString(strconv.Itoa(cmd.ActiveTowers))
	fields.WriteString(",coolingDemand=")
	fields.WriteString(strconv.FormatFloat(cmd.CoolingDemand, 'f', 2, 64))
	fields.WriteString(",loopDeltaT=")
	fields.WriteString(strconv.FormatFloat(cmd.LoopDeltaT, 'f', 2, 64))
	fields.WriteString(",bypassValve=")
	fields.WriteString(strconv.FormatFloat(cmd.BypassValvePosition, 'f', 2, 64))
	fields.WriteString(",temperingValve=")
	fields.WriteString(strconv.FormatFloat(cmd.TemperingValvePosition, 'f', 2, 64))
	fields.WriteString(",towerSupplyTemp=")
	fields.WriteString(strconv.FormatFloat(cmd.TowerSupplyTemp, 'f', 2, 64))
	fields.WriteString(",hpSupplyTemp=")
	fields.WriteString(strconv.FormatFloat(cmd.HPSupplyTemp, 'f', 2, 64))
	fields.WriteString(",alarmStatus=\"")
	fields.WriteString(string(cmd.AlarmStatus))
	fields.WriteString("\"")

	for i, tc := range cmd.Towers {
		fmt.Fprintf(&fields, ",tower%dFanSpeed=%s,tower%dEnabled=%t",
			i+1, strconv.FormatFloat(tc.FanSpeed, 'f', 2, 64), i+1, tc.VFDEnable)
	}
	for i, on := range cmd.Pumps {
		fmt.Fprintf(&fields, ",pump%dEnabled=%t", i+1, on)
	}

	return fmt.Sprintf("measurement=metrics,%s %s %d", tags.String(), fields.String(), cmd.Timestamp.UnixNano())
}
