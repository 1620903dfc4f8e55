// SPDX-License-Identifier: BSD-3-Clause

// Command towerctl runs the evaporative cooling plant control engine: an
// embedded NATS bus, the 7 s control tick, and the 45 s telemetry
// reporter, supervised under a single oversight tree and shut down on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cirello.io/oversight/v2"
	"github.com/nats-io/nats.go"

	"github.com/towerctl/towerctl/pkg/control"
	"github.com/towerctl/towerctl/pkg/log"
	"github.com/towerctl/towerctl/pkg/telemetry"
	"github.com/towerctl/towerctl/service"
	"github.com/towerctl/towerctl/service/controlengine"
	"github.com/towerctl/towerctl/service/ipc"
)

// processTimeout bounds how long the supervision tree waits for a single
// child to stop before considering it hung.
const processTimeout = 10 * time.Second

func main() {
	log.RedirectSlogger()
	logger := log.GetGlobalLogger()

	if err := run(logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("towerctl exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, telemetry.WithServiceName("towerctl"))
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	reporter := telemetry.NewReporter(httpLineWriter("http://localhost:8186/write"), telemetry.ReportInterval)

	ipcService := ipc.New(
		ipc.WithServiceName("towerctl-ipc"),
		ipc.WithJetStream(true),
	)
	engine := controlengine.New(
		controlengine.WithName("controlengine"),
		controlengine.WithControlConfig(control.DefaultConfig()),
		controlengine.WithObserver(reporter.Observe),
	)

	tree := oversight.New(
		oversight.NeverHalt(),
		oversight.DefaultRestartStrategy(),
		oversight.WithLogger(log.NewOversightLogger(logger)),
	)

	if err := addService(tree, ipcService, nil); err != nil {
		return err
	}

	// GetConnProvider blocks internally until the embedded server is
	// listening (or its startup timeout elapses), so the engine can be
	// added to the tree immediately without waiting on ipcService.Run.
	conn := ipcService.GetConnProvider()
	if err := addService(tree, engine, conn); err != nil {
		return err
	}
	if err := tree.Add(reporterProcess(reporter), oversight.Transient(), oversight.Timeout(processTimeout), "telemetryreporter"); err != nil {
		return fmt.Errorf("failed to add telemetryreporter to tree: %w", err)
	}

	logger.InfoContext(ctx, "towerctl starting")
	return tree.Start(ctx)
}

// addService wraps a service.Service as an oversight.ChildProcess and
// adds it to tree under its own name, recovering panics into errors so
// one service crashing cannot take the process down.
func addService(tree *oversight.Tree, s service.Service, ipcConn nats.InProcessConnProvider) error {
	if err := tree.Add(serviceProcess(s, ipcConn), oversight.Transient(), oversight.Timeout(processTimeout), s.Name()); err != nil {
		return fmt.Errorf("failed to add %s to tree: %w", s.Name(), err)
	}
	return nil
}

func serviceProcess(s service.Service, ipcConn nats.InProcessConnProvider) oversight.ChildProcess {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", s.Name(), r)
			}
		}()
		return s.Run(ctx, ipcConn)
	}
}

// reporterProcess adapts Reporter.Run, which takes no IPC connection, to
// the oversight.ChildProcess shape the other services use.
func reporterProcess(r *telemetry.Reporter) oversight.ChildProcess {
	return func(ctx context.Context) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("telemetryreporter panicked: %v", rec)
			}
		}()
		return r.Run(ctx)
	}
}

// httpLineWriter posts a single line-protocol record to a line-protocol
// write endpoint (e.g. an InfluxDB-compatible collector).
func httpLineWriter(endpoint string) telemetry.LineWriter {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(ctx context.Context, line string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(line))
		if err != nil {
			return fmt.Errorf("build telemetry request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("post telemetry line: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return fmt.Errorf("telemetry endpoint returned status %d", resp.StatusCode)
		}
		return nil
	}
}
