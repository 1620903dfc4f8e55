// SPDX-License-Identifier: BSD-3-Clause

package ipc

import (
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// Defaults for the embedded NATS server.
const (
	DefaultServiceName        = "towerctl-ipc"
	DefaultServiceDescription = "embedded NATS server for control-engine IPC"
	DefaultServiceVersion     = "1.0.0"
	DefaultServerName         = "towerctl-ipc"
	DefaultStoreDir           = "/var/lib/towerctl/ipc"
	DefaultMaxMemory          = int64(128 * 1024 * 1024)
	DefaultMaxStorage         = int64(1024 * 1024 * 1024)
	DefaultStartupTimeout     = 5 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
)

type config struct {
	serviceName        string
	serviceDescription string
	serviceVersion     string
	serverName         string
	storeDir           string

	enableJetStream bool
	dontListen      bool

	maxMemory  int64
	maxStorage int64

	startupTimeout  time.Duration
	shutdownTimeout time.Duration

	maxConnections int
	maxControlLine int32
	maxPayload     int32

	writeDeadline time.Duration
	pingInterval  time.Duration
	maxPingsOut   int

	enableSlowConsumerDetection bool
	slowConsumerThreshold       time.Duration
}

// Validate checks the configuration for obviously invalid values before
// the embedded server is created.
func (c *config) Validate() error {
	if c.serviceName == "" {
		return ErrInvalidServerName
	}
	if c.enableJetStream && c.storeDir == "" {
		return ErrStorageDirInvalid
	}
	if c.startupTimeout <= 0 || c.shutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// ToServerOptions translates config into the nats-server options it drives.
func (c *config) ToServerOptions() *server.Options {
	return &server.Options{
		ServerName:         c.serverName,
		DontListen:         c.dontListen,
		JetStream:          c.enableJetStream,
		StoreDir:           c.storeDir,
		JetStreamMaxMemory: c.maxMemory,
		JetStreamMaxStore:  c.maxStorage,
		MaxConn:            c.maxConnections,
		MaxControlLine:     c.maxControlLine,
		MaxPayload:         c.maxPayload,
		WriteDeadline:      c.writeDeadline,
		PingInterval:       c.pingInterval,
		MaxPingsOut:        c.maxPingsOut,
		NoSigs:             true,
	}
}

// Option configures the IPC service.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithServiceName sets the service's reported name.
func WithServiceName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithStoreDir sets the JetStream storage directory.
func WithStoreDir(dir string) Option {
	return optionFunc(func(c *config) { c.storeDir = dir })
}

// WithMaxMemory sets the JetStream in-memory storage limit, in bytes.
func WithMaxMemory(bytes int64) Option {
	return optionFunc(func(c *config) { c.maxMemory = bytes })
}

// WithMaxStorage sets the JetStream on-disk storage limit, in bytes.
func WithMaxStorage(bytes int64) Option {
	return optionFunc(func(c *config) { c.maxStorage = bytes })
}

// WithJetStream enables or disables JetStream persistence.
func WithJetStream(enabled bool) Option {
	return optionFunc(func(c *config) { c.enableJetStream = enabled })
}

// WithStartupTimeout sets how long Run waits for the server to become
// ready for connections.
func WithStartupTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.startupTimeout = d })
}

// WithShutdownTimeout sets how long shutdown waits for connections to
// drain before forcing the server down.
func WithShutdownTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.shutdownTimeout = d })
}
