// SPDX-License-Identifier: BSD-3-Clause

package control

import "time"

// ChannelMap resolves the raw CH1/CH2/CH9/CH10 readings to the four loop
// temperatures. The legacy and optimized source variants disagree on this
// mapping (spec §9); DefaultChannelMap encodes the legacy mapping and
// must be confirmed against physical commissioning data before
// deployment (see DESIGN.md).
type ChannelMap struct {
	TowerSupply func(Sensors) float64
	TowerReturn func(Sensors) float64
	HPReturn    func(Sensors) float64
	HPSupply    func(Sensors) float64
}

// DefaultChannelMap is the legacy-source mapping: CH1=tower-supply,
// CH2=tower-return, CH9=HP-return, CH10=HP-supply.
func DefaultChannelMap() ChannelMap {
	return ChannelMap{
		TowerSupply: func(s Sensors) float64 { return s.CH1 },
		TowerReturn: func(s Sensors) float64 { return s.CH2 },
		HPReturn:    func(s Sensors) float64 { return s.CH9 },
		HPSupply:    func(s Sensors) float64 { return s.CH10 },
	}
}

// OptimizedChannelMap is the alternative mapping found in the optimized
// source variant: CH10=tower-supply, CH9=tower-return, CH1=HP-return,
// CH2=HP-supply. Not used by default; selectable via WithChannelMap once
// commissioning confirms it.
func OptimizedChannelMap() ChannelMap {
	return ChannelMap{
		TowerSupply: func(s Sensors) float64 { return s.CH10 },
		TowerReturn: func(s Sensors) float64 { return s.CH9 },
		HPReturn:    func(s Sensors) float64 { return s.CH1 },
		HPSupply:    func(s Sensors) float64 { return s.CH2 },
	}
}

// config holds the compile/boot-time constants from spec §3.
type config struct {
	towerAvailable [3]bool
	pumpAvailable  [3]bool

	bypassEmergencyStop bool
	bypassWaterLevel    bool
	bypassVibration     bool
	bypassCurrent       bool
	bypassPumpStatus    bool
	bypassVFDFault      bool

	delta1, delta2, delta3, delta4 float64
	deltaShutdown                  float64

	hpSupplyMin    float64
	towerSupplyMin float64

	vMin, vMax float64

	minRuntime       time.Duration
	minOffTime       time.Duration
	rampUpDelay      time.Duration
	rampDownDelay    time.Duration
	rampStep         float64
	changeoverOverlap time.Duration
	rotationPeriod   time.Duration
	pumpFailDebounce time.Duration
	pumpFailCurrent  float64

	vibrationWarning float64
	vibrationCritical float64

	vfdCurrentWarning  float64
	vfdCurrentCritical float64
	pumpCurrentMin     float64
	pumpCurrentMax     float64

	fanClampSpeed float64

	// Tower fan-speed PID gains. Spec §4.5.1 specifies the PID's input,
	// setpoint, and dt but not its gains (unlike the valve PID in §4.8,
	// which gives kp/ki/kd explicitly); these defaults are a
	// commissioning placeholder documented in DESIGN.md.
	fanKp, fanKi, fanKd float64

	channelMap ChannelMap
}

// Option configures a Config via functional options, following the
// pattern used throughout the ambient service layer.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// DefaultConfig returns the constant table from spec §3.
func DefaultConfig() Config {
	c := &config{
		towerAvailable: [3]bool{true, true, true},
		pumpAvailable:  [3]bool{true, true, true},

		delta1: 10, delta2: 20, delta3: 30, delta4: 35,
		deltaShutdown: -15,

		hpSupplyMin:    65,
		towerSupplyMin: 50,

		vMin: 2.6, vMax: 4.8,

		minRuntime:        420 * time.Second,
		minOffTime:        180 * time.Second,
		rampUpDelay:       15 * time.Second,
		rampDownDelay:     20 * time.Second,
		rampStep:          0.3,
		changeoverOverlap: 5 * time.Second,
		rotationPeriod:    7 * 24 * time.Hour,
		pumpFailDebounce:  30 * time.Second,
		pumpFailCurrent:   10,

		vibrationWarning:  4.5,
		vibrationCritical: 7.1,

		vfdCurrentWarning:  40,
		vfdCurrentCritical: 45,
		pumpCurrentMin:     5,
		pumpCurrentMax:     45,

		fanClampSpeed: 3.5,

		fanKp: 0.05, fanKi: 0.01, fanKd: 0.0,

		channelMap: DefaultChannelMap(),
	}
	return Config{c: c}
}

// Config is the immutable, validated constant table used by Step. Build
// one with DefaultConfig and With* options; Config is read-only once
// constructed and safe to share across ticks.
type Config struct {
	c *config
}

// New builds a Config starting from DefaultConfig and applying opts.
func New(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt.apply(cfg.c)
	}
	return cfg
}

// WithTowerAvailability sets the configured-available flag per tower.
func WithTowerAvailability(t1, t2, t3 bool) Option {
	return optionFunc(func(c *config) {
		c.towerAvailable = [3]bool{t1, t2, t3}
	})
}

// WithPumpAvailability sets the configured-available flag per pump.
func WithPumpAvailability(p1, p2, p3 bool) Option {
	return optionFunc(func(c *config) {
		c.pumpAvailable = [3]bool{p1, p2, p3}
	})
}

// WithSafetyBypasses sets the per-domain bypass switches. A bypassed
// domain is excluded from the safety gate's critical fault evaluation.
func WithSafetyBypasses(emergencyStop, waterLevel, vibration, current, pumpStatus, vfdFault bool) Option {
	return optionFunc(func(c *config) {
		c.bypassEmergencyStop = emergencyStop
		c.bypassWaterLevel = waterLevel
		c.bypassVibration = vibration
		c.bypassCurrent = current
		c.bypassPumpStatus = pumpStatus
		c.bypassVFDFault = vfdFault
	})
}

// WithChannelMap overrides the CH1/CH2/CH9/CH10 → loop-temperature
// mapping. Use OptimizedChannelMap() only after commissioning confirms
// the wiring matches that variant.
func WithChannelMap(m ChannelMap) Option {
	return optionFunc(func(c *config) { c.channelMap = m })
}

// WithFanPIDGains overrides the tower fan-speed PID gains. Spec §4.5.1
// does not specify these; confirm at commissioning before relying on
// the defaults.
func WithFanPIDGains(kp, ki, kd float64) Option {
	return optionFunc(func(c *config) {
		c.fanKp, c.fanKi, c.fanKd = kp, ki, kd
	})
}

func (c Config) towerAvailableAt(t Tower) bool { return c.c.towerAvailable[t.Index()] }
func (c Config) pumpAvailableAt(p Pump) bool   { return c.c.pumpAvailable[p.Index()] }
