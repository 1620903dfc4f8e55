// SPDX-License-Identifier: BSD-3-Clause

package control

// sanitizedReadings holds the post-sanitization engineering values used
// by every downstream component. Currents and vibrations pass through
// unchanged (already in engineering units per the acquisition contract);
// only the four loop temperatures and outdoor temperature are range
// checked against last-known-good substitution.
type sanitizedReadings struct {
	TowerSupply float64
	TowerReturn float64
	HPReturn    float64
	HPSupply    float64
	Outdoor     float64
	Setpoint    float64

	// TowerCurrent holds both VFD leg current readings per tower: AI1..AI3
	// are each tower's first leg, AI4..AI6 the second leg, so that the
	// safety gate's "either per-tower current reading" check (§4.2) has
	// both values to evaluate.
	TowerCurrent [3][2]float64
	PumpCurrent  [3]float64 // pump 1..3 current, CH8/CH5/CH6 respectively
	Vibration    [3]float64 // WTV801_1..3
}

// sanitize is the sensor sanitizer (spec §2 component 2, §4.1). Loop
// temperatures outside [40,120]°F are rejected in favor of the carried
// last-known-good value; outdoor temperature outside [-20,120]°F is
// likewise rejected. LastGoodTemps is updated only with accepted values.
func sanitize(cfg Config, sensors Sensors, temps LoopTemps) (sanitizedReadings, LoopTemps) {
	const (
		loopMin, loopMax       = 40.0, 120.0
		outdoorMin, outdoorMax = -20.0, 120.0
	)

	towerSupply := cfg.c.channelMap.TowerSupply(sensors)
	towerReturn := cfg.c.channelMap.TowerReturn(sensors)
	hpReturn := cfg.c.channelMap.HPReturn(sensors)
	hpSupply := cfg.c.channelMap.HPSupply(sensors)

	next := temps
	r := sanitizedReadings{}

	if inRange(towerSupply, loopMin, loopMax) {
		next.TowerSupply = towerSupply
	}
	r.TowerSupply = next.TowerSupply

	if inRange(towerReturn, loopMin, loopMax) {
		next.TowerReturn = towerReturn
	}
	r.TowerReturn = next.TowerReturn

	if inRange(hpReturn, loopMin, loopMax) {
		next.HPReturn = hpReturn
	}
	r.HPReturn = next.HPReturn

	if inRange(hpSupply, loopMin, loopMax) {
		next.HPSupply = hpSupply
	}
	r.HPSupply = next.HPSupply

	if inRange(sensors.OutdoorTemp, outdoorMin, outdoorMax) {
		r.Outdoor = sensors.OutdoorTemp
	} else {
		r.Outdoor = 0 // no last-known-good is specified for outdoor in §4.1; 0°F is a safe, clearly-cold fallback that biases toward freeze protection rather than masking the fault.
	}

	r.Setpoint = 75
	if sensors.UserSetpoint != nil {
		r.Setpoint = *sensors.UserSetpoint
	}

	r.TowerCurrent = [3][2]float64{
		{sensors.AI1, sensors.AI4},
		{sensors.AI2, sensors.AI5},
		{sensors.AI3, sensors.AI6},
	}
	r.PumpCurrent = [3]float64{sensors.CH8, sensors.CH5, sensors.CH6}
	r.Vibration = [3]float64{sensors.WTV801_1, sensors.WTV801_2, sensors.WTV801_3}

	return r, next
}

func inRange(v, min, max float64) bool {
	return v >= min && v <= max
}
