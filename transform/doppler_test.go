package transform

import (
	"math"
	"testing"
)

// TestDopplerFactor_Approaching verifies sign conventions: a satellite
// moving straight at the observer has a negative range rate, a factor
// above 1 on receive, and a positive shift.
func TestDopplerFactor_Approaching(t *testing.T) {
	obs := NewObserverPosition(0, 0, 0)

	// 400 km straight above the observer, moving straight down at 1 km/s.
	sat := PositionECEF{
		X:  obs.ECEFx + 400000.0,
		Y:  obs.ECEFy,
		Z:  obs.ECEFz,
		VX: -1000.0, VY: 0, VZ: 0,
	}

	d := DopplerFactor(obs, sat)

	if math.Abs(d.RangeKm-400.0) > 0.001 {
		t.Errorf("range = %.3f km, want 400", d.RangeKm)
	}
	if math.Abs(d.RangeRateKmS-(-1.0)) > 1e-9 {
		t.Errorf("range rate = %.6f km/s, want -1.0", d.RangeRateKmS)
	}
	if d.Factor <= 1.0 {
		t.Errorf("approaching factor = %.9f, want > 1", d.Factor)
	}

	// 145.8 MHz carrier: shift should be +f*v/c ≈ +486 Hz.
	shift := d.ShiftHz(145.8e6)
	want := 145.8e6 * 1.0 / SpeedOfLight
	if math.Abs(shift-want) > 0.01 {
		t.Errorf("shift = %.2f Hz, want %.2f", shift, want)
	}
}

// TestDopplerFactor_Transverse verifies that purely transverse motion
// produces no first-order shift.
func TestDopplerFactor_Transverse(t *testing.T) {
	obs := NewObserverPosition(0, 0, 0)

	sat := PositionECEF{
		X:  obs.ECEFx + 400000.0,
		Y:  obs.ECEFy,
		Z:  obs.ECEFz,
		VX: 0, VY: 7500.0, VZ: 0,
	}

	d := DopplerFactor(obs, sat)
	if math.Abs(d.RangeRateKmS) > 1e-9 {
		t.Errorf("transverse range rate = %.9f km/s, want 0", d.RangeRateKmS)
	}
	if math.Abs(d.Factor-1.0) > 1e-12 {
		t.Errorf("transverse factor = %.12f, want 1", d.Factor)
	}
}
