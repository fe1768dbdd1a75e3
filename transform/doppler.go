package transform

import "math"

// SpeedOfLight in km/s.
const SpeedOfLight = 299792.458

// DopplerResult holds the line-of-sight geometry behind a Doppler
// prediction for one observer/satellite pair.
type DopplerResult struct {
	// RangeKm is the observer-to-satellite distance.
	RangeKm float64

	// RangeRateKmS is the line-of-sight velocity in km/s.
	// Positive = receding, negative = approaching.
	RangeRateKmS float64

	// Factor is the non-relativistic Doppler factor (1 - rdot/c): the
	// received frequency is Factor times the transmitted frequency.
	Factor float64
}

// DopplerFactor computes the Doppler factor seen by a ground observer for a
// satellite state in ECEF. The observer's velocity in ECEF is zero (Earth
// rotation is already folded into the frame), so the range rate is just the
// satellite velocity projected on the line of sight.
func DopplerFactor(obs ObserverPosition, sat PositionECEF) DopplerResult {
	// Range vector, meters.
	rx := sat.X - obs.ECEFx
	ry := sat.Y - obs.ECEFy
	rz := sat.Z - obs.ECEFz

	rangeM := math.Sqrt(rx*rx + ry*ry + rz*rz)

	// Projection of satellite velocity (m/s) on the line-of-sight unit
	// vector, converted to km/s.
	rdot := (sat.VX*rx + sat.VY*ry + sat.VZ*rz) / rangeM / 1000.0

	return DopplerResult{
		RangeKm:      rangeM / 1000.0,
		RangeRateKmS: rdot,
		Factor:       1.0 - rdot/SpeedOfLight,
	}
}

// ShiftHz returns the Doppler shift in Hz for a carrier frequency in Hz:
// negative while receding, positive while approaching.
func (d DopplerResult) ShiftHz(carrierHz float64) float64 {
	return -carrierHz * d.RangeRateKmS / SpeedOfLight
}
