package propagation

import (
	"math"
	"testing"
)

func TestResonanceClassification(t *testing.T) {
	tests := []struct {
		name       string
		meanMotion float64 // rev/day
		ecc        float64
		wantIrez   int
	}{
		{"LEO no resonance", 15.5, 0.0001, 0},
		{"GEO synchronous", 1.0027, 0.0002, 1},
		{"Molniya half-day", 2.00573, 0.61, 2},
		{"half-day low ecc excluded", 2.00573, 0.2, 0},
		{"deep but unresonant", 3.2, 0.3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := geoElements()
			el.MeanMotion = tt.meanMotion
			el.Eccentricity = tt.ecc
			el.Inclination = 63.4
			rec := Initialize(el)
			if got := rec.ResonanceClass(); got != tt.wantIrez {
				t.Errorf("ResonanceClass() = %d, want %d (n=%.5f rad/min)",
					got, tt.wantIrez, rec.MeanMotion())
			}
		})
	}
}

func TestDeepSpaceFlagRequiresSlowOrbit(t *testing.T) {
	// Resonance machinery only ever arms for deep-space records.
	el := issElements()
	rec := Initialize(el)
	if rec.DeepSpace() {
		t.Fatal("15.5 rev/day record flagged deep-space")
	}
	if rec.ResonanceClass() != 0 {
		t.Errorf("near-earth record has ResonanceClass %d", rec.ResonanceClass())
	}
}

// TestLunarSolarPeriodicsBounded propagates a GEO record over a full lunar
// cycle and checks the perturbed inclination stays near the mean value.
// Third-body periodics on GEO are arcminute-scale.
func TestLunarSolarPeriodicsBounded(t *testing.T) {
	rec := Initialize(geoElements())
	inclo := geoElements().Inclination * deg2rad

	for d := 0; d <= 28; d++ {
		sv, err := rec.Propagate(float64(d) * 1440.0)
		if err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
		if diff := math.Abs(sv.Elements.Inclination - inclo); diff > 0.05 {
			t.Errorf("day %d: inclination drifted %.4f rad from epoch value", d, diff)
		}
	}
}

// TestLyddaneBranchContinuity checks that records straddling the
// low-inclination switchover both propagate to finite, physical vectors.
func TestLyddaneBranchContinuity(t *testing.T) {
	for _, inclDeg := range []float64{0.05, 5.0, 11.4, 12.0} {
		el := geoElements()
		el.Inclination = inclDeg
		rec := Initialize(el)

		sv, err := rec.Propagate(2880.0)
		if err != nil {
			t.Fatalf("incl %.2f deg: %v", inclDeg, err)
		}
		r := math.Sqrt(sv.Position[0]*sv.Position[0] +
			sv.Position[1]*sv.Position[1] + sv.Position[2]*sv.Position[2])
		if math.IsNaN(r) || r < 41000.0 || r > 43500.0 {
			t.Errorf("incl %.2f deg: radius %.1f km", inclDeg, r)
		}
	}
}

// TestIntegratorStepCadence verifies the resonance integrator is exercised
// at non-multiples of its internal step without discontinuities: positions
// a minute apart may not jump.
func TestIntegratorStepCadence(t *testing.T) {
	rec := Initialize(molniyaElements())

	var prev StateVector
	for i, tsince := range []float64{719.0, 720.0, 721.0, 1439.0, 1440.0, 1441.0} {
		sv, err := rec.Propagate(tsince)
		if err != nil {
			t.Fatalf("t=%v: %v", tsince, err)
		}
		if i > 0 {
			var jump float64
			for k := 0; k < 3; k++ {
				d := sv.Position[k] - prev.Position[k]
				jump += d * d
			}
			jump = math.Sqrt(jump)
			// Max speed near perigee is ~10 km/s; allow generous margin
			// for the multi-minute gaps in the list.
			if jump > 10000.0 {
				t.Errorf("discontinuity at t=%v: %.1f km jump", tsince, jump)
			}
		}
		prev = sv
	}
}
