package passes

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/star/orbitcore/propagation"
	"github.com/star/orbitcore/transform"
)

// ISS element set, epoch 2025-02-14 04:19:40 UTC.
func issRecord() *propagation.SatelliteRecord {
	return propagation.Initialize(propagation.OrbitalElements{
		CatalogNumber: 25544,
		EpochYear:     25,
		EpochDays:     45.18032407,
		MeanMotion:    15.49874301,
		Eccentricity:  0.0003457,
		Inclination:   51.6412,
		RightAscen:    193.5765,
		ArgPerigee:    126.2851,
		MeanAnomaly:   233.8519,
		NDot:          0.00016717,
		Bstar:         0.30099e-3,
	})
}

// NYC observer.
var nycObserver = transform.NewObserverPosition(40.7128, -74.006, 10)

func TestPredictISS(t *testing.T) {
	req := Request{
		Observer:     nycObserver,
		Records:      []*propagation.SatelliteRecord{issRecord()},
		Start:        time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinElevation: 0,
		MaxPasses:    10,
	}

	results := Predict(context.Background(), req)

	if len(results) != 1 {
		t.Fatalf("expected 1 object result, got %d", len(results))
	}

	obj := results[0]
	if obj.Catalog != 25544 {
		t.Errorf("catalog = %d, want 25544", obj.Catalog)
	}
	if obj.Error != "" {
		t.Fatalf("unexpected error: %s", obj.Error)
	}

	// A LEO object has multiple passes over 24h from NYC.
	if len(obj.Passes) == 0 {
		t.Fatal("expected at least 1 ISS pass over NYC in 24h")
	}

	for i, p := range obj.Passes {
		if p.DurationSeconds < 10 {
			t.Errorf("pass %d: duration %.1fs too short", i, p.DurationSeconds)
		}
		if p.MaxElevation <= 0 || p.MaxElevation > 90 {
			t.Errorf("pass %d: max elevation %.2f out of range", i, p.MaxElevation)
		}
		if p.AzimuthAtMax < 0 || p.AzimuthAtMax >= 360 {
			t.Errorf("pass %d: azimuth at max %.2f out of range", i, p.AzimuthAtMax)
		}
		if p.StartAzimuth < 0 || p.StartAzimuth >= 360 {
			t.Errorf("pass %d: start azimuth %.2f out of range", i, p.StartAzimuth)
		}
		if p.EndAzimuth < 0 || p.EndAzimuth >= 360 {
			t.Errorf("pass %d: end azimuth %.2f out of range", i, p.EndAzimuth)
		}
		if !p.StartTime.Before(p.MaxElevationTime) || !p.MaxElevationTime.Before(p.EndTime) {
			t.Errorf("pass %d: time ordering violated: start=%v max=%v end=%v", i, p.StartTime, p.MaxElevationTime, p.EndTime)
		}

		// Slant range at culmination: between orbit altitude and the
		// horizon distance for LEO.
		if p.RangeAtMaxKm < 300 || p.RangeAtMaxKm > 2500 {
			t.Errorf("pass %d: range at max %.0f km out of LEO band", i, p.RangeAtMaxKm)
		}
		// Doppler ratio stays within +-v/c of unity; 8 km/s orbital speed
		// bounds it well inside 1 +- 3e-5.
		if math.Abs(p.DopplerAtMax-1.0) > 3e-5 {
			t.Errorf("pass %d: doppler factor %.9f implausible", i, p.DopplerAtMax)
		}

		if len(p.GroundTrack) == 0 {
			t.Errorf("pass %d: expected ground track points, got none", i)
		}
		for j, gt := range p.GroundTrack {
			if gt.Latitude < -90 || gt.Latitude > 90 {
				t.Errorf("pass %d gt %d: latitude %.2f out of range", i, j, gt.Latitude)
			}
			if gt.Longitude < -180 || gt.Longitude > 180 {
				t.Errorf("pass %d gt %d: longitude %.2f out of range", i, j, gt.Longitude)
			}
			if gt.Altitude < 100000 || gt.Altitude > 1000000 {
				t.Errorf("pass %d gt %d: altitude %.0f m out of LEO range", i, j, gt.Altitude)
			}
			if gt.Elevation < 0 || gt.Elevation > 90 {
				t.Errorf("pass %d gt %d: elevation %.2f out of range", i, j, gt.Elevation)
			}
		}

		t.Logf("pass %d: start=%v maxEl=%.1f° az=%.1f° dur=%.0fs groundTrack=%d pts",
			i, p.StartTime.Format(time.RFC3339), p.MaxElevation, p.AzimuthAtMax, p.DurationSeconds, len(p.GroundTrack))
	}
}

func TestPredictMinElevationFilter(t *testing.T) {
	// The 45-degree floor must find fewer passes than the horizon floor.
	reqLow := Request{
		Observer:     nycObserver,
		Records:      []*propagation.SatelliteRecord{issRecord()},
		Start:        time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
		HorizonHours: 48,
		MinElevation: 0,
		MaxPasses:    20,
	}
	reqHigh := reqLow
	reqHigh.Records = []*propagation.SatelliteRecord{issRecord()}
	reqHigh.MinElevation = 45

	resultsLow := Predict(context.Background(), reqLow)
	resultsHigh := Predict(context.Background(), reqHigh)

	nLow := len(resultsLow[0].Passes)
	nHigh := len(resultsHigh[0].Passes)

	if nLow == 0 {
		t.Fatal("expected passes with min elevation 0")
	}
	if nHigh >= nLow {
		t.Errorf("min elevation 45 passes (%d) should be fewer than min elevation 0 passes (%d)", nHigh, nLow)
	}
}

func TestPredictCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := Request{
		Observer:     nycObserver,
		Records:      []*propagation.SatelliteRecord{issRecord()},
		Start:        time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinElevation: 0,
		MaxPasses:    10,
	}

	// Should not panic and should return quickly.
	results := Predict(ctx, req)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestPredictDivergingRecord(t *testing.T) {
	// High-drag object whose epoch is weeks before the window: decayed by
	// the window start, so it reports a per-object error.
	decayed := propagation.Initialize(propagation.OrbitalElements{
		CatalogNumber: 90001,
		EpochYear:     25,
		EpochDays:     20.0,
		MeanMotion:    14.89,
		Eccentricity:  0.05,
		Inclination:   28.5,
		RightAscen:    40.0,
		ArgPerigee:    10.0,
		MeanAnomaly:   60.0,
		Bstar:         0.02,
	})

	req := Request{
		Observer:     nycObserver,
		Records:      []*propagation.SatelliteRecord{issRecord(), decayed},
		Start:        time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinElevation: 0,
		MaxPasses:    10,
	}

	results := Predict(context.Background(), req)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Error != "" {
		t.Errorf("ISS should succeed, got error: %s", results[0].Error)
	}
	if results[1].Error == "" {
		t.Error("decayed object should report an error")
	}
}

// Parrish FL observer.
var parrishFLObserver = transform.NewObserverPosition(27.5867, -82.4251, 0)

// haversineKm computes the great-circle distance (km) between two geodetic points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// maxGroundDistKm returns the maximum great-circle distance (km) between
// observer and sub-satellite point, given observed elevation (degrees) and
// altitude (meters). Geometry: rho = acos(R*cos(el)/(R+h)) - el.
func maxGroundDistKm(elevDeg, altM float64) float64 {
	const R = 6371.0
	h := altM / 1000.0
	elevRad := elevDeg * math.Pi / 180
	arg := R * math.Cos(elevRad) / (R + h)
	if arg > 1 {
		arg = 1
	}
	rho := math.Acos(arg) - elevRad
	if rho < 0 {
		rho = 0
	}
	return R * rho
}

// TestGroundTrackPhysicalConsistency verifies that each ground-track point's
// geodetic lat/lon is physically consistent with its reported elevation
// angle: a satellite at elevation el and altitude h can be at most
// acos(R*cos(el)/(R+h))-el radians (great-circle) from the observer.
func TestGroundTrackPhysicalConsistency(t *testing.T) {
	const obsLatDeg = 27.5867
	const obsLonDeg = -82.4251

	req := Request{
		Observer:     parrishFLObserver,
		Records:      []*propagation.SatelliteRecord{issRecord()},
		Start:        time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinElevation: 0,
		MaxPasses:    20,
	}

	results := Predict(context.Background(), req)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	obj := results[0]
	if obj.Error != "" {
		t.Fatalf("object error: %s", obj.Error)
	}
	if len(obj.Passes) == 0 {
		t.Fatal("no passes found over Parrish FL in 24h")
	}

	for pi, p := range obj.Passes {
		for gi, gt := range p.GroundTrack {
			dist := haversineKm(obsLatDeg, obsLonDeg, gt.Latitude, gt.Longitude)
			maxPossible := maxGroundDistKm(gt.Elevation, gt.Altitude)

			// Allow 50% slack for rounding.
			if maxPossible > 0 && dist > maxPossible*1.5 {
				t.Errorf("pass %d gt[%d]: dist %.0fkm exceeds max physical %.0fkm (el=%.1f° alt=%.0fm)",
					pi, gi, dist, maxPossible, gt.Elevation, gt.Altitude)
			}
		}
	}
}

func BenchmarkPredict100Objects24h(b *testing.B) {
	records := make([]*propagation.SatelliteRecord, 100)
	for i := range records {
		records[i] = issRecord()
	}

	req := Request{
		Observer:     nycObserver,
		Records:      records,
		Start:        time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinElevation: 10,
		MaxPasses:    10,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Predict(context.Background(), req)
	}
}
