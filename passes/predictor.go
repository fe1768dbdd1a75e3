// Package passes predicts visibility windows of catalog objects over a
// ground observer, with ground tracks and Doppler at culmination.
package passes

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/star/orbitcore/propagation"
	"github.com/star/orbitcore/transform"
)

// GroundTrackPoint is a sub-satellite position at a specific time during a pass.
type GroundTrackPoint struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Elevation float64   `json:"elevation"` // degrees above observer's horizon (0-90)
}

// PassEvent describes a single pass of one object over an observer location.
type PassEvent struct {
	StartTime        time.Time          `json:"start_time"`
	MaxElevationTime time.Time          `json:"max_elevation_time"`
	EndTime          time.Time          `json:"end_time"`
	DurationSeconds  float64            `json:"duration_seconds"`
	MaxElevation     float64            `json:"max_elevation"`
	AzimuthAtMax     float64            `json:"azimuth_at_max"`
	StartAzimuth     float64            `json:"start_azimuth"`
	EndAzimuth       float64            `json:"end_azimuth"`
	RangeAtMaxKm     float64            `json:"range_at_max_km"`
	DopplerAtMax     float64            `json:"doppler_at_max"` // received/transmitted frequency ratio
	GroundTrack      []GroundTrackPoint `json:"ground_track"`
}

// ObjectPasses holds the predicted passes for one catalog object.
type ObjectPasses struct {
	Catalog int         `json:"catalog"`
	Passes  []PassEvent `json:"passes"`
	Error   string      `json:"error,omitempty"`
}

// Request holds the parameters for a pass prediction run. Each record is
// propagated from a single goroutine; records must not be shared with
// concurrent callers while the run is in flight.
type Request struct {
	Observer     transform.ObserverPosition
	Records      []*propagation.SatelliteRecord
	Start        time.Time
	HorizonHours float64
	MinElevation float64 // degrees
	MaxPasses    int
}

const (
	coarseStepSec      = 30 // seconds between coarse scan steps
	fineStepSec        = 1  // seconds between fine scan steps
	groundTrackStepSec = 10 // seconds between ground track samples
	minPassDur         = 10 * time.Second
)

// Predict computes passes for every record in the request. Each object is
// processed in its own goroutine, bounded by a semaphore.
func Predict(ctx context.Context, req Request) []ObjectPasses {
	results := make([]ObjectPasses, len(req.Records))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, rec := range req.Records {
		wg.Add(1)
		go func(idx int, r *propagation.SatelliteRecord) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = ObjectPasses{
					Catalog: r.Catalog,
					Error:   "cancelled",
				}
				return
			}

			passes, err := predictObject(ctx, req, r)
			if err != nil {
				results[idx] = ObjectPasses{
					Catalog: r.Catalog,
					Error:   err.Error(),
				}
				return
			}
			results[idx] = ObjectPasses{
				Catalog: r.Catalog,
				Passes:  passes,
			}
		}(i, rec)
	}

	wg.Wait()
	return results
}

// predictObject finds all passes for a single record.
func predictObject(ctx context.Context, req Request, rec *propagation.SatelliteRecord) ([]PassEvent, error) {
	// Probe the start of the window so a diverging element set reports a
	// per-object error instead of silently returning zero passes.
	if _, _, _, err := elevationAt(rec, req.Observer, req.Start); err != nil {
		return nil, fmt.Errorf("propagate at window start: %w", err)
	}

	end := req.Start.Add(time.Duration(req.HorizonHours * float64(time.Hour)))
	var passes []PassEvent

	// Coarse scan: step through the time range looking for elevation > 0.
	t := req.Start
	for t.Before(end) && len(passes) < req.MaxPasses {
		if ctx.Err() != nil {
			return passes, nil
		}

		el, _, _, err := elevationAt(rec, req.Observer, t)
		if err != nil {
			t = t.Add(coarseStepSec * time.Second)
			continue
		}

		if el > 0 {
			// Found a candidate window, fine scan to find the full pass.
			pass, windowEnd := refinePass(ctx, rec, req.Observer, t, req.Start, end, req.MinElevation)
			if pass != nil && pass.EndTime.Sub(pass.StartTime) >= minPassDur {
				passes = append(passes, *pass)
			}
			// Jump past the end of this window.
			t = windowEnd.Add(coarseStepSec * time.Second)
		} else {
			t = t.Add(coarseStepSec * time.Second)
		}
	}

	return passes, nil
}

// refinePass does a fine-grained scan around a coarse-detected above-horizon
// region. It backs up to find the actual rise, then scans forward to find
// set. Returns the pass event and the time the window ends.
func refinePass(ctx context.Context, rec *propagation.SatelliteRecord, obs transform.ObserverPosition, coarseHit, windowStart, windowEnd time.Time, minElev float64) (*PassEvent, time.Time) {
	// Back up to find where elevation first crossed 0.
	searchStart := coarseHit.Add(-coarseStepSec * time.Second)
	if searchStart.Before(windowStart) {
		searchStart = windowStart
	}

	// Fine scan from searchStart.
	var (
		riseTime    time.Time
		setTime     time.Time
		riseAz      float64
		setAz       float64
		maxEl       float64
		maxElTime   time.Time
		maxElAz     float64
		ecefAtMax   transform.PositionECEF
		wasAbove    bool
		foundRise   bool
		groundTrack []GroundTrackPoint
	)

	t := searchStart
	for t.Before(windowEnd) {
		if ctx.Err() != nil {
			break
		}

		el, la, ecef, err := elevationAt(rec, obs, t)
		if err != nil {
			t = t.Add(fineStepSec * time.Second)
			continue
		}

		above := el >= minElev

		if above && !wasAbove {
			// Rising.
			riseTime = t
			riseAz = la.AzimuthDeg
			foundRise = true
			maxEl = el
			maxElTime = t
			maxElAz = la.AzimuthDeg
			ecefAtMax = ecef
		}

		if above && foundRise {
			if el > maxEl {
				maxEl = el
				maxElTime = t
				maxElAz = la.AzimuthDeg
				ecefAtMax = ecef
			}
			// Sample ground track point every groundTrackStepSec seconds.
			secSinceRise := int(t.Sub(riseTime).Seconds())
			if secSinceRise%groundTrackStepSec == 0 {
				geo := transform.ECEFToGeodetic(ecef.X, ecef.Y, ecef.Z)
				groundTrack = append(groundTrack, GroundTrackPoint{
					Time:      t,
					Latitude:  geo.LatDeg,
					Longitude: geo.LonDeg,
					Altitude:  geo.AltM,
					Elevation: el,
				})
			}
		}

		if !above && wasAbove && foundRise {
			// Setting.
			setTime = t
			setAz = la.AzimuthDeg
			break
		}

		wasAbove = above
		t = t.Add(fineStepSec * time.Second)
	}

	// If the object was still above at windowEnd, close the pass there.
	if foundRise && setTime.IsZero() && wasAbove {
		el, la, ecef, err := elevationAt(rec, obs, t)
		if err == nil {
			setTime = t
			setAz = la.AzimuthDeg
			if el > maxEl {
				maxEl = el
				maxElTime = t
				maxElAz = la.AzimuthDeg
				ecefAtMax = ecef
			}
		} else {
			setTime = t
		}
	}

	if !foundRise || setTime.IsZero() {
		return nil, t
	}

	dop := transform.DopplerFactor(obs, ecefAtMax)

	return &PassEvent{
		StartTime:        riseTime,
		MaxElevationTime: maxElTime,
		EndTime:          setTime,
		DurationSeconds:  setTime.Sub(riseTime).Seconds(),
		MaxElevation:     maxEl,
		AzimuthAtMax:     maxElAz,
		StartAzimuth:     riseAz,
		EndAzimuth:       setAz,
		RangeAtMaxKm:     dop.RangeKm,
		DopplerAtMax:     dop.Factor,
		GroundTrack:      groundTrack,
	}, setTime
}

// elevationAt computes the look angles and Earth-fixed position from
// observer to object at time t.
func elevationAt(rec *propagation.SatelliteRecord, obs transform.ObserverPosition, t time.Time) (float64, transform.LookAngles, transform.PositionECEF, error) {
	sv, err := rec.PropagateAt(t)
	if err != nil {
		return 0, transform.LookAngles{}, transform.PositionECEF{}, err
	}
	teme := transform.PositionTEME{
		X: sv.Position[0], Y: sv.Position[1], Z: sv.Position[2],
		VX: sv.Velocity[0], VY: sv.Velocity[1], VZ: sv.Velocity[2],
	}
	ecef := transform.TEMEToECEF(teme, t)
	la := transform.ECEFToLookAngles(obs, ecef.X, ecef.Y, ecef.Z)
	return la.ElevationDeg, la, ecef, nil
}
