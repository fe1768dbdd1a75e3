// Package propagation implements the SGP4/SDP4 analytic orbit propagator
// (NORAD near-Earth and deep-space theory) plus a worker pool for batch
// catalog propagation.
//
// The entry points are Initialize, which turns parsed orbital elements into
// a SatelliteRecord, and SatelliteRecord.Propagate, which advances the
// record to a time offset and returns an inertial (TEME) state vector in
// km and km/s, or a typed PropagationError.
//
// A SatelliteRecord is mutable: deep-space propagation reads and writes the
// resonance integrator state on every call. Propagating the same record from
// multiple goroutines without external synchronization is a data race;
// propagating distinct records in parallel is safe and is what the batch
// worker does.
package propagation

import "fmt"

// OrbitalElements holds the parsed element fields the upstream TLE parser
// hands to the initializer. Angles are in degrees, mean motion in rev/day,
// matching the element-set encoding; everything is converted to radians and
// rad/min internally.
type OrbitalElements struct {
	CatalogNumber int `yaml:"catalog_number"`

	EpochYear int     `yaml:"epoch_year"` // two-digit year [0,99]
	EpochDays float64 `yaml:"epoch_days"` // fractional day of year [1.0, 366.99999999]

	MeanMotion   float64 `yaml:"mean_motion"`  // rev/day
	Eccentricity float64 `yaml:"eccentricity"` // [0,1)
	Inclination  float64 `yaml:"inclination"`  // degrees
	RightAscen   float64 `yaml:"right_ascen"`  // degrees, right ascension of ascending node
	ArgPerigee   float64 `yaml:"arg_perigee"`  // degrees
	MeanAnomaly  float64 `yaml:"mean_anomaly"` // degrees

	NDot  float64 `yaml:"ndot"`  // rev/day^2, first mean-motion derivative / 2
	NDDot float64 `yaml:"nddot"` // rev/day^3, second mean-motion derivative / 6
	Bstar float64 `yaml:"bstar"` // SGP4 drag term, 1/Earth-radii

	EphemerisType int `yaml:"ephemeris_type"`
	ElementSetNum int `yaml:"element_set_num"`
}

// MeanElements is the mean-element snapshot carried on a StateVector: the
// secular/periodic-corrected elements the short-period tail was evaluated
// from. Angles in radians, mean motion in rad/min, semi-major axis in
// Earth radii.
type MeanElements struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	RightAscen    float64
	ArgPerigee    float64
	MeanAnomaly   float64
	MeanMotion    float64
}

// StateVector is a propagated state in the true-equator mean-equinox (TEME)
// inertial frame.
type StateVector struct {
	Position [3]float64 // km
	Velocity [3]float64 // km/s

	// Minutes past the record epoch this vector was computed for.
	MinutesFromEpoch float64

	// Mean elements the vector was derived from.
	Elements MeanElements
}

// ErrorCode identifies a terminal propagation failure. The set is closed;
// batch callers switch on it to skip one object without aborting a run.
type ErrorCode int

const (
	CodeNone ErrorCode = iota
	CodeMeanEccentricityOutOfRange
	CodeMeanMotionBelowZero
	CodePerturbedEccentricityOutOfRange
	CodeSemiLatusRectumBelowZero
	CodeDecayed
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeMeanEccentricityOutOfRange:
		return "mean_eccentricity_out_of_range"
	case CodeMeanMotionBelowZero:
		return "mean_motion_below_zero"
	case CodePerturbedEccentricityOutOfRange:
		return "perturbed_eccentricity_out_of_range"
	case CodeSemiLatusRectumBelowZero:
		return "semi_latus_rectum_below_zero"
	case CodeDecayed:
		return "decayed"
	}
	return "unknown"
}

// PropagationError is the typed failure returned by Propagate. It is
// per-call and non-recoverable within that call; the record stays usable
// for other time arguments (deep-space integrator state excepted, see
// SatelliteRecord.Reset).
type PropagationError struct {
	Code    ErrorCode
	Tsince  float64 // minutes past epoch of the failing call
	Value   float64 // offending quantity (eccentricity, mean motion, ...)
	Catalog int
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("sgp4: object %d at tsince=%.3f min: %s (value=%g)",
		e.Catalog, e.Tsince, e.Code, e.Value)
}

// resonanceState is the deep-space integrator continuation token, the only
// part of a SatelliteRecord that propagation mutates.
type resonanceState struct {
	atime float64 // minutes past epoch the integrator last stopped at
	xli   float64 // integrated resonance angle
	xni   float64 // integrated mean motion, rad/min
}

// SatelliteRecord is the initialized propagation state for one object.
// Create it with Initialize; do not construct it directly.
type SatelliteRecord struct {
	Catalog int
	Gravity GravityModel
	Mode    OperationMode

	// Epoch as Julian date and as days since 1950-01-01 00:00 UT.
	JdsatEpoch float64
	epoch1950  float64

	// Mean elements at epoch (radians, rad/min). no is the un-Kozai'd
	// ("Brouwer") mean motion recovered by initl.
	bstar float64
	ecco  float64
	argpo float64
	inclo float64
	mo    float64
	no    float64
	nodeo float64

	// Geometry derived at epoch.
	a      float64 // semi-major axis, Earth radii
	altp   float64 // perigee altitude, Earth radii
	alta   float64 // apogee altitude, Earth radii
	rp     float64 // perigee radius, Earth radii
	con41  float64 // 3cos^2(i)-1
	x1mth2 float64 // 1-cos^2(i)
	x7thm1 float64 // 7cos^2(i)-1
	cosio  float64
	sinio  float64
	gsto   float64 // Greenwich sidereal time at epoch, rad

	// Secular rates.
	mdot    float64
	argpdot float64
	nodedot float64
	nodecf  float64

	// Drag coefficients.
	isimp  bool // simplified drag path (perigee < 220 km)
	cc1    float64
	cc4    float64
	cc5    float64
	d2     float64
	d3     float64
	d4     float64
	delmo  float64
	eta    float64
	omgcof float64
	sinmao float64
	t2cof  float64
	t3cof  float64
	t4cof  float64
	t5cof  float64
	xmcof  float64
	aycof  float64
	xlcof  float64

	// Branch tag: true selects the deep-space path on every call.
	deepSpace bool

	// Deep-space fields (populated only when deepSpace is set).
	ds    deepSpaceCoeffs
	irez  int // 0 none, 1 synchronous, 2 half-day
	rs    resonanceState
	xlamo float64
	xfact float64

	grav gravityConstants
}

// deepSpaceCoeffs carries the lunar/solar amplitude coefficients (dscom),
// the dpper baseline offsets, the secular third-body rates and the
// geopotential resonance coefficients (dsinit).
type deepSpaceCoeffs struct {
	// Solar amplitudes.
	se2, se3         float64
	si2, si3         float64
	sl2, sl3, sl4    float64
	sgh2, sgh3, sgh4 float64
	sh2, sh3         float64
	// Lunar amplitudes.
	ee2, e3          float64
	xi2, xi3         float64
	xl2, xl3, xl4    float64
	xgh2, xgh3, xgh4 float64
	xh2, xh3         float64
	// Mean longitudes of the perturbing bodies at epoch.
	zmol, zmos float64
	// Baseline offsets captured by the dpper init pass.
	peo, pinco, plo, pgho, pho float64
	// Third-body secular rates.
	dedt, didt, dmdt, dnodt, domdt float64
	// Synchronous resonance coefficients.
	del1, del2, del3 float64
	// Half-day geopotential resonance coefficients.
	d2201, d2211 float64
	d3210, d3222 float64
	d4410, d4422 float64
	d5220, d5232 float64
	d5421, d5433 float64
}

// DeepSpace reports whether the record propagates through the deep-space
// (period >= 225 min) branch.
func (s *SatelliteRecord) DeepSpace() bool { return s.deepSpace }

// ResonanceClass reports the deep-space resonance classification:
// 0 none, 1 synchronous (~1 rev/day), 2 half-day (~2 rev/day).
func (s *SatelliteRecord) ResonanceClass() int { return s.irez }

// MeanMotion returns the un-Kozai'd mean motion at epoch in rad/min.
func (s *SatelliteRecord) MeanMotion() float64 { return s.no }

// Reset rewinds the deep-space integrator continuation token to its epoch
// value. Callers that need strict idempotence after a failed call use this
// instead of reinitializing from the element set.
func (s *SatelliteRecord) Reset() {
	s.rs = resonanceState{atime: 0, xli: s.xlamo, xni: s.no}
}
