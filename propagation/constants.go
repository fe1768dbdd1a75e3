package propagation

import "math"

const (
	twoPi   = 2.0 * math.Pi
	deg2rad = math.Pi / 180.0
	x2o3    = 2.0 / 3.0

	// Minutes in a day, for rev/day <-> rad/min conversion.
	xpdotp = 1440.0 / twoPi

	// Julian date of 1950-01-01 00:00 UT. Record epochs are stored as
	// days since this date, matching the reference theory.
	jdEpoch1950 = 2433281.5
)

// GravityModel selects the geopotential constant set used by the propagator.
// WGS-72 is the model the published element sets are fitted against and is
// the correct default; WGS-84 is provided for consumers that need it.
type GravityModel int

const (
	GravityWGS72 GravityModel = iota
	GravityWGS84
)

// OperationMode selects how initialization derives Greenwich sidereal time
// at epoch. AFSPC mode reproduces the original Spacetrack code path;
// Improved mode derives it from the Julian date directly.
type OperationMode int

const (
	ModeImproved OperationMode = iota
	ModeAFSPC
)

// gravityConstants holds the geopotential constants for one gravity model.
// The literal values must not be rounded or "cleaned up"; the published
// accuracy of the theory depends on reproducing them exactly.
type gravityConstants struct {
	mu            float64 // km^3/s^2
	radiusEarthKm float64
	xke           float64 // sqrt(GM) in Earth-radii^1.5 per minute
	tumin         float64 // 1/xke
	j2            float64
	j3            float64
	j4            float64
	j3oj2         float64
}

func gravity(model GravityModel) gravityConstants {
	switch model {
	case GravityWGS84:
		g := gravityConstants{
			mu:            398600.5,
			radiusEarthKm: 6378.137,
			j2:            0.00108262998905,
			j3:            -0.00000253215306,
			j4:            -0.00000161098761,
		}
		g.xke = 60.0 / math.Sqrt(g.radiusEarthKm*g.radiusEarthKm*g.radiusEarthKm/g.mu)
		g.tumin = 1.0 / g.xke
		g.j3oj2 = g.j3 / g.j2
		return g
	default: // WGS-72
		g := gravityConstants{
			mu:            398600.8,
			radiusEarthKm: 6378.135,
			j2:            0.001082616,
			j3:            -0.00000253881,
			j4:            -0.00000165597,
		}
		g.xke = 60.0 / math.Sqrt(g.radiusEarthKm*g.radiusEarthKm*g.radiusEarthKm/g.mu)
		g.tumin = 1.0 / g.xke
		g.j3oj2 = g.j3 / g.j2
		return g
	}
}

// Lunar/solar series constants from the 1980 Spacetrack Report #3 theory.
// These feed the deep-space common-term derivation (dscom) and the
// long-period periodic corrections (dpper).
const (
	zes = 0.01675 // solar eccentricity term
	zel = 0.05490 // lunar eccentricity term

	zns = 1.19459e-5   // solar mean motion, rad/min
	znl = 1.5835218e-4 // lunar mean motion, rad/min

	c1ss = 2.9864797e-6 // solar perturbation coefficient
	c1l  = 4.7968065e-7 // lunar perturbation coefficient

	zsinis = 0.39785416 // sin of solar inclination on ecliptic
	zcosis = 0.91744867
	zsings = -0.98088458 // sin/cos of solar perigee angle
	zcosgs = 0.1945905
)

// Geopotential resonance constants (dsinit/dspace).
const (
	q22 = 1.7891679e-6
	q31 = 2.1460748e-6
	q33 = 2.2123015e-7

	root22 = 1.7891679e-6
	root32 = 3.7393792e-7
	root44 = 7.3636953e-9
	root52 = 1.1428639e-7
	root54 = 2.1765803e-9

	// Earth rotation rate, rad/min.
	rptim = 4.37526908801129966e-3

	// Resonance phase constants, rad.
	fasx2 = 0.13130908
	fasx4 = 2.8843198
	fasx6 = 0.37448087

	g22 = 5.7686396
	g32 = 0.95240898
	g44 = 1.8014998
	g52 = 1.0508330
	g54 = 4.4108898
)

// Integrator step constants (dspace): Euler-Maclaurin step of 720 minutes
// in either direction.
const (
	stepp = 720.0
	stepn = -720.0
	step2 = 259200.0 // stepp*stepp/2
)
