package propagation

import (
	"math"
	"time"

	"github.com/star/orbitcore/transform"
)

// solveKepler solves Kepler's equation in the non-singular eccentricity
// vector form: find eo1 with u = eo1 - axnl*sin(eo1) + aynl*cos(eo1)
// (signs folded into the esine/ecose terms). Newton iteration, at most 10
// steps, each correction clamped to +-0.95 rad, convergence at 1e-12.
//
// A non-converged solve returns the best iterate rather than an error;
// published reference ephemerides assume that behavior. The converged flag
// and iteration count are exposed so tests can probe convergence directly.
func solveKepler(u, axnl, aynl float64) (eo1 float64, converged bool, iterations int) {
	eo1 = u
	tem5 := 9999.9
	ktr := 1
	for math.Abs(tem5) >= 1.0e-12 && ktr <= 10 {
		sineo1 := math.Sin(eo1)
		coseo1 := math.Cos(eo1)
		tem5 = 1.0 - coseo1*axnl - sineo1*aynl
		tem5 = (u - aynl*coseo1 + axnl*sineo1 - eo1) / tem5
		if math.Abs(tem5) >= 0.95 {
			if tem5 > 0.0 {
				tem5 = 0.95
			} else {
				tem5 = -0.95
			}
		}
		eo1 += tem5
		ktr++
	}
	return eo1, math.Abs(tem5) < 1.0e-12, ktr - 1
}

// PropagateAt advances the record to an absolute UTC time.
func (s *SatelliteRecord) PropagateAt(t time.Time) (StateVector, error) {
	tsince := (transform.JulianDate(t) - s.JdsatEpoch) * 1440.0
	return s.Propagate(tsince)
}

// Propagate advances the record tsince minutes past its epoch (negative for
// times before epoch) and returns the TEME position/velocity in km and
// km/s, or a typed *PropagationError.
//
// The call mutates only the deep-space integrator state; a failure for one
// time argument leaves the record usable for others.
func (s *SatelliteRecord) Propagate(tsince float64) (StateVector, error) {
	grav := s.grav
	const temp4 = 1.5e-12
	vkmpersec := grav.radiusEarthKm * grav.xke / 60.0

	// Secular gravity and atmospheric drag.
	xmdf := s.mo + s.mdot*tsince
	argpdf := s.argpo + s.argpdot*tsince
	nodedf := s.nodeo + s.nodedot*tsince
	argpm := argpdf
	mm := xmdf
	t2 := tsince * tsince
	nodem := nodedf + s.nodecf*t2
	tempa := 1.0 - s.cc1*tsince
	tempe := s.bstar * s.cc4 * tsince
	templ := s.t2cof * t2

	if !s.isimp {
		delomg := s.omgcof * tsince
		delmtemp := 1.0 + s.eta*math.Cos(xmdf)
		delm := s.xmcof * (delmtemp*delmtemp*delmtemp - s.delmo)
		temp := delomg + delm
		mm = xmdf + temp
		argpm = argpdf - temp
		t3 := t2 * tsince
		t4 := t3 * tsince
		tempa = tempa - s.d2*t2 - s.d3*t3 - s.d4*t4
		tempe = tempe + s.bstar*s.cc5*(math.Sin(mm)-s.sinmao)
		templ = templ + s.t3cof*t3 + t4*(s.t4cof+tsince*s.t5cof)
	}

	nm := s.no
	em := s.ecco
	inclm := s.inclo

	if s.deepSpace {
		out := s.dspace(dspaceInput{
			t:     tsince,
			tc:    tsince,
			em:    em,
			argpm: argpm,
			inclm: inclm,
			mm:    mm,
			nodem: nodem,
			nm:    nm,
		}, s.rs)
		em = out.em
		argpm = out.argpm
		inclm = out.inclm
		mm = out.mm
		nodem = out.nodem
		nm = out.nm
		s.rs = out.rs
	}

	if nm <= 0.0 {
		return StateVector{}, &PropagationError{
			Code: CodeMeanMotionBelowZero, Tsince: tsince, Value: nm, Catalog: s.Catalog,
		}
	}

	am := math.Pow(grav.xke/nm, x2o3) * tempa * tempa
	nm = grav.xke / math.Pow(am, 1.5)
	em = em - tempe

	if em >= 1.0 || em < -0.001 {
		return StateVector{}, &PropagationError{
			Code: CodeMeanEccentricityOutOfRange, Tsince: tsince, Value: em, Catalog: s.Catalog,
		}
	}
	// Small-eccentricity floor keeps the periodic terms finite.
	if em < 1.0e-6 {
		em = 1.0e-6
	}

	mm = mm + s.no*templ
	xlm := mm + argpm + nodem
	nodem = math.Mod(nodem, twoPi)
	argpm = math.Mod(argpm, twoPi)
	xlm = math.Mod(xlm, twoPi)
	mm = math.Mod(xlm-argpm-nodem, twoPi)

	// Fields possibly updated by the deep-space periodics.
	ep := em
	xincp := inclm
	argpp := argpm
	nodep := nodem
	mp := mm
	sinip := math.Sin(xincp)
	cosip := math.Cos(xincp)
	aycof := s.aycof
	xlcof := s.xlcof
	con41 := s.con41
	x1mth2 := s.x1mth2
	x7thm1 := s.x7thm1

	if s.deepSpace {
		el := dpperElements{ep: ep, inclp: xincp, nodep: nodep, argpp: argpp, mp: mp}
		s.dpper(tsince, &el)
		ep, xincp, nodep, argpp, mp = el.ep, el.inclp, el.nodep, el.argpp, el.mp
		if xincp < 0.0 {
			xincp = -xincp
			nodep += math.Pi
			argpp -= math.Pi
		}
		if ep < 0.0 || ep > 1.0 {
			return StateVector{}, &PropagationError{
				Code: CodePerturbedEccentricityOutOfRange, Tsince: tsince, Value: ep, Catalog: s.Catalog,
			}
		}
		// Inclination-dependent coefficients track the corrected
		// inclination on the deep-space path.
		sinip = math.Sin(xincp)
		cosip = math.Cos(xincp)
		aycof = -0.5 * grav.j3oj2 * sinip
		if math.Abs(cosip+1.0) > 1.5e-12 {
			xlcof = -0.25 * grav.j3oj2 * sinip * (3.0 + 5.0*cosip) / (1.0 + cosip)
		} else {
			xlcof = -0.25 * grav.j3oj2 * sinip * (3.0 + 5.0*cosip) / temp4
		}
	}

	// Long-period periodics: non-singular eccentricity vector.
	axnl := ep * math.Cos(argpp)
	temp := 1.0 / (am * (1.0 - ep*ep))
	aynl := ep*math.Sin(argpp) + temp*aycof
	xl := mp + argpp + nodep + temp*xlcof*axnl

	// Kepler's equation for the eccentric longitude.
	u := math.Mod(xl-nodep, twoPi)
	eo1, _, _ := solveKepler(u, axnl, aynl)

	sineo1 := math.Sin(eo1)
	coseo1 := math.Cos(eo1)
	ecose := axnl*coseo1 + aynl*sineo1
	esine := axnl*sineo1 - aynl*coseo1
	el2 := axnl*axnl + aynl*aynl
	pl := am * (1.0 - el2)
	if pl < 0.0 {
		return StateVector{}, &PropagationError{
			Code: CodeSemiLatusRectumBelowZero, Tsince: tsince, Value: pl, Catalog: s.Catalog,
		}
	}

	// Short-period periodics (second-order J2).
	rl := am * (1.0 - ecose)
	rdotl := math.Sqrt(am) * esine / rl
	rvdotl := math.Sqrt(pl) / rl
	betal := math.Sqrt(1.0 - el2)
	temp = esine / (1.0 + betal)
	sinu := am / rl * (sineo1 - aynl - axnl*temp)
	cosu := am / rl * (coseo1 - axnl + aynl*temp)
	su := math.Atan2(sinu, cosu)
	sin2u := (cosu + cosu) * sinu
	cos2u := 1.0 - 2.0*sinu*sinu
	temp = 1.0 / pl
	temp1 := 0.5 * grav.j2 * temp
	temp2 := temp1 * temp

	if s.deepSpace {
		cosisq := cosip * cosip
		con41 = 3.0*cosisq - 1.0
		x1mth2 = 1.0 - cosisq
		x7thm1 = 7.0*cosisq - 1.0
	}

	mrt := rl*(1.0-1.5*temp2*betal*con41) + 0.5*temp1*x1mth2*cos2u
	su = su - 0.25*temp2*x7thm1*sin2u
	xnode := nodep + 1.5*temp2*cosip*sin2u
	xinc := xincp + 1.5*temp2*cosip*sinip*cos2u
	mvt := rdotl - nm*temp1*x1mth2*sin2u/grav.xke
	rvdot := rvdotl + nm*temp1*(x1mth2*cos2u+1.5*con41)/grav.xke

	// Orientation vectors and rotation to TEME.
	sinsu := math.Sin(su)
	cossu := math.Cos(su)
	snod := math.Sin(xnode)
	cnod := math.Cos(xnode)
	sini := math.Sin(xinc)
	cosi := math.Cos(xinc)
	xmx := -snod * cosi
	xmy := cnod * cosi
	ux := xmx*sinsu + cnod*cossu
	uy := xmy*sinsu + snod*cossu
	uz := sini * sinsu
	vx := xmx*cossu - cnod*sinsu
	vy := xmy*cossu - snod*sinsu
	vz := sini * cossu

	if mrt < 1.0 {
		return StateVector{}, &PropagationError{
			Code: CodeDecayed, Tsince: tsince, Value: mrt, Catalog: s.Catalog,
		}
	}

	return StateVector{
		Position: [3]float64{
			mrt * ux * grav.radiusEarthKm,
			mrt * uy * grav.radiusEarthKm,
			mrt * uz * grav.radiusEarthKm,
		},
		Velocity: [3]float64{
			(mvt*ux + rvdot*vx) * vkmpersec,
			(mvt*uy + rvdot*vy) * vkmpersec,
			(mvt*uz + rvdot*vz) * vkmpersec,
		},
		MinutesFromEpoch: tsince,
		Elements: MeanElements{
			SemiMajorAxis: am,
			Eccentricity:  ep,
			Inclination:   xincp,
			RightAscen:    nodep,
			ArgPerigee:    argpp,
			MeanAnomaly:   mp,
			MeanMotion:    nm,
		},
	}, nil
}
