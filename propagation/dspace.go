package propagation

import "math"

// dspaceInput is the per-call view into the secularly-updated mean elements
// the integrator corrects.
type dspaceInput struct {
	t     float64 // minutes past epoch, may be negative
	tc    float64
	em    float64
	argpm float64
	inclm float64
	mm    float64
	nodem float64
	nm    float64
}

// dspaceOutput returns the corrected elements together with the advanced
// continuation token. The caller owns writing the token back to the record;
// dspace itself never mutates shared state.
type dspaceOutput struct {
	em    float64
	argpm float64
	inclm float64
	mm    float64
	nodem float64
	nm    float64
	dndt  float64
	rs    resonanceState
}

// dspace applies the third-body secular rates and, for resonant orbits,
// numerically integrates the resonance effects on mean motion and mean
// anomaly with a 720-minute Euler-Maclaurin step scheme. The integrator
// restarts from epoch whenever the requested time is on the other side of
// epoch from the stored state, or closer to epoch than it: backward
// propagation must never extrapolate from stale forward state.
func (s *SatelliteRecord) dspace(in dspaceInput, rs resonanceState) dspaceOutput {
	d := &s.ds

	out := dspaceOutput{
		em:    in.em + d.dedt*in.t,
		inclm: in.inclm + d.didt*in.t,
		argpm: in.argpm + d.domdt*in.t,
		nodem: in.nodem + d.dnodt*in.t,
		mm:    in.mm + d.dmdt*in.t,
		nm:    in.nm,
		rs:    rs,
	}

	if s.irez == 0 {
		return out
	}

	theta := math.Mod(s.gsto+in.tc*rptim, twoPi)

	// Restart guard: epoch restart, direction reversal, or a target
	// between epoch and the stored integrator time.
	if rs.atime == 0.0 || in.t*rs.atime <= 0.0 || math.Abs(in.t) < math.Abs(rs.atime) {
		rs.atime = 0.0
		rs.xni = s.no
		rs.xli = s.xlamo
	}

	delt := stepn
	if in.t > 0.0 {
		delt = stepp
	}

	var xndt, xldot, xnddt float64
	var ft float64
	for {
		if s.irez != 2 {
			// Near-synchronous resonance terms.
			xndt = d.del1*math.Sin(rs.xli-fasx2) +
				d.del2*math.Sin(2.0*(rs.xli-fasx4)) +
				d.del3*math.Sin(3.0*(rs.xli-fasx6))
			xldot = rs.xni + s.xfact
			xnddt = d.del1*math.Cos(rs.xli-fasx2) +
				2.0*d.del2*math.Cos(2.0*(rs.xli-fasx4)) +
				3.0*d.del3*math.Cos(3.0*(rs.xli-fasx6))
			xnddt *= xldot
		} else {
			// Near-half-day resonance terms.
			xomi := s.argpo + s.argpdot*rs.atime
			x2omi := xomi + xomi
			x2li := rs.xli + rs.xli
			xndt = d.d2201*math.Sin(x2omi+rs.xli-g22) +
				d.d2211*math.Sin(rs.xli-g22) +
				d.d3210*math.Sin(xomi+rs.xli-g32) +
				d.d3222*math.Sin(-xomi+rs.xli-g32) +
				d.d4410*math.Sin(x2omi+x2li-g44) +
				d.d4422*math.Sin(x2li-g44) +
				d.d5220*math.Sin(xomi+rs.xli-g52) +
				d.d5232*math.Sin(-xomi+rs.xli-g52) +
				d.d5421*math.Sin(xomi+x2li-g54) +
				d.d5433*math.Sin(-xomi+x2li-g54)
			xldot = rs.xni + s.xfact
			xnddt = d.d2201*math.Cos(x2omi+rs.xli-g22) +
				d.d2211*math.Cos(rs.xli-g22) +
				d.d3210*math.Cos(xomi+rs.xli-g32) +
				d.d3222*math.Cos(-xomi+rs.xli-g32) +
				d.d5220*math.Cos(xomi+rs.xli-g52) +
				d.d5232*math.Cos(-xomi+rs.xli-g52) +
				2.0*(d.d4410*math.Cos(x2omi+x2li-g44)+
					d.d4422*math.Cos(x2li-g44)+
					d.d5421*math.Cos(xomi+x2li-g54)+
					d.d5433*math.Cos(-xomi+x2li-g54))
			xnddt *= xldot
		}

		// Step while more than one full step remains, then finish with
		// the fractional remainder.
		if math.Abs(in.t-rs.atime) < stepp {
			ft = in.t - rs.atime
			break
		}
		rs.xli += xldot*delt + xndt*step2
		rs.xni += xndt*delt + xnddt*step2
		rs.atime += delt
	}

	out.nm = rs.xni + xndt*ft + xnddt*ft*ft*0.5
	xl := rs.xli + xldot*ft + xndt*ft*ft*0.5
	if s.irez != 1 {
		out.mm = xl - 2.0*out.nodem + 2.0*theta
	} else {
		out.mm = xl - out.nodem - out.argpm + theta
	}
	out.dndt = out.nm - s.no
	out.nm = s.no + out.dndt
	out.rs = rs

	return out
}
