// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cham

import (
	"github.com/AndriusT/SELCIE/inp"

	"github.com/cpmech/gosl/io"

	"gonum.org/v1/gonum/floats"
)

// DimensionMismatchError indicates a probe argument whose dimension does not
// match the mesh
type DimensionMismatchError string

// Error returns the error message
func (e DimensionMismatchError) Error() string { return string(e) }

// probeArgs validates direction/origin/radialLimit and fills the defaults:
// nil origin means the coordinate origin and a zero radial limit means 1.
// Validation happens before any mesh lookup
func (o *Solver) probeArgs(direction, origin []float64, radialLimit float64) (org []float64, lim float64, err error) {
	ndim := o.Dom.Msh.Ndim
	if len(direction) != ndim {
		return nil, 0, DimensionMismatchError(io.Sf("direction %v has %d components but the mesh is %dD", direction, len(direction), ndim))
	}
	org = origin
	if org == nil {
		org = make([]float64, ndim)
	} else if len(org) != ndim {
		return nil, 0, DimensionMismatchError(io.Sf("origin %v has %d components but the mesh is %dD", origin, len(origin), ndim))
	}
	if floats.Norm(direction, 2) == 0 {
		return nil, 0, inp.ConfigurationError("probe direction must be a non-zero vector")
	}
	lim = radialLimit
	if lim == 0 {
		lim = 1.0
	}
	if lim < 0 {
		return nil, 0, inp.ConfigurationError(io.Sf("radial limit must be positive. %g is invalid", radialLimit))
	}
	return
}

// ProbeFunction samples a scalar DOF vector along the ray
//     x_k = origin + k·direction,  k = 0, 1, 2, ...
// collecting values while ‖x_k‖ < radialLimit. A sample outside the mesh
// aborts the whole probe with OutOfDomainError
func (o *Solver) ProbeFunction(u, direction, origin []float64, radialLimit float64) (vals []float64, err error) {
	org, lim, err := o.probeArgs(direction, origin, radialLimit)
	if err != nil {
		return
	}
	ndim := o.Dom.Msh.Ndim
	x := make([]float64, ndim)
	copy(x, org)
	for floats.Norm(x, 2) < lim {
		v, e := o.Dom.EvalScalarAt(u, x)
		if e != nil {
			return nil, e
		}
		vals = append(vals, v)
		for d := 0; d < ndim; d++ {
			x[d] += direction[d]
		}
	}
	return
}

// ProbeVectorFunction samples an interleaved vector DOF vector along the same
// ray, returning one ndim-sized sample per step
func (o *Solver) ProbeVectorFunction(q, direction, origin []float64, radialLimit float64) (vals [][]float64, err error) {
	org, lim, err := o.probeArgs(direction, origin, radialLimit)
	if err != nil {
		return
	}
	ndim := o.Dom.Msh.Ndim
	x := make([]float64, ndim)
	copy(x, org)
	for floats.Norm(x, 2) < lim {
		v, e := o.Dom.EvalVectorAt(q, x)
		if e != nil {
			return nil, e
		}
		vals = append(vals, v)
		for d := 0; d < ndim; d++ {
			x[d] += direction[d]
		}
	}
	return
}
