// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cham

import (
	"github.com/cpmech/gosl/io"
)

// NoQualifyingVertexError indicates that no sub-mesh vertex fell within the
// requested boundary-distance band
type NoQualifyingVertexError string

// Error returns the error message
func (e NoQualifyingVertexError) Error() string { return string(e) }

// MeasureBoundaryExtremum scans the vertices of the sub-mesh tagged with tag
// whose distance d to the sub-mesh boundary lies within the half-open band
//     boundaryDistance − tol/2  <=  d  <  boundaryDistance + tol/2
// and returns the largest projected gradient magnitude among them together
// with the location where it occurs. Fails with NoQualifyingVertexError when
// the band is empty
func (o *Solver) MeasureBoundaryExtremum(tag int, boundaryDistance, tol float64) (max float64, at []float64, err error) {

	// gradient magnitude with default projection settings
	g, err := o.GradientMagnitude("", "")
	if err != nil {
		return
	}

	// boundary distances of the sub-mesh vertices
	verts, dists, err := o.Dom.SubdomainBoundaryDistances(tag)
	if err != nil {
		return
	}

	// scan the band
	lo := boundaryDistance - tol/2.0
	hi := boundaryDistance + tol/2.0
	found := false
	for i, vid := range verts {
		if dists[i] < lo || dists[i] >= hi {
			continue
		}
		if !found || g[vid] > max {
			max = g[vid]
			at = o.Dom.Msh.Verts[vid].C
			found = true
		}
	}
	if !found {
		return 0, nil, NoQualifyingVertexError(io.Sf("no vertex of subdomain %d lies within distance [%g, %g) of its boundary", tag, lo, hi))
	}

	// copy so callers cannot mutate mesh coordinates
	c := make([]float64, len(at))
	copy(c, at)
	return max, c, nil
}
