// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures/routines for the cell types
// supported by the field solver: tri3, qua4 and tet4
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
)

// constants
const (
	MINDET     = 1.0e-14 // minimum determinant allowed for dxdR
	INVMAP_TOL = 1.0e-10 // tolerance for inverse mapping function
	INVMAP_NIT = 25      // maximum number of iterations for inverse mapping
)

// Ipoint holds integration point data: natural coordinates and weight {r, s, t, w}
type Ipoint []float64

// ShpFunc is the shape functions callback function
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data
type Shape struct {

	// geometry
	Type           string      // name; e.g. "tri3"
	Func           ShpFunc     // shape/derivs function callback function
	Gndim          int         // geometry dimension; e.g. "tri3" => 2
	Nverts         int         // number of vertices in cell
	FaceNverts     int         // number of vertices per face (edge in 2D)
	FaceLocalVerts [][]int     // face local vertices [nfaces][FaceNverts]
	NatCoords      [][]float64 // natural coordinates [gndim][nverts]
	Ips            []Ipoint    // integration points

	// scratchpad: volume
	S    []float64   // [nverts] shape functions
	G    [][]float64 // [nverts][gndim] G == dSdx. derivative of shape function
	J    float64     // Jacobian: determinant of dxdR
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [gndim][gndim] derivatives of real coordinates w.r.t natural coordinates
	DRdx [][]float64 // [gndim][gndim] dRdx == inverse(dxdR)
}

// GetCopy returns a new copy of this shape structure
func (o Shape) GetCopy() *Shape {
	var p Shape
	p.Type = o.Type
	p.Func = o.Func
	p.Gndim = o.Gndim
	p.Nverts = o.Nverts
	p.FaceNverts = o.FaceNverts
	p.FaceLocalVerts = o.FaceLocalVerts
	p.NatCoords = la.MatClone(o.NatCoords)
	p.Ips = o.Ips
	p.init_scratchpad()
	return &p
}

// factory holds all Shapes available
var factory = make(map[string]*Shape)

// Get returns an existent Shape structure
//  Note: 1) returns nil on errors
//        2) use goroutineId > 0 to get a copy
func Get(geoType string, goroutineId int) *Shape {
	s, ok := factory[geoType]
	if !ok {
		return nil
	}
	if goroutineId > 0 {
		return s.GetCopy()
	}
	return s
}

// IpRealCoords returns the real coordinates (y) of an integration point
func (o *Shape) IpRealCoords(x [][]float64, ip Ipoint) (y []float64) {
	ndim := len(x)
	y = make([]float64, ndim)
	o.Func(o.S, o.DSdR, ip, false)
	for i := 0; i < ndim; i++ {
		for m := 0; m < o.Nverts; m++ {
			y[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// CalcAtIp calculates volume data such as S and G at natural coordinate r
//  Input:
//   x[ndim][nverts] -- coordinates matrix of cell
//   ip              -- integration point
//  Output:
//   S, DSdR, DxdR, DRdx, G, and J
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {

	// S and dSdR
	o.Func(o.S, o.DSdR, ip, derivs)
	if !derivs {
		return
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
	for i := 0; i < len(x); i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0.0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// dRdx := inv(dxdR)
	o.J, err = la.MatInv(o.DRdx, o.DxdR, MINDET)
	if err != nil {
		return
	}

	// G == dSdx := dSdR * dRdx  =>  dS^m/dx_j := sum_i dS^m/dR_i * dR_i/dx_j
	la.MatMul(o.G, 1, o.DSdR, o.DRdx)
	return
}

// InvMap computes the natural coordinates r, given the real coordinate y
//  Input:
//   y[ndim]         -- 2D/3D point coordinates
//   x[ndim][nverts] -- coordinates matrix of cell
//  Output:
//   r[3] -- natural coordinates of given point
func (o *Shape) InvMap(r, y []float64, x [][]float64) (err error) {

	var δRnorm float64
	e := make([]float64, o.Gndim)  // residual
	δr := make([]float64, o.Gndim) // corrector
	r[0], r[1], r[2] = 0, 0, 0     // first trial
	it := 0
	derivs := true
	for it = 0; it < INVMAP_NIT; it++ {

		// shape functions and derivatives
		o.Func(o.S, o.DSdR, r, derivs)

		// residual: e = y - x * S
		for i := 0; i < o.Gndim; i++ {
			e[i] = y[i]
			for j := 0; j < o.Nverts; j++ {
				e[i] -= x[i][j] * o.S[j]
			}
		}

		// Jmat == dxdR = x * dSdR
		for i := 0; i < len(x); i++ {
			for j := 0; j < o.Gndim; j++ {
				o.DxdR[i][j] = 0.0
				for k := 0; k < o.Nverts; k++ {
					o.DxdR[i][j] += x[i][k] * o.DSdR[k][j]
				}
			}
		}

		// Jimat == dRdx = inv(dxdR)
		o.J, err = la.MatInv(o.DRdx, o.DxdR, MINDET)
		if err != nil {
			return
		}

		// corrector: dR = Jimat * e
		for i := 0; i < o.Gndim; i++ {
			δr[i] = 0.0
			for j := 0; j < o.Gndim; j++ {
				δr[i] += o.DRdx[i][j] * e[j]
			}
		}

		// converged?
		δRnorm = 0.0
		for i := 0; i < o.Gndim; i++ {
			r[i] += δr[i]
			δRnorm += δr[i] * δr[i]
			// fix r outside range
			if r[i] < -1.0 || r[i] > 1.0 {
				if math.Abs(r[i]-(-1.0)) < INVMAP_TOL {
					r[i] = -1.0
				}
				if math.Abs(r[i]-1.0) < INVMAP_TOL {
					r[i] = 1.0
				}
			}
		}
		if math.Sqrt(δRnorm) < INVMAP_TOL {
			break
		}
	}
	return
}

// CellBryDist returns the shortest distance between R and the boundary of the
// cell in natural coordinates. Negative values indicate R is outside the cell
func (o *Shape) CellBryDist(R []float64) float64 {
	r, s, t := R[0], R[1], 0.0
	if len(R) > 2 {
		t = R[2]
	}
	switch o.Type {
	case "tri3":
		return utl.Min(r, utl.Min(s, 1.0-r-s))
	case "qua4":
		return utl.Min(1.0-math.Abs(r), 1.0-math.Abs(s))
	case "tet4":
		return utl.Min(r, utl.Min(s, utl.Min(t, 1.0-r-s-t)))
	}
	chk.Panic("cannot handle Type=%q yet", o.Type)
	return 0 // must not reach this point
}

// init_scratchpad initialise volume data (scratchpad)
func (o *Shape) init_scratchpad() {
	o.S = make([]float64, o.Nverts)
	o.DSdR = la.MatAlloc(o.Nverts, o.Gndim)
	o.DxdR = la.MatAlloc(o.Gndim, o.Gndim)
	o.DRdx = la.MatAlloc(o.Gndim, o.Gndim)
	o.G = la.MatAlloc(o.Nverts, o.Gndim)
}
