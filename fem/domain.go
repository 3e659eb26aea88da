// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the discretisation backend: P1 function spaces over
// an unstructured mesh, symmetry-weighted form assembly, linear solvers and
// pointwise field evaluation
package fem

import (
	"github.com/AndriusT/SELCIE/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm"
	"github.com/cpmech/gosl/la"
)

// constants
var (
	TolC = 1e-8 // tolerance to compare x-y-z coordinates
	Ndiv = 20   // bins n-division
)

// NumericDomainError indicates an undefined numeric operation during
// assembly; e.g. a non-positive field value feeding a negative-exponent power
type NumericDomainError string

// Error returns the error message
func (e NumericDomainError) Error() string { return string(e) }

// OutOfDomainError indicates pointwise evaluation outside the mesh
type OutOfDomainError string

// Error returns the error message
func (e OutOfDomainError) Error() string { return string(e) }

// Domain holds the scalar and vector P1 function spaces over a mesh.
// The scalar space has one DOF per vertex; the vector space has ndim DOFs
// per vertex, interleaved as [vertex*ndim+dim]
type Domain struct {

	// input
	Msh *inp.Mesh            // the mesh
	Rho *inp.DensityProfile  // piecewise density expression
	Wfn func([]float64) float64 // symmetry weight w(x)

	// derived
	Ny int             // number of scalar DOFs == number of vertices
	Nv int             // number of vector DOFs == nverts * ndim
	X  [][][]float64   // [ncells][ndim][nverts] coordinate matrices

	// spatial search
	NodBins gm.Bins   // bins for vertices (fast path of pointwise evaluation)
	grid    *cellGrid // bucket grid over cell bounding boxes

	// counters
	Nsolves int // number of linear solves issued (used by idempotence tests)
}

// NewDomain creates a new domain. The symmetry tag and the density coverage
// are validated eagerly; no solve work happens before these checks pass
func NewDomain(msh *inp.Mesh, rho *inp.DensityProfile) (o *Domain, err error) {

	// configuration checks first
	wfn, err := inp.SymWeight(msh.Sym, msh.Ndim)
	if err != nil {
		return nil, err
	}
	if rho != nil {
		if err = rho.Check(msh); err != nil {
			return nil, err
		}
	}

	// new domain
	o = &Domain{
		Msh: msh,
		Rho: rho,
		Wfn: wfn,
		Ny:  len(msh.Verts),
		Nv:  len(msh.Verts) * msh.Ndim,
	}

	// coordinate matrices
	o.X = make([][][]float64, len(msh.Cells))
	for i, c := range msh.Cells {
		o.X[i] = msh.ExtCoords(c)
	}

	// bins for vertices
	δ := TolC * 2
	xi := []float64{msh.Xmin - δ, msh.Ymin - δ}
	xf := []float64{msh.Xmax + δ, msh.Ymax + δ}
	if msh.Ndim == 3 {
		xi = append(xi, msh.Zmin-δ)
		xf = append(xf, msh.Zmax+δ)
	}
	err = o.NodBins.Init(xi, xf, Ndiv)
	if err != nil {
		return nil, chk.Err("cannot initialise bins for vertices: %v", err)
	}
	for _, v := range msh.Verts {
		err = o.NodBins.Append(v.C, v.Id, nil)
		if err != nil {
			return nil, chk.Err("cannot append vertex to bins: %v", err)
		}
	}

	// bucket grid over cells
	o.grid = newCellGrid(msh, o.X)
	return
}

// Interpolate evaluates f at every vertex, producing the P1 interpolant of f
func (o *Domain) Interpolate(f func(x []float64) float64) (u []float64) {
	u = make([]float64, o.Ny)
	for i, v := range o.Msh.Verts {
		u[i] = f(v.C)
	}
	return
}

// InterpolateDensity interpolates the piecewise density profile onto the
// scalar space. Vertices shared by subdomains take the maximum adjacent value
func (o *Domain) InterpolateDensity() (u []float64) {
	u = make([]float64, o.Ny)
	for i, v := range o.Msh.Verts {
		first := true
		for _, c := range o.Msh.Vert2cells[i] {
			val := o.Rho.At(c.Tag, v.C)
			if first || val > u[i] {
				u[i] = val
				first = false
			}
		}
	}
	return
}

// MaxVertexValue returns the largest entry of a scalar DOF vector
func (o *Domain) MaxVertexValue(u []float64) (max float64) {
	max = u[0]
	for _, v := range u {
		if v > max {
			max = v
		}
	}
	return
}

// NormInf returns the infinity norm of a DOF vector
func (o *Domain) NormInf(u []float64) float64 {
	return la.VecLargest(u, 1)
}
