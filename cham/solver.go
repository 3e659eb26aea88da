// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cham implements the nonlinear solver for the chameleon screened
// scalar field equation
//     α ∇²φ + φ^-(n+1) = ρ
// over a density profile defined on an unstructured mesh, together with the
// derived-quantity post-processing built on top of the converged field
package cham

import (
	"math"

	"github.com/AndriusT/SELCIE/fem"
	"github.com/AndriusT/SELCIE/inp"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// SolveMode selects the nonlinear iteration scheme
type SolveMode int

const (
	Picard SolveMode = iota // successive linearisation around the current field
	Newton                  // linearised residual correction
)

// Solver computes the static chameleon field for given α, n and density
// profile. A Solver instance is meant for single-threaded, sequential use;
// concurrent solves require independent instances
type Solver struct {

	// input
	Alpha float64     // spatial coupling constant; > 0
	N     int         // potential exponent; >= 0
	Dom   *fem.Domain // discretisation backend

	// configuration (directly settable before calling a solve)
	RelaxationParameter float64 // θ in (0,2]; default 1
	TolDu               float64 // absolute tolerance on ‖du‖∞; default 1e-14
	TolRelDu            float64 // relative tolerance forwarded to the inner linear solves; default 1e-10
	MaxIter             int     // outer (and inner) iteration cap; default 1000
	Verbose             bool    // print iteration table

	// setup products. immutable after NewSolver
	DensityProjection []float64  // ρ interpolated onto the scalar space
	DensityMax        float64    // max of the interpolated density
	FieldMin          float64    // density_max^(-1/(n+1)) == uniform initial guess
	P                 []float64  // source vector ∫ ρ v w
	A                 *fem.SpMat // mass matrix ∫ u v w
	A0                *fem.SpMat // stiffness matrix ∫ ∇u·∇v w

	// results
	Field        []float64 // converged (or best-effort) field; nil before first solve
	FieldVersion int       // incremented by every successful solve
	Niter        int       // iterations of the last solve
	DuNorm       float64   // final ‖du‖∞ of the last solve
	DuNorms      []float64 // per-iteration ‖du‖∞ of the last solve

	// memoized derived quantities
	cache derivedCache
}

// NewSolver creates a solver and performs the shared setup: density
// projection and maximum, minimum field value, and the assembly of the
// source vector, mass matrix and stiffness operator
func NewSolver(alpha float64, n int, dom *fem.Domain) (o *Solver, err error) {

	// configuration checks first
	if alpha <= 0 {
		return nil, inp.ConfigurationError(io.Sf("alpha must be positive. %g is invalid", alpha))
	}
	if n < 0 {
		return nil, inp.ConfigurationError(io.Sf("n must be a non-negative integer. %d is invalid", n))
	}

	// new solver with SELCIE default parameters
	o = &Solver{
		Alpha:               alpha,
		N:                   n,
		Dom:                 dom,
		RelaxationParameter: 1.0,
		TolDu:               1e-14,
		TolRelDu:            1e-10,
		MaxIter:             1000,
	}

	// density projection and minimum field value
	o.DensityProjection = dom.InterpolateDensity()
	o.DensityMax = dom.MaxVertexValue(o.DensityProjection)
	if o.DensityMax <= 0 {
		return nil, inp.ConfigurationError(io.Sf("maximum density must be positive. %g is invalid", o.DensityMax))
	}
	o.FieldMin = math.Pow(o.DensityMax, -1.0/float64(n+1))

	// constant matrices and source vector
	o.P, err = dom.AssembleLinForm(fem.LinForm{Kind: fem.FormSourceDensity})
	if err != nil {
		return nil, err
	}
	o.A, err = dom.Mass()
	if err != nil {
		return nil, err
	}
	o.A0, err = dom.Stiffness()
	if err != nil {
		return nil, err
	}
	return
}

// Solve runs the nonlinear iteration in the given mode. The linear method and
// preconditioner are handed to the inner solves; empty strings select the
// defaults ("cg" with diagonal scaling)
func (o *Solver) Solve(mode SolveMode, method, precond string) error {
	switch mode {
	case Picard:
		return o.SolvePicard(method, precond)
	case Newton:
		return o.SolveNewton(method, precond)
	}
	return inp.ConfigurationError(io.Sf("unknown solve mode %d", mode))
}

// SolvePicard solves for the field with the Picard method: each iteration
// linearises φ^-(n+1) around the current field, solves
//     (α·A0 + A1)·u = B − P
// and blends u into the field with the relaxation parameter.
// Exceeding MaxIter without reaching TolDu is not an error: the best-effort
// field is kept and DuNorm records the final ‖du‖∞
func (o *Solver) SolvePicard(method, precond string) (err error) {

	cfg, err := o.linConfig(method, precond)
	if err != nil {
		return
	}

	// uniform initial guess
	ny := o.Dom.Ny
	field := make([]float64, ny)
	la.VecFill(field, o.FieldMin)
	du := make([]float64, ny)
	rhs := make([]float64, ny)
	θ := o.RelaxationParameter

	// message
	if o.Verbose {
		io.Pf("%4s%23s\n", "it", "‖du‖∞")
	}

	// iterations
	var it int
	var norms []float64
	duNorm := 1.0
	for it = 0; duNorm > o.TolDu && it < o.MaxIter; it++ {

		// A1 = ∫ (n+1)·φ^-(n+2)·u·v·w ; B = ∫ (n+2)·φ^-(n+1)·v·w
		A1, e := o.Dom.WeightedMass(field, fem.PowNegCoef(float64(o.N+1), o.N+2))
		if e != nil {
			return e
		}
		B, e := o.Dom.AssembleLinForm(fem.LinForm{Kind: fem.FormPicardRHS, N: o.N, Field: field})
		if e != nil {
			return e
		}

		// solve (α·A0 + A1)·u = B − P
		K := fem.JoinScaled(o.Alpha, o.A0, A1)
		for i := 0; i < ny; i++ {
			rhs[i] = B[i] - o.P[i]
		}
		u, e := o.Dom.SolveLin(cfg, K, rhs)
		if e != nil {
			return e
		}

		// relaxed update: φ ← θ·u + (1−θ)·φ
		for i := 0; i < ny; i++ {
			du[i] = u[i] - field[i]
			field[i] = θ*u[i] + (1.0-θ)*field[i]
		}
		duNorm = la.VecLargest(du, 1)
		norms = append(norms, duNorm)
		if o.Verbose {
			io.Pf("%4d%23.15e\n", it+1, duNorm)
		}
	}

	// publish converged (or best-effort) field
	o.Field = field
	o.FieldVersion++
	o.Niter = it
	o.DuNorm = duNorm
	o.DuNorms = norms
	return
}

// SolveNewton solves for the field with the Newton method: each iteration
// solves
//     (α·A0 + A1)·du = B − P
// for the correction du and applies φ ← φ + θ·du
func (o *Solver) SolveNewton(method, precond string) (err error) {

	cfg, err := o.linConfig(method, precond)
	if err != nil {
		return
	}

	// uniform initial guess
	ny := o.Dom.Ny
	field := make([]float64, ny)
	la.VecFill(field, o.FieldMin)
	rhs := make([]float64, ny)
	θ := o.RelaxationParameter

	// message
	if o.Verbose {
		io.Pf("%4s%23s\n", "it", "‖du‖∞")
	}

	// iterations
	var it int
	var norms []float64
	duNorm := 1.0
	for it = 0; duNorm > o.TolDu && it < o.MaxIter; it++ {

		// A1 = ∫ (n+1)·φ^-(n+2)·u·v·w ; B = ∫ [−α·∇φ·∇v + φ^-(n+1)·v]·w
		A1, e := o.Dom.WeightedMass(field, fem.PowNegCoef(float64(o.N+1), o.N+2))
		if e != nil {
			return e
		}
		B, e := o.Dom.AssembleLinForm(fem.LinForm{Kind: fem.FormNewtonRHS, Alpha: o.Alpha, N: o.N, Field: field})
		if e != nil {
			return e
		}

		// solve (α·A0 + A1)·du = B − P
		K := fem.JoinScaled(o.Alpha, o.A0, A1)
		for i := 0; i < ny; i++ {
			rhs[i] = B[i] - o.P[i]
		}
		du, e := o.Dom.SolveLin(cfg, K, rhs)
		if e != nil {
			return e
		}

		// relaxed correction: φ ← φ + θ·du
		for i := 0; i < ny; i++ {
			field[i] += θ * du[i]
		}
		duNorm = la.VecLargest(du, 1)
		norms = append(norms, duNorm)
		if o.Verbose {
			io.Pf("%4d%23.15e\n", it+1, duNorm)
		}
	}

	// publish converged (or best-effort) field
	o.Field = field
	o.FieldVersion++
	o.Niter = it
	o.DuNorm = duNorm
	o.DuNorms = norms
	return
}

// linConfig validates the solver parameters and builds the inner linear
// solve configuration. TolRelDu is forwarded as the relative tolerance of
// the inner solves; it is not an outer stopping criterion
func (o *Solver) linConfig(method, precond string) (cfg fem.LinConfig, err error) {
	if o.RelaxationParameter <= 0 || o.RelaxationParameter > 2 {
		return cfg, inp.ConfigurationError(io.Sf("relaxation parameter must be within (0, 2]. %g is invalid", o.RelaxationParameter))
	}
	if o.TolDu <= 0 || o.TolRelDu <= 0 {
		return cfg, inp.ConfigurationError(io.Sf("tolerances must be positive. tol_du=%g tol_rel_du=%g are invalid", o.TolDu, o.TolRelDu))
	}
	if o.MaxIter < 1 {
		return cfg, inp.ConfigurationError(io.Sf("maxiter must be positive. %d is invalid", o.MaxIter))
	}
	cfg = fem.LinConfig{
		Method:  method,
		Precond: precond,
		TolAbs:  o.TolDu,
		TolRel:  o.TolRelDu,
		MaxIt:   o.MaxIter,
	}
	return
}
