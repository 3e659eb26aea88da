// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cham

import (
	"github.com/AndriusT/SELCIE/fem"
)

// derivedCache memoizes the derived quantities. Each slot remembers the
// FieldVersion it was computed against; a later solve invalidates it.
// The density field does not depend on the field and is memoized for good
type derivedCache struct {
	gradient    []float64
	gradientVer int

	gradMag    []float64
	gradMagVer int

	residual    []float64
	residualVer int

	laplacian    []float64
	laplacianVer int

	potDeriv    []float64
	potDerivVer int
}

// ensureField triggers a default Picard solve if no field has been computed
// yet. Derived quantities never operate on a nil field
func (o *Solver) ensureField() error {
	if o.Field != nil {
		return nil
	}
	return o.SolvePicard("", "")
}

// derivedConfig builds the linear solve configuration of a derived-quantity
// projection; empty method/precond select the per-quantity defaults
func (o *Solver) derivedConfig(method, precond, defMethod, defPrecond string) fem.LinConfig {
	if method == "" {
		method = defMethod
	}
	if precond == "" {
		precond = defPrecond
	}
	return fem.LinConfig{
		Method:  method,
		Precond: precond,
		TolAbs:  o.TolDu,
		TolRel:  o.TolRelDu,
		MaxIt:   o.MaxIter,
	}
}

// GradientField computes the mass-matrix projection of ∇φ onto the vector
// space:
//     Av·q = ∫ ∇φ·v_vec w
// The returned slice is interleaved [vertex*ndim+dim], cached until the next
// solve, and must be treated as read-only
func (o *Solver) GradientField(method, precond string) (q []float64, err error) {
	if err = o.ensureField(); err != nil {
		return
	}
	if o.cache.gradient != nil && o.cache.gradientVer == o.FieldVersion {
		return o.cache.gradient, nil
	}
	Av, err := o.Dom.VectorMass()
	if err != nil {
		return
	}
	b, err := o.Dom.AssembleLinForm(fem.LinForm{Kind: fem.FormGradProjection, Field: o.Field})
	if err != nil {
		return
	}
	q, err = o.Dom.SolveLin(o.derivedConfig(method, precond, "cg", "jacobi"), Av, b)
	if err != nil {
		return
	}
	o.cache.gradient = q
	o.cache.gradientVer = o.FieldVersion
	return
}

// GradientMagnitude computes the scalar-space projection of |∇φ|
func (o *Solver) GradientMagnitude(method, precond string) (g []float64, err error) {
	if err = o.ensureField(); err != nil {
		return
	}
	if o.cache.gradMag != nil && o.cache.gradMagVer == o.FieldVersion {
		return o.cache.gradMag, nil
	}
	b, err := o.Dom.AssembleLinForm(fem.LinForm{Kind: fem.FormGradMagnitude, Field: o.Field})
	if err != nil {
		return
	}
	g, err = o.Dom.SolveLin(o.derivedConfig(method, precond, "cg", "jacobi"), o.A, b)
	if err != nil {
		return
	}
	o.cache.gradMag = g
	o.cache.gradMagVer = o.FieldVersion
	return
}

// Residual computes the projection of the strong-form residual
//     α ∇·q + φ^-(n+1) − ρ
// with q the projected gradient field. Near zero everywhere for a converged
// field
func (o *Solver) Residual(method, precond string) (r []float64, err error) {
	if err = o.ensureField(); err != nil {
		return
	}
	if o.cache.residual != nil && o.cache.residualVer == o.FieldVersion {
		return o.cache.residual, nil
	}
	q, err := o.GradientField("", "")
	if err != nil {
		return
	}
	b, err := o.Dom.AssembleLinForm(fem.LinForm{Kind: fem.FormResidual, Alpha: o.Alpha, N: o.N, Field: o.Field, Vfield: q})
	if err != nil {
		return
	}
	r, err = o.Dom.SolveLin(o.derivedConfig(method, precond, "cg", "jacobi"), o.A, b)
	if err != nil {
		return
	}
	o.cache.residual = r
	o.cache.residualVer = o.FieldVersion
	return
}

// Laplacian computes the projection of ∇·q, the divergence of the projected
// gradient field
func (o *Solver) Laplacian(method, precond string) (l []float64, err error) {
	if o.cache.laplacian != nil && o.cache.laplacianVer == o.FieldVersion && o.Field != nil {
		return o.cache.laplacian, nil
	}
	q, err := o.GradientField("", "")
	if err != nil {
		return
	}
	b, err := o.Dom.AssembleLinForm(fem.LinForm{Kind: fem.FormLaplacian, Vfield: q})
	if err != nil {
		return
	}
	l, err = o.Dom.SolveLin(o.derivedConfig(method, precond, "cg", "jacobi"), o.A, b)
	if err != nil {
		return
	}
	o.cache.laplacian = l
	o.cache.laplacianVer = o.FieldVersion
	return
}

// PotentialDerivative computes the projection of φ^-(n+1)
func (o *Solver) PotentialDerivative(method, precond string) (p []float64, err error) {
	if err = o.ensureField(); err != nil {
		return
	}
	if o.cache.potDeriv != nil && o.cache.potDerivVer == o.FieldVersion {
		return o.cache.potDeriv, nil
	}
	b, err := o.Dom.AssembleLinForm(fem.LinForm{Kind: fem.FormPotentialDeriv, N: o.N, Field: o.Field})
	if err != nil {
		return
	}
	p, err = o.Dom.SolveLin(o.derivedConfig(method, precond, "cg", "jacobi"), o.A, b)
	if err != nil {
		return
	}
	o.cache.potDeriv = p
	o.cache.potDerivVer = o.FieldVersion
	return
}

// DensityField returns the density profile interpolated onto the scalar
// space. Computed once at setup; no linear solve is involved
func (o *Solver) DensityField() []float64 {
	return o.DensityProjection
}
