// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// DensityProfile defines a piecewise density expression over the subdomains
// of a mesh. Each (negative) cell tag maps to an expression evaluable at any
// point of the subdomain; Default covers tags without a specific region.
// The profile is read-only input for the field solver
type DensityProfile struct {
	Regions map[int]dbf.T // cell tag => density expression
	Default dbf.T         // fallback expression; may be nil
}

// NewConstDensity returns a profile with constant densities per tag
func NewConstDensity(values map[int]float64) *DensityProfile {
	o := &DensityProfile{Regions: make(map[int]dbf.T)}
	for tag, v := range values {
		o.Regions[tag] = &dbf.Cte{C: v}
	}
	return o
}

// Check verifies that every cell tag of the mesh is covered by a region or
// by the default expression
func (o *DensityProfile) Check(msh *Mesh) error {
	for tag := range msh.CellTag2cells {
		if _, ok := o.Regions[tag]; !ok && o.Default == nil {
			return ConfigurationError(io.Sf("density profile does not cover subdomain tag %d", tag))
		}
	}
	return nil
}

// At evaluates the density at point x inside a cell tagged with tag.
// Check must have been called during setup
func (o *DensityProfile) At(tag int, x []float64) float64 {
	if f, ok := o.Regions[tag]; ok {
		return f.F(0, x)
	}
	if o.Default == nil {
		chk.Panic("density profile has no expression for tag %d (Check not called?)", tag)
	}
	return o.Default.F(0, x)
}
