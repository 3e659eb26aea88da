// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data structures: mesh, symmetry tags and
// piecewise density profiles
package inp

import (
	"encoding/json"
	"math"
	"path/filepath"
	"sort"

	"github.com/AndriusT/SELCIE/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// constants
const Ztol = 1e-7

// mesh symmetry tags. symmetry reduces an axisymmetric or cylindrical domain
// to a 2D slice; all integrals are then weighted accordingly
const (
	SymVerticalAxis   = "vertical-axis-symmetry"
	SymHorizontalAxis = "horizontal-axis-symmetry"
	SymCylinderSlice  = "cylinder-slice"
	SymNone           = "none"
)

// ConfigurationError indicates invalid setup input; e.g. an unrecognised
// symmetry tag or an uncovered subdomain
type ConfigurationError string

// Error returns the error message
func (e ConfigurationError) Error() string { return string(e) }

// InvalidSubdomainError indicates a subdomain tag that does not exist in the
// mesh tagging
type InvalidSubdomainError string

// Error returns the error message
func (e InvalidSubdomainError) Error() string { return string(e) }

// Vert holds vertex data
type Vert struct {
	Id  int       // id
	Tag int       // tag
	C   []float64 // coordinates (size==2 or 3)
}

// Cell holds cell data
type Cell struct {

	// input data
	Id    int    // id
	Tag   int    // tag (negative)
	Type  string // geometry type; e.g. "tri3"
	Verts []int  // vertices

	// derived
	Shp *shp.Shape // shape structure
}

// Mesh holds a mesh for FE analyses
type Mesh struct {

	// from JSON
	Verts []*Vert // vertices
	Cells []*Cell // cells
	Sym   string  // symmetry tag; e.g. "vertical-axis-symmetry"

	// derived
	FnamePath  string  // complete filename path (if read from file)
	Ndim       int     // space dimension
	Xmin, Xmax float64 // min and max x-coordinate
	Ymin, Ymax float64 // min and max y-coordinate
	Zmin, Zmax float64 // min and max z-coordinate

	// derived: maps
	VertTag2verts map[int][]*Vert    // vertex tag => set of vertices
	CellTag2cells map[int][]*Cell    // cell tag => set of cells
	Ctype2cells   map[string][]*Cell // cell type => set of cells
	Vert2cells    [][]*Cell          // vertex id => cells sharing vertex
}

// SymWeight returns the symmetry weight function w(x) multiplying all
// integrals, given the mesh symmetry tag and space dimension.
// An unrecognised tag is a configuration error
func SymWeight(symmetry string, ndim int) (w func(x []float64) float64, err error) {
	if ndim == 3 {
		switch symmetry {
		case SymNone, SymCylinderSlice, "":
			return func(x []float64) float64 { return 1.0 }, nil
		}
		return nil, ConfigurationError(io.Sf("symmetry tag %q is not valid for a 3D mesh", symmetry))
	}
	switch symmetry {
	case SymVerticalAxis:
		return func(x []float64) float64 { return math.Abs(x[0]) }, nil
	case SymHorizontalAxis:
		return func(x []float64) float64 { return math.Abs(x[1]) }, nil
	case SymCylinderSlice, SymNone:
		return func(x []float64) float64 { return 1.0 }, nil
	}
	return nil, ConfigurationError(io.Sf("symmetry tag %q is not recognised", symmetry))
}

// ReadMsh reads a mesh from a JSON file
func ReadMsh(dir, fn string) (o *Mesh, err error) {
	o = new(Mesh)
	o.FnamePath = filepath.Join(dir, fn)
	b, err := io.ReadFile(o.FnamePath)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, err
	}
	err = o.CalcDerived()
	if err != nil {
		return nil, err
	}
	return
}

// NewMesh builds a mesh from vertices and cells given programmatically
func NewMesh(verts []*Vert, cells []*Cell, symmetry string) (o *Mesh, err error) {
	o = &Mesh{Verts: verts, Cells: cells, Sym: symmetry}
	err = o.CalcDerived()
	if err != nil {
		return nil, err
	}
	return
}

// CalcDerived computes derived data such as limits, maps and shape structures
func (o *Mesh) CalcDerived() (err error) {

	// check
	if len(o.Verts) < 2 {
		return chk.Err("mesh must have at least 2 vertices. %d is invalid", len(o.Verts))
	}
	if len(o.Cells) < 1 {
		return chk.Err("mesh must have at least 1 cell. %d is invalid", len(o.Cells))
	}

	// vertex related derived data
	o.Ndim = 2
	o.Xmin = o.Verts[0].C[0]
	o.Ymin = o.Verts[0].C[1]
	if len(o.Verts[0].C) > 2 {
		o.Zmin = o.Verts[0].C[2]
	}
	o.Xmax = o.Xmin
	o.Ymax = o.Ymin
	o.Zmax = o.Zmin
	o.VertTag2verts = make(map[int][]*Vert)
	for i, v := range o.Verts {

		// check vertex id
		if v.Id != i {
			return chk.Err("vertex ids must coincide with order in Verts list. %d != %d", v.Id, i)
		}

		// ndim
		nd := len(v.C)
		if nd < 2 || nd > 3 {
			return chk.Err("number of space dimensions must be 2 or 3. %d is invalid", nd)
		}
		if nd == 3 {
			if math.Abs(v.C[2]) > Ztol {
				o.Ndim = 3
			}
		}

		// tags
		if v.Tag < 0 {
			verts := o.VertTag2verts[v.Tag]
			o.VertTag2verts[v.Tag] = append(verts, v)
		}

		// limits
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
		o.Ymin = utl.Min(o.Ymin, v.C[1])
		o.Ymax = utl.Max(o.Ymax, v.C[1])
		if nd > 2 {
			o.Zmin = utl.Min(o.Zmin, v.C[2])
			o.Zmax = utl.Max(o.Zmax, v.C[2])
		}
	}

	// validate symmetry tag eagerly
	_, err = SymWeight(o.Sym, o.Ndim)
	if err != nil {
		return
	}

	// cell related derived data
	o.CellTag2cells = make(map[int][]*Cell)
	o.Ctype2cells = make(map[string][]*Cell)
	o.Vert2cells = make([][]*Cell, len(o.Verts))
	for i, c := range o.Cells {

		// check id and tag
		if c.Id != i {
			return chk.Err("cell ids must coincide with order in Cells list. %d != %d", c.Id, i)
		}
		if c.Tag >= 0 {
			return chk.Err("cell tags must be negative. %d is invalid", c.Tag)
		}

		// derived maps
		cells := o.CellTag2cells[c.Tag]
		o.CellTag2cells[c.Tag] = append(cells, c)
		cells = o.Ctype2cells[c.Type]
		o.Ctype2cells[c.Type] = append(cells, c)
		for _, v := range c.Verts {
			o.Vert2cells[v] = append(o.Vert2cells[v], c)
		}

		// get shape structure
		c.Shp = shp.Get(c.Type, 0)
		if c.Shp == nil {
			return chk.Err("cannot allocate shape structure for cell type %q", c.Type)
		}
		if len(c.Verts) != c.Shp.Nverts {
			return chk.Err("cell %d (%s) must have %d vertices. %d is invalid", c.Id, c.Type, c.Shp.Nverts, len(c.Verts))
		}
	}
	return
}

// ExtCoords returns the coordinates matrix X[ndim][nverts] of a cell
func (o *Mesh) ExtCoords(c *Cell) (X [][]float64) {
	X = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		X[i] = make([]float64, len(c.Verts))
		for m, v := range c.Verts {
			X[i][m] = o.Verts[v].C[i]
		}
	}
	return
}

// SubdomainBoundary computes the exterior boundary facets of the sub-mesh
// tagged with tag. A facet (edge in 2D, face in 3D) is exterior if it belongs
// to exactly one cell of the sub-mesh.
//  Output:
//   facets -- [nfacets][faceNverts] vertex ids
//   verts  -- sorted ids of the vertices of the sub-mesh
func (o *Mesh) SubdomainBoundary(tag int) (facets [][]int, verts []int, err error) {

	// cells of sub-mesh
	cells, ok := o.CellTag2cells[tag]
	if !ok {
		return nil, nil, InvalidSubdomainError(io.Sf("subdomain tag %d does not exist in mesh tagging", tag))
	}

	// count facet occurrences. key built from sorted vertex ids
	count := make(map[string]int)
	facet := make(map[string][]int)
	inSub := make(map[int]bool)
	for _, c := range cells {
		for _, v := range c.Verts {
			inSub[v] = true
		}
		for _, flv := range c.Shp.FaceLocalVerts {
			f := make([]int, len(flv))
			for k, l := range flv {
				f[k] = c.Verts[l]
			}
			key := facetKey(f)
			count[key]++
			facet[key] = f
		}
	}

	// collect exterior facets
	keys := make([]string, 0, len(count))
	for key, n := range count {
		if n == 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		facets = append(facets, facet[key])
	}

	// collect sub-mesh vertices
	for v := range inSub {
		verts = append(verts, v)
	}
	sort.Ints(verts)
	return
}

// facetKey returns a unique map key for a facet given its vertex ids
func facetKey(f []int) string {
	s := make([]int, len(f))
	copy(s, f)
	sort.Ints(s)
	return io.Sf("%v", s)
}
