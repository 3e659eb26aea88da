// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cham

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "gob" {
		return gob.NewEncoder(w)
	}
	return json.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "gob" {
		return gob.NewDecoder(r)
	}
	return json.NewDecoder(r)
}

// solArtifact is the on-disk representation of the solver state
type solArtifact struct {
	Alpha        float64
	N            int
	Niter        int
	DuNorm       float64
	FieldVersion int
	Field        []float64
}

// derArtifact is the on-disk representation of one derived quantity
type derArtifact struct {
	FieldVersion int
	V            []float64
}

// out_sol_path and out_der_path build the artifact file names
func out_sol_path(dirout, fnkey, enctype string) string {
	return io.Sf("%s/%s_sol.%s", dirout, fnkey, enctype)
}
func out_der_path(dirout, fnkey, name, enctype string) string {
	return io.Sf("%s/%s_%s.%s", dirout, fnkey, name, enctype)
}

// SaveResults saves the field and every cached derived quantity to dirout,
// one file per artifact. Uncached quantities are simply skipped; they are
// recomputed on demand after loading
func (o *Solver) SaveResults(dirout, fnkey, enctype string) (err error) {
	if o.Field == nil {
		return chk.Err("no field to save: run a solve first")
	}
	err = os.MkdirAll(dirout, 0755)
	if err != nil {
		return chk.Err("cannot create output directory %q: %v", dirout, err)
	}
	err = save_artifact(out_sol_path(dirout, fnkey, enctype), enctype, solArtifact{
		Alpha:        o.Alpha,
		N:            o.N,
		Niter:        o.Niter,
		DuNorm:       o.DuNorm,
		FieldVersion: o.FieldVersion,
		Field:        o.Field,
	})
	if err != nil {
		return
	}
	for _, d := range []struct {
		name string
		v    []float64
		ver  int
	}{
		{"grad", o.cache.gradient, o.cache.gradientVer},
		{"gradmag", o.cache.gradMag, o.cache.gradMagVer},
		{"residual", o.cache.residual, o.cache.residualVer},
		{"laplacian", o.cache.laplacian, o.cache.laplacianVer},
		{"potderiv", o.cache.potDeriv, o.cache.potDerivVer},
		{"density", o.DensityProjection, 0},
	} {
		if d.v == nil {
			continue
		}
		err = save_artifact(out_der_path(dirout, fnkey, d.name, enctype), enctype, derArtifact{FieldVersion: d.ver, V: d.v})
		if err != nil {
			return
		}
	}
	return
}

// LoadResults restores a previously saved field (and any derived artifacts
// found alongside it) into this solver. The solver must have been built over
// the same mesh: the vector lengths are checked against the domain
func (o *Solver) LoadResults(dirout, fnkey, enctype string) (err error) {

	// solution artifact
	var sol solArtifact
	err = load_artifact(out_sol_path(dirout, fnkey, enctype), enctype, &sol)
	if err != nil {
		return
	}
	if len(sol.Field) != o.Dom.Ny {
		return chk.Err("saved field has %d DOFs but the domain has %d", len(sol.Field), o.Dom.Ny)
	}
	if sol.Alpha != o.Alpha || sol.N != o.N {
		return chk.Err("saved results were computed with alpha=%g n=%d; this solver has alpha=%g n=%d", sol.Alpha, sol.N, o.Alpha, o.N)
	}
	o.Field = sol.Field
	o.Niter = sol.Niter
	o.DuNorm = sol.DuNorm
	o.FieldVersion = sol.FieldVersion

	// derived artifacts, when present. stale ones (older field version) are
	// dropped rather than restored
	o.cache = derivedCache{}
	for _, d := range []struct {
		name string
		v    *[]float64
		ver  *int
		sz   int
	}{
		{"grad", &o.cache.gradient, &o.cache.gradientVer, o.Dom.Nv},
		{"gradmag", &o.cache.gradMag, &o.cache.gradMagVer, o.Dom.Ny},
		{"residual", &o.cache.residual, &o.cache.residualVer, o.Dom.Ny},
		{"laplacian", &o.cache.laplacian, &o.cache.laplacianVer, o.Dom.Ny},
		{"potderiv", &o.cache.potDeriv, &o.cache.potDerivVer, o.Dom.Ny},
	} {
		fn := out_der_path(dirout, fnkey, d.name, enctype)
		if _, e := os.Stat(fn); e != nil {
			continue
		}
		var der derArtifact
		err = load_artifact(fn, enctype, &der)
		if err != nil {
			return
		}
		if len(der.V) != d.sz {
			return chk.Err("saved %s artifact has wrong size %d (want %d)", d.name, len(der.V), d.sz)
		}
		if der.FieldVersion != sol.FieldVersion {
			continue // stale: computed against an older field
		}
		*d.v = der.V
		*d.ver = der.FieldVersion
	}
	return
}

// save_artifact encodes e into fn
func save_artifact(fn, enctype string, e interface{}) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	err = enc.Encode(e)
	if err != nil {
		return chk.Err("cannot encode %q: %v", fn, err)
	}
	err = os.WriteFile(fn, buf.Bytes(), 0644)
	if err != nil {
		return chk.Err("cannot write %q: %v", fn, err)
	}
	return
}

// load_artifact decodes fn into e
func load_artifact(fn, enctype string, e interface{}) (err error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return chk.Err("cannot read %q: %v", fn, err)
	}
	dec := GetDecoder(bytes.NewBuffer(b), enctype)
	err = dec.Decode(e)
	if err != nil {
		return chk.Err("cannot decode %q: %v", fn, err)
	}
	return
}
