package io

import (
	"slices"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Document is the on-disk form of a slot matrix.
type Document struct {
	Name  string      `json:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Kinds []slot.Kind `json:"kinds,omitempty" toml:"kinds,omitempty" bson:"kinds,omitempty"`
	Rows  []Row       `json:"rows" toml:"rows" bson:"rows"`
}

// Row is one source row.
type Row struct {
	Slots []slot.Ref `json:"slots" toml:"slots" bson:"slots"`
}

// Registry returns base extended with the document's own kinds. base is not
// modified; a nil base means the built-in kinds.
func (d *Document) Registry(base *slot.Registry) (*slot.Registry, error) {
	if base == nil {
		base = slot.Builtin()
	}
	reg := base.Clone()
	for _, k := range d.Kinds {
		if err := reg.Register(k); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidKind, err, "document %q", d.Name)
		}
	}
	return reg, nil
}

// Matrix resolves every slot reference against base plus the document's kinds.
func (d *Document) Matrix(base *slot.Registry) (slot.Matrix, error) {
	reg, err := d.Registry(base)
	if err != nil {
		return nil, err
	}
	refs := make([][]slot.Ref, len(d.Rows))
	for i, r := range d.Rows {
		refs[i] = r.Slots
	}
	return reg.Build(refs)
}

// FromMatrix builds a document from m. Kinds unknown to reg are declared
// inline with the footprint found in m, so the document is self-contained.
func FromMatrix(name string, m slot.Matrix, reg *slot.Registry) *Document {
	if reg == nil {
		reg = slot.Builtin()
	}
	d := &Document{Name: name, Rows: make([]Row, len(m))}
	declared := make(map[string]bool)
	for i, refs := range slot.Refs(m) {
		d.Rows[i] = Row{Slots: refs}
	}
	for _, row := range m {
		for _, s := range row {
			if k, ok := reg.Lookup(s.Kind); ok && k.Width == s.Width && k.Height == s.Height {
				continue
			}
			if declared[s.Kind] {
				continue
			}
			declared[s.Kind] = true
			d.Kinds = append(d.Kinds, slot.Kind{Name: s.Kind, Width: s.Width, Height: s.Height})
		}
	}
	return d
}

// Rearranged returns a copy of d holding m in place of d's rows, keeping d's
// own kind declarations. reg should be the document's registry as returned
// by Registry.
func (d *Document) Rearranged(m slot.Matrix, reg *slot.Registry) *Document {
	out := FromMatrix(d.Name, m, reg)
	out.Kinds = append(slices.Clone(d.Kinds), out.Kinds...)
	return out
}
