package slot

import (
	"cmp"
	"slices"
	"sync"

	"github.com/matzehuels/gridslot/pkg/errors"
)

// Kind is a renderable cell kind with a fixed footprint.
type Kind struct {
	Name   string `json:"name" toml:"name" bson:"name"`
	Width  int    `json:"width" toml:"width" bson:"width"`
	Height int    `json:"height" toml:"height" bson:"height"`
	Label  string `json:"label,omitempty" toml:"label,omitempty" bson:"label,omitempty"`
	Color  string `json:"color,omitempty" toml:"color,omitempty" bson:"color,omitempty"`
}

// Validate checks the kind name and footprint.
func (k Kind) Validate() error {
	if err := errors.ValidateKindName(k.Name); err != nil {
		return err
	}
	if k.Width <= 0 || k.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidKind,
			"kind %q has non-positive footprint %dx%d", k.Name, k.Width, k.Height)
	}
	return nil
}

// DisplayLabel returns Label, falling back to Name.
func (k Kind) DisplayLabel() string {
	if k.Label != "" {
		return k.Label
	}
	return k.Name
}

// Ref references a kind by name, as written in slot files.
type Ref struct {
	Kind   string `json:"kind" toml:"kind"`
	Params Params `json:"params,omitempty" toml:"params,omitempty"`
}

// Registry maps kind names to kinds. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates a registry holding the given kinds.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	r := &Registry{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds or replaces a kind.
func (r *Registry) Register(k Kind) error {
	if err := k.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = k
	return nil
}

// Lookup returns the kind with the given name.
func (r *Registry) Lookup(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Footprint returns the width and height of the named kind.
func (r *Registry) Footprint(name string) (width, height int, err error) {
	k, ok := r.Lookup(name)
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeUnknownKind, "unknown kind %q", name)
	}
	return k.Width, k.Height, nil
}

// Kinds returns all registered kinds sorted by name.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b Kind) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.kinds)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &Registry{kinds: make(map[string]Kind, len(r.kinds))}
	for name, k := range r.kinds {
		out.kinds[name] = k
	}
	return out
}

// Slot resolves a kind name into a slot carrying the kind's footprint.
func (r *Registry) Slot(kind string, params Params) (Slot, error) {
	w, h, err := r.Footprint(kind)
	if err != nil {
		return Slot{}, err
	}
	return New(kind, w, h, params), nil
}

// Build resolves rows of references into a matrix.
// Unknown kinds fail with ErrCodeUnknownKind naming the source position.
func (r *Registry) Build(rows [][]Ref) (Matrix, error) {
	m := make(Matrix, len(rows))
	for ri, row := range rows {
		m[ri] = make([]Slot, 0, len(row))
		for ii, ref := range row {
			s, err := r.Slot(ref.Kind, ref.Params)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeUnknownKind, err, "slot %d:%d", ri, ii)
			}
			m[ri] = append(m[ri], s)
		}
	}
	return m, nil
}

// Refs converts a matrix back into kind references.
func Refs(m Matrix) [][]Ref {
	out := make([][]Ref, len(m))
	for r, row := range m {
		out[r] = make([]Ref, len(row))
		for i, s := range row {
			out[r][i] = Ref{Kind: s.Kind, Params: cloneParams(s.Params)}
		}
	}
	return out
}

// Builtin returns a registry with the demo kinds: the tvOS dashboard cells
// (map, chart, logs, character) and the iOS sample cells (salmon, sky).
func Builtin() *Registry {
	r, err := NewRegistry(
		Kind{Name: "map", Width: 2, Height: 2, Label: "Map", Color: "#4f8a8b"},
		Kind{Name: "chart", Width: 2, Height: 1, Label: "Chart", Color: "#f4a261"},
		Kind{Name: "logs", Width: 3, Height: 1, Label: "Logs", Color: "#6d6875"},
		Kind{Name: "character", Width: 1, Height: 1, Label: "Character", Color: "#2a9d8f"},
		Kind{Name: "salmon", Width: 2, Height: 1, Label: "Salmon", Color: "#fa8072"},
		Kind{Name: "sky", Width: 1, Height: 1, Label: "Sky", Color: "#87ceeb"},
	)
	if err != nil {
		panic(err)
	}
	return r
}
