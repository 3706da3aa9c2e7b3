// Package store persists named slot documents, typically layouts saved after
// a user rearranges a grid.
//
// Backends implement [Store]:
//   - memory: in-process map, for tests and the server's default
//   - file: one JSON file per layout, for the CLI
//   - sqlite: a single database file (modernc.org/sqlite, no cgo)
//   - mongo: a MongoDB collection for shared deployments
//
// Every Put assigns a fresh revision id so clients can tell whether a layout
// changed since they last read it.
//
//	s, err := store.NewFileStore("")
//	rec, err := s.Put(ctx, "dashboard", doc)
//	rec, err = s.Get(ctx, "dashboard")
//	if errors.Is(err, errors.ErrCodeLayoutNotFound) { ... }
package store

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gridslot/pkg/errors"
	gridio "github.com/matzehuels/gridslot/pkg/io"
)

// Store persists documents by name.
type Store interface {
	// Get returns the named record or an ErrCodeLayoutNotFound error.
	Get(ctx context.Context, name string) (*Record, error)
	// Put creates or replaces the named record and assigns a new revision.
	Put(ctx context.Context, name string, doc *gridio.Document) (*Record, error)
	// Delete removes the named record. Deleting a missing record is not an error.
	Delete(ctx context.Context, name string) error
	// List returns summaries sorted by name.
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

// Record is a stored document.
type Record struct {
	Name      string           `json:"name"`
	Revision  string           `json:"revision"`
	UpdatedAt time.Time        `json:"updated_at"`
	Document  *gridio.Document `json:"document"`
}

// Summary describes a record without its document.
type Summary struct {
	Name      string    `json:"name"`
	Revision  string    `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
	Rows      int       `json:"rows"`
	Slots     int       `json:"slots"`
}

// Summary returns the record's summary.
func (r *Record) Summary() Summary {
	s := Summary{Name: r.Name, Revision: r.Revision, UpdatedAt: r.UpdatedAt}
	if r.Document != nil {
		s.Rows = len(r.Document.Rows)
		for _, row := range r.Document.Rows {
			s.Slots += len(row.Slots)
		}
	}
	return s
}

// newRecord validates the name and stamps a new revision. The document is
// copied through its JSON form so callers can keep mutating theirs.
func newRecord(name string, doc *gridio.Document) (*Record, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout %q has no document", name)
	}
	cp, err := cloneDocument(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout %q", name)
	}
	cp.Name = name
	return &Record{
		Name:      name,
		Revision:  uuid.NewString(),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Document:  cp,
	}, nil
}

func cloneDocument(doc *gridio.Document) (*gridio.Document, error) {
	data, err := gridio.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return gridio.Unmarshal(data)
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", name)
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int { return cmp.Compare(a.Name, b.Name) })
}

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[name]
	if !ok {
		return nil, notFound(name)
	}
	return copyRecord(rec)
}

func (s *MemoryStore) Put(ctx context.Context, name string, doc *gridio.Document) (*Record, error) {
	rec, err := newRecord(name, doc)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name] = rec
	return copyRecord(rec)
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.records))
	for _, name := range slices.Sorted(maps.Keys(s.records)) {
		out = append(out, s.records[name].Summary())
	}
	return out, nil
}

func copyRecord(rec *Record) (*Record, error) {
	doc, err := cloneDocument(rec.Document)
	if err != nil {
		return nil, err
	}
	cp := *rec
	cp.Document = doc
	return &cp, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend string
	Dir     string // file backend directory
	Path    string // sqlite database path
	Mongo   MongoOptions
}

// Open creates the configured store. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		if opts.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sqlite store needs a path")
		}
		return NewSQLiteStore(opts.Path)
	case BackendMongo:
		return NewMongoStore(ctx, opts.Mongo)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want file, sqlite, mongo or memory)", opts.Backend)
}
