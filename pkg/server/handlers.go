package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/matzehuels/gridslot/pkg/buildinfo"
	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/frame"
	"github.com/matzehuels/gridslot/pkg/grid"
	gridio "github.com/matzehuels/gridslot/pkg/io"
	"github.com/matzehuels/gridslot/pkg/observability"
	"github.com/matzehuels/gridslot/pkg/pipeline"
	"github.com/matzehuels/gridslot/pkg/render"
	"github.com/matzehuels/gridslot/pkg/slot"
	"github.com/matzehuels/gridslot/pkg/store"
)

// PackRequest asks for a document to be packed and laid out.
type PackRequest struct {
	Document gridio.Document `json:"document"`
	Width    float64         `json:"width,omitempty"`
	Height   float64         `json:"height,omitempty"`
	Padding  float64         `json:"padding,omitempty"`
}

// PackResponse carries the packed grid and its frames.
type PackResponse struct {
	Hash   string            `json:"hash"`
	Packed gridio.PackedJSON `json:"packed"`
	Layout frame.Layout      `json:"layout"`
}

// MoveRequest asks for one rearrangement step. With Save set, the
// rearranged document is stored under that name.
type MoveRequest struct {
	Document  gridio.Document `json:"document"`
	Target    string          `json:"target"`
	Direction string          `json:"direction"`
	Save      string          `json:"save,omitempty"`
}

// MoveResponse carries the rearranged document and how identities moved.
type MoveResponse struct {
	Hash      string            `json:"hash"`
	Document  *gridio.Document  `json:"document"`
	Packed    gridio.PackedJSON `json:"packed"`
	Mapping   map[string]string `json:"mapping"`
	Displaced []string          `json:"displaced"`
	Revision  string            `json:"revision,omitempty"`
}

// RenderRequest asks for a document to be rendered.
type RenderRequest struct {
	Document gridio.Document  `json:"document"`
	Options  pipeline.Options `json:"options"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type healthBody struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthBody{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.Kinds())
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var req PackRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, reg, err := s.resolve(&req.Document)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	p, hash, err := s.runner.Pack(ctx, m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.Layout(ctx, p, hash, reg, pipeline.Options{
		Width: req.Width, Height: req.Height, Padding: req.Padding,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PackResponse{Hash: hash, Packed: gridio.ExportPacked(p), Layout: l})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := grid.ParseID(req.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dir, err := grid.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, reg, err := s.resolve(&req.Document)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	p, hash, err := s.runner.Pack(ctx, m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Move(ctx, p, hash, target, dir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := MoveResponse{
		Hash:      res.PackHash,
		Document:  req.Document.Rearranged(res.Matrix, reg),
		Packed:    gridio.ExportPacked(res.Packed),
		Mapping:   make(map[string]string, len(res.Mapping)),
		Displaced: make([]string, 0, len(res.Displaced)),
	}
	for from, to := range res.Mapping {
		resp.Mapping[from.String()] = to.String()
	}
	for _, id := range res.Displaced {
		resp.Displaced = append(resp.Displaced, id.String())
	}
	if req.Save != "" {
		rec, err := s.store.Put(ctx, req.Save, resp.Document)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Document = rec.Document
		resp.Revision = rec.Revision
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, &req.Document, req.Options)
}

func (s *Server) handleRenderLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{
		Style:     r.URL.Query().Get("style"),
		Highlight: r.URL.Query().Get("highlight"),
		GridLines: r.URL.Query().Has("grid"),
	}
	s.render(w, r, rec.Document, opts)
}

// render writes a single artifact in the format named by the URL.
func (s *Server) render(w http.ResponseWriter, r *http.Request, doc *gridio.Document, opts pipeline.Options) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	opts = s.withDefaults(opts)
	opts.Formats = []string{format}

	m, reg, err := s.resolve(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), m, reg, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("X-Gridslot-Hash", res.PackHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	var doc gridio.Document
	if err := s.decode(w, r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Reject documents that would not pack.
	if _, _, err := s.resolve(&doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Put(r.Context(), chi.URLParam(r, "name"), &doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolve turns a document into a validated matrix and its registry.
func (s *Server) resolve(doc *gridio.Document) (slot.Matrix, *slot.Registry, error) {
	reg, err := doc.Registry(s.registry)
	if err != nil {
		return nil, nil, err
	}
	m, err := doc.Matrix(s.registry)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	return m, reg, nil
}

func (s *Server) withDefaults(o pipeline.Options) pipeline.Options {
	d := s.defaults
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
	if o.Style == "" {
		o.Style = d.Style
	}
	if o.Scale == 0 {
		o.Scale = d.Scale
	}
	return o
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(err)
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: msg})
}
