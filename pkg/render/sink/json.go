package sink

import (
	"github.com/goccy/go-json"

	"github.com/matzehuels/gridslot/pkg/frame"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style  string
	indent bool
}

// WithJSONStyle records the style name in the output for round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Style string `json:"style,omitempty"`
	frame.Layout
}

// RenderJSON serialises the layout with its frames.
func RenderJSON(l frame.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{Style: r.style, Layout: l}
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// ParseJSON reads a layout written by RenderJSON.
func ParseJSON(data []byte) (frame.Layout, string, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return frame.Layout{}, "", err
	}
	return out.Layout, out.Style, nil
}
