package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	gridio "github.com/matzehuels/gridslot/pkg/io"
)

const testDocument = `name = "demo"

[[rows]]
slots = [{ kind = "character" }, { kind = "sky" }]

[[rows]]
slots = [{ kind = "chart" }]
`

// testEnv is a temporary config, cache and store for one test.
type testEnv struct {
	dir    string
	config string
	doc    string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := "[cache]\nbackend = \"file\"\ndir = '" + filepath.Join(dir, "cache") + "'\n\n" +
		"[store]\nbackend = \"file\"\ndir = '" + filepath.Join(dir, "layouts") + "'\n"
	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		doc:    filepath.Join(dir, "demo.toml"),
	}
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.doc, []byte(testDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes the CLI with args and returns what the command wrote.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"pack", "move", "render", "kinds", "layouts", "serve", "tui", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestLoadDocument(t *testing.T) {
	env := newTestEnv(t)
	doc, err := loadDocument(env.doc)
	if err != nil {
		t.Fatalf("loadDocument() error: %v", err)
	}
	if doc.Matrix.Count() != 3 {
		t.Errorf("Count() = %d, want 3", doc.Matrix.Count())
	}
	if _, ok := doc.Registry.Lookup("chart"); !ok {
		t.Error("registry should hold the built-in kinds")
	}

	if _, err := loadDocument(filepath.Join(env.dir, "demo.yaml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("loadDocument(.yaml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestPackCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "pack", env.doc, "-o", "-")
	if err != nil {
		t.Fatalf("pack error: %v", err)
	}
	var packed gridio.PackedJSON
	if err := json.Unmarshal([]byte(out), &packed); err != nil {
		t.Fatalf("pack output is not JSON: %v\n%s", err, out)
	}
	if packed.Rows != 2 || packed.Columns != 2 || len(packed.Placements) != 3 {
		t.Errorf("packed = %dx%d with %d placements, want 2x2 with 3", packed.Rows, packed.Columns, len(packed.Placements))
	}

	out, err = env.run(t, "pack", env.doc)
	if err != nil {
		t.Fatalf("pack error: %v", err)
	}
	if !strings.Contains(out, "0:0") || !strings.Contains(out, "Chart") {
		t.Errorf("pack drawing missing labels:\n%s", out)
	}
}

func TestMoveCommand(t *testing.T) {
	env := newTestEnv(t)
	moved := filepath.Join(env.dir, "moved.toml")

	if _, err := env.run(t, "move", env.doc, "-t", "0:1", "-d", "left", "-o", moved, "--save", "home"); err != nil {
		t.Fatalf("move error: %v", err)
	}

	doc, err := gridio.Import(moved)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Rows[0].Slots[0].Kind; got != "sky" {
		t.Errorf("first slot after move = %q, want sky", got)
	}

	out, err := env.run(t, "layouts", "get", "home")
	if err != nil {
		t.Fatalf("layouts get error: %v", err)
	}
	if !strings.Contains(out, `"sky"`) {
		t.Errorf("saved layout missing moved slot:\n%s", out)
	}
}

func TestMoveCommandRejected(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "move", env.doc, "-t", "0:0", "-d", "left")
	if !errors.Is(err, errors.ErrCodeMoveRejected) {
		t.Errorf("move error = %v, want MOVE_REJECTED", err)
	}

	_, err = env.run(t, "move", env.doc, "-t", "9:0", "-d", "left")
	if !errors.Is(err, errors.ErrCodeIndexOutOfRange) {
		t.Errorf("move error = %v, want INDEX_OUT_OF_RANGE", err)
	}
}

func TestParseDirections(t *testing.T) {
	dirs, err := parseDirections("left, up,right")
	if err != nil {
		t.Fatal(err)
	}
	want := []grid.Direction{grid.Left, grid.Up, grid.Right}
	if len(dirs) != len(want) {
		t.Fatalf("parseDirections() = %v, want %v", dirs, want)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("dirs[%d] = %s, want %s", i, dirs[i], want[i])
		}
	}

	for _, bad := range []string{"", " , ", "sideways"} {
		if _, err := parseDirections(bad); err == nil {
			t.Errorf("parseDirections(%q) should fail", bad)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	env := newTestEnv(t)
	base := filepath.Join(env.dir, "out", "demo")

	if _, err := env.run(t, "render", env.doc, "-f", "svg,json,dot", "-o", base); err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, ext := range []string{"svg", "json", "dot"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Errorf("missing %s output: %v", ext, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}

	out, err := env.run(t, "render", env.doc, "-f", "json", "-o", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"frames"`) {
		t.Errorf("json on stdout missing frames:\n%.200s", out)
	}
}

func TestRenderCommandArgs(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "render"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render without source error = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run(t, "render", env.doc, "--layout", "home"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render with both sources error = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run(t, "render", env.doc, "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif error = %v, want INVALID_FORMAT", err)
	}
	if _, err := env.run(t, "render", env.doc, "-f", "svg,png", "-o", "-"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("multi-format stdout error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderSavedLayout(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "layouts", "put", "home", env.doc); err != nil {
		t.Fatalf("layouts put error: %v", err)
	}
	out, err := env.run(t, "render", "--layout", "home", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render --layout error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("render --layout dot = %.40q", out)
	}
}

func TestLayoutsCommands(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "layouts", "put", "home", env.doc); err != nil {
		t.Fatalf("put error: %v", err)
	}
	out, err := env.run(t, "layouts", "list")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if !strings.Contains(out, "home") {
		t.Errorf("list output missing home:\n%s", out)
	}

	exported := filepath.Join(env.dir, "home.json")
	if _, err := env.run(t, "layouts", "get", "home", "-o", exported); err != nil {
		t.Fatalf("get -o error: %v", err)
	}
	doc, err := gridio.Import(exported)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "home" || len(doc.Rows) != 2 {
		t.Errorf("exported document = %+v", doc)
	}

	if _, err := env.run(t, "layouts", "delete", "home"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := env.run(t, "layouts", "get", "home"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("get after delete error = %v, want LAYOUT_NOT_FOUND", err)
	}
	if _, err := env.run(t, "layouts", "put", "../escape", env.doc); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("put with bad name error = %v, want INVALID_NAME", err)
	}
}

func TestKindsCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "kinds")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"map", "chart", "logs", "character", "salmon", "sky"} {
		if !strings.Contains(out, name) {
			t.Errorf("kinds output missing %q", name)
		}
	}
	if !strings.Contains(out, "2x2") {
		t.Error("kinds output missing footprints")
	}
}

func TestCompletionCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the program name")
	}
	if _, err := env.run(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestCompleteLayoutNames(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"home", "hall"} {
		if _, err := env.run(t, "layouts", "put", name, env.doc); err != nil {
			t.Fatal(err)
		}
	}

	out, err := env.run(t, "__complete", "layouts", "get", "ho")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "home") || strings.Contains(out, "hall") {
		t.Errorf("completion output = %q", out)
	}
}

func TestCompleteDirections(t *testing.T) {
	got, _ := completeDirections(nil, nil, "left,r")
	if len(got) != 1 || got[0] != "left,right" {
		t.Errorf("completeDirections(left,r) = %v", got)
	}
	if got, _ := completeDirections(nil, nil, ""); len(got) != 4 {
		t.Errorf("completeDirections(\"\") = %v, want all four", got)
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.config, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "pack", env.doc); err == nil || !strings.Contains(err.Error(), "invalid cache backend") {
		t.Errorf("pack with bad config error = %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg, pdf,,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
