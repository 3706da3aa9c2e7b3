package cache

// LayoutKeyOpts are the frame options that change a layout.
type LayoutKeyOpts struct {
	Width   float64 `json:"w"`
	Height  float64 `json:"h"`
	Padding float64 `json:"p"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"f"`
	Style     string  `json:"s"`
	GridLines bool    `json:"g,omitempty"`
	NoLabels  bool    `json:"nl,omitempty"`
	Highlight string  `json:"hl,omitempty"`
	Detailed  bool    `json:"d,omitempty"`
	Scale     float64 `json:"sc,omitempty"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// PackKey keys a packed grid by the hash of its source matrix.
	PackKey(matrixHash string) string
	// MoveKey keys a move result by pack hash, target and direction.
	MoveKey(packHash, target, direction string) string
	// LayoutKey keys frames by pack hash and frame options.
	LayoutKey(packHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PackKey(matrixHash string) string {
	return "pack:" + keyVersion + ":" + matrixHash
}

func (DefaultKeyer) MoveKey(packHash, target, direction string) string {
	return hashKey("move", packHash, target, direction)
}

func (DefaultKeyer) LayoutKey(packHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", packHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
