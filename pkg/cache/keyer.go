package cache

// LayoutKeyOpts are the layout inputs besides the graph itself.
type LayoutKeyOpts struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	PinLeft   bool    `json:"pin_left,omitempty"`
	PinRight  bool    `json:"pin_right,omitempty"`
	PinTop    bool    `json:"pin_top,omitempty"`
	PinBottom bool    `json:"pin_bottom,omitempty"`
}

// ArtifactKeyOpts are the render inputs besides the layout.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Labels     bool    `json:"labels,omitempty"`
	Alignments bool    `json:"alignments,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout result for a graph hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of a rendered artifact for a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes inputs into "layout:<sha256>" and "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
